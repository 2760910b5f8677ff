package entities

import (
	"time"
)

type UserRole string

const (
	UserRoleParent UserRole = "PARENT"
	UserRoleChild  UserRole = "CHILD"
)

// ValidRole reports whether r is one of the known user roles.
func ValidRole(r UserRole) bool {
	return r == UserRoleParent || r == UserRoleChild
}

// User is a household member. FamilyID is nil until the user creates or
// joins a family. PasswordHash and the one-time tokens never leave the
// server; they are excluded from JSON.
type User struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Email        string   `gorm:"uniqueIndex;size:255" json:"email"`
	Username     string   `gorm:"uniqueIndex;size:50" json:"username"`
	FirstName    string   `gorm:"size:100" json:"first_name"`
	LastName     string   `gorm:"size:100" json:"last_name"`
	PasswordHash string   `gorm:"size:255" json:"-"`
	Role         UserRole `gorm:"size:20;default:'CHILD'" json:"role"`

	FamilyID *uint   `gorm:"index" json:"family_id,omitempty"`
	Family   *Family `gorm:"foreignKey:FamilyID" json:"family,omitempty"`

	IsActive      bool `gorm:"default:true" json:"is_active"`
	EmailVerified bool `gorm:"default:false" json:"email_verified"`

	EmailVerificationToken   string     `gorm:"size:64" json:"-"`
	EmailVerificationExpires *time.Time `json:"-"`
	PasswordResetToken       string     `gorm:"size:64" json:"-"`
	PasswordResetExpires     *time.Time `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
