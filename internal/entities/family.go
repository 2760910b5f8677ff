package entities

import (
	"time"
)

// InviteCodeLength is the fixed length of family invite codes.
const InviteCodeLength = 8

// DefaultMaxMembers is the member cap applied when a family is created
// without an explicit limit.
const DefaultMaxMembers = 10

// Family is a household group. Users, books and streaming content all hang
// off a family; the invite code is the only way to join an existing one.
type Family struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100" json:"name"`
	Description string `gorm:"size:500" json:"description,omitempty"`
	InviteCode  string `gorm:"uniqueIndex;size:8" json:"invite_code"`
	IsPrivate   bool   `gorm:"default:false" json:"is_private"`
	MaxMembers  int    `gorm:"default:10" json:"max_members"`

	Members          []User             `gorm:"foreignKey:FamilyID" json:"members,omitempty"`
	Books            []Book             `gorm:"foreignKey:FamilyID" json:"books,omitempty"`
	StreamingContent []StreamingContent `gorm:"foreignKey:FamilyID" json:"streaming_content,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Family) TableName() string {
	return "families"
}
