// Package users provides database operations for user management.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByEmail(email)
package users

import (
	"time"

	"gorm.io/gorm"

	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateData carries the fields for a new user. The password is expected
// to be hashed already.
type CreateData struct {
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         entities.UserRole
	FamilyID     *uint
}

// UpdateData carries optional profile updates; nil fields are untouched.
type UpdateData struct {
	FirstName     *string
	LastName      *string
	Role          *entities.UserRole
	IsActive      *bool
	EmailVerified *bool
}

// Filters narrows List results. Zero values are ignored; Search matches
// first name, last name, username and email as substrings.
type Filters struct {
	FamilyID      *uint
	Role          entities.UserRole
	IsActive      *bool
	EmailVerified *bool
	Search        string
}

// Create inserts a new user. Unique-constraint violations on email or
// username propagate as raw store errors for the caller to translate.
func (r *Repository) Create(data CreateData) (*entities.User, error) {
	role := data.Role
	if role == "" {
		role = entities.UserRoleChild
	}

	user := &entities.User{
		Email:        data.Email,
		Username:     data.Username,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		PasswordHash: data.PasswordHash,
		Role:         role,
		FamilyID:     data.FamilyID,
		IsActive:     true,
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by ID with their family preloaded.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.Preload("Family").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *Repository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Preload("Family").Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username.
func (r *Repository) GetByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Preload("Family").Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns a page of users matching the filters plus the pagination
// envelope.
func (r *Repository) List(filters Filters, opts database.PaginationOptions) ([]entities.User, database.Pagination, error) {
	page, limit, offset := opts.Normalize()

	query := r.db.Model(&entities.User{})
	if filters.FamilyID != nil {
		query = query.Where("family_id = ?", *filters.FamilyID)
	}
	if filters.Role != "" {
		query = query.Where("role = ?", filters.Role)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.EmailVerified != nil {
		query = query.Where("email_verified = ?", *filters.EmailVerified)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR username LIKE ? OR email LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, database.Pagination{}, err
	}

	var rows []entities.User
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, database.Pagination{}, err
	}

	return rows, database.NewPagination(page, limit, total), nil
}

// Update applies the non-nil fields of data to the user.
func (r *Repository) Update(id uint, data UpdateData) (*entities.User, error) {
	updates := map[string]any{}
	if data.FirstName != nil {
		updates["first_name"] = *data.FirstName
	}
	if data.LastName != nil {
		updates["last_name"] = *data.LastName
	}
	if data.Role != nil {
		updates["role"] = *data.Role
	}
	if data.IsActive != nil {
		updates["is_active"] = *data.IsActive
	}
	if data.EmailVerified != nil {
		updates["email_verified"] = *data.EmailVerified
	}

	if len(updates) > 0 {
		result := r.db.Model(&entities.User{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetByID(id)
}

// Delete removes a user. Join rows cascade via foreign keys.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetFamily attaches the user to a family, or detaches when familyID is
// nil.
func (r *Repository) SetFamily(id uint, familyID *uint) error {
	result := r.db.Model(&entities.User{}).Where("id = ?", id).Update("family_id", familyID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateLastLogin stamps the last successful authentication time.
func (r *Repository) UpdateLastLogin(id uint) error {
	now := time.Now()
	return r.db.Model(&entities.User{}).Where("id = ?", id).Update("last_login_at", now).Error
}

// UpdatePassword replaces the password hash and clears any outstanding
// reset token.
func (r *Repository) UpdatePassword(id uint, passwordHash string) error {
	return r.db.Model(&entities.User{}).Where("id = ?", id).Updates(map[string]any{
		"password_hash":          passwordHash,
		"password_reset_token":   "",
		"password_reset_expires": nil,
	}).Error
}

// SetPasswordResetToken stores a reset token with its expiry.
func (r *Repository) SetPasswordResetToken(id uint, token string, expiresAt time.Time) error {
	return r.db.Model(&entities.User{}).Where("id = ?", id).Updates(map[string]any{
		"password_reset_token":   token,
		"password_reset_expires": expiresAt,
	}).Error
}

// GetByPasswordResetToken looks up a user by an unexpired reset token.
func (r *Repository) GetByPasswordResetToken(token string) (*entities.User, error) {
	var user entities.User
	err := r.db.
		Where("password_reset_token = ? AND password_reset_expires > ?", token, time.Now()).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetEmailVerificationToken stores a verification token with its expiry.
func (r *Repository) SetEmailVerificationToken(id uint, token string, expiresAt time.Time) error {
	return r.db.Model(&entities.User{}).Where("id = ?", id).Updates(map[string]any{
		"email_verification_token":   token,
		"email_verification_expires": expiresAt,
	}).Error
}

// GetByEmailVerificationToken looks up a user by an unexpired verification
// token.
func (r *Repository) GetByEmailVerificationToken(token string) (*entities.User, error) {
	var user entities.User
	err := r.db.
		Where("email_verification_token = ? AND email_verification_expires > ?", token, time.Now()).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// VerifyEmail marks the user verified and clears the token.
func (r *Repository) VerifyEmail(id uint) error {
	return r.db.Model(&entities.User{}).Where("id = ?", id).Updates(map[string]any{
		"email_verified":             true,
		"email_verification_token":   "",
		"email_verification_expires": nil,
	}).Error
}

// ClearExpiredTokens blanks reset and verification tokens whose expiry has
// passed. Returns the number of users touched.
func (r *Repository) ClearExpiredTokens(now time.Time) (int64, error) {
	reset := r.db.Model(&entities.User{}).
		Where("password_reset_token <> '' AND password_reset_expires <= ?", now).
		Updates(map[string]any{
			"password_reset_token":   "",
			"password_reset_expires": nil,
		})
	if reset.Error != nil {
		return 0, reset.Error
	}

	verify := r.db.Model(&entities.User{}).
		Where("email_verification_token <> '' AND email_verification_expires <= ?", now).
		Updates(map[string]any{
			"email_verification_token":   "",
			"email_verification_expires": nil,
		})
	if verify.Error != nil {
		return reset.RowsAffected, verify.Error
	}

	return reset.RowsAffected + verify.RowsAffected, nil
}

// GetFamilyMembers returns the active members of a family, parents first.
func (r *Repository) GetFamilyMembers(familyID uint) ([]entities.User, error) {
	var members []entities.User
	err := r.db.
		Where("family_id = ? AND is_active = ?", familyID, true).
		Order("role DESC, first_name ASC").
		Find(&members).Error
	return members, err
}

// UserStats is a per-user tally of tracked items.
type UserStats struct {
	TotalBooks      int64 `json:"total_books"`
	TotalStreaming  int64 `json:"total_streaming"`
	TotalActivities int64 `json:"total_activities"`
}

// GetStats counts the user's shelf rows, watchlist rows and activities.
func (r *Repository) GetStats(userID uint) (*UserStats, error) {
	var stats UserStats

	if err := r.db.Model(&entities.UserBook{}).Where("user_id = ?", userID).Count(&stats.TotalBooks).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.UserStreamingItem{}).Where("user_id = ?", userID).Count(&stats.TotalStreaming).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.Activity{}).Where("user_id = ?", userID).Count(&stats.TotalActivities).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
