// Package families provides database operations for family groups and
// their invite codes.
package families

import (
	"crypto/rand"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/entities"
)

// Invite codes use an unambiguous uppercase alphabet (no I, O, 0, 1).
const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// maxInviteCodeAttempts bounds the insert retry loop on code collisions.
const maxInviteCodeAttempts = 10

// Repository handles all family database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new families repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateData carries the fields for a new family.
type CreateData struct {
	Name        string
	Description string
	IsPrivate   bool
	MaxMembers  int
}

// UpdateData carries optional family updates; nil fields are untouched.
type UpdateData struct {
	Name        *string
	Description *string
	IsPrivate   *bool
	MaxMembers  *int
}

// GenerateInviteCode returns a random invite code. Uniqueness is enforced
// by the database, not here.
func GenerateInviteCode() (string, error) {
	buf := make([]byte, entities.InviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating invite code: %w", err)
	}
	for i, b := range buf {
		buf[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(buf), nil
}

// Create inserts a new family with a freshly generated invite code. The
// code is not pre-checked; the insert relies on the unique index and
// retries with a new code on collision.
func (r *Repository) Create(data CreateData) (*entities.Family, error) {
	maxMembers := data.MaxMembers
	if maxMembers <= 0 {
		maxMembers = entities.DefaultMaxMembers
	}

	for attempt := 0; attempt < maxInviteCodeAttempts; attempt++ {
		code, err := GenerateInviteCode()
		if err != nil {
			return nil, err
		}

		family := &entities.Family{
			Name:        data.Name,
			Description: data.Description,
			InviteCode:  code,
			IsPrivate:   data.IsPrivate,
			MaxMembers:  maxMembers,
		}

		err = r.db.Create(family).Error
		if err == nil {
			return family, nil
		}
		if database.IsUniqueViolation(err, "families.invite_code") {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("could not allocate a unique invite code after %d attempts", maxInviteCodeAttempts)
}

// GetByID retrieves a family by ID.
func (r *Repository) GetByID(id uint) (*entities.Family, error) {
	var family entities.Family
	if err := r.db.First(&family, id).Error; err != nil {
		return nil, err
	}
	return &family, nil
}

// GetByInviteCode retrieves a family by its invite code.
func (r *Repository) GetByInviteCode(code string) (*entities.Family, error) {
	var family entities.Family
	err := r.db.Where("invite_code = ?", code).First(&family).Error
	if err != nil {
		return nil, err
	}
	return &family, nil
}

// List returns a page of families, newest first. Private families are
// included; visibility is a handler concern.
func (r *Repository) List(opts database.PaginationOptions) ([]entities.Family, database.Pagination, error) {
	page, limit, offset := opts.Normalize()

	var total int64
	if err := r.db.Model(&entities.Family{}).Count(&total).Error; err != nil {
		return nil, database.Pagination{}, err
	}

	var rows []entities.Family
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, database.Pagination{}, err
	}

	return rows, database.NewPagination(page, limit, total), nil
}

// Update applies the non-nil fields of data to the family.
func (r *Repository) Update(id uint, data UpdateData) (*entities.Family, error) {
	updates := map[string]any{}
	if data.Name != nil {
		updates["name"] = *data.Name
	}
	if data.Description != nil {
		updates["description"] = *data.Description
	}
	if data.IsPrivate != nil {
		updates["is_private"] = *data.IsPrivate
	}
	if data.MaxMembers != nil {
		updates["max_members"] = *data.MaxMembers
	}

	if len(updates) > 0 {
		result := r.db.Model(&entities.Family{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetByID(id)
}

// Delete removes a family. Members are detached first so their accounts
// survive the deletion; books and streaming content cascade.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entities.User{}).Where("family_id = ?", id).Update("family_id", nil).Error
		if err != nil {
			return err
		}

		result := tx.Delete(&entities.Family{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// MemberCount counts active members of the family.
func (r *Repository) MemberCount(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).
		Where("family_id = ? AND is_active = ?", id, true).
		Count(&count).Error
	return count, err
}

// CanAddMember reports whether the family has room for one more member.
func (r *Repository) CanAddMember(id uint) (bool, error) {
	family, err := r.GetByID(id)
	if err != nil {
		return false, err
	}
	count, err := r.MemberCount(id)
	if err != nil {
		return false, err
	}
	return count < int64(family.MaxMembers), nil
}

// FamilyStats aggregates a family's tracked items and membership.
type FamilyStats struct {
	MemberCount    int64 `json:"member_count"`
	TotalBooks     int64 `json:"total_books"`
	TotalStreaming int64 `json:"total_streaming"`
	BooksCompleted int64 `json:"books_completed"`
	ItemsWatched   int64 `json:"items_watched"`
}

// GetStats computes the family dashboard numbers.
func (r *Repository) GetStats(id uint) (*FamilyStats, error) {
	if _, err := r.GetByID(id); err != nil {
		return nil, err
	}

	var stats FamilyStats

	count, err := r.MemberCount(id)
	if err != nil {
		return nil, err
	}
	stats.MemberCount = count

	if err := r.db.Model(&entities.Book{}).Where("family_id = ?", id).Count(&stats.TotalBooks).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&entities.StreamingContent{}).Where("family_id = ?", id).Count(&stats.TotalStreaming).Error; err != nil {
		return nil, err
	}

	err = r.db.Model(&entities.UserBook{}).
		Joins("JOIN users ON users.id = user_books.user_id").
		Where("users.family_id = ? AND user_books.status = ?", id, entities.BookStatusCompleted).
		Count(&stats.BooksCompleted).Error
	if err != nil {
		return nil, err
	}

	err = r.db.Model(&entities.UserStreamingItem{}).
		Joins("JOIN users ON users.id = user_streaming_items.user_id").
		Where("users.family_id = ? AND user_streaming_items.status = ?", id, entities.StreamingStatusCompleted).
		Count(&stats.ItemsWatched).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// GetRecentActivity returns the family's public activity feed, newest
// first.
func (r *Repository) GetRecentActivity(id uint, since time.Time, limit int) ([]entities.Activity, error) {
	if limit <= 0 || limit > database.MaxLimit {
		limit = database.DefaultLimit
	}

	var rows []entities.Activity
	err := r.db.
		Preload("User").
		Where("family_id = ? AND is_public = ? AND created_at >= ?", id, true, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
