// Package activities provides the append-only family activity feed.
package activities

import (
	"time"

	"gorm.io/gorm"

	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/entities"
)

// Repository handles activity feed database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new activities repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RecordData carries the fields for a new feed entry.
type RecordData struct {
	UserID      uint
	FamilyID    uint
	Type        entities.ActivityType
	Title       string
	Description string
	IsPublic    bool
}

// Record appends one entry to the feed.
func (r *Repository) Record(data RecordData) (*entities.Activity, error) {
	activity := &entities.Activity{
		UserID:      data.UserID,
		FamilyID:    data.FamilyID,
		Type:        data.Type,
		Title:       data.Title,
		Description: data.Description,
		IsPublic:    data.IsPublic,
	}

	if err := r.db.Create(activity).Error; err != nil {
		return nil, err
	}
	return activity, nil
}

// ListForFamily returns a page of the family's public feed, newest first.
// Private entries never appear here.
func (r *Repository) ListForFamily(familyID uint, opts database.PaginationOptions) ([]entities.Activity, database.Pagination, error) {
	page, limit, offset := opts.Normalize()

	query := r.db.Model(&entities.Activity{}).
		Where("family_id = ? AND is_public = ?", familyID, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, database.Pagination{}, err
	}

	var rows []entities.Activity
	err := query.Preload("User").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, database.Pagination{}, err
	}

	return rows, database.NewPagination(page, limit, total), nil
}

// ListForUser returns a page of the user's own feed, public and private,
// newest first.
func (r *Repository) ListForUser(userID uint, opts database.PaginationOptions) ([]entities.Activity, database.Pagination, error) {
	page, limit, offset := opts.Normalize()

	query := r.db.Model(&entities.Activity{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, database.Pagination{}, err
	}

	var rows []entities.Activity
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, database.Pagination{}, err
	}

	return rows, database.NewPagination(page, limit, total), nil
}

// DeleteOlderThan removes feed entries created before the cutoff and
// returns the number removed. Used by the retention task.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&entities.Activity{})
	return result.RowsAffected, result.Error
}
