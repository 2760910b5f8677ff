// Package goals provides per-user yearly reading goal storage.
package goals

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/famhub/famhub/internal/entities"
)

// Repository handles reading goal database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new goals repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert sets the user's target for a year, creating the row or updating
// the target in place. Progress is preserved on update.
func (r *Repository) Upsert(userID uint, year, target int) (*entities.ReadingGoal, error) {
	goal := &entities.ReadingGoal{
		UserID: userID,
		Year:   year,
		Target: target,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "year"}},
		DoUpdates: clause.Assignments(map[string]any{"target": target}),
	}).Create(goal).Error
	if err != nil {
		return nil, err
	}

	return r.Get(userID, year)
}

// Get retrieves the user's goal for a year.
func (r *Repository) Get(userID uint, year int) (*entities.ReadingGoal, error) {
	var goal entities.ReadingGoal
	err := r.db.Where("user_id = ? AND year = ?", userID, year).First(&goal).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// AddProgress increments the user's progress for a year. Progress never
// goes below zero.
func (r *Repository) AddProgress(userID uint, year, delta int) (*entities.ReadingGoal, error) {
	result := r.db.Model(&entities.ReadingGoal{}).
		Where("user_id = ? AND year = ?", userID, year).
		Update("progress", gorm.Expr("MAX(progress + ?, 0)", delta))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.Get(userID, year)
}

// ListForUser returns all of the user's goals, newest year first.
func (r *Repository) ListForUser(userID uint) ([]entities.ReadingGoal, error) {
	var rows []entities.ReadingGoal
	err := r.db.Where("user_id = ?", userID).Order("year DESC").Find(&rows).Error
	return rows, err
}

// Delete removes the user's goal for a year.
func (r *Repository) Delete(userID uint, year int) error {
	result := r.db.Where("user_id = ? AND year = ?", userID, year).Delete(&entities.ReadingGoal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
