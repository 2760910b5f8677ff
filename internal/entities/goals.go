package entities

import (
	"time"
)

// ReadingGoal is a per-user, per-year target/progress pair. One row per
// (user, year).
type ReadingGoal struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	UserID   uint `gorm:"uniqueIndex:idx_goal_user_year" json:"user_id"`
	Year     int  `gorm:"uniqueIndex:idx_goal_user_year" json:"year"`
	Target   int  `json:"target"`
	Progress int  `gorm:"default:0" json:"progress"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ReadingGoal) TableName() string {
	return "reading_goals"
}

// Completed reports whether the goal target has been reached.
func (g *ReadingGoal) Completed() bool {
	return g.Target > 0 && g.Progress >= g.Target
}
