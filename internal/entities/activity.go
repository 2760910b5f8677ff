package entities

import (
	"time"
)

type ActivityType string

const (
	ActivityTypeBookAdded        ActivityType = "book_added"
	ActivityTypeBookStatus       ActivityType = "book_status_changed"
	ActivityTypeBookRated        ActivityType = "book_rated"
	ActivityTypeStreamingAdded   ActivityType = "streaming_added"
	ActivityTypeStreamingStatus  ActivityType = "streaming_status_changed"
	ActivityTypeStreamingRated   ActivityType = "streaming_rated"
	ActivityTypeMemberJoined     ActivityType = "member_joined"
	ActivityTypeMemberLeft       ActivityType = "member_left"
	ActivityTypeGoalSet          ActivityType = "goal_set"
	ActivityTypeGoalProgress     ActivityType = "goal_progress"
)

// Activity is an append-only feed entry attributed to a user and family.
// Only rows with IsPublic set show up on the family feed.
type Activity struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	UserID      uint         `gorm:"index" json:"user_id"`
	FamilyID    uint         `gorm:"index" json:"family_id"`
	Type        ActivityType `gorm:"index;size:50" json:"type"`
	Title       string       `gorm:"size:255" json:"title"`
	Description string       `gorm:"size:1000" json:"description,omitempty"`
	IsPublic    bool         `gorm:"default:true" json:"is_public"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}
