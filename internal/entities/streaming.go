package entities

import (
	"time"
)

type ContentType string

const (
	ContentTypeMovie  ContentType = "MOVIE"
	ContentTypeTVShow ContentType = "TV_SHOW"
)

// ValidContentType reports whether t is a known content type.
func ValidContentType(t ContentType) bool {
	return t == ContentTypeMovie || t == ContentTypeTVShow
}

type StreamingStatus string

const (
	StreamingStatusWatchlist StreamingStatus = "WATCHLIST"
	StreamingStatusWatching  StreamingStatus = "WATCHING"
	StreamingStatusCompleted StreamingStatus = "COMPLETED"
	StreamingStatusPaused    StreamingStatus = "PAUSED"
	StreamingStatusDropped   StreamingStatus = "DROPPED"
)

// AllStreamingStatuses is the closed set of watchlist statuses; stats
// aggregation is derived from it.
var AllStreamingStatuses = []StreamingStatus{
	StreamingStatusWatchlist,
	StreamingStatusWatching,
	StreamingStatusCompleted,
	StreamingStatusPaused,
	StreamingStatusDropped,
}

// ValidStreamingStatus reports whether s is a known watchlist status.
func ValidStreamingStatus(s StreamingStatus) bool {
	for _, known := range AllStreamingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// StreamingContent is a family-owned movie or TV show.
type StreamingContent struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	FamilyID      uint        `gorm:"index" json:"family_id"`
	Title         string      `gorm:"index;size:255" json:"title"`
	Type          ContentType `gorm:"size:20" json:"type"`
	Description   string      `gorm:"size:2000" json:"description,omitempty"`
	ReleaseYear   int         `json:"release_year,omitempty"`
	Runtime       int         `json:"runtime,omitempty"` // minutes
	Genre         string      `gorm:"size:100" json:"genre,omitempty"`
	Director      string      `gorm:"size:255" json:"director,omitempty"`
	TotalSeasons  int         `json:"total_seasons,omitempty"`
	TotalEpisodes int         `json:"total_episodes,omitempty"`
	PosterURL     string      `gorm:"size:2048" json:"poster_url,omitempty"`

	Family    Family              `gorm:"foreignKey:FamilyID;constraint:OnDelete:CASCADE" json:"-"`
	UserItems []UserStreamingItem `gorm:"foreignKey:StreamingContentID" json:"user_items,omitempty"`
	Episodes  []Episode           `gorm:"foreignKey:StreamingContentID" json:"episodes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StreamingContent) TableName() string {
	return "streaming_content"
}

// UserStreamingItem mirrors UserBook for streaming content, with
// season/episode progress for TV shows.
type UserStreamingItem struct {
	UserID             uint            `gorm:"primaryKey" json:"user_id"`
	StreamingContentID uint            `gorm:"primaryKey" json:"streaming_content_id"`
	Status             StreamingStatus `gorm:"size:20;default:'WATCHLIST'" json:"status"`

	Progress       int        `gorm:"default:0" json:"progress"` // minutes watched
	Rating         *int       `json:"rating,omitempty"`          // 1-5
	CurrentSeason  int        `json:"current_season,omitempty"`
	CurrentEpisode int        `json:"current_episode,omitempty"`
	Notes          string     `gorm:"size:1000" json:"notes,omitempty"`
	IsFavorite     bool       `gorm:"default:false" json:"is_favorite"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`

	User    User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Content StreamingContent `gorm:"foreignKey:StreamingContentID;constraint:OnDelete:CASCADE" json:"content,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserStreamingItem) TableName() string {
	return "user_streaming_items"
}

// Episode belongs to a TV show; the (content, season, episode) triple is
// unique.
type Episode struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	StreamingContentID uint       `gorm:"index;uniqueIndex:idx_episode_number" json:"streaming_content_id"`
	SeasonNumber       int        `gorm:"uniqueIndex:idx_episode_number" json:"season_number"`
	EpisodeNumber      int        `gorm:"uniqueIndex:idx_episode_number" json:"episode_number"`
	Title              string     `gorm:"size:255" json:"title"`
	Description        string     `gorm:"size:2000" json:"description,omitempty"`
	AirDate            *time.Time `json:"air_date,omitempty"`
	Runtime            int        `json:"runtime,omitempty"`

	Content StreamingContent `gorm:"foreignKey:StreamingContentID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Episode) TableName() string {
	return "episodes"
}
