package entities

import (
	"time"
)

type BookStatus string

const (
	BookStatusWishlist  BookStatus = "WISHLIST"
	BookStatusReading   BookStatus = "READING"
	BookStatusCompleted BookStatus = "COMPLETED"
	BookStatusPaused    BookStatus = "PAUSED"
	BookStatusAbandoned BookStatus = "ABANDONED"
)

// AllBookStatuses is the closed set of shelf statuses. Stats aggregation is
// derived from this slice so that a new status cannot be silently dropped.
var AllBookStatuses = []BookStatus{
	BookStatusWishlist,
	BookStatusReading,
	BookStatusCompleted,
	BookStatusPaused,
	BookStatusAbandoned,
}

// ValidBookStatus reports whether s is a known shelf status.
func ValidBookStatus(s BookStatus) bool {
	for _, known := range AllBookStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Book is a family-owned catalog entry. The ISBN is a pointer so that
// books without one do not collide on the unique index.
type Book struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	FamilyID      uint    `gorm:"index" json:"family_id"`
	Title         string  `gorm:"index;size:255" json:"title"`
	Author        string  `gorm:"index;size:255" json:"author"`
	ISBN          *string `gorm:"uniqueIndex;size:20" json:"isbn,omitempty"`
	Description   string  `gorm:"size:2000" json:"description,omitempty"`
	PublishedYear int     `json:"published_year,omitempty"`
	PageCount     int     `json:"page_count,omitempty"`
	Language      string  `gorm:"size:50" json:"language,omitempty"`
	Publisher     string  `gorm:"size:255" json:"publisher,omitempty"`
	Genre         string  `gorm:"size:100" json:"genre,omitempty"`
	CoverURL      string  `gorm:"size:2048" json:"cover_url,omitempty"`

	Family    Family     `gorm:"foreignKey:FamilyID;constraint:OnDelete:CASCADE" json:"-"`
	UserBooks []UserBook `gorm:"foreignKey:BookID" json:"user_books,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// UserBook is the join row between a user and a book, keyed on the
// composite (UserID, BookID) pair, carrying per-user shelf state.
type UserBook struct {
	UserID uint       `gorm:"primaryKey" json:"user_id"`
	BookID uint       `gorm:"primaryKey" json:"book_id"`
	Status BookStatus `gorm:"size:20;default:'WISHLIST'" json:"status"`

	// Progress is pages read for READING, 0..PageCount.
	Progress   int        `gorm:"default:0" json:"progress"`
	Rating     *int       `json:"rating,omitempty"` // 1-5
	Notes      string     `gorm:"size:1000" json:"notes,omitempty"`
	IsFavorite bool       `gorm:"default:false" json:"is_favorite"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Book Book `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"book,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserBook) TableName() string {
	return "user_books"
}
