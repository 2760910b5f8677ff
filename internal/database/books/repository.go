// Package books provides database operations for the family book catalog
// and per-user shelves.
package books

import (
	"time"

	"gorm.io/gorm"

	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/entities"
)

// Repository handles all book and shelf database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateData carries the fields for a new catalog entry.
type CreateData struct {
	FamilyID      uint
	Title         string
	Author        string
	ISBN          *string
	Description   string
	PublishedYear int
	PageCount     int
	Language      string
	Publisher     string
	Genre         string
	CoverURL      string
}

// UpdateData carries optional catalog updates; nil fields are untouched.
type UpdateData struct {
	Title       *string
	Author      *string
	Description *string
	PageCount   *int
	Genre       *string
	CoverURL    *string
}

// Filters narrows catalog listings. Search matches title and author as
// substrings.
type Filters struct {
	Genre  string
	Author string
	Search string
}

// ShelfData carries per-user shelf state for AddToShelf and UpdateShelf.
// Nil pointer fields are untouched on update.
type ShelfData struct {
	Status     entities.BookStatus
	Progress   *int
	Rating     *int
	Notes      *string
	IsFavorite *bool
	StartDate  *time.Time
	EndDate    *time.Time
}

// Create inserts a new catalog entry. A duplicate ISBN surfaces as a
// unique violation; books without an ISBN never collide.
func (r *Repository) Create(data CreateData) (*entities.Book, error) {
	book := &entities.Book{
		FamilyID:      data.FamilyID,
		Title:         data.Title,
		Author:        data.Author,
		ISBN:          data.ISBN,
		Description:   data.Description,
		PublishedYear: data.PublishedYear,
		PageCount:     data.PageCount,
		Language:      data.Language,
		Publisher:     data.Publisher,
		Genre:         data.Genre,
		CoverURL:      data.CoverURL,
	}

	if err := r.db.Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

// GetByID retrieves a catalog entry by ID.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByISBN retrieves a catalog entry by ISBN.
func (r *Repository) GetByISBN(isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("isbn = ?", isbn).First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListForFamily returns a page of the family's catalog matching the
// filters, newest first.
func (r *Repository) ListForFamily(familyID uint, filters Filters, opts database.PaginationOptions) ([]entities.Book, database.Pagination, error) {
	page, limit, offset := opts.Normalize()

	query := r.db.Model(&entities.Book{}).Where("family_id = ?", familyID)
	if filters.Genre != "" {
		query = query.Where("genre = ?", filters.Genre)
	}
	if filters.Author != "" {
		query = query.Where("author = ?", filters.Author)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("title LIKE ? OR author LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, database.Pagination{}, err
	}

	var rows []entities.Book
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, database.Pagination{}, err
	}

	return rows, database.NewPagination(page, limit, total), nil
}

// Update applies the non-nil fields of data to the catalog entry.
func (r *Repository) Update(id uint, data UpdateData) (*entities.Book, error) {
	updates := map[string]any{}
	if data.Title != nil {
		updates["title"] = *data.Title
	}
	if data.Author != nil {
		updates["author"] = *data.Author
	}
	if data.Description != nil {
		updates["description"] = *data.Description
	}
	if data.PageCount != nil {
		updates["page_count"] = *data.PageCount
	}
	if data.Genre != nil {
		updates["genre"] = *data.Genre
	}
	if data.CoverURL != nil {
		updates["cover_url"] = *data.CoverURL
	}

	if len(updates) > 0 {
		result := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetByID(id)
}

// Delete removes a catalog entry; shelf rows cascade.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddToShelf creates the user's shelf row for a book. A second add for
// the same (user, book) pair fails on the composite primary key.
func (r *Repository) AddToShelf(userID, bookID uint, data ShelfData) (*entities.UserBook, error) {
	status := data.Status
	if status == "" {
		status = entities.BookStatusWishlist
	}

	row := &entities.UserBook{
		UserID:    userID,
		BookID:    bookID,
		Status:    status,
		Rating:    data.Rating,
		StartDate: data.StartDate,
		EndDate:   data.EndDate,
	}
	if data.Progress != nil {
		row.Progress = *data.Progress
	}
	if data.Notes != nil {
		row.Notes = *data.Notes
	}
	if data.IsFavorite != nil {
		row.IsFavorite = *data.IsFavorite
	}

	if err := r.db.Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// GetShelfItem retrieves one shelf row with the book preloaded.
func (r *Repository) GetShelfItem(userID, bookID uint) (*entities.UserBook, error) {
	var row entities.UserBook
	err := r.db.Preload("Book").
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateShelf applies the non-zero fields of data to an existing shelf
// row. Updating never creates a second row for the pair.
func (r *Repository) UpdateShelf(userID, bookID uint, data ShelfData) (*entities.UserBook, error) {
	updates := map[string]any{}
	if data.Status != "" {
		updates["status"] = data.Status
	}
	if data.Progress != nil {
		updates["progress"] = *data.Progress
	}
	if data.Rating != nil {
		updates["rating"] = *data.Rating
	}
	if data.Notes != nil {
		updates["notes"] = *data.Notes
	}
	if data.IsFavorite != nil {
		updates["is_favorite"] = *data.IsFavorite
	}
	if data.StartDate != nil {
		updates["start_date"] = *data.StartDate
	}
	if data.EndDate != nil {
		updates["end_date"] = *data.EndDate
	}

	if len(updates) > 0 {
		result := r.db.Model(&entities.UserBook{}).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, gorm.ErrRecordNotFound
		}
	}
	return r.GetShelfItem(userID, bookID)
}

// RemoveFromShelf deletes the user's shelf row; the catalog entry stays.
func (r *Repository) RemoveFromShelf(userID, bookID uint) error {
	result := r.db.
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&entities.UserBook{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetShelf returns a page of the user's shelf, optionally filtered by
// status, most recently updated first.
func (r *Repository) GetShelf(userID uint, status entities.BookStatus, opts database.PaginationOptions) ([]entities.UserBook, database.Pagination, error) {
	page, limit, offset := opts.Normalize()

	query := r.db.Model(&entities.UserBook{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, database.Pagination{}, err
	}

	var rows []entities.UserBook
	err := query.Preload("Book").
		Order("updated_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, database.Pagination{}, err
	}

	return rows, database.NewPagination(page, limit, total), nil
}

// GetRecentForFamily returns the newest catalog additions for a family.
func (r *Repository) GetRecentForFamily(familyID uint, limit int) ([]entities.Book, error) {
	if limit <= 0 || limit > database.MaxLimit {
		limit = database.DefaultLimit
	}

	var rows []entities.Book
	err := r.db.
		Where("family_id = ?", familyID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// GetPopularForFamily ranks a family's books by how many members shelved
// them.
func (r *Repository) GetPopularForFamily(familyID uint, limit int) ([]entities.Book, error) {
	if limit <= 0 || limit > database.MaxLimit {
		limit = database.DefaultLimit
	}

	var rows []entities.Book
	err := r.db.
		Joins("LEFT JOIN user_books ON user_books.book_id = books.id").
		Where("books.family_id = ?", familyID).
		Group("books.id").
		Order("COUNT(user_books.book_id) DESC, books.created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// ShelfStats tallies a user's shelf by status. Every status in the closed
// set gets a key even when its count is zero.
type ShelfStats struct {
	ByStatus map[entities.BookStatus]int64 `json:"by_status"`
	Total    int64                         `json:"total"`
}

// GetShelfStats aggregates the user's shelf per status. Rows with a
// status outside the known set make the aggregation fail rather than
// disappear from the totals.
func (r *Repository) GetShelfStats(userID uint) (*ShelfStats, error) {
	type statusCount struct {
		Status entities.BookStatus
		Count  int64
	}

	var counts []statusCount
	err := r.db.Model(&entities.UserBook{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	stats := &ShelfStats{ByStatus: make(map[entities.BookStatus]int64, len(entities.AllBookStatuses))}
	for _, s := range entities.AllBookStatuses {
		stats.ByStatus[s] = 0
	}
	for _, c := range counts {
		if !entities.ValidBookStatus(c.Status) {
			return nil, &database.ValidationError{
				Field:   "status",
				Message: "unknown book status " + string(c.Status),
			}
		}
		stats.ByStatus[c.Status] = c.Count
		stats.Total += c.Count
	}

	return stats, nil
}
