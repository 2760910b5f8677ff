package http

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/famhub/famhub/internal/auth"
	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/database/activities"
	"github.com/famhub/famhub/internal/database/books"
	"github.com/famhub/famhub/internal/entities"
)

// BookStore defines catalog and shelf operations for the controller.
type BookStore interface {
	Create(data books.CreateData) (*entities.Book, error)
	GetByID(id uint) (*entities.Book, error)
	ListForFamily(familyID uint, filters books.Filters, opts database.PaginationOptions) ([]entities.Book, database.Pagination, error)
	Update(id uint, data books.UpdateData) (*entities.Book, error)
	Delete(id uint) error
	AddToShelf(userID, bookID uint, data books.ShelfData) (*entities.UserBook, error)
	GetShelfItem(userID, bookID uint) (*entities.UserBook, error)
	UpdateShelf(userID, bookID uint, data books.ShelfData) (*entities.UserBook, error)
	RemoveFromShelf(userID, bookID uint) error
	GetShelf(userID uint, status entities.BookStatus, opts database.PaginationOptions) ([]entities.UserBook, database.Pagination, error)
	GetRecentForFamily(familyID uint, limit int) ([]entities.Book, error)
	GetPopularForFamily(familyID uint, limit int) ([]entities.Book, error)
	GetShelfStats(userID uint) (*books.ShelfStats, error)
}

type BooksController struct {
	store BookStore
	feed  ActivityRecorder
}

func NewBooksController(store BookStore, feed ActivityRecorder) *BooksController {
	return &BooksController{store: store, feed: feed}
}

type createBookRequest struct {
	Title         string  `json:"title" binding:"required"`
	Author        string  `json:"author" binding:"required"`
	ISBN          *string `json:"isbn"`
	Description   string  `json:"description"`
	PublishedYear int     `json:"published_year"`
	PageCount     int     `json:"page_count"`
	Language      string  `json:"language"`
	Publisher     string  `json:"publisher"`
	Genre         string  `json:"genre"`
	CoverURL      string  `json:"cover_url"`
}

// Create adds a book to the family catalog.
// POST /api/books
func (bc *BooksController) Create(c *gin.Context) {
	familyID, _ := auth.GetFamilyID(c)

	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := bc.store.Create(books.CreateData{
		FamilyID:      familyID,
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		Description:   req.Description,
		PublishedYear: req.PublishedYear,
		PageCount:     req.PageCount,
		Language:      req.Language,
		Publisher:     req.Publisher,
		Genre:         req.Genre,
		CoverURL:      req.CoverURL,
	})
	if err != nil {
		respondStoreError(c, err, "create book")
		return
	}

	bc.record(c, familyID, entities.ActivityTypeBookAdded, "added "+book.Title)
	respondCreated(c, gin.H{"book": book})
}

// List returns a page of the family catalog.
// GET /api/books
func (bc *BooksController) List(c *gin.Context) {
	familyID, _ := auth.GetFamilyID(c)

	filters := books.Filters{
		Genre:  c.Query("genre"),
		Author: c.Query("author"),
		Search: c.Query("search"),
	}

	rows, pagination, err := bc.store.ListForFamily(familyID, filters, parsePagination(c))
	if err != nil {
		respondStoreError(c, err, "list books")
		return
	}

	respondPage(c, rows, pagination)
}

// Get returns one catalog entry.
// GET /api/books/:id
func (bc *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		respondStoreError(c, err, "get book")
		return
	}
	if !bc.sameFamily(c, book.FamilyID) {
		respondNotFound(c, "book")
		return
	}

	c.JSON(http.StatusOK, gin.H{"book": book})
}

type updateBookRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Description *string `json:"description"`
	PageCount   *int    `json:"page_count"`
	Genre       *string `json:"genre"`
	CoverURL    *string `json:"cover_url"`
}

// Update edits a catalog entry.
// PATCH /api/books/:id
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !bc.ownsBook(c, id) {
		return
	}

	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := bc.store.Update(id, books.UpdateData{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		PageCount:   req.PageCount,
		Genre:       req.Genre,
		CoverURL:    req.CoverURL,
	})
	if err != nil {
		respondStoreError(c, err, "update book")
		return
	}

	c.JSON(http.StatusOK, gin.H{"book": book})
}

// Delete removes a catalog entry and every member's shelf row for it.
// DELETE /api/books/:id
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !bc.ownsBook(c, id) {
		return
	}

	if err := bc.store.Delete(id); err != nil {
		respondStoreError(c, err, "delete book")
		return
	}

	respondSuccess(c, "book deleted")
}

type shelfRequest struct {
	Status     string     `json:"status"`
	Progress   *int       `json:"progress"`
	Rating     *int       `json:"rating"`
	Notes      *string    `json:"notes"`
	IsFavorite *bool      `json:"is_favorite"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
}

func (r shelfRequest) toShelfData() books.ShelfData {
	return books.ShelfData{
		Status:     entities.BookStatus(r.Status),
		Progress:   r.Progress,
		Rating:     r.Rating,
		Notes:      r.Notes,
		IsFavorite: r.IsFavorite,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
	}
}

func validateShelfRequest(c *gin.Context, req shelfRequest) bool {
	if req.Status != "" && !entities.ValidBookStatus(entities.BookStatus(req.Status)) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown status", Field: "status"})
		return false
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "rating must be between 1 and 5", Field: "rating"})
		return false
	}
	return true
}

// AddToShelf puts a catalog entry on the user's shelf.
// POST /api/books/:id/shelf
func (bc *BooksController) AddToShelf(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !bc.ownsBook(c, id) {
		return
	}

	var req shelfRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondBadRequest(c, "invalid request body")
		return
	}
	if !validateShelfRequest(c, req) {
		return
	}

	row, err := bc.store.AddToShelf(auth.GetUserID(c), id, req.toShelfData())
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			respondError(c, http.StatusConflict, "book is already on your shelf")
			return
		}
		respondStoreError(c, err, "add to shelf")
		return
	}

	familyID, _ := auth.GetFamilyID(c)
	bc.record(c, familyID, entities.ActivityTypeBookStatus, "shelved a book as "+string(row.Status))
	respondCreated(c, gin.H{"shelf_item": row})
}

// UpdateShelf edits the user's shelf row.
// PATCH /api/books/:id/shelf
func (bc *BooksController) UpdateShelf(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req shelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if !validateShelfRequest(c, req) {
		return
	}

	row, err := bc.store.UpdateShelf(auth.GetUserID(c), id, req.toShelfData())
	if err != nil {
		respondStoreError(c, err, "update shelf")
		return
	}

	familyID, _ := auth.GetFamilyID(c)
	if req.Rating != nil {
		bc.record(c, familyID, entities.ActivityTypeBookRated, "rated a book")
	} else if req.Status != "" {
		bc.record(c, familyID, entities.ActivityTypeBookStatus, "moved a book to "+req.Status)
	}

	c.JSON(http.StatusOK, gin.H{"shelf_item": row})
}

// RemoveFromShelf takes a catalog entry off the user's shelf.
// DELETE /api/books/:id/shelf
func (bc *BooksController) RemoveFromShelf(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.store.RemoveFromShelf(auth.GetUserID(c), id); err != nil {
		respondStoreError(c, err, "remove from shelf")
		return
	}

	respondSuccess(c, "removed from shelf")
}

// Shelf returns a page of the user's shelf, optionally filtered by
// status.
// GET /api/books/shelf
func (bc *BooksController) Shelf(c *gin.Context) {
	status := entities.BookStatus(c.Query("status"))
	if status != "" && !entities.ValidBookStatus(status) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown status", Field: "status"})
		return
	}

	rows, pagination, err := bc.store.GetShelf(auth.GetUserID(c), status, parsePagination(c))
	if err != nil {
		respondStoreError(c, err, "get shelf")
		return
	}

	respondPage(c, rows, pagination)
}

// ShelfStats returns the user's shelf tallies per status.
// GET /api/books/stats
func (bc *BooksController) ShelfStats(c *gin.Context) {
	stats, err := bc.store.GetShelfStats(auth.GetUserID(c))
	if err != nil {
		respondStoreError(c, err, "shelf stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// Recent returns the newest additions to the family catalog.
// GET /api/books/recent
func (bc *BooksController) Recent(c *gin.Context) {
	familyID, _ := auth.GetFamilyID(c)

	rows, err := bc.store.GetRecentForFamily(familyID, parsePagination(c).Limit)
	if err != nil {
		respondStoreError(c, err, "recent books")
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": rows})
}

// Popular ranks the family catalog by how many members shelved each book.
// GET /api/books/popular
func (bc *BooksController) Popular(c *gin.Context) {
	familyID, _ := auth.GetFamilyID(c)

	rows, err := bc.store.GetPopularForFamily(familyID, parsePagination(c).Limit)
	if err != nil {
		respondStoreError(c, err, "popular books")
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": rows})
}

// sameFamily reports whether the entry belongs to the caller's family.
func (bc *BooksController) sameFamily(c *gin.Context, familyID uint) bool {
	own, ok := auth.GetFamilyID(c)
	return ok && own == familyID
}

// ownsBook loads the book and checks family ownership, responding on
// failure.
func (bc *BooksController) ownsBook(c *gin.Context, id uint) bool {
	book, err := bc.store.GetByID(id)
	if err != nil {
		respondStoreError(c, err, "get book")
		return false
	}
	if !bc.sameFamily(c, book.FamilyID) {
		respondNotFound(c, "book")
		return false
	}
	return true
}

func (bc *BooksController) record(c *gin.Context, familyID uint, activityType entities.ActivityType, title string) {
	if bc.feed == nil || familyID == 0 {
		return
	}
	if _, err := bc.feed.Record(activities.RecordData{
		UserID:   auth.GetUserID(c),
		FamilyID: familyID,
		Type:     activityType,
		Title:    title,
		IsPublic: true,
	}); err != nil {
		log.Printf("activity feed error [request_id=%s]: %v", c.GetString("request_id"), err)
	}
}
