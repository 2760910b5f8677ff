package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/database/books"
	"github.com/famhub/famhub/internal/database/families"
	"github.com/famhub/famhub/internal/entities"
)

func booksTestRouter(stores *testStores, user *entities.User) *gin.Engine {
	controller := NewBooksController(stores.books, stores.activities)

	router := gin.New()
	router.Use(asUser(user))
	router.POST("/api/books", controller.Create)
	router.GET("/api/books", controller.List)
	router.GET("/api/books/shelf", controller.Shelf)
	router.GET("/api/books/stats", controller.ShelfStats)
	router.GET("/api/books/:id", controller.Get)
	router.POST("/api/books/:id/shelf", controller.AddToShelf)
	router.PATCH("/api/books/:id/shelf", controller.UpdateShelf)
	router.DELETE("/api/books/:id/shelf", controller.RemoveFromShelf)
	return router
}

func booksFixtures(t *testing.T, stores *testStores) (*entities.Family, *entities.User) {
	family, err := stores.families.Create(families.CreateData{Name: "Readers"})
	require.NoError(t, err)
	user := createMember(t, stores, "reader@example.com", "reader", &family.ID, entities.UserRoleParent)
	return family, user
}

func TestBooksController_Create(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()
	family, user := booksFixtures(t, stores)

	router := booksTestRouter(stores, user)

	body, _ := json.Marshal(gin.H{"title": "Dune", "author": "Frank Herbert"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/books", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	// The catalog entry belongs to the family and hits the feed
	rows, _, err := stores.books.ListForFamily(family.ID, books.Filters{}, database.PaginationOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	feed, _, err := stores.activities.ListForFamily(family.ID, database.PaginationOptions{})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, entities.ActivityTypeBookAdded, feed[0].Type)
}

func TestBooksController_Create_MissingTitle(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()
	_, user := booksFixtures(t, stores)

	router := booksTestRouter(stores, user)

	body, _ := json.Marshal(gin.H{"author": "Anonymous"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/books", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBooksController_Get_OtherFamilyHidden(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()
	_, user := booksFixtures(t, stores)

	other, err := stores.families.Create(families.CreateData{Name: "Others"})
	require.NoError(t, err)
	foreign, err := stores.books.Create(books.CreateData{
		FamilyID: other.ID, Title: "Secret", Author: "Nobody",
	})
	require.NoError(t, err)

	router := booksTestRouter(stores, user)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/books/"+itoa(foreign.ID), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooksController_ShelfFlow(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()
	family, user := booksFixtures(t, stores)

	book, err := stores.books.Create(books.CreateData{
		FamilyID: family.ID, Title: "Dune", Author: "Frank Herbert",
	})
	require.NoError(t, err)

	router := booksTestRouter(stores, user)

	// Add with a status
	body, _ := json.Marshal(gin.H{"status": "READING"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/books/"+itoa(book.ID)+"/shelf", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Adding again conflicts
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/books/"+itoa(book.ID)+"/shelf", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Update moves status without a second row
	body, _ = json.Marshal(gin.H{"status": "COMPLETED", "rating": 5})
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("PATCH", "/api/books/"+itoa(book.ID)+"/shelf", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	item, err := stores.books.GetShelfItem(user.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.BookStatusCompleted, item.Status)

	// Remove
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/books/"+itoa(book.ID)+"/shelf", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBooksController_AddToShelf_UnknownStatus(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()
	family, user := booksFixtures(t, stores)

	book, err := stores.books.Create(books.CreateData{
		FamilyID: family.ID, Title: "Dune", Author: "Frank Herbert",
	})
	require.NoError(t, err)

	router := booksTestRouter(stores, user)

	body, _ := json.Marshal(gin.H{"status": "SOMEDAY"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/books/"+itoa(book.ID)+"/shelf", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "status", resp.Field)
}

func TestBooksController_ShelfStats(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()
	family, user := booksFixtures(t, stores)

	for i, status := range []entities.BookStatus{
		entities.BookStatusWishlist,
		entities.BookStatusReading,
		entities.BookStatusCompleted,
	} {
		book, err := stores.books.Create(books.CreateData{
			FamilyID: family.ID, Title: "Book " + string(rune('A'+i)), Author: "A",
		})
		require.NoError(t, err)
		_, err = stores.books.AddToShelf(user.ID, book.ID, books.ShelfData{Status: status})
		require.NoError(t, err)
	}

	router := booksTestRouter(stores, user)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/books/stats", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Stats struct {
			ByStatus map[string]int64 `json:"by_status"`
			Total    int64            `json:"total"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, int64(3), resp.Stats.Total)
	assert.Equal(t, int64(1), resp.Stats.ByStatus["WISHLIST"])
	assert.Equal(t, int64(1), resp.Stats.ByStatus["READING"])
	assert.Equal(t, int64(1), resp.Stats.ByStatus["COMPLETED"])
	assert.Equal(t, int64(0), resp.Stats.ByStatus["PAUSED"])
	assert.Equal(t, int64(0), resp.Stats.ByStatus["ABANDONED"])
}

func TestBooksController_List_Pagination(t *testing.T) {
	stores, cleanup := setupControllerTest(t)
	defer cleanup()
	family, user := booksFixtures(t, stores)

	for i := 0; i < 3; i++ {
		_, err := stores.books.Create(books.CreateData{
			FamilyID: family.ID, Title: "Book " + string(rune('A'+i)), Author: "A",
		})
		require.NoError(t, err)
	}

	router := booksTestRouter(stores, user)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/books?page=1&limit=2", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Pagination database.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
}
