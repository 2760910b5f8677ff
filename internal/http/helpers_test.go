package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/famhub/famhub/internal/database"
)

func performStoreError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/boom", func(c *gin.Context) {
		respondStoreError(c, err, "test")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/boom", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRespondStoreError_Validation(t *testing.T) {
	w := performStoreError(t, &database.ValidationError{Field: "email", Message: "invalid email"})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid email", resp.Error)
	assert.Equal(t, "email", resp.Field)
}

func TestRespondStoreError_Conflict(t *testing.T) {
	w := performStoreError(t, &database.ConflictError{Field: "username"})

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "username", resp.Field)
}

func TestRespondStoreError_NotFound(t *testing.T) {
	w := performStoreError(t, gorm.ErrRecordNotFound)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRespondStoreError_Unknown(t *testing.T) {
	w := performStoreError(t, errors.New("disk is on fire"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk is on fire")
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var opts database.PaginationOptions
	router := gin.New()
	router.GET("/items", func(c *gin.Context) {
		opts = parsePagination(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/items?page=3&limit=25", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, 25, opts.Limit)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/items?page=junk", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, 0, opts.Page)
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	// A client-supplied ID is kept
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	router.ServeHTTP(w, req)

	assert.Equal(t, "fixed-id", w.Header().Get(RequestIDHeader))
}
