package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationOptions_Normalize_Defaults(t *testing.T) {
	page, limit, offset := PaginationOptions{}.Normalize()

	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 0, offset)
}

func TestPaginationOptions_Normalize_Offset(t *testing.T) {
	page, limit, offset := PaginationOptions{Page: 3, Limit: 25}.Normalize()

	assert.Equal(t, 3, page)
	assert.Equal(t, 25, limit)
	assert.Equal(t, 50, offset)
}

func TestPaginationOptions_Normalize_Clamps(t *testing.T) {
	page, limit, _ := PaginationOptions{Page: -5, Limit: 0}.Normalize()
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit, offset := PaginationOptions{Page: 5000, Limit: 9999}.Normalize()
	assert.Equal(t, 1000, page)
	assert.Equal(t, 100, limit)
	assert.Equal(t, 999*100, offset)
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(1, 10, 25)

	assert.Equal(t, int64(25), p.Total)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.False(t, p.HasPrev)
}

func TestNewPagination_LastPage(t *testing.T) {
	p := NewPagination(3, 10, 25)

	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)
}

func TestNewPagination_ExactMultiple(t *testing.T) {
	p := NewPagination(2, 10, 20)

	assert.Equal(t, 2, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)
}

func TestNewPagination_EmptyResult(t *testing.T) {
	p := NewPagination(1, 10, 0)

	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
}
