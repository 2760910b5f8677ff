package database

// Pagination defaults and clamps. Out-of-range requests are clamped rather
// than rejected.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxPage      = 1000
	MaxLimit     = 100
)

// PaginationOptions are the raw page/limit values from a request; zero
// values mean "use the default".
type PaginationOptions struct {
	Page  int
	Limit int
}

// Pagination is the result envelope metadata returned alongside a page of
// rows.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Normalize clamps the options and returns (page, limit, offset) ready for
// a query. Pure function, no side effects.
func (o PaginationOptions) Normalize() (page, limit, offset int) {
	page = o.Page
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}

	limit = o.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return page, limit, (page - 1) * limit
}

// NewPagination builds the envelope for a page. A total of zero yields
// zero total pages and no next page.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
