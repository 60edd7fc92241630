package repository

import "gorm.io/gorm"

// ListQuery is the common paging/filter input for admin list endpoints.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
	Status *int
}

// Normalize clamps paging to sane bounds (page >= 1, 1 <= limit <= 100,
// default 10) matching the behavior of the admin API.
func (q *ListQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
}

func (q *ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// PageMeta is returned alongside every paginated listing.
type PageMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

func NewPageMeta(q ListQuery, total int64) PageMeta {
	pages := (total + int64(q.Limit) - 1) / int64(q.Limit)
	if pages < 1 {
		pages = 1
	}
	return PageMeta{Total: total, Page: q.Page, Limit: q.Limit, Pages: pages}
}

// lockForUpdate applies a pessimistic row lock on dialects that support it.
// The sqlite databases used in tests run serialized anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Set("gorm:query_option", "FOR UPDATE")
	}
	return tx
}
