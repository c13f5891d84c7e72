package port

import "strings"

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// SearchQuery selects a page of a listing. Page is zero based.
type SearchQuery struct {
	Page      int
	PerPage   int
	Terms     string
	Sort      string
	Direction string
}

// Normalize clamps paging values and lowercases the direction.
func (q SearchQuery) Normalize() SearchQuery {
	if q.Page < 0 {
		q.Page = 0
	}
	switch {
	case q.PerPage <= 0:
		q.PerPage = defaultPerPage
	case q.PerPage > maxPerPage:
		q.PerPage = maxPerPage
	}
	q.Terms = strings.TrimSpace(q.Terms)
	if strings.EqualFold(q.Direction, "desc") {
		q.Direction = "desc"
	} else {
		q.Direction = "asc"
	}
	return q
}

// Offset is the number of rows skipped before the page.
func (q SearchQuery) Offset() int {
	return q.Page * q.PerPage
}

// Pagination is one page of a listing.
type Pagination[T any] struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	Items       []T   `json:"items"`
}

// MapPagination converts the items of a page.
func MapPagination[T, U any](p Pagination[T], fn func(T) U) Pagination[U] {
	items := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return Pagination[U]{CurrentPage: p.CurrentPage, PerPage: p.PerPage, Total: p.Total, Items: items}
}
