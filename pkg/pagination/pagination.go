// Package pagination implements offset paging for list endpoints.
package pagination

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Params is the requested page, 1-based.
type Params struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// Normalize clamps Page to at least 1 and PerPage to 1..MaxPerPage,
// using DefaultPerPage when unset.
func (p *Params) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PerPage < 1:
		p.PerPage = DefaultPerPage
	case p.PerPage > MaxPerPage:
		p.PerPage = MaxPerPage
	}
}

// Offset is the number of rows skipped before this page.
func (p *Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Meta describes where a page sits in the full result set.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// NewMeta computes page metadata for total rows.
func NewMeta(page, perPage int, total int64) *Meta {
	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return &Meta{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// Result is one page of items.
type Result[T any] struct {
	Items      []T   `json:"items"`
	Pagination *Meta `json:"pagination"`
}

// NewResult pairs items with their metadata. A nil slice is returned as
// an empty list.
func NewResult[T any](items []T, meta *Meta) *Result[T] {
	if items == nil {
		items = []T{}
	}
	return &Result[T]{Items: items, Pagination: meta}
}
