package types

import (
	"math"
	"strings"
)

// PageRequest is a zero-based page index plus a size and an optional sort.
type PageRequest struct {
	Page   int
	Size   int
	SortBy string
	Desc   bool
}

func NewPageRequest(page, size int) PageRequest {
	req := PageRequest{Page: page, Size: size, SortBy: "created_at", Desc: true}
	return req.Normalize()
}

func (p PageRequest) Normalize() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	// Offset must not overflow.
	if maxPage := math.MaxInt / p.Size; p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// OrderClause renders the sort as SQL, falling back to created_at when the
// requested column is not in allowed.
func (p PageRequest) OrderClause(allowed ...string) string {
	column := "created_at"
	for _, a := range allowed {
		if strings.EqualFold(a, p.SortBy) {
			column = a
			break
		}
	}
	if p.Desc {
		return column + " DESC"
	}
	return column + " ASC"
}

type Page[T any] struct {
	Items       []T   `json:"items"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
}

func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Items:       items,
		CurrentPage: req.Page,
		TotalPages:  pages,
		TotalItems:  total,
	}
}
