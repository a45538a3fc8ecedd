package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDefaults(t *testing.T) {
	p := PageRequest{Page: -3, Size: 0}.Normalize()
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, DefaultPageSize, p.Size)

	p = PageRequest{Size: 5000}.Normalize()
	assert.Equal(t, MaxPageSize, p.Size)
}

func TestNormalizeKeepsOffsetPositive(t *testing.T) {
	p := NewPageRequest(math.MaxInt64/10+1, 10)

	assert.Equal(t, math.MaxInt/10, p.Page)
	assert.Positive(t, p.Offset())
}

func TestOrderClauseFallsBackToCreatedAt(t *testing.T) {
	p := PageRequest{SortBy: "password_hash", Desc: true}
	assert.Equal(t, "created_at DESC", p.OrderClause("created_at", "rent_amount"))

	p = PageRequest{SortBy: "RENT_AMOUNT"}
	assert.Equal(t, "rent_amount ASC", p.OrderClause("created_at", "rent_amount"))
}

func TestNewPageCountsPages(t *testing.T) {
	page := NewPage[int](nil, PageRequest{Page: 1, Size: 10}, 21)

	assert.Equal(t, []int{}, page.Items)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
}
