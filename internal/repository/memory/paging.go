package memory

import (
	"strings"
	"time"

	"github.com/Kartik1014/Rentit/internal/types"
)

func sortColumn(page types.PageRequest, allowed ...string) string {
	for _, a := range allowed {
		if strings.EqualFold(a, page.SortBy) {
			return a
		}
	}
	return "created_at"
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// ordered breaks ties on id so equal sort keys keep insertion order.
func ordered(cmp int, idA, idB uint, desc bool) bool {
	if cmp == 0 {
		if desc {
			return idA > idB
		}
		return idA < idB
	}
	if desc {
		return cmp > 0
	}
	return cmp < 0
}

func paginate[T any](items []T, page types.PageRequest) []T {
	start := page.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + page.Size
	if end > len(items) || end < start {
		end = len(items)
	}
	return items[start:end]
}
