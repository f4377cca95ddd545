package search

import (
	"cmp"
	"slices"

	"github.com/kailas-cloud/kbsearch/internal/domain/search/sortby"
)

// sortScored orders candidates in place. Every ordering ends with id ascending
// so equal keys always come back in the same order.
func sortScored(items []scored, by sortby.SortBy) {
	var compare func(a, b scored) int
	switch by {
	case sortby.Date:
		compare = func(a, b scored) int {
			if c := b.art.LastUpdated().Compare(a.art.LastUpdated()); c != 0 {
				return c
			}
			return cmp.Compare(a.art.ID(), b.art.ID())
		}
	case sortby.Popularity:
		compare = func(a, b scored) int {
			if c := cmp.Compare(b.art.ViewCount(), a.art.ViewCount()); c != 0 {
				return c
			}
			return cmp.Compare(a.art.ID(), b.art.ID())
		}
	default:
		compare = func(a, b scored) int {
			if c := cmp.Compare(b.score, a.score); c != 0 {
				return c
			}
			if c := cmp.Compare(b.art.ViewCount(), a.art.ViewCount()); c != 0 {
				return c
			}
			return cmp.Compare(a.art.ID(), b.art.ID())
		}
	}
	slices.SortFunc(items, compare)
}

// paginate returns the [start, end) window for a page and whether more items
// follow. A window past the end is empty, not an error.
func paginate(total, offset, size int) (start, end int, hasMore bool) {
	start = min(offset, total)
	end = min(offset+size, total)
	return start, end, offset+size < total
}
