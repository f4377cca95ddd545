package search

import "testing"

func TestPaginate(t *testing.T) {
	tests := []struct {
		total, offset, size int
		start, end          int
		hasMore             bool
	}{
		{10, 0, 3, 0, 3, true},
		{10, 9, 3, 9, 10, false},
		{10, 7, 3, 7, 10, false},
		{10, 30, 3, 10, 10, false},
		{0, 0, 10, 0, 0, false},
	}
	for _, tc := range tests {
		start, end, more := paginate(tc.total, tc.offset, tc.size)
		if start != tc.start || end != tc.end || more != tc.hasMore {
			t.Errorf("paginate(%d, %d, %d) = %d, %d, %v; want %d, %d, %v",
				tc.total, tc.offset, tc.size, start, end, more, tc.start, tc.end, tc.hasMore)
		}
	}
}
