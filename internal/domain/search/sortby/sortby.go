package sortby

// SortBy selects the result ordering.
type SortBy string

// Supported orderings.
const (
	// Relevance orders by effective score, then views, then id.
	Relevance SortBy = "relevance"
	// Date orders by lastUpdated, newest first, then id.
	Date SortBy = "date"
	// Popularity orders by view count, then id.
	Popularity SortBy = "popularity"
)

// IsValid reports whether s is a supported ordering.
func (s SortBy) IsValid() bool {
	switch s {
	case Relevance, Date, Popularity:
		return true
	}
	return false
}
