package kbsearch

import "time"

// SortBy selects the result order.
type SortBy string

// Sort orders.
const (
	SortRelevance  SortBy = "relevance"
	SortDate       SortBy = "date"
	SortPopularity SortBy = "popularity"
)

// SearchRequest is a keyword search. Zero Page and PageSize select the
// defaults (1 and 10); DateFrom and DateTo accept RFC 3339 or YYYY-MM-DD.
type SearchRequest struct {
	Query          string   `json:"query"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
	DateFrom       string   `json:"dateFrom"`
	DateTo         string   `json:"dateTo"`
	SortBy         SortBy   `json:"sortBy"`
	Page           int      `json:"page"`
	PageSize       int      `json:"pageSize"`
	IncludeSummary bool     `json:"includeSummary"`
}

// ArticleSummary is one search hit.
type ArticleSummary struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Snippet        string    `json:"snippet"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	RelevanceScore float64   `json:"relevanceScore"`
	LastUpdated    time.Time `json:"lastUpdated"`
	ViewCount      int64     `json:"viewCount"`
}

// SearchResponse is one page of ranked hits. Summary is set only when
// requested and at least one article matched.
type SearchResponse struct {
	Articles []ArticleSummary `json:"articles"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	HasMore  bool             `json:"hasMore"`
	SearchID string           `json:"searchId"`
	Took     time.Duration    `json:"took"`
	Summary  string           `json:"summary,omitempty"`
}

// SuggestionKind tells where a suggestion came from.
type SuggestionKind string

// Suggestion kinds.
const (
	SuggestionRecent    SuggestionKind = "recent"
	SuggestionPopular   SuggestionKind = "popular"
	SuggestionSuggested SuggestionKind = "suggested"
)

// Suggestion is one autocomplete entry. Count is the number of articles
// carrying the term; it is zero for recent entries.
type Suggestion struct {
	Text  string         `json:"text"`
	Kind  SuggestionKind `json:"type"`
	Count int            `json:"count"`
}

// Article is a full knowledge-base article.
type Article struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	Status         string    `json:"status"`
	RelevanceScore float64   `json:"relevanceScore"`
	CreatedDate    time.Time `json:"createdDate"`
	LastUpdated    time.Time `json:"lastUpdated"`
	ViewCount      int64     `json:"viewCount"`
	Author         string    `json:"author"`
	Version        int       `json:"version"`
}
