package analytics

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/kbsearch/internal/domain"
)

// MaxBatchSize is the largest number of events accepted per call.
const MaxBatchSize = 10

// EventType classifies an analytics event.
type EventType string

// Accepted event types.
const (
	TypeSearch         EventType = "search"
	TypeResultClick    EventType = "search_result_click"
	TypeArticleView    EventType = "article_view"
	TypeArticleHelpful EventType = "article_helpful"
	TypeArticleCopy    EventType = "article_copy"
	TypeSessionStart   EventType = "session_start"
	TypeSessionEnd     EventType = "session_end"
)

// IsValid reports whether t is an accepted event type.
func (t EventType) IsValid() bool {
	switch t {
	case TypeSearch, TypeResultClick, TypeArticleView, TypeArticleHelpful,
		TypeArticleCopy, TypeSessionStart, TypeSessionEnd:
		return true
	}
	return false
}

// Event is one client-reported interaction.
type Event struct {
	Type      EventType
	SessionID string
	Timestamp time.Time
	// Data is free-form; search events use "query" and "resultCount",
	// click events use "query" and "articleId".
	Data map[string]any

	// Set on ingestion.
	UserID     string
	TenantID   string
	ReceivedAt time.Time
}

// Query returns the query string carried in Data, if any.
func (e *Event) Query() string {
	if q, ok := e.Data["query"].(string); ok {
		return q
	}
	return ""
}

// ResultCount returns the result count carried in Data and whether it was present.
func (e *Event) ResultCount() (int, bool) {
	switch v := e.Data["resultCount"].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

// ValidateBatch rejects empty and oversized batches.
func ValidateBatch(n int) error {
	if n == 0 {
		return domain.NewValidation("events array is required and must not be empty")
	}
	if n > MaxBatchSize {
		return domain.NewValidation(fmt.Sprintf("maximum %d events per batch", MaxBatchSize))
	}
	return nil
}

// QueryStat aggregates one normalized query.
type QueryStat struct {
	Query  string
	Count  int
	Clicks int
	CTR    float64
}

// DayStat is one point of the daily search series.
type DayStat struct {
	Date        time.Time
	Searches    int
	UniqueUsers int
}

// SearchSummary aggregates search events over a period.
type SearchSummary struct {
	From                time.Time
	To                  time.Time
	TotalSearches       int
	UniqueUsers         int
	TotalClicks         int
	ClickThroughRate    float64
	ZeroResultRate      float64
	AvgResultsPerSearch float64
	TopQueries          []QueryStat
	Daily               []DayStat
}
