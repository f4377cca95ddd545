package result

import (
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/kbsearch/internal/domain/article"
)

// DefaultSnippetLength is the number of content characters kept in a snippet.
const DefaultSnippetLength = 200

// Ellipsis marks a truncated snippet.
const Ellipsis = "..."

// Summary is one search hit: an article projection with its effective score.
type Summary struct {
	id          string
	title       string
	snippet     string
	category    string
	tags        []string
	score       float64
	lastUpdated time.Time
	viewCount   int64
}

// NewSummary projects an article into a hit carrying score instead of the
// stored base relevance.
func NewSummary(a *article.Article, score float64, snippet string) Summary {
	return Summary{
		id:          a.ID(),
		title:       a.Title(),
		snippet:     snippet,
		category:    a.Category(),
		tags:        append([]string{}, a.Tags()...),
		score:       score,
		lastUpdated: a.LastUpdated(),
		viewCount:   a.ViewCount(),
	}
}

// ID returns the article identifier.
func (s *Summary) ID() string { return s.id }

// Title returns the article title.
func (s *Summary) Title() string { return s.title }

// Snippet returns the truncated content.
func (s *Summary) Snippet() string { return s.snippet }

// Category returns the article category.
func (s *Summary) Category() string { return s.category }

// Tags returns the article tags.
func (s *Summary) Tags() []string { return s.tags }

// RelevanceScore returns the effective (possibly boosted) score.
func (s *Summary) RelevanceScore() float64 { return s.score }

// LastUpdated returns the article modification time.
func (s *Summary) LastUpdated() time.Time { return s.lastUpdated }

// ViewCount returns the article view count.
func (s *Summary) ViewCount() int64 { return s.viewCount }

// Response is one page of search results.
type Response struct {
	Articles []Summary
	Total    int
	Page     int
	PageSize int
	HasMore  bool
	SearchID string
	Took     time.Duration
	// Summary is the optional one-sentence overview; empty when not produced.
	Summary string
}

// Snippet returns the first n characters of content followed by Ellipsis.
// The marker is appended even when content is shorter than n.
func Snippet(content string, n int) string {
	if n <= 0 {
		n = DefaultSnippetLength
	}
	if utf8.RuneCountInString(content) <= n {
		return content + Ellipsis
	}
	runes := []rune(content)
	return string(runes[:n]) + Ellipsis
}
