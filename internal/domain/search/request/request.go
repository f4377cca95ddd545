package request

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/sortby"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length in characters.
	MaxQueryLength  = 4096
	DefaultPage     = 1
	DefaultPageSize = 10
	MinPageSize     = 1
	MaxPageSize     = 100
)

const dateOnly = "2006-01-02"

// Input holds raw search parameters as received from a caller.
// Nil Page/PageSize select the defaults; dates are RFC 3339 or YYYY-MM-DD.
type Input struct {
	Query          string
	Category       string
	Tags           []string
	DateFrom       string
	DateTo         string
	SortBy         sortby.SortBy
	Page           *int
	PageSize       *int
	IncludeSummary bool
}

// Params is a validated search request.
type Params struct {
	query          string
	category       string
	tags           []string
	dateFrom       *time.Time
	dateTo         *time.Time
	sortBy         sortby.SortBy
	page           int
	pageSize       int
	includeSummary bool
}

// New validates raw input. Out-of-range values are rejected, never clamped;
// every offending parameter is reported in one *domain.ValidationError.
func New(in Input) (Params, error) {
	var bad []string

	pageSize := DefaultPageSize
	if in.PageSize != nil {
		pageSize = *in.PageSize
	}
	if pageSize < MinPageSize || pageSize > MaxPageSize {
		bad = append(bad, fmt.Sprintf("pageSize must be between %d and %d", MinPageSize, MaxPageSize))
	}

	page := DefaultPage
	if in.Page != nil {
		page = *in.Page
	}
	if page < 1 {
		bad = append(bad, "page must be at least 1")
	}

	query := strings.TrimSpace(in.Query)
	if utf8.RuneCountInString(query) > MaxQueryLength {
		bad = append(bad, fmt.Sprintf("query too long (max %d chars)", MaxQueryLength))
	}

	sb := in.SortBy
	if sb == "" {
		sb = sortby.Relevance
	}
	if !sb.IsValid() {
		bad = append(bad, fmt.Sprintf("sortBy must be one of relevance, date, popularity (got %q)", in.SortBy))
	}

	from, err := parseBound(in.DateFrom, ParseDate)
	if err != nil {
		bad = append(bad, fmt.Sprintf("dateFrom: %v", err))
	}
	to, err := parseBound(in.DateTo, ParseEndDate)
	if err != nil {
		bad = append(bad, fmt.Sprintf("dateTo: %v", err))
	}

	if len(bad) > 0 {
		return Params{}, domain.NewValidation(bad...)
	}

	return Params{
		query:          query,
		category:       strings.TrimSpace(in.Category),
		tags:           normalizeTags(in.Tags),
		dateFrom:       from,
		dateTo:         to,
		sortBy:         sb,
		page:           page,
		pageSize:       pageSize,
		includeSummary: in.IncludeSummary,
	}, nil
}

// ParseDate accepts an RFC 3339 timestamp or a calendar date (midnight UTC).
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparsable date %q", s)
	}
	return t, nil
}

// ParseEndDate parses an inclusive upper bound. A calendar date covers the
// whole day, up to its last nanosecond.
func ParseEndDate(s string) (time.Time, error) {
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	if len(s) == len(dateOnly) {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func parseBound(s string, parse func(string) (time.Time, error)) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := parse(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Query returns the trimmed query text (empty means browse).
func (p *Params) Query() string { return p.query }

// HasQuery reports whether a non-blank query was given.
func (p *Params) HasQuery() bool { return p.query != "" }

// Category returns the category filter, empty when absent.
func (p *Params) Category() string { return p.category }

// Tags returns the lowercase, de-duplicated tag filter.
func (p *Params) Tags() []string { return p.tags }

// DateFrom returns the inclusive lower createdDate bound, nil when absent.
func (p *Params) DateFrom() *time.Time { return p.dateFrom }

// DateTo returns the inclusive upper createdDate bound, nil when absent.
func (p *Params) DateTo() *time.Time { return p.dateTo }

// SortBy returns the requested ordering.
func (p *Params) SortBy() sortby.SortBy { return p.sortBy }

// Page returns the 1-based page number.
func (p *Params) Page() int { return p.page }

// PageSize returns the page length.
func (p *Params) PageSize() int { return p.pageSize }

// Offset returns the index of the first item on the page.
func (p *Params) Offset() int { return (p.page - 1) * p.pageSize }

// IncludeSummary reports whether a summary sentence was requested.
func (p *Params) IncludeSummary() bool { return p.includeSummary }
