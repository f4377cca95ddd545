package suggestion

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/kbsearch/internal/domain"
)

// Kind tags where a suggestion came from.
type Kind string

// Suggestion kinds.
const (
	// KindRecent is drawn from caller-supplied search history.
	KindRecent Kind = "recent"
	// KindPopular marks the leading corpus-derived terms.
	KindPopular Kind = "popular"
	// KindSuggested is any other corpus-derived term.
	KindSuggested Kind = "suggested"
)

// Suggestion limits.
const (
	DefaultMinLength = 2
	DefaultLimit     = 5
	DefaultMaxLimit  = 20
)

// Suggestion is one autocomplete entry. Recent entries carry no count.
type Suggestion struct {
	text  string
	kind  Kind
	count int
}

// NewRecent creates a history-backed suggestion.
func NewRecent(text string) Suggestion {
	return Suggestion{text: text, kind: KindRecent}
}

// NewSuggested creates a corpus-derived suggestion; count is the number of
// articles contributing the term.
func NewSuggested(text string, count int, popular bool) Suggestion {
	k := KindSuggested
	if popular {
		k = KindPopular
	}
	return Suggestion{text: text, kind: k, count: count}
}

// Text returns the suggested term.
func (s Suggestion) Text() string { return s.text }

// Kind returns the suggestion origin.
func (s Suggestion) Kind() Kind { return s.kind }

// Count returns the document frequency (zero for recent entries).
func (s Suggestion) Count() int { return s.count }

// HasCount reports whether Count is meaningful.
func (s Suggestion) HasCount() bool { return s.kind != KindRecent }

// Query is a validated suggestion request.
type Query struct {
	fragment string
	limit    int
	recent   []string
}

// Limits bounds suggestion requests.
type Limits struct {
	MinLength int
	MaxLimit  int
}

// NewQuery validates a fragment and limit. A zero limit selects DefaultLimit.
func NewQuery(fragment string, limit int, recent []string, l Limits) (Query, error) {
	if l.MinLength <= 0 {
		l.MinLength = DefaultMinLength
	}
	if l.MaxLimit <= 0 {
		l.MaxLimit = DefaultMaxLimit
	}

	var bad []string
	frag := strings.ToLower(strings.TrimSpace(fragment))
	if utf8.RuneCountInString(frag) < l.MinLength {
		bad = append(bad, fmt.Sprintf("q must be at least %d characters", l.MinLength))
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > l.MaxLimit {
		bad = append(bad, fmt.Sprintf("limit must be between 1 and %d", l.MaxLimit))
	}
	if len(bad) > 0 {
		return Query{}, domain.NewValidation(bad...)
	}
	return Query{fragment: frag, limit: limit, recent: recent}, nil
}

// Fragment returns the lowercased, trimmed fragment.
func (q Query) Fragment() string { return q.fragment }

// Limit returns the maximum number of suggestions.
func (q Query) Limit() int { return q.limit }

// Recent returns caller-supplied history terms, most recent first.
func (q Query) Recent() []string { return q.recent }
