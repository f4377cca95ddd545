package search

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbsearch/internal/domain/article"
	"github.com/kailas-cloud/kbsearch/internal/domain/suggestion"
	"github.com/kailas-cloud/kbsearch/internal/logger"
)

// Suggestion sourcing rules.
const (
	minTitleWordLength = 4
	popularCount       = 2
)

// termIndex is the sorted candidate term set of one corpus revision.
type termIndex struct {
	terms  []string
	counts map[string]int
}

// buildTermIndex collects lowercased title words longer than three characters
// and every tag, from all articles regardless of status. counts holds the
// number of articles contributing each term.
func buildTermIndex(arts []article.Article) *termIndex {
	counts := make(map[string]int)
	for i := range arts {
		a := &arts[i]
		seen := make(map[string]struct{})
		for _, w := range strings.Fields(strings.ToLower(a.Title())) {
			if utf8.RuneCountInString(w) >= minTitleWordLength {
				seen[w] = struct{}{}
			}
		}
		for _, t := range a.Tags() {
			if t = strings.ToLower(t); t != "" {
				seen[t] = struct{}{}
			}
		}
		for term := range seen {
			counts[term]++
		}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	slices.Sort(terms)
	return &termIndex{terms: terms, counts: counts}
}

// Suggest returns up to q.Limit() terms containing the fragment. Matching
// history entries come first as recent suggestions; corpus terms fill the
// rest in lexicographic order, the first two marked popular.
func (s *Service) Suggest(ctx context.Context, q suggestion.Query) ([]suggestion.Suggestion, error) {
	frag := q.Fragment()
	out := make([]suggestion.Suggestion, 0, q.Limit())
	emitted := make(map[string]struct{}, q.Limit())

	for _, h := range q.Recent() {
		if len(out) == q.Limit() {
			break
		}
		h = strings.TrimSpace(h)
		key := strings.ToLower(h)
		if h == "" || !strings.Contains(key, frag) {
			continue
		}
		if _, dup := emitted[key]; dup {
			continue
		}
		emitted[key] = struct{}{}
		out = append(out, suggestion.NewRecent(h))
	}

	idx := s.termIndex()
	corpusTerms := 0
	for _, term := range idx.terms {
		if len(out) == q.Limit() {
			break
		}
		if !strings.Contains(term, frag) {
			continue
		}
		if _, dup := emitted[term]; dup {
			continue
		}
		emitted[term] = struct{}{}
		out = append(out, suggestion.NewSuggested(term, idx.counts[term], corpusTerms < popularCount))
		corpusTerms++
	}

	logger.FromContext(ctx).Debug("suggest",
		zap.String("fragment", frag),
		zap.Int("returned", len(out)),
	)
	return out, nil
}

// termIndex returns the cached index for the current corpus revision,
// building it from a fresh snapshot on a miss. The index is stored under the
// snapshot's own revision, which may be newer than the one looked up.
func (s *Service) termIndex() *termIndex {
	if idx, ok := s.terms.Get(s.corpus.Revision()); ok {
		s.rec.ObserveSuggestCache(true)
		return idx
	}
	s.rec.ObserveSuggestCache(false)
	rev, arts := s.corpus.Snapshot()
	idx := buildTermIndex(arts)
	s.terms.Add(rev, idx)
	return idx
}
