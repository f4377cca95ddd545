package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/result"
	"github.com/kailas-cloud/kbsearch/internal/domain/suggestion"
	"github.com/kailas-cloud/kbsearch/internal/logger"
)

// Config tunes the engine. Zero values select the defaults.
type Config struct {
	SnippetLength    int
	DisableSummaries bool
	SuggestMinLength int
	SuggestMaxLimit  int
	SuggestCacheSize int
}

const defaultSuggestCacheSize = 8

// Service is the search and suggestion engine over a corpus.
type Service struct {
	corpus Corpus
	rec    Recorder
	cfg    Config
	terms  *lru.Cache[uint64, *termIndex]
	now    func() time.Time
	newID  func() string
}

// New creates a search service. rec may be nil.
func New(c Corpus, rec Recorder, cfg Config) (*Service, error) {
	if c == nil {
		return nil, fmt.Errorf("corpus is required")
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	if cfg.SnippetLength <= 0 {
		cfg.SnippetLength = result.DefaultSnippetLength
	}
	if cfg.SuggestMinLength <= 0 {
		cfg.SuggestMinLength = suggestion.DefaultMinLength
	}
	if cfg.SuggestMaxLimit <= 0 {
		cfg.SuggestMaxLimit = suggestion.DefaultMaxLimit
	}
	if cfg.SuggestCacheSize <= 0 {
		cfg.SuggestCacheSize = defaultSuggestCacheSize
	}

	cache, err := lru.New[uint64, *termIndex](cfg.SuggestCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create term cache: %w", err)
	}

	return &Service{
		corpus: c,
		rec:    rec,
		cfg:    cfg,
		terms:  cache,
		now:    time.Now,
		newID:  newSearchID,
	}, nil
}

// SuggestLimits returns the bounds used to validate suggestion queries.
func (s *Service) SuggestLimits() suggestion.Limits {
	return suggestion.Limits{MinLength: s.cfg.SuggestMinLength, MaxLimit: s.cfg.SuggestMaxLimit}
}

// Search runs filter, score, sort and paginate over one corpus snapshot.
// Params are validated by request.New; the engine itself never fails on them.
func (s *Service) Search(ctx context.Context, p *request.Params) (result.Response, error) {
	_, arts := s.corpus.Snapshot()

	start := s.now()
	candidates := applyFilters(arts, p)
	items := boostScores(candidates, p.Query())
	sortScored(items, p.SortBy())
	from, to, hasMore := paginate(len(items), p.Offset(), p.PageSize())

	page := make([]result.Summary, 0, to-from)
	for _, it := range items[from:to] {
		page = append(page, result.NewSummary(it.art, it.score, result.Snippet(it.art.Content(), s.cfg.SnippetLength)))
	}
	took := s.now().Sub(start)

	resp := result.Response{
		Articles: page,
		Total:    len(items),
		Page:     p.Page(),
		PageSize: p.PageSize(),
		HasMore:  hasMore,
		SearchID: s.newID(),
		Took:     took,
	}
	if p.IncludeSummary() && !s.cfg.DisableSummaries && p.HasQuery() && len(page) > 0 {
		resp.Summary = summarize(p.Query(), page[0].Title())
	}

	s.rec.ObserveSearch(string(p.SortBy()), took, resp.Total)
	logger.FromContext(ctx).Debug("search",
		zap.String("search_id", resp.SearchID),
		zap.String("query", p.Query()),
		zap.String("sort_by", string(p.SortBy())),
		zap.Int("total", resp.Total),
		zap.Int("returned", len(page)),
		zap.Duration("took", took),
	)
	return resp, nil
}

// summarize renders the one-sentence overview of the top hit.
func summarize(query, topTitle string) string {
	return fmt.Sprintf(
		"Based on your search for \"%s\", the most relevant article is \"%s\". "+
			"This article covers the key aspects of your query.",
		query, topTitle,
	)
}

func newSearchID() string {
	return "srch_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
