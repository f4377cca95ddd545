package article

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	domart "github.com/kailas-cloud/kbsearch/internal/domain/article"
	"github.com/kailas-cloud/kbsearch/internal/logger"
)

const maxIDAttempts = 5

// Service handles article CRUD over the shared corpus with optional persistence.
type Service struct {
	corpus  Corpus
	persist Persister
	now     func() time.Time
	newID   func() string
}

// New creates an article service. persist may be nil (memory only).
func New(c Corpus, persist Persister) *Service {
	return &Service{corpus: c, persist: persist, now: time.Now, newID: newArticleID}
}

// Bootstrap fills the corpus: from the persistent store when it already holds
// articles, otherwise from seed (which is then written through).
func (s *Service) Bootstrap(ctx context.Context, seed []domart.Article) (int, error) {
	if s.persist == nil {
		s.corpus.Load(seed)
		return len(seed), nil
	}

	stored, err := s.persist.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load persisted articles: %w", err)
	}
	if len(stored) > 0 {
		s.corpus.Load(stored)
		logger.FromContext(ctx).Info("corpus loaded from store", zap.Int("articles", len(stored)))
		return len(stored), nil
	}

	if err := s.persist.SaveAll(ctx, seed); err != nil {
		return 0, fmt.Errorf("persist seed: %w", err)
	}
	s.corpus.Load(seed)
	logger.FromContext(ctx).Info("corpus seeded", zap.Int("articles", len(seed)))
	return len(seed), nil
}

// List filters, sorts and pages the whole corpus (any status).
func (s *Service) List(_ context.Context, p ListParams) (Page, error) {
	q, err := parseList(p)
	if err != nil {
		return Page{}, err
	}

	all := s.corpus.GetAll()
	filtered := all[:0]
	for i := range all {
		if q.keep(&all[i]) {
			filtered = append(filtered, all[i])
		}
	}
	q.sort(filtered)

	total := len(filtered)
	start := min((q.page-1)*q.pageSize, total)
	end := min(start+q.pageSize, total)
	return Page{
		Articles: filtered[start:end],
		Total:    total,
		Page:     q.page,
		PageSize: q.pageSize,
		HasMore:  (q.page-1)*q.pageSize+q.pageSize < total,
	}, nil
}

// Get returns one article and counts the view.
func (s *Service) Get(ctx context.Context, id string) (domart.Article, error) {
	a, ok := s.corpus.IncrementViews(id)
	if !ok {
		return domart.Article{}, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	if s.persist == nil {
		return a, nil
	}

	n, err := s.persist.IncrementViews(ctx, id)
	if err != nil {
		// The in-memory count is already bumped; serve it.
		logger.FromContext(ctx).Warn("persist view count", zap.String("article_id", id), zap.Error(err))
		return a, nil
	}
	if n > a.ViewCount() {
		s.corpus.SetViews(id, n)
		a = a.WithViews(n)
	}
	return a, nil
}

// Create validates and stores a new article authored by author.
func (s *Service) Create(ctx context.Context, d domart.Draft, author string) (domart.Article, error) {
	if author == "" {
		author = "unknown"
	}
	for range maxIDAttempts {
		a, err := domart.New(s.newID(), d, author, s.now())
		if err != nil {
			return domart.Article{}, err
		}
		if !s.corpus.Insert(a) {
			continue
		}
		if s.persist != nil {
			if err := s.persist.Insert(ctx, &a); err != nil {
				s.corpus.Remove(a.ID())
				return domart.Article{}, fmt.Errorf("persist article %s: %w", a.ID(), err)
			}
		}
		logger.FromContext(ctx).Debug("article created", zap.String("article_id", a.ID()))
		return a, nil
	}
	return domart.Article{}, fmt.Errorf("allocate article id: %d collisions", maxIDAttempts)
}

// Update applies a partial update and bumps the version.
func (s *Service) Update(ctx context.Context, id string, p domart.Patch, editor string) (domart.Article, error) {
	if editor == "" {
		editor = "unknown"
	}
	return s.modify(ctx, id, func(cur domart.Article) (domart.Article, error) {
		return cur.Apply(p, editor, s.now())
	})
}

// Archive soft-deletes an article.
func (s *Service) Archive(ctx context.Context, id string) error {
	_, err := s.modify(ctx, id, func(cur domart.Article) (domart.Article, error) {
		return cur.WithStatus(domart.StatusArchived, s.now()), nil
	})
	return err
}

// Publish makes a draft or archived article visible to search.
func (s *Service) Publish(ctx context.Context, id string) (domart.Article, error) {
	return s.modify(ctx, id, func(cur domart.Article) (domart.Article, error) {
		if cur.IsPublished() {
			return domart.Article{}, fmt.Errorf("article %s: %w", id, domain.ErrAlreadyPublished)
		}
		return cur.WithStatus(domart.StatusPublished, s.now()), nil
	})
}

func (s *Service) modify(
	ctx context.Context, id string, fn func(domart.Article) (domart.Article, error),
) (domart.Article, error) {
	var prev domart.Article
	next, ok, err := s.corpus.Modify(id, func(cur domart.Article) (domart.Article, error) {
		prev = cur.Clone()
		return fn(cur)
	})
	if !ok {
		return domart.Article{}, fmt.Errorf("article %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domart.Article{}, err
	}
	if s.persist != nil {
		if err := s.persist.Update(ctx, &next); err != nil {
			s.restore(id, prev)
			return domart.Article{}, fmt.Errorf("persist article %s: %w", id, err)
		}
	}
	return next, nil
}

// restore puts back the pre-update article after a failed write. Views
// counted in the meantime are kept.
func (s *Service) restore(id string, prev domart.Article) {
	s.corpus.Modify(id, func(cur domart.Article) (domart.Article, error) {
		return prev.WithViews(max(prev.ViewCount(), cur.ViewCount())), nil
	})
}

func newArticleID() string {
	return "art_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
