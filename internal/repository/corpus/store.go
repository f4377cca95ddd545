package corpus

import (
	"slices"
	"sync"

	"github.com/kailas-cloud/kbsearch/internal/domain/article"
)

// Store owns the in-memory article set. Reads return deep copies so callers
// can filter and sort freely; every mutation bumps the revision.
type Store struct {
	mu       sync.RWMutex
	articles map[string]article.Article
	order    []string // insertion order
	revision uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{articles: make(map[string]article.Article)}
}

// Load replaces the whole corpus.
func (s *Store) Load(arts []article.Article) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.articles = make(map[string]article.Article, len(arts))
	s.order = s.order[:0]
	for i := range arts {
		id := arts[i].ID()
		if _, dup := s.articles[id]; !dup {
			s.order = append(s.order, id)
		}
		s.articles[id] = arts[i].Clone()
	}
	s.revision++
}

// GetAll returns a copy of every article in insertion order.
func (s *Store) GetAll() []article.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Snapshot returns a point-in-time copy of all articles together with the
// revision it belongs to.
func (s *Store) Snapshot() (uint64, []article.Article) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision, s.copyLocked()
}

// Revision returns the current mutation counter.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Len returns the number of stored articles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// GetByID returns a copy of one article.
func (s *Store) GetByID(id string) (article.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.articles[id]
	if !ok {
		return article.Article{}, false
	}
	return a.Clone(), true
}

// Insert adds a new article. It reports false when the id is taken.
func (s *Store) Insert(a article.Article) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[a.ID()]; ok {
		return false
	}
	s.articles[a.ID()] = a.Clone()
	s.order = append(s.order, a.ID())
	s.revision++
	return true
}

// Remove drops an article. It reports false when absent.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.articles[id]; !ok {
		return false
	}
	delete(s.articles, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	s.revision++
	return true
}

// Modify applies fn to the stored article under the write lock, so the
// update never races with view increments. It reports false when absent;
// an fn error leaves the article untouched.
func (s *Store) Modify(id string, fn func(article.Article) (article.Article, error)) (article.Article, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.articles[id]
	if !ok {
		return article.Article{}, false, nil
	}
	next, err := fn(cur.Clone())
	if err != nil {
		return article.Article{}, true, err
	}
	s.articles[id] = next.Clone()
	s.revision++
	return next, true, nil
}

// IncrementViews adds one view and returns the updated article.
func (s *Store) IncrementViews(id string) (article.Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return article.Article{}, false
	}
	a = a.WithViews(a.ViewCount() + 1)
	s.articles[id] = a
	s.revision++
	return a.Clone(), true
}

// SetViews overwrites a view count with an externally authoritative value.
// Lower values are ignored so concurrent increments never move backwards.
func (s *Store) SetViews(id string, n int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok || n <= a.ViewCount() {
		return
	}
	s.articles[id] = a.WithViews(n)
	s.revision++
}

func (s *Store) copyLocked() []article.Article {
	out := make([]article.Article, 0, len(s.order))
	for _, id := range s.order {
		a := s.articles[id]
		out = append(out, a.Clone())
	}
	return out
}
