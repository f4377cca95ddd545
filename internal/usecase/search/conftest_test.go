package search

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/kbsearch/internal/domain/article"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
)

// --- Mocks ---

type fakeCorpus struct {
	mu       sync.Mutex
	revision uint64
	articles []article.Article
	snaps    int
}

func (f *fakeCorpus) Snapshot() (uint64, []article.Article) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snaps++
	out := make([]article.Article, len(f.articles))
	for i := range f.articles {
		out[i] = f.articles[i].Clone()
	}
	return f.revision, out
}

func (f *fakeCorpus) Revision() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revision
}

func (f *fakeCorpus) set(arts ...article.Article) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.articles = arts
	f.revision++
}

type recordingRecorder struct {
	mu       sync.Mutex
	searches []string
	totals   []int
	hits     int
	misses   int
}

func (r *recordingRecorder) ObserveSearch(sortBy string, _ time.Duration, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searches = append(r.searches, sortBy)
	r.totals = append(r.totals, total)
}

func (r *recordingRecorder) ObserveSuggestCache(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.hits++
	} else {
		r.misses++
	}
}

// --- Fixtures ---

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	id       string
	title    string
	content  string
	category string
	tags     []string
	score    float64
	views    int64
	status   article.Status
	created  time.Time
	updated  time.Time
}

func mk(t *testing.T, s fixture) article.Article {
	t.Helper()
	if s.status == "" {
		s.status = article.StatusPublished
	}
	if s.created.IsZero() {
		s.created = baseTime
	}
	if s.updated.IsZero() {
		s.updated = s.created
	}
	if s.category == "" {
		s.category = "General"
	}
	a, err := article.Reconstruct(article.Fields{
		ID: s.id, Title: s.title, Content: s.content, Category: s.category,
		Tags: s.tags, RelevanceScore: s.score, Status: s.status,
		CreatedDate: s.created, LastUpdated: s.updated, ViewCount: s.views,
	})
	if err != nil {
		t.Fatalf("reconstruct %s: %v", s.id, err)
	}
	return a
}

func newTestService(t *testing.T, arts ...article.Article) (*Service, *fakeCorpus, *recordingRecorder) {
	t.Helper()
	fc := &fakeCorpus{}
	fc.set(arts...)
	rec := &recordingRecorder{}
	svc, err := New(fc, rec, Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc, fc, rec
}

func params(t *testing.T, in request.Input) *request.Params {
	t.Helper()
	p, err := request.New(in)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &p
}

func intPtr(v int) *int { return &v }

func resultIDs(ids []string) string { return strings.Join(ids, ",") }
