package article

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/kbsearch/internal/db"
	domart "github.com/kailas-cloud/kbsearch/internal/domain/article"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hsetMultiFn    func(ctx context.Context, items []db.HashSetItem) error
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	hincrByFn      func(ctx context.Context, key, field string, delta int64) (int64, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error) {
	if m.hincrByFn != nil {
		return m.hincrByFn(ctx, key, field, delta)
	}
	return delta, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "test:"), ms
}

func testArticle(t *testing.T) domart.Article {
	t.Helper()
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	a, err := domart.Reconstruct(domart.Fields{
		ID:             "art_1",
		Title:          "How to Process Customer Refunds",
		Content:        "Refund steps.",
		Category:       "Billing",
		Tags:           []string{"refund", "billing"},
		RelevanceScore: 0.95,
		Status:         domart.StatusPublished,
		CreatedDate:    created,
		LastUpdated:    created.Add(24 * time.Hour),
		ViewCount:      1542,
		Author:         "system",
	})
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	return a
}
