package article

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	domart "github.com/kailas-cloud/kbsearch/internal/domain/article"
	"github.com/kailas-cloud/kbsearch/internal/repository/corpus"
)

// --- Mocks ---

type mockPersister struct {
	stored   []domart.Article
	loadErr  error
	saveErr  error
	writeErr error
	viewsErr error
	views    map[string]int64
	saved    []domart.Article
	inserted []string
	updated  []string
}

func (m *mockPersister) LoadAll(context.Context) ([]domart.Article, error) {
	return m.stored, m.loadErr
}

func (m *mockPersister) SaveAll(_ context.Context, arts []domart.Article) error {
	m.saved = arts
	return m.saveErr
}

func (m *mockPersister) Insert(_ context.Context, a *domart.Article) error {
	m.inserted = append(m.inserted, a.ID())
	return m.writeErr
}

func (m *mockPersister) Update(_ context.Context, a *domart.Article) error {
	m.updated = append(m.updated, a.ID())
	return m.writeErr
}

func (m *mockPersister) IncrementViews(_ context.Context, id string) (int64, error) {
	if m.viewsErr != nil {
		return 0, m.viewsErr
	}
	if m.views == nil {
		m.views = map[string]int64{}
	}
	m.views[id]++
	return m.views[id], nil
}

// --- Fixtures ---

var fixedNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func seedArticle(t *testing.T, id, title, category string, status domart.Status, views int64, updated time.Time) domart.Article {
	t.Helper()
	a, err := domart.Reconstruct(domart.Fields{
		ID: id, Title: title, Content: strings.Repeat("c", 60), Category: category,
		RelevanceScore: 0.5, Status: status, CreatedDate: updated.Add(-time.Hour),
		LastUpdated: updated, ViewCount: views, Author: "system",
	})
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	return a
}

func newTestService(t *testing.T, p Persister, arts ...domart.Article) (*Service, *corpus.Store) {
	t.Helper()
	store := corpus.NewStore()
	store.Load(arts)
	svc := New(store, p)
	svc.now = func() time.Time { return fixedNow }
	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("art_%08d", n)
	}
	return svc, store
}

func intPtr(v int) *int { return &v }

func validDraft() domart.Draft {
	return domart.Draft{
		Title:    "Resetting Two-Factor Devices",
		Content:  strings.Repeat("Steps to reset 2FA. ", 4),
		Category: "Technical Support",
		Tags:     []string{"2FA"},
	}
}

// --- Bootstrap ---

func TestBootstrap_MemoryOnly(t *testing.T) {
	svc, store := newTestService(t, nil)
	seed := []domart.Article{seedArticle(t, "a", "Alpha", "Billing", domart.StatusPublished, 0, fixedNow)}

	n, err := svc.Bootstrap(context.Background(), seed)
	if err != nil || n != 1 {
		t.Fatalf("Bootstrap() = %d, %v", n, err)
	}
	if store.Len() != 1 {
		t.Errorf("store has %d articles", store.Len())
	}
}

func TestBootstrap_PrefersPersisted(t *testing.T) {
	mp := &mockPersister{stored: []domart.Article{
		seedArticle(t, "p1", "Persisted", "Billing", domart.StatusPublished, 7, fixedNow),
		seedArticle(t, "p2", "Persisted 2", "Billing", domart.StatusDraft, 0, fixedNow),
	}}
	svc, store := newTestService(t, mp)
	seed := []domart.Article{seedArticle(t, "s1", "Seed", "Billing", domart.StatusPublished, 0, fixedNow)}

	n, err := svc.Bootstrap(context.Background(), seed)
	if err != nil || n != 2 {
		t.Fatalf("Bootstrap() = %d, %v", n, err)
	}
	if _, ok := store.GetByID("s1"); ok {
		t.Error("seed loaded although store had articles")
	}
	if mp.saved != nil {
		t.Error("seed written although store had articles")
	}
}

func TestBootstrap_SeedsEmptyStore(t *testing.T) {
	mp := &mockPersister{}
	svc, store := newTestService(t, mp)
	seed := []domart.Article{seedArticle(t, "s1", "Seed", "Billing", domart.StatusPublished, 0, fixedNow)}

	if _, err := svc.Bootstrap(context.Background(), seed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mp.saved) != 1 || store.Len() != 1 {
		t.Errorf("saved %d, loaded %d", len(mp.saved), store.Len())
	}
}

func TestBootstrap_Errors(t *testing.T) {
	for name, mp := range map[string]*mockPersister{
		"load": {loadErr: errors.New("down")},
		"save": {saveErr: errors.New("down")},
	} {
		svc, _ := newTestService(t, mp)
		if _, err := svc.Bootstrap(context.Background(), nil); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

// --- List ---

func TestList_FilterSortPage(t *testing.T) {
	svc, _ := newTestService(t, nil,
		seedArticle(t, "a", "Bravo", "Billing", domart.StatusPublished, 5, fixedNow.Add(-3*time.Hour)),
		seedArticle(t, "b", "alpha", "billing", domart.StatusDraft, 9, fixedNow.Add(-1*time.Hour)),
		seedArticle(t, "c", "Charlie", "Shipping", domart.StatusPublished, 1, fixedNow.Add(-2*time.Hour)),
		seedArticle(t, "d", "Delta", "BILLING", domart.StatusPublished, 5, fixedNow.Add(-4*time.Hour)),
	)
	ctx := context.Background()

	tests := []struct {
		name    string
		params  ListParams
		want    string
		total   int
		hasMore bool
	}{
		{"default lastUpdated desc", ListParams{}, "b,c,a,d", 4, false},
		{"category case-insensitive", ListParams{Category: "Billing"}, "b,a,d", 3, false},
		{"status", ListParams{Status: "published", SortBy: SortTitle, SortOrder: "asc"}, "a,c,d", 3, false},
		{"title asc ignores case", ListParams{SortBy: SortTitle, SortOrder: "asc"}, "b,a,c,d", 4, false},
		{"views desc ties by id", ListParams{SortBy: SortViewCount}, "b,a,d,c", 4, false},
		{"paged", ListParams{Page: intPtr(2), PageSize: intPtr(3)}, "d", 4, false},
		{"first page has more", ListParams{PageSize: intPtr(3)}, "b,c,a", 4, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, err := svc.List(ctx, tc.params)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			ids := make([]string, len(page.Articles))
			for i := range page.Articles {
				ids[i] = page.Articles[i].ID()
			}
			if got := strings.Join(ids, ","); got != tc.want {
				t.Errorf("ids = %s, want %s", got, tc.want)
			}
			if page.Total != tc.total || page.HasMore != tc.hasMore {
				t.Errorf("total = %d, hasMore = %v", page.Total, page.HasMore)
			}
		})
	}
}

func TestList_Invalid(t *testing.T) {
	svc, _ := newTestService(t, nil)
	for name, p := range map[string]ListParams{
		"pageSize 0":    {PageSize: intPtr(0)},
		"pageSize 101":  {PageSize: intPtr(101)},
		"page 0":        {Page: intPtr(0)},
		"bad sortBy":    {SortBy: "author"},
		"bad sortOrder": {SortOrder: "sideways"},
		"bad status":    {Status: "deleted"},
	} {
		if _, err := svc.List(context.Background(), p); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}

// --- Get ---

func TestGet_IncrementsViews(t *testing.T) {
	svc, store := newTestService(t, nil,
		seedArticle(t, "a", "Alpha", "Billing", domart.StatusPublished, 10, fixedNow))

	a, err := svc.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ViewCount() != 11 {
		t.Errorf("ViewCount() = %d, want 11", a.ViewCount())
	}
	if stored, _ := store.GetByID("a"); stored.ViewCount() != 11 {
		t.Errorf("stored ViewCount() = %d", stored.ViewCount())
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newTestService(t, nil)
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_AdoptsDurableCounter(t *testing.T) {
	mp := &mockPersister{views: map[string]int64{"a": 99}}
	svc, store := newTestService(t, mp,
		seedArticle(t, "a", "Alpha", "Billing", domart.StatusPublished, 10, fixedNow))

	a, err := svc.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ViewCount() != 100 {
		t.Errorf("ViewCount() = %d, want durable 100", a.ViewCount())
	}
	if stored, _ := store.GetByID("a"); stored.ViewCount() != 100 {
		t.Errorf("stored ViewCount() = %d", stored.ViewCount())
	}
}

func TestGet_PersistFailureStillServes(t *testing.T) {
	mp := &mockPersister{viewsErr: errors.New("down")}
	svc, _ := newTestService(t, mp,
		seedArticle(t, "a", "Alpha", "Billing", domart.StatusPublished, 10, fixedNow))

	a, err := svc.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ViewCount() != 11 {
		t.Errorf("ViewCount() = %d", a.ViewCount())
	}
}

// --- Create / Update ---

func TestCreate(t *testing.T) {
	mp := &mockPersister{}
	svc, store := newTestService(t, mp)

	a, err := svc.Create(context.Background(), validDraft(), "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID() != "art_00000001" || a.Author() != "user_1" {
		t.Errorf("created %s by %s", a.ID(), a.Author())
	}
	if a.Status() != domart.StatusDraft || a.RelevanceScore() != 0.5 || a.Version() != 1 {
		t.Errorf("defaults = %s %v %d", a.Status(), a.RelevanceScore(), a.Version())
	}
	if !a.CreatedDate().Equal(fixedNow) {
		t.Errorf("CreatedDate() = %v", a.CreatedDate())
	}
	if _, ok := store.GetByID(a.ID()); !ok {
		t.Error("article not in corpus")
	}
	if len(mp.inserted) != 1 {
		t.Errorf("persisted %d", len(mp.inserted))
	}
}

func TestCreate_RetriesIDCollision(t *testing.T) {
	svc, _ := newTestService(t, nil,
		seedArticle(t, "art_00000001", "Existing", "Billing", domart.StatusPublished, 0, fixedNow))

	a, err := svc.Create(context.Background(), validDraft(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID() != "art_00000002" {
		t.Errorf("ID() = %s, want art_00000002", a.ID())
	}
	if a.Author() != "unknown" {
		t.Errorf("Author() = %q, want unknown", a.Author())
	}
}

func TestCreate_FieldErrors(t *testing.T) {
	svc, store := newTestService(t, nil)
	_, err := svc.Create(context.Background(), domart.Draft{Title: "Hi"}, "u")
	var fe domain.FieldErrors
	if !errors.As(err, &fe) || len(fe) != 3 {
		t.Fatalf("expected 3 field errors, got %v", err)
	}
	if store.Len() != 0 {
		t.Error("invalid article stored")
	}
}

func TestUpdate(t *testing.T) {
	mp := &mockPersister{}
	svc, _ := newTestService(t, mp,
		seedArticle(t, "a", "Alpha article", "Billing", domart.StatusPublished, 3, fixedNow.Add(-time.Hour)))
	title := "Alpha article, revised"

	a, err := svc.Update(context.Background(), "a", domart.Patch{Title: &title}, "editor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Title() != title || a.Version() != 2 || !a.LastUpdated().Equal(fixedNow) {
		t.Errorf("updated = %q v%d %v", a.Title(), a.Version(), a.LastUpdated())
	}
	if a.ViewCount() != 3 {
		t.Errorf("ViewCount() = %d, want preserved 3", a.ViewCount())
	}
	if len(mp.updated) != 1 {
		t.Errorf("persisted %d updates", len(mp.updated))
	}
}

func TestUpdate_Errors(t *testing.T) {
	svc, _ := newTestService(t, nil,
		seedArticle(t, "a", "Alpha article", "Billing", domart.StatusPublished, 0, fixedNow))
	short := "no"

	if _, err := svc.Update(context.Background(), "missing", domart.Patch{}, "e"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Update(context.Background(), "a", domart.Patch{Title: &short}, "e"); !errors.Is(err, domain.ErrUnprocessable) {
		t.Errorf("expected ErrUnprocessable, got %v", err)
	}
}

func TestUpdate_PersistError(t *testing.T) {
	mp := &mockPersister{writeErr: errors.New("down")}
	svc, store := newTestService(t, mp,
		seedArticle(t, "a", "Alpha article", "Billing", domart.StatusPublished, 0, fixedNow))
	title := "Alpha article v2"
	if _, err := svc.Update(context.Background(), "a", domart.Patch{Title: &title}, "e"); err == nil {
		t.Fatal("expected error")
	}
	a, _ := store.GetByID("a")
	if a.Title() != "Alpha article" || a.Version() != 1 || !a.LastUpdated().Equal(fixedNow) {
		t.Errorf("failed write left %q v%d %v in the corpus", a.Title(), a.Version(), a.LastUpdated())
	}

	if _, err := svc.Publish(context.Background(), "a"); !errors.Is(err, domain.ErrAlreadyPublished) {
		t.Errorf("expected ErrAlreadyPublished, got %v", err)
	}
	if err := svc.Archive(context.Background(), "a"); err == nil {
		t.Fatal("expected archive error")
	}
	if a, _ := store.GetByID("a"); !a.IsPublished() {
		t.Errorf("failed archive left status %s", a.Status())
	}
}

func TestCreate_PersistError(t *testing.T) {
	mp := &mockPersister{writeErr: errors.New("down")}
	svc, store := newTestService(t, mp,
		seedArticle(t, "seed", "Seeded article", "Billing", domart.StatusPublished, 0, fixedNow))

	for range 2 {
		if _, err := svc.Create(context.Background(), validDraft(), "u"); err == nil {
			t.Fatal("expected error")
		}
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d after failed creates, want 1", store.Len())
	}
	if _, ok := store.GetByID(mp.inserted[0]); ok {
		t.Errorf("unpersisted article %s left in the corpus", mp.inserted[0])
	}
}

// --- Archive / Publish ---

func TestArchiveThenPublish(t *testing.T) {
	svc, store := newTestService(t, nil,
		seedArticle(t, "a", "Alpha", "Billing", domart.StatusPublished, 0, fixedNow.Add(-time.Hour)))
	ctx := context.Background()

	if err := svc.Archive(ctx, "a"); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if a, _ := store.GetByID("a"); a.Status() != domart.StatusArchived {
		t.Errorf("status = %q after archive", a.Status())
	}

	a, err := svc.Publish(ctx, "a")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !a.IsPublished() {
		t.Errorf("status = %q after publish", a.Status())
	}

	if _, err := svc.Publish(ctx, "a"); !errors.Is(err, domain.ErrAlreadyPublished) {
		t.Errorf("expected ErrAlreadyPublished, got %v", err)
	}
}

func TestArchivePublish_NotFound(t *testing.T) {
	svc, _ := newTestService(t, nil)
	if err := svc.Archive(context.Background(), "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Archive: %v", err)
	}
	if _, err := svc.Publish(context.Background(), "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Publish: %v", err)
	}
}
