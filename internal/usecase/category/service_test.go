package category

import (
	"context"
	"strings"
	"testing"
	"time"

	domart "github.com/kailas-cloud/kbsearch/internal/domain/article"
	domcat "github.com/kailas-cloud/kbsearch/internal/domain/category"
)

type fakeArticles []domart.Article

func (f fakeArticles) GetAll() []domart.Article { return f }

func art(t *testing.T, id, category string, status domart.Status) domart.Article {
	t.Helper()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a, err := domart.Reconstruct(domart.Fields{
		ID: id, Title: "title " + id, Category: category, Status: status,
		RelevanceScore: 0.5, CreatedDate: now, LastUpdated: now,
	})
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	return a
}

func TestList_CountsPublishedCaseInsensitive(t *testing.T) {
	svc := New(
		[]domcat.Category{
			domcat.New("cat_tech", "Technical Support", "How-to guides"),
			domcat.New("cat_billing", "Billing", ""),
		},
		fakeArticles{
			art(t, "1", "Technical Support", domart.StatusPublished),
			art(t, "2", "technical support", domart.StatusPublished),
			art(t, "3", "Technical Support", domart.StatusDraft),
			art(t, "4", "Billing", domart.StatusArchived),
		},
	)

	got := svc.List(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got[0].Name() != "Billing" || got[0].ArticleCount() != 0 {
		t.Errorf("got[0] = %s/%d", got[0].Name(), got[0].ArticleCount())
	}
	if got[1].ID() != "cat_tech" || got[1].ArticleCount() != 2 {
		t.Errorf("got[1] = %s/%d", got[1].ID(), got[1].ArticleCount())
	}
	if got[1].Description() != "How-to guides" {
		t.Errorf("description lost: %q", got[1].Description())
	}
}

func TestList_DiscoversUnseeded(t *testing.T) {
	svc := New(
		[]domcat.Category{domcat.New("cat_billing", "Billing", "")},
		fakeArticles{
			art(t, "1", "Shipping & Returns", domart.StatusPublished),
			art(t, "2", "shipping & returns", domart.StatusDraft),
			art(t, "3", "Account", domart.StatusDraft),
		},
	)

	got := svc.List(context.Background())
	names := make([]string, len(got))
	for i, c := range got {
		names[i] = c.Name()
	}
	if strings.Join(names, "|") != "Account|Billing|Shipping & Returns" {
		t.Fatalf("names = %v", names)
	}
	if got[2].ID() != "cat_shipping_returns" || got[2].ArticleCount() != 1 {
		t.Errorf("discovered = %s/%d", got[2].ID(), got[2].ArticleCount())
	}
	if got[0].ArticleCount() != 0 {
		t.Errorf("draft-only category counted %d", got[0].ArticleCount())
	}
}

func TestList_EmptyCorpus(t *testing.T) {
	svc := New([]domcat.Category{domcat.New("cat_a", "A", "")}, fakeArticles{})
	got := svc.List(context.Background())
	if len(got) != 1 || got[0].ArticleCount() != 0 {
		t.Fatalf("got %v", got)
	}
}
