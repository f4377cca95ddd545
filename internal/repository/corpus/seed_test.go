package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/kbsearch/internal/domain/article"
)

func TestLoadSeed_Embedded(t *testing.T) {
	seed, err := LoadSeed("")
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	if len(seed.Articles) != 12 {
		t.Errorf("articles = %d, want 12", len(seed.Articles))
	}
	if len(seed.Categories) != 6 {
		t.Errorf("categories = %d, want 6", len(seed.Categories))
	}
	first := seed.Articles[0]
	if first.ID() != "art_00000001" || first.Title() != "How to Process Customer Refunds" {
		t.Errorf("first article = %s %q", first.ID(), first.Title())
	}
	if first.RelevanceScore() != 0.95 || first.ViewCount() != 1542 {
		t.Errorf("first article score/views = %v/%d", first.RelevanceScore(), first.ViewCount())
	}
	for i := range seed.Articles {
		a := &seed.Articles[i]
		if a.Status() != article.StatusPublished {
			t.Errorf("%s status = %q", a.ID(), a.Status())
		}
		if a.LastUpdated().Before(a.CreatedDate()) {
			t.Errorf("%s lastUpdated precedes createdDate", a.ID())
		}
	}
}

func TestLoadSeed_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	data := []byte(`
categories:
  - {id: cat_x, name: X}
articles:
  - id: art_x
    title: Custom
    content: body
    category: X
    tags: [Alpha]
    relevance_score: 0.3
    created_date: "2024-01-01T00:00:00Z"
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	seed, err := LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed: %v", err)
	}
	a := seed.Articles[0]
	if a.Status() != article.StatusPublished {
		t.Errorf("default status = %q, want published", a.Status())
	}
	if a.Tags()[0] != "alpha" {
		t.Errorf("tags not lowercased: %v", a.Tags())
	}
	if !a.LastUpdated().Equal(a.CreatedDate()) {
		t.Error("missing last_updated should default to created_date")
	}
}

func TestParseSeed_Errors(t *testing.T) {
	tests := map[string]string{
		"bad yaml":     "articles: [",
		"bad date":     "articles:\n  - {id: a, created_date: yesterday}",
		"duplicate id": "articles:\n  - {id: a, created_date: '2024-01-01T00:00:00Z'}\n  - {id: a, created_date: '2024-01-01T00:00:00Z'}",
		"bad score":    "articles:\n  - {id: a, relevance_score: 2, created_date: '2024-01-01T00:00:00Z'}",
		"category id":  "categories:\n  - {name: X}",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseSeed([]byte(data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadSeed_MissingFile(t *testing.T) {
	if _, err := LoadSeed(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}
