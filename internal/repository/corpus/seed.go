package corpus

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/kbsearch/internal/domain/article"
	"github.com/kailas-cloud/kbsearch/internal/domain/category"
)

//go:embed seed.yaml
var embeddedSeed []byte

// Seed is the initial corpus and category catalogue.
type Seed struct {
	Categories []category.Category
	Articles   []article.Article
}

type seedFile struct {
	Categories []seedCategory `yaml:"categories"`
	Articles   []seedArticle  `yaml:"articles"`
}

type seedCategory struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type seedArticle struct {
	ID             string   `yaml:"id"`
	Title          string   `yaml:"title"`
	Content        string   `yaml:"content"`
	Category       string   `yaml:"category"`
	Tags           []string `yaml:"tags"`
	RelevanceScore float64  `yaml:"relevance_score"`
	Status         string   `yaml:"status"`
	CreatedDate    string   `yaml:"created_date"`
	LastUpdated    string   `yaml:"last_updated"`
	ViewCount      int64    `yaml:"view_count"`
	Author         string   `yaml:"author"`
}

// LoadSeed reads a seed file; an empty path selects the built-in corpus.
func LoadSeed(path string) (Seed, error) {
	data := embeddedSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Seed{}, fmt.Errorf("read seed %s: %w", path, err)
		}
		data = b
	}
	return ParseSeed(data)
}

// ParseSeed decodes seed YAML and validates every article.
func ParseSeed(data []byte) (Seed, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}

	out := Seed{
		Categories: make([]category.Category, 0, len(f.Categories)),
		Articles:   make([]article.Article, 0, len(f.Articles)),
	}
	for _, c := range f.Categories {
		if c.ID == "" || c.Name == "" {
			return Seed{}, fmt.Errorf("seed category requires id and name")
		}
		out.Categories = append(out.Categories, category.New(c.ID, c.Name, c.Description))
	}

	seen := make(map[string]struct{}, len(f.Articles))
	for i, sa := range f.Articles {
		if _, dup := seen[sa.ID]; dup {
			return Seed{}, fmt.Errorf("seed article %d: duplicate id %q", i, sa.ID)
		}
		seen[sa.ID] = struct{}{}

		created, err := time.Parse(time.RFC3339, sa.CreatedDate)
		if err != nil {
			return Seed{}, fmt.Errorf("seed article %s: created_date: %w", sa.ID, err)
		}
		updated := created
		if sa.LastUpdated != "" {
			if updated, err = time.Parse(time.RFC3339, sa.LastUpdated); err != nil {
				return Seed{}, fmt.Errorf("seed article %s: last_updated: %w", sa.ID, err)
			}
		}
		status := article.Status(sa.Status)
		if status == "" {
			status = article.StatusPublished
		}

		a, err := article.Reconstruct(article.Fields{
			ID:             sa.ID,
			Title:          sa.Title,
			Content:        sa.Content,
			Category:       sa.Category,
			Tags:           sa.Tags,
			RelevanceScore: sa.RelevanceScore,
			Status:         status,
			CreatedDate:    created,
			LastUpdated:    updated,
			ViewCount:      sa.ViewCount,
			Author:         sa.Author,
		})
		if err != nil {
			return Seed{}, fmt.Errorf("seed: %w", err)
		}
		out.Articles = append(out.Articles, a)
	}
	return out, nil
}
