package category

import (
	"cmp"
	"context"
	"slices"
	"strings"

	domcat "github.com/kailas-cloud/kbsearch/internal/domain/category"
)

// Service lists the category catalogue with live article counts.
type Service struct {
	seeded   []domcat.Category
	articles Articles
}

// New creates a category service over the seeded catalogue.
func New(seeded []domcat.Category, articles Articles) *Service {
	return &Service{seeded: slices.Clone(seeded), articles: articles}
}

// List returns seeded categories plus any category name found in the corpus
// but not seeded. Counts cover published articles, matched case-insensitively.
// The result is sorted by name.
func (s *Service) List(_ context.Context) []domcat.Category {
	counts := make(map[string]int)
	var discovered []string
	for _, a := range s.articles.GetAll() {
		key := strings.ToLower(strings.TrimSpace(a.Category()))
		if key == "" {
			continue
		}
		if _, seen := counts[key]; !seen {
			counts[key] = 0
			discovered = append(discovered, a.Category())
		}
		if a.IsPublished() {
			counts[key]++
		}
	}

	out := make([]domcat.Category, 0, len(s.seeded)+len(discovered))
	known := make(map[string]struct{}, len(s.seeded))
	for _, c := range s.seeded {
		key := strings.ToLower(c.Name())
		known[key] = struct{}{}
		out = append(out, c.WithCount(counts[key]))
	}
	for _, name := range discovered {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := known[key]; ok {
			continue
		}
		known[key] = struct{}{}
		out = append(out, domcat.Discovered(strings.TrimSpace(name)).WithCount(counts[key]))
	}

	slices.SortFunc(out, func(a, b domcat.Category) int {
		if c := cmp.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name())); c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})
	return out
}
