package search

import (
	"strings"

	"github.com/kailas-cloud/kbsearch/internal/domain/article"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
)

type predicate func(a *article.Article) bool

// applyFilters narrows the snapshot in a fixed order: status, query, category,
// tags, dateFrom, dateTo. No step reorders or scores.
func applyFilters(arts []article.Article, p *request.Params) []article.Article {
	steps := []predicate{isPublished}
	if p.HasQuery() {
		steps = append(steps, matchesQuery(strings.ToLower(p.Query())))
	}
	if p.Category() != "" {
		steps = append(steps, inCategory(strings.ToLower(p.Category())))
	}
	if len(p.Tags()) > 0 {
		steps = append(steps, hasAnyTag(p.Tags()))
	}
	if from := p.DateFrom(); from != nil {
		steps = append(steps, func(a *article.Article) bool { return !a.CreatedDate().Before(*from) })
	}
	if to := p.DateTo(); to != nil {
		steps = append(steps, func(a *article.Article) bool { return !a.CreatedDate().After(*to) })
	}

	for _, keep := range steps {
		arts = narrow(arts, keep)
	}
	return arts
}

func narrow(arts []article.Article, keep predicate) []article.Article {
	out := arts[:0]
	for i := range arts {
		if keep(&arts[i]) {
			out = append(out, arts[i])
		}
	}
	return out
}

func isPublished(a *article.Article) bool { return a.IsPublished() }

// matchesQuery is a literal, case-insensitive substring test on title,
// content and each tag. q must already be lowercase.
func matchesQuery(q string) predicate {
	return func(a *article.Article) bool {
		return strings.Contains(strings.ToLower(a.Title()), q) ||
			strings.Contains(strings.ToLower(a.Content()), q) ||
			anyTagContains(a.Tags(), q)
	}
}

func inCategory(c string) predicate {
	return func(a *article.Article) bool { return strings.ToLower(a.Category()) == c }
}

func hasAnyTag(want []string) predicate {
	return func(a *article.Article) bool {
		for _, t := range a.Tags() {
			t = strings.ToLower(t)
			for _, w := range want {
				if t == w {
					return true
				}
			}
		}
		return false
	}
}

func anyTagContains(tags []string, q string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
