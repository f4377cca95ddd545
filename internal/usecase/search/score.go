package search

import (
	"math"
	"strings"

	"github.com/kailas-cloud/kbsearch/internal/domain/article"
)

// Boost weights added to the base relevance score.
const (
	TitleBoost = 0.2
	TagBoost   = 0.1
)

// scored pairs a candidate with its effective score for one query.
type scored struct {
	art   *article.Article
	score float64
}

// boostScores computes effective scores. With an empty query the base score
// passes through. The articles themselves are never modified.
func boostScores(arts []article.Article, query string) []scored {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]scored, len(arts))
	for i := range arts {
		a := &arts[i]
		score := a.RelevanceScore()
		if q != "" {
			score = effectiveScore(a, q)
		}
		out[i] = scored{art: a, score: score}
	}
	return out
}

func effectiveScore(a *article.Article, q string) float64 {
	boost := 0.0
	if strings.Contains(strings.ToLower(a.Title()), q) {
		boost += TitleBoost
	}
	if anyTagContains(a.Tags(), q) {
		boost += TagBoost
	}
	return math.Min(1.0, a.RelevanceScore()+boost)
}
