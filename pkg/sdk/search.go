package kbsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/sortby"
	"github.com/kailas-cloud/kbsearch/internal/domain/suggestion"
)

// Search runs a keyword search over published articles. Invalid parameters
// return an error wrapping ErrValidation; they are never clamped.
func (c *Client) Search(ctx context.Context, req SearchRequest) (resp SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, len(resp.Articles), err) }()

	in := request.Input{
		Query:          req.Query,
		Category:       req.Category,
		Tags:           req.Tags,
		DateFrom:       req.DateFrom,
		DateTo:         req.DateTo,
		SortBy:         sortby.SortBy(req.SortBy),
		IncludeSummary: req.IncludeSummary,
	}
	if req.Page != 0 {
		in.Page = &req.Page
	}
	if req.PageSize != 0 {
		in.PageSize = &req.PageSize
	}

	params, err := request.New(in)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}
	r, err := c.searchSvc.Search(ctx, &params)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search: %w", err)
	}

	resp = SearchResponse{
		Articles: make([]ArticleSummary, len(r.Articles)),
		Total:    r.Total,
		Page:     r.Page,
		PageSize: r.PageSize,
		HasMore:  r.HasMore,
		SearchID: r.SearchID,
		Took:     r.Took,
		Summary:  r.Summary,
	}
	for i := range r.Articles {
		a := &r.Articles[i]
		resp.Articles[i] = ArticleSummary{
			ID:             a.ID(),
			Title:          a.Title(),
			Snippet:        a.Snippet(),
			Category:       a.Category(),
			Tags:           a.Tags(),
			RelevanceScore: a.RelevanceScore(),
			LastUpdated:    a.LastUpdated(),
			ViewCount:      a.ViewCount(),
		}
	}
	return resp, nil
}

// Suggest returns up to limit autocomplete entries for fragment. Matching
// entries of recent (the caller's search history, newest first) lead the
// list. A zero limit selects the default of 5.
func (c *Client) Suggest(ctx context.Context, fragment string, limit int, recent ...string) (out []Suggestion, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggest", start, len(out), err) }()

	q, err := suggestion.NewQuery(fragment, limit, recent, c.searchSvc.SuggestLimits())
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	got, err := c.searchSvc.Suggest(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}

	out = make([]Suggestion, len(got))
	for i, s := range got {
		out[i] = Suggestion{Text: s.Text(), Kind: SuggestionKind(s.Kind()), Count: s.Count()}
	}
	return out, nil
}

// Article returns one article by id (any status) and counts the view.
func (c *Client) Article(ctx context.Context, id string) (out Article, err error) {
	start := time.Now()
	defer func() { c.obs.observe("article", start, -1, err) }()

	a, err := c.articles.Get(ctx, id)
	if err != nil {
		return Article{}, fmt.Errorf("get article: %w", err)
	}
	return Article{
		ID:             a.ID(),
		Title:          a.Title(),
		Content:        a.Content(),
		Category:       a.Category(),
		Tags:           a.Tags(),
		Status:         string(a.Status()),
		RelevanceScore: a.RelevanceScore(),
		CreatedDate:    a.CreatedDate(),
		LastUpdated:    a.LastUpdated(),
		ViewCount:      a.ViewCount(),
		Author:         a.Author(),
		Version:        a.Version(),
	}, nil
}
