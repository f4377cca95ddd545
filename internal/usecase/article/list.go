package article

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	domart "github.com/kailas-cloud/kbsearch/internal/domain/article"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
)

// Sort keys accepted by List.
const (
	SortLastUpdated    = "lastUpdated"
	SortCreatedDate    = "createdDate"
	SortViewCount      = "viewCount"
	SortRelevanceScore = "relevanceScore"
	SortTitle          = "title"
)

// ListParams holds raw listing parameters. Empty fields select defaults:
// lastUpdated, desc, page 1, page size 10.
type ListParams struct {
	Category  string
	Status    string
	SortBy    string
	SortOrder string
	Page      *int
	PageSize  *int
}

// Page is one page of articles.
type Page struct {
	Articles []domart.Article
	Total    int
	Page     int
	PageSize int
	HasMore  bool
}

type listQuery struct {
	category string
	status   domart.Status
	sortBy   string
	desc     bool
	page     int
	pageSize int
}

func parseList(p ListParams) (listQuery, error) {
	var bad []string
	q := listQuery{
		category: strings.ToLower(strings.TrimSpace(p.Category)),
		status:   domart.Status(p.Status),
		sortBy:   p.SortBy,
		desc:     true,
		page:     request.DefaultPage,
		pageSize: request.DefaultPageSize,
	}

	if p.PageSize != nil {
		q.pageSize = *p.PageSize
	}
	if q.pageSize < request.MinPageSize || q.pageSize > request.MaxPageSize {
		bad = append(bad, fmt.Sprintf("pageSize must be between %d and %d", request.MinPageSize, request.MaxPageSize))
	}
	if p.Page != nil {
		q.page = *p.Page
	}
	if q.page < 1 {
		bad = append(bad, "page must be at least 1")
	}
	if q.status != "" && !q.status.IsValid() {
		bad = append(bad, fmt.Sprintf("status must be one of draft, published, archived (got %q)", p.Status))
	}

	switch q.sortBy {
	case "":
		q.sortBy = SortLastUpdated
	case SortLastUpdated, SortCreatedDate, SortViewCount, SortRelevanceScore, SortTitle:
	default:
		bad = append(bad, fmt.Sprintf("sortBy %q is not supported", p.SortBy))
	}

	switch strings.ToLower(p.SortOrder) {
	case "", "desc":
	case "asc":
		q.desc = false
	default:
		bad = append(bad, "sortOrder must be asc or desc")
	}

	if len(bad) > 0 {
		return listQuery{}, domain.NewValidation(bad...)
	}
	return q, nil
}

func (q listQuery) keep(a *domart.Article) bool {
	if q.category != "" && strings.ToLower(a.Category()) != q.category {
		return false
	}
	return q.status == "" || a.Status() == q.status
}

func (q listQuery) sort(arts []domart.Article) {
	key := func(a, b *domart.Article) int {
		switch q.sortBy {
		case SortCreatedDate:
			return a.CreatedDate().Compare(b.CreatedDate())
		case SortViewCount:
			return cmp.Compare(a.ViewCount(), b.ViewCount())
		case SortRelevanceScore:
			return cmp.Compare(a.RelevanceScore(), b.RelevanceScore())
		case SortTitle:
			return cmp.Compare(strings.ToLower(a.Title()), strings.ToLower(b.Title()))
		default:
			return a.LastUpdated().Compare(b.LastUpdated())
		}
	}
	slices.SortFunc(arts, func(a, b domart.Article) int {
		c := key(&a, &b)
		if q.desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})
}
