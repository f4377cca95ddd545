package chi

import (
	"time"

	domana "github.com/kailas-cloud/kbsearch/internal/domain/analytics"
	domart "github.com/kailas-cloud/kbsearch/internal/domain/article"
	domcat "github.com/kailas-cloud/kbsearch/internal/domain/category"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/result"
	"github.com/kailas-cloud/kbsearch/internal/domain/suggestion"
)

// --- Search ---

type searchRequest struct {
	Query            string   `json:"query"`
	SearchType       string   `json:"searchType"` // accepted for compatibility; keyword matching only
	Category         string   `json:"category"`
	Tags             []string `json:"tags"`
	DateFrom         string   `json:"dateFrom"`
	DateTo           string   `json:"dateTo"`
	SortBy           string   `json:"sortBy"`
	Page             *int     `json:"page"`
	PageSize         *int     `json:"pageSize"`
	IncludeAiSummary bool     `json:"includeAiSummary"`
}

type articleSummaryDTO struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Snippet        string    `json:"snippet"`
	Category       string    `json:"category"`
	Tags           []string  `json:"tags"`
	RelevanceScore float64   `json:"relevanceScore"`
	LastUpdated    time.Time `json:"lastUpdated"`
	ViewCount      int64     `json:"viewCount"`
}

type searchResponse struct {
	Articles         []articleSummaryDTO `json:"articles"`
	Total            int                 `json:"total"`
	Page             int                 `json:"page"`
	PageSize         int                 `json:"pageSize"`
	HasMore          bool                `json:"hasMore"`
	SearchID         string              `json:"searchId"`
	ProcessingTimeMs int64               `json:"processingTimeMs"`
	AISummary        string              `json:"aiSummary,omitempty"`
}

func searchResponseFrom(resp *result.Response) searchResponse {
	items := make([]articleSummaryDTO, len(resp.Articles))
	for i := range resp.Articles {
		a := &resp.Articles[i]
		items[i] = articleSummaryDTO{
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
	return searchResponse{
		Articles:         items,
		Total:            resp.Total,
		Page:             resp.Page,
		PageSize:         resp.PageSize,
		HasMore:          resp.HasMore,
		SearchID:         resp.SearchID,
		ProcessingTimeMs: resp.Took.Milliseconds(),
		AISummary:        resp.Summary,
	}
}

type suggestionDTO struct {
	Text  string `json:"text"`
	Type  string `json:"type"`
	Count *int   `json:"count,omitempty"`
}

type suggestionsResponse struct {
	Suggestions []suggestionDTO `json:"suggestions"`
}

func suggestionsFrom(in []suggestion.Suggestion) suggestionsResponse {
	out := make([]suggestionDTO, len(in))
	for i, s := range in {
		out[i] = suggestionDTO{Text: s.Text(), Type: string(s.Kind())}
		if s.HasCount() {
			n := s.Count()
			out[i].Count = &n
		}
	}
	return suggestionsResponse{Suggestions: out}
}

// --- Articles ---

type revisionDTO struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`
}

type articleDTO struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Content        string        `json:"content"`
	Category       string        `json:"category"`
	Tags           []string      `json:"tags"`
	Status         string        `json:"status"`
	RelevanceScore float64       `json:"relevanceScore"`
	CreatedDate    time.Time     `json:"createdDate"`
	LastUpdated    time.Time     `json:"lastUpdated"`
	ViewCount      int64         `json:"viewCount"`
	Author         string        `json:"author"`
	Version        int           `json:"version"`
	VersionHistory []revisionDTO `json:"versionHistory,omitempty"`
}

func articleFrom(a *domart.Article, withHistory bool) articleDTO {
	dto := articleDTO{
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
	}
	if withHistory {
		for _, h := range a.History() {
			dto.VersionHistory = append(dto.VersionHistory, revisionDTO(h))
		}
	}
	return dto
}

type articleListResponse struct {
	Articles []articleDTO `json:"articles"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
	HasMore  bool         `json:"hasMore"`
}

type createArticleRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Status   string   `json:"status"`
}

func (c createArticleRequest) draft() domart.Draft {
	return domart.Draft{
		Title:    c.Title,
		Content:  c.Content,
		Category: c.Category,
		Tags:     c.Tags,
		Status:   domart.Status(c.Status),
	}
}

type updateArticleRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Category *string   `json:"category"`
	Tags     *[]string `json:"tags"`
	Status   *string   `json:"status"`
}

func (u updateArticleRequest) patch() domart.Patch {
	p := domart.Patch{Title: u.Title, Content: u.Content, Category: u.Category, Tags: u.Tags}
	if u.Status != nil {
		st := domart.Status(*u.Status)
		p.Status = &st
	}
	return p
}

// --- Categories ---

type categoryDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ArticleCount int    `json:"articleCount"`
}

type categoriesResponse struct {
	Categories []categoryDTO `json:"categories"`
}

func categoriesFrom(in []domcat.Category) categoriesResponse {
	out := make([]categoryDTO, len(in))
	for i, c := range in {
		out[i] = categoryDTO{ID: c.ID(), Name: c.Name(), Description: c.Description(), ArticleCount: c.ArticleCount()}
	}
	return categoriesResponse{Categories: out}
}

// --- Analytics ---

type eventDTO struct {
	EventType string         `json:"eventType"`
	SessionID string         `json:"sessionId"`
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

type trackRequest struct {
	Events []eventDTO `json:"events"`
}

func (t trackRequest) events() []domana.Event {
	out := make([]domana.Event, len(t.Events))
	for i, e := range t.Events {
		out[i] = domana.Event{Type: domana.EventType(e.EventType), SessionID: e.SessionID, Data: e.Data}
		if ts, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
			out[i].Timestamp = ts.UTC()
		}
	}
	return out
}

type trackResponse struct {
	Accepted int `json:"accepted"`
}

type periodDTO struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	Granularity string `json:"granularity"`
}

type searchSummaryDTO struct {
	TotalSearches       int     `json:"totalSearches"`
	UniqueUsers         int     `json:"uniqueUsers"`
	TotalClicks         int     `json:"totalClicks"`
	AvgResultsPerSearch float64 `json:"avgResultsPerSearch"`
	ZeroResultRate      float64 `json:"zeroResultRate"`
	ClickThroughRate    float64 `json:"clickThroughRate"`
}

type dayStatDTO struct {
	Date        string `json:"date"`
	Searches    int    `json:"searches"`
	UniqueUsers int    `json:"uniqueUsers"`
}

type queryStatDTO struct {
	Query  string  `json:"query"`
	Count  int     `json:"count"`
	Clicks int     `json:"clicks"`
	CTR    float64 `json:"ctr"`
}

type searchAnalyticsResponse struct {
	Period     periodDTO        `json:"period"`
	Summary    searchSummaryDTO `json:"summary"`
	TimeSeries []dayStatDTO     `json:"timeSeries"`
	TopQueries []queryStatDTO   `json:"topQueries"`
}

func searchAnalyticsFrom(start, end, granularity string, s *domana.SearchSummary) searchAnalyticsResponse {
	resp := searchAnalyticsResponse{
		Period: periodDTO{Start: start, End: end, Granularity: granularity},
		Summary: searchSummaryDTO{
			TotalSearches:       s.TotalSearches,
			UniqueUsers:         s.UniqueUsers,
			TotalClicks:         s.TotalClicks,
			AvgResultsPerSearch: s.AvgResultsPerSearch,
			ZeroResultRate:      s.ZeroResultRate,
			ClickThroughRate:    s.ClickThroughRate,
		},
		TimeSeries: make([]dayStatDTO, len(s.Daily)),
		TopQueries: make([]queryStatDTO, len(s.TopQueries)),
	}
	for i, d := range s.Daily {
		resp.TimeSeries[i] = dayStatDTO{Date: d.Date.Format(time.DateOnly), Searches: d.Searches, UniqueUsers: d.UniqueUsers}
	}
	for i, q := range s.TopQueries {
		resp.TopQueries[i] = queryStatDTO(q)
	}
	return resp
}

// --- Health ---

type healthResponse struct {
	Status         string            `json:"status"`
	Checks         map[string]string `json:"checks"`
	Articles       int               `json:"articles"`
	CorpusRevision uint64            `json:"corpusRevision"`
	DBLatencyMs    *float64          `json:"databaseLatencyMs,omitempty"`
	Version        string            `json:"version"`
	Timestamp      time.Time         `json:"timestamp"`
}
