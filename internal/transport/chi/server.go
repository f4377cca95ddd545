package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/sortby"
	"github.com/kailas-cloud/kbsearch/internal/domain/suggestion"
	"github.com/kailas-cloud/kbsearch/internal/metrics"
	"github.com/kailas-cloud/kbsearch/internal/version"
	analyticsuc "github.com/kailas-cloud/kbsearch/internal/usecase/analytics"
	articleuc "github.com/kailas-cloud/kbsearch/internal/usecase/article"
	categoryuc "github.com/kailas-cloud/kbsearch/internal/usecase/category"
	healthuc "github.com/kailas-cloud/kbsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/kbsearch/internal/usecase/search"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Search     *searchuc.Service
	Articles   *articleuc.Service
	Categories *categoryuc.Service
	Analytics  *analyticsuc.Service
	Health     *healthuc.Service
}

// Options tunes the HTTP surface.
type Options struct {
	Auth           *Authenticator
	RateLimit      *RateLimiter // all /api/v1 routes except analytics ingestion
	AnalyticsLimit *RateLimiter // POST /api/v1/analytics/events
	MaxBodyBytes   int64
	// SuggestLimit is used when the limit query parameter is absent.
	SuggestLimit int
}

// Server serves the knowledge base API.
type Server struct {
	svc           Services
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
	now           func() time.Time
}

// NewServer creates an HTTP API server. A nil Auth disables authentication.
func NewServer(svc Services, opts Options, logger *zap.Logger) *Server {
	if opts.Auth == nil {
		opts.Auth = NewAuthenticator(AuthConfig{})
	}
	if opts.SuggestLimit <= 0 {
		opts.SuggestLimit = suggestion.DefaultLimit
	}
	return &Server{
		svc:           svc,
		opts:          opts,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
		now:           time.Now,
	}
}

// Handler builds the chi router with the full middleware chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(correlationID)
	r.Use(jsonRecoverer(s.logger))
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware("/metrics"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, codeNotFound, fmt.Sprintf("Endpoint %s %s not found", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, codeBadRequest, fmt.Sprintf("Method %s not allowed", r.Method))
	})

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.opts.Auth.Middleware())
		r.Use(principalLogger)
		if s.opts.MaxBodyBytes > 0 {
			r.Use(chiMiddleware.RequestSize(s.opts.MaxBodyBytes))
		}

		r.With(s.opts.AnalyticsLimit.middleware()).Post("/analytics/events", s.TrackEvents)

		r.Group(func(r chi.Router) {
			r.Use(s.opts.RateLimit.middleware())

			r.Post("/search", s.Search)
			r.Get("/search/suggestions", s.Suggestions)

			r.Get("/articles", s.ListArticles)
			r.With(RequireScope(ScopeArticlesWrite)).Post("/articles", s.CreateArticle)
			r.Get("/articles/{articleId}", s.GetArticle)
			r.With(RequireScope(ScopeArticlesWrite)).Put("/articles/{articleId}", s.UpdateArticle)
			r.With(RequireScope(ScopeArticlesDelete)).Delete("/articles/{articleId}", s.DeleteArticle)
			r.With(RequireScope(ScopeArticlesPublish)).Post("/articles/{articleId}/publish", s.PublishArticle)

			r.Get("/categories", s.ListCategories)

			r.With(RequireScope(ScopeAnalyticsRead)).Get("/analytics/search", s.SearchAnalytics)
		})
	})
	return r
}

// middleware returns a pass-through when the limiter is nil.
func (l *RateLimiter) middleware() func(http.Handler) http.Handler {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return l.Middleware()
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}

	params, err := request.New(request.Input{
		Query:          req.Query,
		Category:       req.Category,
		Tags:           req.Tags,
		DateFrom:       req.DateFrom,
		DateTo:         req.DateTo,
		SortBy:         sortby.SortBy(req.SortBy),
		Page:           req.Page,
		PageSize:       req.PageSize,
		IncludeSummary: req.IncludeAiSummary,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp, err := s.svc.Search.Search(r.Context(), &params)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponseFrom(&resp))
}

// Suggestions handles GET /api/v1/search/suggestions.
func (s *Server) Suggestions(w http.ResponseWriter, r *http.Request) {
	var p suggestParams
	if err := p.bind(r.URL.Query()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	limit := s.opts.SuggestLimit
	if p.Limit != nil {
		limit = *p.Limit
		if limit == 0 {
			s.handleDomainError(w, r, domain.NewValidation("limit must be at least 1"))
			return
		}
	}

	q, err := suggestion.NewQuery(deref(p.Q), limit, deref(p.Recent), s.svc.Search.SuggestLimits())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out, err := s.svc.Search.Suggest(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestionsFrom(out))
}

// ListArticles handles GET /api/v1/articles.
func (s *Server) ListArticles(w http.ResponseWriter, r *http.Request) {
	var p listParams
	if err := p.bind(r.URL.Query()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	page, err := s.svc.Articles.List(r.Context(), articleuc.ListParams{
		Category:  deref(p.Category),
		Status:    deref(p.Status),
		SortBy:    deref(p.SortBy),
		SortOrder: deref(p.SortOrder),
		Page:      p.Page,
		PageSize:  p.PageSize,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]articleDTO, len(page.Articles))
	for i := range page.Articles {
		items[i] = articleFrom(&page.Articles[i], false)
	}
	writeJSON(w, http.StatusOK, articleListResponse{
		Articles: items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
		HasMore:  page.HasMore,
	})
}

// GetArticle handles GET /api/v1/articles/{articleId}.
func (s *Server) GetArticle(w http.ResponseWriter, r *http.Request) {
	var p getParams
	if err := p.bind(r.URL.Query()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	a, err := s.svc.Articles.Get(r.Context(), chi.URLParam(r, "articleId"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, articleFrom(&a, deref(p.IncludeHistory)))
}

// CreateArticle handles POST /api/v1/articles.
func (s *Server) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req createArticleRequest
	if !s.decode(w, r, &req) {
		return
	}

	p, _ := PrincipalFrom(r.Context())
	a, err := s.svc.Articles.Create(r.Context(), req.draft(), p.ID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/articles/"+a.ID())
	writeJSON(w, http.StatusCreated, articleFrom(&a, false))
}

// UpdateArticle handles PUT /api/v1/articles/{articleId}.
func (s *Server) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var req updateArticleRequest
	if !s.decode(w, r, &req) {
		return
	}

	p, _ := PrincipalFrom(r.Context())
	a, err := s.svc.Articles.Update(r.Context(), chi.URLParam(r, "articleId"), req.patch(), p.ID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, articleFrom(&a, false))
}

// DeleteArticle handles DELETE /api/v1/articles/{articleId} (archives).
func (s *Server) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Articles.Archive(r.Context(), chi.URLParam(r, "articleId")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PublishArticle handles POST /api/v1/articles/{articleId}/publish.
func (s *Server) PublishArticle(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Articles.Publish(r.Context(), chi.URLParam(r, "articleId"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, articleFrom(&a, false))
}

// ListCategories handles GET /api/v1/categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, categoriesFrom(s.svc.Categories.List(r.Context())))
}

// TrackEvents handles POST /api/v1/analytics/events.
func (s *Server) TrackEvents(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if !s.decode(w, r, &req) {
		return
	}

	p, _ := PrincipalFrom(r.Context())
	n, err := s.svc.Analytics.Track(r.Context(), req.events(), analyticsuc.Caller{UserID: p.ID, TenantID: p.TenantID})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("X-Events-Accepted", strconv.Itoa(n))
	writeJSON(w, http.StatusAccepted, trackResponse{Accepted: n})
}

// SearchAnalytics handles GET /api/v1/analytics/search.
func (s *Server) SearchAnalytics(w http.ResponseWriter, r *http.Request) {
	var p analyticsParams
	if err := p.bind(r.URL.Query()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	granularity := deref(p.Granularity)
	if granularity == "" {
		granularity = "day"
	}
	if granularity != "day" {
		s.handleDomainError(w, r, domain.NewValidation(fmt.Sprintf("granularity %q is not supported (day)", granularity)))
		return
	}

	start, end := deref(p.StartDate), deref(p.EndDate)
	from, to, err := analyticsuc.ParsePeriod(start, end)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	sum, err := s.svc.Analytics.SearchSummary(r.Context(), from, to)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchAnalyticsFrom(start, end, granularity, &sum))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.svc.Health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	resp := healthResponse{
		Status:         string(report.Status),
		Checks:         checks,
		Articles:       report.Articles,
		CorpusRevision: report.Revision,
		Version:        version.Version,
		Timestamp:      s.now().UTC(),
	}
	if _, ok := report.Checks[healthuc.ComponentDatabase]; ok {
		ms := float64(report.DatabaseLatency.Microseconds()) / 1000
		resp.DBLatencyMs = &ms
	}
	writeJSON(w, httpStatus, resp)
}

// decode reads a JSON body into v, answering 400 on malformed input.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, codeBadRequest, "Request body too large")
			return false
		}
		writeError(w, r, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
