package analytics

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	domana "github.com/kailas-cloud/kbsearch/internal/domain/analytics"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
	"github.com/kailas-cloud/kbsearch/internal/logger"
)

// TopQueriesLimit caps the number of queries reported in a summary.
const TopQueriesLimit = 10

// Caller identifies who reported a batch.
type Caller struct {
	UserID   string
	TenantID string
}

// Service ingests client events and aggregates search analytics.
type Service struct {
	store EventStore
	rec   Recorder
	now   func() time.Time
}

// New creates an analytics service. rec may be nil.
func New(store EventStore, rec Recorder) *Service {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Service{store: store, rec: rec, now: time.Now}
}

// Track validates the batch size, drops events of unknown type and stores the
// rest enriched with the caller and receive time. It returns the accepted count.
func (s *Service) Track(ctx context.Context, events []domana.Event, by Caller) (int, error) {
	if err := domana.ValidateBatch(len(events)); err != nil {
		return 0, err
	}

	now := s.now().UTC()
	accepted := make([]domana.Event, 0, len(events))
	for _, e := range events {
		if !e.Type.IsValid() {
			logger.FromContext(ctx).Debug("analytics event skipped", zap.String("event_type", string(e.Type)))
			continue
		}
		e.UserID = by.UserID
		e.TenantID = by.TenantID
		e.ReceivedAt = now
		if e.Timestamp.IsZero() {
			e.Timestamp = now
		}
		accepted = append(accepted, e)
	}
	if len(accepted) == 0 {
		return 0, nil
	}

	if err := s.store.Append(ctx, accepted); err != nil {
		return 0, fmt.Errorf("store events: %w", err)
	}
	for i := range accepted {
		s.rec.ObserveEvent(string(accepted[i].Type))
	}
	return len(accepted), nil
}

// ParsePeriod parses the required start and end bounds of a summary. A
// date-only end covers that whole day.
func ParsePeriod(start, end string) (from, to time.Time, err error) {
	var bad []string
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, domain.NewValidation("startDate and endDate are required")
	}
	from, err = request.ParseDate(start)
	if err != nil {
		bad = append(bad, fmt.Sprintf("startDate %q is not a valid date", start))
	}
	to, err = request.ParseEndDate(end)
	if err != nil {
		bad = append(bad, fmt.Sprintf("endDate %q is not a valid date", end))
	}
	if len(bad) == 0 && to.Before(from) {
		bad = append(bad, "endDate must not precede startDate")
	}
	if len(bad) > 0 {
		return time.Time{}, time.Time{}, domain.NewValidation(bad...)
	}
	return from, to, nil
}

// SearchSummary aggregates events received in [from, to].
func (s *Service) SearchSummary(ctx context.Context, from, to time.Time) (domana.SearchSummary, error) {
	events, err := s.store.Range(ctx, from, to)
	if err != nil {
		return domana.SearchSummary{}, fmt.Errorf("read events: %w", err)
	}
	return summarize(from, to, events), nil
}

type queryAgg struct {
	count  int
	clicks int
}

func summarize(from, to time.Time, events []domana.Event) domana.SearchSummary {
	sum := domana.SearchSummary{From: from, To: to}

	queries := make(map[string]*queryAgg)
	users := make(map[string]struct{})
	type day struct {
		searches int
		users    map[string]struct{}
	}
	days := make(map[time.Time]*day)

	var withCount, zero, results int
	for i := range events {
		e := &events[i]
		switch e.Type {
		case domana.TypeSearch:
			sum.TotalSearches++
			who := userKey(e)
			users[who] = struct{}{}

			d := e.ReceivedAt.UTC().Truncate(24 * time.Hour)
			if days[d] == nil {
				days[d] = &day{users: make(map[string]struct{})}
			}
			days[d].searches++
			days[d].users[who] = struct{}{}

			if n, ok := e.ResultCount(); ok {
				withCount++
				results += n
				if n == 0 {
					zero++
				}
			}
			if q := normalizeQuery(e.Query()); q != "" {
				agg(queries, q).count++
			}
		case domana.TypeResultClick:
			sum.TotalClicks++
			if q := normalizeQuery(e.Query()); q != "" {
				agg(queries, q).clicks++
			}
		}
	}

	sum.UniqueUsers = len(users)
	if sum.TotalSearches > 0 {
		sum.ClickThroughRate = float64(sum.TotalClicks) / float64(sum.TotalSearches)
	}
	if withCount > 0 {
		sum.ZeroResultRate = float64(zero) / float64(withCount)
		sum.AvgResultsPerSearch = float64(results) / float64(withCount)
	}

	for q, a := range queries {
		if a.count == 0 {
			continue // clicked but never searched in this period
		}
		sum.TopQueries = append(sum.TopQueries, domana.QueryStat{
			Query: q, Count: a.count, Clicks: a.clicks,
			CTR: float64(a.clicks) / float64(a.count),
		})
	}
	slices.SortFunc(sum.TopQueries, func(a, b domana.QueryStat) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Query, b.Query)
	})
	if len(sum.TopQueries) > TopQueriesLimit {
		sum.TopQueries = sum.TopQueries[:TopQueriesLimit]
	}

	for d, v := range days {
		sum.Daily = append(sum.Daily, domana.DayStat{Date: d, Searches: v.searches, UniqueUsers: len(v.users)})
	}
	slices.SortFunc(sum.Daily, func(a, b domana.DayStat) int { return a.Date.Compare(b.Date) })
	return sum
}

func agg(m map[string]*queryAgg, q string) *queryAgg {
	a, ok := m[q]
	if !ok {
		a = &queryAgg{}
		m[q] = a
	}
	return a
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// userKey falls back to the session for anonymous callers.
func userKey(e *domana.Event) string {
	if e.UserID != "" {
		return "u:" + e.UserID
	}
	return "s:" + e.SessionID
}
