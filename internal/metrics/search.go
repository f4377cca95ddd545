package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric exported by the service.
const Namespace = "kbsearch"

// Search engine Prometheus metrics.
var (
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "Filter, score, sort and paginate time per search",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
		[]string{"sort_by"},
	)

	SearchResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_results_total",
			Help:      "Searches by outcome",
		},
		[]string{"outcome"}, // "hit" / "empty"
	)

	SuggestCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "suggest_cache_total",
			Help:      "Suggestion term index cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	AnalyticsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "analytics_events_total",
			Help:      "Accepted analytics events",
		},
		[]string{"type"},
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers the engine metrics with the default registry.
// Safe to call more than once.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(SearchDuration)
		prometheus.MustRegister(SearchResultsTotal)
		prometheus.MustRegister(SuggestCacheTotal)
		prometheus.MustRegister(AnalyticsEventsTotal)
	})
}

// Recorder feeds engine and analytics observations into the package metrics.
type Recorder struct{}

// ObserveSearch records one completed search.
func (Recorder) ObserveSearch(sortBy string, took time.Duration, total int) {
	SearchDuration.WithLabelValues(sortBy).Observe(took.Seconds())
	outcome := "hit"
	if total == 0 {
		outcome = "empty"
	}
	SearchResultsTotal.WithLabelValues(outcome).Inc()
}

// ObserveSuggestCache records a term index lookup.
func (Recorder) ObserveSuggestCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	SuggestCacheTotal.WithLabelValues(result).Inc()
}

// ObserveEvent records one accepted analytics event.
func (Recorder) ObserveEvent(eventType string) {
	AnalyticsEventsTotal.WithLabelValues(eventType).Inc()
}
