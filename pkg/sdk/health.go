package kbsearch

import (
	"context"
	"time"
)

// HealthStatus represents the aggregated engine health.
type HealthStatus struct {
	Status          string            // "ok" or "degraded"
	Checks          map[string]string // component → "ok"/"error"
	Articles        int
	Revision        uint64        // corpus mutation counter
	DatabaseLatency time.Duration // zero without persistence
}

// Health pings the persistent store, if any, and reports the corpus size.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:          string(report.Status),
		Checks:          checks,
		Articles:        report.Articles,
		Revision:        report.Revision,
		DatabaseLatency: report.DatabaseLatency,
	}
}
