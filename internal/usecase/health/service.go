package health

import (
	"context"
	"time"
)

// Status is the aggregated health of the service.
type Status string

const (
	// Healthy means every check passed.
	Healthy Status = "ok"
	// Degraded means at least one check failed.
	Degraded Status = "degraded"
)

// CheckResult is the outcome of one component check.
type CheckResult string

const (
	// CheckOK indicates a passing check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing check.
	CheckError CheckResult = "error"
)

// Component names used as Report.Checks keys.
const (
	ComponentDatabase = "database"
	ComponentCorpus   = "corpus"
)

// DefaultPingTimeout bounds the database check.
const DefaultPingTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status   Status
	Checks   map[string]CheckResult
	Articles int
	// Revision is the corpus mutation counter; 0 means the corpus was never loaded.
	Revision uint64
	// DatabaseLatency is the ping round trip, zero without a database.
	DatabaseLatency time.Duration
}

// Service runs the health checks.
type Service struct {
	db          DBPinger
	corpus      Corpus
	pingTimeout time.Duration
}

// New creates a Service. db is nil when running memory-only.
func New(db DBPinger, corpus Corpus) *Service {
	return &Service{db: db, corpus: corpus, pingTimeout: DefaultPingTimeout}
}

// Check pings the database, if any, and verifies the corpus has been loaded.
// A loaded but empty corpus is healthy.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{
		Checks:   make(map[string]CheckResult, 2),
		Articles: s.corpus.Len(),
		Revision: s.corpus.Revision(),
	}

	if s.db != nil {
		pctx, cancel := context.WithTimeout(ctx, s.pingTimeout)
		start := time.Now()
		err := s.db.Ping(pctx)
		r.DatabaseLatency = time.Since(start)
		cancel()
		r.Checks[ComponentDatabase] = result(err == nil)
	}
	r.Checks[ComponentCorpus] = result(r.Revision > 0)

	r.Status = Healthy
	for _, v := range r.Checks {
		if v == CheckError {
			r.Status = Degraded
			break
		}
	}
	return r
}

func result(ok bool) CheckResult {
	if ok {
		return CheckOK
	}
	return CheckError
}
