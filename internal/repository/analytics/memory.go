package analytics

import (
	"context"
	"slices"
	"sync"
	"time"

	domana "github.com/kailas-cloud/kbsearch/internal/domain/analytics"
)

// Memory keeps events in process; used when no database is configured.
type Memory struct {
	mu     sync.RWMutex
	events []domana.Event
	keep   int
}

// NewMemory creates an empty in-memory event store holding at most
// Retention events.
func NewMemory() *Memory {
	return &Memory{keep: Retention}
}

// Append stores events, dropping the oldest beyond the retention limit.
func (m *Memory) Append(_ context.Context, events []domana.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	if over := len(m.events) - m.keep; m.keep > 0 && over > 0 {
		m.events = slices.Delete(m.events, 0, over)
	}
	return nil
}

// Range returns events received in [from, to].
func (m *Memory) Range(_ context.Context, from, to time.Time) ([]domana.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domana.Event
	for i := range m.events {
		if inPeriod(m.events[i].ReceivedAt, from, to) {
			out = append(out, m.events[i])
		}
	}
	return out, nil
}
