package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domana "github.com/kailas-cloud/kbsearch/internal/domain/analytics"
)

const (
	// DefaultKeyPrefix namespaces the event list key.
	DefaultKeyPrefix = "kbsearch:"
	// Retention is the number of newest events kept; older ones are dropped
	// on append.
	Retention = 100_000
)

// store is the consumer interface for event lists (ISP).
type store interface {
	RPushCapped(ctx context.Context, key string, keep int64, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// Repo appends events as JSON to a single list.
type Repo struct {
	store store
	key   string
}

// New creates an event repository. An empty prefix selects DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{store: s, key: prefix + "analytics:events"}
}

// Append stores events and trims the log to Retention entries.
func (r *Repo) Append(ctx context.Context, events []domana.Event) error {
	if len(events) == 0 {
		return nil
	}
	vals := make([]string, len(events))
	for i := range events {
		b, err := json.Marshal(toDTO(&events[i]))
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		vals[i] = string(b)
	}
	if err := r.store.RPushCapped(ctx, r.key, Retention, vals...); err != nil {
		return fmt.Errorf("append events: %w", err)
	}
	return nil
}

// Range reads the whole list and keeps events received in [from, to].
func (r *Repo) Range(ctx context.Context, from, to time.Time) ([]domana.Event, error) {
	vals, err := r.store.LRange(ctx, r.key, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	var out []domana.Event
	for _, v := range vals {
		var d eventDTO
		if err := json.Unmarshal([]byte(v), &d); err != nil {
			return nil, fmt.Errorf("unmarshal event: %w", err)
		}
		if inPeriod(d.ReceivedAt, from, to) {
			out = append(out, d.toDomain())
		}
	}
	return out, nil
}
