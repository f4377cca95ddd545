package analytics

import (
	"context"
	"time"

	domana "github.com/kailas-cloud/kbsearch/internal/domain/analytics"
)

// EventStore appends and reads back ingested events.
type EventStore interface {
	Append(ctx context.Context, events []domana.Event) error
	// Range returns events received in [from, to], oldest first.
	Range(ctx context.Context, from, to time.Time) ([]domana.Event, error)
}

// Recorder counts accepted events by type.
type Recorder interface {
	ObserveEvent(eventType string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveEvent(string) {}
