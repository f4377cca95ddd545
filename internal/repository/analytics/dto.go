package analytics

import (
	"time"

	domana "github.com/kailas-cloud/kbsearch/internal/domain/analytics"
)

// eventDTO is the JSON list element stored per event.
type eventDTO struct {
	Type       string         `json:"type"`
	SessionID  string         `json:"session_id,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
	Data       map[string]any `json:"data,omitempty"`
	UserID     string         `json:"user_id,omitempty"`
	TenantID   string         `json:"tenant_id,omitempty"`
	ReceivedAt time.Time      `json:"received_at"`
}

func toDTO(e *domana.Event) eventDTO {
	return eventDTO{
		Type:       string(e.Type),
		SessionID:  e.SessionID,
		Timestamp:  e.Timestamp,
		Data:       e.Data,
		UserID:     e.UserID,
		TenantID:   e.TenantID,
		ReceivedAt: e.ReceivedAt,
	}
}

func (d eventDTO) toDomain() domana.Event {
	return domana.Event{
		Type:       domana.EventType(d.Type),
		SessionID:  d.SessionID,
		Timestamp:  d.Timestamp,
		Data:       d.Data,
		UserID:     d.UserID,
		TenantID:   d.TenantID,
		ReceivedAt: d.ReceivedAt,
	}
}

func inPeriod(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
