package analytics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domana "github.com/kailas-cloud/kbsearch/internal/domain/analytics"
)

type mockStore struct {
	list    []string
	pushErr error
	readErr error
	keys    []string
	keep    int64
}

func (m *mockStore) RPushCapped(_ context.Context, key string, keep int64, values ...string) error {
	if m.pushErr != nil {
		return m.pushErr
	}
	m.keys = append(m.keys, key)
	m.keep = keep
	m.list = append(m.list, values...)
	return nil
}

func (m *mockStore) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	if start != 0 || stop != -1 {
		return nil, errors.New("unexpected range")
	}
	m.keys = append(m.keys, key)
	return m.list, nil
}

var t0 = time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)

func sampleEvents() []domana.Event {
	return []domana.Event{
		{Type: domana.TypeSearch, SessionID: "s1", UserID: "u1", ReceivedAt: t0,
			Data: map[string]any{"query": "refund", "resultCount": 3}},
		{Type: domana.TypeResultClick, ReceivedAt: t0.Add(48 * time.Hour)},
	}
}

func TestRepo_AppendRange(t *testing.T) {
	ms := &mockStore{}
	r := New(ms, "")

	if err := r.Append(context.Background(), sampleEvents()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ms.list) != 2 || !strings.Contains(ms.list[0], `"type":"search"`) {
		t.Fatalf("stored %v", ms.list)
	}
	if ms.keep != Retention {
		t.Errorf("keep = %d, want %d", ms.keep, Retention)
	}

	got, err := r.Range(context.Background(), t0.Add(-time.Hour), t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "u1" || got[0].Query() != "refund" {
		t.Fatalf("got %+v", got)
	}
	if n, ok := got[0].ResultCount(); !ok || n != 3 {
		t.Errorf("ResultCount() = %d, %v", n, ok)
	}
	for _, k := range ms.keys {
		if k != "kbsearch:analytics:events" {
			t.Errorf("key = %q", k)
		}
	}
}

func TestRepo_AppendEmptyIsNoop(t *testing.T) {
	ms := &mockStore{pushErr: errors.New("must not be called")}
	if err := New(ms, "x:").Append(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRepo_Errors(t *testing.T) {
	r := New(&mockStore{pushErr: errors.New("down"), readErr: errors.New("down")}, "")
	if err := r.Append(context.Background(), sampleEvents()); err == nil {
		t.Error("expected append error")
	}
	if _, err := r.Range(context.Background(), t0, t0); err == nil {
		t.Error("expected range error")
	}

	bad := New(&mockStore{list: []string{"{not json"}}, "")
	if _, err := bad.Range(context.Background(), t0, t0); err == nil {
		t.Error("expected decode error")
	}
}

func TestMemory_Range(t *testing.T) {
	m := NewMemory()
	if err := m.Append(context.Background(), sampleEvents()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := m.Range(context.Background(), t0, t0.Add(48*time.Hour))
	if len(got) != 2 {
		t.Errorf("inclusive range returned %d", len(got))
	}
	got, _ = m.Range(context.Background(), t0.Add(time.Second), t0.Add(time.Hour))
	if len(got) != 0 {
		t.Errorf("empty range returned %d", len(got))
	}
}

func TestMemory_DropsOldestBeyondRetention(t *testing.T) {
	m := &Memory{keep: 3}
	for i := range 5 {
		ev := domana.Event{Type: domana.TypeSessionStart, SessionID: string(rune('a' + i)), ReceivedAt: t0}
		if err := m.Append(context.Background(), []domana.Event{ev}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	got, _ := m.Range(context.Background(), t0, t0)
	if len(got) != 3 || got[0].SessionID != "c" || got[2].SessionID != "e" {
		t.Errorf("kept %+v", got)
	}
}
