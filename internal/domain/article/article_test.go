package article

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/kbsearch/internal/domain"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func validDraft() Draft {
	return Draft{
		Title:    "How to Reset a Password",
		Content:  strings.Repeat("Password reset instructions. ", 3),
		Category: "Technical Support",
		Tags:     []string{"Password", " Login ", ""},
	}
}

func TestNew_Valid(t *testing.T) {
	a, err := New("art_1", validDraft(), "user_dev", testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID() != "art_1" {
		t.Errorf("ID() = %q", a.ID())
	}
	if a.Status() != StatusDraft {
		t.Errorf("Status() = %q, want draft", a.Status())
	}
	if a.RelevanceScore() != DefaultRelevance {
		t.Errorf("RelevanceScore() = %v", a.RelevanceScore())
	}
	if a.Version() != 1 || len(a.History()) != 1 {
		t.Errorf("Version() = %d, history = %d", a.Version(), len(a.History()))
	}
	if got := strings.Join(a.Tags(), ","); got != "password,login" {
		t.Errorf("Tags() = %q, want lowercase trimmed", got)
	}
	if !a.CreatedDate().Equal(testNow) || !a.LastUpdated().Equal(testNow) {
		t.Errorf("timestamps = %v / %v", a.CreatedDate(), a.LastUpdated())
	}
}

func TestNew_FieldErrors(t *testing.T) {
	_, err := New("art_1", Draft{Title: "abc", Content: "short"}, "u", testNow)
	if !errors.Is(err, domain.ErrUnprocessable) {
		t.Fatalf("expected ErrUnprocessable, got %v", err)
	}
	var fe domain.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldErrors, got %T", err)
	}
	fields := make([]string, len(fe))
	for i, f := range fe {
		fields[i] = f.Field
	}
	if got := strings.Join(fields, ","); got != "title,content,category" {
		t.Errorf("fields = %q", got)
	}
	if fe[0].Code != domain.CodeMinLength || fe[2].Code != domain.CodeRequired {
		t.Errorf("codes = %q, %q", fe[0].Code, fe[2].Code)
	}
}

func TestNew_UnknownStatus(t *testing.T) {
	d := validDraft()
	d.Status = "deleted"
	if _, err := New("art_1", d, "u", testNow); !errors.Is(err, domain.ErrUnprocessable) {
		t.Fatalf("expected ErrUnprocessable, got %v", err)
	}
}

func TestReconstruct_Invariants(t *testing.T) {
	base := Fields{
		ID: "art_1", Title: "t", Status: StatusPublished, RelevanceScore: 0.5,
		CreatedDate: testNow, LastUpdated: testNow.Add(time.Hour),
	}
	tests := []struct {
		name   string
		mutate func(*Fields)
	}{
		{"empty id", func(f *Fields) { f.ID = "" }},
		{"bad status", func(f *Fields) { f.Status = "gone" }},
		{"score above 1", func(f *Fields) { f.RelevanceScore = 1.5 }},
		{"negative score", func(f *Fields) { f.RelevanceScore = -0.1 }},
		{"updated before created", func(f *Fields) { f.LastUpdated = testNow.Add(-time.Hour) }},
		{"negative views", func(f *Fields) { f.ViewCount = -1 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := base
			tc.mutate(&f)
			if _, err := Reconstruct(f); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	a, err := Reconstruct(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Version() != 1 || len(a.History()) != 1 {
		t.Errorf("defaults not applied: version %d history %d", a.Version(), len(a.History()))
	}
}

func TestClone_DoesNotShareTags(t *testing.T) {
	a, _ := New("art_1", validDraft(), "u", testNow)
	c := a.Clone()
	c.Tags()[0] = "mutated"
	if a.Tags()[0] != "password" {
		t.Error("clone shares tag storage with original")
	}
}

func TestApply_BumpsVersion(t *testing.T) {
	a, _ := New("art_1", validDraft(), "author", testNow)
	title := "Resetting Passwords Safely"
	published := StatusPublished
	later := testNow.Add(2 * time.Hour)

	u, err := a.Apply(Patch{Title: &title, Status: &published}, "editor", later)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Title() != title || u.Status() != StatusPublished {
		t.Errorf("patch not applied: %q %q", u.Title(), u.Status())
	}
	if u.Version() != 2 {
		t.Errorf("Version() = %d, want 2", u.Version())
	}
	last := u.History()[len(u.History())-1]
	if last.Version != 2 || last.UpdatedBy != "editor" || !last.UpdatedAt.Equal(later) {
		t.Errorf("history entry = %+v", last)
	}
	if a.Version() != 1 || a.Title() == title {
		t.Error("Apply mutated the receiver")
	}
}

func TestApply_RejectsShortFields(t *testing.T) {
	a, _ := New("art_1", validDraft(), "u", testNow)
	short := "tiny"
	if _, err := a.Apply(Patch{Content: &short}, "u", testNow); !errors.Is(err, domain.ErrUnprocessable) {
		t.Fatalf("expected ErrUnprocessable, got %v", err)
	}
}

func TestWithStatus_NeverMovesBeforeCreation(t *testing.T) {
	a, _ := New("art_1", validDraft(), "u", testNow)
	archived := a.WithStatus(StatusArchived, testNow.Add(-24*time.Hour))
	if archived.LastUpdated().Before(archived.CreatedDate()) {
		t.Error("lastUpdated moved before createdDate")
	}
	if archived.Status() != StatusArchived {
		t.Errorf("Status() = %q", archived.Status())
	}
}
