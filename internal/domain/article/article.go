package article

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kailas-cloud/kbsearch/internal/domain"
)

// Content limits enforced on create and update.
const (
	MinTitleLength   = 5
	MinContentLength = 50
	// DefaultRelevance is the base score assigned to newly authored articles.
	DefaultRelevance = 0.5
)

// Revision is one entry of an article's version history.
type Revision struct {
	Version   int
	UpdatedAt time.Time
	UpdatedBy string
}

// Article is the unit of retrieval (immutable value object).
type Article struct {
	id        string
	title     string
	content   string
	category  string
	tags      []string
	relevance float64
	status    Status
	createdAt time.Time
	updatedAt time.Time
	viewCount int64
	author    string
	version   int
	history   []Revision
}

// Draft holds the author-supplied fields of a new article.
type Draft struct {
	Title    string
	Content  string
	Category string
	Tags     []string
	Status   Status
}

// New validates a draft and creates an article at version 1.
// Status defaults to draft, relevance to DefaultRelevance.
func New(id string, d Draft, author string, now time.Time) (Article, error) {
	if id == "" {
		return Article{}, fmt.Errorf("article ID is required")
	}

	var errs domain.FieldErrors
	if utf8.RuneCountInString(d.Title) < MinTitleLength {
		errs = append(errs, minLength("title", MinTitleLength))
	}
	if utf8.RuneCountInString(d.Content) < MinContentLength {
		errs = append(errs, minLength("content", MinContentLength))
	}
	if strings.TrimSpace(d.Category) == "" {
		errs = append(errs, domain.FieldError{Field: "category", Message: "Category is required", Code: domain.CodeRequired})
	}
	status := d.Status
	if status == "" {
		status = StatusDraft
	}
	if !status.IsValid() {
		errs = append(errs, domain.FieldError{
			Field: "status", Message: fmt.Sprintf("unknown status %q", d.Status), Code: domain.CodeInvalid,
		})
	}
	if len(errs) > 0 {
		return Article{}, errs
	}

	now = now.UTC()
	return Article{
		id:        id,
		title:     d.Title,
		content:   d.Content,
		category:  d.Category,
		tags:      normalizeTags(d.Tags),
		relevance: DefaultRelevance,
		status:    status,
		createdAt: now,
		updatedAt: now,
		author:    author,
		version:   1,
		history:   []Revision{{Version: 1, UpdatedAt: now, UpdatedBy: author}},
	}, nil
}

// Fields carries every stored attribute for hydration.
type Fields struct {
	ID             string
	Title          string
	Content        string
	Category       string
	Tags           []string
	RelevanceScore float64
	Status         Status
	CreatedDate    time.Time
	LastUpdated    time.Time
	ViewCount      int64
	Author         string
	Version        int
	History        []Revision
}

// Reconstruct creates an Article from stored fields without author validation
// (seed and storage hydration). It still rejects data that would break the
// corpus invariants.
func Reconstruct(f Fields) (Article, error) {
	if f.ID == "" {
		return Article{}, fmt.Errorf("article ID is required")
	}
	if !f.Status.IsValid() {
		return Article{}, fmt.Errorf("article %s: unknown status %q", f.ID, f.Status)
	}
	if f.RelevanceScore < 0 || f.RelevanceScore > 1 {
		return Article{}, fmt.Errorf("article %s: relevance score %v outside [0,1]", f.ID, f.RelevanceScore)
	}
	if f.LastUpdated.Before(f.CreatedDate) {
		return Article{}, fmt.Errorf("article %s: lastUpdated precedes createdDate", f.ID)
	}
	if f.ViewCount < 0 {
		return Article{}, fmt.Errorf("article %s: negative view count", f.ID)
	}
	version := f.Version
	if version <= 0 {
		version = 1
	}
	history := append([]Revision(nil), f.History...)
	if len(history) == 0 {
		history = []Revision{{Version: 1, UpdatedAt: f.CreatedDate, UpdatedBy: f.Author}}
	}
	return Article{
		id:        f.ID,
		title:     f.Title,
		content:   f.Content,
		category:  f.Category,
		tags:      normalizeTags(f.Tags),
		relevance: f.RelevanceScore,
		status:    f.Status,
		createdAt: f.CreatedDate.UTC(),
		updatedAt: f.LastUpdated.UTC(),
		viewCount: f.ViewCount,
		author:    f.Author,
		version:   version,
		history:   history,
	}, nil
}

// ID returns the article identifier.
func (a *Article) ID() string { return a.id }

// Title returns the article title.
func (a *Article) Title() string { return a.title }

// Content returns the article body.
func (a *Article) Content() string { return a.content }

// Category returns the article category as authored.
func (a *Article) Category() string { return a.category }

// Tags returns the lowercase tags.
func (a *Article) Tags() []string { return a.tags }

// RelevanceScore returns the stored base score.
func (a *Article) RelevanceScore() float64 { return a.relevance }

// Status returns the lifecycle status.
func (a *Article) Status() Status { return a.status }

// CreatedDate returns the creation timestamp.
func (a *Article) CreatedDate() time.Time { return a.createdAt }

// LastUpdated returns the last modification timestamp.
func (a *Article) LastUpdated() time.Time { return a.updatedAt }

// ViewCount returns the number of single-article retrievals.
func (a *Article) ViewCount() int64 { return a.viewCount }

// Author returns the creator id.
func (a *Article) Author() string { return a.author }

// Version returns the revision number.
func (a *Article) Version() int { return a.version }

// History returns the version history, oldest first.
func (a *Article) History() []Revision { return a.history }

// IsPublished reports whether the article is visible to search.
func (a *Article) IsPublished() bool { return a.status == StatusPublished }

// Fields exports every attribute (storage DTOs).
func (a *Article) Fields() Fields {
	return Fields{
		ID: a.id, Title: a.title, Content: a.content, Category: a.category,
		Tags: slices.Clone(a.tags), RelevanceScore: a.relevance, Status: a.status,
		CreatedDate: a.createdAt, LastUpdated: a.updatedAt, ViewCount: a.viewCount,
		Author: a.author, Version: a.version, History: slices.Clone(a.history),
	}
}

// Clone returns a deep copy that shares no slices with the receiver.
func (a *Article) Clone() Article {
	c := *a
	c.tags = slices.Clone(a.tags)
	c.history = slices.Clone(a.history)
	return c
}

// WithViews returns a copy with the view count replaced.
func (a *Article) WithViews(n int64) Article {
	c := a.Clone()
	c.viewCount = n
	return c
}

// WithStatus returns a copy moved to status s and touched at now.
func (a *Article) WithStatus(s Status, now time.Time) Article {
	c := a.Clone()
	c.status = s
	c.touch(now)
	return c
}

// Apply validates a patch and returns the updated copy with a new revision.
func (a *Article) Apply(p Patch, editor string, now time.Time) (Article, error) {
	if err := p.validate(); err != nil {
		return Article{}, err
	}
	c := a.Clone()
	if p.Title != nil {
		c.title = *p.Title
	}
	if p.Content != nil {
		c.content = *p.Content
	}
	if p.Category != nil {
		c.category = *p.Category
	}
	if p.Tags != nil {
		c.tags = normalizeTags(*p.Tags)
	}
	if p.Status != nil {
		c.status = *p.Status
	}
	c.touch(now)
	c.version++
	c.history = append(c.history, Revision{Version: c.version, UpdatedAt: c.updatedAt, UpdatedBy: editor})
	return c, nil
}

// touch moves lastUpdated forward, never behind createdDate.
func (a *Article) touch(now time.Time) {
	now = now.UTC()
	if now.Before(a.createdAt) {
		now = a.createdAt
	}
	a.updatedAt = now
}

func normalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func minLength(field string, n int) domain.FieldError {
	return domain.FieldError{
		Field:   field,
		Message: fmt.Sprintf("%s must be at least %d characters", strings.ToUpper(field[:1])+field[1:], n),
		Code:    domain.CodeMinLength,
	}
}
