package article

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	domart "github.com/kailas-cloud/kbsearch/internal/domain/article"
)

// Hash field names.
const (
	fieldTitle     = "title"
	fieldContent   = "content"
	fieldCategory  = "category"
	fieldTags      = "tags"
	fieldScore     = "relevance_score"
	fieldStatus    = "status"
	fieldCreated   = "created_date"
	fieldUpdated   = "last_updated"
	fieldViewCount = "view_count"
	fieldAuthor    = "author"
	fieldVersion   = "version"
	fieldHistory   = "history"
)

type revisionDTO struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`
}

// buildHashFields flattens an article for HSET. The view counter is written
// only when withViews is set; otherwise HINCRBY owns it.
func buildHashFields(a *domart.Article, withViews bool) (map[string]string, error) {
	tags, err := json.Marshal(a.Tags())
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	hist := make([]revisionDTO, len(a.History()))
	for i, r := range a.History() {
		hist[i] = revisionDTO(r)
	}
	history, err := json.Marshal(hist)
	if err != nil {
		return nil, fmt.Errorf("marshal history: %w", err)
	}

	m := map[string]string{
		fieldTitle:    a.Title(),
		fieldContent:  a.Content(),
		fieldCategory: a.Category(),
		fieldTags:     string(tags),
		fieldScore:    strconv.FormatFloat(a.RelevanceScore(), 'f', -1, 64),
		fieldStatus:   string(a.Status()),
		fieldCreated:  a.CreatedDate().Format(time.RFC3339Nano),
		fieldUpdated:  a.LastUpdated().Format(time.RFC3339Nano),
		fieldAuthor:   a.Author(),
		fieldVersion:  strconv.Itoa(a.Version()),
		fieldHistory:  string(history),
	}
	if withViews {
		m[fieldViewCount] = strconv.FormatInt(a.ViewCount(), 10)
	}
	return m, nil
}

// parseHashFields converts a stored hash back into a domain article.
func parseHashFields(id string, m map[string]string) (domart.Article, error) {
	f := domart.Fields{
		ID:       id,
		Title:    m[fieldTitle],
		Content:  m[fieldContent],
		Category: m[fieldCategory],
		Status:   domart.Status(m[fieldStatus]),
		Author:   m[fieldAuthor],
	}

	if raw := m[fieldTags]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &f.Tags); err != nil {
			return domart.Article{}, fmt.Errorf("article %s: tags: %w", id, err)
		}
	}
	if raw := m[fieldHistory]; raw != "" {
		var hist []revisionDTO
		if err := json.Unmarshal([]byte(raw), &hist); err != nil {
			return domart.Article{}, fmt.Errorf("article %s: history: %w", id, err)
		}
		f.History = make([]domart.Revision, len(hist))
		for i, r := range hist {
			f.History[i] = domart.Revision(r)
		}
	}

	var err error
	if f.RelevanceScore, err = parseFloat(m, fieldScore); err != nil {
		return domart.Article{}, fmt.Errorf("article %s: %w", id, err)
	}
	if f.CreatedDate, err = parseTime(m, fieldCreated); err != nil {
		return domart.Article{}, fmt.Errorf("article %s: %w", id, err)
	}
	if f.LastUpdated, err = parseTime(m, fieldUpdated); err != nil {
		return domart.Article{}, fmt.Errorf("article %s: %w", id, err)
	}
	if v := m[fieldViewCount]; v != "" {
		if f.ViewCount, err = strconv.ParseInt(v, 10, 64); err != nil {
			return domart.Article{}, fmt.Errorf("article %s: %s: %w", id, fieldViewCount, err)
		}
	}
	if v := m[fieldVersion]; v != "" {
		if f.Version, err = strconv.Atoi(v); err != nil {
			return domart.Article{}, fmt.Errorf("article %s: %s: %w", id, fieldVersion, err)
		}
	}
	return domart.Reconstruct(f)
}

func parseFloat(m map[string]string, field string) (float64, error) {
	v, err := strconv.ParseFloat(m[field], 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return v, nil
}

func parseTime(m map[string]string, field string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, m[field])
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", field, err)
	}
	return t, nil
}
