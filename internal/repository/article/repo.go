package article

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/kbsearch/internal/db"
	domart "github.com/kailas-cloud/kbsearch/internal/domain/article"
)

// DefaultKeyPrefix namespaces every key written by the repository.
const DefaultKeyPrefix = "kbsearch:"

// store is the consumer interface for articles (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo persists articles as hashes, one key per article.
type Repo struct {
	store  store
	prefix string
}

// New creates an article repository. An empty prefix selects DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// LoadAll returns every stored article ordered by id.
func (r *Repo) LoadAll(ctx context.Context) ([]domart.Article, error) {
	keys, err := r.store.Scan(ctx, r.keyPrefix()+"*")
	if err != nil {
		return nil, fmt.Errorf("scan articles: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}
	sort.Strings(keys)

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}

	out := make([]domart.Article, 0, len(keys))
	for i, m := range hashes {
		if len(m) == 0 {
			continue // deleted between SCAN and HGETALL
		}
		a, err := parseHashFields(strings.TrimPrefix(keys[i], r.keyPrefix()), m)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// SaveAll writes a batch of articles including their view counters.
func (r *Repo) SaveAll(ctx context.Context, arts []domart.Article) error {
	if len(arts) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(arts))
	for i := range arts {
		fields, err := buildHashFields(&arts[i], true)
		if err != nil {
			return fmt.Errorf("article %s: %w", arts[i].ID(), err)
		}
		items[i] = db.HashSetItem{Key: r.key(arts[i].ID()), Fields: fields}
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("save articles: %w", err)
	}
	return nil
}

// Insert writes a new article including its view counter.
func (r *Repo) Insert(ctx context.Context, a *domart.Article) error {
	return r.write(ctx, a, true)
}

// Update rewrites an article's content fields, leaving the view counter alone.
func (r *Repo) Update(ctx context.Context, a *domart.Article) error {
	return r.write(ctx, a, false)
}

// IncrementViews atomically bumps the stored view counter and returns it.
func (r *Repo) IncrementViews(ctx context.Context, id string) (int64, error) {
	n, err := r.store.HIncrBy(ctx, r.key(id), fieldViewCount, 1)
	if err != nil {
		return 0, fmt.Errorf("increment views %s: %w", id, err)
	}
	return n, nil
}

func (r *Repo) write(ctx context.Context, a *domart.Article, withViews bool) error {
	fields, err := buildHashFields(a, withViews)
	if err != nil {
		return fmt.Errorf("article %s: %w", a.ID(), err)
	}
	key := r.key(a.ID())
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

func (r *Repo) keyPrefix() string { return r.prefix + "article:" }

func (r *Repo) key(id string) string { return r.keyPrefix() + id }
