package article

import (
	"context"

	domart "github.com/kailas-cloud/kbsearch/internal/domain/article"
)

// Corpus is the in-memory article set shared with the search engine.
type Corpus interface {
	GetAll() []domart.Article
	GetByID(id string) (domart.Article, bool)
	Insert(a domart.Article) bool
	Remove(id string) bool
	Modify(id string, fn func(domart.Article) (domart.Article, error)) (domart.Article, bool, error)
	IncrementViews(id string) (domart.Article, bool)
	SetViews(id string, n int64)
	Load(arts []domart.Article)
}

// Persister mirrors corpus mutations into durable storage.
type Persister interface {
	LoadAll(ctx context.Context) ([]domart.Article, error)
	SaveAll(ctx context.Context, arts []domart.Article) error
	Insert(ctx context.Context, a *domart.Article) error
	Update(ctx context.Context, a *domart.Article) error
	IncrementViews(ctx context.Context, id string) (int64, error)
}
