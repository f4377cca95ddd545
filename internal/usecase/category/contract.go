package category

import domart "github.com/kailas-cloud/kbsearch/internal/domain/article"

// Articles exposes the live corpus for counting.
type Articles interface {
	GetAll() []domart.Article
}
