package search

import (
	"time"

	"github.com/kailas-cloud/kbsearch/internal/domain/article"
)

// Corpus provides point-in-time copies of the article set.
type Corpus interface {
	Snapshot() (revision uint64, articles []article.Article)
	Revision() uint64
}

// Recorder receives engine measurements. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveSearch(sortBy string, took time.Duration, total int)
	ObserveSuggestCache(hit bool)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSearch(string, time.Duration, int) {}
func (nopRecorder) ObserveSuggestCache(bool)                 {}
