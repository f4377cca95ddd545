package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// Corpus reports the size and mutation counter of the article set.
type Corpus interface {
	Len() int
	Revision() uint64
}
