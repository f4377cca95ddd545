// Package db declares the storage operations the repositories depend on.
// The corpus itself lives in memory; a database only mirrors articles and
// keeps the analytics event log.
package db

import (
	"context"
	"time"
)

// Store is everything the composition root needs from a backend.
type Store interface {
	Pinger
	HashStore
	ListStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem is one key and its fields for a pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore holds one hash per article.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// ListStore is an append-only log with bounded retention.
type ListStore interface {
	// RPushCapped appends values and trims the list to its newest keep
	// entries. keep <= 0 disables trimming.
	RPushCapped(ctx context.Context, key string, keep int64, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}
