// Package redis implements db.Store on rueidis. Valkey speaks the same
// protocol, so one implementation serves both drivers.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/kbsearch/internal/db"
)

var _ db.Store = (*Store)(nil)

const (
	defaultScanCount = 100
	clientName       = "kbsearch"

	readyInitialDelay = 50 * time.Millisecond
	readyMaxDelay     = 2 * time.Second
)

// Config holds connection parameters for a Redis or Valkey server.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	// ScanCount is the COUNT hint per SCAN page (default 100).
	ScanCount int64
}

// Store is a rueidis-backed db.Store.
type Store struct {
	client    rueidis.Client
	scanCount int64
}

// NewStore connects to the first reachable address in cfg.Addrs.
// Client-side caching is off: every article read goes through the in-memory
// corpus anyway.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   clientName,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect %v: %w", cfg.Addrs, err)
	}

	return newStore(client, cfg.ScanCount), nil
}

func newStore(c rueidis.Client, scanCount int64) *Store {
	if scanCount <= 0 {
		scanCount = defaultScanCount
	}
	return &Store{client: c, scanCount: scanCount}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings with doubling delays until the server answers or
// timeout expires. The last ping error is reported on timeout.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delay := readyInitialDelay
	var lastErr error
	for {
		if lastErr = s.Ping(ctx); lastErr == nil {
			return nil
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("database not ready after %s: %w", timeout, lastErr)
		case <-t.C:
		}
		delay = min(delay*2, readyMaxDelay)
	}
}
