package kbsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/kbsearch/internal/db"
	dbRedis "github.com/kailas-cloud/kbsearch/internal/db/redis"
	domart "github.com/kailas-cloud/kbsearch/internal/domain/article"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/result"
	"github.com/kailas-cloud/kbsearch/internal/domain/suggestion"
	articlerepo "github.com/kailas-cloud/kbsearch/internal/repository/article"
	"github.com/kailas-cloud/kbsearch/internal/repository/corpus"
	articleuc "github.com/kailas-cloud/kbsearch/internal/usecase/article"
	healthuc "github.com/kailas-cloud/kbsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/kbsearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for fakes in tests.
type searchUseCase interface {
	Search(ctx context.Context, p *request.Params) (result.Response, error)
	Suggest(ctx context.Context, q suggestion.Query) ([]suggestion.Suggestion, error)
	SuggestLimits() suggestion.Limits
}

type articleUseCase interface {
	Get(ctx context.Context, id string) (domart.Article, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the kbsearch SDK entry point.
type Client struct {
	store     db.Store // nil when memory only
	searchSvc searchUseCase
	articles  articleUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New loads the corpus and builds the engine. The provided context bounds
// the readiness check and the initial load from a persistent store.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	seed, err := corpus.LoadSeed(cfg.seedPath)
	if err != nil {
		return nil, fmt.Errorf("kbsearch: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store db.Store
	if cfg.driver != "" {
		s, err := createStore(cfg)
		if err != nil {
			return nil, err
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("kbsearch: database not ready: %w", err)
		}
		store = s
	}

	c, err := wireClient(ctx, store, seed.Articles, cfg, obs)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (*dbRedis.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("kbsearch: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("kbsearch: unknown driver %q", cfg.driver)
	}
}

func wireClient(
	ctx context.Context, store db.Store, seed []domart.Article, cfg *clientConfig, obs *observer,
) (*Client, error) {
	c := corpus.NewStore()

	// Pass a nil interface, not a typed nil repo, when memory only.
	var persist articleuc.Persister
	var pinger healthuc.DBPinger
	if store != nil {
		persist = articlerepo.New(store, cfg.keyPrefix)
		pinger = store
	}

	articles := articleuc.New(c, persist)
	if _, err := articles.Bootstrap(ctx, seed); err != nil {
		return nil, fmt.Errorf("kbsearch: load corpus: %w", err)
	}

	searchSvc, err := searchuc.New(c, nil, searchuc.Config{
		SnippetLength:    cfg.snippetLength,
		SuggestMinLength: cfg.suggestMinLength,
		SuggestMaxLimit:  cfg.suggestMaxLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("kbsearch: %w", err)
	}

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		articles:  articles,
		healthSvc: healthuc.New(pinger, c),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}
