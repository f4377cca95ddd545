package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbsearch/internal/config"
	"github.com/kailas-cloud/kbsearch/internal/db"
	dbRedis "github.com/kailas-cloud/kbsearch/internal/db/redis"
	"github.com/kailas-cloud/kbsearch/internal/metrics"
	analyticsrepo "github.com/kailas-cloud/kbsearch/internal/repository/analytics"
	articlerepo "github.com/kailas-cloud/kbsearch/internal/repository/article"
	"github.com/kailas-cloud/kbsearch/internal/repository/corpus"
	chiTransport "github.com/kailas-cloud/kbsearch/internal/transport/chi"
	analyticsuc "github.com/kailas-cloud/kbsearch/internal/usecase/analytics"
	articleuc "github.com/kailas-cloud/kbsearch/internal/usecase/article"
	categoryuc "github.com/kailas-cloud/kbsearch/internal/usecase/category"
	healthuc "github.com/kailas-cloud/kbsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/kbsearch/internal/usecase/search"
)

// app is the wired service: HTTP handler plus the resources to release.
type app struct {
	handler http.Handler
	store   db.Store // nil when memory only
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// buildApp is the composition root: store, corpus, use cases and transport.
func buildApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	var store db.Store
	if cfg.Database.Persistent() {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Database.Driver, err)
		}
		if err := s.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			s.Close()
			return nil, fmt.Errorf("database not ready: %w", err)
		}
		log.Info("Connected to database",
			zap.String("driver", cfg.Database.Driver),
			zap.Strings("addrs", cfg.Database.Addrs),
		)
		store = s
	}

	a, err := wire(ctx, cfg, store, log)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return a, nil
}

func wire(ctx context.Context, cfg *config.Config, store db.Store, log *zap.Logger) (*app, error) {
	seed, err := corpus.LoadSeed(cfg.Corpus.SeedPath)
	if err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}

	// Pass nil interfaces (not typed nil pointers) when memory only.
	var (
		persist  articleuc.Persister
		pinger   healthuc.DBPinger
		eventLog analyticsuc.EventStore = analyticsrepo.NewMemory()
	)
	if store != nil {
		persist = articlerepo.New(store, cfg.Database.KeyPrefix)
		pinger = store
		eventLog = analyticsrepo.New(store, cfg.Database.KeyPrefix)
	}

	metrics.RegisterSearchMetrics()
	rec := metrics.Recorder{}

	c := corpus.NewStore()
	articleSvc := articleuc.New(c, persist)
	n, err := articleSvc.Bootstrap(ctx, seed.Articles)
	if err != nil {
		return nil, fmt.Errorf("bootstrap corpus: %w", err)
	}
	log.Info("Corpus ready", zap.Int("articles", n), zap.Int("categories", len(seed.Categories)))

	searchSvc, err := searchuc.New(c, rec, searchuc.Config{
		SnippetLength:    cfg.Search.SnippetLength,
		DisableSummaries: cfg.Search.DisableSummaries,
		SuggestMinLength: cfg.Suggest.MinLength,
		SuggestMaxLimit:  cfg.Suggest.MaxLimit,
		SuggestCacheSize: cfg.Suggest.CacheSize,
	})
	if err != nil {
		return nil, fmt.Errorf("create search service: %w", err)
	}

	limiter, err := chiTransport.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.MaxClients)
	if err != nil {
		return nil, fmt.Errorf("create rate limiter: %w", err)
	}
	eventsLimiter, err := chiTransport.NewRateLimiter(cfg.RateLimit.AnalyticsRequestsPerMinute, cfg.RateLimit.MaxClients)
	if err != nil {
		return nil, fmt.Errorf("create analytics rate limiter: %w", err)
	}

	server := chiTransport.NewServer(chiTransport.Services{
		Search:     searchSvc,
		Articles:   articleSvc,
		Categories: categoryuc.New(seed.Categories, c),
		Analytics:  analyticsuc.New(eventLog, rec),
		Health:     healthuc.New(pinger, c),
	}, chiTransport.Options{
		Auth: chiTransport.NewAuthenticator(chiTransport.AuthConfig{
			Required:  cfg.Auth.Required,
			APIKeys:   cfg.Auth.APIKeys,
			JWTSecret: cfg.Auth.JWTSecret,
		}),
		RateLimit:      limiter,
		AnalyticsLimit: eventsLimiter,
		MaxBodyBytes:   int64(cfg.HTTP.MaxBodyBytes),
		SuggestLimit:   cfg.Suggest.DefaultLimit,
	}, log)

	return &app{handler: server.Handler(), store: store}, nil
}
