package kbsearch

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver    string // "", "valkey" or "redis"
	addrs     []string
	password  string
	keyPrefix string

	seedPath string

	snippetLength    int
	suggestMinLength int
	suggestMaxLimit  int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithSeedFile loads the initial corpus from a YAML seed file instead of the
// built-in one. Ignored when a persistent store already holds articles.
func WithSeedFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.seedPath = path
	})
}

// WithValkey persists the corpus in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis persists the corpus in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix namespaces persisted keys. Default: "kbsearch:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithSnippetLength sets the snippet size in characters. Default: 200.
func WithSnippetLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.snippetLength = n
	})
}

// WithSuggestions bounds autocomplete: the minimum fragment length and the
// maximum number of suggestions per call. Defaults: 2 and 20.
func WithSuggestions(minLength, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.suggestMinLength = minLength
		c.suggestMaxLimit = maxLimit
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
