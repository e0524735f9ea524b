package assessrank

import (
	"log/slog"
	"time"

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
	driver     string // "valkey" or "redis", empty for no cache
	addrs      []string
	password   string
	standalone bool
	cacheTTL   time.Duration

	stopWords      bool
	minTokenLength int
	workers        int
	maxK           int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey caches ranked results in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis caches ranked results in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithStandalone disables cluster topology discovery.
// Use for standalone Valkey/Redis instances (not managed by cluster operator).
func WithStandalone() Option {
	return optionFunc(func(c *clientConfig) {
		c.standalone = true
	})
}

// WithCacheTTL sets how long cached rankings live. Default: 1h.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithStopWords toggles English stop-word removal. Default: enabled.
func WithStopWords(enabled bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.stopWords = enabled
	})
}

// WithMinTokenLength drops tokens shorter than n runes. Default: 2.
func WithMinTokenLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.minTokenLength = n
	})
}

// WithWorkers sets how many evaluation cases run in parallel. Default: 4.
func WithWorkers(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = n
	})
}

// WithMaxRecommendations caps k for Recommend. Default: 10.
func WithMaxRecommendations(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxK = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts, durations and
// cache outcomes) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
