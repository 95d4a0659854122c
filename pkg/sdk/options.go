package aggspec

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
	driver    string // "valkey" or "redis"
	addrs     []string
	password  string
	keyPrefix string
	ttl       time.Duration

	catalogPath string
	properties  []Property

	esURL   string
	esIndex string
	stats   StatisticsProvider

	statsTimeout  time.Duration
	statsCacheTTL time.Duration
	subscribers   []Subscriber

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey stores snapshots in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis stores snapshots in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix sets the storage key prefix. Default: "aggspec:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithSnapshotTTL expires stored snapshots ttl after their last change.
func WithSnapshotTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.ttl = ttl
	})
}

// WithCatalogFile loads the property catalog from a YAML file.
func WithCatalogFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogPath = path
	})
}

// WithProperties sets the property catalog directly. Takes precedence over WithCatalogFile.
func WithProperties(props ...Property) Option {
	return optionFunc(func(c *clientConfig) {
		c.properties = append(c.properties, props...)
	})
}

// WithElasticsearch answers histogram field statistics from an index.
func WithElasticsearch(url, index string) Option {
	return optionFunc(func(c *clientConfig) {
		c.esURL = url
		c.esIndex = index
	})
}

// WithStatistics sets a custom statistics provider. Takes precedence over WithElasticsearch.
func WithStatistics(p StatisticsProvider) Option {
	return optionFunc(func(c *clientConfig) {
		c.stats = p
	})
}

// WithStatisticsTimeout bounds every statistics request.
func WithStatisticsTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.statsTimeout = d
	})
}

// WithStatisticsCache caches field statistics in the store for ttl.
// Ignored without WithValkey or WithRedis.
func WithStatisticsCache(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.statsCacheTTL = ttl
	})
}

// WithSubscriber receives every published snapshot.
func WithSubscriber(s Subscriber) Option {
	return optionFunc(func(c *clientConfig) {
		c.subscribers = append(c.subscribers, s)
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
