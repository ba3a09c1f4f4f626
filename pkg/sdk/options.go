package gravityview

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
	addrs    []string
	username string
	password string
	db       int

	pageSize int
	sieveTTL time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisCluster configures several seed addresses.
func WithRedisCluster(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = append([]string(nil), addrs...)
	})
}

// WithCredentials sets the ACL user and password.
func WithCredentials(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithDB selects the logical database.
func WithDB(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = n
	})
}

// WithScanPageSize sets how many entries each value lookup reads per page.
// Default: 500.
func WithScanPageSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.pageSize = n
	})
}

// WithSieveCache caches sieved choice values in Redis for ttl.
// Disabled by default.
func WithSieveCache(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.sieveTTL = ttl
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
