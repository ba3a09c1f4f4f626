package gravityview

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	sieveCache *prometheus.CounterVec
	fallbacks  prometheus.Counter
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gravityview",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gravityview",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		sieveCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gravityview",
			Subsystem: "sdk",
			Name:      "sieve_cache_total",
			Help:      "Sieve cache lookups by result (hit/miss).",
		}, []string{"result"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gravityview",
			Subsystem: "sdk",
			Name:      "fallback_fields_total",
			Help:      "Stored search field configurations rendered as a submit button.",
		}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.sieveCache); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.fallbacks); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one, so two
// clients can share a registerer.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("gravityview: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("gravityview: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer provides logging and metrics for SDK operations. A nil observer
// records nothing.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// observe records one finished operation. attrs are extra slog key/value
// pairs such as "view_id", 10.
func (o *observer) observe(op string, start time.Time, err error, attrs ...any) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	args := append([]any{"op", op, "duration", dur}, attrs...)
	if err != nil {
		o.logger.Warn("operation failed", append(args, "error", err)...)
		return
	}
	o.logger.Debug("operation completed", args...)
}

func (o *observer) sieveCacheCounter() *prometheus.CounterVec {
	if o == nil || o.metrics == nil {
		return nil
	}
	return o.metrics.sieveCache
}

func (o *observer) fallbackCounter() prometheus.Counter {
	if o == nil || o.metrics == nil {
		return nil
	}
	return o.metrics.fallbacks
}
