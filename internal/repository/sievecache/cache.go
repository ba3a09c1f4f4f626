package sievecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/GravityKit/GravityView-sub009/internal/db"
	"github.com/GravityKit/GravityView-sub009/internal/domain"
	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
)

var (
	cacheKeyPrefix      = domain.KeyPrefix + "sieve_cache:"
	generationKeyPrefix = domain.KeyPrefix + "sieve_gen:"
)

// store is the consumer interface for the sieve cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// CachedSource caches value lookups in a key-value store for a fixed TTL.
// Entries are keyed by a per-form generation; Invalidate bumps it so the
// next lookup misses.
type CachedSource struct {
	inner      searchfield.ValueSource
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

var _ searchfield.ValueSource = (*CachedSource)(nil)

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner searchfield.ValueSource,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSource {
	return &CachedSource{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Values returns cached values or queries the inner source.
// Cache failures degrade to the inner source; they never fail the lookup.
func (c *CachedSource) Values(ctx context.Context, q searchfield.ValueQuery) (map[string][]string, error) {
	gen, ok := c.generation(ctx, q.FormID)
	if !ok {
		c.incCache("miss")
		vals, err := c.inner.Values(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("query values: %w", err)
		}
		return vals, nil
	}
	key := cacheKey(q, gen)

	if vals, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return vals, nil
	}

	c.incCache("miss")

	vals, err := c.inner.Values(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query values: %w", err)
	}

	c.putToCache(ctx, key, vals)
	return vals, nil
}

// Invalidate makes every cached lookup for the form stale.
func (c *CachedSource) Invalidate(ctx context.Context, formID int) error {
	gen, err := c.store.Incr(ctx, generationKey(formID))
	if err != nil {
		return fmt.Errorf("bump generation for form %d: %w", formID, err)
	}
	c.logger.Debug("Sieve cache invalidated", zap.Int("form_id", formID), zap.Int64("generation", gen))
	return nil
}

// generation reads the form's current generation. A missing counter is
// generation zero. It reports false when the counter cannot be read, in
// which case the cache must be bypassed.
func (c *CachedSource) generation(ctx context.Context, formID int) (string, bool) {
	key := generationKey(formID)
	data, err := c.store.Get(ctx, key)
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
		return "0", true
	case err != nil:
		c.logger.Warn("Failed to read sieve cache generation", zap.String("key", key), zap.Error(err))
		return "", false
	}
	if _, err := strconv.ParseInt(string(data), 10, 64); err != nil {
		c.logger.Warn("Invalid sieve cache generation", zap.String("key", key), zap.ByteString("value", data))
		return "", false
	}
	return string(data), true
}

func generationKey(formID int) string {
	return generationKeyPrefix + strconv.Itoa(formID)
}

func (c *CachedSource) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the query at a generation; key and criteria order do not matter.
func cacheKey(q searchfield.ValueQuery, gen string) string {
	h := sha256.New()
	h.Write([]byte(strconv.Itoa(q.FormID)))
	h.Write([]byte{'@'})
	h.Write([]byte(gen))

	keys := slices.Sorted(slices.Values(q.Keys))
	for _, k := range keys {
		h.Write([]byte{0})
		h.Write([]byte(k))
	}
	h.Write([]byte{1})

	criteria := make([]string, 0, len(q.Criteria))
	for k := range q.Criteria {
		criteria = append(criteria, k)
	}
	slices.Sort(criteria)
	for _, k := range criteria {
		h.Write([]byte{0})
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(q.Criteria[k]))
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedSource) getFromCache(ctx context.Context, key string) (map[string][]string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached sieve values", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var vals map[string][]string
	if err := json.Unmarshal(data, &vals); err != nil {
		c.logger.Warn("Failed to parse cached sieve values", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return vals, true
}

func (c *CachedSource) putToCache(ctx context.Context, key string, vals map[string][]string) {
	data, err := json.Marshal(vals)
	if err != nil {
		c.logger.Warn("Failed to encode sieve values", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache sieve values", zap.String("key", key), zap.Error(err))
	}
}
