package sievecache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/GravityKit/GravityView-sub009/internal/db"
	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
)

type mockSource struct {
	values map[string][]string
	err    error
	calls  int
}

func (m *mockSource) Values(_ context.Context, _ searchfield.ValueQuery) (map[string][]string, error) {
	m.calls++
	return m.values, m.err
}

// mockKVStore implements the consumer interface for tests. Generation
// counters live in gens and never reach getFn.
type mockKVStore struct {
	getFn  func(ctx context.Context, key string) ([]byte, error)
	setFn  func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	gens   map[string]int64
	genErr error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if strings.HasPrefix(key, generationKeyPrefix) {
		if m.genErr != nil {
			return nil, m.genErr
		}
		n, ok := m.gens[key]
		if !ok {
			return nil, db.ErrKeyNotFound
		}
		return []byte(strconv.FormatInt(n, 10)), nil
	}
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockKVStore) Incr(_ context.Context, key string) (int64, error) {
	if m.genErr != nil {
		return 0, m.genErr
	}
	if m.gens == nil {
		m.gens = map[string]int64{}
	}
	m.gens[key]++
	return m.gens[key], nil
}

// mapKVStore is a working in-memory store.
type mapKVStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapKVStore() *mapKVStore { return &mapKVStore{data: map[string][]byte{}} }

func (m *mapKVStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mapKVStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapKVStore) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := strconv.ParseInt(string(m.data[key]), 10, 64)
	n++
	m.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

func newTestCachedSource(t *testing.T, inner *mockSource) (*CachedSource, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	return New(inner, ms, time.Minute, nil, zap.NewNop()), ms
}
