package entry

import (
	"context"
	"testing"

	"github.com/GravityKit/GravityView-sub009/internal/db"
	"github.com/GravityKit/GravityView-sub009/internal/db/postgres"
)

// mockRedisStore implements the redis consumer interface for tests.
type mockRedisStore struct {
	hsetFn        func(ctx context.Context, key string, fields map[string]string) error
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	searchFn      func(ctx context.Context, q *db.TagQuery) (*db.SearchResult, error)
	indexExists   bool
	existsErr     error
	dropped       []string
	queries       []db.TagQuery
}

func (m *mockRedisStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockRedisStore) DropIndex(_ context.Context, name string) error {
	m.dropped = append(m.dropped, name)
	return nil
}

func (m *mockRedisStore) IndexExists(context.Context, string) (bool, error) {
	return m.indexExists, m.existsErr
}

func (m *mockRedisStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockRedisStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockRedisStore) SearchTags(ctx context.Context, q *db.TagQuery) (*db.SearchResult, error) {
	m.queries = append(m.queries, *q)
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

// mockSQLStore implements the sql consumer interface for tests.
type mockSQLStore struct {
	saved    []postgres.EntryRecord
	batches  int
	saveErr  error
	values   map[string][]string
	valueErr error
	formID   int
	keys     []string
	criteria map[string]string
}

func (m *mockSQLStore) SaveEntry(_ context.Context, rec postgres.EntryRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, rec)
	return nil
}

func (m *mockSQLStore) SaveEntries(_ context.Context, recs []postgres.EntryRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.batches++
	m.saved = append(m.saved, recs...)
	return nil
}

func (m *mockSQLStore) DistinctValues(
	_ context.Context, formID int, keys []string, criteria map[string]string,
) (map[string][]string, error) {
	m.formID, m.keys, m.criteria = formID, keys, criteria
	return m.values, m.valueErr
}

func newTestRedisRepo(t *testing.T) (*RedisRepo, *mockRedisStore) {
	t.Helper()
	ms := &mockRedisStore{}
	return NewRedis(ms), ms
}
