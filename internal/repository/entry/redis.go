package entry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/GravityKit/GravityView-sub009/internal/db"
	"github.com/GravityKit/GravityView-sub009/internal/domain"
	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
	domview "github.com/GravityKit/GravityView-sub009/internal/domain/view"
)

const (
	defaultPageSize = 500
	fieldDate       = "date_created"
)

var metaKeys = []string{
	domview.MetaCreatedBy,
	domview.MetaIsApproved,
	domview.MetaIsRead,
	domview.MetaIsStarred,
}

// redisStore is the consumer interface for hash-backed entries (ISP).
type redisStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchTags(ctx context.Context, q *db.TagQuery) (*db.SearchResult, error)
}

// RedisRepo stores entries as hashes under a per-form FT index.
type RedisRepo struct {
	store    redisStore
	pageSize int
}

var _ searchfield.ValueSource = (*RedisRepo)(nil)

// NewRedis creates a Redis entry repository.
func NewRedis(s redisStore) *RedisRepo {
	return &RedisRepo{store: s, pageSize: defaultPageSize}
}

// WithPageSize sets how many entries one FT.SEARCH page returns.
func (r *RedisRepo) WithPageSize(n int) *RedisRepo {
	if n > 0 {
		r.pageSize = n
	}
	return r
}

// PrepareForm (re)creates the form's entry index so its schema tracks the
// current field list. Dropping the index keeps the entry hashes; FT.CREATE
// re-indexes them by prefix.
func (r *RedisRepo) PrepareForm(ctx context.Context, form domview.Form) error {
	b := db.NewIndex(indexName(form.ID), entryPrefix(form.ID))
	for _, k := range metaKeys {
		b.ExactTag(hashField(k))
	}
	for _, ff := range form.Fields {
		for _, id := range fieldIDs(ff) {
			b.ExactTag(hashField(id))
		}
	}
	def, err := b.Numeric(fieldDate, true).Build()
	if err != nil {
		return fmt.Errorf("build entry index for form %d: %w", form.ID, err)
	}

	exists, err := r.store.IndexExists(ctx, def.Name)
	if err != nil {
		return fmt.Errorf("check entry index for form %d: %w", form.ID, err)
	}
	if exists {
		if err := r.store.DropIndex(ctx, def.Name); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			return fmt.Errorf("drop entry index for form %d: %w", form.ID, err)
		}
	}
	// A concurrent PrepareForm may have won the race; its schema is the same.
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create entry index for form %d: %w", form.ID, err)
	}
	return nil
}

// Save writes the entry hash. Meta defaults come from the entry itself.
func (r *RedisRepo) Save(ctx context.Context, e domview.Entry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
	}
	if err := r.store.HSet(ctx, entryKey(e.FormID, e.ID), hashFields(e)); err != nil {
		return fmt.Errorf("hset entry %d: %w", e.ID, err)
	}
	return nil
}

// SaveBatch validates every entry, then writes all hashes in one pipelined
// round trip. Nothing is written when any entry is invalid.
func (r *RedisRepo) SaveBatch(ctx context.Context, entries []domview.Entry) error {
	items := make([]db.HashSetItem, 0, len(entries))
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
		}
		items = append(items, db.HashSetItem{Key: entryKey(e.FormID, e.ID), Fields: hashFields(e)})
	}
	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset %d entries: %w", len(items), err)
	}
	return nil
}

func hashFields(e domview.Entry) map[string]string {
	meta := e.Meta()
	fields := make(map[string]string, len(meta)+1)
	for k, v := range meta {
		fields[hashField(k)] = v
	}
	fields[fieldDate] = strconv.FormatInt(e.DateCreated.Unix(), 10)
	return fields
}

// Values pages through the form's entries matching the criteria and
// collects the distinct raw values of each requested key.
func (r *RedisRepo) Values(ctx context.Context, q searchfield.ValueQuery) (map[string][]string, error) {
	out := make(map[string][]string, len(q.Keys))
	if len(q.Keys) == 0 {
		return out, nil
	}

	returnFields := make([]string, len(q.Keys))
	for i, k := range q.Keys {
		returnFields[i] = hashField(k)
	}
	tq := &db.TagQuery{
		IndexName:    indexName(q.FormID),
		Filters:      tagFilters(q.Criteria),
		Limit:        r.pageSize,
		ReturnFields: returnFields,
	}

	seen := make(map[string]map[string]bool, len(q.Keys))
	for {
		res, err := r.store.SearchTags(ctx, tq)
		if err != nil {
			if errors.Is(err, db.ErrIndexNotFound) {
				return out, nil
			}
			return nil, fmt.Errorf("search entries of form %d: %w", q.FormID, err)
		}
		for _, hit := range res.Entries {
			for i, k := range q.Keys {
				v, ok := hit.Fields[returnFields[i]]
				if !ok || v == "" {
					continue
				}
				if seen[k] == nil {
					seen[k] = map[string]bool{}
				}
				if !seen[k][v] {
					seen[k][v] = true
					out[k] = append(out[k], v)
				}
			}
		}
		tq.Offset += len(res.Entries)
		if len(res.Entries) == 0 || tq.Offset >= res.Total {
			return out, nil
		}
	}
}

func tagFilters(criteria map[string]string) []db.TagFilter {
	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	filters := make([]db.TagFilter, len(keys))
	for i, k := range keys {
		filters[i] = db.TagFilter{Field: hashField(k), Value: criteria[k]}
	}
	return filters
}

// fieldIDs lists the field's id and every sub-input id.
func fieldIDs(ff domview.FormField) []string {
	ids := []string{ff.ID}
	for _, in := range ff.Inputs {
		ids = append(ids, in.ID)
	}
	return ids
}

// hashField maps a field id or meta key onto its hash field name.
func hashField(key string) string {
	if slices.Contains(metaKeys, key) {
		return "m_" + key
	}
	return "f_" + strings.ReplaceAll(key, ".", "_")
}

func indexName(formID int) string {
	return fmt.Sprintf("%sidx:entries:%d", domain.KeyPrefix, formID)
}

func entryPrefix(formID int) string {
	return fmt.Sprintf("%sentry:%d:", domain.KeyPrefix, formID)
}

func entryKey(formID int, id int64) string {
	return entryPrefix(formID) + strconv.FormatInt(id, 10)
}
