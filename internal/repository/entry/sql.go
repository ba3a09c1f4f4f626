package entry

import (
	"context"
	"fmt"

	"github.com/GravityKit/GravityView-sub009/internal/db/postgres"
	"github.com/GravityKit/GravityView-sub009/internal/domain"
	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
	domview "github.com/GravityKit/GravityView-sub009/internal/domain/view"
)

// sqlStore is the consumer interface for relational entries (ISP).
type sqlStore interface {
	SaveEntry(ctx context.Context, rec postgres.EntryRecord) error
	SaveEntries(ctx context.Context, recs []postgres.EntryRecord) error
	DistinctValues(ctx context.Context, formID int, keys []string, criteria map[string]string) (map[string][]string, error)
}

// SQLRepo stores entries as rows with a meta table.
type SQLRepo struct {
	store sqlStore
}

var _ searchfield.ValueSource = (*SQLRepo)(nil)

// NewSQL creates a relational entry repository.
func NewSQL(s sqlStore) *SQLRepo {
	return &SQLRepo{store: s}
}

// PrepareForm is a no-op; the schema is created by migrations.
func (r *SQLRepo) PrepareForm(context.Context, domview.Form) error { return nil }

// Save upserts the entry.
func (r *SQLRepo) Save(ctx context.Context, e domview.Entry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
	}
	if err := r.store.SaveEntry(ctx, record(e)); err != nil {
		return fmt.Errorf("save entry %d: %w", e.ID, err)
	}
	return nil
}

// SaveBatch upserts all entries in one transaction.
func (r *SQLRepo) SaveBatch(ctx context.Context, entries []domview.Entry) error {
	recs := make([]postgres.EntryRecord, 0, len(entries))
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
		}
		recs = append(recs, record(e))
	}
	if err := r.store.SaveEntries(ctx, recs); err != nil {
		return fmt.Errorf("save %d entries: %w", len(recs), err)
	}
	return nil
}

func record(e domview.Entry) postgres.EntryRecord {
	return postgres.EntryRecord{
		ID:          e.ID,
		FormID:      e.FormID,
		DateCreated: e.DateCreated,
		Meta:        e.Meta(),
	}
}

// Values returns the distinct stored values of each key.
func (r *SQLRepo) Values(ctx context.Context, q searchfield.ValueQuery) (map[string][]string, error) {
	out, err := r.store.DistinctValues(ctx, q.FormID, q.Keys, q.Criteria)
	if err != nil {
		return nil, fmt.Errorf("distinct values of form %d: %w", q.FormID, err)
	}
	return out, nil
}
