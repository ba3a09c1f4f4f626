package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/GravityKit/GravityView-sub009/internal/db"
)

// EntryRecord is one entry row with its flattened meta.
type EntryRecord struct {
	ID          int64
	FormID      int
	DateCreated time.Time
	Meta        map[string]string
}

// executor is satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SaveEntry upserts the entry and replaces its meta rows in one transaction.
func (s *Store) SaveEntry(ctx context.Context, rec EntryRecord) error {
	return s.SaveEntries(ctx, []EntryRecord{rec})
}

// SaveEntries upserts every record in a single transaction; one failure
// rolls back the whole batch.
func (s *Store) SaveEntries(ctx context.Context, recs []EntryRecord) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	for _, rec := range recs {
		if err := saveEntry(ctx, tx, rec); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func saveEntry(ctx context.Context, ex executor, rec EntryRecord) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO entries (id, form_id, date_created)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET form_id = EXCLUDED.form_id, date_created = EXCLUDED.date_created`,
		rec.ID, rec.FormID, rec.DateCreated,
	)
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("entry %d: %w", rec.ID, err)}
	}

	if _, err := ex.ExecContext(ctx, `DELETE FROM entry_meta WHERE entry_id = $1`, rec.ID); err != nil {
		return &db.Error{Op: db.OpDel, Err: fmt.Errorf("entry %d meta: %w", rec.ID, err)}
	}

	keys := make([]string, 0, len(rec.Meta))
	for k := range rec.Meta {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		_, err := ex.ExecContext(ctx,
			`INSERT INTO entry_meta (entry_id, meta_key, meta_value) VALUES ($1, $2, $3)`,
			rec.ID, k, rec.Meta[k],
		)
		if err != nil {
			return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("entry %d meta %s: %w", rec.ID, k, err)}
		}
	}
	return nil
}

// DistinctValues returns, per key, the distinct stored values across the
// form's entries that match every criteria pair.
func (s *Store) DistinctValues(
	ctx context.Context, formID int, keys []string, criteria map[string]string,
) (map[string][]string, error) {
	out := make(map[string][]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	query, args := distinctValuesQuery(formID, keys, criteria)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan meta value: %w", err)
		}
		out[key] = append(out[key], value)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}

// distinctValuesQuery builds the lookup; criteria become EXISTS clauses in key order.
func distinctValuesQuery(formID int, keys []string, criteria map[string]string) (string, []any) {
	var b strings.Builder
	b.WriteString(`SELECT DISTINCT m.meta_key, m.meta_value
		FROM entry_meta m
		JOIN entries e ON e.id = m.entry_id
		WHERE e.form_id = $1 AND m.meta_key = ANY($2)`)
	args := []any{formID, pq.Array(keys)}

	ckeys := make([]string, 0, len(criteria))
	for k := range criteria {
		ckeys = append(ckeys, k)
	}
	slices.Sort(ckeys)
	for _, k := range ckeys {
		fmt.Fprintf(&b, `
		AND EXISTS (SELECT 1 FROM entry_meta c WHERE c.entry_id = m.entry_id AND c.meta_key = $%d AND c.meta_value = $%d)`,
			len(args)+1, len(args)+2)
		args = append(args, k, criteria[k])
	}
	b.WriteString(`
		ORDER BY m.meta_key, m.meta_value`)
	return b.String(), args
}
