package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"github.com/GravityKit/GravityView-sub009/internal/db"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		conn.Close()
	})
	return conn, mock
}

func TestSaveEntry(t *testing.T) {
	conn, mock := newMockDB(t)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO entries").
		WithArgs(int64(42), 789, created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM entry_meta WHERE entry_id = \\$1").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO entry_meta").
		WithArgs(int64(42), "2", "red").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO entry_meta").
		WithArgs(int64(42), "is_approved", "1").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	s := NewWithDB(conn)
	err := s.SaveEntry(context.Background(), EntryRecord{
		ID:          42,
		FormID:      789,
		DateCreated: created,
		Meta:        map[string]string{"is_approved": "1", "2": "red"},
	})
	if err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}
}

func TestSaveEntry_RollsBackOnError(t *testing.T) {
	conn, mock := newMockDB(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO entries").WillReturnError(boom)
	mock.ExpectRollback()

	s := NewWithDB(conn)
	err := s.SaveEntry(context.Background(), EntryRecord{ID: 1, FormID: 2})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped boom", err)
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpInsert {
		t.Errorf("error = %#v, want db.Error with INSERT op", err)
	}
}

func TestSaveEntries_SingleTransaction(t *testing.T) {
	conn, mock := newMockDB(t)

	mock.ExpectBegin()
	for _, id := range []int64{1, 2} {
		mock.ExpectExec("INSERT INTO entries").
			WithArgs(id, 789, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM entry_meta WHERE entry_id = \\$1").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO entry_meta").
			WithArgs(id, "is_approved", "1").
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	s := NewWithDB(conn)
	meta := map[string]string{"is_approved": "1"}
	err := s.SaveEntries(context.Background(), []EntryRecord{
		{ID: 1, FormID: 789, Meta: meta},
		{ID: 2, FormID: 789, Meta: meta},
	})
	if err != nil {
		t.Fatalf("SaveEntries: %v", err)
	}
}

func TestSaveEntries_Empty(t *testing.T) {
	conn, _ := newMockDB(t)

	if err := NewWithDB(conn).SaveEntries(context.Background(), nil); err != nil {
		t.Fatalf("SaveEntries(nil): %v", err)
	}
}

func TestDistinctValues(t *testing.T) {
	conn, mock := newMockDB(t)

	mock.ExpectQuery("SELECT DISTINCT m.meta_key, m.meta_value FROM entry_meta m").
		WithArgs(789, sqlmock.AnyArg(), "is_approved", "1").
		WillReturnRows(sqlmock.NewRows([]string{"meta_key", "meta_value"}).
			AddRow("2", "blue").
			AddRow("2", "green").
			AddRow("created_by", "7"))

	s := NewWithDB(conn)
	got, err := s.DistinctValues(context.Background(), 789,
		[]string{"2", "created_by"}, map[string]string{"is_approved": "1"})
	if err != nil {
		t.Fatalf("DistinctValues: %v", err)
	}
	want := map[string][]string{
		"2":          {"blue", "green"},
		"created_by": {"7"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestDistinctValues_NoKeys(t *testing.T) {
	conn, _ := newMockDB(t)
	s := NewWithDB(conn)

	got, err := s.DistinctValues(context.Background(), 789, nil, nil)
	if err != nil {
		t.Fatalf("DistinctValues: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestDistinctValues_QueryError(t *testing.T) {
	conn, mock := newMockDB(t)
	mock.ExpectQuery("SELECT DISTINCT").WillReturnError(sql.ErrConnDone)

	s := NewWithDB(conn)
	_, err := s.DistinctValues(context.Background(), 1, []string{"2"}, nil)
	if !errors.Is(err, sql.ErrConnDone) {
		t.Errorf("error = %v, want ErrConnDone", err)
	}
}

func TestDistinctValuesQuery_CriteriaOrder(t *testing.T) {
	query, args := distinctValuesQuery(789, []string{"2"}, map[string]string{
		"is_approved": "1",
		"created_by":  "7",
	})

	if len(args) != 6 {
		t.Fatalf("args = %v, want 6", args)
	}
	if args[2] != "created_by" || args[3] != "7" || args[4] != "is_approved" || args[5] != "1" {
		t.Errorf("criteria args = %v, want sorted by key", args[2:])
	}
	for _, ph := range []string{"$3", "$4", "$5", "$6"} {
		if !strings.Contains(query, ph) {
			t.Errorf("query missing placeholder %s:\n%s", ph, query)
		}
	}
}

func TestPing(t *testing.T) {
	conn, _ := newMockDB(t)

	if err := NewWithDB(conn).Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
