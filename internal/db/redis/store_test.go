package redis

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/GravityKit/GravityView-sub009/internal/db"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

// --- hash.go tests ---

func TestHSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "HSET" && cmd[1] == "gravityview:entry:789:1" && slices.Contains(cmd, "f_2")
		})).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	err := s.HSet(context.Background(), "gravityview:entry:789:1", map[string]string{"f_2": "red"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "HSET"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.HSet(context.Background(), "mykey", map[string]string{"f": "v"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestHSetMulti_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(2)),
			mock.Result(mock.RedisInt64(2)),
		})

	s := NewStoreForTest(c)
	err := s.HSetMulti(context.Background(), []db.HashSetItem{
		{Key: "k1", Fields: map[string]string{"f1": "v1"}},
		{Key: "k2", Fields: map[string]string{"f2": "v2"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSetMulti_Empty(t *testing.T) {
	s := NewStoreForTest(nil)
	if err := s.HSetMulti(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDel_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("DEL", "mykey")).
		Return(mock.Result(mock.RedisInt64(1)))

	s := NewStoreForTest(c)
	if err := s.Del(context.Background(), "mykey"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.Result(mock.RedisBlobString("value")))

	s := NewStoreForTest(c)
	data, err := s.Get(context.Background(), "mykey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "value" {
		t.Errorf("unexpected data: %s", data)
	}
}

func TestGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "mykey")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestGet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "mykey")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	_, err := s.Get(context.Background(), "mykey")
	if errors.Is(err, db.ErrKeyNotFound) || !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func TestSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "mykey", "myvalue")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.Set(context.Background(), "mykey", []byte("myvalue")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetWithTTL_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "mykey", "myvalue", "EX", "60")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.SetWithTTL(context.Background(), "mykey", []byte("myvalue"), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIncr_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("INCR", "counter")).
		Return(mock.Result(mock.RedisInt64(3)))

	s := NewStoreForTest(c)
	n, err := s.Incr(context.Background(), "counter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("Incr = %d, want 3", n)
	}
}

func TestIncr_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("INCR", "counter")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if _, err := s.Incr(context.Background(), "counter"); !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

// --- index.go tests ---

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	want := []string{
		"FT.CREATE", "gravityview:idx:entries:789", "ON", "HASH",
		"PREFIX", "1", "gravityview:entry:789:",
		"SCHEMA", "m_is_approved", "TAG", "SEPARATOR", "|", "CASESENSITIVE",
		"date_created", "NUMERIC", "SORTABLE",
	}
	c.EXPECT().
		Do(gomock.Any(), mock.Match(want...)).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	idx, err := db.NewIndex("gravityview:idx:entries:789", "gravityview:entry:789:").
		ExactTag("m_is_approved").
		Numeric("date_created", true).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := s.CreateIndex(context.Background(), idx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	idx := &db.IndexDefinition{Name: "idx", Prefix: "p:", Fields: []db.SchemaField{{Name: "t", Kind: db.KindTag}}}
	if err := s.CreateIndex(context.Background(), idx); !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestDropIndex_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "idx")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	if err := s.DropIndex(context.Background(), "idx"); !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.INFO", "present")).
			Return(mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("present")))),
		c.EXPECT().
			Do(gomock.Any(), mock.Match("FT.INFO", "absent")).
			Return(mock.Result(mock.RedisError("Unknown index name"))),
	)

	s := NewStoreForTest(c)
	if ok, err := s.IndexExists(context.Background(), "present"); err != nil || !ok {
		t.Errorf("IndexExists(present) = %v, %v", ok, err)
	}
	if ok, err := s.IndexExists(context.Background(), "absent"); err != nil || ok {
		t.Errorf("IndexExists(absent) = %v, %v", ok, err)
	}
}

func TestCreateIndex_InvalidDefinition(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	s := NewStoreForTest(c)
	err := s.CreateIndex(context.Background(), &db.IndexDefinition{Name: "idx"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var dbErr *db.Error
	if errors.As(err, &dbErr) {
		t.Errorf("validation failure should not reach redis, got %v", err)
	}
}

// --- search.go tests ---

func TestSearchTags_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	want := []string{
		"FT.SEARCH", "idx", `@m_is_approved:{1} @f_2:{light\ blue}`,
		"RETURN", "1", "f_2", "LIMIT", "0", "100", "DIALECT", "2",
	}
	c.EXPECT().
		Do(gomock.Any(), mock.Match(want...)).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2),
			mock.RedisString("gravityview:entry:789:1"),
			mock.RedisArray(mock.RedisString("f_2"), mock.RedisString("light blue")),
			mock.RedisString("gravityview:entry:789:2"),
			mock.RedisArray(mock.RedisString("f_2"), mock.RedisString("light blue")),
		)))

	s := NewStoreForTest(c)
	res, err := s.SearchTags(context.Background(), &db.TagQuery{
		IndexName: "idx",
		Filters: []db.TagFilter{
			{Field: "m_is_approved", Value: "1"},
			{Field: "f_2", Value: "light blue"},
		},
		Limit:        100,
		ReturnFields: []string{"f_2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 || len(res.Entries) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Entries[0].Fields["f_2"] != "light blue" {
		t.Errorf("fields = %v", res.Entries[0].Fields)
	}
}

func TestSearchTags_Validation(t *testing.T) {
	s := NewStoreForTest(nil)
	if _, err := s.SearchTags(context.Background(), &db.TagQuery{Limit: 10}); err == nil {
		t.Error("expected error for missing index")
	}
	if _, err := s.SearchTags(context.Background(), &db.TagQuery{IndexName: "idx"}); err == nil {
		t.Error("expected error for zero limit")
	}
}

func TestSearchList_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if _, err := s.searchList(context.Background(), "idx", "*", 0, 10, nil); !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func TestSearchList_UnknownIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisError("idx: no such index")))

	s := NewStoreForTest(c)
	if _, err := s.searchList(context.Background(), "idx", "*", 0, 10, nil); !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestBuildTagQuery(t *testing.T) {
	tests := []struct {
		name    string
		filters []db.TagFilter
		want    string
	}{
		{"match all", nil, "*"},
		{"single", []db.TagFilter{{Field: "m_created_by", Value: "7"}}, "@m_created_by:{7}"},
		{"escaped", []db.TagFilter{{Field: "f_5", Value: "a.b@c-d"}}, `@f_5:{a\.b\@c\-d}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := buildTagQuery(tc.filters); got != tc.want {
				t.Errorf("buildTagQuery() = %q, want %q", got, tc.want)
			}
		})
	}
}

// --- helpers ---

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
