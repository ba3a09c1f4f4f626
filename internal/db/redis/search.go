package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/GravityKit/GravityView-sub009/internal/db"
)

// SearchTags lists documents matching every tag filter.
func (s *Store) SearchTags(ctx context.Context, q *db.TagQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	return s.searchList(ctx, q.IndexName, buildTagQuery(q.Filters), q.Offset, q.Limit, q.ReturnFields)
}

// searchList runs one paginated FT.SEARCH page.
func (s *Store) searchList(
	ctx context.Context, index, query string, offset, limit int, fields []string,
) (*db.SearchResult, error) {
	args := []string{index, query}

	if len(fields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(fields)))
		args = append(args, fields...)
	}
	args = append(args, "LIMIT", strconv.Itoa(offset), strconv.Itoa(limit), "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "no such index") || isRedisErr(err, "unknown index name") {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseListResult(raw)
}

// parseListResult reads the RESP2 layout [total, key1, fields1, key2, fields2, ...].
func parseListResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/2)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// buildTagQuery joins tag filters into an intersection; no filters match everything.
func buildTagQuery(filters []db.TagFilter) string {
	if len(filters) == 0 {
		return "*"
	}
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		parts = append(parts, buildTagFilter(f.Field, f.Value))
	}
	return strings.Join(parts, " ")
}

func buildTagFilter(key, value string) string {
	return fmt.Sprintf("@%s:{%s}", key, tagEscaper.Replace(value))
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)
