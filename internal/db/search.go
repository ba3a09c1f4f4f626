package db

// TagFilter matches documents whose TAG field equals Value exactly.
type TagFilter struct {
	Field string
	Value string
}

// TagQuery is the input for a filtered, paginated listing.
type TagQuery struct {
	IndexName    string
	Filters      []TagFilter
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
