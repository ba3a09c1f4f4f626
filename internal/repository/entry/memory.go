package entry

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/GravityKit/GravityView-sub009/internal/domain"
	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
	domview "github.com/GravityKit/GravityView-sub009/internal/domain/view"
)

// MemoryRepo keeps entries in process. It backs offline tooling and tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	entries map[int]map[int64]map[string]string // form -> entry -> meta
}

var _ searchfield.ValueSource = (*MemoryRepo)(nil)

// NewMemory creates an empty in-memory entry repository.
func NewMemory() *MemoryRepo {
	return &MemoryRepo{entries: map[int]map[int64]map[string]string{}}
}

// PrepareForm is a no-op.
func (r *MemoryRepo) PrepareForm(context.Context, domview.Form) error { return nil }

// Save stores or replaces the entry.
func (r *MemoryRepo) Save(_ context.Context, e domview.Entry) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(e)
	return nil
}

// SaveBatch stores every entry, or none when one is invalid.
func (r *MemoryRepo) SaveBatch(_ context.Context, entries []domview.Entry) error {
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrInvalidConfiguration, err)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.put(e)
	}
	return nil
}

func (r *MemoryRepo) put(e domview.Entry) {
	if r.entries[e.FormID] == nil {
		r.entries[e.FormID] = map[int64]map[string]string{}
	}
	r.entries[e.FormID][e.ID] = e.Meta()
}

// Values scans the form's entries in id order.
func (r *MemoryRepo) Values(_ context.Context, q searchfield.ValueQuery) (map[string][]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	form := r.entries[q.FormID]
	ids := make([]int64, 0, len(form))
	for id := range form {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make(map[string][]string, len(q.Keys))
	for _, id := range ids {
		meta := form[id]
		if !matches(meta, q.Criteria) {
			continue
		}
		for _, k := range q.Keys {
			if v := meta[k]; v != "" && !slices.Contains(out[k], v) {
				out[k] = append(out[k], v)
			}
		}
	}
	return out, nil
}

func matches(meta, criteria map[string]string) bool {
	for k, v := range criteria {
		if meta[k] != v {
			return false
		}
	}
	return true
}
