package entry

import (
	"context"

	domview "github.com/GravityKit/GravityView-sub009/internal/domain/view"
)

// Repository defines the storage contract for entries.
type Repository interface {
	PrepareForm(ctx context.Context, form domview.Form) error
	Save(ctx context.Context, e domview.Entry) error
}

// BatchSaver is implemented by repositories that store several entries in
// one round trip. The batch is all or nothing.
type BatchSaver interface {
	SaveBatch(ctx context.Context, entries []domview.Entry) error
}

// Invalidator drops derived data, such as cached sieve results, after a
// form's entries or definition change.
type Invalidator interface {
	Invalidate(ctx context.Context, formID int) error
}

// FormRepository defines the storage contract for form definitions.
type FormRepository interface {
	GetForm(ctx context.Context, id int) (*domview.Form, error)
	SaveForm(ctx context.Context, f domview.Form) error
}
