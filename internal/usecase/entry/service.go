package entry

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GravityKit/GravityView-sub009/internal/domain"
	domview "github.com/GravityKit/GravityView-sub009/internal/domain/view"
	"github.com/GravityKit/GravityView-sub009/internal/logger"
)

// Service registers forms and ingests their entries.
type Service struct {
	entries     Repository
	forms       FormRepository
	invalidator Invalidator
}

// New creates an entry service.
func New(entries Repository, forms FormRepository) *Service {
	return &Service{entries: entries, forms: forms}
}

// WithInvalidator notifies inv whenever a form's entries or definition change.
func (s *Service) WithInvalidator(inv Invalidator) *Service {
	s.invalidator = inv
	return s
}

// SaveForm stores the form definition and prepares entry storage for it.
func (s *Service) SaveForm(ctx context.Context, form domview.Form) error {
	if err := s.forms.SaveForm(ctx, form); err != nil {
		return fmt.Errorf("save form: %w", err)
	}
	if err := s.entries.PrepareForm(ctx, form); err != nil {
		return fmt.Errorf("prepare form %d: %w", form.ID, err)
	}
	return s.invalidate(ctx, form.ID)
}

// Ingest stores entries of a known form. Entries without a form id inherit
// formID. If any entry names a different form the request is rejected and
// nothing is stored. It returns how many entries were stored before any
// storage failure.
func (s *Service) Ingest(ctx context.Context, formID int, entries []domview.Entry) (int, error) {
	ctx = logger.With(ctx, zap.Int("form_id", formID))
	if _, err := s.forms.GetForm(ctx, formID); err != nil {
		return 0, fmt.Errorf("get form: %w", err)
	}

	batch := make([]domview.Entry, 0, len(entries))
	for _, e := range entries {
		if e.FormID == 0 {
			e.FormID = formID
		}
		if e.FormID != formID {
			return 0, fmt.Errorf("%w: entry %d belongs to form %d, not %d",
				domain.ErrInvalidConfiguration, e.ID, e.FormID, formID)
		}
		batch = append(batch, e)
	}

	n, err := s.save(ctx, batch)
	if n > 0 {
		if ierr := s.invalidate(ctx, formID); ierr != nil && err == nil {
			err = ierr
		}
	}
	if err != nil {
		return n, err
	}

	logger.FromContext(ctx).Debug("Entries ingested", zap.Int("count", n))
	return n, nil
}

func (s *Service) invalidate(ctx context.Context, formID int) error {
	if s.invalidator == nil {
		return nil
	}
	if err := s.invalidator.Invalidate(ctx, formID); err != nil {
		return fmt.Errorf("invalidate sieve cache: %w", err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, batch []domview.Entry) (int, error) {
	if b, ok := s.entries.(BatchSaver); ok && len(batch) > 1 {
		if err := b.SaveBatch(ctx, batch); err != nil {
			return 0, fmt.Errorf("save %d entries: %w", len(batch), err)
		}
		return len(batch), nil
	}
	for i, e := range batch {
		if err := s.entries.Save(ctx, e); err != nil {
			return i, fmt.Errorf("save entry %d: %w", e.ID, err)
		}
	}
	return len(batch), nil
}
