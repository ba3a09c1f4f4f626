package gravityview

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
)

// FormService manages form definitions.
type FormService struct {
	widgetSvc widgetUseCase
	entrySvc  entryUseCase
	obs       *observer
}

// Save stores a form and prepares its entry index.
func (s *FormService) Save(ctx context.Context, form Form) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("form.save", start, err, "form_id", form.ID) }()

	if err = s.entrySvc.SaveForm(ctx, form); err != nil {
		return fmt.Errorf("save form: %w", err)
	}
	return nil
}

// Available lists every search field a widget for the form can offer.
func (s *FormService) Available(ctx context.Context, formID int) (_ []AvailableField, err error) {
	start := time.Now()
	defer func() { s.obs.observe("form.available", start, err, "form_id", formID) }()

	fields, err := s.widgetSvc.AvailableFields(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("available fields: %w", err)
	}
	return fields, nil
}

// ViewService manages views.
type ViewService struct {
	svc widgetUseCase
	obs *observer
}

// Save stores a view. Its search fields are kept as given; use
// SearchFieldService.Configure to store a normalized set.
func (s *ViewService) Save(ctx context.Context, v View) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("view.save", start, err, "view_id", v.ID) }()

	if err = s.svc.SaveView(ctx, v); err != nil {
		return fmt.Errorf("save view: %w", err)
	}
	return nil
}

// Delete removes a view. Unknown ids return ErrViewNotFound.
func (s *ViewService) Delete(ctx context.Context, viewID int) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("view.delete", start, err, "view_id", viewID) }()

	if err = s.svc.DeleteView(ctx, viewID); err != nil {
		return fmt.Errorf("delete view: %w", err)
	}
	return nil
}

// EntryService ingests entries for one form.
type EntryService struct {
	formID int
	svc    entryUseCase
	obs    *observer
}

// Ingest stores entries and returns how many were written. Entries without
// a form id inherit the service's form.
func (s *EntryService) Ingest(ctx context.Context, entries ...Entry) (_ int, err error) {
	start := time.Now()
	defer func() { s.obs.observe("entries.ingest", start, err, "form_id", s.formID) }()

	n, err := s.svc.Ingest(ctx, s.formID, entries)
	if err != nil {
		return n, fmt.Errorf("ingest entries: %w", err)
	}
	return n, nil
}

// SearchFieldService works with one view's search widget.
type SearchFieldService struct {
	viewID int
	svc    widgetUseCase
	obs    *observer
}

// Render returns template data for every visible field, read against the
// submitted query parameters. Both "name" and "name[]" keys are honored.
func (s *SearchFieldService) Render(ctx context.Context, query url.Values) (_ []TemplateData, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search_fields.render", start, err, "view_id", s.viewID) }()

	data, err := s.svc.Render(ctx, s.viewID, searchfield.NewRequest(query))
	if err != nil {
		return nil, fmt.Errorf("render search fields: %w", err)
	}
	return data, nil
}

// Configuration returns the view's normalized field configuration.
func (s *SearchFieldService) Configuration(ctx context.Context) (_ []Configuration, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search_fields.configuration", start, err, "view_id", s.viewID) }()

	cfgs, err := s.svc.Configuration(ctx, s.viewID)
	if err != nil {
		return nil, fmt.Errorf("search field configuration: %w", err)
	}
	return cfgs, nil
}

// Configure replaces the view's fields and returns the stored, normalized
// configuration. Unknown field types fail with ErrUnknownFieldType.
func (s *SearchFieldService) Configure(ctx context.Context, cfgs []Configuration) (_ []Configuration, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search_fields.configure", start, err, "view_id", s.viewID) }()

	out, err := s.svc.Configure(ctx, s.viewID, cfgs)
	if err != nil {
		return nil, fmt.Errorf("configure search fields: %w", err)
	}
	return out, nil
}

// Legacy returns the fields in the {field, input, title} shape.
func (s *SearchFieldService) Legacy(ctx context.Context) (_ []LegacyFormat, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search_fields.legacy", start, err, "view_id", s.viewID) }()

	out, err := s.svc.Legacy(ctx, s.viewID)
	if err != nil {
		return nil, fmt.Errorf("legacy search fields: %w", err)
	}
	return out, nil
}
