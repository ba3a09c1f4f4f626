package searchwidget

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/GravityKit/GravityView-sub009/internal/domain"
	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
	domview "github.com/GravityKit/GravityView-sub009/internal/domain/view"
	"github.com/GravityKit/GravityView-sub009/internal/logger"
)

// Available describes one field the admin picker can add.
type Available struct {
	Type          string                    `json:"type"`
	Title         string                    `json:"title"`
	Description   string                    `json:"description"`
	Icon          string                    `json:"icon"`
	IconHTML      string                    `json:"icon_html"`
	Input         string                    `json:"input"`
	Options       []searchfield.Option      `json:"options"`
	Configuration searchfield.Configuration `json:"configuration"`
}

// Service renders and configures a view's search widget.
type Service struct {
	views      ViewRepository
	values     searchfield.ValueSource
	visibility searchfield.VisibilityFilter
	fallbacks  prometheus.Counter
}

// New creates a search widget service. values can be nil, which disables sieving.
func New(views ViewRepository, values searchfield.ValueSource) *Service {
	return &Service{views: views, values: values}
}

// WithVisibilityFilter hides fields for which fn returns false when rendering.
func (s *Service) WithVisibilityFilter(fn searchfield.VisibilityFilter) *Service {
	s.visibility = fn
	return s
}

// WithFallbackCounter counts stored fields replaced by the submit button.
func (s *Service) WithFallbackCounter(c prometheus.Counter) *Service {
	s.fallbacks = c
	return s
}

// Render builds template data for every visible field of the view.
func (s *Service) Render(ctx context.Context, viewID int, req searchfield.Request) ([]searchfield.TemplateData, error) {
	v, col, err := s.load(ctx, viewID)
	if err != nil {
		return nil, err
	}
	data, err := col.ToTemplateData(ctx, req, s.values)
	if err != nil {
		return nil, fmt.Errorf("render view %d: %w", v.ID, err)
	}
	return data, nil
}

// Legacy exports the view's fields in the legacy {field, input, title} shape.
func (s *Service) Legacy(ctx context.Context, viewID int) ([]searchfield.LegacyFormat, error) {
	_, col, err := s.load(ctx, viewID)
	if err != nil {
		return nil, err
	}
	return col.ToLegacyFormat(), nil
}

// Configuration returns the view's stored fields in normalized form.
func (s *Service) Configuration(ctx context.Context, viewID int) ([]searchfield.Configuration, error) {
	_, col, err := s.load(ctx, viewID)
	if err != nil {
		return nil, err
	}
	return col.ToConfiguration(), nil
}

// Configure replaces the view's search fields. Every configuration must name a
// known type; the normalized form is what gets stored and returned.
func (s *Service) Configure(
	ctx context.Context, viewID int, cfgs []searchfield.Configuration,
) ([]searchfield.Configuration, error) {
	v, err := s.views.GetView(ctx, viewID)
	if err != nil {
		return nil, fmt.Errorf("get view: %w", err)
	}

	col := searchfield.NewCollection()
	for i, c := range cfgs {
		f, err := searchfield.FromConfiguration(c, v)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d: %w", domain.ErrInvalidConfiguration, i, err)
		}
		col.Add(f)
	}

	normalized := col.ToConfiguration()
	v.SearchFields = make([]map[string]any, len(normalized))
	for i, c := range normalized {
		v.SearchFields[i] = c
	}
	if err := s.views.SaveView(ctx, *v); err != nil {
		return nil, fmt.Errorf("save view: %w", err)
	}

	logger.FromContext(ctx).Info("Search widget configured",
		zap.Int("view_id", v.ID),
		zap.Int("fields", len(normalized)),
	)
	return normalized, nil
}

// SaveView stores a view as given. Its search fields are kept verbatim;
// use Configure to replace them with a normalized set.
func (s *Service) SaveView(ctx context.Context, v domview.View) error {
	if err := s.views.SaveView(ctx, v); err != nil {
		return fmt.Errorf("save view: %w", err)
	}
	return nil
}

// DeleteView removes a view. Unknown ids report ErrViewNotFound.
func (s *Service) DeleteView(ctx context.Context, viewID int) error {
	if _, err := s.views.GetView(ctx, viewID); err != nil {
		return fmt.Errorf("get view: %w", err)
	}
	if err := s.views.DeleteView(ctx, viewID); err != nil {
		return fmt.Errorf("delete view: %w", err)
	}
	logger.FromContext(ctx).Info("View deleted", zap.Int("view_id", viewID))
	return nil
}

// SaveUsers replaces the users offered by entry creator fields.
func (s *Service) SaveUsers(ctx context.Context, users []domview.User) error {
	if err := s.views.SaveUsers(ctx, users); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

// AvailableFields lists every field a search widget for the form can offer.
func (s *Service) AvailableFields(ctx context.Context, formID int) ([]Available, error) {
	form, err := s.views.GetForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("get form: %w", err)
	}
	users, err := s.views.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}

	fields := searchfield.AvailableFields(*form, searchfield.WithUsers(users)).All()
	out := make([]Available, len(fields))
	for i, f := range fields {
		out[i] = Available{
			Type:          f.Type(),
			Title:         f.Title(),
			Description:   f.Description(),
			Icon:          f.Icon(),
			IconHTML:      f.IconHTML(),
			Input:         string(f.InputType()),
			Options:       searchfield.MergeOptions(f),
			Configuration: f.ToConfiguration(),
		}
	}
	return out, nil
}

// load fetches the view and builds its collection from the stored configuration.
func (s *Service) load(ctx context.Context, viewID int) (*domview.View, *searchfield.Collection, error) {
	ctx = logger.With(ctx, zap.Int("view_id", viewID))
	v, err := s.views.GetView(ctx, viewID)
	if err != nil {
		return nil, nil, fmt.Errorf("get view: %w", err)
	}
	users, err := s.views.Users(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("get users: %w", err)
	}

	cfgs := make([]searchfield.Configuration, len(v.SearchFields))
	for i, m := range v.SearchFields {
		cfgs[i] = m
	}
	col := searchfield.CollectionFromConfiguration(cfgs, v,
		searchfield.WithLogger(logger.FromContext(ctx)),
		searchfield.WithUsers(users),
		searchfield.WithVisibilityFilter(s.visibility),
		searchfield.WithFallbackObserver(func(int, error) {
			if s.fallbacks != nil {
				s.fallbacks.Inc()
			}
		}),
	)
	return v, col, nil
}
