package searchfield

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/GravityKit/GravityView-sub009/internal/domain"
	"github.com/GravityKit/GravityView-sub009/internal/domain/view"
)

// VisibilityFilter decides whether a field renders for the current visitor.
type VisibilityFilter func(f Field) bool

// Collection is an ordered list of fields. The same type may appear more than once.
type Collection struct {
	fields     []Field
	visibility VisibilityFilter
}

type collectionConfig struct {
	logger     *zap.Logger
	users      []view.User
	visibility VisibilityFilter
	onFallback func(position int, err error)
}

// CollectionOption configures collection construction.
type CollectionOption func(*collectionConfig)

// WithLogger sets the logger that reports skipped configurations.
func WithLogger(l *zap.Logger) CollectionOption {
	return func(c *collectionConfig) { c.logger = l }
}

// WithUsers sets the users offered by entry creator fields.
func WithUsers(users []view.User) CollectionOption {
	return func(c *collectionConfig) { c.users = users }
}

// WithVisibilityFilter hides fields for which fn returns false.
func WithVisibilityFilter(fn VisibilityFilter) CollectionOption {
	return func(c *collectionConfig) { c.visibility = fn }
}

// WithFallbackObserver is called for every configuration replaced by the
// submit button.
func WithFallbackObserver(fn func(position int, err error)) CollectionOption {
	return func(c *collectionConfig) { c.onFallback = fn }
}

func buildConfig(opts []CollectionOption) collectionConfig {
	cfg := collectionConfig{logger: zap.NewNop()}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	return cfg
}

type userSetter interface {
	SetUsers(users []view.User)
}

// NewCollection returns a collection holding fields in order.
func NewCollection(fields ...Field) *Collection {
	return &Collection{fields: slices.Clone(fields)}
}

// CollectionFromConfiguration builds a collection from stored configurations
// in order. A configuration no variant handles is logged and replaced with a
// submit button so the widget still renders.
func CollectionFromConfiguration(cfgs []Configuration, v *view.View, opts ...CollectionOption) *Collection {
	cfg := buildConfig(opts)
	col := &Collection{fields: make([]Field, 0, len(cfgs)), visibility: cfg.visibility}
	for i, c := range cfgs {
		f, err := FromConfiguration(c, v)
		if err != nil {
			cfg.logger.Warn("Unrecognized search field, using submit button",
				zap.Int("position", i),
				zap.Any("configuration", map[string]any(c)),
				zap.Error(err),
			)
			if cfg.onFallback != nil {
				cfg.onFallback(i, err)
			}
			f = Fallback(c, v)
		}
		if us, ok := f.(userSetter); ok {
			us.SetUsers(cfg.users)
		}
		col.fields = append(col.fields, f)
	}
	return col
}

// AvailableFields lists every field a search widget for form can offer: the
// system fields followed by the form's searchable fields.
func AvailableFields(form view.Form, opts ...CollectionOption) *Collection {
	cfg := buildConfig(opts)
	empty := Configuration{}
	createdBy := NewCreatedBy(empty)
	createdBy.SetUsers(cfg.users)

	col := NewCollection(
		NewAll(empty),
		NewEntryDate(empty),
		NewEntryID(empty),
		createdBy,
		NewIsApproved(empty),
		NewIsRead(empty),
		NewIsStarred(empty),
		NewSearchMode(empty),
		NewSubmit(empty),
	)
	col.visibility = cfg.visibility
	for _, ff := range form.SearchableFields() {
		if f := FromField(form.ID, ff); f != nil {
			col.Add(f)
		}
	}
	return col
}

// Add appends a field.
func (c *Collection) Add(f Field) {
	c.fields = append(c.fields, f)
}

// Len returns the number of fields.
func (c *Collection) Len() int { return len(c.fields) }

// All returns the fields in order.
func (c *Collection) All() []Field { return slices.Clone(c.fields) }

// First returns the first field, or nil for an empty collection.
func (c *Collection) First() Field {
	if len(c.fields) == 0 {
		return nil
	}
	return c.fields[0]
}

// ByType returns the fields of type typ, in order.
func (c *Collection) ByType(typ string) *Collection {
	out := &Collection{visibility: c.visibility}
	for _, f := range c.fields {
		if f.IsOfType(typ) {
			out.fields = append(out.fields, f)
		}
	}
	return out
}

// Searchable returns the fields that filter entries.
func (c *Collection) Searchable() *Collection {
	out := &Collection{visibility: c.visibility}
	for _, f := range c.fields {
		if f.IsSearchable() {
			out.fields = append(out.fields, f)
		}
	}
	return out
}

// ToConfiguration exports every field's configuration in order.
func (c *Collection) ToConfiguration() []Configuration {
	out := make([]Configuration, len(c.fields))
	for i, f := range c.fields {
		out[i] = f.ToConfiguration()
	}
	return out
}

// ToLegacyFormat exports every field in the legacy shape, in order.
func (c *Collection) ToLegacyFormat() []LegacyFormat {
	out := make([]LegacyFormat, len(c.fields))
	for i, f := range c.fields {
		out[i] = f.ToLegacyFormat()
	}
	return out
}

func (c *Collection) visible(f Field) bool {
	if !f.IsVisible() {
		return false
	}
	return c.visibility == nil || c.visibility(f)
}

// ToTemplateData renders the visible fields for req. Sievable fields with
// sieving enabled narrow their choices using src; values for all of them are
// fetched in one query per view. A nil src renders choices unsieved.
func (c *Collection) ToTemplateData(ctx context.Context, req Request, src ValueSource) ([]TemplateData, error) {
	src, err := c.prefetch(ctx, src)
	if err != nil {
		return nil, err
	}
	out := make([]TemplateData, 0, len(c.fields))
	for _, f := range c.fields {
		if !c.visible(f) {
			continue
		}
		td, err := TemplateDataFor(ctx, f, req, src)
		if err != nil {
			return nil, err
		}
		out = append(out, td)
	}
	return out, nil
}

// TemplateDataFor renders a single field, sieving its choices when enabled.
func TemplateDataFor(ctx context.Context, f Field, req Request, src ValueSource) (TemplateData, error) {
	td := f.ToTemplateData(req)
	cf, ok := f.(ChoiceField)
	if !ok || !canSieve(cf, src) {
		return td, nil
	}
	if _, ok := td[DataChoices]; !ok {
		return td, nil
	}
	s, ok := f.(Siever)
	if !ok {
		return nil, fmt.Errorf("field %s: %w", f.Type(), domain.ErrSieveNotImplemented)
	}
	values, err := s.SievedValues(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("sieve %s: %w", f.Type(), err)
	}
	td[DataChoices] = Sieve(cf.Choices(), values)
	return td, nil
}

// prefetch loads the values of every sieved field in one query per view and
// returns a source that answers from those results.
func (c *Collection) prefetch(ctx context.Context, src ValueSource) (ValueSource, error) {
	if src == nil {
		return nil, nil
	}

	var batches []*batch
	byView := make(map[*view.View]*batch)
	for _, f := range c.fields {
		cf, ok := f.(ChoiceField)
		if !ok || !c.visible(f) || !canSieve(cf, src) {
			continue
		}
		s, ok := f.(Siever)
		if !ok {
			continue
		}
		v := f.View()
		b, ok := byView[v]
		if !ok {
			b = &batch{query: ValueQuery{FormID: v.Form.ID, Criteria: v.Criteria}}
			byView[v] = b
			batches = append(batches, b)
		}
		for _, k := range s.SieveKeys() {
			if !slices.Contains(b.query.Keys, k) {
				b.query.Keys = append(b.query.Keys, k)
			}
		}
	}
	if len(batches) == 0 {
		return src, nil
	}

	for _, b := range batches {
		values, err := src.Values(ctx, b.query)
		if err != nil {
			return nil, fmt.Errorf("prefetch sieve values for form %d: %w", b.query.FormID, err)
		}
		b.values = values
	}
	return &prefetched{inner: src, batches: batches}, nil
}

type batch struct {
	query  ValueQuery
	values map[string][]string
}

// prefetched answers queries covered by an earlier batch without a round trip.
type prefetched struct {
	inner   ValueSource
	batches []*batch
}

func (p *prefetched) Values(ctx context.Context, q ValueQuery) (map[string][]string, error) {
	for _, b := range p.batches {
		if b.query.FormID != q.FormID || !maps.Equal(b.query.Criteria, q.Criteria) {
			continue
		}
		if !covers(b.query.Keys, q.Keys) {
			continue
		}
		out := make(map[string][]string, len(q.Keys))
		for _, k := range q.Keys {
			out[k] = b.values[k]
		}
		return out, nil
	}
	return p.inner.Values(ctx, q)
}

func covers(have, want []string) bool {
	for _, k := range want {
		if !slices.Contains(have, k) {
			return false
		}
	}
	return true
}
