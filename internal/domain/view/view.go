package view

import (
	"fmt"
	"strings"
	"time"
)

// Choice is a single selectable {text, value} pair.
type Choice struct {
	Text  string `json:"text" yaml:"text"`
	Value string `json:"value" yaml:"value"`
}

// Gravity Forms field types that never hold searchable entry data.
var nonSearchableTypes = map[string]bool{
	"html":     true,
	"section":  true,
	"page":     true,
	"captcha":  true,
	"password": true,
}

// FormField is a Gravity Forms field definition. Multi-input fields
// (name, address) carry their sub-inputs with dotted ids such as "1.3".
type FormField struct {
	ID         string      `json:"id" yaml:"id"`
	Type       string      `json:"type" yaml:"type"`
	Label      string      `json:"label" yaml:"label"`
	AdminLabel string      `json:"admin_label,omitempty" yaml:"admin_label,omitempty"`
	Choices    []Choice    `json:"choices,omitempty" yaml:"choices,omitempty"`
	Inputs     []FormField `json:"inputs,omitempty" yaml:"inputs,omitempty"`
}

// DisplayLabel prefers the admin label over the public one.
func (f FormField) DisplayLabel() string {
	if f.AdminLabel != "" {
		return f.AdminLabel
	}
	return f.Label
}

// IsEmpty reports whether the definition carries no id.
func (f FormField) IsEmpty() bool { return f.ID == "" }

// Form is a Gravity Forms form definition.
type Form struct {
	ID     int         `json:"id" yaml:"id"`
	Title  string      `json:"title" yaml:"title"`
	Fields []FormField `json:"fields" yaml:"fields"`
}

// Validate checks the form for structural correctness.
func (f Form) Validate() error {
	if f.ID <= 0 {
		return fmt.Errorf("form id must be positive, got %d", f.ID)
	}
	seen := make(map[string]bool, len(f.Fields))
	for _, ff := range f.Fields {
		if ff.ID == "" {
			return fmt.Errorf("form %d: field id is required", f.ID)
		}
		if seen[ff.ID] {
			return fmt.Errorf("form %d: duplicate field id %q", f.ID, ff.ID)
		}
		seen[ff.ID] = true
	}
	return nil
}

// Field looks up a field or sub-input by id.
func (f Form) Field(id string) (FormField, bool) {
	for _, ff := range f.Fields {
		if ff.ID == id {
			return ff, true
		}
		for _, in := range ff.Inputs {
			if in.ID == id {
				if in.Type == "" {
					in.Type = ff.Type
				}
				return in, true
			}
		}
	}
	return FormField{}, false
}

// SearchableFields lists the fields a search widget can filter on, in form
// order. Sub-inputs of multi-input fields follow their parent; checkbox
// inputs are skipped since the parent already covers every choice.
func (f Form) SearchableFields() []FormField {
	out := make([]FormField, 0, len(f.Fields))
	for _, ff := range f.Fields {
		if nonSearchableTypes[ff.Type] {
			continue
		}
		out = append(out, ff)
		if ff.Type == "checkbox" {
			continue
		}
		for _, in := range ff.Inputs {
			out = append(out, FormField{
				ID:    in.ID,
				Type:  ff.Type,
				Label: fmt.Sprintf("%s (%s)", ff.DisplayLabel(), in.Label),
			})
		}
	}
	return out
}

// View is a saved directory configuration over one form's entries.
type View struct {
	ID     int   `json:"id" yaml:"id"`
	FormID int   `json:"form_id" yaml:"form_id"`
	Form   *Form `json:"-" yaml:"-"`

	// SearchFields holds the persisted search widget configuration, one map per field.
	SearchFields []map[string]any `json:"search_fields" yaml:"search_fields"`

	// Criteria are fixed entry filters (field id -> value) applied before any search.
	Criteria map[string]string `json:"criteria,omitempty" yaml:"criteria,omitempty"`
}

// Validate checks the view for structural correctness.
func (v View) Validate() error {
	if v.ID <= 0 {
		return fmt.Errorf("view id must be positive, got %d", v.ID)
	}
	if v.FormID <= 0 {
		return fmt.Errorf("view %d: form id must be positive, got %d", v.ID, v.FormID)
	}
	for k := range v.Criteria {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("view %d: criteria key is empty", v.ID)
		}
	}
	return nil
}

// HasForm reports whether the form definition has been attached.
func (v *View) HasForm() bool { return v != nil && v.Form != nil }

// Entry meta keys stored alongside field values.
const (
	MetaCreatedBy  = "created_by"
	MetaIsApproved = "is_approved"
	MetaIsRead     = "is_read"
	MetaIsStarred  = "is_starred"
)

// Approval states.
const (
	Approved    = "1"
	Disapproved = "2"
	Unapproved  = "3"
)

// Entry is one submitted form record.
type Entry struct {
	ID          int64             `json:"id" yaml:"id"`
	FormID      int               `json:"form_id" yaml:"form_id"`
	CreatedBy   string            `json:"created_by,omitempty" yaml:"created_by,omitempty"`
	DateCreated time.Time         `json:"date_created" yaml:"date_created"`
	IsRead      bool              `json:"is_read" yaml:"is_read"`
	IsStarred   bool              `json:"is_starred" yaml:"is_starred"`
	Approved    string            `json:"is_approved,omitempty" yaml:"is_approved,omitempty"`
	Values      map[string]string `json:"values" yaml:"values"`
}

// Validate checks the entry for structural correctness.
func (e Entry) Validate() error {
	if e.ID <= 0 {
		return fmt.Errorf("entry id must be positive, got %d", e.ID)
	}
	if e.FormID <= 0 {
		return fmt.Errorf("entry %d: form id must be positive", e.ID)
	}
	switch e.Approved {
	case "", Approved, Disapproved, Unapproved:
	default:
		return fmt.Errorf("entry %d: invalid approval status %q", e.ID, e.Approved)
	}
	return nil
}

// Meta flattens the entry into field id / meta key -> stored value.
func (e Entry) Meta() map[string]string {
	m := make(map[string]string, len(e.Values)+4)
	for k, v := range e.Values {
		m[k] = v
	}
	if e.CreatedBy != "" {
		m[MetaCreatedBy] = e.CreatedBy
	}
	approved := e.Approved
	if approved == "" {
		approved = Unapproved
	}
	m[MetaIsApproved] = approved
	m[MetaIsRead] = boolFlag(e.IsRead)
	m[MetaIsStarred] = boolFlag(e.IsStarred)
	return m
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// User is a site user who may author entries.
type User struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}
