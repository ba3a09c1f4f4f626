package searchfield

import (
	"fmt"

	"github.com/GravityKit/GravityView-sub009/internal/domain/view"
)

// Built-in field types.
const (
	TypeAll        = "search_all"
	TypeCreatedBy  = "created_by"
	TypeEntryDate  = "entry_date"
	TypeEntryID    = "entry_id"
	TypeIsApproved = "is_approved"
	TypeIsRead     = "is_read"
	TypeIsStarred  = "is_starred"
	TypeSearchMode = "search_mode"
	TypeSubmit     = "submit"
)

// Input is the HTML control a field renders as.
type Input string

// Input kinds.
const (
	InputText           Input = "text"
	InputSelect         Input = "select"
	InputMultiSelect    Input = "multiselect"
	InputRadio          Input = "radio"
	InputCheckbox       Input = "checkbox"
	InputSingleCheckbox Input = "single_checkbox"
	InputHidden         Input = "hidden"
	InputSubmit         Input = "submit"
	InputEntryDate      Input = "entry_date"
	InputDate           Input = "date"
	InputDateRange      Input = "date_range"
	InputNumberRange    Input = "number_range"
	InputLink           Input = "link"
)

// IsMulti reports whether the input submits several values.
func (i Input) IsMulti() bool {
	return i == InputMultiSelect || i == InputCheckbox
}

// HasChoices reports whether the input renders a list of choices.
func (i Input) HasChoices() bool {
	switch i {
	case InputSelect, InputMultiSelect, InputRadio, InputCheckbox, InputLink:
		return true
	}
	return false
}

// Field is one configurable search control.
type Field interface {
	// Type is the key that identifies the variant; it never changes.
	Type() string
	IsOfType(candidate string) bool
	// FieldType is the coarse classification (text, select, boolean, ...).
	FieldType() string
	// Name is the request parameter the control submits.
	Name() string
	// Title is the variant's display name in the admin picker.
	Title() string
	Description() string
	DefaultLabel() string
	FrontendLabel() string
	Icon() string
	IconHTML() string
	InputType() Input
	Settings() Settings
	View() *view.View
	// Options describes the variant-specific options with their current values.
	Options() []Option
	IsVisible() bool
	IsSearchable() bool
	HasRequestValue(req Request) bool
	ToConfiguration() Configuration
	ToTemplateData(req Request) TemplateData
	ToLegacyFormat() LegacyFormat
}

// descriptor holds the fixed traits of a variant.
type descriptor struct {
	typ          string
	fieldType    string
	name         string
	title        string
	description  string
	defaultLabel string
	icon         string
	input        Input
	unsearchable bool
}

// base implements the parts of Field every variant shares.
type base struct {
	desc     descriptor
	settings Settings
	view     *view.View
}

func newBase(d descriptor, c Configuration) base {
	return base{desc: d, settings: decodeSettings(c)}
}

func (b *base) Type() string                   { return b.desc.typ }
func (b *base) IsOfType(candidate string) bool { return candidate == b.desc.typ }
func (b *base) FieldType() string              { return b.desc.fieldType }
func (b *base) Name() string                   { return b.desc.name }
func (b *base) Title() string                  { return b.desc.title }
func (b *base) Description() string            { return b.desc.description }
func (b *base) DefaultLabel() string           { return b.desc.defaultLabel }
func (b *base) Icon() string                   { return b.desc.icon }
func (b *base) InputType() Input               { return b.desc.input }
func (b *base) Settings() Settings             { return b.settings }
func (b *base) View() *view.View               { return b.view }
func (b *base) IsVisible() bool                { return true }
func (b *base) IsSearchable() bool             { return !b.desc.unsearchable }

// FrontendLabel is the custom label when one is configured, else the default.
func (b *base) FrontendLabel() string {
	if l := b.settings.Label(); l != "" {
		return l
	}
	return b.desc.defaultLabel
}

// IconHTML wraps the icon in dashicons markup.
func (b *base) IconHTML() string {
	return fmt.Sprintf(`<i class="dashicons %s"></i>`, b.desc.icon)
}

// HasRequestValue reports whether the field's parameter was submitted with a
// non-empty value.
func (b *base) HasRequestValue(req Request) bool {
	return req.Has(b.desc.name)
}

// ToLegacyFormat maps the field onto the older three-key shape.
func (b *base) ToLegacyFormat() LegacyFormat {
	return LegacyFormat{
		Field: b.desc.typ,
		Input: string(b.desc.input),
		Title: b.desc.title,
	}
}

func (b *base) attach(v *view.View) { b.view = v }

func (b *base) id() string {
	if id := deref(b.settings.ID); id != "" {
		return id
	}
	return b.desc.typ
}

// configuration exports id, type, label and the shared settings.
func (b *base) configuration() Configuration {
	c := Configuration{
		KeyID:    b.id(),
		KeyType:  b.desc.typ,
		KeyLabel: b.desc.title,
	}
	b.settings.encode(c)
	return c
}

// templateData builds the keys every field exports.
func (b *base) templateData(value any) TemplateData {
	return TemplateData{
		DataKey:         b.desc.typ,
		DataName:        b.desc.name,
		DataLabel:       b.FrontendLabel(),
		DataValue:       value,
		DataType:        b.desc.fieldType,
		DataInput:       string(b.desc.input),
		DataCustomClass: b.settings.Class(),
	}
}

// requestValue reads the submitted value: a slice for multi-value inputs, a
// string otherwise. Absent values read as empty.
func (b *base) requestValue(req Request) any {
	if b.desc.input.IsMulti() {
		return req.NonEmpty(b.desc.name)
	}
	return req.Value(b.desc.name)
}

// attacher lets the factory bind a view to any variant.
type attacher interface {
	attach(v *view.View)
}
