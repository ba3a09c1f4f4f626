package searchfield

import (
	"context"
	"fmt"
	"strings"

	"github.com/GravityKit/GravityView-sub009/internal/domain/view"
)

// GenerateFieldID builds the type key of a form field: "<form id>::<field id>".
func GenerateFieldID(formID int, fieldID string) string {
	return fmt.Sprintf("%d::%s", formID, fieldID)
}

var fieldTypeIcons = map[string]string{
	"is_fulfilled": "dashicons-yes-alt",
	"currency":     "dashicons-money-alt",
	"geolocation":  "dashicons-admin-site",
	"address":      "dashicons-location",
	"date":         "dashicons-calendar-alt",
	"time":         "dashicons-clock",
	"email":        "dashicons-email",
	"phone":        "dashicons-phone",
	"website":      "dashicons-admin-links",
	"name":         "dashicons-admin-users",
	"fileupload":   "dashicons-upload",
	"list":         "dashicons-editor-ul",
	"number":       "dashicons-calculator",
}

func iconFor(fieldType string) string {
	if strings.HasPrefix(fieldType, "payment_") {
		return "dashicons-cart"
	}
	if icon, ok := fieldTypeIcons[fieldType]; ok {
		return icon
	}
	return "dashicons-admin-generic"
}

// defaultInput maps a form field type to the control it searches with.
func defaultInput(fieldType string, hasChoices bool) Input {
	switch fieldType {
	case "select", "radio", "post_category":
		return InputSelect
	case "checkbox":
		return InputCheckbox
	case "multiselect":
		return InputMultiSelect
	case "date":
		return InputDate
	}
	if hasChoices {
		return InputSelect
	}
	return InputText
}

// GravityForms searches one field (or sub-input) of the view's form.
type GravityForms struct {
	base
	choiceBase
	formID    int
	field     view.FormField
	inputType *string
}

// FromField builds a search field for a form field definition. It returns nil
// for an empty definition.
func FromField(formID int, ff view.FormField) *GravityForms {
	if ff.IsEmpty() {
		return nil
	}
	return newGravityForms(formID, ff, Configuration{})
}

func newGravityForms(formID int, ff view.FormField, c Configuration) *GravityForms {
	hasChoices := len(ff.Choices) > 0
	input, raw := inputFrom(c, defaultInput(ff.Type, hasChoices), gravityFormsInputs(hasChoices)...)
	fieldType := ff.Type
	if fieldType == "" {
		fieldType = "text"
	}
	label := ff.Label
	if label == "" {
		label = ff.DisplayLabel()
	}
	return &GravityForms{
		base: newBase(descriptor{
			typ:          GenerateFieldID(formID, ff.ID),
			fieldType:    fieldType,
			name:         "filter_" + strings.ReplaceAll(ff.ID, ".", "_"),
			title:        ff.DisplayLabel(),
			description:  fmt.Sprintf("Search the %q form field", ff.DisplayLabel()),
			defaultLabel: label,
			icon:         iconFor(ff.Type),
			input:        input,
		}, c),
		choiceBase: newChoiceBase(c),
		formID:     formID,
		field:      ff,
		inputType:  raw,
	}
}

func gravityFormsInputs(hasChoices bool) []Input {
	if hasChoices {
		return []Input{InputSelect, InputMultiSelect, InputRadio, InputCheckbox, InputLink, InputText}
	}
	return []Input{InputText, InputDate, InputDateRange, InputNumberRange, InputHidden}
}

// FormID is the form the field belongs to.
func (f *GravityForms) FormID() int { return f.formID }

// FieldID is the form field id, e.g. "3" or "3.1".
func (f *GravityForms) FieldID() string { return f.field.ID }

// FormField returns the underlying form field definition.
func (f *GravityForms) FormField() view.FormField { return f.field }

func (f *GravityForms) Choices() []Choice { return copyChoices(f.field.Choices) }

func (f *GravityForms) IsSievable() bool { return len(f.field.Choices) > 0 }

// SieveKeys covers the field itself and, for checkboxes, every input since
// each checked box is stored under its own input id.
func (f *GravityForms) SieveKeys() []string {
	keys := []string{f.field.ID}
	if f.field.Type == "checkbox" {
		for _, in := range f.field.Inputs {
			keys = append(keys, in.ID)
		}
	}
	return keys
}

func (f *GravityForms) SievedValues(ctx context.Context, src ValueSource) ([]string, error) {
	return sieveValues(ctx, f.view, f.SieveKeys(), src)
}

func (f *GravityForms) Options() []Option {
	hasChoices := f.IsSievable()
	opts := []Option{inputTypeOption(f.InputType(), gravityFormsInputs(hasChoices)...)}
	if hasChoices {
		opts = append(opts, sieveOption(f.SieveEnabled()))
	}
	return opts
}

func (f *GravityForms) ToConfiguration() Configuration {
	c := f.configuration()
	c[KeyFormID] = f.formID
	putStr(c, KeyInputType, f.inputType)
	f.choiceBase.encode(c)
	return c
}

func (f *GravityForms) ToTemplateData(req Request) TemplateData {
	td := f.templateData(f.requestValue(req))
	td[DataFormID] = f.formID
	if f.InputType().HasChoices() {
		td[DataChoices] = f.Choices()
	}
	return td
}

// ToLegacyFormat reports the bare form field id, as older renderers expect.
func (f *GravityForms) ToLegacyFormat() LegacyFormat {
	lf := f.base.ToLegacyFormat()
	lf.Field = f.field.ID
	return lf
}
