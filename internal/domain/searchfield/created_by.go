package searchfield

import (
	"context"

	"github.com/GravityKit/GravityView-sub009/internal/domain/view"
)

// CreatedBy filters by the user who submitted the entry.
type CreatedBy struct {
	base
	choiceBase
	inputType *string
	users     []view.User
}

var createdByInputs = []Input{InputText, InputSelect, InputMultiSelect, InputRadio}

// NewCreatedBy builds the entry creator field. Its choices come from the
// users passed to SetUsers.
func NewCreatedBy(c Configuration) *CreatedBy {
	input, raw := inputFrom(c, InputText, createdByInputs...)
	return &CreatedBy{
		base: newBase(descriptor{
			typ:          TypeCreatedBy,
			fieldType:    "select",
			name:         "gv_by",
			title:        "Entry Creator",
			description:  "Search entries by the user who created them",
			defaultLabel: "Submitted by:",
			icon:         "dashicons-admin-users",
			input:        input,
		}, c),
		choiceBase: newChoiceBase(c),
		inputType:  raw,
	}
}

// SetUsers replaces the users offered as choices.
func (f *CreatedBy) SetUsers(users []view.User) {
	f.users = append([]view.User(nil), users...)
}

func (f *CreatedBy) Choices() []Choice {
	out := make([]Choice, 0, len(f.users))
	for _, u := range f.users {
		text := u.DisplayName
		if text == "" {
			text = u.ID
		}
		out = append(out, Choice{Text: text, Value: u.ID})
	}
	return out
}

func (f *CreatedBy) IsSievable() bool { return true }

func (f *CreatedBy) SieveKeys() []string { return []string{view.MetaCreatedBy} }

func (f *CreatedBy) SievedValues(ctx context.Context, src ValueSource) ([]string, error) {
	return sieveValues(ctx, f.view, f.SieveKeys(), src)
}

func (f *CreatedBy) Options() []Option {
	return []Option{
		inputTypeOption(f.InputType(), createdByInputs...),
		sieveOption(f.SieveEnabled()),
	}
}

func (f *CreatedBy) ToConfiguration() Configuration {
	c := f.configuration()
	putStr(c, KeyInputType, f.inputType)
	f.choiceBase.encode(c)
	return c
}

func (f *CreatedBy) ToTemplateData(req Request) TemplateData {
	td := f.templateData(f.requestValue(req))
	if f.InputType().HasChoices() {
		td[DataChoices] = f.Choices()
	}
	return td
}
