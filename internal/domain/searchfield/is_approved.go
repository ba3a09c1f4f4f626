package searchfield

import (
	"context"

	"github.com/GravityKit/GravityView-sub009/internal/domain/view"
)

var approvalChoices = []Choice{
	{Text: "Approved", Value: view.Approved},
	{Text: "Disapproved", Value: view.Disapproved},
	{Text: "Unapproved", Value: view.Unapproved},
}

var isApprovedInputs = []Input{InputSelect, InputMultiSelect, InputRadio, InputCheckbox}

// IsApproved filters by approval status.
type IsApproved struct {
	base
	choiceBase
	inputType *string
}

// NewIsApproved builds the approval status field.
func NewIsApproved(c Configuration) *IsApproved {
	input, raw := inputFrom(c, InputSelect, isApprovedInputs...)
	return &IsApproved{
		base: newBase(descriptor{
			typ:          TypeIsApproved,
			fieldType:    "select",
			name:         "filter_is_approved",
			title:        "Approval Status",
			description:  "Search entries by their approval status",
			defaultLabel: "Approval:",
			icon:         "dashicons-yes-alt",
			input:        input,
		}, c),
		choiceBase: newChoiceBase(c),
		inputType:  raw,
	}
}

func (f *IsApproved) Choices() []Choice { return copyChoices(approvalChoices) }

func (f *IsApproved) IsSievable() bool { return true }

func (f *IsApproved) SieveKeys() []string { return []string{view.MetaIsApproved} }

func (f *IsApproved) SievedValues(ctx context.Context, src ValueSource) ([]string, error) {
	return sieveValues(ctx, f.view, f.SieveKeys(), src)
}

func (f *IsApproved) Options() []Option {
	return []Option{
		inputTypeOption(f.InputType(), isApprovedInputs...),
		sieveOption(f.SieveEnabled()),
	}
}

func (f *IsApproved) ToConfiguration() Configuration {
	c := f.configuration()
	putStr(c, KeyInputType, f.inputType)
	f.choiceBase.encode(c)
	return c
}

func (f *IsApproved) ToTemplateData(req Request) TemplateData {
	td := f.templateData(f.requestValue(req))
	td[DataChoices] = f.Choices()
	return td
}
