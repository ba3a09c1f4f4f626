package searchfield

// OptionType is the admin control an option renders as.
type OptionType string

// Option control types.
const (
	OptionText     OptionType = "text"
	OptionCheckbox OptionType = "checkbox"
	OptionSelect   OptionType = "select"
	OptionRadio    OptionType = "radio"
	OptionHidden   OptionType = "hidden"
)

// Option describes one configurable option and its current value.
type Option struct {
	Name    string     `json:"name"`
	Type    OptionType `json:"type"`
	Label   string     `json:"label"`
	Value   any        `json:"value"`
	Choices []Choice   `json:"choices,omitempty"`
}

// baseOptions are recognized by every field.
func baseOptions(s Settings) []Option {
	return []Option{
		{Name: KeyCustomLabel, Type: OptionText, Label: "Custom Label", Value: s.Label()},
		{Name: KeyCustomClass, Type: OptionText, Label: "Custom CSS Class", Value: s.Class()},
		{Name: KeyShowLabel, Type: OptionCheckbox, Label: "Show Label", Value: s.LabelShown()},
	}
}

// MergeOptions combines the shared options, the variant's own options and
// extra, in that order. An option named again later replaces the earlier one
// in place, so instance values win over the shared defaults.
func MergeOptions(f Field, extra ...Option) []Option {
	all := baseOptions(f.Settings())
	all = append(all, f.Options()...)
	all = append(all, extra...)

	out := make([]Option, 0, len(all))
	pos := make(map[string]int, len(all))
	for _, o := range all {
		if i, ok := pos[o.Name]; ok {
			out[i] = o
			continue
		}
		pos[o.Name] = len(out)
		out = append(out, o)
	}
	return out
}

func sieveOption(enabled bool) Option {
	return Option{
		Name:  KeySieveChoices,
		Type:  OptionCheckbox,
		Label: "Only show choices that exist in form entries",
		Value: enabled,
	}
}

func inputTypeOption(current Input, allowed ...Input) Option {
	choices := make([]Choice, len(allowed))
	for i, in := range allowed {
		choices[i] = Choice{Text: inputLabels[in], Value: string(in)}
	}
	return Option{
		Name:    KeyInputType,
		Type:    OptionSelect,
		Label:   "Input Type",
		Value:   string(current),
		Choices: choices,
	}
}

var inputLabels = map[Input]string{
	InputText:           "Text",
	InputSelect:         "Select",
	InputMultiSelect:    "Select (multiple values)",
	InputRadio:          "Radio",
	InputCheckbox:       "Checkbox",
	InputSingleCheckbox: "Single Checkbox",
	InputHidden:         "Hidden",
	InputLink:           "Links",
	InputDate:           "Date",
	InputDateRange:      "Date range",
	InputNumberRange:    "Number range",
	InputEntryDate:      "Date range",
	InputSubmit:         "Submit",
}

// inputFrom validates a configured input type against the allowed set.
func inputFrom(c Configuration, def Input, allowed ...Input) (Input, *string) {
	raw := c.Str(KeyInputType)
	if raw == nil {
		return def, nil
	}
	for _, a := range allowed {
		if Input(*raw) == a {
			return a, raw
		}
	}
	return def, nil
}
