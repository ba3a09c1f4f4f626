package searchfield

// Search modes.
const (
	ModeAny = "any"
	ModeAll = "all"
)

var modeChoices = []Choice{
	{Text: "Match Any Fields", Value: ModeAny},
	{Text: "Match All Fields", Value: ModeAll},
}

var searchModeInputs = []Input{InputHidden, InputRadio}

// SearchMode decides whether filters combine with AND or OR. It is not
// itself searchable.
type SearchMode struct {
	base
	choiceBase
	mode      *string
	inputType *string
}

// NewSearchMode builds the search mode control; it renders hidden unless
// configured as radio buttons.
func NewSearchMode(c Configuration) *SearchMode {
	input, raw := inputFrom(c, InputHidden, searchModeInputs...)
	return &SearchMode{
		base: newBase(descriptor{
			typ:          TypeSearchMode,
			fieldType:    "select",
			name:         "mode",
			title:        "Search Mode",
			description:  "Choose whether entries must match any or all search fields",
			defaultLabel: "Search Mode",
			icon:         "dashicons-filter",
			input:        input,
			unsearchable: true,
		}, c),
		choiceBase: newChoiceBase(c),
		mode:       oneOf(c.Str(KeyMode), ModeAny, ModeAll),
		inputType:  raw,
	}
}

// Mode is the stored mode, "any" when unset.
func (f *SearchMode) Mode() string {
	if f.mode == nil {
		return ModeAny
	}
	return *f.mode
}

func (f *SearchMode) Choices() []Choice { return copyChoices(modeChoices) }

func (f *SearchMode) Options() []Option {
	return []Option{
		inputTypeOption(f.InputType(), searchModeInputs...),
		{Name: KeyMode, Type: OptionRadio, Label: "Search Mode", Value: f.Mode(), Choices: f.Choices()},
	}
}

// requestMode returns the submitted mode when it is valid.
func (f *SearchMode) requestMode(req Request) (string, bool) {
	switch v := req.Value(f.Name()); v {
	case ModeAny, ModeAll:
		return v, true
	}
	return "", false
}

// HasRequestValue is true only when the submitted mode differs from the stored one.
func (f *SearchMode) HasRequestValue(req Request) bool {
	v, ok := f.requestMode(req)
	return ok && v != f.Mode()
}

// ToTemplateData exports the stored mode for the hidden input. Radio buttons
// keep the visitor's choice.
func (f *SearchMode) ToTemplateData(req Request) TemplateData {
	value := f.Mode()
	if f.InputType() == InputRadio {
		if v, ok := f.requestMode(req); ok {
			value = v
		}
	}
	td := f.templateData(value)
	td[DataMode] = f.Mode()
	td[DataChoices] = f.Choices()
	return td
}

func (f *SearchMode) ToConfiguration() Configuration {
	c := f.configuration()
	putStr(c, KeyInputType, f.inputType)
	putStr(c, KeyMode, f.mode)
	f.choiceBase.encode(c)
	return c
}
