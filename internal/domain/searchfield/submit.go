package searchfield

// Submit button tags.
const (
	TagInput  = "input"
	TagButton = "button"
)

// Submit is the search button, optionally followed by a clear link.
type Submit struct {
	base
	tag         *string
	searchClear *bool
}

// NewSubmit builds the submit button. Unknown configurations also fall back
// to it.
func NewSubmit(c Configuration) *Submit {
	f := &Submit{
		base: newBase(descriptor{
			typ:          TypeSubmit,
			fieldType:    "submit",
			name:         "",
			title:        "Submit Button",
			description:  "Button to submit the search",
			defaultLabel: "Search",
			icon:         "dashicons-button",
			input:        InputSubmit,
			unsearchable: true,
		}, c),
		tag:         oneOf(c.Str(KeyTag), TagInput, TagButton),
		searchClear: c.Bool(KeySearchClear),
	}
	// The button text is its label, so it always shows.
	f.settings.ShowLabel = ptr(true)
	return f
}

// Tag is the element the button renders as.
func (f *Submit) Tag() string {
	if f.tag == nil {
		return TagInput
	}
	return *f.tag
}

// SearchClear reports whether a clear link follows the button.
func (f *Submit) SearchClear() bool {
	if f.searchClear == nil {
		return true
	}
	return *f.searchClear
}

// HasRequestValue is always false: the button submits nothing.
func (f *Submit) HasRequestValue(Request) bool { return false }

func (f *Submit) Options() []Option {
	return []Option{
		{Name: KeyShowLabel, Type: OptionHidden, Label: "Show Label", Value: true},
		{Name: KeyTag, Type: OptionSelect, Label: "Button Tag", Value: f.Tag(), Choices: []Choice{
			{Text: "Input", Value: TagInput},
			{Text: "Button", Value: TagButton},
		}},
		{Name: KeySearchClear, Type: OptionCheckbox, Label: "Show Clear Button", Value: f.SearchClear()},
	}
}

func (f *Submit) ToConfiguration() Configuration {
	c := f.configuration()
	putStr(c, KeyTag, f.tag)
	putBool(c, KeySearchClear, f.searchClear)
	return c
}

func (f *Submit) ToTemplateData(Request) TemplateData {
	td := f.templateData("")
	td[DataTag] = f.Tag()
	td[DataSearchClear] = f.SearchClear()
	return td
}
