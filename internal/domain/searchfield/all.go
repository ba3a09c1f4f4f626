package searchfield

// All is the free-text query across every entry field.
type All struct {
	base
	placeholder *string
}

// NewAll builds the search-everything field from its configuration.
func NewAll(c Configuration) *All {
	return &All{
		base: newBase(descriptor{
			typ:          TypeAll,
			fieldType:    "text",
			name:         "gv_search",
			title:        "Search Everything",
			description:  "Search across all entry fields",
			defaultLabel: "Search Everything",
			icon:         "dashicons-search",
			input:        InputText,
		}, c),
		placeholder: c.Str(KeyPlaceholder),
	}
}

// Placeholder returns the configured placeholder text.
func (f *All) Placeholder() string { return deref(f.placeholder) }

func (f *All) Options() []Option {
	return []Option{
		{Name: KeyPlaceholder, Type: OptionText, Label: "Placeholder", Value: f.Placeholder()},
	}
}

func (f *All) ToConfiguration() Configuration {
	c := f.configuration()
	putStr(c, KeyPlaceholder, f.placeholder)
	return c
}

func (f *All) ToTemplateData(req Request) TemplateData {
	td := f.templateData(f.requestValue(req))
	td[DataPlaceholder] = f.Placeholder()
	return td
}
