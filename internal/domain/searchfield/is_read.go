package searchfield

var readChoices = []Choice{
	{Text: "Read", Value: "1"},
	{Text: "Unread", Value: "0"},
}

// IsRead filters by read status. Its two choices are exhaustive, so it never sieves.
type IsRead struct {
	base
	choiceBase
}

// NewIsRead builds the read-status field.
func NewIsRead(c Configuration) *IsRead {
	return &IsRead{
		base: newBase(descriptor{
			typ:          TypeIsRead,
			fieldType:    "boolean",
			name:         "filter_is_read",
			title:        "Is Read",
			description:  "Filter entries by whether they have been read",
			defaultLabel: "Is Read",
			icon:         "dashicons-visibility",
			input:        InputSelect,
		}, c),
		choiceBase: newChoiceBase(c),
	}
}

func (f *IsRead) Choices() []Choice { return copyChoices(readChoices) }

func (f *IsRead) Options() []Option { return nil }

func (f *IsRead) ToConfiguration() Configuration {
	c := f.configuration()
	f.choiceBase.encode(c)
	return c
}

func (f *IsRead) ToTemplateData(req Request) TemplateData {
	td := f.templateData(f.requestValue(req))
	td[DataChoices] = f.Choices()
	return td
}
