package searchfield

// IsStarred is a single checkbox limiting results to starred entries.
type IsStarred struct {
	base
}

// NewIsStarred builds the starred toggle.
func NewIsStarred(c Configuration) *IsStarred {
	return &IsStarred{
		base: newBase(descriptor{
			typ:          TypeIsStarred,
			fieldType:    "boolean",
			name:         "filter_is_starred",
			title:        "Is Starred",
			description:  "Filter for starred entries",
			defaultLabel: "Is Starred",
			icon:         "dashicons-star-filled",
			input:        InputSingleCheckbox,
		}, c),
	}
}

func (f *IsStarred) Options() []Option { return nil }

func (f *IsStarred) ToConfiguration() Configuration { return f.configuration() }

// ToTemplateData reports "1" when the box was checked.
func (f *IsStarred) ToTemplateData(req Request) TemplateData {
	value := ""
	if f.HasRequestValue(req) {
		value = "1"
	}
	return f.templateData(value)
}
