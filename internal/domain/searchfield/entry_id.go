package searchfield

// EntryID filters by exact entry id.
type EntryID struct {
	base
}

// NewEntryID builds the entry id field.
func NewEntryID(c Configuration) *EntryID {
	return &EntryID{
		base: newBase(descriptor{
			typ:          TypeEntryID,
			fieldType:    "text",
			name:         "gv_id",
			title:        "Entry ID",
			description:  "Search for an entry by its ID",
			defaultLabel: "Entry ID:",
			icon:         "dashicons-tag",
			input:        InputText,
		}, c),
	}
}

func (f *EntryID) Options() []Option { return nil }

func (f *EntryID) ToConfiguration() Configuration { return f.configuration() }

func (f *EntryID) ToTemplateData(req Request) TemplateData {
	return f.templateData(f.requestValue(req))
}
