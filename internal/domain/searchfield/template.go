package searchfield

// TemplateData is the renderer-facing projection of a field.
type TemplateData map[string]any

// Template data keys.
const (
	DataKey         = "key"
	DataName        = "name"
	DataLabel       = "label"
	DataValue       = "value"
	DataType        = "type"
	DataInput       = "input"
	DataCustomClass = "custom_class"
	DataChoices     = "choices"
	DataPlaceholder = "placeholder"
	DataMode        = "mode"
	DataTag         = "tag"
	DataSearchClear = "search_clear"
	DataDateFormat  = "date_format"
	DataFormID      = "form_id"
)

// LegacyFormat is the {field, input, title} shape consumed by older renderers.
type LegacyFormat struct {
	Field string `json:"field"`
	Input string `json:"input"`
	Title string `json:"title"`
}

// DateRange is the value of an entry date field.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}
