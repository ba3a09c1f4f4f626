package searchfield

// Request keys of the date range.
const (
	EntryDateStartName = "gv_start"
	EntryDateEndName   = "gv_end"
)

// Supported date formats for the date pickers.
var dateFormats = []Choice{
	{Text: "mm/dd/yyyy", Value: "mdy"},
	{Text: "dd/mm/yyyy", Value: "dmy"},
	{Text: "dd-mm-yyyy", Value: "dmy_dash"},
	{Text: "dd.mm.yyyy", Value: "dmy_dot"},
	{Text: "yyyy/mm/dd", Value: "ymd_slash"},
	{Text: "yyyy-mm-dd", Value: "ymd_dash"},
	{Text: "yyyy.mm.dd", Value: "ymd_dot"},
}

const defaultDateFormat = "mdy"

// EntryDate filters entries by a creation date range.
type EntryDate struct {
	base
	dateFormat *string
}

// NewEntryDate builds the entry date range field.
func NewEntryDate(c Configuration) *EntryDate {
	allowed := make([]string, len(dateFormats))
	for i, df := range dateFormats {
		allowed[i] = df.Value
	}
	return &EntryDate{
		base: newBase(descriptor{
			typ:          TypeEntryDate,
			fieldType:    "date",
			name:         EntryDateStartName,
			title:        "Entry Date",
			description:  "Search entries by the date they were created",
			defaultLabel: "Filter by date:",
			icon:         "dashicons-calendar-alt",
			input:        InputEntryDate,
		}, c),
		dateFormat: oneOf(c.Str(KeyDateFormat), allowed...),
	}
}

// DateFormat returns the picker date format.
func (f *EntryDate) DateFormat() string {
	if f.dateFormat == nil {
		return defaultDateFormat
	}
	return *f.dateFormat
}

func (f *EntryDate) Options() []Option {
	return []Option{
		{Name: KeyDateFormat, Type: OptionSelect, Label: "Date Format", Value: f.DateFormat(), Choices: dateFormats},
	}
}

// HasRequestValue is true when either end of the range was submitted.
func (f *EntryDate) HasRequestValue(req Request) bool {
	return req.Has(EntryDateStartName) || req.Has(EntryDateEndName)
}

func (f *EntryDate) ToConfiguration() Configuration {
	c := f.configuration()
	putStr(c, KeyDateFormat, f.dateFormat)
	return c
}

func (f *EntryDate) ToTemplateData(req Request) TemplateData {
	td := f.templateData(DateRange{
		Start: req.Value(EntryDateStartName),
		End:   req.Value(EntryDateEndName),
	})
	td[DataDateFormat] = f.DateFormat()
	return td
}
