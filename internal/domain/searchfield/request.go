package searchfield

import "net/url"

// Request is a read-only view of the submitted search parameters. Both
// "name" and "name[]" keys are read for a parameter.
type Request struct {
	values url.Values
}

// NewRequest wraps parsed query parameters.
func NewRequest(values url.Values) Request {
	return Request{values: values}
}

// EmptyRequest carries no parameters.
func EmptyRequest() Request { return Request{} }

// Values returns every submitted value for name, including "name[]".
func (r Request) Values(name string) []string {
	if name == "" || r.values == nil {
		return nil
	}
	single := r.values[name]
	multi := r.values[name+"[]"]
	if len(multi) == 0 {
		return single
	}
	out := make([]string, 0, len(single)+len(multi))
	out = append(out, single...)
	return append(out, multi...)
}

// Value returns the first non-empty value submitted for name.
func (r Request) Value(name string) string {
	for _, v := range r.Values(name) {
		if v != "" {
			return v
		}
	}
	return ""
}

// NonEmpty returns the submitted values for name with empty strings dropped.
func (r Request) NonEmpty(name string) []string {
	out := []string{}
	for _, v := range r.Values(name) {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Has reports whether name carries at least one non-empty value. The
// string "0" is a value.
func (r Request) Has(name string) bool {
	for _, v := range r.Values(name) {
		if v != "" {
			return true
		}
	}
	return false
}
