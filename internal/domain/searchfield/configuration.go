package searchfield

import (
	"fmt"
	"strconv"
	"strings"
)

// Configuration is the persisted shape of one search field.
type Configuration map[string]any

// Configuration keys.
const (
	KeyID           = "id"
	KeyType         = "type"
	KeyLabel        = "label"
	KeyCustomLabel  = "custom_label"
	KeyCustomClass  = "custom_class"
	KeyShowLabel    = "show_label"
	KeySieveChoices = "sieve_choices"
	KeyInputType    = "input_type"
	KeyPlaceholder  = "placeholder"
	KeyMode         = "mode"
	KeyTag          = "tag"
	KeySearchClear  = "search_clear"
	KeyDateFormat   = "date_format"
	KeyFormID       = "form_id"
)

// Str returns the string value stored under key, or nil when the key is
// missing, null or not representable as a string.
func (c Configuration) Str(key string) *string {
	v, ok := c[key]
	if !ok || v == nil {
		return nil
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case int, int32, int64, uint, uint32, uint64:
		s = fmt.Sprint(t)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		s = t.String()
	default:
		return nil
	}
	return &s
}

// Bool returns the boolean value stored under key. Strings such as "1",
// "true", "on" and "yes" count as true, "0", "false", "off", "no" and the
// empty string as false. Anything else yields nil.
func (c Configuration) Bool(key string) *bool {
	v, ok := c[key]
	if !ok || v == nil {
		return nil
	}
	var b bool
	switch t := v.(type) {
	case bool:
		b = t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "on", "yes":
			b = true
		case "0", "false", "off", "no", "":
			b = false
		default:
			return nil
		}
	case int:
		b = t != 0
	case int32:
		b = t != 0
	case int64:
		b = t != 0
	case uint:
		b = t != 0
	case uint32:
		b = t != 0
	case uint64:
		b = t != 0
	case float32:
		b = t != 0
	case float64:
		b = t != 0
	default:
		return nil
	}
	return &b
}

// Int returns the integer value stored under key.
func (c Configuration) Int(key string) (int, bool) {
	s := c.Str(key)
	if s == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return 0, false
	}
	return n, true
}

// typeKey resolves the variant key: "type" first, then "id".
func (c Configuration) typeKey() string {
	if t := c.Str(KeyType); t != nil && *t != "" {
		return *t
	}
	if id := c.Str(KeyID); id != nil {
		return *id
	}
	return ""
}

// Settings are the options every field recognizes. Nil pointers mean the
// option was never configured.
type Settings struct {
	ID          *string
	CustomLabel *string
	CustomClass *string
	ShowLabel   *bool
}

func decodeSettings(c Configuration) Settings {
	return Settings{
		ID:          c.Str(KeyID),
		CustomLabel: c.Str(KeyCustomLabel),
		CustomClass: c.Str(KeyCustomClass),
		ShowLabel:   c.Bool(KeyShowLabel),
	}
}

func (s Settings) encode(out Configuration) {
	putStr(out, KeyCustomLabel, s.CustomLabel)
	putStr(out, KeyCustomClass, s.CustomClass)
	putBool(out, KeyShowLabel, s.ShowLabel)
}

// Label returns the configured custom label, or "".
func (s Settings) Label() string { return deref(s.CustomLabel) }

// Class returns the configured custom CSS class, or "".
func (s Settings) Class() string { return deref(s.CustomClass) }

// LabelShown reports whether the label renders; labels show unless disabled.
func (s Settings) LabelShown() bool {
	if s.ShowLabel == nil {
		return true
	}
	return *s.ShowLabel
}

func putStr(out Configuration, key string, v *string) {
	if v != nil {
		out[key] = *v
	}
}

func putBool(out Configuration, key string, v *bool) {
	if v != nil {
		out[key] = *v
	}
}

func ptr[T any](v T) *T { return &v }

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// oneOf returns *v when it is among allowed, otherwise nil.
func oneOf(v *string, allowed ...string) *string {
	if v == nil {
		return nil
	}
	for _, a := range allowed {
		if *v == a {
			return v
		}
	}
	return nil
}
