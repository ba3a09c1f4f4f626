package searchfield

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/GravityKit/GravityView-sub009/internal/domain/view"
)

// Choice is a {text, value} pair offered by a choice field.
type Choice = view.Choice

// ChoiceField is a field that offers a list of choices.
type ChoiceField interface {
	Field
	Choices() []Choice
	// IsSievable reports whether the variant can narrow its choices to the
	// values present in entries.
	IsSievable() bool
	// SieveEnabled reports whether the sieve_choices option is on.
	SieveEnabled() bool
}

// Siever computes the values a choice field's entries actually hold.
type Siever interface {
	// SieveKeys lists the entry field ids or meta keys the values come from.
	SieveKeys() []string
	SievedValues(ctx context.Context, src ValueSource) ([]string, error)
}

// ValueQuery selects stored values of some keys across a form's entries.
type ValueQuery struct {
	FormID   int
	Keys     []string
	Criteria map[string]string
}

// ValueSource reads stored entry values. Values are returned raw, per key;
// multi-value fields may hold JSON-encoded arrays.
type ValueSource interface {
	Values(ctx context.Context, q ValueQuery) (map[string][]string, error)
}

// choiceBase carries the sieve_choices option.
type choiceBase struct {
	sieve *bool
}

func newChoiceBase(c Configuration) choiceBase {
	return choiceBase{sieve: c.Bool(KeySieveChoices)}
}

func (c *choiceBase) SieveEnabled() bool { return deref(c.sieve) }
func (c *choiceBase) IsSievable() bool   { return false }

func (c *choiceBase) encode(out Configuration) {
	putBool(out, KeySieveChoices, c.sieve)
}

// sieveValues queries src for keys over the view's current entries and
// decodes the stored values.
func sieveValues(ctx context.Context, v *view.View, keys []string, src ValueSource) ([]string, error) {
	if !v.HasForm() {
		return nil, nil
	}
	q := ValueQuery{FormID: v.Form.ID, Keys: keys, Criteria: v.Criteria}
	got, err := src.Values(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query values for %s: %w", strings.Join(keys, ","), err)
	}
	var raw []string
	for _, k := range keys {
		raw = append(raw, got[k]...)
	}
	return DecodeValues(raw), nil
}

// DecodeValues flattens raw stored values into distinct individual values in
// first-seen order. JSON arrays (multiselect storage) contribute each element.
func DecodeValues(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	add := func(v string) {
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		out = append(out, v)
	}
	for _, r := range raw {
		trimmed := strings.TrimSpace(r)
		if strings.HasPrefix(trimmed, "[") {
			var items []any
			if err := json.Unmarshal([]byte(trimmed), &items); err == nil {
				for _, it := range items {
					add(scalarString(it))
				}
				continue
			}
		}
		add(r)
	}
	return out
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// Sieve keeps the choices whose value is among values, in their original order.
func Sieve(choices []Choice, values []string) []Choice {
	keep := make(map[string]bool, len(values))
	for _, v := range values {
		keep[v] = true
	}
	out := make([]Choice, 0, len(choices))
	for _, ch := range choices {
		if keep[ch.Value] {
			out = append(out, ch)
		}
	}
	return out
}

// canSieve reports whether sieving applies to f for this render.
func canSieve(f ChoiceField, src ValueSource) bool {
	return src != nil && f.SieveEnabled() && f.IsSievable() && f.View().HasForm()
}

func copyChoices(in []Choice) []Choice {
	out := make([]Choice, len(in))
	copy(out, in)
	return out
}
