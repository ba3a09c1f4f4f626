package searchfield

import (
	"context"
	"slices"
	"testing"

	"github.com/GravityKit/GravityView-sub009/internal/domain/view"
)

// fakeSource serves stored values from memory and records every query.
type fakeSource struct {
	values map[string][]string
	err    error
	calls  []ValueQuery
}

func (s *fakeSource) Values(_ context.Context, q ValueQuery) (map[string][]string, error) {
	s.calls = append(s.calls, q)
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string][]string, len(q.Keys))
	for _, k := range q.Keys {
		if v, ok := s.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// sievableOnly claims to be sievable but cannot compute sieved values.
type sievableOnly struct {
	*IsRead
}

func (sievableOnly) IsSievable() bool { return true }

func testForm() *view.Form {
	return &view.Form{
		ID:    789,
		Title: "Order",
		Fields: []view.FormField{
			{ID: "1", Type: "name", Label: "Name", Inputs: []view.FormField{
				{ID: "1.3", Label: "First"},
				{ID: "1.6", Label: "Last"},
			}},
			{ID: "2", Type: "select", Label: "Color", Choices: []view.Choice{
				{Text: "Red", Value: "red"},
				{Text: "Green", Value: "green"},
				{Text: "Blue", Value: "blue"},
			}},
			{ID: "3", Type: "checkbox", Label: "Toppings", Choices: []view.Choice{
				{Text: "Cheese", Value: "cheese"},
				{Text: "Ham", Value: "ham"},
			}, Inputs: []view.FormField{
				{ID: "3.1", Label: "Cheese"},
				{ID: "3.2", Label: "Ham"},
			}},
			{ID: "4", Type: "html", Label: "Intro"},
			{ID: "5", Type: "email", Label: "Email", AdminLabel: "Contact Email"},
		},
	}
}

func testView() *view.View {
	f := testForm()
	return &view.View{
		ID:       10,
		FormID:   f.ID,
		Form:     f,
		Criteria: map[string]string{view.MetaIsApproved: view.Approved},
	}
}

func mustField(t *testing.T, c Configuration, v *view.View) Field {
	t.Helper()
	f, err := FromConfiguration(c, v)
	if err != nil {
		t.Fatalf("FromConfiguration(%v): %v", c, err)
	}
	return f
}

// isolatePatterns restores the pattern registry when the test ends.
func isolatePatterns(t *testing.T) {
	t.Helper()
	patternsMu.Lock()
	saved := slices.Clone(patterns)
	patternsMu.Unlock()
	t.Cleanup(func() {
		patternsMu.Lock()
		patterns = saved
		patternsMu.Unlock()
	})
}

func types(c *Collection) []string {
	out := make([]string, 0, c.Len())
	for _, f := range c.All() {
		out = append(out, f.Type())
	}
	return out
}
