package searchfield

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeValues(t *testing.T) {
	got := DecodeValues([]string{"red", `["a","b"]`, "", "red", "[1,2.5]", "[broken", `["a"]`})
	want := []string{"red", "a", "b", "1", "2.5", "[broken"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeValues mismatch (-want +got):\n%s", diff)
	}
}

func TestSieve(t *testing.T) {
	choices := []Choice{{Text: "A", Value: "a"}, {Text: "B", Value: "b"}, {Text: "C", Value: "c"}}

	got := Sieve(choices, []string{"c", "a", "z"})
	if diff := cmp.Diff([]Choice{{Text: "A", Value: "a"}, {Text: "C", Value: "c"}}, got); diff != "" {
		t.Errorf("Sieve mismatch (-want +got):\n%s", diff)
	}

	none := Sieve(choices, nil)
	if none == nil || len(none) != 0 {
		t.Errorf("Sieve with no values = %#v, want empty non-nil slice", none)
	}
}

func TestConfiguration_Accessors(t *testing.T) {
	c := Configuration{
		"n":     float64(3),
		"s":     "yes",
		"z":     "0",
		"bad":   []int{1},
		"nil":   nil,
		"int":   "42",
		"float": 2.5,
	}
	if got := c.Str("n"); got == nil || *got != "3" {
		t.Errorf("Str(n) = %v", got)
	}
	if got := c.Str("float"); got == nil || *got != "2.5" {
		t.Errorf("Str(float) = %v", got)
	}
	if c.Str("bad") != nil || c.Str("nil") != nil || c.Str("missing") != nil {
		t.Error("Str should be nil for unsupported, null and missing values")
	}
	if got := c.Bool("s"); got == nil || !*got {
		t.Errorf("Bool(s) = %v", got)
	}
	if got := c.Bool("z"); got == nil || *got {
		t.Errorf("Bool(z) = %v", got)
	}
	if c.Bool("bad") != nil || c.Bool("missing") != nil {
		t.Error("Bool should be nil for unsupported and missing values")
	}
	if n, ok := c.Int("int"); !ok || n != 42 {
		t.Errorf("Int(int) = %d, %v", n, ok)
	}
	if _, ok := c.Int("s"); ok {
		t.Error("Int(s) should fail")
	}
}

func TestConfiguration_BoolNumericKinds(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"int", int(1), true},
		{"int32", int32(0), false},
		{"int32 set", int32(7), true},
		{"int64", int64(1), true},
		{"uint", uint(1), true},
		{"uint zero", uint(0), false},
		{"uint32", uint32(1), true},
		{"uint64", uint64(0), false},
		{"float32", float32(1), true},
		{"float64", float64(0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Configuration{"k": tt.v}.Bool("k")
			if got == nil || *got != tt.want {
				t.Errorf("Bool(%T %v) = %v, want %v", tt.v, tt.v, got, tt.want)
			}
			if s := (Configuration{"k": tt.v}).Str("k"); s == nil {
				t.Errorf("Str(%T) = nil; Str and Bool must accept the same kinds", tt.v)
			}
		})
	}
}
