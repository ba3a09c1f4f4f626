package db

import (
	"errors"
	"fmt"
	"strings"
)

// FieldKind is the FT schema type of an indexed hash field.
type FieldKind int

// Supported schema kinds.
const (
	KindTag FieldKind = iota + 1
	KindNumeric
)

// ValueSeparator splits multi-value TAG fields.
const ValueSeparator = "|"

// SchemaField is one indexed hash field.
type SchemaField struct {
	Name string
	Kind FieldKind

	// Exact tags keep case and split on ValueSeparator only.
	Exact bool
	// Sortable numeric fields can order search results.
	Sortable bool
}

func (f SchemaField) args() []string {
	switch f.Kind {
	case KindTag:
		if f.Exact {
			return []string{f.Name, "TAG", "SEPARATOR", ValueSeparator, "CASESENSITIVE"}
		}
		return []string{f.Name, "TAG"}
	case KindNumeric:
		if f.Sortable {
			return []string{f.Name, "NUMERIC", "SORTABLE"}
		}
		return []string{f.Name, "NUMERIC"}
	}
	return nil
}

// IndexDefinition describes a hash-backed FT index over one key prefix.
type IndexDefinition struct {
	Name   string
	Prefix string
	Fields []SchemaField
}

// Validate checks that the definition can be sent to FT.CREATE.
func (d *IndexDefinition) Validate() error {
	if d.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(d.Name) {
		return fmt.Errorf("index name %q contains invalid characters", d.Name)
	}
	if d.Prefix == "" {
		return fmt.Errorf("index %s: key prefix is required", d.Name)
	}
	if len(d.Fields) == 0 {
		return fmt.Errorf("index %s: at least one field is required", d.Name)
	}

	seen := make(map[string]bool, len(d.Fields))
	for i, f := range d.Fields {
		switch {
		case f.Name == "":
			return fmt.Errorf("index %s: field %d has no name", d.Name, i)
		case seen[f.Name]:
			return fmt.Errorf("index %s: duplicate field %q", d.Name, f.Name)
		case f.args() == nil:
			return fmt.Errorf("index %s: field %q has unknown kind %d", d.Name, f.Name, f.Kind)
		}
		seen[f.Name] = true
	}
	return nil
}

// Args renders the FT.CREATE arguments that follow the command name.
func (d *IndexDefinition) Args() []string {
	args := []string{d.Name, "ON", "HASH", "PREFIX", "1", d.Prefix, "SCHEMA"}
	for _, f := range d.Fields {
		args = append(args, f.args()...)
	}
	return args
}

// String returns the FT.CREATE command for debugging.
func (d *IndexDefinition) String() string {
	return "FT.CREATE " + strings.Join(d.Args(), " ")
}

// IsValidIdentifier reports whether s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case r == '_', r == ':', r == '-':
			return false
		}
		return true
	}) < 0
}

// IndexBuilder collects schema fields in order. A name added twice is kept
// once, so a form field and a sub-input mapping to the same hash field do
// not collide.
type IndexBuilder struct {
	def  IndexDefinition
	seen map[string]bool
}

// NewIndex starts an index over keys starting with prefix.
func NewIndex(name, prefix string) *IndexBuilder {
	return &IndexBuilder{
		def:  IndexDefinition{Name: name, Prefix: prefix},
		seen: map[string]bool{},
	}
}

// Tag adds case-insensitive TAG fields with the default separator.
func (b *IndexBuilder) Tag(names ...string) *IndexBuilder {
	for _, n := range names {
		b.add(SchemaField{Name: n, Kind: KindTag})
	}
	return b
}

// ExactTag adds case-sensitive TAG fields split on ValueSeparator.
func (b *IndexBuilder) ExactTag(names ...string) *IndexBuilder {
	for _, n := range names {
		b.add(SchemaField{Name: n, Kind: KindTag, Exact: true})
	}
	return b
}

// Numeric adds a NUMERIC field.
func (b *IndexBuilder) Numeric(name string, sortable bool) *IndexBuilder {
	b.add(SchemaField{Name: name, Kind: KindNumeric, Sortable: sortable})
	return b
}

// Build validates and returns the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	def.Fields = append([]SchemaField(nil), b.def.Fields...)
	return &def, nil
}

func (b *IndexBuilder) add(f SchemaField) {
	if b.seen[f.Name] {
		return
	}
	b.seen[f.Name] = true
	b.def.Fields = append(b.def.Fields, f)
}
