package searchfield

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/GravityKit/GravityView-sub009/internal/domain"
	"github.com/GravityKit/GravityView-sub009/internal/domain/view"
)

// Constructor builds a field for a type key matched by a registered pattern.
// match holds the pattern's submatches.
type Constructor func(match []string, c Configuration, v *view.View) (Field, error)

type typePattern struct {
	expr  string
	re    *regexp.Regexp
	build Constructor
}

var (
	patternsMu sync.RWMutex
	patterns   = []typePattern{
		{expr: gravityFormsPattern, re: regexp.MustCompile(gravityFormsPattern), build: buildGravityForms},
	}
)

const gravityFormsPattern = `^(\d+)::(\d+(?:\.\d+)?)$`

var numericFieldID = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

// RegisterPattern adds a type key pattern handled by build. Patterns are
// tried in registration order after the built-in types.
func RegisterPattern(expr string, build Constructor) error {
	if build == nil {
		return fmt.Errorf("register pattern %q: nil constructor", expr)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("register pattern %q: %w", expr, err)
	}

	patternsMu.Lock()
	defer patternsMu.Unlock()
	for _, p := range patterns {
		if p.expr == expr {
			return fmt.Errorf("%w: pattern %q", domain.ErrConflictingRegistration, expr)
		}
	}
	patterns = append(patterns, typePattern{expr: expr, re: re, build: build})
	return nil
}

// FromConfiguration builds the field a stored configuration describes and
// binds it to v, which may be nil. The variant is chosen by "type", falling
// back to "id"; a bare numeric id is a form field of form_id or of the
// view's form.
func FromConfiguration(c Configuration, v *view.View) (Field, error) {
	typ := c.typeKey()
	if numericFieldID.MatchString(typ) {
		formID, ok := c.Int(KeyFormID)
		if !ok && v != nil {
			formID = v.FormID
		}
		if formID > 0 {
			typ = GenerateFieldID(formID, typ)
		}
	}

	f, err := build(typ, c, v)
	if err != nil {
		return nil, err
	}
	if a, ok := f.(attacher); ok {
		a.attach(v)
	}
	return f, nil
}

func build(typ string, c Configuration, v *view.View) (Field, error) {
	switch typ {
	case TypeAll:
		return NewAll(c), nil
	case TypeCreatedBy:
		return NewCreatedBy(c), nil
	case TypeEntryDate:
		return NewEntryDate(c), nil
	case TypeEntryID:
		return NewEntryID(c), nil
	case TypeIsApproved:
		return NewIsApproved(c), nil
	case TypeIsRead:
		return NewIsRead(c), nil
	case TypeIsStarred:
		return NewIsStarred(c), nil
	case TypeSearchMode:
		return NewSearchMode(c), nil
	case TypeSubmit:
		return NewSubmit(c), nil
	case "":
		return nil, fmt.Errorf("%w: configuration has neither type nor id", domain.ErrUnknownFieldType)
	}

	patternsMu.RLock()
	defer patternsMu.RUnlock()
	for _, p := range patterns {
		if m := p.re.FindStringSubmatch(typ); m != nil {
			return p.build(m, c, v)
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFieldType, typ)
}

func buildGravityForms(m []string, c Configuration, v *view.View) (Field, error) {
	formID, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: form id %q", domain.ErrInvalidConfiguration, m[1])
	}
	fieldID := m[2]

	var (
		ff view.FormField
		ok bool
	)
	if v.HasForm() && v.Form.ID == formID {
		ff, ok = v.Form.Field(fieldID)
	}
	if !ok {
		ff = view.FormField{ID: fieldID, Label: deref(c.Str(KeyLabel))}
	}
	return newGravityForms(formID, ff, c), nil
}

// Fallback is the field used in place of a configuration no variant handles.
func Fallback(c Configuration, v *view.View) Field {
	f := NewSubmit(c)
	f.attach(v)
	return f
}
