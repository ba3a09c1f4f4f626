package gravityview

import (
	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
	domview "github.com/GravityKit/GravityView-sub009/internal/domain/view"
	"github.com/GravityKit/GravityView-sub009/internal/usecase/searchwidget"
)

// Stored records.
type (
	Form      = domview.Form
	FormField = domview.FormField
	Choice    = domview.Choice
	View      = domview.View
	Entry     = domview.Entry
	User      = domview.User
)

// Search field shapes.
type (
	// Configuration is one field's persisted settings map.
	Configuration = searchfield.Configuration
	// TemplateData is what a renderer needs to draw one field.
	TemplateData = searchfield.TemplateData
	// LegacyFormat is the {field, input, title} shape older renderers read.
	LegacyFormat = searchfield.LegacyFormat
	// AvailableField describes one field a form's search widget can offer.
	AvailableField = searchwidget.Available
)

// Approval states for Entry.Approved.
const (
	Approved    = domview.Approved
	Disapproved = domview.Disapproved
	Unapproved  = domview.Unapproved
)
