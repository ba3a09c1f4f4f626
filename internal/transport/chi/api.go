package chi

import (
	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
	searchwidgetuc "github.com/GravityKit/GravityView-sub009/internal/usecase/searchwidget"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest        ErrorCode = "bad_request"
	ErrorCodeUnauthorized      ErrorCode = "unauthorized"
	ErrorCodeValidationFailed  ErrorCode = "validation_failed"
	ErrorCodeUnknownFieldType  ErrorCode = "unknown_field_type"
	ErrorCodeViewNotFound      ErrorCode = "view_not_found"
	ErrorCodeFormNotFound      ErrorCode = "form_not_found"
	ErrorCodeNotFound          ErrorCode = "not_found"
	ErrorCodeNotImplemented    ErrorCode = "not_implemented"
	ErrorCodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ViewID identifies a view in the path.
type ViewID = int

// FormID identifies a form in the path.
type FormID = int

// RenderResponse is the body of GET /views/{viewID}/search.
type RenderResponse struct {
	Fields []searchfield.TemplateData `json:"fields"`
}

// LegacyResponse is the body of GET /views/{viewID}/search/legacy.
type LegacyResponse struct {
	Fields []searchfield.LegacyFormat `json:"fields"`
}

// ConfigurationResponse carries a normalized search widget configuration.
type ConfigurationResponse struct {
	Fields []searchfield.Configuration `json:"fields"`
}

// ConfigurationRequest is the body of PUT /views/{viewID}/search/configuration.
type ConfigurationRequest struct {
	Fields []searchfield.Configuration `json:"fields"`
}

// AvailableResponse is the body of GET /forms/{formID}/search/available.
type AvailableResponse struct {
	Fields []searchwidgetuc.Available `json:"fields"`
}

// IngestResponse is the body of POST /forms/{formID}/entries.
type IngestResponse struct {
	Ingested int `json:"ingested"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
