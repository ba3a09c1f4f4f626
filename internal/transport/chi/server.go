package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GravityKit/GravityView-sub009/internal/domain"
	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
	domview "github.com/GravityKit/GravityView-sub009/internal/domain/view"
	entryuc "github.com/GravityKit/GravityView-sub009/internal/usecase/entry"
	healthuc "github.com/GravityKit/GravityView-sub009/internal/usecase/health"
	searchwidgetuc "github.com/GravityKit/GravityView-sub009/internal/usecase/searchwidget"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements ServerInterface.
type Server struct {
	widget        *searchwidgetuc.Service
	entries       *entryuc.Service
	health        *healthuc.Service
	metrics       http.Handler
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// sentinels are the domain errors whose message is safe to show clients,
// most specific first.
var sentinels = []error{
	domain.ErrViewNotFound,
	domain.ErrFormNotFound,
	domain.ErrNotFound,
	domain.ErrUnknownFieldType,
	domain.ErrInvalidConfiguration,
	domain.ErrSieveNotImplemented,
}

// NewServer creates an HTTP API server.
func NewServer(
	widget *searchwidgetuc.Service,
	entries *entryuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		widget:  widget,
		entries: entries,
		health:  health,
		metrics: promhttp.Handler(),
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrViewNotFound, http.StatusNotFound, ErrorCodeViewNotFound),
		sentinelHandler(domain.ErrFormNotFound, http.StatusNotFound, ErrorCodeFormNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrUnknownFieldType, http.StatusBadRequest, ErrorCodeUnknownFieldType),
		sentinelHandler(domain.ErrInvalidConfiguration, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrSieveNotImplemented, http.StatusNotImplemented, ErrorCodeNotImplemented),
	}
	return s
}

// RenderSearch handles GET /views/{viewID}/search. The query string is the
// visitor's search request.
func (s *Server) RenderSearch(w http.ResponseWriter, r *http.Request, viewID ViewID) {
	data, err := s.widget.Render(r.Context(), viewID, searchfield.NewRequest(r.URL.Query()))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RenderResponse{Fields: data})
}

// GetLegacySearch handles GET /views/{viewID}/search/legacy.
func (s *Server) GetLegacySearch(w http.ResponseWriter, r *http.Request, viewID ViewID) {
	fields, err := s.widget.Legacy(r.Context(), viewID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LegacyResponse{Fields: fields})
}

// GetSearchConfiguration handles GET /views/{viewID}/search/configuration.
func (s *Server) GetSearchConfiguration(w http.ResponseWriter, r *http.Request, viewID ViewID) {
	cfgs, err := s.widget.Configuration(r.Context(), viewID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ConfigurationResponse{Fields: cfgs})
}

// PutSearchConfiguration handles PUT /views/{viewID}/search/configuration.
func (s *Server) PutSearchConfiguration(w http.ResponseWriter, r *http.Request, viewID ViewID) {
	var req ConfigurationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	cfgs, err := s.widget.Configure(r.Context(), viewID, req.Fields)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ConfigurationResponse{Fields: cfgs})
}

// PutView handles PUT /views/{viewID}. The path id wins over the body.
func (s *Server) PutView(w http.ResponseWriter, r *http.Request, viewID ViewID) {
	var v domview.View
	if !decodeBody(w, r, &v) {
		return
	}
	v.ID = viewID
	if err := s.widget.SaveView(r.Context(), v); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// DeleteView handles DELETE /views/{viewID}.
func (s *Server) DeleteView(w http.ResponseWriter, r *http.Request, viewID ViewID) {
	if err := s.widget.DeleteView(r.Context(), viewID); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutForm handles PUT /forms/{formID}.
func (s *Server) PutForm(w http.ResponseWriter, r *http.Request, formID FormID) {
	var f domview.Form
	if !decodeBody(w, r, &f) {
		return
	}
	f.ID = formID
	if err := s.entries.SaveForm(r.Context(), f); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// GetAvailableFields handles GET /forms/{formID}/search/available.
func (s *Server) GetAvailableFields(w http.ResponseWriter, r *http.Request, formID FormID) {
	fields, err := s.widget.AvailableFields(r.Context(), formID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AvailableResponse{Fields: fields})
}

// IngestEntries handles POST /forms/{formID}/entries.
func (s *Server) IngestEntries(w http.ResponseWriter, r *http.Request, formID FormID) {
	var entries []domview.Entry
	if !decodeBody(w, r, &entries) {
		return
	}
	n, err := s.entries.Ingest(r.Context(), formID, entries)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, IngestResponse{Ingested: n})
}

// PutUsers handles PUT /users.
func (s *Server) PutUsers(w http.ResponseWriter, r *http.Request) {
	var users []domview.User
	if !decodeBody(w, r, &users) {
		return
	}
	if err := s.widget.SaveUsers(r.Context(), users); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, HealthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	s.metrics.ServeHTTP(w, r)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
