package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists the HTTP operations.
type ServerInterface interface {
	// (GET /views/{viewID}/search)
	RenderSearch(w http.ResponseWriter, r *http.Request, viewID ViewID)
	// (GET /views/{viewID}/search/legacy)
	GetLegacySearch(w http.ResponseWriter, r *http.Request, viewID ViewID)
	// (GET /views/{viewID}/search/configuration)
	GetSearchConfiguration(w http.ResponseWriter, r *http.Request, viewID ViewID)
	// (PUT /views/{viewID}/search/configuration)
	PutSearchConfiguration(w http.ResponseWriter, r *http.Request, viewID ViewID)
	// (PUT /views/{viewID})
	PutView(w http.ResponseWriter, r *http.Request, viewID ViewID)
	// (DELETE /views/{viewID})
	DeleteView(w http.ResponseWriter, r *http.Request, viewID ViewID)
	// (PUT /forms/{formID})
	PutForm(w http.ResponseWriter, r *http.Request, formID FormID)
	// (GET /forms/{formID}/search/available)
	GetAvailableFields(w http.ResponseWriter, r *http.Request, formID FormID)
	// (POST /forms/{formID}/entries)
	IngestEntries(w http.ResponseWriter, r *http.Request, formID FormID)
	// (PUT /users)
	PutUsers(w http.ResponseWriter, r *http.Request)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// InvalidParamFormatError reports a path parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ServerOptions configures route registration.
type ServerOptions struct {
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions registers every operation on the base router.
func HandlerWithOptions(si ServerInterface, options ServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		}
	}
	w := &wrapper{handler: si, errorHandler: options.ErrorHandlerFunc}

	r.Get("/views/{viewID}/search", w.withID("viewID", si.RenderSearch))
	r.Get("/views/{viewID}/search/legacy", w.withID("viewID", si.GetLegacySearch))
	r.Get("/views/{viewID}/search/configuration", w.withID("viewID", si.GetSearchConfiguration))
	r.Put("/views/{viewID}/search/configuration", w.withID("viewID", si.PutSearchConfiguration))
	r.Put("/views/{viewID}", w.withID("viewID", si.PutView))
	r.Delete("/views/{viewID}", w.withID("viewID", si.DeleteView))
	r.Put("/forms/{formID}", w.withID("formID", si.PutForm))
	r.Get("/forms/{formID}/search/available", w.withID("formID", si.GetAvailableFields))
	r.Post("/forms/{formID}/entries", w.withID("formID", si.IngestEntries))
	r.Put("/users", si.PutUsers)
	r.Get("/health", si.HealthCheck)
	r.Get("/metrics", si.Metrics)
	return r
}

type wrapper struct {
	handler      ServerInterface
	errorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

// withID binds a positive integer path parameter before calling next.
func (sw *wrapper) withID(
	param string, next func(w http.ResponseWriter, r *http.Request, id int),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id int
		err := runtime.BindStyledParameterWithOptions("simple", param, chi.URLParam(r, param), &id,
			runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
		if err == nil && id <= 0 {
			err = fmt.Errorf("must be positive, got %d", id)
		}
		if err != nil {
			sw.errorHandler(w, r, &InvalidParamFormatError{ParamName: param, Err: err})
			return
		}
		next(w, r, id)
	}
}
