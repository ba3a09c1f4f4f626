package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/GravityKit/GravityView-sub009/internal/domain/searchfield"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/views/{viewID}/search-fields", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/views/1/search-fields", "/views/2/search-fields"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status %d", path, rr.Code)
		}
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/views/{viewID}/search-fields", "200"))
	if got < 2 {
		t.Errorf("expected both requests under the route pattern, got %f", got)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Post("/fail", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.WriteHeader(http.StatusOK) // ignored
	})

	tests := []struct {
		method, path, status string
	}{
		{http.MethodGet, "/missing", "404"},
		{http.MethodPost, "/fail", "500"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tc.method, tc.path, http.NoBody))
			if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, tc.path, tc.status)); v < 1 {
				t.Errorf("expected a %s sample for %s, got %f", tc.status, tc.path, v)
			}
		})
	}
}

func TestMiddleware_SearchParams(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/views/{viewID}/search", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})

	req := httptest.NewRequest(http.MethodGet, "/views/3/search?filter_2=blue&gv_search=&filter_3[]=x", http.NoBody)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if n := countParams(req); n != 2 {
		t.Errorf("countParams = %d, want 2", n)
	}
	if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/views/{viewID}/search", "200")); v < 1 {
		t.Errorf("implicit 200 not recorded, got %f", v)
	}
	if v := testutil.ToFloat64(httpInFlight); v != 0 {
		t.Errorf("in-flight = %f after request, want 0", v)
	}
}

func TestNormalizePath(t *testing.T) {
	if got := normalizePath(""); got != "unknown" {
		t.Errorf("normalizePath(\"\") = %q", got)
	}
}

type stubSource struct{ err error }

func (s stubSource) Values(context.Context, searchfield.ValueQuery) (map[string][]string, error) {
	return map[string][]string{"2": {"red"}}, s.err
}

func TestInstrumentSource(t *testing.T) {
	ok := InstrumentSource("test_ok", stubSource{})
	vals, err := ok.Values(t.Context(), searchfield.ValueQuery{FormID: 1})
	if err != nil || vals["2"][0] != "red" {
		t.Fatalf("got %v, %v", vals, err)
	}

	failing := InstrumentSource("test_fail", stubSource{err: errors.New("down")})
	if _, err := failing.Values(t.Context(), searchfield.ValueQuery{FormID: 1}); err == nil {
		t.Fatal("expected error")
	}
	if v := testutil.ToFloat64(SieveErrorsTotal.WithLabelValues("test_fail")); v != 1 {
		t.Errorf("errors = %v, want 1", v)
	}
	if v := testutil.ToFloat64(SieveErrorsTotal.WithLabelValues("test_ok")); v != 0 {
		t.Errorf("errors for ok driver = %v, want 0", v)
	}
}
