package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gravityview",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gravityview",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "gravityview",
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served",
		},
	)

	searchRequestParams = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gravityview",
			Name:      "search_request_params",
			Help:      "Non-empty search parameters per rendered search widget",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration, httpRequestsTotal, httpInFlight, searchRequestParams)
}

// Middleware records HTTP request duration and count labelled by chi route
// pattern. Widget renders also record how many search parameters were set.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			httpInFlight.Inc()
			defer httpInFlight.Dec()

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routeLabel(r)
			labels := []string{r.Method, route, strconv.Itoa(status)}
			httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(labels...).Inc()

			if r.Method == http.MethodGet && strings.HasSuffix(route, "/search") {
				searchRequestParams.Observe(float64(countParams(r)))
			}
		})
	}
}

// routeLabel is the matched chi pattern, so ids never become label values.
func routeLabel(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		return normalizePath(rc.RoutePattern())
	}
	return normalizePath("")
}

func normalizePath(pattern string) string {
	if pattern == "" {
		return "unknown"
	}
	return pattern
}

func countParams(r *http.Request) int {
	n := 0
	for _, vs := range r.URL.Query() {
		for _, v := range vs {
			if v != "" {
				n++
				break
			}
		}
	}
	return n
}
