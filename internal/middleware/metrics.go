package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "recipebox_http_requests_total", Help: "HTTP requests by route and status"},
		[]string{"method", "route", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipebox_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"route"},
	)

	registerOnce sync.Once
)

// RegisterMetrics adds the HTTP collectors to the default registry once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration)
	})
}

// known first path segments; anything else is reported as "other" to keep
// label cardinality bounded
var metricRoutes = map[string]bool{
	"create-dish": true,
	"edit-dish":   true,
	"dish":        true,
	"delete-dish": true,
	"login":       true,
	"logout":      true,
	"register":    true,
	"uploads":     true,
	"healthz":     true,
	"metrics":     true,
}

func routeLabel(path string) string {
	segment, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if segment == "" {
		return "/"
	}
	if metricRoutes[segment] {
		return "/" + segment
	}
	return "other"
}

// Metrics records request counts and latency.
func Metrics(next http.Handler) http.Handler {
	RegisterMetrics()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)

		next.ServeHTTP(rec, r)

		route := routeLabel(r.URL.Path)
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.statusCode)).Inc()
		httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
