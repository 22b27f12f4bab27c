package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// staticRoutes are paths recorded verbatim in metrics.
var staticRoutes = map[string]bool{
	"/":                        true,
	"/health":                  true,
	"/metrics":                 true,
	"/ws":                      true,
	"/api/options":             true,
	"/api/scenes":              true,
	"/api/characters":          true,
	"/api/events":              true,
	"/api/style-profiles":      true,
	"/api/templates":           true,
	"/api/templates/generate":  true,
	"/api/images/upload":       true,
	"/api/images/hide":         true,
	"/api/images/caption":      true,
	"/api/images/active":       true,
	"/api/narrative/parse":     true,
	"/api/prompts/preview":     true,
	"/api/auth/login":          true,
	"/api/auth/logout":         true,
	"/api/auth/status":         true,
	"/api/auth/me":             true,
}

// idRoutes maps an entity collection prefix to the actions allowed on an id.
var idRoutes = map[string][]string{
	"/api/scenes/":         {"duplicate"},
	"/api/characters/":     nil,
	"/api/events/":         nil,
	"/api/style-profiles/": {"default"},
	"/api/templates/":      nil,
	"/api/images/":         {"activate"},
}

// normalizePath converts paths with dynamic segments to route patterns to
// prevent cardinality explosion in metrics. This maps paths like
// /api/scenes/123 to /api/scenes/{id}.
func normalizePath(path string) string {
	if staticRoutes[path] {
		return path
	}

	for prefix, actions := range idRoutes {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		parts := strings.Split(path, "/")
		// ["", "api", "scenes", "{id}"] or ["", "api", "scenes", "{id}", "action"]
		if len(parts) == 4 && parts[3] != "" {
			return prefix + "{id}"
		}
		if len(parts) == 5 {
			for _, action := range actions {
				if parts[4] == action {
					return prefix + "{id}/" + action
				}
			}
		}
	}

	// File servers get a single bucket each
	if strings.HasPrefix(path, "/uploads/") {
		return "/uploads/{file}"
	}
	if strings.HasPrefix(path, "/overlay/") {
		return "/overlay/{file}"
	}

	// Unknown patterns pass through so new routes still show up
	return path
}

// metricsResponseWriter wraps http.ResponseWriter to capture status code and response size.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	size        int64
	wroteHeader bool
}

// WriteHeader captures the status code before writing it.
func (mrw *metricsResponseWriter) WriteHeader(code int) {
	if mrw.wroteHeader {
		return
	}
	mrw.statusCode = code
	mrw.wroteHeader = true
	mrw.ResponseWriter.WriteHeader(code)
}

// Write captures the response size and writes the data.
func (mrw *metricsResponseWriter) Write(b []byte) (int, error) {
	n, err := mrw.ResponseWriter.Write(b)
	mrw.size += int64(n)
	return n, err
}

// Unwrap exposes the wrapped writer so UpdateResponseContext can reach the
// logging middleware through this wrapper.
func (mrw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return mrw.ResponseWriter
}

// newMetricsResponseWriter creates a new metricsResponseWriter with default 200 status.
func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// HTTPMetrics is a middleware that records HTTP request metrics.
// It captures duration, request/response sizes, and request counts.
// The health endpoint is excluded to keep scrape traffic out of the numbers.
func HTTPMetrics(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()

			mrw := newMetricsResponseWriter(w)

			requestSize := int64(0)
			if contentLength := r.Header.Get("Content-Length"); contentLength != "" {
				if size, err := strconv.ParseInt(contentLength, 10, 64); err == nil {
					requestSize = size
				}
			}

			next.ServeHTTP(mrw, r)

			duration := time.Since(start).Seconds()

			metrics.ObserveHTTPRequest(
				r.Method,
				normalizePath(r.URL.Path),
				strconv.Itoa(mrw.statusCode),
				duration,
				requestSize,
				mrw.size,
			)
		})
	}
}
