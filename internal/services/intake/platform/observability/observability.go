// Package observability provides request-level logging for the intake service.
package observability

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/millfloor/chipline/internal/services/intake/platform/httpx"
	"go.opentelemetry.io/otel/trace"
)

// RequestLogger emits one line per request with status, size, and latency.
func RequestLogger(logger *log.Logger) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			recorder := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			if logger == nil {
				return
			}
			method := "-"
			path := "-"
			requestID := "-"
			traceID := "-"
			if r != nil {
				if trimmed := strings.TrimSpace(r.Method); trimmed != "" {
					method = trimmed
				}
				if r.URL != nil {
					if trimmed := strings.TrimSpace(r.URL.Path); trimmed != "" {
						path = trimmed
					}
				}
				if trimmed := strings.TrimSpace(r.Header.Get("X-Request-ID")); trimmed != "" {
					requestID = trimmed
				}
				if sc := trace.SpanFromContext(r.Context()).SpanContext(); sc.IsValid() {
					traceID = sc.TraceID().String()
				}
			}
			logger.Printf(
				"http request method=%s path=%s status=%d bytes=%d latency=%s request_id=%s trace_id=%s",
				method,
				path,
				recorder.status,
				recorder.bytes,
				time.Since(started).Round(time.Microsecond),
				requestID,
				traceID,
			)
		})
	}
}

// responseRecorder captures the written status and byte count. Handlers that
// never call WriteHeader get the implicit 200 the net/http stack applies.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}
