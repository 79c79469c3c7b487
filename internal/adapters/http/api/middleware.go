package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/champsim/pkg/metrics"
)

// statusClientClosedRequest is the non-standard code recorded when the
// client goes away before a simulation finishes.
const statusClientClosedRequest = 499

// MetricsMiddleware records request counts, latency and error kinds for
// endpoint. A panicking handler is answered with a 500.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				if !rec.wroteHeader {
					writeError(rec, http.StatusInternalServerError, "internal_error", fmt.Errorf("panic: %v", p))
				}
				rec.status = http.StatusInternalServerError
			}

			status := rec.status
			if errors.Is(r.Context().Err(), context.Canceled) && status >= http.StatusInternalServerError {
				status = statusClientClosedRequest
			}
			code := strconv.Itoa(status)
			metrics.RecordHTTPRequest(endpoint, r.Method, code)
			metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, float64(time.Since(start).Microseconds())/1000)
			if status >= http.StatusBadRequest {
				metrics.RecordErrorByEndpoint(endpoint, r.Method, errorType(status))
			}
		}()

		next.ServeHTTP(rec, r)
	}
}

// errorType buckets a status code for the error metric.
func errorType(status int) string {
	switch {
	case status == statusClientClosedRequest:
		return "cancelled"
	case status == http.StatusGatewayTimeout:
		return "timeout"
	case status == http.StatusServiceUnavailable:
		return "unavailable"
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status == http.StatusNotFound:
		return "not_found"
	case status >= http.StatusBadRequest:
		return "client_error"
	default:
		return "unknown"
	}
}

// statusRecorder remembers the status written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
