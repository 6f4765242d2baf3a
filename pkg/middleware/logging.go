package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// statusRecorder remembers the status and body size a handler produced.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *statusRecorder) WriteHeader(status int) {
	if rw.status != 0 {
		return
	}
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

func (rw *statusRecorder) code() int {
	if rw.status == 0 {
		return http.StatusOK
	}
	return rw.status
}

// RequestLogging assigns a request id, echoes it in X-Request-ID and logs the
// outcome of every request at a level matching its status class. A
// well-formed incoming X-Request-ID is reused.
func RequestLogging(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := requestIDFor(r)

			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			r = r.WithContext(ctx)
			w.Header().Set(RequestIDHeader, requestID)

			rec := &statusRecorder{ResponseWriter: w}

			log.Debug("HTTP request started",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)

			next.ServeHTTP(rec, r)

			fields := []any{
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.code(),
				"bytes", rec.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			switch status := rec.code(); {
			case status >= http.StatusInternalServerError:
				log.Error("HTTP request failed", fields...)
			case status >= http.StatusBadRequest:
				log.Warn("HTTP request rejected", fields...)
			default:
				log.Info("HTTP request completed", fields...)
			}
		})
	}
}

func requestIDFor(r *http.Request) string {
	if incoming := r.Header.Get(RequestIDHeader); incoming != "" {
		if id, err := uuid.Parse(incoming); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}
