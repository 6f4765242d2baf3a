package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/errors"
	httputil "github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/http"
	"github.com/mediasezsec-droid/jamat-inventory-sub001/pkg/logger"
)

// Recovery turns a handler panic into a 500 carrying the request id so the
// caller can quote it. http.ErrAbortHandler is re-raised.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				requestID := RequestIDFrom(r.Context())
				log.Error("Panic recovered",
					"request_id", requestID,
					"actor", Actor(r.Context()),
					"panic", fmt.Sprint(rec),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				appErr := apperrors.Internal("Internal server error", nil)
				if requestID != "" {
					appErr.WithDetails(map[string]any{"requestId": requestID})
				}
				_ = httputil.WriteError(w, appErr)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
