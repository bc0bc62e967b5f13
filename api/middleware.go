package api

import (
	"net/http"
	"time"

	"github.com/CreativeUnicorns/configstore"
	"github.com/go-chi/chi/v5/middleware"
)

// LoggerMiddleware returns a middleware that logs requests using the provided logger.
// Server errors are logged at error level, everything else at info.
func LoggerMiddleware(logger configstore.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			t0 := time.Now()
			defer func() {
				args := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"latency_ms", float64(time.Since(t0).Microseconds()) / 1000.0,
					"request_id", middleware.GetReqID(r.Context()),
				}
				if ww.Status() >= http.StatusInternalServerError {
					logger.Error("Served request", args...)
					return
				}
				logger.Info("Served request", args...)
			}()
			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
