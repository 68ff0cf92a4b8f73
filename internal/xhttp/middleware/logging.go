package middleware

import (
	"net/http"
	"time"

	"github.com/garrettladley/ham/internal/xslog"
)

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		logger := xslog.FromContext(r.Context())
		attrs := []any{
			xslog.RequestGroup(r),
			xslog.ResponseGroup(wrapped.status, time.Since(start)),
		}
		if wrapped.status >= http.StatusInternalServerError {
			logger.WarnContext(r.Context(), "http request", attrs...)
			return
		}
		logger.DebugContext(r.Context(), "http request", attrs...)
	})
}
