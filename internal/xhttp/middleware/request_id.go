package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/garrettladley/ham/internal/xcontext"
	"github.com/garrettladley/ham/internal/xhttp"
)

type requestIDConfig struct {
	idFunc func(*http.Request) string
}

type RequestIDOption func(*requestIDConfig)

// WithRequestIDFunc overrides id generation, mostly for tests.
func WithRequestIDFunc(fn func(*http.Request) string) RequestIDOption {
	return func(c *requestIDConfig) { c.idFunc = fn }
}

// RequestID reuses an inbound X-Request-ID or mints a uuid.
func RequestID(opts ...RequestIDOption) func(http.Handler) http.Handler {
	cfg := &requestIDConfig{
		idFunc: func(_ *http.Request) string {
			return uuid.NewString()
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(xhttp.XRequestID)
			if id == "" {
				id = cfg.idFunc(r)
			}
			ctx := xcontext.SetRequestID(r.Context(), id)
			xhttp.SetHeaderRequestID(w, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
