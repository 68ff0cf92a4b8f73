package middleware

import (
	"net/http"

	"github.com/garrettladley/ham/internal/xcontext"
	"github.com/garrettladley/ham/internal/xhttp"
)

// ClientSessionID copies the dashboard's X-Session-ID into the request context.
func ClientSessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionID := xhttp.GetRequestHeaderSessionID(r); sessionID != "" {
			r = r.WithContext(xcontext.SetSessionID(r.Context(), sessionID))
		}
		next.ServeHTTP(w, r)
	})
}
