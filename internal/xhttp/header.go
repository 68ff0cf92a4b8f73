package xhttp

import (
	"fmt"
	"net/http"
	"time"
)

const (
	XForwardedFor = "X-Forwarded-For"
	XRequestID    = "X-Request-ID"
	XSessionID    = "X-Session-ID"
)

const (
	ContentType = "Content-Type"
	Accept      = "Accept"
	UserAgent   = "User-Agent"
	RetryAfter  = "Retry-After"
)

const (
	ApplicationJSON = "application/json"
	ImagePNG        = "image/png"
)

func SetHeaderRequestID(w http.ResponseWriter, requestID string) {
	w.Header().Set(XRequestID, requestID)
}

func SetHeaderContentTypeApplicationJSON(w http.ResponseWriter) {
	w.Header().Set(ContentType, ApplicationJSON)
}

func SetHeaderRetryAfter(w http.ResponseWriter, retryAfter time.Duration) {
	retryAfterSeconds := int(retryAfter.Seconds())
	w.Header().Set(RetryAfter, fmt.Sprintf("%d", retryAfterSeconds))
}

func SetRequestHeaderSessionID(r *http.Request, sessionID string) {
	r.Header.Set(XSessionID, sessionID)
}

func GetRequestHeaderSessionID(r *http.Request) string {
	return r.Header.Get(XSessionID)
}
