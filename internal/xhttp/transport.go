package xhttp

import (
	"fmt"
	"net/http"

	"github.com/garrettladley/ham/internal/version"
)

type hamTransport struct {
	base      http.RoundTripper
	sessionID string
}

var _ http.RoundTripper = (*hamTransport)(nil)

func (t *hamTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request
	req = req.Clone(req.Context())
	req.Header.Set(UserAgent, version.UserAgent())
	req.Header.Set(version.Header, version.Get())
	if t.sessionID != "" {
		SetRequestHeaderSessionID(req, t.sessionID)
	}
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform round trip: %w", err)
	}
	return resp, nil
}

// NewTransport returns an http.RoundTripper that stamps the ham headers
// on every request. An empty sessionID omits X-Session-ID.
func NewTransport(sessionID string) http.RoundTripper {
	return &hamTransport{base: http.DefaultTransport, sessionID: sessionID}
}
