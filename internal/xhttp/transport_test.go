package xhttp

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/garrettladley/ham/internal/version"
)

func TestTransportHeaders(t *testing.T) {
	t.Parallel()

	headers := make(chan http.Header, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	client := NewHTTPClient("session-1")
	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_ = resp.Body.Close()
	got := <-headers

	if ua := got.Get(UserAgent); !strings.HasPrefix(ua, "ham/") {
		t.Errorf("User-Agent = %q, want ham/ prefix", ua)
	}
	if v := got.Get(version.Header); v != version.Get() {
		t.Errorf("%s = %q, want %q", version.Header, v, version.Get())
	}
	if s := got.Get(XSessionID); s != "session-1" {
		t.Errorf("%s = %q, want session-1", XSessionID, s)
	}
	if req.Header.Get(UserAgent) != "" {
		t.Error("transport mutated the caller's request")
	}
}
