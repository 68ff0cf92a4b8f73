package xhttp

import (
	"net/http"
	"time"
)

type ClientOption func(*http.Client)

func WithTimeout(d time.Duration) ClientOption {
	return func(c *http.Client) { c.Timeout = d }
}

func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *http.Client) { c.Transport = rt }
}

func NewHTTPClient(sessionID string, opts ...ClientOption) *http.Client {
	c := &http.Client{Transport: NewTransport(sessionID)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
