package ham

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/ham/internal/xhttp"
	"github.com/garrettladley/ham/internal/xslog"
)

// Client talks to the hamster backend. Each endpoint family is exposed as a
// service so callers can depend on the narrow interface they use.
type Client struct {
	Tracking  TrackingService
	Movements MovementService
	Diet      DietService
	Water     WaterService
	Sleep     SleepService
	Advice    AdviceService

	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(baseURL string, opts ...Option) *Client {
	cfg := &clientConfig{
		logger:  slog.Default(),
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = xhttp.NewHTTPClient(cfg.sessionID, xhttp.WithTimeout(cfg.timeout))
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     cfg.logger,
	}

	c.Tracking = &trackingService{client: c}
	c.Movements = &movementService{client: c}
	c.Diet = &dietService{client: c}
	c.Water = &waterService{client: c}
	c.Sleep = &sleepService{client: c}
	c.Advice = &adviceService{client: c}

	return c
}

type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
	sessionID  string
	timeout    time.Duration
}

type Option func(*clientConfig)

// WithHTTPClient replaces the default client. The session id and timeout
// options are ignored when it is set.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) { cfg.httpClient = c }
}

func WithSessionID(sessionID string) Option {
	return func(cfg *clientConfig) { cfg.sessionID = sessionID }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) { cfg.logger = logger }
}

func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.timeout = d }
}

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(xhttp.Accept, xhttp.ApplicationJSON)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.DebugContext(ctx, "backend request",
		xslog.Endpoint(path),
		xslog.HTTPStatus(resp.StatusCode),
		xslog.Duration(time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return parseAPIError(resp)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		if err := go_json.NewDecoder(bytes.NewReader(body)).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w\nbody: %s", err, string(body))
		}
	}

	return nil
}
