package feed

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/garrettladley/ham/internal/xhttp"
	"github.com/garrettladley/ham/internal/xslog"
)

const DefaultReconnect = 2 * time.Second

// MJPEG reads a multipart/x-mixed-replace JPEG stream and keeps the last
// decoded frame.
type MJPEG struct {
	url       string
	client    *http.Client
	logger    *slog.Logger
	reconnect time.Duration

	latest atomic.Pointer[image.Image]
	frames atomic.Int64
}

type MJPEGOption func(*MJPEG)

func WithHTTPClient(c *http.Client) MJPEGOption {
	return func(m *MJPEG) { m.client = c }
}

func WithLogger(logger *slog.Logger) MJPEGOption {
	return func(m *MJPEG) { m.logger = logger }
}

func WithReconnect(d time.Duration) MJPEGOption {
	return func(m *MJPEG) { m.reconnect = d }
}

func NewMJPEG(url string, opts ...MJPEGOption) *MJPEG {
	m := &MJPEG{
		url:       url,
		client:    xhttp.NewHTTPClient(""),
		logger:    slog.Default(),
		reconnect: DefaultReconnect,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MJPEG) Latest() (image.Image, bool) {
	img := m.latest.Load()
	if img == nil {
		return nil, false
	}
	return *img, true
}

// Frames is the number of frames decoded so far.
func (m *MJPEG) Frames() int64 { return m.frames.Load() }

// Run streams until ctx is done, reconnecting after a fixed pause when the
// stream drops.
func (m *MJPEG) Run(ctx context.Context) error {
	logger := m.logger.With(xslog.URL(m.url))
	for {
		err := m.stream(ctx)
		if ctx.Err() != nil {
			return nil
		}
		logger.WarnContext(ctx, "video stream interrupted",
			xslog.Error(err),
			xslog.Backoff(m.reconnect),
		)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(m.reconnect):
		}
	}
}

var errStreamEnded = errors.New("stream ended")

func (m *MJPEG) stream(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	mediaType, params, err := mime.ParseMediaType(resp.Header.Get(xhttp.ContentType))
	if err != nil {
		return fmt.Errorf("parsing content type: %w", err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return fmt.Errorf("unsupported content type %q", mediaType)
	}

	return m.read(multipart.NewReader(resp.Body, params["boundary"]))
}

func (m *MJPEG) read(mr *multipart.Reader) error {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return errStreamEnded
		}
		if err != nil {
			return fmt.Errorf("reading part: %w", err)
		}

		img, err := jpeg.Decode(part)
		_ = part.Close()
		if err != nil {
			// a corrupt frame is skipped, the stream carries on
			m.logger.Debug("skipping undecodable frame", xslog.Error(err))
			continue
		}
		m.latest.Store(&img)
		m.frames.Add(1)
	}
}
