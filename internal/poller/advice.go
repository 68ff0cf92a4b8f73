package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/garrettladley/ham/internal/client/ham"
	"github.com/garrettladley/ham/internal/xslog"
)

const (
	AdviceLoading     = "loading advice..."
	AdviceUnavailable = "advice unavailable"
)

type AdviceUpdate struct {
	Text string
	At   time.Time
	// Err is set when this fetch failed; Text then holds the last good
	// advice, or AdviceUnavailable.
	Err error
}

type adviceState struct {
	text string
	ok   bool
}

// AdvicePoller fetches advice on its own cadence, independent of the
// telemetry batch.
type AdvicePoller struct {
	svc      ham.AdviceService
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	state atomic.Pointer[adviceState]
	subs  broadcaster[AdviceUpdate]
}

type AdviceOption func(*AdvicePoller)

// WithAdviceInterval sets the refetch cadence. Zero fetches once.
func WithAdviceInterval(d time.Duration) AdviceOption {
	return func(a *AdvicePoller) { a.interval = d }
}

func WithAdviceLogger(logger *slog.Logger) AdviceOption {
	return func(a *AdvicePoller) { a.logger = logger }
}

func NewAdvicePoller(svc ham.AdviceService, opts ...AdviceOption) *AdvicePoller {
	a := &AdvicePoller{
		svc:    svc,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Text returns the advice to display.
func (a *AdvicePoller) Text() string {
	s := a.state.Load()
	if s == nil {
		return AdviceLoading
	}
	return s.text
}

func (a *AdvicePoller) Subscribe() (<-chan AdviceUpdate, func()) {
	return a.subs.subscribe()
}

func (a *AdvicePoller) Fetch(ctx context.Context) AdviceUpdate {
	advice, err := a.svc.Get(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "advice fetch failed", xslog.Error(err))
		if prev := a.state.Load(); prev == nil || !prev.ok {
			a.state.Store(&adviceState{text: AdviceUnavailable})
		}
		u := AdviceUpdate{Text: a.Text(), At: a.now(), Err: err}
		a.subs.publish(u)
		return u
	}

	a.state.Store(&adviceState{text: advice.Advice, ok: true})
	u := AdviceUpdate{Text: advice.Advice, At: a.now()}
	a.subs.publish(u)
	return u
}

// Run fetches once, then every interval until ctx is done. With a zero
// interval it returns after the first fetch.
func (a *AdvicePoller) Run(ctx context.Context) error {
	a.Fetch(ctx)
	if a.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			a.Fetch(ctx)
		}
	}
}
