package feed

import (
	"context"
	"image"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/ham/internal/delay"
	"github.com/garrettladley/ham/internal/xslog"
)

const (
	DefaultDelay = 3 * time.Second
	DefaultFPS   = 30
)

type Frame struct {
	Image      image.Image
	CapturedAt time.Time
}

// Feed captures frames from a Source into a delay ring and plays them
// back delayed.
type Feed struct {
	src    Source
	ring   *delay.Ring[image.Image]
	delay  time.Duration
	fps    int
	logger *slog.Logger
	now    func() time.Time

	shown atomic.Pointer[Frame]
}

type Option func(*Feed)

func WithFeedLogger(logger *slog.Logger) Option {
	return func(f *Feed) { f.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(f *Feed) { f.now = now }
}

// New sizes the ring to hold delay worth of frames at fps.
func New(src Source, d time.Duration, fps int, opts ...Option) *Feed {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if d < 0 {
		d = 0
	}
	capacity := max(1, int(math.Floor(d.Seconds()*float64(fps))))
	f := &Feed{
		src:    src,
		ring:   delay.NewRing[image.Image](capacity),
		delay:  d,
		fps:    fps,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Feed) Delay() time.Duration { return f.delay }

func (f *Feed) Buffered() int { return f.ring.Len() }

func (f *Feed) Capacity() int { return f.ring.Cap() }

// Capture copies the source's latest frame into the ring. It reports false
// when the source has nothing yet.
func (f *Feed) Capture(now time.Time) bool {
	img, ok := f.src.Latest()
	if !ok {
		return false
	}
	f.ring.Push(now, img)
	return true
}

// Delayed picks the newest frame captured at or before now minus the
// delay, falling back to the oldest buffered frame.
func (f *Feed) Delayed(now time.Time) (Frame, bool) {
	if img, at, ok := f.ring.AtOrBefore(now.Add(-f.delay)); ok {
		return Frame{Image: img, CapturedAt: at}, true
	}
	if img, at, ok := f.ring.Oldest(); ok {
		return Frame{Image: img, CapturedAt: at}, true
	}
	return Frame{}, false
}

// Shown is the frame most recently handed to the display sink.
func (f *Feed) Shown() (Frame, bool) {
	fr := f.shown.Load()
	if fr == nil {
		return Frame{}, false
	}
	return *fr, true
}

// Run drives the source, captures at fps and hands the delayed frame to
// sink at fps, until ctx is done.
func (f *Feed) Run(ctx context.Context, sink func(Frame)) error {
	interval := time.Second / time.Duration(f.fps)
	f.logger.InfoContext(ctx, "video feed starting",
		xslog.Interval(interval),
		slog.Duration("delay", f.delay),
		slog.Int("capacity", f.ring.Cap()),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return f.src.Run(gctx) })
	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				f.Capture(f.now())
			}
		}
	})
	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				fr, ok := f.Delayed(f.now())
				if !ok {
					continue
				}
				if prev := f.shown.Load(); prev != nil && prev.CapturedAt.Equal(fr.CapturedAt) {
					continue
				}
				f.shown.Store(&fr)
				if sink != nil {
					sink(fr)
				}
			}
		}
	})
	return g.Wait()
}
