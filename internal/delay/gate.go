package delay

import (
	"context"
	"sync"
	"time"
)

const DefaultGateCapacity = 64

// Gate exposes each value only once it has aged by the gate's delay.
// Until then readers see the previously visible value.
type Gate[T any] struct {
	delay time.Duration
	ring  *Ring[T]
	now   func() time.Time
	wake  chan struct{}

	mu sync.Mutex
	// floor is shown when no buffered entry is old enough: the initial
	// value, or the last entry evicted by capacity.
	floor T
}

type GateOption func(*gateConfig)

type gateConfig struct {
	capacity int
	now      func() time.Time
}

func WithCapacity(n int) GateOption {
	return func(c *gateConfig) { c.capacity = n }
}

func WithClock(now func() time.Time) GateOption {
	return func(c *gateConfig) { c.now = now }
}

func NewGate[T any](d time.Duration, initial T, opts ...GateOption) *Gate[T] {
	cfg := gateConfig{capacity: DefaultGateCapacity, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if d < 0 {
		d = 0
	}
	return &Gate[T]{
		delay: d,
		ring:  NewRing[T](cfg.capacity),
		now:   cfg.now,
		wake:  make(chan struct{}, 1),
		floor: initial,
	}
}

func (g *Gate[T]) Delay() time.Duration { return g.delay }

// Set records v as the latest value at now.
func (g *Gate[T]) Set(now time.Time, v T) {
	if evicted, ok := g.ring.Push(now, v); ok {
		g.mu.Lock()
		g.floor = evicted
		g.mu.Unlock()
	}
	// entries older than the visible one can never be shown again
	if _, at, ok := g.ring.AtOrBefore(now.Add(-g.delay)); ok {
		g.ring.Prune(at)
	}

	select {
	case g.wake <- struct{}{}:
	default:
	}
}

// Visible returns the newest value set at or before now minus the delay.
func (g *Gate[T]) Visible(now time.Time) T {
	v, _ := g.visible(now)
	return v
}

func (g *Gate[T]) visible(now time.Time) (T, time.Time) {
	if v, at, ok := g.ring.AtOrBefore(now.Add(-g.delay)); ok {
		return v, at
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.floor, time.Time{}
}

// Run calls sink with the visible value each time a pending value comes
// due, until ctx is done. Values that come due together are coalesced
// into one call with the newest.
func (g *Gate[T]) Run(ctx context.Context, sink func(T)) {
	var shown time.Time
	for {
		var due <-chan time.Time
		var timer *time.Timer
		if _, at, ok := g.ring.After(shown); ok {
			wait := at.Add(g.delay).Sub(g.now())
			if wait <= 0 {
				v, visibleAt := g.visible(g.now())
				shown = visibleAt
				if visibleAt.IsZero() {
					// evicted before it was shown
					shown = at
				}
				sink(v)
				continue
			}
			timer = time.NewTimer(wait)
			due = timer.C
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-g.wake:
		case <-due:
		}
		if timer != nil {
			timer.Stop()
		}
	}
}
