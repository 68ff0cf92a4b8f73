package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/ham/internal/client/ham"
	"github.com/garrettladley/ham/internal/config"
	"github.com/garrettladley/ham/internal/telemetry"
	"github.com/garrettladley/ham/internal/xslog"
)

const DefaultInterval = 10 * time.Second

// Source is the set of backend endpoints one poll reads.
type Source struct {
	Tracking  ham.TrackingService
	Movements ham.MovementService
	Diet      ham.DietService
	Water     ham.WaterService
	Sleep     ham.SleepService
}

func NewSource(c *ham.Client) Source {
	return Source{
		Tracking:  c.Tracking,
		Movements: c.Movements,
		Diet:      c.Diet,
		Water:     c.Water,
		Sleep:     c.Sleep,
	}
}

// State is the dashboard view model. Snapshot is nil until the first
// successful poll.
type State struct {
	Snapshot  *telemetry.Snapshot
	Movements telemetry.Movements
	// Err is the error of the most recent poll, nil if it succeeded.
	Err error
}

func (s State) Loaded() bool { return s.Snapshot != nil }

// Stale reports whether the displayed data predates a failed poll.
func (s State) Stale() bool { return s.Snapshot != nil && s.Err != nil }

// Update is published after every poll, successful or not. On failure it
// carries the previous good data alongside Err.
type Update struct {
	PollID string
	At     time.Time
	State
}

type Poller struct {
	src      Source
	interval time.Duration
	mode     config.MovementMode
	capacity int
	logger   *slog.Logger
	now      func() time.Time

	inflight sync.Mutex
	state    atomic.Pointer[State]
	subs     broadcaster[Update]
}

type Option func(*Poller)

func WithInterval(d time.Duration) Option {
	return func(p *Poller) { p.interval = d }
}

func WithMode(mode config.MovementMode) Option {
	return func(p *Poller) { p.mode = mode }
}

func WithCapacity(n int) Option {
	return func(p *Poller) { p.capacity = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Poller) { p.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(p *Poller) { p.now = now }
}

func New(src Source, opts ...Option) *Poller {
	p := &Poller{
		src:      src,
		interval: DefaultInterval,
		mode:     config.MovementModeFull,
		capacity: telemetry.DefaultCapacity,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.state.Store(&State{Movements: telemetry.NewMovements(nil, p.capacity)})
	return p
}

// State returns the current view model.
func (p *Poller) State() State {
	return *p.state.Load()
}

// Subscribe registers for updates. The returned func unsubscribes and
// closes the channel.
func (p *Poller) Subscribe() (<-chan Update, func()) {
	return p.subs.subscribe()
}

type batch struct {
	tracking  *ham.TrackingInfo
	movements *ham.RecentMovements
	diet      *ham.DietInfo
	water     *ham.WaterInfo
	sleep     *ham.SleepInfo
}

func (p *Poller) fetch(ctx context.Context, first bool) (batch, error) {
	var b batch
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if b.tracking, err = p.src.Tracking.Get(gctx); err != nil {
			return fmt.Errorf("tracking: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if b.movements, err = p.src.Movements.Recent(gctx, first); err != nil {
			return fmt.Errorf("recent movements: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if b.diet, err = p.src.Diet.Get(gctx); err != nil {
			return fmt.Errorf("diet: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if b.water, err = p.src.Water.Get(gctx); err != nil {
			return fmt.Errorf("water: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if b.sleep, err = p.src.Sleep.Get(gctx); err != nil {
			return fmt.Errorf("sleep: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return batch{}, err
	}
	return b, nil
}

// Poll runs one batch and publishes the result. A failed batch keeps the
// previous snapshot and movements and sets Update.Err. A batch cut short by
// ctx is neither logged nor published. Concurrent calls are serialized.
func (p *Poller) Poll(ctx context.Context) Update {
	p.inflight.Lock()
	defer p.inflight.Unlock()

	id := uuid.NewString()
	logger := p.logger.With(xslog.PollID(id))
	prev := p.State()
	first := p.mode == config.MovementModeFull || prev.Snapshot == nil

	start := p.now()
	b, err := p.fetch(ctx, first)
	if err != nil && ctx.Err() != nil {
		// shutting down: not a backend failure, nothing to publish
		next := prev
		next.Err = ctx.Err()
		return Update{PollID: id, At: p.now(), State: next}
	}
	if err != nil {
		logger.ErrorContext(ctx, "poll failed",
			xslog.Error(err),
			xslog.Stale(prev.Loaded()),
			xslog.Duration(p.now().Sub(start)),
		)
		next := prev
		next.Err = err
		return p.commit(id, next)
	}

	snap := &telemetry.Snapshot{
		ID:                         id,
		FetchedAt:                  p.now(),
		TotalDistanceMeters:        b.tracking.TotalMovementToday.Float64(),
		AvgDistancePast7DaysMeters: b.tracking.AvgMovementPast7Days.Float64(),
		TotalDietMinutes:           b.diet.TotalDiet.Float64(),
		AvgDietMinutes:             b.diet.PrevAvgDiet.Float64(),
		TotalWaterMinutes:          b.water.TotalWater.Float64(),
		AvgWaterMinutes:            b.water.PrevAvgWater.Float64(),
		TotalSleepSeconds:          b.sleep.TotalSleep.Float64(),
		AvgSleepSeconds:            b.sleep.PrevAvgSleep.Float64(),
	}

	points := toPoints(b.movements.RecentMovements)
	var movements telemetry.Movements
	if first {
		movements = telemetry.NewMovements(points, p.capacity)
	} else {
		movements = prev.Movements.PushAll(points)
	}

	logger.InfoContext(ctx, "poll succeeded",
		xslog.Mode(string(p.mode)),
		xslog.SnapshotGroup(
			snap.TotalDistanceMeters,
			snap.TotalDietMinutes,
			snap.TotalWaterMinutes,
			snap.TotalSleepSeconds,
			movements.Len(),
		),
		xslog.Duration(p.now().Sub(start)),
	)
	return p.commit(id, State{Snapshot: snap, Movements: movements})
}

func (p *Poller) commit(id string, next State) Update {
	p.state.Store(&next)
	u := Update{PollID: id, At: p.now(), State: next}
	p.subs.publish(u)
	return u
}

func toPoints(ms []ham.Movement) []telemetry.Point {
	points := make([]telemetry.Point, 0, len(ms))
	for _, m := range ms {
		p := telemetry.Point{
			X:         m.X.Float64(),
			Y:         m.Y.Float64(),
			Timestamp: m.Timestamp.Time,
		}
		if m.EatingDuration != nil {
			v := m.EatingDuration.Float64()
			p.EatingDuration = &v
		}
		if m.DrinkingDuration != nil {
			v := m.DrinkingDuration.Float64()
			p.DrinkingDuration = &v
		}
		points = append(points, p)
	}
	return points
}

// Run polls immediately and then on every interval until ctx is done. A
// tick that lands while a batch is in flight is dropped.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.InfoContext(ctx, "poller starting",
		xslog.Interval(p.interval),
		xslog.Mode(string(p.mode)),
	)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		// a tick buffered during the last batch is stale
		select {
		case <-ticker.C:
			p.logger.DebugContext(ctx, "skipped tick during in-flight poll")
		default:
		}

		select {
		case <-ctx.Done():
			p.logger.InfoContext(ctx, "poller stopped")
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}
