package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/ham/internal/client/ham"
	"github.com/garrettladley/ham/internal/config"
	"github.com/garrettladley/ham/internal/telemetry"
	"github.com/garrettladley/ham/internal/xslog"
)

var epoch = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeBackend struct {
	mu        sync.Mutex
	fail      error
	distance  float64
	firsts    []bool
	movements func(first bool) []ham.Movement
	calls     atomic.Int32
}

func (f *fakeBackend) setFail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = err
}

func (f *fakeBackend) err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fail
}

func (f *fakeBackend) Get(ctx context.Context) (*ham.TrackingInfo, error) {
	f.calls.Add(1)
	if err := f.err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &ham.TrackingInfo{TotalMovementToday: ham.Number(f.distance), AvgMovementPast7Days: 8}, nil
}

func (f *fakeBackend) Daily(ctx context.Context) (*ham.DailyMovement, error) {
	return &ham.DailyMovement{}, nil
}

func (f *fakeBackend) Recent(ctx context.Context, first bool) (*ham.RecentMovements, error) {
	f.mu.Lock()
	f.firsts = append(f.firsts, first)
	gen := f.movements
	f.mu.Unlock()
	if gen == nil {
		return &ham.RecentMovements{}, nil
	}
	return &ham.RecentMovements{RecentMovements: gen(first)}, nil
}

type constDiet struct{}

func (constDiet) Get(context.Context) (*ham.DietInfo, error) {
	return &ham.DietInfo{TotalDiet: 40, PrevAvgDiet: 30}, nil
}

type constWater struct{}

func (constWater) Get(context.Context) (*ham.WaterInfo, error) {
	return &ham.WaterInfo{TotalWater: 12, PrevAvgWater: 10}, nil
}

type constSleep struct{}

func (constSleep) Get(context.Context) (*ham.SleepInfo, error) {
	return &ham.SleepInfo{TotalSleep: 27000, PrevAvgSleep: 28800}, nil
}

func movementAt(sec int) ham.Movement {
	return ham.Movement{
		X:         ham.Number(sec),
		Y:         ham.Number(sec),
		Timestamp: ham.Timestamp{Time: epoch.Add(time.Duration(sec) * time.Second)},
	}
}

func newTestPoller(f *fakeBackend, opts ...Option) *Poller {
	src := Source{
		Tracking:  f,
		Movements: f,
		Diet:      constDiet{},
		Water:     constWater{},
		Sleep:     constSleep{},
	}
	opts = append([]Option{WithLogger(xslog.Discard())}, opts...)
	return New(src, opts...)
}

func TestPollSuccess(t *testing.T) {
	t.Parallel()

	f := &fakeBackend{
		distance: 12.345,
		movements: func(bool) []ham.Movement {
			return []ham.Movement{movementAt(2), movementAt(0), movementAt(1)}
		},
	}
	p := newTestPoller(f)

	u := p.Poll(context.Background())
	if u.Err != nil {
		t.Fatalf("Poll() error = %v", u.Err)
	}
	if u.PollID == "" || u.Snapshot.ID != u.PollID {
		t.Errorf("PollID = %q, Snapshot.ID = %q", u.PollID, u.Snapshot.ID)
	}

	want := telemetry.Snapshot{
		TotalDistanceMeters:        12.345,
		AvgDistancePast7DaysMeters: 8,
		TotalDietMinutes:           40,
		AvgDietMinutes:             30,
		TotalWaterMinutes:          12,
		AvgWaterMinutes:            10,
		TotalSleepSeconds:          27000,
		AvgSleepSeconds:            28800,
	}
	got := *u.Snapshot
	got.ID, got.FetchedAt = "", time.Time{}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Snapshot mismatch (-want +got):\n%s", diff)
	}

	oldest := u.Movements.Points(telemetry.OldestFirst)
	if len(oldest) != 3 || oldest[0].X != 0 || oldest[2].X != 2 {
		t.Errorf("movements not sorted by time: %+v", oldest)
	}

	if diff := cmp.Diff(u.Snapshot, p.State().Snapshot); diff != "" {
		t.Errorf("State() not swapped (-want +got):\n%s", diff)
	}
}

func TestPollFailureKeepsLastGood(t *testing.T) {
	t.Parallel()

	f := &fakeBackend{
		distance: 5,
		movements: func(bool) []ham.Movement {
			return []ham.Movement{movementAt(0)}
		},
	}
	p := newTestPoller(f)

	good := p.Poll(context.Background())
	if good.Err != nil {
		t.Fatalf("first Poll() error = %v", good.Err)
	}

	sentinel := errors.New("backend down")
	f.setFail(sentinel)
	bad := p.Poll(context.Background())
	if !errors.Is(bad.Err, sentinel) {
		t.Fatalf("Poll() error = %v, want %v", bad.Err, sentinel)
	}
	if bad.Snapshot != good.Snapshot {
		t.Error("failed poll replaced the snapshot")
	}
	if bad.Movements.Len() != good.Movements.Len() {
		t.Error("failed poll replaced the movements")
	}
	if !bad.Stale() || !p.State().Stale() {
		t.Error("state after failed poll should be stale")
	}

	f.setFail(nil)
	if recovered := p.Poll(context.Background()); recovered.Err != nil || recovered.Stale() {
		t.Errorf("recovered Poll() = %+v", recovered.State)
	}
}

func TestPollFailureBeforeFirstSuccess(t *testing.T) {
	t.Parallel()

	f := &fakeBackend{fail: errors.New("dns")}
	p := newTestPoller(f)

	u := p.Poll(context.Background())
	if u.Err == nil {
		t.Fatal("Poll() error = nil, want error")
	}
	if u.Loaded() || u.Stale() {
		t.Errorf("state = %+v, want not loaded", u.State)
	}
}

func TestPollIncremental(t *testing.T) {
	t.Parallel()

	var next atomic.Int32
	next.Store(10)
	f := &fakeBackend{
		distance: 1,
		movements: func(first bool) []ham.Movement {
			if first {
				out := make([]ham.Movement, 10)
				for i := range out {
					out[i] = movementAt(i)
				}
				return out
			}
			return []ham.Movement{movementAt(int(next.Load()))}
		},
	}
	p := newTestPoller(f, WithMode(config.MovementModeIncremental), WithCapacity(10))

	p.Poll(context.Background())
	u := p.Poll(context.Background())
	if u.Movements.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", u.Movements.Len())
	}
	newest := u.Movements.Points(telemetry.NewestFirst)
	if newest[0].X != 10 || newest[9].X != 1 {
		t.Errorf("buffer = [%v .. %v], want [10 .. 1]", newest[0].X, newest[9].X)
	}

	// same point again is not pushed twice
	u = p.Poll(context.Background())
	if got := u.Movements.Points(telemetry.NewestFirst); got[1].X != 9 {
		t.Errorf("repeated point was pushed: %+v", got[:2])
	}

	f.mu.Lock()
	firsts := append([]bool(nil), f.firsts...)
	f.mu.Unlock()
	if diff := cmp.Diff([]bool{true, false, false}, firsts); diff != "" {
		t.Errorf("isfirst flags mismatch (-want +got):\n%s", diff)
	}
}

func TestPollFullModeAlwaysReplaces(t *testing.T) {
	t.Parallel()

	f := &fakeBackend{
		movements: func(bool) []ham.Movement {
			return []ham.Movement{movementAt(0)}
		},
	}
	p := newTestPoller(f)
	p.Poll(context.Background())
	p.Poll(context.Background())

	f.mu.Lock()
	defer f.mu.Unlock()
	if diff := cmp.Diff([]bool{true, true}, f.firsts); diff != "" {
		t.Errorf("isfirst flags mismatch (-want +got):\n%s", diff)
	}
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	f := &fakeBackend{distance: 3}
	p := newTestPoller(f)

	ch, unsubscribe := p.Subscribe()
	p.Poll(context.Background())
	p.Poll(context.Background())

	// only the latest update is kept for a slow reader
	u := <-ch
	if u.Snapshot == nil || u.Snapshot.ID != p.State().Snapshot.ID {
		t.Errorf("received update %q, want latest %q", u.PollID, p.State().Snapshot.ID)
	}

	unsubscribe()
	unsubscribe()
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
	if n := p.subs.len(); n != 0 {
		t.Errorf("subscribers = %d, want 0", n)
	}
}

type slowTracking struct {
	*fakeBackend
	inflight atomic.Int32
	peak     atomic.Int32
}

func (s *slowTracking) Get(ctx context.Context) (*ham.TrackingInfo, error) {
	n := s.inflight.Add(1)
	defer s.inflight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	return s.fakeBackend.Get(ctx)
}

func TestPollSerialized(t *testing.T) {
	t.Parallel()

	f := &fakeBackend{distance: 1}
	slow := &slowTracking{fakeBackend: f}
	p := New(Source{
		Tracking:  slow,
		Movements: f,
		Diet:      constDiet{},
		Water:     constWater{},
		Sleep:     constSleep{},
	}, WithLogger(xslog.Discard()))

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Poll(context.Background())
		}()
	}
	wg.Wait()

	if got := slow.peak.Load(); got != 1 {
		t.Errorf("peak concurrent batches = %d, want 1", got)
	}
	if got := f.calls.Load(); got != 4 {
		t.Errorf("tracking calls = %d, want 4", got)
	}
}

func TestPollCancelledIsQuiet(t *testing.T) {
	t.Parallel()

	f := &fakeBackend{distance: 3}
	p := newTestPoller(f)
	if u := p.Poll(context.Background()); u.Err != nil {
		t.Fatalf("first Poll() error = %v", u.Err)
	}

	ch, unsubscribe := p.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.setFail(context.Canceled)

	u := p.Poll(ctx)
	if !errors.Is(u.Err, context.Canceled) {
		t.Errorf("Poll() error = %v, want context.Canceled", u.Err)
	}
	if !u.Loaded() {
		t.Error("cancelled poll dropped the last good snapshot")
	}

	select {
	case got := <-ch:
		t.Errorf("cancelled poll published %+v", got)
	default:
	}
	if st := p.State(); st.Err != nil {
		t.Errorf("State().Err = %v, want nil after cancelled poll", st.Err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	f := &fakeBackend{distance: 1}
	p := newTestPoller(f, WithInterval(5*time.Millisecond))
	ch, unsubscribe := p.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	for range 3 {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for poll")
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	calls := f.calls.Load()
	time.Sleep(20 * time.Millisecond)
	if f.calls.Load() != calls {
		t.Error("poller kept polling after Run returned")
	}
}

type adviceFunc func(context.Context) (*ham.Advice, error)

func (f adviceFunc) Get(ctx context.Context) (*ham.Advice, error) { return f(ctx) }

func TestAdvicePoller(t *testing.T) {
	t.Parallel()

	svc := adviceFunc(func(context.Context) (*ham.Advice, error) {
		return &ham.Advice{Advice: "let it sleep"}, nil
	})

	t.Run("loading then advice", func(t *testing.T) {
		t.Parallel()
		a := NewAdvicePoller(svc, WithAdviceLogger(xslog.Discard()))
		if got := a.Text(); got != AdviceLoading {
			t.Errorf("Text() before fetch = %q, want %q", got, AdviceLoading)
		}
		if u := a.Fetch(context.Background()); u.Err != nil || u.Text != "let it sleep" {
			t.Errorf("Fetch() = %+v", u)
		}
	})

	t.Run("first failure is unavailable", func(t *testing.T) {
		t.Parallel()
		a := NewAdvicePoller(adviceFunc(func(context.Context) (*ham.Advice, error) {
			return nil, errors.New("down")
		}), WithAdviceLogger(xslog.Discard()))
		u := a.Fetch(context.Background())
		if u.Err == nil || u.Text != AdviceUnavailable || a.Text() != AdviceUnavailable {
			t.Errorf("Fetch() = %+v, Text() = %q", u, a.Text())
		}
	})

	t.Run("failure after success keeps advice", func(t *testing.T) {
		t.Parallel()
		var n atomic.Int32
		a := NewAdvicePoller(adviceFunc(func(context.Context) (*ham.Advice, error) {
			if n.Add(1) > 1 {
				return nil, errors.New("down")
			}
			return &ham.Advice{Advice: "more seeds"}, nil
		}), WithAdviceLogger(xslog.Discard()))
		a.Fetch(context.Background())
		u := a.Fetch(context.Background())
		if u.Err == nil || u.Text != "more seeds" {
			t.Errorf("Fetch() = %+v, want stale advice", u)
		}
	})
}

func TestAdviceRunOnce(t *testing.T) {
	t.Parallel()

	var n atomic.Int32
	a := NewAdvicePoller(adviceFunc(func(context.Context) (*ham.Advice, error) {
		n.Add(1)
		return &ham.Advice{Advice: "ok"}, nil
	}), WithAdviceLogger(xslog.Discard()))

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n.Load() != 1 {
		t.Errorf("fetches = %d, want 1", n.Load())
	}
}
