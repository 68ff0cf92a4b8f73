package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/ham/internal/client/ham"
	"github.com/garrettladley/ham/internal/config"
	"github.com/garrettladley/ham/internal/delay"
	appenv "github.com/garrettladley/ham/internal/env"
	"github.com/garrettladley/ham/internal/feed"
	"github.com/garrettladley/ham/internal/mock"
	"github.com/garrettladley/ham/internal/poller"
	"github.com/garrettladley/ham/internal/telemetry"
	"github.com/garrettladley/ham/internal/trail"
	"github.com/garrettladley/ham/internal/xslog"
)

var epoch = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func TestWriteDaily(t *testing.T) {
	t.Parallel()

	recent := &ham.RecentMovements{RecentMovements: []ham.Movement{
		{X: 12.5, Y: 3, Timestamp: ham.Timestamp{Time: epoch}},
	}}
	row := epoch.Local().Format(time.DateTime) + " | 12.50 | 3.00"

	tests := []struct {
		name      string
		daily     *ham.DailyMovement
		dailyErr  error
		recent    *ham.RecentMovements
		recentErr error
		want      []string
	}{
		{
			name:   "loaded",
			daily:  &ham.DailyMovement{TotalMovement: 12.345},
			recent: recent,
			want:   []string{"Today's movement: 12.35m", "time | X | Y", row},
		},
		{
			name:     "daily failed",
			dailyErr: errors.New("boom"),
			recent:   &ham.RecentMovements{},
			want:     []string{"Today's movement: load failed", "no recent movements"},
		},
		{
			name:      "recent failed",
			daily:     &ham.DailyMovement{TotalMovement: 0},
			recentErr: errors.New("boom"),
			want:      []string{"Today's movement: 0.00m", "load failed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			writeDaily(&buf, tt.daily, tt.dailyErr, tt.recent, tt.recentErr)
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestToRecord(t *testing.T) {
	t.Parallel()

	snap := &telemetry.Snapshot{TotalDistanceMeters: 4, AvgDistancePast7DaysMeters: 8}
	mv := telemetry.NewMovements([]telemetry.Point{
		{X: 1, Y: 1, Timestamp: epoch.Add(-time.Second)},
		{X: 2, Y: 2, Timestamp: epoch},
	}, 10)

	got := toRecord(poller.Update{
		PollID: "p1",
		At:     epoch,
		State:  poller.State{Snapshot: snap, Movements: mv, Err: errors.New("timeout")},
	}, telemetry.OldestFirst)

	if !got.Loaded || !got.Stale || got.Error != "timeout" {
		t.Errorf("record flags = loaded %v stale %v error %q", got.Loaded, got.Stale, got.Error)
	}
	if len(got.Cards) != 4 {
		t.Fatalf("cards = %d, want 4", len(got.Cards))
	}
	if diff := cmp.Diff(cardRecord{Label: "Tracking", Current: "4.00m", Standard: "8.00m", Percentage: 50, Band: "mid"}, got.Cards[0]); diff != "" {
		t.Errorf("tracking card mismatch (-want +got):\n%s", diff)
	}
	wantPoints := []pointRecord{
		{X: 1, Y: 1, Timestamp: epoch.Add(-time.Second)},
		{X: 2, Y: 2, Timestamp: epoch},
	}
	if diff := cmp.Diff(wantPoints, got.Movements); diff != "" {
		t.Errorf("movements mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(got.Recommendation, "exercise is recommended") {
		t.Errorf("recommendation = %q", got.Recommendation)
	}

	empty := toRecord(poller.Update{PollID: "p0", State: poller.State{Err: errors.New("down")}}, telemetry.OldestFirst)
	if empty.Loaded || empty.Cards != nil || empty.Movements == nil {
		t.Errorf("unloaded record = %+v", empty)
	}
}

func TestTrailParams(t *testing.T) {
	t.Parallel()

	got := trailParams(config.Trail{
		Mode:         config.TrailModeAge,
		Base:         10,
		Growth:       60,
		OpacityFloor: 0.2,
		Scale:        4,
		AgeWindow:    5 * time.Second,
	})
	want := trail.Params{
		Mode:         trail.ModeAge,
		Base:         10,
		Growth:       60,
		OpacityFloor: 0.2,
		AnchorRadius: trail.DefaultParams().AnchorRadius,
		Scale:        4,
		AgeWindow:    5 * time.Second,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("trailParams() mismatch (-want +got):\n%s", diff)
	}

	if trailOrder(config.TrailOrderNewestFirst) != telemetry.NewestFirst || trailOrder(config.TrailOrderOldestFirst) != telemetry.OldestFirst {
		t.Error("trailOrder() mapping is wrong")
	}
}

func TestSendLatest(t *testing.T) {
	t.Parallel()

	ch := make(chan int, 1)
	sendLatest(ch, 1)
	sendLatest(ch, 2)
	sendLatest(ch, 3)
	if got := <-ch; got != 3 {
		t.Errorf("received %d, want the latest value 3", got)
	}
	select {
	case v := <-ch:
		t.Errorf("unexpected extra value %d", v)
	default:
	}
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logger := xslog.Discard()

	memory, err := newStore(ctx, config.Mock{}, logger)
	if err != nil {
		t.Fatalf("newStore() error = %v", err)
	}
	if _, ok := memory.(*mock.MemoryStore); !ok {
		t.Errorf("newStore() without redis = %T, want *mock.MemoryStore", memory)
	}

	mr := miniredis.RunT(t)
	redisStore, err := newStore(ctx, config.Mock{RedisURL: "redis://" + mr.Addr()}, logger)
	if err != nil {
		t.Fatalf("newStore() with redis error = %v", err)
	}
	defer redisStore.Close()
	if _, ok := redisStore.(*mock.RedisStore); !ok {
		t.Errorf("newStore() with redis = %T, want *mock.RedisStore", redisStore)
	}
	if err := redisStore.Ping(ctx); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	if _, err := newStore(ctx, config.Mock{RedisURL: "redis://127.0.0.1:1"}, logger); err == nil {
		t.Error("newStore() with unreachable redis should fail")
	}
}

func TestWriteCards(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	writeCards(&buf, &telemetry.Snapshot{TotalDistanceMeters: 12.345, AvgDistancePast7DaysMeters: 8})
	for _, want := range []string{
		"📍 Tracking: 12.35m",
		"Standard: 8.00m",
		"100.0% of standard (8.00m)",
		"Compared with the standard (8.00m), today's tracking (12.35m) is higher, so rest is recommended.",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  appenv.Environment
		raw  string
		want xslog.Level
	}{
		{name: "development default", env: appenv.Development, want: xslog.LevelDebug},
		{name: "production default", env: appenv.Production, want: xslog.LevelInfo},
		{name: "explicit wins", env: appenv.Development, raw: "warn", want: xslog.LevelWarn},
		{name: "invalid falls back", env: appenv.Production, raw: "loud", want: xslog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := logLevel(tt.env, tt.raw); got != tt.want {
				t.Errorf("logLevel(%q, %q) = %q, want %q", tt.env, tt.raw, got, tt.want)
			}
		})
	}
}

func TestNewSource(t *testing.T) {
	t.Parallel()

	logger := xslog.Discard()
	if src := newSource(config.Feed{}, logger); src != nil {
		t.Errorf("newSource(disabled) = %T, want nil", src)
	}
	if _, ok := newSource(config.Feed{Synthetic: true}, logger).(*feed.Synthetic); !ok {
		t.Error("newSource(synthetic) did not return a synthetic source")
	}
	if _, ok := newSource(config.Feed{StreamURL: "http://127.0.0.1:1/video_feed"}, logger).(*feed.MJPEG); !ok {
		t.Error("newSource(stream url) did not return an MJPEG source")
	}
}

func TestGateCapacityKeepsDelay(t *testing.T) {
	t.Parallel()

	const (
		trailDelay   = 10 * time.Second
		pollInterval = 4 * time.Second
	)
	t0 := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	if got := gateCapacity(trailDelay, pollInterval); got != 4 {
		t.Errorf("gateCapacity() = %d, want 4", got)
	}

	gate := delay.NewGate(trailDelay, -1, delay.WithCapacity(gateCapacity(trailDelay, pollInterval)))
	for i := range 4 {
		gate.Set(t0.Add(time.Duration(i)*pollInterval), i)
	}

	tests := []struct {
		at   time.Duration
		want int
	}{
		{at: 9 * time.Second, want: -1},
		{at: 10 * time.Second, want: 0},
		{at: 13 * time.Second, want: 0},
		{at: 14 * time.Second, want: 1},
		{at: 22 * time.Second, want: 3},
	}
	for _, tt := range tests {
		if got := gate.Visible(t0.Add(tt.at)); got != tt.want {
			t.Errorf("Visible(t0+%s) = %d, want %d", tt.at, got, tt.want)
		}
	}
}
