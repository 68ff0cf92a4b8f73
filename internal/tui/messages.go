package tui

import (
	"time"

	"github.com/garrettladley/ham/internal/feed"
	"github.com/garrettladley/ham/internal/poller"
	"github.com/garrettladley/ham/internal/telemetry"
)

const (
	splashDuration = 1500 * time.Millisecond
	clockInterval  = time.Second
)

type SplashTickMsg struct{}

// ClockTickMsg redraws age-based trails as points grow older.
type ClockTickMsg time.Time

type PollMsg struct {
	poller.Update
}

type AdviceMsg struct {
	poller.AdviceUpdate
}

// TrailMsg carries the movements the delay gate has released.
type TrailMsg struct {
	Movements telemetry.Movements
}

type FrameMsg struct {
	feed.Frame
}

// StreamClosedMsg reports that a producer channel closed or the dashboard
// context ended.
type StreamClosedMsg struct {
	Stream string
}
