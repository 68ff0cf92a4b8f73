package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/garrettladley/ham/internal/feed"
	"github.com/garrettladley/ham/internal/poller"
	"github.com/garrettladley/ham/internal/telemetry"
	"github.com/garrettladley/ham/internal/trail"
)

// Deps are the running producers the dashboard listens to. Nil channels
// are never read.
type Deps struct {
	Ctx    context.Context
	Logger *slog.Logger

	Updates <-chan poller.Update
	Advice  <-chan poller.AdviceUpdate
	Trail   <-chan telemetry.Movements
	Frames  <-chan feed.Frame

	// Feed is nil when no video source is configured.
	Feed   *feed.Feed
	Params trail.Params
	Order  telemetry.Order
	Width  int
	Height int
	Now    func() time.Time
}
