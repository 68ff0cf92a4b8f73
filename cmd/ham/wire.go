package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/garrettladley/ham/internal/client/ham"
	"github.com/garrettladley/ham/internal/config"
	"github.com/garrettladley/ham/internal/delay"
	appenv "github.com/garrettladley/ham/internal/env"
	"github.com/garrettladley/ham/internal/feed"
	"github.com/garrettladley/ham/internal/poller"
	"github.com/garrettladley/ham/internal/telemetry"
	"github.com/garrettladley/ham/internal/trail"
	"github.com/garrettladley/ham/internal/xslog"
)

func newLogger(w io.Writer, e appenv.Environment) *slog.Logger {
	logger := xslog.NewLogger(w, logLevel(e, os.Getenv(xslog.EnvKey)))
	slog.SetDefault(logger)
	return logger
}

// logLevel honors an explicit LOG_LEVEL; otherwise development logs at
// debug and production at the default level.
func logLevel(e appenv.Environment, raw string) xslog.Level {
	if level, err := xslog.Parse(raw); err == nil {
		return level
	}
	if e.IsDevelopment() {
		return xslog.LevelDebug
	}
	return xslog.Default
}

func newClient(cfg config.Config, logger *slog.Logger) *ham.Client {
	return ham.New(cfg.BackendURL,
		ham.WithLogger(logger),
		ham.WithTimeout(cfg.RequestTimeout),
		ham.WithSessionID(uuid.NewString()),
	)
}

func newPoller(cfg config.Config, client *ham.Client, logger *slog.Logger) *poller.Poller {
	return poller.New(poller.NewSource(client),
		poller.WithInterval(cfg.PollInterval),
		poller.WithMode(cfg.Movement.Mode),
		poller.WithCapacity(cfg.Movement.Capacity),
		poller.WithLogger(logger),
	)
}

func newAdvicePoller(cfg config.Config, client *ham.Client, logger *slog.Logger) *poller.AdvicePoller {
	return poller.NewAdvicePoller(client.Advice,
		poller.WithAdviceInterval(cfg.AdviceInterval),
		poller.WithAdviceLogger(logger),
	)
}

func trailParams(cfg config.Trail) trail.Params {
	p := trail.DefaultParams()
	p.Mode = trail.Mode(cfg.Mode)
	p.Base = cfg.Base
	p.Growth = cfg.Growth
	p.OpacityFloor = cfg.OpacityFloor
	p.Scale = cfg.Scale
	p.AgeWindow = cfg.AgeWindow
	return p
}

func trailOrder(o config.TrailOrder) telemetry.Order {
	if o == config.TrailOrderNewestFirst {
		return telemetry.NewestFirst
	}
	return telemetry.OldestFirst
}

// newSource returns the configured frame source, or nil when video is off.
func newSource(cfg config.Feed, logger *slog.Logger) feed.Source {
	if !cfg.Enabled() {
		return nil
	}
	if cfg.StreamURL != "" {
		return feed.NewMJPEG(cfg.StreamURL, feed.WithLogger(logger))
	}
	return feed.NewSynthetic(0, 0)
}

// gateCapacity holds every poll that can land within one trail delay, so
// nothing is evicted before it has aged.
func gateCapacity(d, pollInterval time.Duration) int {
	if pollInterval <= 0 {
		return delay.DefaultGateCapacity
	}
	return int(d/pollInterval) + 2
}

// sendLatest replaces whatever is waiting in ch with v.
func sendLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
