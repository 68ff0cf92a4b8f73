package main

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/ham/internal/config"
	"github.com/garrettladley/ham/internal/delay"
	"github.com/garrettladley/ham/internal/feed"
	"github.com/garrettladley/ham/internal/paths"
	"github.com/garrettladley/ham/internal/poller"
	"github.com/garrettladley/ham/internal/telemetry"
	"github.com/garrettladley/ham/internal/tui"
	"github.com/garrettladley/ham/internal/xslog"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"tui"},
		Short:   "Launch the interactive dashboard",
		Long:    "Opens the full-screen dashboard with InfoCards, the movement trail, advice and the video feed.",
		RunE:    runDashboard,
	}
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Read()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	// the terminal belongs to the dashboard, so logs go to a file
	logFile, err := paths.LogWriter()
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := newLogger(logFile, cfg.Env)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client := newClient(cfg, logger)
	telemetryPoller := newPoller(cfg, client, logger)
	advicePoller := newAdvicePoller(cfg, client, logger)

	updates, unsubUpdates := telemetryPoller.Subscribe()
	defer unsubUpdates()
	gateUpdates, unsubGate := telemetryPoller.Subscribe()
	defer unsubGate()
	advice, unsubAdvice := advicePoller.Subscribe()
	defer unsubAdvice()

	gate := delay.NewGate(cfg.Trail.Delay, telemetry.NewMovements(nil, cfg.Movement.Capacity),
		delay.WithCapacity(gateCapacity(cfg.Trail.Delay, cfg.PollInterval)),
	)
	trailCh := make(chan telemetry.Movements, 1)
	frames := make(chan feed.Frame, 1)

	var videoFeed *feed.Feed
	if src := newSource(cfg.Feed, logger); src != nil {
		videoFeed = feed.New(src, cfg.Feed.Delay, cfg.Feed.FPS, feed.WithFeedLogger(logger))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return telemetryPoller.Run(gctx) })
	g.Go(func() error { return advicePoller.Run(gctx) })
	g.Go(func() error {
		feedGate(gctx, gate, gateUpdates)
		return nil
	})
	g.Go(func() error {
		gate.Run(gctx, func(mv telemetry.Movements) { sendLatest(trailCh, mv) })
		return nil
	})
	if videoFeed != nil {
		g.Go(func() error {
			return videoFeed.Run(gctx, func(fr feed.Frame) { sendLatest(frames, fr) })
		})
	}

	model := tui.New(tui.Deps{
		Ctx:     gctx,
		Logger:  logger,
		Updates: updates,
		Advice:  advice,
		Trail:   trailCh,
		Frames:  frames,
		Feed:    videoFeed,
		Params:  trailParams(cfg.Trail),
		Order:   trailOrder(cfg.Trail.Order),
		Width:   cfg.Trail.Width,
		Height:  cfg.Trail.Height,
	})
	program := tea.NewProgram(&model)

	go func() {
		<-gctx.Done()
		program.Quit()
	}()

	_, runErr := program.Run()
	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorContext(ctx, "dashboard worker failed", xslog.Error(err))
	}
	return runErr
}

// feedGate hands every successful poll's movements to the delay gate.
func feedGate(ctx context.Context, gate *delay.Gate[telemetry.Movements], updates <-chan poller.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if u.Err == nil {
				gate.Set(u.At, u.Movements)
			}
		}
	}
}
