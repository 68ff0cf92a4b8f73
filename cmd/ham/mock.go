package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/ham/internal/config"
	"github.com/garrettladley/ham/internal/feed"
	"github.com/garrettladley/ham/internal/mock"
	"github.com/garrettladley/ham/internal/xslog"
)

const (
	streamGracePeriod = 2 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func mockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mock",
		Short: "Serve a simulated hamster backend",
		Long:  "Serves every backend endpoint over a simulated hamster, plus a synthetic MJPEG stream, for local development.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.ReadMock()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			logger := newLogger(os.Stdout, cfg.Env)
			return runMock(cmd.Context(), cfg, logger)
		},
	}
}

func runMock(ctx context.Context, cfg config.Mock, logger *slog.Logger) error {
	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.ErrorContext(ctx, "failed to close store", xslog.Error(err))
		}
	}()

	shutdown := mock.NewShutdownCoordinator(streamGracePeriod)
	opts := []mock.Option{
		mock.WithStore(store),
		mock.WithSimulator(mock.NewSimulator(cfg.Width, cfg.Height, cfg.Seed)),
		mock.WithCapacity(cfg.Capacity),
		mock.WithTick(cfg.Tick),
		mock.WithFailureRate(cfg.FailureRate, cfg.Seed),
		mock.WithRateLimit(cfg.RateLimit.Limit, cfg.RateLimit.Burst),
		mock.WithEnv(cfg.Env),
		mock.WithLogger(logger),
		mock.WithShutdown(shutdown),
	}
	if cfg.Video {
		opts = append(opts, mock.WithFrames(feed.NewSynthetic(0, 0), cfg.FPS))
	}
	srv := mock.NewServer(opts...)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      0, // the video route streams indefinitely
		IdleTimeout:       60 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return shutdown.BaseContext()
		},
	}

	simCtx, stopSim := context.WithCancel(ctx)
	defer stopSim()
	go func() { _ = srv.Run(simCtx) }()

	serveErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting mock backend",
			xslog.Version(),
			xslog.Addr(httpServer.Addr),
			slog.Bool("video", cfg.Video),
			slog.Float64("failure_rate", cfg.FailureRate),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("mock backend failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.InfoContext(ctx, "shutdown signal received, initiating graceful shutdown")
	stopSim()
	shutdown.InitiateShutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down mock backend: %w", err)
	}
	logger.InfoContext(ctx, "mock backend stopped")
	return nil
}

func newStore(ctx context.Context, cfg config.Mock, logger *slog.Logger) (mock.Store, error) {
	if cfg.RedisURL == "" {
		logger.InfoContext(ctx, "using in-memory store")
		return mock.NewMemoryStore(), nil
	}
	client, err := mock.DialRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis store: %w", err)
	}
	logger.InfoContext(ctx, "using redis store")
	return mock.NewRedisStore(client), nil
}
