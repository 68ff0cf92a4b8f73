package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/ham/internal/config"
	"github.com/garrettladley/ham/internal/feed"
	"github.com/garrettladley/ham/internal/telemetry"
	"github.com/garrettladley/ham/internal/trail"
	"github.com/garrettladley/ham/internal/xslog"
)

func snapshotCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Poll once and save the trail as a PNG",
		Long:  "Fetches one telemetry batch, prints the InfoCards and writes the trail, over a video frame when one is configured, to a PNG file.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			logger := newLogger(os.Stderr, cfg.Env)
			ctx := cmd.Context()

			u := newPoller(cfg, newClient(cfg, logger), logger).Poll(ctx)
			if !u.Loaded() {
				return fmt.Errorf("poll failed: %w", u.Err)
			}

			var background image.Image
			if src := newSource(cfg.Feed, logger); src != nil {
				background = firstFrame(ctx, src, cfg.RequestTimeout, logger)
			}

			raster := trail.NewRaster(trailParams(cfg.Trail), cfg.Trail.Width, cfg.Trail.Height)
			img := raster.Composite(background, u.Movements.Points(trailOrder(cfg.Trail.Order)), time.Now())

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := trail.EncodePNG(f, img); err != nil {
				_ = f.Close()
				return fmt.Errorf("failed to encode png: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			writeCards(cmd.OutOrStdout(), u.Snapshot)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nwrote %s (%d movements)\n", output, u.Movements.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "trail.png", "PNG file to write")
	return cmd
}

// firstFrame runs src until it yields a frame or timeout passes.
func firstFrame(ctx context.Context, src feed.Source, timeout time.Duration, logger *slog.Logger) image.Image {
	if img, ok := src.Latest(); ok {
		return img
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	go func() { _ = src.Run(ctx) }()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.WarnContext(ctx, "no video frame before timeout", xslog.Duration(timeout))
			return nil
		case <-ticker.C:
			if img, ok := src.Latest(); ok {
				return img
			}
		}
	}
}

func writeCards(w io.Writer, s *telemetry.Snapshot) {
	for _, c := range s.Cards() {
		_, _ = fmt.Fprintf(w, "%s\n  Standard: %s\n  %s\n", c.Title(), c.Standard, c.Caption())
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", s.Recommendation())
}
