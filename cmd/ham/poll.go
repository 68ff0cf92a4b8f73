package main

import (
	"context"
	"fmt"
	"os"

	go_json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/ham/internal/config"
)

func pollCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Poll the backend without the dashboard",
		Long:  "Runs the telemetry poller and prints every update as a JSON line. Logs go to stderr.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			logger := newLogger(os.Stderr, cfg.Env)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			telemetryPoller := newPoller(cfg, newClient(cfg, logger), logger)
			updates, unsubscribe := telemetryPoller.Subscribe()
			defer unsubscribe()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return telemetryPoller.Run(gctx) })

			enc := go_json.NewEncoder(cmd.OutOrStdout())
			order := trailOrder(cfg.Trail.Order)
			for seen := 0; count <= 0 || seen < count; seen++ {
				select {
				case <-gctx.Done():
					return g.Wait()
				case u := <-updates:
					if err := enc.Encode(toRecord(u, order)); err != nil {
						cancel()
						_ = g.Wait()
						return fmt.Errorf("failed to write update: %w", err)
					}
				}
			}

			cancel()
			return g.Wait()
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "stop after n updates (0 runs until interrupted)")
	return cmd
}
