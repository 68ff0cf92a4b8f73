package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/ham/internal/client/ham"
	"github.com/garrettladley/ham/internal/config"
	"github.com/garrettladley/ham/internal/telemetry"
	"github.com/garrettladley/ham/internal/xslog"
)

const (
	dailyLoadFailed  = "load failed"
	dailyNoMovements = "no recent movements"
)

func dailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Show today's distance and the recent movements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Read()
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			logger := newLogger(os.Stderr, cfg.Env)
			ctx := cmd.Context()
			client := newClient(cfg, logger)

			daily, dailyErr := client.Tracking.Daily(ctx)
			if dailyErr != nil {
				logger.WarnContext(ctx, "failed to load daily movement", xslog.Error(dailyErr))
			}
			recent, recentErr := client.Movements.Recent(ctx, true)
			if recentErr != nil {
				logger.WarnContext(ctx, "failed to load recent movements", xslog.Error(recentErr))
			}

			writeDaily(cmd.OutOrStdout(), daily, dailyErr, recent, recentErr)
			return nil
		},
	}
}

func writeDaily(w io.Writer, daily *ham.DailyMovement, dailyErr error, recent *ham.RecentMovements, recentErr error) {
	total := dailyLoadFailed
	if dailyErr == nil && daily != nil {
		total = telemetry.FormatMeters(daily.TotalMovement.Float64())
	}
	_, _ = fmt.Fprintf(w, "Today's movement: %s\n\n", total)

	switch {
	case recentErr != nil || recent == nil:
		_, _ = fmt.Fprintln(w, dailyLoadFailed)
	case len(recent.RecentMovements) == 0:
		_, _ = fmt.Fprintln(w, dailyNoMovements)
	default:
		_, _ = fmt.Fprintln(w, "time | X | Y")
		for _, m := range recent.RecentMovements {
			_, _ = fmt.Fprintf(w, "%s | %.2f | %.2f\n",
				m.Timestamp.Local().Format(time.DateTime), m.X.Float64(), m.Y.Float64())
		}
	}
}
