package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/garrettladley/ham/internal/version"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "ham",
		Short:   "H.A.M: your hamster's day in the terminal",
		Version: version.Get(),
		RunE:    runDashboard,
	}

	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(pollCmd())
	rootCmd.AddCommand(snapshotCmd())
	rootCmd.AddCommand(dailyCmd())
	addDevCommands(rootCmd)

	if err := fang.Execute(context.Background(), rootCmd, fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}
