// Package main provides the entry point for the trust CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version           = "0.1.0-dev"
	globalLogLevel    string
	globalMetricsFile string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "trust",
		Short:         "Six-dimension trust scoring for people, organizations and agents",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&globalMetricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	rootCmd.AddCommand(
		newInitCmd(),
		newScoreCmd(),
		newAnalyzeCmd(),
		newReplayCmd(),
		newCompareCmd(),
		newHistoryCmd(),
		newSimilarCmd(),
		newAuditCmd(),
		newForgetCmd(),
	)

	return rootCmd
}
