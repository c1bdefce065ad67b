package main

import (
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		days   int
		audit  bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "history <entity-id>",
		Short: "Show the score trend of a recorded entity",
		Long:  "Compares the earliest and latest recorded snapshots in the window. Requires an initialized workspace.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			return withDeps(cmd.Context(), func(deps *Deps) error {
				result, err := deps.HistoryHandler.Handle(cmd.Context(), args[0], days, audit)
				if err != nil {
					return err
				}
				if format == "json" {
					return formatJSON(cmd.OutOrStdout(), result)
				}
				writeTrend(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", DefaultHistoryDays, "Number of days to look back")
	cmd.Flags().BoolVar(&audit, "audit", false, "Include the audit log")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")

	return cmd
}
