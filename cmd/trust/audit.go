package main

import (
	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "audit <action>",
		Short: "List audit log entries of one action",
		Long:  "Lists entries such as snapshot_recorded, profile_indexed or profile_removed across all entities. Requires an initialized workspace.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			return withDeps(cmd.Context(), func(deps *Deps) error {
				entries, err := deps.HistoryHandler.Audit(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}
				if format == "json" {
					return formatJSON(cmd.OutOrStdout(), entries)
				}
				writeAudit(cmd.OutOrStdout(), args[0], entries)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultAuditLimit, "Maximum number of entries")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")

	return cmd
}
