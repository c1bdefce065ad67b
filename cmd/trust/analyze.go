package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/trust-core/internal/infrastructure/parsers"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		events  string
		narrate bool
		format  string
	)

	cmd := &cobra.Command{
		Use:   "analyze <bundle.json>",
		Short: "Score an entity and explain the result",
		Long:  "Derives insights, recurring patterns and per-dimension confidence intervals, optionally summarized by an LLM.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			bundle, err := parsers.LoadBundle(args[0], events)
			if err != nil {
				return fmt.Errorf("loading bundle: %w", err)
			}

			return withDeps(cmd.Context(), func(deps *Deps) error {
				result, err := deps.AnalyzeHandler.Handle(cmd.Context(), bundle, narrate)
				if err != nil {
					return err
				}
				if format == "json" {
					return formatJSON(cmd.OutOrStdout(), result)
				}
				writeAnalysis(cmd.OutOrStdout(), displayName(bundle.Entity), result)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&events, "events", "e", "", "Additional events file (json or csv)")
	cmd.Flags().BoolVar(&narrate, "narrate", false, "Add an LLM-written summary")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")

	return cmd
}
