package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/trust-core/internal/infrastructure/parsers"
)

func newReplayCmd() *cobra.Command {
	var (
		events string
		format string
	)

	cmd := &cobra.Command{
		Use:   "replay <bundle.json>",
		Short: "Show how an entity's score evolved over its events",
		Long:  "Recomputes the score over growing chronological prefixes of the entity's events.",
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
				result, err := deps.ReplayHandler.Handle(cmd.Context(), bundle)
				if err != nil {
					return err
				}
				if format == "json" {
					return formatJSON(cmd.OutOrStdout(), result)
				}
				writeReplay(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&events, "events", "e", "", "Additional events file (json or csv)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")

	return cmd
}
