package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/trust-core/internal/infrastructure/parsers"
)

func newSimilarCmd() *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "similar <bundle.json>",
		Short: "Find entities with similar trust profiles",
		Long:  "Scores the entity and searches the Qdrant profile index for the nearest six-dimension profiles.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			bundle, err := parsers.LoadBundle(args[0], "")
			if err != nil {
				return fmt.Errorf("loading bundle: %w", err)
			}

			return withDeps(cmd.Context(), func(deps *Deps) error {
				result, err := deps.SimilarHandler.Handle(cmd.Context(), bundle, limit)
				if err != nil {
					return err
				}
				if format == "json" {
					return formatJSON(cmd.OutOrStdout(), result)
				}
				writeSimilar(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultSimilarLimit, "Maximum number of results")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")

	return cmd
}
