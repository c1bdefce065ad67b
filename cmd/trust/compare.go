package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/infrastructure/parsers"
)

func newCompareCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "compare <bundle.json>...",
		Short: "Score and rank several entities",
		Long:  "Scores every bundle concurrently and ranks the entities by chitty score, then composite.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			bundles := make([]*entities.Bundle, 0, len(args))
			for _, path := range args {
				bundle, err := parsers.LoadBundle(path, "")
				if err != nil {
					return fmt.Errorf("loading bundle: %w", err)
				}
				bundles = append(bundles, bundle)
			}

			return withDeps(cmd.Context(), func(deps *Deps) error {
				result, err := deps.CompareHandler.Handle(cmd.Context(), bundles)
				if err != nil {
					return err
				}
				if format == "json" {
					return formatJSON(cmd.OutOrStdout(), result)
				}
				writeCompare(cmd.OutOrStdout(), result)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")

	return cmd
}
