package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newForgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget <entity-id>",
		Short: "Remove an entity's profile from the similarity index",
		Long:  "Deletes the indexed trust profile of the entity from Qdrant. Recorded history is kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(deps *Deps) error {
				if err := deps.ForgetHandler.Handle(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed profile of %s\n", args[0])
				return nil
			})
		},
	}
}
