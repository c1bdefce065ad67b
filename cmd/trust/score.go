package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/trust-core/internal/application/handlers"
	"github.com/ersonp/trust-core/internal/infrastructure/parsers"
)

type scoreFlags struct {
	events  string
	record  bool
	index   bool
	trigger string
	now     string
	format  string
}

func newScoreCmd() *cobra.Command {
	var flags scoreFlags

	cmd := &cobra.Command{
		Use:   "score <bundle.json>",
		Short: "Compute the trust score of an entity",
		Long:  "Scores the entity in a JSON bundle across six dimensions and optionally records and indexes the result.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.events, "events", "e", "", "Additional events file (json or csv)")
	cmd.Flags().BoolVar(&flags.record, "record", false, "Record the score in the history database")
	cmd.Flags().BoolVar(&flags.index, "index", false, "Index the trust profile for similarity search")
	cmd.Flags().StringVar(&flags.trigger, "trigger", handlers.DefaultTrigger, "Trigger label stored with the snapshot")
	cmd.Flags().StringVar(&flags.now, "now", "", "Reference time (RFC 3339); defaults to the latest event")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "Output format (text, json)")

	return cmd
}

// parseNow parses the --now flag. An empty value yields the zero time.
func parseNow(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	now, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q: %w", value, err)
	}
	return now.UTC(), nil
}

func runScore(cmd *cobra.Command, path string, flags scoreFlags) error {
	if err := checkFormat(flags.format); err != nil {
		return err
	}
	now, err := parseNow(flags.now)
	if err != nil {
		return err
	}

	bundle, err := parsers.LoadBundle(path, flags.events)
	if err != nil {
		return fmt.Errorf("loading bundle: %w", err)
	}

	return withDeps(cmd.Context(), func(deps *Deps) error {
		result, err := deps.ScoreHandler.Handle(cmd.Context(), bundle, handlers.ScoreOptions{
			Record:  flags.record,
			Index:   flags.index,
			Trigger: flags.trigger,
			Now:     now,
		})
		if err != nil {
			return err
		}

		if flags.format == "json" {
			return formatJSON(cmd.OutOrStdout(), result)
		}
		writeScoreResult(cmd.OutOrStdout(), displayName(bundle.Entity), result)
		return nil
	})
}
