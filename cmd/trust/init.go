package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/trust-core/internal/application/handlers"
	"github.com/ersonp/trust-core/internal/infrastructure/config"
	"github.com/ersonp/trust-core/internal/infrastructure/historydb/sqlite"
	"github.com/ersonp/trust-core/internal/infrastructure/profiledb/qdrant"
)

func newInitCmd() *cobra.Command {
	var skipQdrant bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a trust workspace",
		Long:  "Creates a .trust directory with default configuration, the history database and the Qdrant profile collection.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, skipQdrant)
		},
	}

	cmd.Flags().BoolVar(&skipQdrant, "skip-qdrant", false, "Do not create the Qdrant profile collection")

	return cmd
}

func runInit(cmd *cobra.Command, skipQdrant bool) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.Exists(cwd) {
		return fmt.Errorf("trust already initialized in %s", cwd)
	}

	// The handler writes the config; stores are built from the defaults it writes.
	cfg := config.Default()

	if err := os.MkdirAll(config.ConfigDir(cwd), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.HistoryDBPath(cwd)})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer store.Close()

	var initHandler *handlers.InitHandler
	if skipQdrant {
		initHandler = handlers.NewInitHandler(store, nil)
	} else {
		qdrantCfg := cfg.Qdrant
		qdrantCfg.Collection = cfg.CollectionName()
		index, err := qdrant.NewRepository(qdrantCfg)
		if err != nil {
			return fmt.Errorf("connecting to qdrant: %w", err)
		}
		defer index.Close()
		initHandler = handlers.NewInitHandler(store, index)
	}

	result, err := initHandler.Handle(ctx, cwd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", result.ConfigPath)
	fmt.Fprintf(out, "Created history database: %s\n", result.HistoryPath)
	if result.CollectionName != "" {
		fmt.Fprintf(out, "Created Qdrant collection: %s\n", result.CollectionName)
	}
	fmt.Fprintln(out, "Trust workspace initialized successfully!")

	return nil
}
