package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ersonp/trust-core/internal/application/handlers"
	"github.com/ersonp/trust-core/internal/domain/services"
	"github.com/ersonp/trust-core/internal/infrastructure/config"
	"github.com/ersonp/trust-core/internal/infrastructure/historydb/sqlite"
	llm "github.com/ersonp/trust-core/internal/infrastructure/llm/openai"
	"github.com/ersonp/trust-core/internal/infrastructure/logging"
	"github.com/ersonp/trust-core/internal/infrastructure/metrics"
	"github.com/ersonp/trust-core/internal/infrastructure/profiledb/qdrant"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config         *config.Config
	Logger         *zap.Logger
	ScoreHandler   *handlers.ScoreHandler
	AnalyzeHandler *handlers.AnalyzeHandler
	ReplayHandler  *handlers.ReplayHandler
	CompareHandler *handlers.CompareHandler
	HistoryHandler *handlers.HistoryHandler
	SimilarHandler *handlers.SimilarHandler
	ForgetHandler  *handlers.ForgetHandler
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically, including writing the metrics file.
//
// The history store is opened only when the workspace is initialized or an
// explicit sqlite path is configured. The Qdrant client connects lazily, so
// commands that never touch the profile index work without a server.
func withDeps(ctx context.Context, fn func(*Deps) error) (err error) {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.LoadOrDefault(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	collector := metrics.NewCollector(cfg.Metrics.Namespace)
	defer func() {
		if werr := writeMetrics(collector, cfg); werr != nil && err == nil {
			err = werr
		}
	}()

	engine := services.NewEngine(
		services.WithConfig(engineConfig(cfg.Engine)),
		services.WithLogger(logger.Named("engine")),
		services.WithMetrics(collector),
	)

	var history *services.HistoryService
	var profiles *services.ProfileService

	if config.Exists(cwd) || cfg.SQLite.Path != "" {
		store, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.HistoryDBPath(cwd)})
		if err != nil {
			return fmt.Errorf("creating sqlite repository: %w", err)
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensuring sqlite schema: %w", err)
		}
		history = services.NewHistoryService(store, cfg.Engine.HistoryWindow)

		qdrantCfg := cfg.Qdrant
		qdrantCfg.Collection = cfg.CollectionName()
		index, err := qdrant.NewRepository(qdrantCfg)
		if err != nil {
			return fmt.Errorf("creating qdrant repository: %w", err)
		}
		defer index.Close()
		profiles = services.NewProfileService(index, store)
	}

	var narration *services.NarrationService
	if cfg.NarrationEnabled() {
		client, err := llm.NewClient(cfg.LLM)
		if err != nil {
			return fmt.Errorf("creating llm client: %w", err)
		}
		narration = services.NewNarrationService(client)
	}

	deps := &Deps{
		Config:         cfg,
		Logger:         logger,
		ScoreHandler:   handlers.NewScoreHandler(engine, history, profiles, logger.Named("score")),
		AnalyzeHandler: handlers.NewAnalyzeHandler(engine, history, narration),
		ReplayHandler:  handlers.NewReplayHandler(engine),
		CompareHandler: handlers.NewCompareHandler(engine, history, cfg.Engine.CompareConcurrency),
		HistoryHandler: handlers.NewHistoryHandler(history),
		SimilarHandler: handlers.NewSimilarHandler(engine, history, profiles),
		ForgetHandler:  handlers.NewForgetHandler(profiles),
	}

	return fn(deps)
}

// newLogger builds the logger, letting --log-level override config.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logCfg := cfg.Log
	if globalLogLevel != "" {
		logCfg.Level = globalLogLevel
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger, nil
}

// engineConfig maps the file configuration onto engine tuning.
func engineConfig(c config.EngineConfig) services.EngineConfig {
	return services.EngineConfig{
		Workers:          c.Workers,
		MinReplayEvents:  c.MinReplayEvents,
		MaxReplayPoints:  c.MaxReplayPoints,
		PatternThreshold: c.PatternThreshold,
		MaxInsights:      c.MaxInsights,
		HistoryWindow:    c.HistoryWindow,
	}
}

// writeMetrics writes the metrics textfile when one is requested by flag
// or config.
func writeMetrics(collector *metrics.Collector, cfg *config.Config) error {
	path := globalMetricsFile
	if path == "" {
		path = cfg.Metrics.File
	}
	if path == "" {
		return nil
	}
	return collector.WriteTextfile(path)
}
