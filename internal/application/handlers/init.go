package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/trust-core/internal/domain/ports"
	"github.com/ersonp/trust-core/internal/domain/services"
	"github.com/ersonp/trust-core/internal/infrastructure/config"
)

// InitHandler handles workspace initialization.
type InitHandler struct {
	store             ports.HistoryStore
	collectionManager ports.CollectionManager
}

// NewInitHandler creates a new init handler. Either collaborator may be
// nil, in which case its setup is skipped.
func NewInitHandler(store ports.HistoryStore, collectionManager ports.CollectionManager) *InitHandler {
	return &InitHandler{
		store:             store,
		collectionManager: collectionManager,
	}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath     string
	HistoryPath    string
	CollectionName string
}

// Handle writes the default configuration and prepares the stores.
func (h *InitHandler) Handle(ctx context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("trust already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	result := &InitResult{
		ConfigPath: config.ConfigFilePath(basePath),
	}

	if h.store != nil {
		if err := h.store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("creating history schema: %w", err)
		}
		result.HistoryPath = cfg.HistoryDBPath(basePath)
	}

	if h.collectionManager != nil {
		if err := h.collectionManager.EnsureCollection(ctx, services.ProfileVectorSize); err != nil {
			return nil, fmt.Errorf("creating collection: %w", err)
		}
		result.CollectionName = cfg.CollectionName()
	}

	return result, nil
}
