package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/ports"
	"github.com/ersonp/trust-core/internal/domain/services"
)

// SimilarHandler handles nearest-profile lookups.
type SimilarHandler struct {
	engine   *services.Engine
	history  *services.HistoryService
	profiles *services.ProfileService
}

// NewSimilarHandler creates a new similar handler. history may be nil.
func NewSimilarHandler(engine *services.Engine, history *services.HistoryService, profiles *services.ProfileService) *SimilarHandler {
	return &SimilarHandler{
		engine:   engine,
		history:  history,
		profiles: profiles,
	}
}

// SimilarResult contains the scored entity and its nearest profiles.
type SimilarResult struct {
	Score   *entities.TrustScore `json:"score"`
	Matches []ports.Profile      `json:"matches"`
}

// Handle scores the bundle and finds the indexed profiles closest to it.
func (h *SimilarHandler) Handle(ctx context.Context, bundle *entities.Bundle, limit int) (*SimilarResult, error) {
	if h.profiles == nil {
		return nil, ErrProfilesUnavailable
	}

	score, _, err := scoreBundle(ctx, h.engine, h.history, bundle)
	if err != nil {
		return nil, err
	}

	matches, err := h.profiles.Similar(ctx, score, limit)
	if err != nil {
		return nil, fmt.Errorf("finding similar profiles: %w", err)
	}

	return &SimilarResult{
		Score:   score,
		Matches: matches,
	}, nil
}
