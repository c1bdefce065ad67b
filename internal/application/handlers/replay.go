package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/services"
)

// ReplayHandler handles rolling recomputation over an entity's events.
type ReplayHandler struct {
	engine *services.Engine
}

// NewReplayHandler creates a new replay handler.
func NewReplayHandler(engine *services.Engine) *ReplayHandler {
	return &ReplayHandler{
		engine: engine,
	}
}

// ReplayResult contains the replayed score series.
type ReplayResult struct {
	EntityID string                 `json:"entity_id"`
	Points   []entities.ReplayPoint `json:"points"`

	// Change is the composite difference between the last and first point.
	Change float64 `json:"change"`
}

// Handle replays the bundle's events and collects every point.
func (h *ReplayHandler) Handle(ctx context.Context, bundle *entities.Bundle) (*ReplayResult, error) {
	if bundle == nil {
		return nil, fmt.Errorf("%w: bundle is nil", entities.ErrInvalidInput)
	}

	seq, err := h.engine.Replay(ctx, bundle.Entity, bundle.Events)
	if err != nil {
		return nil, fmt.Errorf("replaying entity: %w", err)
	}

	result := &ReplayResult{
		EntityID: bundle.Entity.ID,
		Points:   []entities.ReplayPoint{},
	}
	for point := range seq {
		result.Points = append(result.Points, point)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if n := len(result.Points); n > 1 {
		result.Change = result.Points[n-1].Composite - result.Points[0].Composite
	}
	return result, nil
}
