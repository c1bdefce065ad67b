package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/services"
)

// ErrNarrationUnavailable is returned when narration is requested without
// a configured LLM.
var ErrNarrationUnavailable = errors.New("narration not configured (set llm.api_key or OPENAI_API_KEY)")

// AnalyzeHandler handles scoring plus analytics for one entity bundle.
type AnalyzeHandler struct {
	engine    *services.Engine
	history   *services.HistoryService
	narration *services.NarrationService
}

// NewAnalyzeHandler creates a new analyze handler. history and narration
// may be nil.
func NewAnalyzeHandler(engine *services.Engine, history *services.HistoryService, narration *services.NarrationService) *AnalyzeHandler {
	return &AnalyzeHandler{
		engine:    engine,
		history:   history,
		narration: narration,
	}
}

// AnalyzeResult contains the result of an analysis.
type AnalyzeResult struct {
	Score    *entities.TrustScore `json:"score"`
	Analysis *services.Analysis   `json:"analysis"`
	Summary  string               `json:"summary,omitempty"`
}

// Handle scores the bundle and derives insights, patterns and confidence
// intervals, optionally narrating them.
func (h *AnalyzeHandler) Handle(ctx context.Context, bundle *entities.Bundle, narrate bool) (*AnalyzeResult, error) {
	if narrate && h.narration == nil {
		return nil, ErrNarrationUnavailable
	}

	score, snaps, err := scoreBundle(ctx, h.engine, h.history, bundle)
	if err != nil {
		return nil, err
	}

	analysis, err := h.engine.Analyze(ctx, bundle.Entity, bundle.Events, score.Dimensions, services.WithHistory(snaps))
	if err != nil {
		return nil, fmt.Errorf("analyzing entity: %w", err)
	}

	result := &AnalyzeResult{
		Score:    score,
		Analysis: analysis,
	}

	if narrate {
		summary, err := h.narration.Narrate(ctx, bundle.Entity, score, analysis)
		if err != nil {
			return nil, err
		}
		result.Summary = summary
	}

	return result, nil
}
