package services

import (
	"context"
	"fmt"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/ports"
)

// NarrationService turns a score and its analysis into a short summary.
type NarrationService struct {
	narrator ports.Narrator
}

// NewNarrationService creates a new narration service.
func NewNarrationService(narrator ports.Narrator) *NarrationService {
	return &NarrationService{
		narrator: narrator,
	}
}

// Narrate summarizes a score and its analysis in plain language.
func (s *NarrationService) Narrate(ctx context.Context, entity *entities.Entity, score *entities.TrustScore, analysis *Analysis) (string, error) {
	req := ports.NarrationRequest{
		EntityName: entity.Name,
		Score:      score,
	}
	if req.EntityName == "" {
		req.EntityName = entity.ID
	}
	if analysis != nil {
		req.Insights = analysis.Insights
		req.Patterns = analysis.Patterns
	}

	summary, err := s.narrator.Summarize(ctx, req)
	if err != nil {
		return "", fmt.Errorf("narrating score: %w", err)
	}
	return summary, nil
}
