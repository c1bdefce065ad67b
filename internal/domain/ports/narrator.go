package ports

import (
	"context"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

// NarrationRequest carries everything a narrator may describe.
type NarrationRequest struct {
	EntityName string               `json:"entity_name"`
	Score      *entities.TrustScore `json:"score"`
	Insights   []entities.Insight   `json:"insights"`
	Patterns   []entities.Pattern   `json:"patterns"`
}

// Narrator defines the interface for producing plain-language summaries.
type Narrator interface {
	// Summarize returns a short summary of a score and its analysis.
	Summarize(ctx context.Context, req NarrationRequest) (string, error)
}
