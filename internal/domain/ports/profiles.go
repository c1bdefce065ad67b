package ports

import (
	"context"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

// Profile is a stored trust-profile vector with its summary payload.
type Profile struct {
	EntityID   string                   `json:"entity_id"`
	Dimensions entities.DimensionScores `json:"dimensions"`
	Composite  float64                  `json:"composite"`
	Chitty     float64                  `json:"chitty"`
	Level      entities.TrustLevel      `json:"level"`
	Similarity float64                  `json:"similarity,omitempty"`
}

// ProfileIndex defines the interface for a trust-profile similarity index.
type ProfileIndex interface {
	// Save stores or replaces the profile for its entity.
	Save(ctx context.Context, profile Profile) error

	// Search returns the profiles nearest to the given dimension vector.
	Search(ctx context.Context, vector []float32, limit int) ([]Profile, error)

	// Delete removes the profile for an entity.
	Delete(ctx context.Context, entityID string) error
}
