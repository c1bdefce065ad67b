package services

import (
	"context"
	"fmt"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/ports"
)

// ProfileVectorSize is the dimensionality of a trust-profile vector.
const ProfileVectorSize = 6

// DefaultSimilarLimit is the default number of similar profiles returned.
const DefaultSimilarLimit = 5

// ProfileService indexes trust profiles and finds similar ones.
type ProfileService struct {
	index ports.ProfileIndex
	audit ports.HistoryStore
}

// NewProfileService creates a new profile service. audit may be nil.
func NewProfileService(index ports.ProfileIndex, audit ports.HistoryStore) *ProfileService {
	return &ProfileService{
		index: index,
		audit: audit,
	}
}

// ProfileVector scales the dimension scores to [0,1] in canonical order.
func ProfileVector(d entities.DimensionScores) []float32 {
	values := d.Values()
	vector := make([]float32, len(values))
	for i, v := range values {
		vector[i] = float32(v / 100)
	}
	return vector
}

// ProfileFromScore builds the indexable profile of a score.
func ProfileFromScore(score *entities.TrustScore) ports.Profile {
	return ports.Profile{
		EntityID:   score.EntityID,
		Dimensions: score.Dimensions,
		Composite:  score.Composite,
		Chitty:     score.Outputs.Chitty,
		Level:      score.Level,
	}
}

// Index stores the profile of a score.
func (s *ProfileService) Index(ctx context.Context, score *entities.TrustScore) error {
	if err := s.index.Save(ctx, ProfileFromScore(score)); err != nil {
		return fmt.Errorf("indexing profile: %w", err)
	}
	if s.audit == nil {
		return nil
	}
	details := map[string]any{"composite": score.Composite, "level": string(score.Level)}
	if err := s.audit.LogAction(ctx, entities.ActionProfileIndexed, score.EntityID, details); err != nil {
		return fmt.Errorf("logging profile index: %w", err)
	}
	return nil
}

// Remove deletes the stored profile of an entity.
func (s *ProfileService) Remove(ctx context.Context, entityID string) error {
	if err := s.index.Delete(ctx, entityID); err != nil {
		return fmt.Errorf("removing profile: %w", err)
	}
	if s.audit == nil {
		return nil
	}
	if err := s.audit.LogAction(ctx, entities.ActionProfileRemoved, entityID, nil); err != nil {
		return fmt.Errorf("logging profile removal: %w", err)
	}
	return nil
}

// Similar returns the stored profiles nearest to the score, excluding the
// scored entity itself.
func (s *ProfileService) Similar(ctx context.Context, score *entities.TrustScore, limit int) ([]ports.Profile, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	found, err := s.index.Search(ctx, ProfileVector(score.Dimensions), limit+1)
	if err != nil {
		return nil, fmt.Errorf("searching profiles: %w", err)
	}

	profiles := make([]ports.Profile, 0, limit)
	for _, p := range found {
		if p.EntityID == score.EntityID {
			continue
		}
		profiles = append(profiles, p)
		if len(profiles) == limit {
			break
		}
	}
	return profiles, nil
}
