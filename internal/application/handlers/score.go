// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/services"
)

// ErrHistoryUnavailable is returned when a use case needs the history
// store but none is configured.
var ErrHistoryUnavailable = errors.New("history store not configured")

// ErrProfilesUnavailable is returned when a use case needs the profile
// index but none is configured.
var ErrProfilesUnavailable = errors.New("profile index not configured")

// DefaultTrigger labels snapshots recorded from the CLI.
const DefaultTrigger = "manual"

// ScoreHandler handles scoring one entity bundle.
type ScoreHandler struct {
	engine   *services.Engine
	history  *services.HistoryService
	profiles *services.ProfileService
	logger   *zap.Logger
}

// NewScoreHandler creates a new score handler. history and profiles may be
// nil; recording and indexing then fail with a descriptive error.
func NewScoreHandler(engine *services.Engine, history *services.HistoryService, profiles *services.ProfileService, logger *zap.Logger) *ScoreHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoreHandler{
		engine:   engine,
		history:  history,
		profiles: profiles,
		logger:   logger,
	}
}

// ScoreOptions controls the side effects of scoring.
type ScoreOptions struct {
	Record  bool
	Index   bool
	Trigger string

	// Now fixes the score's reference time. When it is zero and Record is
	// set, the snapshot is stamped with the current time.
	Now time.Time
}

// ScoreResult contains the result of scoring.
type ScoreResult struct {
	Score     *entities.TrustScore     `json:"score"`
	Integrity services.IntegrityReport `json:"integrity"`
	Snapshot  *entities.Snapshot       `json:"snapshot,omitempty"`
	Indexed   bool                     `json:"indexed"`
}

// Handle scores the bundle and optionally records and indexes the result.
func (h *ScoreHandler) Handle(ctx context.Context, bundle *entities.Bundle, opts ScoreOptions) (*ScoreResult, error) {
	if opts.Record && h.history == nil {
		return nil, ErrHistoryUnavailable
	}
	if opts.Index && h.profiles == nil {
		return nil, ErrProfilesUnavailable
	}

	now := opts.Now
	if now.IsZero() && opts.Record {
		now = timeNow().UTC()
	}
	var scoreOpts []services.ScoreOption
	if !now.IsZero() {
		scoreOpts = append(scoreOpts, services.WithNow(now))
	}

	score, _, err := scoreBundle(ctx, h.engine, h.history, bundle, scoreOpts...)
	if err != nil {
		return nil, err
	}

	result := &ScoreResult{
		Score:     score,
		Integrity: services.Verify(score),
	}
	if !result.Integrity.Passed {
		h.logger.Warn("score failed integrity checks", zap.String("entity_id", score.EntityID))
	}

	if opts.Record {
		trigger := opts.Trigger
		if trigger == "" {
			trigger = DefaultTrigger
		}
		snap, err := h.history.Record(ctx, score, trigger)
		if err != nil {
			return nil, fmt.Errorf("recording score: %w", err)
		}
		result.Snapshot = snap
	}

	if opts.Index {
		if err := h.profiles.Index(ctx, score); err != nil {
			return nil, fmt.Errorf("indexing score: %w", err)
		}
		result.Indexed = true
	}

	return result, nil
}

// scoreBundle scores a bundle using its own history merged with any
// stored snapshots, and returns the merged history it scored with.
func scoreBundle(ctx context.Context, engine *services.Engine, history *services.HistoryService, bundle *entities.Bundle, opts ...services.ScoreOption) (*entities.TrustScore, []entities.Snapshot, error) {
	if bundle == nil {
		return nil, nil, fmt.Errorf("%w: bundle is nil", entities.ErrInvalidInput)
	}

	snaps, err := bundleHistory(ctx, history, bundle)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]services.ScoreOption{services.WithHistory(snaps)}, opts...)
	score, err := engine.Score(ctx, bundle.Entity, bundle.Events, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("scoring entity: %w", err)
	}
	return score, snaps, nil
}

// bundleHistory returns the bundle's snapshots plus the stored window,
// oldest first.
func bundleHistory(ctx context.Context, history *services.HistoryService, bundle *entities.Bundle) ([]entities.Snapshot, error) {
	snaps := slices.Clone(bundle.History)
	if history == nil || bundle.Entity == nil {
		return snaps, nil
	}

	stored, err := history.Window(ctx, bundle.Entity.ID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	snaps = append(snaps, stored...)
	slices.SortStableFunc(snaps, func(a, b entities.Snapshot) int {
		return a.RecordedAt.Compare(b.RecordedAt)
	})
	return snaps, nil
}
