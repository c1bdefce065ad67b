package services

import (
	"context"
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

// Replay returns a lazy sequence of scores recomputed over growing
// chronological prefixes of the events. Each range over the sequence
// recomputes from scratch; nothing is cached. Iteration stops early when
// ctx is cancelled. Fewer than MinReplayEvents events yield no points.
func (e *Engine) Replay(ctx context.Context, entity *entities.Entity, events []entities.Event) (iter.Seq[entities.ReplayPoint], error) {
	if err := entity.Validate(); err != nil {
		return nil, fmt.Errorf("validating entity: %w", err)
	}
	clean, _ := sanitizeEvents(entity, events)
	prefixes := ReplayPrefixes(len(clean), e.cfg.MinReplayEvents, e.cfg.MaxReplayPoints)

	return func(yield func(entities.ReplayPoint) bool) {
		for _, k := range prefixes {
			if ctx.Err() != nil {
				return
			}
			prefix := clean[:k]
			now := prefix[k-1].Timestamp
			dims, err := e.scoreDimensions(ctx, ScoringInput{Entity: entity, Events: prefix, Now: now})
			if err != nil {
				e.logger.Debug("replay stopped", zap.String("entity_id", entity.ID), zap.Error(err))
				return
			}
			composite, outputs := Synthesize(dims)
			e.metrics.ObserveReplayPoint()
			if !yield(entities.ReplayPoint{
				Timestamp:  now,
				Composite:  composite,
				Chitty:     outputs.Chitty,
				EventCount: k,
			}) {
				return
			}
		}
	}, nil
}

// ReplayPrefixes returns the strictly increasing prefix lengths a replay of
// n events visits. Lengths below minEvents are skipped, the stride is
// max(1, n/maxPoints) and the full length is always included.
func ReplayPrefixes(n, minEvents, maxPoints int) []int {
	if minEvents < 1 {
		minEvents = 1
	}
	if n < minEvents {
		return nil
	}
	step := 1
	if maxPoints > 0 {
		step = max(1, n/maxPoints)
	}

	var prefixes []int
	for k := minEvents; k <= n; k += step {
		prefixes = append(prefixes, k)
	}
	if prefixes[len(prefixes)-1] != n {
		prefixes = append(prefixes, n)
	}
	return prefixes
}
