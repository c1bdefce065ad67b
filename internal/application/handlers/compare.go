package handlers

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/services"
)

// DefaultCompareConcurrency bounds how many entities are scored at once.
const DefaultCompareConcurrency = 4

// CompareHandler handles scoring and ranking several entities.
type CompareHandler struct {
	engine      *services.Engine
	history     *services.HistoryService
	concurrency int
}

// NewCompareHandler creates a new compare handler. history may be nil.
func NewCompareHandler(engine *services.Engine, history *services.HistoryService, concurrency int) *CompareHandler {
	if concurrency <= 0 {
		concurrency = DefaultCompareConcurrency
	}
	return &CompareHandler{
		engine:      engine,
		history:     history,
		concurrency: concurrency,
	}
}

// CompareEntry is one ranked entity.
type CompareEntry struct {
	Rank  int                  `json:"rank"`
	Name  string               `json:"name"`
	Score *entities.TrustScore `json:"score"`
}

// CompareResult contains the ranking, best first.
type CompareResult struct {
	Entries []CompareEntry `json:"entries"`
}

// Handle scores all bundles concurrently and ranks them by chitty score,
// then composite, then entity ID.
func (h *CompareHandler) Handle(ctx context.Context, bundles []*entities.Bundle) (*CompareResult, error) {
	entries := make([]CompareEntry, len(bundles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)
	for i, bundle := range bundles {
		g.Go(func() error {
			score, _, err := scoreBundle(gctx, h.engine, h.history, bundle)
			if err != nil {
				return fmt.Errorf("bundle %d: %w", i+1, err)
			}
			name := bundle.Entity.Name
			if name == "" {
				name = bundle.Entity.ID
			}
			entries[i] = CompareEntry{Name: name, Score: score}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(entries, func(a, b CompareEntry) int {
		if c := cmp.Compare(b.Score.Outputs.Chitty, a.Score.Outputs.Chitty); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Score.Composite, a.Score.Composite); c != 0 {
			return c
		}
		return cmp.Compare(a.Score.EntityID, b.Score.EntityID)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return &CompareResult{Entries: entries}, nil
}
