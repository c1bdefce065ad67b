package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/trust-core/internal/application/handlers"
	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/services"
	"github.com/ersonp/trust-core/internal/infrastructure/config"
	"github.com/ersonp/trust-core/internal/infrastructure/historydb/sqlite"
)

func bundle(id string, positive int) *entities.Bundle {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := &entities.Bundle{Entity: &entities.Entity{
		ID:                id,
		Kind:              entities.EntityKindPerson,
		Name:              id,
		CreatedAt:         created,
		IdentityVerified:  positive > 3,
		TransparencyLevel: 0.5,
	}}
	for i := 0; i < 5; i++ {
		outcome := entities.OutcomeNegative
		if i < positive {
			outcome = entities.OutcomePositive
		}
		b.Events = append(b.Events, entities.Event{
			EntityID:    id,
			Type:        entities.EventTransaction,
			Timestamp:   created.AddDate(0, 0, 7*(i+1)),
			Channel:     entities.ChannelBankTransfer,
			Outcome:     outcome,
			ImpactScore: 3,
		})
	}
	return b
}

// TestScoreRecordIndexSimilar drives the score, history and similarity use
// cases against a file-backed SQLite store and the live Qdrant index.
func TestScoreRecordIndexSimilar(t *testing.T) {
	ctx := context.Background()
	t.Cleanup(func() { resetCollection(t) })

	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "history.db")})
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.EnsureSchema(ctx))

	engine := services.NewEngine()
	history := services.NewHistoryService(store, 0)
	profiles := services.NewProfileService(testIndex, store)
	scoreHandler := handlers.NewScoreHandler(engine, history, profiles, nil)

	for _, b := range []*entities.Bundle{bundle("alice", 5), bundle("bob", 4), bundle("dave", 0)} {
		_, err := scoreHandler.Handle(ctx, b, handlers.ScoreOptions{Record: true, Index: true})
		require.NoError(t, err)
	}

	count, err := store.CountSnapshots(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	indexed, err := store.FindAuditLogByAction(ctx, entities.ActionProfileIndexed, 10)
	require.NoError(t, err)
	assert.Len(t, indexed, 3)

	similar, err := handlers.NewSimilarHandler(engine, history, profiles).Handle(ctx, bundle("alice", 5), 1)
	require.NoError(t, err)
	require.Len(t, similar.Matches, 1)
	assert.Equal(t, "bob", similar.Matches[0].EntityID)

	// A second recording feeds temporal scoring from stored history.
	result, err := scoreHandler.Handle(ctx, bundle("alice", 5), handlers.ScoreOptions{Record: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score.Metadata.HistoryPoints)
}
