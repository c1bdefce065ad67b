package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/mocks"
	"github.com/ersonp/trust-core/internal/domain/ports"
	"github.com/ersonp/trust-core/internal/domain/services"
)

func TestSimilarHandler_Handle(t *testing.T) {
	index := &mocks.ProfileIndex{Profiles: []ports.Profile{
		{EntityID: "alice", Composite: 90},
		{EntityID: "bob", Composite: 85, Level: entities.LevelL4},
		{EntityID: "carol", Composite: 70, Level: entities.LevelL3},
	}}
	handler := NewSimilarHandler(services.NewEngine(), nil, services.NewProfileService(index, nil))

	result, err := handler.Handle(t.Context(), leaderBundle(), 2)
	require.NoError(t, err)
	require.Len(t, result.Matches, 2)
	assert.Equal(t, "bob", result.Matches[0].EntityID)
	assert.Equal(t, "carol", result.Matches[1].EntityID)
	assert.Equal(t, 3, index.SearchLastLimit)
	assert.Len(t, index.SearchLastVector, services.ProfileVectorSize)
}

func TestSimilarHandler_Handle_NoProfiles(t *testing.T) {
	handler := NewSimilarHandler(services.NewEngine(), nil, nil)

	_, err := handler.Handle(t.Context(), leaderBundle(), 5)
	require.ErrorIs(t, err, ErrProfilesUnavailable)
}
