package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/services"
)

func TestNewCompareHandler_DefaultConcurrency(t *testing.T) {
	handler := NewCompareHandler(services.NewEngine(), nil, 0)
	assert.Equal(t, DefaultCompareConcurrency, handler.concurrency)
}

func TestCompareHandler_Handle(t *testing.T) {
	handler := NewCompareHandler(services.NewEngine(), nil, 2)

	unnamed := disputedBundle()
	unnamed.Entity.Name = ""

	result, err := handler.Handle(t.Context(), []*entities.Bundle{unnamed, leaderBundle()})
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)

	assert.Equal(t, 1, result.Entries[0].Rank)
	assert.Equal(t, "Alice", result.Entries[0].Name)
	assert.Equal(t, 2, result.Entries[1].Rank)
	assert.Equal(t, "dave", result.Entries[1].Name)
	assert.Greater(t, result.Entries[0].Score.Outputs.Chitty, result.Entries[1].Score.Outputs.Chitty)
}

func TestCompareHandler_Handle_TiesBreakByEntityID(t *testing.T) {
	handler := NewCompareHandler(services.NewEngine(), nil, 4)

	first := leaderBundle()
	second := leaderBundle()
	second.Entity.ID = "aaron"

	result, err := handler.Handle(t.Context(), []*entities.Bundle{first, second})
	require.NoError(t, err)
	assert.Equal(t, "aaron", result.Entries[0].Score.EntityID)
	assert.Equal(t, "alice", result.Entries[1].Score.EntityID)
}

func TestCompareHandler_Handle_InvalidBundle(t *testing.T) {
	handler := NewCompareHandler(services.NewEngine(), nil, 2)

	_, err := handler.Handle(t.Context(), []*entities.Bundle{leaderBundle(), {Entity: &entities.Entity{}}})
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrInvalidInput)
	assert.Contains(t, err.Error(), "bundle 2")
}

func TestCompareHandler_Handle_Empty(t *testing.T) {
	handler := NewCompareHandler(services.NewEngine(), nil, 2)

	result, err := handler.Handle(t.Context(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
}
