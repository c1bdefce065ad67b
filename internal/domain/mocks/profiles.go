package mocks

import (
	"context"

	"github.com/ersonp/trust-core/internal/domain/ports"
)

// ProfileIndex is a mock implementation of ports.ProfileIndex and
// ports.CollectionManager. Search returns stored profiles in insertion order.
type ProfileIndex struct {
	Profiles []ports.Profile
	Err      error

	// Collection errors (separate from Err for fine-grained control)
	EnsureCollectionErr error
	DeleteCollectionErr error

	// Call tracking
	EnsureCollectionCallCount int
	DeleteCollectionCallCount int
	SearchLastLimit           int
	SearchLastVector          []float32
}

// EnsureCollection creates the collection if it doesn't exist.
func (m *ProfileIndex) EnsureCollection(_ context.Context, _ uint64) error {
	m.EnsureCollectionCallCount++
	return m.EnsureCollectionErr
}

// DeleteCollection removes the collection and all its data.
func (m *ProfileIndex) DeleteCollection(_ context.Context) error {
	m.DeleteCollectionCallCount++
	return m.DeleteCollectionErr
}

// Save stores or replaces a profile.
func (m *ProfileIndex) Save(_ context.Context, profile ports.Profile) error {
	if m.Err != nil {
		return m.Err
	}
	for i, p := range m.Profiles {
		if p.EntityID == profile.EntityID {
			m.Profiles[i] = profile
			return nil
		}
	}
	m.Profiles = append(m.Profiles, profile)
	return nil
}

// Search returns up to limit stored profiles.
func (m *ProfileIndex) Search(_ context.Context, vector []float32, limit int) ([]ports.Profile, error) {
	m.SearchLastLimit = limit
	m.SearchLastVector = vector
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > len(m.Profiles) {
		return m.Profiles, nil
	}
	return m.Profiles[:limit], nil
}

// Delete removes a profile by entity ID.
func (m *ProfileIndex) Delete(_ context.Context, entityID string) error {
	if m.Err != nil {
		return m.Err
	}
	for i, p := range m.Profiles {
		if p.EntityID == entityID {
			m.Profiles = append(m.Profiles[:i], m.Profiles[i+1:]...)
			return nil
		}
	}
	return nil
}
