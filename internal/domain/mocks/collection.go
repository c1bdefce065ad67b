// Package mocks provides mock implementations for testing.
package mocks

import "context"

// CollectionManager is a mock implementation of ports.CollectionManager.
type CollectionManager struct {
	EnsureErr error
	DeleteErr error

	// Call tracking
	EnsureCollectionCallCount int
	DeleteCollectionCallCount int
	LastVectorSize            uint64
}

// EnsureCollection records the vector size and returns the configured error.
func (m *CollectionManager) EnsureCollection(_ context.Context, vectorSize uint64) error {
	m.EnsureCollectionCallCount++
	m.LastVectorSize = vectorSize
	return m.EnsureErr
}

// DeleteCollection returns the configured error.
func (m *CollectionManager) DeleteCollection(_ context.Context) error {
	m.DeleteCollectionCallCount++
	return m.DeleteErr
}
