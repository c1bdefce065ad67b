// Package ports defines interfaces for external service communication.
package ports

import "context"

// CollectionManager handles vector collection lifecycle operations.
// It is separate from ProfileIndex so the index interface stays focused
// on data operations.
type CollectionManager interface {
	// EnsureCollection creates the collection if it doesn't exist.
	EnsureCollection(ctx context.Context, vectorSize uint64) error

	// DeleteCollection removes the collection and all its data.
	DeleteCollection(ctx context.Context) error
}
