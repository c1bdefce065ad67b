package ports

import (
	"context"
	"time"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

// HistoryStore persists score snapshots and an audit log of actions
// taken on them.
type HistoryStore interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// SaveSnapshot stores a snapshot. An empty ID is assigned by the store.
	SaveSnapshot(ctx context.Context, snap *entities.Snapshot) error

	// FindSnapshots returns snapshots for an entity recorded at or after since,
	// oldest first. A non-positive limit means no limit.
	FindSnapshots(ctx context.Context, entityID string, since time.Time, limit int) ([]entities.Snapshot, error)

	// FindLatestSnapshots returns the most recent snapshots for an entity,
	// oldest first.
	FindLatestSnapshots(ctx context.Context, entityID string, limit int) ([]entities.Snapshot, error)

	// CountSnapshots returns the number of snapshots stored for an entity.
	CountSnapshots(ctx context.Context, entityID string) (int, error)

	// LogAction logs an action to the audit log.
	LogAction(ctx context.Context, action string, entityID string, details map[string]any) error

	// FindAuditLog finds audit log entries for a specific entity.
	FindAuditLog(ctx context.Context, entityID string) ([]entities.AuditEntry, error)

	// FindAuditLogByAction finds audit log entries by action type.
	FindAuditLogByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error)
}
