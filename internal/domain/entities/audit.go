package entities

import "time"

// AuditEntry represents a logged action in the history store.
type AuditEntry struct {
	ID        int64          `json:"id"`
	Action    string         `json:"action"`
	EntityID  string         `json:"entity_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Audit actions recorded by the history service.
const (
	ActionSnapshotRecorded = "snapshot_recorded"
	ActionProfileIndexed   = "profile_indexed"
	ActionProfileRemoved   = "profile_removed"
)
