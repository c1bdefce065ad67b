package mocks

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

// HistoryStore is a mock implementation of ports.HistoryStore.
type HistoryStore struct {
	Snapshots []entities.Snapshot
	Audit     []entities.AuditEntry
	Err       error

	// LogErr fails LogAction only.
	LogErr error

	// Call tracking
	SaveSnapshotCallCount        int
	FindLatestSnapshotsCallCount int
}

// NewHistoryStore creates a new mock HistoryStore.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// EnsureSchema returns the configured error.
func (m *HistoryStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close closes the store.
func (m *HistoryStore) Close() error {
	return nil
}

// SaveSnapshot appends the snapshot, assigning an ID when empty.
func (m *HistoryStore) SaveSnapshot(_ context.Context, snap *entities.Snapshot) error {
	m.SaveSnapshotCallCount++
	if m.Err != nil {
		return m.Err
	}
	if snap.ID == "" {
		snap.ID = fmt.Sprintf("snap-%d", len(m.Snapshots)+1)
	}
	m.Snapshots = append(m.Snapshots, *snap)
	return nil
}

// FindSnapshots returns snapshots for the entity recorded at or after since.
func (m *HistoryStore) FindSnapshots(_ context.Context, entityID string, since time.Time, limit int) ([]entities.Snapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.Snapshot
	for _, s := range m.sorted(entityID) {
		if !s.RecordedAt.Before(since) {
			result = append(result, s)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// FindLatestSnapshots returns the newest snapshots for the entity, oldest first.
func (m *HistoryStore) FindLatestSnapshots(_ context.Context, entityID string, limit int) ([]entities.Snapshot, error) {
	m.FindLatestSnapshotsCallCount++
	if m.Err != nil {
		return nil, m.Err
	}
	result := m.sorted(entityID)
	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result, nil
}

// CountSnapshots returns the number of snapshots for the entity.
func (m *HistoryStore) CountSnapshots(_ context.Context, entityID string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.sorted(entityID)), nil
}

// LogAction appends an audit entry.
func (m *HistoryStore) LogAction(_ context.Context, action string, entityID string, details map[string]any) error {
	if m.LogErr != nil {
		return m.LogErr
	}
	if m.Err != nil {
		return m.Err
	}
	m.Audit = append(m.Audit, entities.AuditEntry{
		ID:       int64(len(m.Audit) + 1),
		Action:   action,
		EntityID: entityID,
		Details:  details,
	})
	return nil
}

// FindAuditLog returns audit entries for the entity.
func (m *HistoryStore) FindAuditLog(_ context.Context, entityID string) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.AuditEntry
	for _, e := range m.Audit {
		if e.EntityID == entityID {
			result = append(result, e)
		}
	}
	return result, nil
}

// FindAuditLogByAction returns audit entries with the given action.
func (m *HistoryStore) FindAuditLogByAction(_ context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.AuditEntry
	for _, e := range m.Audit {
		if e.Action == action {
			result = append(result, e)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *HistoryStore) sorted(entityID string) []entities.Snapshot {
	var result []entities.Snapshot
	for _, s := range m.Snapshots {
		if s.EntityID == entityID {
			result = append(result, s)
		}
	}
	// Sort by time for deterministic test results
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].RecordedAt.Before(result[j].RecordedAt)
	})
	return result
}
