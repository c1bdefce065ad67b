package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/ports"
)

// trendThreshold is the composite change that separates a trend from noise.
const trendThreshold = 5.0

// HistoryService records score snapshots and reports trends over them.
type HistoryService struct {
	store  ports.HistoryStore
	window int
}

// NewHistoryService creates a new history service. window bounds the
// snapshots returned for temporal scoring.
func NewHistoryService(store ports.HistoryStore, window int) *HistoryService {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &HistoryService{
		store:  store,
		window: window,
	}
}

// Record persists a score as a snapshot and logs the action.
func (s *HistoryService) Record(ctx context.Context, score *entities.TrustScore, trigger string) (*entities.Snapshot, error) {
	hash, err := Fingerprint(score)
	if err != nil {
		return nil, err
	}

	snap := entities.SnapshotFromScore(score, trigger, score.Metadata.CalculatedAt)
	snap.IntegrityHash = hash
	if err := s.store.SaveSnapshot(ctx, &snap); err != nil {
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}

	details := map[string]any{
		"snapshot_id": snap.ID,
		"composite":   snap.Composite,
		"trigger":     trigger,
	}
	if err := s.store.LogAction(ctx, entities.ActionSnapshotRecorded, snap.EntityID, details); err != nil {
		return nil, fmt.Errorf("logging snapshot: %w", err)
	}

	return &snap, nil
}

// Window returns the most recent snapshots for temporal scoring, oldest first.
func (s *HistoryService) Window(ctx context.Context, entityID string) ([]entities.Snapshot, error) {
	snaps, err := s.store.FindLatestSnapshots(ctx, entityID, s.window)
	if err != nil {
		return nil, fmt.Errorf("finding snapshots: %w", err)
	}
	return snaps, nil
}

// Count returns the number of snapshots recorded for an entity.
func (s *HistoryService) Count(ctx context.Context, entityID string) (int, error) {
	n, err := s.store.CountSnapshots(ctx, entityID)
	if err != nil {
		return 0, fmt.Errorf("counting snapshots: %w", err)
	}
	return n, nil
}

// Trends compares the earliest and latest snapshot recorded since the
// given time.
func (s *HistoryService) Trends(ctx context.Context, entityID string, since time.Time) (*entities.Trend, error) {
	snaps, err := s.store.FindSnapshots(ctx, entityID, since, 0)
	if err != nil {
		return nil, fmt.Errorf("finding snapshots: %w", err)
	}
	return ComputeTrend(entityID, since, snaps), nil
}

// ComputeTrend labels the change between the first and last snapshot.
// Snapshots must be oldest first.
func ComputeTrend(entityID string, since time.Time, snaps []entities.Snapshot) *entities.Trend {
	trend := &entities.Trend{
		EntityID:   entityID,
		Label:      entities.TrendInsufficientData,
		Dimensions: make(map[entities.Dimension]float64, len(entities.AllDimensions)),
		DataPoints: len(snaps),
		Since:      since,
	}
	if len(snaps) < 2 {
		return trend
	}

	first, last := snaps[0], snaps[len(snaps)-1]
	trend.Change = last.Composite - first.Composite
	for _, dim := range entities.AllDimensions {
		trend.Dimensions[dim] = last.Dimensions.Value(dim) - first.Dimensions.Value(dim)
	}

	switch {
	case trend.Change > trendThreshold:
		trend.Label = entities.TrendImproving
	case trend.Change < -trendThreshold:
		trend.Label = entities.TrendDeclining
	default:
		trend.Label = entities.TrendSteady
	}
	return trend
}

// Audit returns the audit log for an entity.
func (s *HistoryService) Audit(ctx context.Context, entityID string) ([]entities.AuditEntry, error) {
	entries, err := s.store.FindAuditLog(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("finding audit log: %w", err)
	}
	return entries, nil
}

// AuditByAction returns audit entries of one action across all entities.
func (s *HistoryService) AuditByAction(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	entries, err := s.store.FindAuditLogByAction(ctx, action, limit)
	if err != nil {
		return nil, fmt.Errorf("finding audit log: %w", err)
	}
	return entries, nil
}
