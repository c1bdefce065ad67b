package entities

import "time"

// Snapshot is a TrustScore persisted for history. Prior snapshots feed
// temporal scoring and trend reporting.
type Snapshot struct {
	ID            string          `json:"id"`
	EntityID      string          `json:"entity_id"`
	Dimensions    DimensionScores `json:"dimensions"`
	Composite     float64         `json:"composite"`
	Outputs       OutputScores    `json:"scores"`
	Confidence    float64         `json:"confidence"`
	Trigger       string          `json:"trigger,omitempty"`
	Method        string          `json:"method,omitempty"`
	IntegrityHash string          `json:"integrity_hash,omitempty"`
	RecordedAt    time.Time       `json:"recorded_at"`
}

// SnapshotFromScore creates an unsaved Snapshot from a calculated score.
func SnapshotFromScore(s *TrustScore, trigger string, recordedAt time.Time) Snapshot {
	return Snapshot{
		EntityID:   s.EntityID,
		Dimensions: s.Dimensions,
		Composite:  s.Composite,
		Outputs:    s.Outputs,
		Confidence: s.Metadata.Confidence,
		Trigger:    trigger,
		Method:     s.Metadata.Method,
		RecordedAt: recordedAt,
	}
}

// TrendLabel classifies the change between two snapshots.
type TrendLabel string

const (
	TrendImproving        TrendLabel = "improving"
	TrendDeclining        TrendLabel = "declining"
	TrendSteady           TrendLabel = "stable"
	TrendInsufficientData TrendLabel = "insufficient_data"
)

// Trend summarizes history between the earliest and latest snapshot in range.
type Trend struct {
	EntityID   string                `json:"entity_id"`
	Label      TrendLabel            `json:"trend"`
	Change     float64               `json:"change"`
	Dimensions map[Dimension]float64 `json:"dimensions"`
	DataPoints int                   `json:"data_points"`
	Since      time.Time             `json:"since"`
}
