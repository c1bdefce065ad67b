package entities

import "time"

// Dimension names one of the six trust dimensions.
type Dimension string

const (
	DimensionSource   Dimension = "source"
	DimensionTemporal Dimension = "temporal"
	DimensionChannel  Dimension = "channel"
	DimensionOutcome  Dimension = "outcome"
	DimensionNetwork  Dimension = "network"
	DimensionJustice  Dimension = "justice"
)

// AllDimensions lists the dimensions in their canonical order.
var AllDimensions = []Dimension{
	DimensionSource,
	DimensionTemporal,
	DimensionChannel,
	DimensionOutcome,
	DimensionNetwork,
	DimensionJustice,
}

// DimensionScores holds one 0-100 score per dimension.
type DimensionScores struct {
	Source   float64 `json:"source"`
	Temporal float64 `json:"temporal"`
	Channel  float64 `json:"channel"`
	Outcome  float64 `json:"outcome"`
	Network  float64 `json:"network"`
	Justice  float64 `json:"justice"`
}

// Value returns the score for a dimension. Unknown dimensions return 0.
func (d DimensionScores) Value(dim Dimension) float64 {
	switch dim {
	case DimensionSource:
		return d.Source
	case DimensionTemporal:
		return d.Temporal
	case DimensionChannel:
		return d.Channel
	case DimensionOutcome:
		return d.Outcome
	case DimensionNetwork:
		return d.Network
	case DimensionJustice:
		return d.Justice
	default:
		return 0
	}
}

// Set stores the score for a dimension. Unknown dimensions are ignored.
func (d *DimensionScores) Set(dim Dimension, v float64) {
	switch dim {
	case DimensionSource:
		d.Source = v
	case DimensionTemporal:
		d.Temporal = v
	case DimensionChannel:
		d.Channel = v
	case DimensionOutcome:
		d.Outcome = v
	case DimensionNetwork:
		d.Network = v
	case DimensionJustice:
		d.Justice = v
	}
}

// Values returns the scores in AllDimensions order.
func (d DimensionScores) Values() []float64 {
	values := make([]float64, len(AllDimensions))
	for i, dim := range AllDimensions {
		values[i] = d.Value(dim)
	}
	return values
}

// OutputScores are the named weighted recombinations of the dimensions.
type OutputScores struct {
	People float64 `json:"people"`
	Legal  float64 `json:"legal"`
	State  float64 `json:"state"`
	Chitty float64 `json:"chitty"`
}

// TrustLevel is one of five discrete tiers.
type TrustLevel string

const (
	LevelL0 TrustLevel = "L0"
	LevelL1 TrustLevel = "L1"
	LevelL2 TrustLevel = "L2"
	LevelL3 TrustLevel = "L3"
	LevelL4 TrustLevel = "L4"
)

// Name returns the human-readable tier name.
func (l TrustLevel) Name() string {
	switch l {
	case LevelL4:
		return "Institutional"
	case LevelL3:
		return "Professional"
	case LevelL2:
		return "Enhanced"
	case LevelL1:
		return "Basic"
	default:
		return "Unverified"
	}
}

// Rank returns 0 for L0 up to 4 for L4.
func (l TrustLevel) Rank() int {
	switch l {
	case LevelL4:
		return 4
	case LevelL3:
		return 3
	case LevelL2:
		return 2
	case LevelL1:
		return 1
	default:
		return 0
	}
}

// ScoreMetadata describes how a TrustScore was produced.
type ScoreMetadata struct {
	Confidence      float64   `json:"confidence"`
	LowConfidence   bool      `json:"low_confidence"`
	EventCount      int       `json:"event_count"`
	MalformedEvents int       `json:"malformed_events"`
	HistoryPoints   int       `json:"history_points"`
	CalculatedAt    time.Time `json:"calculated_at"`
	Method          string    `json:"method"`
}

// TrustScore is the engine output for one entity. It is never mutated
// after construction.
type TrustScore struct {
	EntityID    string          `json:"entity_id"`
	Dimensions  DimensionScores `json:"dimensions"`
	Composite   float64         `json:"composite"`
	Outputs     OutputScores    `json:"scores"`
	Level       TrustLevel      `json:"level"`
	ChittyLevel TrustLevel      `json:"chitty_level"`
	Metadata    ScoreMetadata   `json:"metadata"`
}

// Mean returns the unweighted mean of the six scores.
func (d DimensionScores) Mean() float64 {
	var sum float64
	for _, v := range d.Values() {
		sum += v
	}
	return sum / float64(len(AllDimensions))
}
