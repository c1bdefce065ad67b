package entities

import "time"

// Impact is the qualitative effect of an insight.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// TrendDirection is the direction an observation is moving.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// RiskLevel is the qualitative risk of a recurring pattern.
type RiskLevel string

const (
	RiskNone   RiskLevel = "none"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// CategoryCrossDimension marks insights that span several dimensions.
const CategoryCrossDimension = "cross_dimension"

// Insight is a derived, human-readable observation. Insights are
// regenerated on every analytics call and never persisted by the engine.
type Insight struct {
	Category           string         `json:"category"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	Impact             Impact         `json:"impact"`
	Confidence         float64        `json:"confidence"`
	SupportingEvidence []string       `json:"supporting_evidence"`
	Trend              TrendDirection `json:"trend"`
}

// Pattern is a recurring event-type or tag theme.
type Pattern struct {
	PatternType    string    `json:"pattern_type"`
	Description    string    `json:"description"`
	Frequency      int       `json:"frequency"`
	LastOccurrence time.Time `json:"last_occurrence"`
	RiskLevel      RiskLevel `json:"risk_level"`
	Recommendation string    `json:"recommendation"`
}

// ConfidenceInterval bounds a dimension score.
type ConfidenceInterval struct {
	Low     float64 `json:"low"`
	High    float64 `json:"high"`
	Support int     `json:"support"`
}

// Width returns High - Low.
func (c ConfidenceInterval) Width() float64 {
	return c.High - c.Low
}

// ReplayPoint is one step of a rolling recomputation over event prefixes.
type ReplayPoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Composite  float64   `json:"composite_score"`
	Chitty     float64   `json:"chitty_score"`
	EventCount int       `json:"event_count"`
}
