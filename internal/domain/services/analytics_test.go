package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/mocks"
)

func findInsight(insights []entities.Insight, title string) (entities.Insight, bool) {
	for _, in := range insights {
		if in.Title == title {
			return in, true
		}
	}
	return entities.Insight{}, false
}

func TestGenerateInsights_CommunityLeader(t *testing.T) {
	entity, events := communityLeader()
	score, err := NewEngine().Score(t.Context(), entity, events, WithNow(day(90)))
	require.NoError(t, err)

	insights := GenerateInsights(entity, events, score.Dimensions, DefaultMaxInsights)
	require.NotEmpty(t, insights)
	assert.LessOrEqual(t, len(insights), DefaultMaxInsights)

	justice, ok := findInsight(insights, "Strong justice alignment")
	require.True(t, ok)
	assert.Equal(t, entities.ImpactPositive, justice.Impact)
	assert.Len(t, justice.SupportingEvidence, 8)

	_, ok = findInsight(insights, "Verified identity")
	assert.True(t, ok)
	_, ok = findInsight(insights, "Strong network")
	assert.True(t, ok)
	_, ok = findInsight(insights, "Diverse observation channels")
	assert.True(t, ok)

	for i, in := range insights {
		assert.Greater(t, in.Confidence, 0.0)
		assert.Less(t, in.Confidence, 1.0)
		if i > 0 {
			assert.LessOrEqual(t, in.Confidence, insights[i-1].Confidence)
		}
	}
}

func TestGenerateInsights_Reform(t *testing.T) {
	entity, events := reformedEntity()
	dims := entities.DimensionScores{Source: 39, Temporal: 65, Channel: 90, Outcome: 60, Network: 30, Justice: 80}

	insights := GenerateInsights(entity, events, dims, 0)

	arc, ok := findInsight(insights, "Transformation arc")
	require.True(t, ok)
	assert.Equal(t, entities.CategoryCrossDimension, arc.Category)
	assert.Equal(t, entities.TrendUp, arc.Trend)

	justice, ok := findInsight(insights, "Strong justice alignment")
	require.True(t, ok)
	assert.Equal(t, entities.TrendUp, justice.Trend)

	uneven, ok := findInsight(insights, "Uneven profile")
	require.True(t, ok)
	assert.Equal(t, entities.ImpactNeutral, uneven.Impact)

	_, ok = findInsight(insights, "Isolated entity")
	assert.True(t, ok)
}

func TestGenerateInsights_Limit(t *testing.T) {
	entity, events := communityLeader()
	dims := entities.DimensionScores{Source: 97, Temporal: 20, Channel: 90, Outcome: 98, Network: 92, Justice: 99}

	insights := GenerateInsights(entity, events, dims, 2)
	assert.Len(t, insights, 2)
}

func TestGenerateInsights_SingleChannel(t *testing.T) {
	entity := bareEntity("e1")
	events := []entities.Event{
		{Outcome: entities.OutcomeNeutral, Channel: entities.ChannelSocialMedia, Timestamp: day(1)},
		{Outcome: entities.OutcomeNeutral, Channel: entities.ChannelSocialMedia, Timestamp: day(2)},
		{Outcome: entities.OutcomeNeutral, Channel: entities.ChannelSocialMedia, Timestamp: day(3)},
	}
	dims := entities.DimensionScores{Source: 35, Temporal: 65, Channel: 45, Outcome: 50, Network: 30, Justice: 50}

	insights := GenerateInsights(entity, events, dims, 0)
	single, ok := findInsight(insights, "Single observation channel")
	require.True(t, ok)
	assert.Equal(t, entities.ImpactNegative, single.Impact)
	assert.Equal(t, []string{"3 events via social_media"}, single.SupportingEvidence)
}

func TestDetectPatterns(t *testing.T) {
	events := []entities.Event{
		{Type: entities.EventDispute, Outcome: entities.OutcomeNegative, Timestamp: day(1), Tags: []string{"late_payment"}},
		{Type: entities.EventDispute, Outcome: entities.OutcomeNegative, Timestamp: day(2), Tags: []string{"Late_Payment", "late_payment"}},
		{Type: entities.EventTransaction, Outcome: entities.OutcomePositive, Timestamp: day(3), Tags: []string{"late_payment"}},
		{Type: entities.EventTransaction, Outcome: entities.OutcomePositive, Timestamp: day(4)},
		{Type: entities.EventTransaction, Outcome: entities.OutcomeNegative, Timestamp: day(5)},
		{Type: entities.EventAchievement, Outcome: entities.OutcomePositive, Timestamp: day(6)},
	}

	patterns := DetectPatterns(events, 2)
	require.Len(t, patterns, 4)

	tests := []struct {
		patternType string
		frequency   int
		risk        entities.RiskLevel
	}{
		{"event:transaction", 3, entities.RiskMedium},
		{"tag:late_payment", 3, entities.RiskHigh},
		{"combo:dispute+late_payment", 2, entities.RiskHigh},
		{"event:dispute", 2, entities.RiskHigh},
	}
	for i, tt := range tests {
		assert.Equal(t, tt.patternType, patterns[i].PatternType)
		assert.Equal(t, tt.frequency, patterns[i].Frequency)
		assert.Equal(t, tt.risk, patterns[i].RiskLevel)
	}
	assert.Equal(t, day(5), patterns[0].LastOccurrence)
	assert.Equal(t, day(3), patterns[1].LastOccurrence)
	assert.Equal(t, `2 dispute events tagged "late_payment" (2 negative)`, patterns[2].Description)
	assert.Equal(t, "Investigate recurring negative dispute late_payment activity before extending trust", patterns[2].Recommendation)
}

func TestDetectPatterns_Combinations(t *testing.T) {
	events := []entities.Event{
		{Type: entities.EventDispute, Outcome: entities.OutcomeNegative, Timestamp: day(1), Tags: []string{"fraud"}},
		{Type: entities.EventReview, Outcome: entities.OutcomeNegative, Timestamp: day(2), Tags: []string{"fraud"}},
		{Type: entities.EventDispute, Outcome: entities.OutcomeNegative, Timestamp: day(3)},
	}

	var types []string
	for _, p := range DetectPatterns(events, 2) {
		types = append(types, p.PatternType)
	}
	assert.ElementsMatch(t, []string{"event:dispute", "tag:fraud"}, types)
}

func TestDetectPatterns_PositiveOnly(t *testing.T) {
	_, events := communityLeader()
	patterns := DetectPatterns(events, 2)

	require.NotEmpty(t, patterns)
	for _, p := range patterns {
		assert.Equal(t, entities.RiskNone, p.RiskLevel)
		assert.Equal(t, "No action needed", p.Recommendation)
	}
}

func TestDetectPatterns_BelowThreshold(t *testing.T) {
	events := []entities.Event{
		{Type: entities.EventDispute, Outcome: entities.OutcomeNegative, Timestamp: day(1)},
	}
	assert.Empty(t, DetectPatterns(events, 2))
	assert.Empty(t, DetectPatterns(nil, 2))
}

func TestIntervalHalfWidth_NonIncreasing(t *testing.T) {
	prev := IntervalHalfWidth(0)
	assert.Equal(t, 25.0, prev)
	for n := 1; n < 100; n++ {
		w := IntervalHalfWidth(n)
		assert.LessOrEqual(t, w, prev)
		assert.GreaterOrEqual(t, w, 1.0)
		prev = w
	}
}

func TestConfidenceIntervals(t *testing.T) {
	entity, events := communityLeader()
	dims := entities.DimensionScores{Source: 97, Temporal: 65, Channel: 90, Outcome: 98, Network: 92, Justice: 99.9}

	intervals := ConfidenceIntervals(entity, events, dims, 0)
	require.Len(t, intervals, len(entities.AllDimensions))

	tests := []struct {
		dim     entities.Dimension
		support int
	}{
		{entities.DimensionSource, 3},
		{entities.DimensionTemporal, 0},
		{entities.DimensionChannel, 8},
		{entities.DimensionOutcome, 8},
		{entities.DimensionNetwork, 6},
		{entities.DimensionJustice, 8},
	}
	for _, tt := range tests {
		ci := intervals[tt.dim]
		assert.Equal(t, tt.support, ci.Support, tt.dim)
		assert.GreaterOrEqual(t, ci.Low, 0.0, tt.dim)
		assert.LessOrEqual(t, ci.High, 100.0, tt.dim)
		assert.LessOrEqual(t, ci.Low, dims.Value(tt.dim), tt.dim)
		assert.GreaterOrEqual(t, ci.High, dims.Value(tt.dim), tt.dim)
	}

	temporal := intervals[entities.DimensionTemporal]
	assert.Equal(t, 40.0, temporal.Low)
	assert.Equal(t, 90.0, temporal.High)
}

func TestEngine_Analyze(t *testing.T) {
	metrics := &mocks.Metrics{}
	e := NewEngine(WithMetrics(metrics))
	entity, events := reformedEntity()

	score, err := e.Score(t.Context(), entity, events, WithNow(day(90)))
	require.NoError(t, err)

	analysis, err := e.Analyze(t.Context(), entity, events, score.Dimensions, WithNow(day(90)))
	require.NoError(t, err)

	assert.NotEmpty(t, analysis.Insights)
	assert.NotEmpty(t, analysis.Patterns)
	assert.Len(t, analysis.Intervals, len(entities.AllDimensions))
	assert.Equal(t, 1, metrics.Analyses)
}

func TestEngine_Analyze_Errors(t *testing.T) {
	e := NewEngine()

	_, err := e.Analyze(t.Context(), nil, nil, entities.DimensionScores{})
	assert.ErrorIs(t, err, entities.ErrInvalidInput)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = e.Analyze(ctx, bareEntity("e1"), nil, entities.DimensionScores{})
	assert.ErrorIs(t, err, context.Canceled)
}
