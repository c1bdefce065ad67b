package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

func TestScorers_EmptyInputBaselines(t *testing.T) {
	in := ScoringInput{Entity: bareEntity("e1"), Now: day(30)}

	tests := []struct {
		dim      entities.Dimension
		expected float64
	}{
		{entities.DimensionSource, SourceBaseline},
		{entities.DimensionTemporal, TemporalBaseline},
		{entities.DimensionChannel, ChannelFloor},
		{entities.DimensionOutcome, OutcomeBaseline},
		{entities.DimensionNetwork, NetworkBaseline},
		{entities.DimensionJustice, JusticeBaseline},
	}

	for _, tt := range tests {
		t.Run(string(tt.dim), func(t *testing.T) {
			assert.Equal(t, tt.expected, dimensionScorers[tt.dim](in))
		})
	}
}

func TestScoreSource(t *testing.T) {
	tests := []struct {
		name     string
		entity   *entities.Entity
		expected float64
	}{
		{
			name:     "bare entity",
			entity:   bareEntity("e1"),
			expected: 35,
		},
		{
			name:     "verified identity and full transparency",
			entity:   &entities.Entity{ID: "e1", IdentityVerified: true, TransparencyLevel: 1},
			expected: 65,
		},
		{
			name: "pending counts half and unverified counts nothing",
			entity: &entities.Entity{ID: "e1", Credentials: []entities.Credential{
				{Type: entities.CredentialGovernmentID, Status: entities.StatusPending},
				{Type: entities.CredentialFinancial, Status: entities.StatusUnverified},
			}},
			expected: 42.5,
		},
		{
			name: "unknown credential type weighs as other",
			entity: &entities.Entity{ID: "e1", Credentials: []entities.Credential{
				{Type: "diploma_mill", Status: entities.StatusVerified},
			}},
			expected: 40,
		},
		{
			name: "capped at 100",
			entity: &entities.Entity{ID: "e1", IdentityVerified: true, TransparencyLevel: 1, Credentials: []entities.Credential{
				{Type: entities.CredentialGovernmentID, Status: entities.StatusVerified},
				{Type: entities.CredentialFinancial, Status: entities.StatusVerified},
				{Type: entities.CredentialProfessional, Status: entities.StatusVerified},
				{Type: entities.CredentialEducational, Status: entities.StatusVerified},
			}},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ScoreSource(ScoringInput{Entity: tt.entity}), 1e-9)
		})
	}
}

func TestScoreTemporal(t *testing.T) {
	tests := []struct {
		name     string
		history  []float64
		expected float64
	}{
		{name: "no history", history: nil, expected: 65},
		{name: "single snapshot", history: []float64{80}, expected: 65},
		{name: "perfectly stable", history: []float64{70, 70, 70}, expected: 100},
		{name: "mild variance", history: []float64{68, 72}, expected: 92},
		{name: "volatile history floors at zero", history: []float64{10, 90, 10, 90}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := ScoringInput{Entity: bareEntity("e1"), History: tt.history}
			assert.InDelta(t, tt.expected, ScoreTemporal(in), 1e-9)
		})
	}
}

func TestScoreChannel(t *testing.T) {
	tests := []struct {
		name     string
		channels []entities.Channel
		expected float64
	}{
		{name: "single anonymous channel uses floor", channels: []entities.Channel{entities.ChannelAnonymous}, expected: 45},
		{name: "duplicates count once", channels: []entities.Channel{entities.ChannelEmail, entities.ChannelEmail, "EMAIL"}, expected: 45},
		{name: "two strong channels", channels: []entities.Channel{entities.ChannelVerifiedAPI, entities.ChannelBlockchain}, expected: 50},
		{name: "capped at 100", channels: []entities.Channel{
			entities.ChannelVerifiedAPI, entities.ChannelBlockchain, entities.ChannelBankTransfer,
			entities.ChannelEmail, entities.ChannelPhone,
		}, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []entities.Event
			for i, ch := range tt.channels {
				events = append(events, entities.Event{Channel: ch, Outcome: entities.OutcomeNeutral, Timestamp: day(i + 1)})
			}
			assert.InDelta(t, tt.expected, ScoreChannel(ScoringInput{Entity: bareEntity("e1"), Events: events}), 1e-9)
		})
	}
}

func TestScoreOutcome(t *testing.T) {
	pos := entities.Event{Outcome: entities.OutcomePositive, ImpactScore: 4}
	neg := entities.Event{Outcome: entities.OutcomeNegative, ImpactScore: 4}

	t.Run("negative weighs more than positive", func(t *testing.T) {
		score := ScoreOutcome(ScoringInput{Entity: bareEntity("e1"), Events: []entities.Event{pos, neg}})
		assert.Less(t, score, OutcomeBaseline)
	})

	t.Run("positive only is above baseline", func(t *testing.T) {
		score := ScoreOutcome(ScoringInput{Entity: bareEntity("e1"), Events: []entities.Event{pos}})
		assert.InDelta(t, 50+50*math.Tanh(4.0/20), score, 1e-9)
	})

	t.Run("amount adds log-scaled weight", func(t *testing.T) {
		paid := pos
		paid.Metadata = map[string]any{"amount": 999.0}
		score := ScoreOutcome(ScoringInput{Entity: bareEntity("e1"), Events: []entities.Event{paid}})
		assert.InDelta(t, 50+50*math.Tanh(7.0/20), score, 1e-9)
	})

	t.Run("neutral events have no effect", func(t *testing.T) {
		score := ScoreOutcome(ScoringInput{Entity: bareEntity("e1"), Events: []entities.Event{{Outcome: entities.OutcomeNeutral, ImpactScore: 50}}})
		assert.Equal(t, OutcomeBaseline, score)
	})
}

func TestScoreNetwork(t *testing.T) {
	entity, _ := communityLeader()
	score := ScoreNetwork(ScoringInput{Entity: entity})

	q := 0.35 + 0.20 + 0.30*0.85 + 0.15*math.Log10(41)/3
	assert.InDelta(t, 30+70*q, score, 1e-9)

	single := &entities.Entity{ID: "e1", Connections: []entities.Connection{{EntityID: "x", Type: "business", TrustScore: 50}}}
	assert.Greater(t, ScoreNetwork(ScoringInput{Entity: single}), NetworkBaseline)
	assert.Less(t, ScoreNetwork(ScoringInput{Entity: single}), score)
}

func TestScoreJustice(t *testing.T) {
	dispute := entities.Event{Type: entities.EventDispute, Outcome: entities.OutcomeNegative, Timestamp: day(1)}
	resolution := entities.Event{Type: entities.EventDisputeResolution, Outcome: entities.OutcomePositive, Timestamp: day(5)}
	earlyResolution := resolution
	earlyResolution.Timestamp = day(0)

	tests := []struct {
		name   string
		events []entities.Event
		net    float64
	}{
		{name: "no events", events: nil, net: 0},
		{name: "unresolved dispute", events: []entities.Event{dispute}, net: -6},
		{name: "dispute resolved later costs half", events: []entities.Event{dispute, resolution}, net: -3 + 10},
		{name: "resolution before dispute does not halve", events: []entities.Event{earlyResolution, dispute}, net: 10 - 6},
		{name: "violation on negative event", events: []entities.Event{{Type: entities.EventTransaction, Outcome: entities.OutcomeNegative, Tags: []string{"Violation"}}}, net: -4},
		{name: "failed resolution", events: []entities.Event{{Type: entities.EventDisputeResolution, Outcome: entities.OutcomeNegative}}, net: -5},
		{name: "tags capped per event", events: []entities.Event{{
			Type:    entities.EventAchievement,
			Outcome: entities.OutcomePositive,
			Tags:    []string{"justice", "fairness", "mediation", "accountability", "restorative"},
		}}, net: 12},
		{name: "tags on negative events earn nothing", events: []entities.Event{{
			Type:    entities.EventAchievement,
			Outcome: entities.OutcomeNegative,
			Tags:    []string{"justice"},
		}}, net: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ScoreJustice(ScoringInput{Entity: bareEntity("e1"), Events: tt.events})
			assert.InDelta(t, 50+50*math.Tanh(tt.net/25), score, 1e-9)
		})
	}
}

func TestScorers_ExtremeInputsStayInRange(t *testing.T) {
	var events []entities.Event
	for i := 0; i < 200; i++ {
		events = append(events,
			entities.Event{Type: entities.EventDispute, Outcome: entities.OutcomeNegative, ImpactScore: 1e6, Tags: []string{"violation"}, Timestamp: day(i + 1), Channel: entities.ChannelAnonymous},
			entities.Event{Type: entities.EventAchievement, Outcome: entities.OutcomePositive, ImpactScore: -1e9, Metadata: map[string]any{"amount": 1e12}, Timestamp: day(i + 1)},
		)
	}
	entity := &entities.Entity{ID: "e1", Connections: []entities.Connection{{EntityID: "x", TrustScore: 1e6, InteractionCount: 1 << 30}}}
	in := ScoringInput{Entity: entity, Events: events, History: []float64{0, 100, 0, 100}}

	for dim, scorer := range dimensionScorers {
		v := scorer(in)
		assert.GreaterOrEqual(t, v, 0.0, dim)
		assert.LessOrEqual(t, v, 100.0, dim)
	}
}

func TestIsJusticeRelevant(t *testing.T) {
	assert.True(t, isJusticeRelevant(&entities.Event{Type: entities.EventDispute}))
	assert.True(t, isJusticeRelevant(&entities.Event{Type: entities.EventReview, Tags: []string{"fairness"}}))
	assert.True(t, isJusticeRelevant(&entities.Event{Type: entities.EventReview, Tags: []string{"violation"}}))
	assert.False(t, isJusticeRelevant(&entities.Event{Type: entities.EventTransaction, Tags: []string{"invoice"}}))
}
