// Package services contains the trust scoring core and the services that
// wrap it around external collaborators.
package services

import (
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

// Baseline scores returned when a scorer has no evidence to work with.
const (
	SourceBaseline   = 35.0
	TemporalBaseline = 65.0
	ChannelFloor     = 45.0
	OutcomeBaseline  = 50.0
	NetworkBaseline  = 30.0
	JusticeBaseline  = 50.0
)

// ScoringInput is the read-only input shared by every scorer.
type ScoringInput struct {
	Entity *entities.Entity
	Events []entities.Event
	// History is the series of prior composite scores, oldest first.
	History []float64
	Now     time.Time
}

// Scorer reduces an input to a score in [0,100]. Scorers are pure and
// never fail.
type Scorer func(in ScoringInput) float64

// dimensionScorers maps each dimension to its scorer.
var dimensionScorers = map[entities.Dimension]Scorer{
	entities.DimensionSource:   ScoreSource,
	entities.DimensionTemporal: ScoreTemporal,
	entities.DimensionChannel:  ScoreChannel,
	entities.DimensionOutcome:  ScoreOutcome,
	entities.DimensionNetwork:  ScoreNetwork,
	entities.DimensionJustice:  ScoreJustice,
}

var credentialWeights = map[entities.CredentialType]float64{
	entities.CredentialGovernmentID: 15,
	entities.CredentialFinancial:    12,
	entities.CredentialProfessional: 10,
	entities.CredentialEducational:  8,
	entities.CredentialOther:        5,
}

// ScoreSource scores identity verification, transparency and credentials.
func ScoreSource(in ScoringInput) float64 {
	e := in.Entity
	score := SourceBaseline
	if e.IdentityVerified {
		score += 20
	}
	score += 10 * e.TransparencyLevel

	for _, c := range e.Credentials {
		w, ok := credentialWeights[c.Type]
		if !ok {
			w = credentialWeights[entities.CredentialOther]
		}
		switch c.Status {
		case entities.StatusVerified:
			score += w
		case entities.StatusPending:
			score += w / 2
		}
	}

	return clamp(score)
}

// ScoreTemporal scores the stability of prior composite scores. Fewer than
// two snapshots yield the baseline.
func ScoreTemporal(in ScoringInput) float64 {
	if len(in.History) < 2 {
		return TemporalBaseline
	}
	return clamp(100 - 2*stat.PopVariance(in.History, nil))
}

// ScoreChannel scores the reliability of the distinct channels events
// arrived through.
func ScoreChannel(in ScoringInput) float64 {
	seen := make(map[entities.Channel]struct{}, len(in.Events))
	var total float64
	for _, ev := range in.Events {
		ch := entities.Channel(strings.ToLower(string(ev.Channel)))
		if ch == "" {
			continue
		}
		if _, ok := seen[ch]; ok {
			continue
		}
		seen[ch] = struct{}{}
		total += ch.Reliability()
	}
	return math.Max(ChannelFloor, math.Min(100, 25*total))
}

// ScoreOutcome scores the balance of positive and negative outcomes.
// Negative events weigh one and a half times a positive event of equal size.
func ScoreOutcome(in ScoringInput) float64 {
	var net float64
	for i := range in.Events {
		ev := &in.Events[i]
		m := ev.Magnitude() + math.Log10(1+ev.Amount())
		switch ev.Outcome {
		case entities.OutcomePositive:
			net += m
		case entities.OutcomeNegative:
			net -= 1.5 * m
		}
	}
	return clamp(OutcomeBaseline + 50*math.Tanh(net/outcomeSensitivity))
}

// ScoreNetwork scores the size, diversity and quality of one-hop connections.
func ScoreNetwork(in ScoringInput) float64 {
	conns := in.Entity.Connections
	if len(conns) == 0 {
		return NetworkBaseline
	}

	var trust, interactions float64
	for _, c := range conns {
		trust += c.TrustScore
		interactions += float64(c.InteractionCount)
	}
	n := float64(len(conns))
	avgTrust := trust / n
	avgInteractions := interactions / n

	q := 0.35*math.Min(1, n/5) +
		0.20*math.Min(1, float64(in.Entity.ConnectionTypes())/4) +
		0.30*clamp(avgTrust)/100 +
		0.15*math.Min(1, math.Log10(1+avgInteractions)/3)

	return clamp(NetworkBaseline + 70*q)
}

// justiceTags are the tags that mark an event as justice-aligned.
var justiceTags = []string{
	"justice",
	"fairness",
	"mediation",
	"accountability",
	"transparency",
	"helped_vulnerable",
	"community_impact",
	"restorative",
}

const (
	justiceTagWeight   = 4.0
	justiceTagCap      = 12.0
	resolutionReward   = 10.0
	resolutionPenalty  = 5.0
	disputePenalty     = 6.0
	violationPenalty   = 4.0
	justiceSensitivity = 25.0
	outcomeSensitivity = 20.0
	violationTag       = "violation"
)

// ScoreJustice scores alignment with fairness and restorative behavior.
// A dispute followed by a later successful resolution costs half as much.
func ScoreJustice(in ScoringInput) float64 {
	var lastResolution time.Time
	for _, ev := range in.Events {
		if ev.Type == entities.EventDisputeResolution && ev.Outcome == entities.OutcomePositive &&
			ev.Timestamp.After(lastResolution) {
			lastResolution = ev.Timestamp
		}
	}

	var net float64
	for i := range in.Events {
		ev := &in.Events[i]
		switch ev.Outcome {
		case entities.OutcomePositive:
			net += math.Min(justiceTagCap, justiceTagWeight*float64(justiceTagCount(ev)))
			if ev.Type == entities.EventDisputeResolution {
				net += resolutionReward
			}
		case entities.OutcomeNegative:
			switch ev.Type {
			case entities.EventDisputeResolution:
				net -= resolutionPenalty
			case entities.EventDispute:
				penalty := disputePenalty
				if lastResolution.After(ev.Timestamp) {
					penalty /= 2
				}
				net -= penalty
			}
			if ev.HasTag(violationTag) {
				net -= violationPenalty
			}
		}
	}
	return clamp(JusticeBaseline + 50*math.Tanh(net/justiceSensitivity))
}

func justiceTagCount(ev *entities.Event) int {
	count := 0
	for _, tag := range justiceTags {
		if ev.HasTag(tag) {
			count++
		}
	}
	return count
}

// isJusticeRelevant reports whether an event carries evidence the justice
// scorer reacts to.
func isJusticeRelevant(ev *entities.Event) bool {
	if ev.Type == entities.EventDispute || ev.Type == entities.EventDisputeResolution {
		return true
	}
	return justiceTagCount(ev) > 0 || ev.HasTag(violationTag)
}

// clamp bounds a score to [0,100]. NaN collapses to 0.
func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
