package services

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

// Weights is a linear recombination of the six dimensions and the
// composite. A valid set of weights sums to 1.
type Weights struct {
	Source    float64 `json:"source" yaml:"source"`
	Temporal  float64 `json:"temporal" yaml:"temporal"`
	Channel   float64 `json:"channel" yaml:"channel"`
	Outcome   float64 `json:"outcome" yaml:"outcome"`
	Network   float64 `json:"network" yaml:"network"`
	Justice   float64 `json:"justice" yaml:"justice"`
	Composite float64 `json:"composite" yaml:"composite"`
}

// ChittyWeights returns the canonical chitty recombination.
func ChittyWeights() Weights {
	return Weights{Justice: 0.40, Outcome: 0.30, Composite: 0.20, Source: 0.10}
}

// PeopleWeights returns the people-facing recombination.
func PeopleWeights() Weights {
	return Weights{Network: 0.35, Outcome: 0.25, Channel: 0.15, Composite: 0.25}
}

// LegalWeights returns the legal recombination.
func LegalWeights() Weights {
	return Weights{Source: 0.35, Temporal: 0.30, Justice: 0.15, Composite: 0.20}
}

// StateWeights returns the state recombination.
func StateWeights() Weights {
	return Weights{Source: 0.50, Temporal: 0.15, Channel: 0.15, Composite: 0.20}
}

func (w Weights) vector() []float64 {
	return []float64{w.Source, w.Temporal, w.Channel, w.Outcome, w.Network, w.Justice, w.Composite}
}

// Validate checks that no weight is negative and that the weights sum to 1.
func (w Weights) Validate() error {
	v := w.vector()
	if floats.Min(v) < 0 {
		return fmt.Errorf("%w: negative weight", entities.ErrInvalidInput)
	}
	if sum := floats.Sum(v); math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("%w: weights sum to %.4f, want 1", entities.ErrInvalidInput, sum)
	}
	return nil
}

// Apply combines dimension scores and composite, clamped to [0,100].
func (w Weights) Apply(d entities.DimensionScores, composite float64) float64 {
	return clamp(floats.Dot(w.vector(), append(d.Values(), composite)))
}

// Synthesize returns the composite (unweighted mean) and the named outputs.
func Synthesize(d entities.DimensionScores) (float64, entities.OutputScores) {
	composite := clamp(stat.Mean(d.Values(), nil))
	return composite, entities.OutputScores{
		People: PeopleWeights().Apply(d, composite),
		Legal:  LegalWeights().Apply(d, composite),
		State:  StateWeights().Apply(d, composite),
		Chitty: ChittyWeights().Apply(d, composite),
	}
}

// LevelFor maps a score to its trust tier.
func LevelFor(score float64) entities.TrustLevel {
	switch {
	case score >= 90:
		return entities.LevelL4
	case score >= 75:
		return entities.LevelL3
	case score >= 50:
		return entities.LevelL2
	case score >= 25:
		return entities.LevelL1
	default:
		return entities.LevelL0
	}
}

// LowConfidenceThreshold is the event count below which a score is
// flagged as degraded.
const LowConfidenceThreshold = 3

// ConfidenceFor returns the metadata confidence for n well-formed events.
// It starts at 0.2 and saturates below 0.95.
func ConfidenceFor(n int) float64 {
	return 0.2 + 0.75*(1-math.Exp(-float64(n)/8))
}
