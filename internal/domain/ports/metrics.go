package ports

import (
	"time"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

// Metrics records engine activity. Implementations must be safe for
// concurrent use.
type Metrics interface {
	ObserveScore(score *entities.TrustScore, elapsed time.Duration)
	ObserveAnalysis(insights, patterns int)
	ObserveReplayPoint()
	ObserveMalformed(count int)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

// ObserveScore does nothing.
func (NopMetrics) ObserveScore(*entities.TrustScore, time.Duration) {}

// ObserveAnalysis does nothing.
func (NopMetrics) ObserveAnalysis(int, int) {}

// ObserveReplayPoint does nothing.
func (NopMetrics) ObserveReplayPoint() {}

// ObserveMalformed does nothing.
func (NopMetrics) ObserveMalformed(int) {}
