// Package metrics records engine activity as Prometheus metrics.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

// Collector implements ports.Metrics on a private registry.
type Collector struct {
	registry *prometheus.Registry

	scoresTotal      *prometheus.CounterVec
	scoreDuration    prometheus.Histogram
	compositeScore   prometheus.Histogram
	chittyScore      prometheus.Histogram
	lowConfidence    prometheus.Counter
	malformedEvents  prometheus.Counter
	replayPoints     prometheus.Counter
	analysesTotal    prometheus.Counter
	insightsTotal    prometheus.Counter
	patternsDetected prometheus.Counter
}

// NewCollector creates a collector whose metric names are prefixed with
// namespace.
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	scoreBuckets := prometheus.LinearBuckets(10, 10, 10)

	return &Collector{
		registry: reg,

		// Scoring metrics
		scoresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scores_total",
				Help:      "Total number of trust scores computed",
			},
			[]string{"level"},
		),
		scoreDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "score_duration_seconds",
				Help:      "Time taken to compute a trust score",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
		compositeScore: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "composite_score",
				Help:      "Distribution of composite trust scores",
				Buckets:   scoreBuckets,
			},
		),
		chittyScore: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "chitty_score",
				Help:      "Distribution of chitty scores",
				Buckets:   scoreBuckets,
			},
		),
		lowConfidence: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "low_confidence_scores_total",
				Help:      "Scores computed from too few events",
			},
		),
		malformedEvents: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "malformed_events_total",
				Help:      "Events neutralized because they were malformed",
			},
		),

		// Replay and analytics metrics
		replayPoints: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "replay_points_total",
				Help:      "Replay points emitted",
			},
		),
		analysesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analyses_total",
				Help:      "Analytics runs completed",
			},
		),
		insightsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "insights_total",
				Help:      "Insights generated",
			},
		),
		patternsDetected: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "patterns_detected_total",
				Help:      "Behavioral patterns detected",
			},
		),
	}
}

// Registry returns the registry the collector registers on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveScore records a computed score.
func (c *Collector) ObserveScore(score *entities.TrustScore, elapsed time.Duration) {
	c.scoresTotal.WithLabelValues(string(score.Level)).Inc()
	c.scoreDuration.Observe(elapsed.Seconds())
	c.compositeScore.Observe(score.Composite)
	c.chittyScore.Observe(score.Outputs.Chitty)
	if score.Metadata.LowConfidence {
		c.lowConfidence.Inc()
	}
}

// ObserveAnalysis records an analytics run.
func (c *Collector) ObserveAnalysis(insights, patterns int) {
	c.analysesTotal.Inc()
	c.insightsTotal.Add(float64(insights))
	c.patternsDetected.Add(float64(patterns))
}

// ObserveReplayPoint records one emitted replay point.
func (c *Collector) ObserveReplayPoint() {
	c.replayPoints.Inc()
}

// ObserveMalformed records neutralized events.
func (c *Collector) ObserveMalformed(count int) {
	c.malformedEvents.Add(float64(count))
}

// WriteTextfile writes all metrics to path in the Prometheus text format,
// suitable for the node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}
	return nil
}
