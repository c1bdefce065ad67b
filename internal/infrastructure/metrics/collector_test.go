package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/ports"
)

var _ ports.Metrics = (*Collector)(nil)

func TestCollector_ObserveScore(t *testing.T) {
	c := NewCollector("trust")

	c.ObserveScore(&entities.TrustScore{Composite: 80, Level: entities.LevelL3, Metadata: entities.ScoreMetadata{LowConfidence: true}}, 0)
	c.ObserveScore(&entities.TrustScore{Composite: 95, Level: entities.LevelL4}, 0)
	c.ObserveScore(&entities.TrustScore{Composite: 85, Level: entities.LevelL3}, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.scoresTotal.WithLabelValues("L3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.scoresTotal.WithLabelValues("L4")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lowConfidence))
	assert.Equal(t, 1, testutil.CollectAndCount(c.compositeScore))
}

func TestCollector_Counters(t *testing.T) {
	c := NewCollector("trust")

	c.ObserveAnalysis(3, 2)
	c.ObserveAnalysis(1, 0)
	c.ObserveReplayPoint()
	c.ObserveReplayPoint()
	c.ObserveMalformed(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.analysesTotal))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.insightsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.patternsDetected))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.replayPoints))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.malformedEvents))
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector("trust")
	c.ObserveMalformed(2)

	path := filepath.Join(t.TempDir(), "trust.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "trust_malformed_events_total 2"))
}

func TestCollector_WriteTextfile_BadPath(t *testing.T) {
	c := NewCollector("trust")
	err := c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "trust.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing metrics file")
}
