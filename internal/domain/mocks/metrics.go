package mocks

import (
	"sync"
	"time"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

// Metrics is a mock implementation of ports.Metrics that counts calls.
type Metrics struct {
	mu sync.Mutex

	Scores       int
	Analyses     int
	ReplayPoints int
	Malformed    int
}

// ObserveScore counts a score.
func (m *Metrics) ObserveScore(_ *entities.TrustScore, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Scores++
}

// ObserveAnalysis counts an analysis.
func (m *Metrics) ObserveAnalysis(_, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Analyses++
}

// ObserveReplayPoint counts a replay point.
func (m *Metrics) ObserveReplayPoint() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplayPoints++
}

// ObserveMalformed adds to the malformed event count.
func (m *Metrics) ObserveMalformed(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Malformed += count
}
