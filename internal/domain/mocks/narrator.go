package mocks

import (
	"context"

	"github.com/ersonp/trust-core/internal/domain/ports"
)

// Narrator is a mock implementation of ports.Narrator.
type Narrator struct {
	Summary string
	Err     error

	// LastRequest is the most recent request received.
	LastRequest ports.NarrationRequest
}

// Summarize returns the configured summary or error.
func (m *Narrator) Summarize(_ context.Context, req ports.NarrationRequest) (string, error) {
	m.LastRequest = req
	if m.Err != nil {
		return "", m.Err
	}
	return m.Summary, nil
}
