package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/services"
)

// ForgetHandler removes an entity's profile from the similarity index.
type ForgetHandler struct {
	profiles *services.ProfileService
}

// NewForgetHandler creates a new forget handler. profiles may be nil.
func NewForgetHandler(profiles *services.ProfileService) *ForgetHandler {
	return &ForgetHandler{
		profiles: profiles,
	}
}

// Handle deletes the indexed profile of entityID. Removing an entity that
// was never indexed is not an error.
func (h *ForgetHandler) Handle(ctx context.Context, entityID string) error {
	if h.profiles == nil {
		return ErrProfilesUnavailable
	}
	if strings.TrimSpace(entityID) == "" {
		return fmt.Errorf("%w: entity id is empty", entities.ErrInvalidInput)
	}
	return h.profiles.Remove(ctx, entityID)
}
