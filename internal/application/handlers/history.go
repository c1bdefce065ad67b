package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ersonp/trust-core/internal/domain/entities"
	"github.com/ersonp/trust-core/internal/domain/services"
)

// DefaultTrendDays is the default lookback for trend reports.
const DefaultTrendDays = 30

// DefaultAuditLimit bounds audit queries across entities.
const DefaultAuditLimit = 50

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// HistoryHandler handles trend reports over recorded snapshots.
type HistoryHandler struct {
	history *services.HistoryService
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(history *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		history: history,
	}
}

// HistoryResult contains a trend report.
type HistoryResult struct {
	Trend    *entities.Trend       `json:"trend"`
	Recorded int                   `json:"recorded"`
	Audit    []entities.AuditEntry `json:"audit,omitempty"`
}

// Handle reports the trend of an entity over the last days.
func (h *HistoryHandler) Handle(ctx context.Context, entityID string, days int, withAudit bool) (*HistoryResult, error) {
	if h.history == nil {
		return nil, ErrHistoryUnavailable
	}
	if strings.TrimSpace(entityID) == "" {
		return nil, fmt.Errorf("%w: entity id is empty", entities.ErrInvalidInput)
	}
	if days <= 0 {
		days = DefaultTrendDays
	}

	since := timeNow().UTC().AddDate(0, 0, -days)
	trend, err := h.history.Trends(ctx, entityID, since)
	if err != nil {
		return nil, fmt.Errorf("computing trend: %w", err)
	}

	recorded, err := h.history.Count(ctx, entityID)
	if err != nil {
		return nil, err
	}

	result := &HistoryResult{Trend: trend, Recorded: recorded}
	if withAudit {
		audit, err := h.history.Audit(ctx, entityID)
		if err != nil {
			return nil, err
		}
		result.Audit = audit
	}
	return result, nil
}

// Audit returns the audit entries of one action across all entities.
func (h *HistoryHandler) Audit(ctx context.Context, action string, limit int) ([]entities.AuditEntry, error) {
	if h.history == nil {
		return nil, ErrHistoryUnavailable
	}
	if strings.TrimSpace(action) == "" {
		return nil, fmt.Errorf("%w: action is empty", entities.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	return h.history.AuditByAction(ctx, action, limit)
}
