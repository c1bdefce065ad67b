package parsers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

// JSONParser parses events from a JSON array.
type JSONParser struct{}

// Parse reads JSON from the reader and returns parsed events.
func (p *JSONParser) Parse(r io.Reader) ([]entities.Event, error) {
	var events []entities.Event

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&events); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	return events, nil
}

// ParseBundle reads a bundle object: an entity with its events and any
// prior snapshots. Events without an entity id are attributed to the entity.
func ParseBundle(r io.Reader) (*entities.Bundle, error) {
	var raw entities.Bundle

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing bundle: %w", err)
	}
	if raw.Entity == nil {
		return nil, fmt.Errorf("%w: bundle has no entity", entities.ErrInvalidInput)
	}

	events := raw.Events
	raw.Events = nil
	if err := attachEvents(&raw, events); err != nil {
		return nil, err
	}
	for i := range raw.History {
		if raw.History[i].EntityID == "" {
			raw.History[i].EntityID = raw.Entity.ID
		}
	}

	return &raw, nil
}

// attachEvents appends events to the bundle, rejecting events that belong
// to another entity.
func attachEvents(b *entities.Bundle, events []entities.Event) error {
	for i, ev := range events {
		switch ev.EntityID {
		case "":
			ev.EntityID = b.Entity.ID
		case b.Entity.ID:
		default:
			return fmt.Errorf("%w: event %d belongs to entity %q, not %q", entities.ErrInvalidInput, i+1, ev.EntityID, b.Entity.ID)
		}
		b.Events = append(b.Events, ev)
	}
	return nil
}
