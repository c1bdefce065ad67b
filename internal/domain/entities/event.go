package entities

import (
	"math"
	"strings"
	"time"
)

// EventType represents the category of an observed occurrence.
// The set is open; unknown types are scored like any other event.
type EventType string

const (
	EventAchievement       EventType = "achievement"
	EventDispute           EventType = "dispute"
	EventDisputeResolution EventType = "dispute_resolution"
	EventTransaction       EventType = "transaction"
	EventEndorsement       EventType = "endorsement"
	EventVerification      EventType = "verification"
	EventReview            EventType = "review"
	EventCollaboration     EventType = "collaboration"
)

// Channel is how an event was observed.
type Channel string

const (
	ChannelVerifiedAPI  Channel = "verified_api"
	ChannelBlockchain   Channel = "blockchain"
	ChannelBankTransfer Channel = "bank_transfer"
	ChannelEmail        Channel = "email"
	ChannelPhone        Channel = "phone"
	ChannelSocialMedia  Channel = "social_media"
	ChannelAnonymous    Channel = "anonymous"
)

// Reliability returns the assumed reliability of the channel in [0,1].
func (c Channel) Reliability() float64 {
	switch Channel(strings.ToLower(string(c))) {
	case ChannelVerifiedAPI, ChannelBlockchain:
		return 1.0
	case ChannelBankTransfer:
		return 0.9
	case ChannelEmail, ChannelPhone:
		return 0.7
	case ChannelSocialMedia:
		return 0.5
	case ChannelAnonymous:
		return 0.3
	default:
		return 0.5
	}
}

// Outcome is the polarity of an event.
type Outcome string

const (
	OutcomePositive Outcome = "positive"
	OutcomeNegative Outcome = "negative"
	OutcomeNeutral  Outcome = "neutral"
)

// Event is a single immutable observation about an entity.
type Event struct {
	ID          string         `json:"id"`
	EntityID    string         `json:"entity_id"`
	Type        EventType      `json:"event_type"`
	Timestamp   time.Time      `json:"timestamp"`
	Channel     Channel        `json:"channel"`
	Outcome     Outcome        `json:"outcome"`
	ImpactScore float64        `json:"impact_score"`
	Tags        []string       `json:"tags,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// HasTag reports whether the event carries the tag, ignoring case.
func (e *Event) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Magnitude returns the absolute impact, or 1 when no impact was supplied.
func (e *Event) Magnitude() float64 {
	if e.ImpactScore == 0 {
		return 1
	}
	return math.Abs(e.ImpactScore)
}

// Amount returns the numeric "amount" or "reward_amount" metadata value,
// or 0 when neither is present.
func (e *Event) Amount() float64 {
	for _, key := range []string{"amount", "reward_amount"} {
		v, ok := e.Metadata[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return math.Abs(n)
		case float32:
			return math.Abs(float64(n))
		case int:
			return math.Abs(float64(n))
		case int64:
			return math.Abs(float64(n))
		}
	}
	return 0
}

// Description returns the "description" metadata value if it is a string.
func (e *Event) Description() string {
	if s, ok := e.Metadata["description"].(string); ok {
		return s
	}
	return ""
}

// IsMalformed reports whether the event lacks a field scoring depends on,
// or predates the entity it is attributed to.
func (e *Event) IsMalformed(entityCreatedAt time.Time) bool {
	if e.Outcome == "" || e.Timestamp.IsZero() {
		return true
	}
	return !entityCreatedAt.IsZero() && e.Timestamp.Before(entityCreatedAt)
}

// Neutralized returns a copy of the event with neutral outcome and no impact.
func (e Event) Neutralized() Event {
	e.Outcome = OutcomeNeutral
	e.ImpactScore = 0
	e.Metadata = nil
	return e
}
