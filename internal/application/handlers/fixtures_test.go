package handlers

import (
	"fmt"
	"time"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return epoch.AddDate(0, 0, n)
}

// leaderBundle is a verified entity with a run of justice-aligned wins.
func leaderBundle() *entities.Bundle {
	entity := &entities.Entity{
		ID:                "alice",
		Kind:              entities.EntityKindPerson,
		Name:              "Alice",
		CreatedAt:         epoch,
		IdentityVerified:  true,
		TransparencyLevel: 0.9,
		Credentials: []entities.Credential{
			{Type: entities.CredentialGovernmentID, Issuer: "State", IssuedAt: day(1), Status: entities.StatusVerified},
			{Type: entities.CredentialProfessional, Issuer: "Bar Association", IssuedAt: day(2), Status: entities.StatusVerified},
		},
		Connections: []entities.Connection{
			{EntityID: "c1", Type: "civic", TrustScore: 85, InteractionCount: 40},
			{EntityID: "c2", Type: "business", TrustScore: 80, InteractionCount: 25},
		},
	}

	var events []entities.Event
	for i := 0; i < 6; i++ {
		events = append(events, entities.Event{
			ID:          fmt.Sprintf("alice-%d", i),
			EntityID:    "alice",
			Type:        entities.EventAchievement,
			Timestamp:   day(10 + i*7),
			Channel:     entities.ChannelVerifiedAPI,
			Outcome:     entities.OutcomePositive,
			ImpactScore: 5,
			Tags:        []string{"justice", "community_impact"},
		})
	}
	return &entities.Bundle{Entity: entity, Events: events}
}

// disputedBundle is an unverified entity with a negative record.
func disputedBundle() *entities.Bundle {
	entity := &entities.Entity{
		ID:                "dave",
		Kind:              entities.EntityKindPerson,
		Name:              "Dave",
		CreatedAt:         epoch,
		TransparencyLevel: 0.2,
	}

	var events []entities.Event
	for i := 0; i < 4; i++ {
		events = append(events, entities.Event{
			ID:          fmt.Sprintf("dave-%d", i),
			EntityID:    "dave",
			Type:        entities.EventDispute,
			Timestamp:   day(5 + i*3),
			Channel:     entities.ChannelAnonymous,
			Outcome:     entities.OutcomeNegative,
			ImpactScore: 4,
			Tags:        []string{"violation"},
		})
	}
	return &entities.Bundle{Entity: entity, Events: events}
}
