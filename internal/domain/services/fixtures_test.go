package services

import (
	"time"

	"github.com/ersonp/trust-core/internal/domain/entities"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return epoch.AddDate(0, 0, n)
}

// bareEntity has no credentials, connections or verification.
func bareEntity(id string) *entities.Entity {
	return &entities.Entity{
		ID:        id,
		Kind:      entities.EntityKindPerson,
		CreatedAt: epoch,
	}
}

// communityLeader is a verified, well-connected entity with a record of
// justice-aligned positive events.
func communityLeader() (*entities.Entity, []entities.Event) {
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
			{Type: entities.CredentialEducational, Issuer: "University", IssuedAt: day(3), Status: entities.StatusVerified},
		},
		Connections: []entities.Connection{
			{EntityID: "c1", Type: "civic", TrustScore: 85, InteractionCount: 40},
			{EntityID: "c2", Type: "civic", TrustScore: 85, InteractionCount: 40},
			{EntityID: "c3", Type: "business", TrustScore: 85, InteractionCount: 40},
			{EntityID: "c4", Type: "mentorship", TrustScore: 85, InteractionCount: 40},
			{EntityID: "c5", Type: "family", TrustScore: 85, InteractionCount: 40},
			{EntityID: "c6", Type: "business", TrustScore: 85, InteractionCount: 40},
		},
	}

	channels := []entities.Channel{
		entities.ChannelVerifiedAPI,
		entities.ChannelBlockchain,
		entities.ChannelEmail,
		entities.ChannelBankTransfer,
	}
	var events []entities.Event
	for i := 0; i < 8; i++ {
		events = append(events, entities.Event{
			ID:          "alice-" + string(rune('a'+i)),
			EntityID:    "alice",
			Type:        entities.EventAchievement,
			Timestamp:   day(10 + i*7),
			Channel:     channels[i%len(channels)],
			Outcome:     entities.OutcomePositive,
			ImpactScore: 5,
			Tags:        []string{"justice", "community_impact", "mediation"},
		})
	}
	return entity, events
}

// reformedEntity starts with disputes and a violation, resolves them and
// then builds a positive record.
func reformedEntity() (*entities.Entity, []entities.Event) {
	entity := &entities.Entity{
		ID:                "charlie",
		Kind:              entities.EntityKindPerson,
		Name:              "Charlie",
		CreatedAt:         epoch,
		TransparencyLevel: 0.4,
	}
	ev := func(i int, typ entities.EventType, ch entities.Channel, out entities.Outcome, impact float64, tags ...string) entities.Event {
		return entities.Event{
			ID:          "charlie-" + string(rune('a'+i)),
			EntityID:    "charlie",
			Type:        typ,
			Timestamp:   day(10 * (i + 1)),
			Channel:     ch,
			Outcome:     out,
			ImpactScore: impact,
			Tags:        tags,
		}
	}
	events := []entities.Event{
		ev(0, entities.EventDispute, entities.ChannelEmail, entities.OutcomeNegative, 4, "violation"),
		ev(1, entities.EventDispute, entities.ChannelEmail, entities.OutcomeNegative, 3),
		ev(2, entities.EventTransaction, entities.ChannelBankTransfer, entities.OutcomeNegative, 2),
		ev(3, entities.EventDisputeResolution, entities.ChannelVerifiedAPI, entities.OutcomePositive, 5, "restorative", "accountability"),
		ev(4, entities.EventAchievement, entities.ChannelVerifiedAPI, entities.OutcomePositive, 6, "community_impact"),
		ev(5, entities.EventEndorsement, entities.ChannelBlockchain, entities.OutcomePositive, 4, "fairness"),
		ev(6, entities.EventCollaboration, entities.ChannelEmail, entities.OutcomePositive, 5, "mediation", "justice"),
	}
	return entity, events
}

// personaNow anchors the persona fixtures; their timestamps are given in
// days before it.
var personaNow = day(2500)

func daysAgo(n int) time.Time {
	return personaNow.AddDate(0, 0, -n)
}

// alicePersona is the community leader: five positive, community-oriented
// events of mixed types.
func alicePersona() (*entities.Entity, []entities.Event) {
	entity := &entities.Entity{
		ID:                "alice_community",
		Kind:              entities.EntityKindPerson,
		Name:              "Alice Community",
		CreatedAt:         daysAgo(1095),
		IdentityVerified:  true,
		TransparencyLevel: 0.9,
		Credentials: []entities.Credential{
			{Type: entities.CredentialGovernmentID, Issuer: "State of Illinois", IssuedAt: daysAgo(900), Status: entities.StatusVerified},
			{Type: entities.CredentialProfessional, Issuer: "Community Leadership Certificate", IssuedAt: daysAgo(600), Status: entities.StatusVerified},
			{Type: entities.CredentialEducational, Issuer: "University of Chicago", IssuedAt: daysAgo(2000), Status: entities.StatusVerified},
		},
		Connections: []entities.Connection{
			{EntityID: "nonprofit_org_1", Type: "leadership", EstablishedAt: daysAgo(800), TrustScore: 92, InteractionCount: 150},
			{EntityID: "local_government", Type: "civic_engagement", EstablishedAt: daysAgo(600), TrustScore: 88, InteractionCount: 75},
			{EntityID: "community_members", Type: "community", EstablishedAt: daysAgo(1000), TrustScore: 94, InteractionCount: 300},
		},
	}
	events := []entities.Event{
		{ID: "alice_evt_1", EntityID: entity.ID, Type: entities.EventAchievement, Timestamp: daysAgo(30), Channel: entities.ChannelVerifiedAPI,
			Outcome: entities.OutcomePositive, ImpactScore: 8.5, Tags: []string{"community_impact", "justice", "helped_vulnerable"}},
		{ID: "alice_evt_2", EntityID: entity.ID, Type: entities.EventCollaboration, Timestamp: daysAgo(60), Channel: entities.ChannelBlockchain,
			Outcome: entities.OutcomePositive, ImpactScore: 7.2, Tags: []string{"transparency", "community_impact"}},
		{ID: "alice_evt_3", EntityID: entity.ID, Type: entities.EventDisputeResolution, Timestamp: daysAgo(90), Channel: entities.ChannelEmail,
			Outcome: entities.OutcomePositive, ImpactScore: 6.8, Tags: []string{"justice", "fairness", "mediation"}},
		{ID: "alice_evt_4", EntityID: entity.ID, Type: entities.EventEndorsement, Timestamp: daysAgo(45), Channel: entities.ChannelSocialMedia,
			Outcome: entities.OutcomePositive, ImpactScore: 5.5, Tags: []string{"community", "endorsement"}},
		{ID: "alice_evt_5", EntityID: entity.ID, Type: entities.EventVerification, Timestamp: daysAgo(15), Channel: entities.ChannelVerifiedAPI,
			Outcome: entities.OutcomePositive, ImpactScore: 4.0, Tags: []string{"transparency", "accountability"}},
	}
	return entity, events
}

// charliePersona is the reform story: one early negative dispute followed
// by four positive events.
func charliePersona() (*entities.Entity, []entities.Event) {
	entity := &entities.Entity{
		ID:                "charlie_changed",
		Kind:              entities.EntityKindPerson,
		Name:              "Charlie Changed",
		CreatedAt:         daysAgo(2190),
		IdentityVerified:  true,
		TransparencyLevel: 0.8,
		Credentials: []entities.Credential{
			{Type: entities.CredentialGovernmentID, Issuer: "State of Illinois", IssuedAt: daysAgo(2000), Status: entities.StatusVerified},
			{Type: entities.CredentialEducational, Issuer: "Community College Certificate", IssuedAt: daysAgo(365), Status: entities.StatusVerified},
		},
		Connections: []entities.Connection{
			{EntityID: "support_group", Type: "recovery", EstablishedAt: daysAgo(730), TrustScore: 85, InteractionCount: 100},
			{EntityID: "mentor", Type: "mentorship", EstablishedAt: daysAgo(500), TrustScore: 90, InteractionCount: 50},
			{EntityID: "employer", Type: "employment", EstablishedAt: daysAgo(400), TrustScore: 78, InteractionCount: 80},
		},
	}
	events := []entities.Event{
		{ID: "charlie_evt_1", EntityID: entity.ID, Type: entities.EventDispute, Timestamp: daysAgo(1800), Channel: entities.ChannelAnonymous,
			Outcome: entities.OutcomeNegative, ImpactScore: 2.0, Tags: []string{"violation", "past_mistakes"}},
		{ID: "charlie_evt_2", EntityID: entity.ID, Type: entities.EventAchievement, Timestamp: daysAgo(730), Channel: entities.ChannelEmail,
			Outcome: entities.OutcomePositive, ImpactScore: 6.0, Tags: []string{"transformation", "personal_growth"}},
		{ID: "charlie_evt_3", EntityID: entity.ID, Type: entities.EventCollaboration, Timestamp: daysAgo(400), Channel: entities.ChannelVerifiedAPI,
			Outcome: entities.OutcomePositive, ImpactScore: 7.0, Tags: []string{"community_impact", "helped_vulnerable", "mentoring"}},
		{ID: "charlie_evt_4", EntityID: entity.ID, Type: entities.EventAchievement, Timestamp: daysAgo(200), Channel: entities.ChannelBlockchain,
			Outcome: entities.OutcomePositive, ImpactScore: 8.0, Tags: []string{"transformation", "justice", "accountability"}},
		{ID: "charlie_evt_5", EntityID: entity.ID, Type: entities.EventEndorsement, Timestamp: daysAgo(100), Channel: entities.ChannelSocialMedia,
			Outcome: entities.OutcomePositive, ImpactScore: 5.5, Tags: []string{"community", "transformation", "inspiration"}},
	}
	return entity, events
}
