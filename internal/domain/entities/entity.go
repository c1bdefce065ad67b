// Package entities contains core domain data structures.
package entities

import (
	"fmt"
	"strings"
	"time"
)

// EntityKind is the category of a scored subject.
type EntityKind string

const (
	EntityKindPerson       EntityKind = "person"
	EntityKindOrganization EntityKind = "organization"
	EntityKindAgent        EntityKind = "agent"
)

// CredentialType represents the category of a verification claim.
type CredentialType string

const (
	CredentialGovernmentID CredentialType = "government_id"
	CredentialProfessional CredentialType = "professional"
	CredentialEducational  CredentialType = "educational"
	CredentialFinancial    CredentialType = "financial"
	CredentialOther        CredentialType = "other"
)

// VerificationStatus is the state of a credential claim.
type VerificationStatus string

const (
	StatusVerified   VerificationStatus = "verified"
	StatusUnverified VerificationStatus = "unverified"
	StatusPending    VerificationStatus = "pending"
)

// Entity is the identity being scored. It is supplied fresh per request
// and never mutated by the engine.
type Entity struct {
	ID                string       `json:"id"`
	Kind              EntityKind   `json:"entity_type"`
	Name              string       `json:"name,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	IdentityVerified  bool         `json:"identity_verified"`
	TransparencyLevel float64      `json:"transparency_level"`
	Credentials       []Credential `json:"credentials,omitempty"`
	Connections       []Connection `json:"connections,omitempty"`
}

// Credential is a claim of verification. Credentials never expire.
type Credential struct {
	Type     CredentialType     `json:"type"`
	Issuer   string             `json:"issuer"`
	IssuedAt time.Time          `json:"issued_at"`
	Status   VerificationStatus `json:"verification_status"`
}

// Connection is a one-hop reference to another entity. It carries no
// ownership; EntityID is an identifier only.
type Connection struct {
	EntityID         string    `json:"entity_id"`
	Type             string    `json:"connection_type"`
	EstablishedAt    time.Time `json:"established_at"`
	TrustScore       float64   `json:"trust_score"`
	InteractionCount int       `json:"interaction_count"`
}

// Validate reports whether the entity can be scored.
func (e *Entity) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidInput)
	}
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("%w: entity id is empty", ErrInvalidInput)
	}
	if e.TransparencyLevel < 0 || e.TransparencyLevel > 1 {
		return fmt.Errorf("%w: transparency level %.2f outside [0,1]", ErrInvalidInput, e.TransparencyLevel)
	}
	return nil
}

// VerifiedCredentials returns the number of credentials with verified status.
func (e *Entity) VerifiedCredentials() int {
	count := 0
	for _, c := range e.Credentials {
		if c.Status == StatusVerified {
			count++
		}
	}
	return count
}

// ConnectionTypes returns the number of distinct connection types.
func (e *Entity) ConnectionTypes() int {
	seen := make(map[string]struct{}, len(e.Connections))
	for _, c := range e.Connections {
		seen[strings.ToLower(c.Type)] = struct{}{}
	}
	return len(seen)
}
