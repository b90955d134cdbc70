// Package customers defines the customer registry contract: party profiles,
// person/entity detail, contact channels, and the identity lookup indexes
// used to map external principals to party ids.
package customers

import (
	"context"

	"github.com/google/uuid"
)

// Party is the base customer profile record.
type Party struct {
	PartyID           uuid.UUID `json:"partyId"`
	Kind              string    `json:"kind"`
	TenantID          string    `json:"tenantId,omitempty"`
	PreferredLanguage string    `json:"preferredLanguage,omitempty"`
	TaxIDNumber       string    `json:"taxIdNumber,omitempty"`
	SourceSystem      string    `json:"sourceSystem,omitempty"`
	Status            string    `json:"status,omitempty"`
}

// IsActive reports whether the party record is in active status.
func (p *Party) IsActive() bool {
	return p.Status == "ACTIVE"
}

// NaturalPerson is the person detail behind an INDIVIDUAL party.
type NaturalPerson struct {
	PartyID     uuid.UUID `json:"partyId"`
	GivenName   string    `json:"givenName,omitempty"`
	MiddleName  string    `json:"middleName,omitempty"`
	FamilyName1 string    `json:"familyName1,omitempty"`
	FamilyName2 string    `json:"familyName2,omitempty"`
}

// LegalEntity is the entity detail behind an ORGANIZATION party.
type LegalEntity struct {
	PartyID   uuid.UUID `json:"partyId"`
	TradeName string    `json:"tradeName,omitempty"`
	LegalName string    `json:"legalName,omitempty"`
}

// EmailContact is one email channel owned by a party.
type EmailContact struct {
	ContactID uuid.UUID `json:"emailContactId"`
	PartyID   uuid.UUID `json:"partyId"`
	Email     string    `json:"email"`
	IsPrimary bool      `json:"isPrimary"`
}

// PhoneContact is one phone channel owned by a party.
type PhoneContact struct {
	ContactID   uuid.UUID `json:"phoneContactId"`
	PartyID     uuid.UUID `json:"partyId"`
	PhoneNumber string    `json:"phoneNumber"`
	IsPrimary   bool      `json:"isPrimary"`
}

// Registry is the fetch surface of the customer registry service.
type Registry interface {
	// GetParty fetches the base profile for a party.
	GetParty(ctx context.Context, partyID uuid.UUID) (*Party, error)
	// GetNaturalPerson fetches person detail for an INDIVIDUAL party.
	GetNaturalPerson(ctx context.Context, partyID uuid.UUID) (*NaturalPerson, error)
	// GetLegalEntity fetches entity detail for an ORGANIZATION party.
	GetLegalEntity(ctx context.Context, partyID uuid.UUID) (*LegalEntity, error)
	// ListEmailContacts lists a party's email channels.
	ListEmailContacts(ctx context.Context, partyID uuid.UUID) ([]EmailContact, error)
	// ListPhoneContacts lists a party's phone channels.
	ListPhoneContacts(ctx context.Context, partyID uuid.UUID) ([]PhoneContact, error)
	// FindEmailContacts searches the email-contact index for an exact
	// address match. Match order is registry defined.
	FindEmailContacts(ctx context.Context, email string) ([]EmailContact, error)
	// FindPartiesBySourceSystem looks up parties whose source-system
	// attribute equals the given literal.
	FindPartiesBySourceSystem(ctx context.Context, sourceSystem string) ([]Party, error)
}
