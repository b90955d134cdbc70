package identity_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jmolinera/go-session-center/identity"
	"github.com/jmolinera/go-session-center/internal/errors"
	"github.com/jmolinera/go-session-center/registry/customers"
	fakecustomerregistry "github.com/jmolinera/go-session-center/registry/customers/registryfake"
)

func setupMapper(t *testing.T) (*identity.Mapper, *fakecustomerregistry.FakeCustomerRegistry) {
	t.Helper()
	registry := fakecustomerregistry.NewFakeCustomerRegistry()
	return identity.NewMapper(registry, zerolog.Nop()), registry
}

func addEmailContact(registry *fakecustomerregistry.FakeCustomerRegistry, email string) uuid.UUID {
	partyID := uuid.New()
	registry.Parties[partyID] = &customers.Party{PartyID: partyID, Kind: "INDIVIDUAL", Status: "ACTIVE"}
	registry.EmailContacts[partyID] = []customers.EmailContact{{
		ContactID: uuid.New(),
		PartyID:   partyID,
		Email:     email,
		IsPrimary: true,
	}}
	return partyID
}

func TestMapToPartyIDByUniqueEmail(t *testing.T) {
	mapper, registry := setupMapper(t)
	partyID := addEmailContact(registry, "a@x.com")

	got, err := mapper.MapToPartyID(context.Background(), identity.ExternalIdentity{Email: "a@x.com"}, "")
	require.NoError(t, err)
	require.Equal(t, partyID, got)
}

func TestMapToPartyIDFallsBackToUsername(t *testing.T) {
	mapper, registry := setupMapper(t)
	partyID := uuid.New()
	registry.Parties[partyID] = &customers.Party{
		PartyID:      partyID,
		Kind:         "INDIVIDUAL",
		Status:       "ACTIVE",
		SourceSystem: "idp:bob",
	}

	got, err := mapper.MapToPartyID(context.Background(), identity.ExternalIdentity{Email: "nomatch@x.com", PreferredUsername: "bob"}, "")
	require.NoError(t, err)
	require.Equal(t, partyID, got)
}

func TestMapToPartyIDUsernameHintWinsOverClaim(t *testing.T) {
	mapper, registry := setupMapper(t)
	partyID := uuid.New()
	registry.Parties[partyID] = &customers.Party{
		PartyID:      partyID,
		Kind:         "INDIVIDUAL",
		Status:       "ACTIVE",
		SourceSystem: "idp:alice",
	}

	got, err := mapper.MapToPartyID(context.Background(), identity.ExternalIdentity{PreferredUsername: "bob"}, "alice")
	require.NoError(t, err)
	require.Equal(t, partyID, got)
}

func TestMapToPartyIDEmailLookupFailureFallsThrough(t *testing.T) {
	mapper, registry := setupMapper(t)
	partyID := uuid.New()
	registry.Parties[partyID] = &customers.Party{
		PartyID:      partyID,
		Kind:         "INDIVIDUAL",
		Status:       "ACTIVE",
		SourceSystem: "idp:bob",
	}
	registry.FailOn["FindEmailContacts"] = true

	got, err := mapper.MapToPartyID(context.Background(), identity.ExternalIdentity{Email: "bob@x.com", PreferredUsername: "bob"}, "")
	require.NoError(t, err)
	require.Equal(t, partyID, got)
}

func TestMapToPartyIDNoUsableIdentityIsTerminal(t *testing.T) {
	mapper, _ := setupMapper(t)

	_, err := mapper.MapToPartyID(context.Background(), identity.ExternalIdentity{}, "")
	require.ErrorIs(t, err, errors.ErrIdentityNotFound)
}

func TestMapToPartyIDBothStrategiesExhaustedIsTerminal(t *testing.T) {
	mapper, _ := setupMapper(t)

	_, err := mapper.MapToPartyID(context.Background(), identity.ExternalIdentity{Email: "ghost@x.com", PreferredUsername: "ghost"}, "")
	require.ErrorIs(t, err, errors.ErrIdentityNotFound)
}

func TestMapToPartyIDDuplicateEmailReturnsSomeOwner(t *testing.T) {
	mapper, registry := setupMapper(t)
	first := addEmailContact(registry, "dup@x.com")
	second := addEmailContact(registry, "dup@x.com")

	got, err := mapper.MapToPartyID(context.Background(), identity.ExternalIdentity{Email: "dup@x.com"}, "")
	require.NoError(t, err)
	// Selection among duplicate owners is registry-order defined; assert
	// membership, not a specific id.
	require.Contains(t, []uuid.UUID{first, second}, got)
}
