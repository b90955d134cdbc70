// Package resolve builds session content from the downstream registries:
// customer profile normalization, contract enrichment, and the fork-join
// aggregation that merges both into one session.
package resolve

import (
	"context"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jmolinera/go-session-center/internal/errors"
	"github.com/jmolinera/go-session-center/internal/utils"
	"github.com/jmolinera/go-session-center/registry/customers"
	"github.com/jmolinera/go-session-center/sessions"
)

const (
	unknownPersonName = "Unknown Person"
	unknownEntityName = "Unknown Entity"
)

// CustomerResolver fetches and normalizes one customer's profile from the
// customer registry.
type CustomerResolver struct {
	registry customers.Registry
	logger   zerolog.Logger
}

// NewCustomerResolver builds a resolver over the customer registry.
func NewCustomerResolver(registry customers.Registry, logger zerolog.Logger) *CustomerResolver {
	return &CustomerResolver{registry: registry, logger: logger}
}

// Resolve fetches the base profile, derives the display name by party kind,
// and attaches the primary email and phone. Profile and kind-detail fetch
// failures are terminal; missing or unfetchable contacts leave the field nil
// and resolution continues.
func (r *CustomerResolver) Resolve(ctx context.Context, partyID uuid.UUID) (*sessions.CustomerInfo, error) {
	party, err := r.registry.GetParty(ctx, partyID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[CustomerResolver.Resolve] base profile")
	}

	fullName, err := r.resolveFullName(ctx, party)
	if err != nil {
		return nil, err
	}

	var email, phone *string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		email = r.primaryEmail(gctx, partyID)
		return nil
	})
	g.Go(func() error {
		phone = r.primaryPhone(gctx, partyID)
		return nil
	})
	_ = g.Wait()

	return &sessions.CustomerInfo{
		PartyID:           party.PartyID,
		Kind:              sessions.PartyKind(party.Kind),
		TenantID:          party.TenantID,
		FullName:          fullName,
		PreferredLanguage: party.PreferredLanguage,
		Email:             email,
		PhoneNumber:       phone,
		TaxIDNumber:       party.TaxIDNumber,
		IsActive:          party.IsActive(),
	}, nil
}

func (r *CustomerResolver) resolveFullName(ctx context.Context, party *customers.Party) (string, error) {
	switch sessions.PartyKind(party.Kind) {
	case sessions.PartyKindIndividual:
		person, err := r.registry.GetNaturalPerson(ctx, party.PartyID)
		if err != nil {
			return "", pkgerrors.Wrap(err, "[CustomerResolver.resolveFullName] natural person")
		}
		return personFullName(person), nil

	case sessions.PartyKindOrganization:
		entity, err := r.registry.GetLegalEntity(ctx, party.PartyID)
		if err != nil {
			return "", pkgerrors.Wrap(err, "[CustomerResolver.resolveFullName] legal entity")
		}
		return entityName(entity), nil

	default:
		return "", pkgerrors.Wrap(errors.ErrUnknownPartyKind, party.Kind)
	}
}

// personFullName joins the non-empty name segments with single spaces.
func personFullName(person *customers.NaturalPerson) string {
	segments := make([]string, 0, 4)
	for _, segment := range []string{person.GivenName, person.MiddleName, person.FamilyName1, person.FamilyName2} {
		if strings.TrimSpace(segment) != "" {
			segments = append(segments, segment)
		}
	}
	if len(segments) == 0 {
		return unknownPersonName
	}
	return strings.Join(segments, " ")
}

func entityName(entity *customers.LegalEntity) string {
	if strings.TrimSpace(entity.TradeName) != "" {
		return entity.TradeName
	}
	if strings.TrimSpace(entity.LegalName) != "" {
		return entity.LegalName
	}
	return unknownEntityName
}

// primaryEmail returns the address of the first contact flagged primary, or
// nil when the fetch fails or nothing is flagged.
func (r *CustomerResolver) primaryEmail(ctx context.Context, partyID uuid.UUID) *string {
	contacts, err := r.registry.ListEmailContacts(ctx, partyID)
	if err != nil {
		r.logger.Debug().Err(err).Str("partyId", partyID.String()).Msg("email contacts unavailable")
		return nil
	}
	for _, contact := range contacts {
		if contact.IsPrimary {
			return utils.Ptr(contact.Email)
		}
	}
	return nil
}

// primaryPhone returns the number of the first contact flagged primary, or
// nil when the fetch fails or nothing is flagged.
func (r *CustomerResolver) primaryPhone(ctx context.Context, partyID uuid.UUID) *string {
	contacts, err := r.registry.ListPhoneContacts(ctx, partyID)
	if err != nil {
		r.logger.Debug().Err(err).Str("partyId", partyID.String()).Msg("phone contacts unavailable")
		return nil
	}
	for _, contact := range contacts {
		if contact.IsPrimary {
			return utils.Ptr(contact.PhoneNumber)
		}
	}
	return nil
}
