// Package identity maps authenticated external principals to internal party
// ids.
package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jmolinera/go-session-center/internal/errors"
	"github.com/jmolinera/go-session-center/registry/customers"
)

// ExternalIdentity is the principal as reported by the identity provider.
type ExternalIdentity struct {
	Email             string
	PreferredUsername string
}

// Mapper resolves an external identity to a party id with a two-strategy
// lookup: the email-contact index first, then the "idp:<username>"
// source-system attribute. There is no auto-provisioning; a principal with
// no existing customer record cannot authenticate.
type Mapper struct {
	registry customers.Registry
	logger   zerolog.Logger
}

// NewMapper builds a mapper over the customer registry.
func NewMapper(registry customers.Registry, logger zerolog.Logger) *Mapper {
	return &Mapper{registry: registry, logger: logger}
}

// MapToPartyID resolves the identity to a party id. usernameHint, when
// non-empty, takes precedence over the identity's preferred-username claim
// for the source-system lookup.
//
// The email lookup is an exact match against the contact index; when several
// customers share one address the registry's match order decides, so the
// selection is not deterministic. A registry failure during the email lookup
// falls through to the username strategy rather than failing authentication.
func (m *Mapper) MapToPartyID(ctx context.Context, ident ExternalIdentity, usernameHint string) (uuid.UUID, error) {
	if strings.TrimSpace(ident.Email) != "" {
		contacts, err := m.registry.FindEmailContacts(ctx, ident.Email)
		if err != nil {
			m.logger.Warn().Err(err).Msg("email lookup failed, falling back to username strategy")
		} else if len(contacts) > 0 {
			return contacts[0].PartyID, nil
		}
	}

	username := usernameHint
	if strings.TrimSpace(username) == "" {
		username = ident.PreferredUsername
	}
	if strings.TrimSpace(username) == "" {
		return uuid.Nil, errors.ErrIdentityNotFound
	}

	parties, err := m.registry.FindPartiesBySourceSystem(ctx, "idp:"+username)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(err, "[Mapper.MapToPartyID] source-system lookup")
	}
	if len(parties) == 0 {
		return uuid.Nil, errors.ErrIdentityNotFound
	}
	return parties[0].PartyID, nil
}
