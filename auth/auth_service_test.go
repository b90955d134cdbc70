package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jmolinera/go-session-center/auth"
	"github.com/jmolinera/go-session-center/cache"
	"github.com/jmolinera/go-session-center/identity"
	"github.com/jmolinera/go-session-center/idp"
	fakeidpadapter "github.com/jmolinera/go-session-center/idp/idpfakes"
	"github.com/jmolinera/go-session-center/internal/errors"
	fakecontractregistry "github.com/jmolinera/go-session-center/registry/contracts/registryfake"
	"github.com/jmolinera/go-session-center/registry/customers"
	fakecustomerregistry "github.com/jmolinera/go-session-center/registry/customers/registryfake"
	fakeproductcatalog "github.com/jmolinera/go-session-center/registry/products/registryfake"
	fakeroleregistry "github.com/jmolinera/go-session-center/registry/roles/registryfake"
	"github.com/jmolinera/go-session-center/resolve"
	"github.com/jmolinera/go-session-center/sessions"
)

type authFixture struct {
	service          *auth.Service
	adapter          *fakeidpadapter.FakeAdapter
	customerRegistry *fakecustomerregistry.FakeCustomerRegistry
	manager          *sessions.Manager
	store            *cache.Memory
	partyID          uuid.UUID
}

// setupAuthFixture wires the full login pipeline over fakes, with one
// customer "bob" reachable through both identity strategies.
func setupAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	customerRegistry := fakecustomerregistry.NewFakeCustomerRegistry()
	partyID := uuid.New()
	customerRegistry.Parties[partyID] = &customers.Party{
		PartyID:      partyID,
		Kind:         "INDIVIDUAL",
		Status:       "ACTIVE",
		SourceSystem: "idp:bob",
	}
	customerRegistry.NaturalPersons[partyID] = &customers.NaturalPerson{
		PartyID:   partyID,
		GivenName: "Bob", FamilyName1: "Builder",
	}
	customerRegistry.EmailContacts[partyID] = []customers.EmailContact{{
		ContactID: uuid.New(),
		PartyID:   partyID,
		Email:     "bob@x.com",
		IsPrimary: true,
	}}

	customerResolver := resolve.NewCustomerResolver(customerRegistry, zerolog.Nop())
	contractResolver := resolve.NewContractResolver(
		fakecontractregistry.NewFakeContractRegistry(),
		fakeroleregistry.NewFakeRoleRegistry(),
		fakeproductcatalog.NewFakeProductCatalog(),
		zerolog.Nop(),
	)
	aggregator := resolve.NewSessionAggregator(customerResolver, contractResolver)

	store := cache.NewMemory()
	manager, err := sessions.NewManager(sessions.Deps{
		Cache:      store,
		Aggregator: aggregator,
		Codec:      sessions.NewIDCodec([]byte("test-signing-key")),
	}, 30*time.Minute)
	require.NoError(t, err)

	adapter := fakeidpadapter.NewFakeAdapter()
	adapter.AddUser("bob", "s3cret", idp.UserInfo{
		Subject:           "bob",
		Email:             "bob@x.com",
		PreferredUsername: "bob",
		Name:              "Bob Builder",
	})

	service, err := auth.NewService(auth.Deps{
		IDP:      adapter,
		Mapper:   identity.NewMapper(customerRegistry, zerolog.Nop()),
		Sessions: manager,
	})
	require.NoError(t, err)

	return &authFixture{
		service:          service,
		adapter:          adapter,
		customerRegistry: customerRegistry,
		manager:          manager,
		store:            store,
		partyID:          partyID,
	}
}

func TestLoginEstablishesSession(t *testing.T) {
	f := setupAuthFixture(t)

	result, err := f.service.Login(context.Background(), "bob", "s3cret")
	require.NoError(t, err)
	require.Equal(t, f.partyID, result.PartyID)
	require.NotEmpty(t, result.Tokens.AccessToken)
	require.NotEmpty(t, result.SessionID)
	require.Equal(t, sessions.StatusActive, result.Session.Status)
	require.Equal(t, "Bob Builder", result.Session.CustomerInfo.FullName)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := setupAuthFixture(t)

	_, err := f.service.Login(context.Background(), "bob", "wrong")
	require.ErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestLoginFailsWhenPrincipalHasNoCustomerRecord(t *testing.T) {
	f := setupAuthFixture(t)
	f.adapter.AddUser("ghost", "pw", idp.UserInfo{Subject: "ghost", PreferredUsername: "ghost"})

	_, err := f.service.Login(context.Background(), "ghost", "pw")
	require.ErrorIs(t, err, errors.ErrIdentityNotFound)
}

func TestRefreshRebuildsResult(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()

	login, err := f.service.Login(ctx, "bob", "s3cret")
	require.NoError(t, err)

	refreshed, err := f.service.Refresh(ctx, login.Tokens.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, f.partyID, refreshed.PartyID)
	require.Equal(t, login.SessionID, refreshed.SessionID)
	require.Equal(t, 1, f.adapter.RefreshCalls)
}

func TestLogoutAttemptsBothSides(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()

	login, err := f.service.Login(ctx, "bob", "s3cret")
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, login.Tokens.RefreshToken, login.SessionID))
	require.Equal(t, 1, f.adapter.LogoutCalls)
}

func TestLogoutStillInvalidatesSessionWhenIdpFails(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()

	login, err := f.service.Login(ctx, "bob", "s3cret")
	require.NoError(t, err)

	f.adapter.FailOn["Logout"] = true
	err = f.service.Logout(ctx, login.Tokens.RefreshToken, login.SessionID)
	require.Error(t, err)

	// The cached session was evicted despite the provider failure.
	cached, err := f.store.Get(ctx, login.SessionID)
	require.NoError(t, err)
	require.Nil(t, cached)
}

func TestIntrospectReportsTokenState(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()

	login, err := f.service.Login(ctx, "bob", "s3cret")
	require.NoError(t, err)

	active, err := f.service.Introspect(ctx, login.Tokens.AccessToken)
	require.NoError(t, err)
	require.True(t, active.Active)

	inactive, err := f.service.Introspect(ctx, "garbage")
	require.NoError(t, err)
	require.False(t, inactive.Active)
}

func TestResetPasswordAndCreateUserDelegate(t *testing.T) {
	f := setupAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, f.service.CreateUser(ctx, idp.NewUser{Username: "alice", Password: "pw"}))
	require.ErrorIs(t, f.service.CreateUser(ctx, idp.NewUser{Username: "alice", Password: "pw"}), errors.ErrUserAlreadyExists)

	require.NoError(t, f.service.ResetPassword(ctx, "bob", "newpass"))
	_, err := f.service.Login(ctx, "bob", "newpass")
	require.NoError(t, err)
}
