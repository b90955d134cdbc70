package sessions_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/jmolinera/go-session-center/cache"
	"github.com/jmolinera/go-session-center/internal/errors"
	"github.com/jmolinera/go-session-center/sessions"
)

// stubAggregator returns canned sessions per party and counts builds.
type stubAggregator struct {
	builds   int
	failWith error
	contract *sessions.ContractInfo
}

func (s *stubAggregator) Aggregate(_ context.Context, partyID uuid.UUID) (*sessions.SessionContext, error) {
	s.builds++
	if s.failWith != nil {
		return nil, s.failWith
	}
	session := &sessions.SessionContext{
		PartyID: partyID,
		CustomerInfo: &sessions.CustomerInfo{
			PartyID:  partyID,
			Kind:     sessions.PartyKindIndividual,
			FullName: "Ada Lovelace",
			IsActive: true,
		},
		ActiveContracts: []sessions.ContractInfo{},
	}
	if s.contract != nil {
		session.ActiveContracts = append(session.ActiveContracts, *s.contract)
	}
	return session, nil
}

// failingCache errors on every operation.
type failingCache struct{}

func (failingCache) Get(context.Context, string) (*sessions.SessionContext, error) {
	return nil, pkgerrors.New("backend down")
}

func (failingCache) Put(context.Context, string, *sessions.SessionContext, time.Duration) error {
	return pkgerrors.New("backend down")
}

func (failingCache) Evict(context.Context, string) error { return pkgerrors.New("backend down") }
func (failingCache) Clear(context.Context) error         { return pkgerrors.New("backend down") }

type managerFixture struct {
	manager    *sessions.Manager
	aggregator *stubAggregator
	cache      sessions.Cache
	codec      *sessions.IDCodec
	now        *time.Time
}

func setupManagerFixture(t *testing.T, opts ...func(*managerFixture)) *managerFixture {
	t.Helper()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fixture := &managerFixture{
		aggregator: &stubAggregator{},
		cache:      cache.NewMemory(),
		codec:      sessions.NewIDCodec([]byte("test-signing-key")),
		now:        &now,
	}
	for _, opt := range opts {
		opt(fixture)
	}

	manager, err := sessions.NewManager(
		sessions.Deps{Cache: fixture.cache, Aggregator: fixture.aggregator, Codec: fixture.codec},
		30*time.Minute,
		sessions.WithNowTime(func() time.Time { return *fixture.now }),
	)
	require.NoError(t, err)
	fixture.manager = manager
	return fixture
}

func permissionContract(productID uuid.UUID) *sessions.ContractInfo {
	roleID := uuid.New()
	return &sessions.ContractInfo{
		ContractID: uuid.New(),
		IsActive:   true,
		Product:    &sessions.ProductInfo{ProductID: productID, Name: "Everyday Account"},
		RoleInContract: sessions.RoleInfo{
			RoleID:   roleID,
			RoleCode: "PRIMARY_HOLDER",
			IsActive: true,
			Scopes: []sessions.RoleScopeInfo{{
				ScopeID:      uuid.New(),
				RoleID:       roleID,
				ActionType:   "READ",
				ResourceType: "BALANCE",
				IsActive:     true,
			}},
		},
	}
}

func TestCreateOrGetBuildsOnMiss(t *testing.T) {
	fixture := setupManagerFixture(t)
	partyID := uuid.New()

	session, err := fixture.manager.CreateOrGet(context.Background(), sessions.RequestMeta{
		PartyID:   partyID.String(),
		IPAddress: "198.51.100.7",
		UserAgent: "test-agent",
		Metadata:  sessions.SessionMetadata{Channel: "web"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, fixture.aggregator.builds)
	require.Equal(t, partyID, session.PartyID)
	require.Equal(t, sessions.StatusActive, session.Status)
	require.Equal(t, fixture.codec.SessionID(partyID), session.SessionID)
	require.Equal(t, *fixture.now, session.CreatedAt)
	require.Equal(t, fixture.now.Add(30*time.Minute), session.ExpiresAt)
	require.Equal(t, "198.51.100.7", session.IPAddress)
	require.Equal(t, "web", session.Metadata.Channel)
}

func TestCreateOrGetHitBumpsLastAccessed(t *testing.T) {
	fixture := setupManagerFixture(t)
	partyID := uuid.New()
	meta := sessions.RequestMeta{PartyID: partyID.String()}

	first, err := fixture.manager.CreateOrGet(context.Background(), meta)
	require.NoError(t, err)

	*fixture.now = fixture.now.Add(5 * time.Minute)

	second, err := fixture.manager.CreateOrGet(context.Background(), meta)
	require.NoError(t, err)
	require.Equal(t, 1, fixture.aggregator.builds, "hit must not rebuild")
	require.Equal(t, first.CreatedAt, second.CreatedAt)
	require.Equal(t, *fixture.now, second.LastAccessedAt)
	require.Equal(t, fixture.now.Add(30*time.Minute), second.ExpiresAt)
	require.True(t, second.CreatedAt.Before(second.LastAccessedAt) || second.CreatedAt.Equal(second.LastAccessedAt))
}

func TestCreateOrGetRequiresPartyID(t *testing.T) {
	fixture := setupManagerFixture(t)

	_, err := fixture.manager.CreateOrGet(context.Background(), sessions.RequestMeta{})
	require.ErrorIs(t, err, errors.ErrMissingPartyID)

	_, err = fixture.manager.CreateOrGet(context.Background(), sessions.RequestMeta{PartyID: "not-a-uuid"})
	require.ErrorIs(t, err, errors.ErrInvalidPartyID)
	require.Zero(t, fixture.aggregator.builds)
}

func TestGetBySessionIDRejectsForgedID(t *testing.T) {
	fixture := setupManagerFixture(t)
	partyID := uuid.New()

	_, err := fixture.manager.GetBySessionID(context.Background(), "session_"+partyID.String()+"_deadbeef")
	require.ErrorIs(t, err, errors.ErrSessionNotFound)
	require.Zero(t, fixture.aggregator.builds, "a forged id must never trigger a rebuild")
}

func TestGetBySessionIDRebuildsAuthenticID(t *testing.T) {
	fixture := setupManagerFixture(t)
	partyID := uuid.New()
	sessionID := fixture.codec.SessionID(partyID)

	session, err := fixture.manager.GetBySessionID(context.Background(), sessionID)
	require.NoError(t, err)
	require.Equal(t, partyID, session.PartyID)
	require.Equal(t, 1, fixture.aggregator.builds)
}

func TestGetByPartyIDAddressesOneCacheSlot(t *testing.T) {
	fixture := setupManagerFixture(t)
	partyID := uuid.New()

	first, err := fixture.manager.GetByPartyID(context.Background(), partyID)
	require.NoError(t, err)
	second, err := fixture.manager.GetByPartyID(context.Background(), partyID)
	require.NoError(t, err)
	require.Equal(t, first.SessionID, second.SessionID)
	require.Equal(t, 1, fixture.aggregator.builds)
}

func TestRefreshSessionRebuilds(t *testing.T) {
	fixture := setupManagerFixture(t)
	partyID := uuid.New()

	first, err := fixture.manager.GetByPartyID(context.Background(), partyID)
	require.NoError(t, err)

	refreshed, err := fixture.manager.RefreshSession(context.Background(), first.SessionID)
	require.NoError(t, err)
	require.Equal(t, 2, fixture.aggregator.builds)
	require.Equal(t, partyID, refreshed.PartyID)
}

func TestInvalidateSessionEvicts(t *testing.T) {
	fixture := setupManagerFixture(t)
	partyID := uuid.New()

	session, err := fixture.manager.GetByPartyID(context.Background(), partyID)
	require.NoError(t, err)
	require.NoError(t, fixture.manager.InvalidateSession(context.Background(), session.SessionID))

	_, err = fixture.manager.GetByPartyID(context.Background(), partyID)
	require.NoError(t, err)
	require.Equal(t, 2, fixture.aggregator.builds, "eviction must force a rebuild")
}

func TestInvalidateSessionsByPartyIDClearsEveryParty(t *testing.T) {
	fixture := setupManagerFixture(t)
	first := uuid.New()
	second := uuid.New()

	_, err := fixture.manager.GetByPartyID(context.Background(), first)
	require.NoError(t, err)
	_, err = fixture.manager.GetByPartyID(context.Background(), second)
	require.NoError(t, err)

	require.NoError(t, fixture.manager.InvalidateSessionsByPartyID(context.Background(), first))

	// The clear is global: the other party's session is gone as well.
	_, err = fixture.manager.GetByPartyID(context.Background(), second)
	require.NoError(t, err)
	require.Equal(t, 3, fixture.aggregator.builds)
}

func TestIsSessionValidChecksStatusAndExpiry(t *testing.T) {
	fixture := setupManagerFixture(t)
	partyID := uuid.New()

	session, err := fixture.manager.GetByPartyID(context.Background(), partyID)
	require.NoError(t, err)
	require.True(t, fixture.manager.IsSessionValid(session))

	// Past expiry the cached value may still exist; validity flips anyway.
	*fixture.now = fixture.now.Add(31 * time.Minute)
	require.False(t, fixture.manager.IsSessionValid(session))

	session.Status = sessions.StatusInvalidated
	*fixture.now = fixture.now.Add(-31 * time.Minute)
	require.False(t, fixture.manager.IsSessionValid(session))

	require.False(t, fixture.manager.IsSessionValid(nil))
}

func TestCacheFailureFallsThroughToRebuild(t *testing.T) {
	fixture := setupManagerFixture(t, func(f *managerFixture) {
		f.cache = failingCache{}
	})
	partyID := uuid.New()

	session, err := fixture.manager.GetByPartyID(context.Background(), partyID)
	require.NoError(t, err, "a cache outage must never block session issuance")
	require.Equal(t, partyID, session.PartyID)
	require.Equal(t, 1, fixture.aggregator.builds)
}

func TestHasAccessToProduct(t *testing.T) {
	productID := uuid.New()
	fixture := setupManagerFixture(t, func(f *managerFixture) {
		f.aggregator.contract = permissionContract(productID)
	})
	partyID := uuid.New()

	require.True(t, fixture.manager.HasAccessToProduct(context.Background(), partyID, productID))
	require.False(t, fixture.manager.HasAccessToProduct(context.Background(), partyID, uuid.New()))
}

func TestHasAccessToProductDeniesOnBuildFailure(t *testing.T) {
	fixture := setupManagerFixture(t, func(f *managerFixture) {
		f.aggregator.failWith = errors.ErrCustomerNotFound
	})

	require.False(t, fixture.manager.HasAccessToProduct(context.Background(), uuid.New(), uuid.New()))
	require.False(t, fixture.manager.HasPermission(context.Background(), uuid.New(), uuid.New(), "READ", "BALANCE"))
}

func TestHasPermissionMatchesCaseInsensitively(t *testing.T) {
	productID := uuid.New()
	fixture := setupManagerFixture(t, func(f *managerFixture) {
		f.aggregator.contract = permissionContract(productID)
	})
	partyID := uuid.New()
	ctx := context.Background()

	require.True(t, fixture.manager.HasPermission(ctx, partyID, productID, "read", "balance"))
	require.True(t, fixture.manager.HasPermission(ctx, partyID, productID, "READ", "BALANCE"))
	require.False(t, fixture.manager.HasPermission(ctx, partyID, productID, "WRITE", "BALANCE"))
	require.False(t, fixture.manager.HasPermission(ctx, partyID, uuid.New(), "READ", "BALANCE"))
}

func TestHasPermissionEmptyResourceTypeMatchesAny(t *testing.T) {
	productID := uuid.New()
	fixture := setupManagerFixture(t, func(f *managerFixture) {
		f.aggregator.contract = permissionContract(productID)
	})

	require.True(t, fixture.manager.HasPermission(context.Background(), uuid.New(), productID, "READ", ""))
}

func TestHasPermissionIgnoresInactiveScopes(t *testing.T) {
	productID := uuid.New()
	contract := permissionContract(productID)
	contract.RoleInContract.Scopes[0].IsActive = false
	fixture := setupManagerFixture(t, func(f *managerFixture) {
		f.aggregator.contract = contract
	})

	require.False(t, fixture.manager.HasPermission(context.Background(), uuid.New(), productID, "READ", "BALANCE"))
}
