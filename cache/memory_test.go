package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jmolinera/go-session-center/sessions"
)

func testSession(t *testing.T) *sessions.SessionContext {
	t.Helper()
	partyID := uuid.New()
	return &sessions.SessionContext{
		SessionID: "session_" + partyID.String() + "_abc",
		PartyID:   partyID,
		CustomerInfo: &sessions.CustomerInfo{
			PartyID:  partyID,
			Kind:     sessions.PartyKindIndividual,
			FullName: "Ada Lovelace",
			IsActive: true,
		},
		ActiveContracts: []sessions.ContractInfo{},
		Status:          sessions.StatusActive,
	}
}

func TestMemoryPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	session := testSession(t)

	require.NoError(t, store.Put(ctx, session.SessionID, session, time.Minute))

	got, err := store.Get(ctx, session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, session.PartyID, got.PartyID)
	require.Equal(t, "Ada Lovelace", got.CustomerInfo.FullName)
}

func TestMemoryGetMissReturnsNil(t *testing.T) {
	store := NewMemory()

	got, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMemoryReturnsIndependentCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	session := testSession(t)
	require.NoError(t, store.Put(ctx, session.SessionID, session, time.Minute))

	first, err := store.Get(ctx, session.SessionID)
	require.NoError(t, err)
	first.CustomerInfo.FullName = "mutated"

	second, err := store.Get(ctx, session.SessionID)
	require.NoError(t, err)
	require.Equal(t, "Ada Lovelace", second.CustomerInfo.FullName)
}

func TestMemoryExpiresLazily(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewMemory(WithNowTime(func() time.Time { return now }))
	session := testSession(t)
	require.NoError(t, store.Put(ctx, session.SessionID, session, time.Minute))

	now = now.Add(2 * time.Minute)

	got, err := store.Get(ctx, session.SessionID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMemoryEvictAndClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	a := testSession(t)
	b := testSession(t)
	require.NoError(t, store.Put(ctx, a.SessionID, a, time.Minute))
	require.NoError(t, store.Put(ctx, b.SessionID, b, time.Minute))

	require.NoError(t, store.Evict(ctx, a.SessionID))
	got, err := store.Get(ctx, a.SessionID)
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, store.Evict(ctx, a.SessionID)) // absent key is fine

	require.NoError(t, store.Clear(ctx))
	got, err = store.Get(ctx, b.SessionID)
	require.NoError(t, err)
	require.Nil(t, got)
}
