package sessions

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jmolinera/go-session-center/internal/errors"
)

func TestSessionIDRoundTrip(t *testing.T) {
	codec := NewIDCodec([]byte("test-key"))
	partyID := uuid.New()

	sessionID := codec.SessionID(partyID)
	require.True(t, strings.HasPrefix(sessionID, "session_"+partyID.String()+"_"))

	got, err := codec.PartyIDFromSessionID(sessionID)
	require.NoError(t, err)
	require.Equal(t, partyID, got)
}

func TestSessionIDIsDeterministicPerParty(t *testing.T) {
	codec := NewIDCodec([]byte("test-key"))
	partyID := uuid.New()

	require.Equal(t, codec.SessionID(partyID), codec.SessionID(partyID))
	require.NotEqual(t, codec.SessionID(partyID), codec.SessionID(uuid.New()))
}

func TestPartyIDFromSessionIDRejectsForgery(t *testing.T) {
	codec := NewIDCodec([]byte("test-key"))
	partyID := uuid.New()

	// A structurally plausible id with a fabricated tag must not resolve.
	forged := "session_" + partyID.String() + "_deadbeef"
	_, err := codec.PartyIDFromSessionID(forged)
	require.ErrorIs(t, err, errors.ErrInvalidSessionID)

	// An id minted under a different key must not resolve either.
	other := NewIDCodec([]byte("other-key")).SessionID(partyID)
	_, err = codec.PartyIDFromSessionID(other)
	require.ErrorIs(t, err, errors.ErrInvalidSessionID)
}

func TestPartyIDFromSessionIDRejectsMalformed(t *testing.T) {
	codec := NewIDCodec([]byte("test-key"))

	for _, id := range []string{"", "session_", "nope", "session_not-a-uuid_ff", "session_" + uuid.NewString()} {
		_, err := codec.PartyIDFromSessionID(id)
		require.ErrorIs(t, err, errors.ErrInvalidSessionID, "id %q", id)
	}
}
