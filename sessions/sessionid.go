package sessions

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	"github.com/jmolinera/go-session-center/internal/errors"
)

const sessionIDPrefix = "session_"

// IDCodec derives and verifies session identifiers. Identifiers keep the
// shape "session_<partyId>_<tag>" so the party id remains extractable, but
// the trailing tag is an HMAC over the prefix and party id, so an id that
// was not minted by this codec fails verification instead of triggering a
// session rebuild for an arbitrary party.
type IDCodec struct {
	key []byte
}

// NewIDCodec builds a codec signing with key.
func NewIDCodec(key []byte) *IDCodec {
	return &IDCodec{key: key}
}

// SessionID derives the session id for a party. The derivation is
// deterministic, so every lookup for one party addresses the same cache slot.
func (c *IDCodec) SessionID(partyID uuid.UUID) string {
	body := sessionIDPrefix + partyID.String()
	return body + "_" + c.tag(body)
}

// PartyIDFromSessionID verifies the id's signature and extracts the embedded
// party id. Returns ErrInvalidSessionID for malformed, unsigned or forged
// ids.
func (c *IDCodec) PartyIDFromSessionID(sessionID string) (uuid.UUID, error) {
	rest, ok := strings.CutPrefix(sessionID, sessionIDPrefix)
	if !ok {
		return uuid.Nil, errors.ErrInvalidSessionID
	}
	idx := strings.LastIndex(rest, "_")
	if idx < 0 {
		return uuid.Nil, errors.ErrInvalidSessionID
	}
	rawParty, tag := rest[:idx], rest[idx+1:]

	partyID, err := uuid.Parse(rawParty)
	if err != nil {
		return uuid.Nil, errors.ErrInvalidSessionID
	}
	if !hmac.Equal([]byte(tag), []byte(c.tag(sessionIDPrefix+rawParty))) {
		return uuid.Nil, errors.ErrInvalidSessionID
	}
	return partyID, nil
}

func (c *IDCodec) tag(body string) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}
