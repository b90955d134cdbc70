package server

import (
	"net"
	"net/http"
	"strings"

	"github.com/jmolinera/go-session-center/sessions"
)

// Request headers carrying the session addressing context.
const (
	HeaderPartyID   = "X-Party-Id"
	HeaderSessionID = "X-Session-Id"
)

// requestMeta derives the session request context from headers: party and
// session ids, client address, user agent and channel.
func requestMeta(r *http.Request) sessions.RequestMeta {
	userAgent := r.UserAgent()
	return sessions.RequestMeta{
		PartyID:   r.Header.Get(HeaderPartyID),
		SessionID: r.Header.Get(HeaderSessionID),
		IPAddress: clientIP(r),
		UserAgent: userAgent,
		Metadata: sessions.SessionMetadata{
			Channel: detectChannel(userAgent),
		},
	}
}

// clientIP resolves the originating address: first X-Forwarded-For hop, then
// X-Real-IP, then the socket peer.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// detectChannel classifies the calling channel from the user agent: mobile
// browsers, desktop browsers, everything else is a machine client.
func detectChannel(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Mobile"):
		return "mobile"
	case strings.Contains(userAgent, "Mozilla"):
		return "web"
	default:
		return "api"
	}
}
