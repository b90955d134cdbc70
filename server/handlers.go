package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jmolinera/go-session-center/idp"
)

// CreateOrGetSessionHandler builds or returns the session addressed by the
// X-Party-Id header (optionally a matching X-Session-Id).
func (s *Server) CreateOrGetSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.sessions.CreateOrGet(r.Context(), requestMeta(r))
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

// GetSessionHandler returns the session for a signed session id.
func (s *Server) GetSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.sessions.GetBySessionID(r.Context(), r.PathValue("sessionId"))
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

// InvalidateSessionHandler evicts one session.
func (s *Server) InvalidateSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.sessions.InvalidateSession(r.Context(), r.PathValue("sessionId")); err != nil {
			s.writeMappedError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RefreshSessionHandler evicts and rebuilds one session.
func (s *Server) RefreshSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.sessions.RefreshSession(r.Context(), r.PathValue("sessionId"))
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

// ValidateSessionHandler reports whether the session is ACTIVE and unexpired.
// An unknown or forged id reports invalid rather than an error.
func (s *Server) ValidateSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.sessions.GetBySessionID(r.Context(), r.PathValue("sessionId"))
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]bool{"valid": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"valid": s.sessions.IsSessionValid(session)})
	}
}

// GetSessionByPartyHandler returns the party's session, building it if
// needed.
func (s *Server) GetSessionByPartyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partyID, err := uuid.Parse(r.PathValue("partyId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid party id")
			return
		}
		session, err := s.sessions.GetByPartyID(r.Context(), partyID)
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

// InvalidateSessionsByPartyHandler removes the party's sessions. The
// underlying eviction clears the whole cache namespace.
func (s *Server) InvalidateSessionsByPartyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partyID, err := uuid.Parse(r.PathValue("partyId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid party id")
			return
		}
		if err := s.sessions.InvalidateSessionsByPartyID(r.Context(), partyID); err != nil {
			s.writeMappedError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AccessCheckHandler evaluates product access for a party.
func (s *Server) AccessCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partyID, err := uuid.Parse(r.URL.Query().Get("partyId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid party id")
			return
		}
		productID, err := uuid.Parse(r.URL.Query().Get("productId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		hasAccess := s.sessions.HasAccessToProduct(r.Context(), partyID, productID)
		writeJSON(w, http.StatusOK, map[string]bool{"hasAccess": hasAccess})
	}
}

// PermissionCheckHandler evaluates a scoped permission for a party.
func (s *Server) PermissionCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		partyID, err := uuid.Parse(query.Get("partyId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid party id")
			return
		}
		productID, err := uuid.Parse(query.Get("productId"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		actionType := query.Get("actionType")
		if strings.TrimSpace(actionType) == "" {
			writeError(w, http.StatusBadRequest, "actionType is required")
			return
		}
		hasPermission := s.sessions.HasPermission(r.Context(), partyID, productID, actionType, query.Get("resourceType"))
		writeJSON(w, http.StatusOK, map[string]bool{"hasPermission": hasPermission})
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler authenticates credentials and returns tokens plus the
// enriched session.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "username and password are required")
			return
		}
		result, err := s.auth.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshTokenHandler renews tokens and the session off the refresh grant.
func (s *Server) RefreshTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
			writeError(w, http.StatusBadRequest, "refreshToken is required")
			return
		}
		result, err := s.auth.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
	SessionID    string `json:"sessionId,omitempty"`
}

// LogoutHandler revokes the provider session and evicts the cached session.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req logoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.auth.Logout(r.Context(), req.RefreshToken, req.SessionID); err != nil {
			s.writeMappedError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type introspectRequest struct {
	Token string `json:"token"`
}

// IntrospectHandler reports whether the provider still honors a token.
func (s *Server) IntrospectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req introspectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
			writeError(w, http.StatusBadRequest, "token is required")
			return
		}
		result, err := s.auth.Introspect(r.Context(), req.Token)
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

type resetPasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"newPassword"`
}

// ResetPasswordHandler delegates a password reset to the provider.
func (s *Server) ResetPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.NewPassword == "" {
			writeError(w, http.StatusBadRequest, "username and newPassword are required")
			return
		}
		if err := s.auth.ResetPassword(r.Context(), req.Username, req.NewPassword); err != nil {
			s.writeMappedError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// CreateUserHandler provisions a principal in the provider.
func (s *Server) CreateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req idp.NewUser
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "username and password are required")
			return
		}
		if err := s.auth.CreateUser(r.Context(), req); err != nil {
			s.writeMappedError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

// HealthHandler reports process liveness.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
