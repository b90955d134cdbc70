package server

import (
	"encoding/json"
	"net/http"

	"github.com/jmolinera/go-session-center/internal/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeMappedError maps the error taxonomy onto HTTP statuses. Unexpected
// errors become a 500 with a generic body; no upstream detail leaks to the
// client.
func (s *Server) writeMappedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errors.ErrMissingPartyID),
		errors.Is(err, errors.ErrInvalidPartyID),
		errors.Is(err, errors.ErrInvalidSessionID):
		writeError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, errors.ErrInvalidCredentials),
		errors.Is(err, errors.ErrAuthenticationFailed),
		errors.Is(err, errors.ErrIdentityNotFound):
		writeError(w, http.StatusUnauthorized, "authentication failed")

	case errors.Is(err, errors.ErrSessionNotFound),
		errors.Is(err, errors.ErrCustomerNotFound),
		errors.Is(err, errors.ErrIdentityUserNotFound),
		errors.Is(err, errors.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")

	case errors.Is(err, errors.ErrUserAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())

	case errors.Is(err, errors.ErrUnsupportedOperation):
		writeError(w, http.StatusNotImplemented, err.Error())

	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
