// Package auth sequences the external identity provider, the identity
// mapper and the session manager into the login/refresh/logout pipeline.
package auth

import (
	"context"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jmolinera/go-session-center/identity"
	"github.com/jmolinera/go-session-center/idp"
	"github.com/jmolinera/go-session-center/sessions"
)

// Result is the outcome of a successful login or refresh: the provider's
// tokens plus the enriched session.
type Result struct {
	Tokens    idp.TokenSet             `json:"tokens"`
	PartyID   uuid.UUID                `json:"partyId"`
	SessionID string                   `json:"sessionId"`
	Session   *sessions.SessionContext `json:"session"`
}

// Deps holds the Service's collaborators.
type Deps struct {
	IDP      idp.Adapter
	Mapper   *identity.Mapper
	Sessions *sessions.Manager
}

// Service is the authentication orchestrator.
type Service struct {
	deps   Deps
	logger zerolog.Logger
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithLogger sets the Service's logger.
func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService initializes a Service with required dependencies.
func NewService(deps Deps, options ...ServiceOption) (*Service, error) {
	if deps.IDP == nil {
		return nil, pkgerrors.New("[NewService] IDP adapter is required")
	}
	if deps.Mapper == nil {
		return nil, pkgerrors.New("[NewService] Mapper is required")
	}
	if deps.Sessions == nil {
		return nil, pkgerrors.New("[NewService] Sessions manager is required")
	}

	s := &Service{
		deps:   deps,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Login exchanges credentials for tokens, maps the principal to a party and
// builds its session. The username doubles as the hint for the source-system
// identity lookup.
func (s *Service) Login(ctx context.Context, username, password string) (*Result, error) {
	tokens, err := s.deps.IDP.Login(ctx, username, password)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[Service.Login] idp login")
	}
	return s.establishSession(ctx, tokens, username)
}

// Refresh runs the same pipeline as Login off the refresh-token grant.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Result, error) {
	tokens, err := s.deps.IDP.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[Service.Refresh] idp refresh")
	}
	return s.establishSession(ctx, tokens, "")
}

// Logout revokes the provider session and evicts the cached session. Both
// are attempted even if one fails.
func (s *Service) Logout(ctx context.Context, refreshToken, sessionID string) error {
	var idpErr, sessionErr error

	idpErr = s.deps.IDP.Logout(ctx, refreshToken)
	if idpErr != nil {
		s.logger.Warn().Err(idpErr).Msg("idp logout failed")
	}
	if sessionID != "" {
		sessionErr = s.deps.Sessions.InvalidateSession(ctx, sessionID)
		if sessionErr != nil {
			s.logger.Warn().Err(sessionErr).Str("sessionId", sessionID).Msg("session invalidation failed")
		}
	}

	if idpErr != nil {
		return pkgerrors.Wrap(idpErr, "[Service.Logout] idp logout")
	}
	if sessionErr != nil {
		return pkgerrors.Wrap(sessionErr, "[Service.Logout] session invalidation")
	}
	return nil
}

// Introspect asks the provider whether the token is still honored.
func (s *Service) Introspect(ctx context.Context, token string) (*idp.Introspection, error) {
	result, err := s.deps.IDP.Introspect(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[Service.Introspect]")
	}
	return result, nil
}

// ResetPassword delegates to the provider.
func (s *Service) ResetPassword(ctx context.Context, username, newPassword string) error {
	if err := s.deps.IDP.ResetPassword(ctx, username, newPassword); err != nil {
		return pkgerrors.Wrap(err, "[Service.ResetPassword]")
	}
	return nil
}

// CreateUser delegates to the provider. The customer record itself is owned
// by the customer registry; provisioning there is out of scope here.
func (s *Service) CreateUser(ctx context.Context, user idp.NewUser) error {
	if err := s.deps.IDP.CreateUser(ctx, user); err != nil {
		return pkgerrors.Wrap(err, "[Service.CreateUser]")
	}
	return nil
}

func (s *Service) establishSession(ctx context.Context, tokens *idp.TokenSet, usernameHint string) (*Result, error) {
	info, err := s.deps.IDP.UserInfo(ctx, tokens.AccessToken)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[Service.establishSession] user info")
	}

	partyID, err := s.deps.Mapper.MapToPartyID(ctx, identity.ExternalIdentity{
		Email:             info.Email,
		PreferredUsername: info.PreferredUsername,
	}, usernameHint)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[Service.establishSession] identity mapping")
	}

	session, err := s.deps.Sessions.GetByPartyID(ctx, partyID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[Service.establishSession] session build")
	}

	return &Result{
		Tokens:    *tokens,
		PartyID:   partyID,
		SessionID: session.SessionID,
		Session:   session,
	}, nil
}
