// Package idp abstracts the external identity provider behind a uniform
// token-exchange surface. One implementation is selected at process start
// from configuration; the rest of the system never branches on the provider
// kind.
package idp

import (
	"context"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/jmolinera/go-session-center/internal/config"
)

// TokenSet is the provider's token response.
type TokenSet struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"`
}

// UserInfo is the authenticated principal as reported by the provider.
type UserInfo struct {
	Subject           string `json:"subject"`
	Email             string `json:"email,omitempty"`
	PreferredUsername string `json:"preferredUsername,omitempty"`
	Name              string `json:"name,omitempty"`
}

// Introspection is the provider's view of a token's validity.
type Introspection struct {
	Active    bool      `json:"active"`
	Subject   string    `json:"subject,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

// NewUser is the payload for provisioning a principal in the provider.
type NewUser struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
	FullName string `json:"fullName,omitempty"`
}

// Adapter is the uniform identity-provider surface. Implementations that
// cannot support an operation return ErrUnsupportedOperation.
type Adapter interface {
	Login(ctx context.Context, username, password string) (*TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenSet, error)
	Logout(ctx context.Context, refreshToken string) error
	UserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
	Introspect(ctx context.Context, token string) (*Introspection, error)
	ResetPassword(ctx context.Context, username, newPassword string) error
	CreateUser(ctx context.Context, user NewUser) error
}

// New selects and builds the configured adapter.
func New(ctx context.Context, cfg *config.Config) (Adapter, error) {
	switch strings.ToLower(cfg.IdpProvider) {
	case "oidc":
		return NewOIDC(ctx, cfg.OIDCIssuerURL, cfg.OIDCClientID, cfg.OIDCClientSecret)
	case "local":
		return NewLocal([]byte(cfg.LocalIdpSigningKey), cfg.LocalIdpIssuer, cfg.LocalTokenTTL()), nil
	default:
		return nil, pkgerrors.Errorf("[idp.New] unknown provider %q", cfg.IdpProvider)
	}
}
