package idp

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/jmolinera/go-session-center/internal/errors"
)

var _ Adapter = (*OIDC)(nil)

// OIDC authenticates against any OIDC-compliant provider (Keycloak-class)
// using the resource-owner-password and refresh-token grants.
type OIDC struct {
	provider     *oidc.Provider
	oauthConfig  *oauth2.Config
	httpClient   *http.Client
	clientSecret string
	endSession   string
}

// NewOIDC discovers the issuer's endpoints and builds the adapter.
func NewOIDC(ctx context.Context, issuerURL, clientID, clientSecret string) (*OIDC, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "[NewOIDC] issuer discovery")
	}

	var extra struct {
		EndSessionEndpoint string `json:"end_session_endpoint"`
	}
	if err := provider.Claims(&extra); err != nil {
		return nil, pkgerrors.Wrap(err, "[NewOIDC] issuer metadata")
	}

	return &OIDC{
		provider: provider,
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		clientSecret: clientSecret,
		endSession:   extra.EndSessionEndpoint,
	}, nil
}

func (o *OIDC) Login(ctx context.Context, username, password string) (*TokenSet, error) {
	token, err := o.oauthConfig.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		return nil, pkgerrors.Wrap(errors.ErrInvalidCredentials, err.Error())
	}
	return tokenSetFromOAuth(token), nil
}

func (o *OIDC) Refresh(ctx context.Context, refreshToken string) (*TokenSet, error) {
	source := o.oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := source.Token()
	if err != nil {
		return nil, pkgerrors.Wrap(errors.ErrInvalidCredentials, err.Error())
	}
	return tokenSetFromOAuth(token), nil
}

// Logout revokes the session at the provider's end-session endpoint.
// Providers without one make logout a client-side concern and this is a
// no-op.
func (o *OIDC) Logout(ctx context.Context, refreshToken string) error {
	if o.endSession == "" {
		return nil
	}

	form := url.Values{
		"client_id":     {o.oauthConfig.ClientID},
		"client_secret": {o.clientSecret},
		"refresh_token": {refreshToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endSession, strings.NewReader(form.Encode()))
	if err != nil {
		return pkgerrors.Wrap(err, "[OIDC.Logout] creating request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(err, "[OIDC.Logout] end-session request")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pkgerrors.Errorf("[OIDC.Logout] end-session returned %d", resp.StatusCode)
	}
	return nil
}

func (o *OIDC) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	info, err := o.provider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return nil, pkgerrors.Wrap(errors.ErrUserInfoUnavailable, err.Error())
	}

	var claims struct {
		PreferredUsername string `json:"preferred_username"`
		Name              string `json:"name"`
	}
	if err := info.Claims(&claims); err != nil {
		return nil, pkgerrors.Wrap(errors.ErrUserInfoUnavailable, err.Error())
	}

	return &UserInfo{
		Subject:           info.Subject,
		Email:             info.Email,
		PreferredUsername: claims.PreferredUsername,
		Name:              claims.Name,
	}, nil
}

// Introspect checks a token against the provider's UserInfo endpoint. A
// token the provider no longer honors reports inactive rather than an error.
func (o *OIDC) Introspect(ctx context.Context, token string) (*Introspection, error) {
	info, err := o.UserInfo(ctx, token)
	if err != nil {
		return &Introspection{Active: false}, nil
	}
	return &Introspection{Active: true, Subject: info.Subject}, nil
}

// ResetPassword requires provider-specific admin APIs outside the OIDC
// standard surface.
func (o *OIDC) ResetPassword(_ context.Context, _, _ string) error {
	return errors.ErrUnsupportedOperation
}

// CreateUser requires provider-specific admin APIs outside the OIDC
// standard surface.
func (o *OIDC) CreateUser(_ context.Context, _ NewUser) error {
	return errors.ErrUnsupportedOperation
}

func tokenSetFromOAuth(token *oauth2.Token) *TokenSet {
	set := &TokenSet{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
	}
	if !token.Expiry.IsZero() {
		set.ExpiresIn = int64(time.Until(token.Expiry).Seconds())
	}
	return set
}
