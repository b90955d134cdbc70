package idp

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/jmolinera/go-session-center/internal/errors"
)

var _ Adapter = (*Local)(nil)

const refreshTokenMultiplier = 8

type localUser struct {
	Username     string
	Email        string
	FullName     string
	PasswordHash []byte
}

type localClaims struct {
	Email             string `json:"email,omitempty"`
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	TokenUse          string `json:"token_use"`
	jwt.RegisteredClaims
}

// Local is a self-contained identity provider for development and test
// deployments: an in-memory credential store issuing HS256 tokens. Logout is
// a no-op because tokens are stateless.
type Local struct {
	signingKey []byte
	issuer     string
	tokenTTL   time.Duration
	users      map[string]*localUser
	lock       sync.RWMutex
	nowTime    func() time.Time
}

// LocalOption defines a function type to modify the Local instance.
type LocalOption func(*Local)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) LocalOption {
	return func(l *Local) {
		l.nowTime = nowFunc
	}
}

// NewLocal builds the local adapter. Access tokens live for tokenTTL;
// refresh tokens live eight times as long.
func NewLocal(signingKey []byte, issuer string, tokenTTL time.Duration, options ...LocalOption) *Local {
	l := &Local{
		signingKey: signingKey,
		issuer:     issuer,
		tokenTTL:   tokenTTL,
		users:      make(map[string]*localUser),
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *Local) Login(_ context.Context, username, password string) (*TokenSet, error) {
	l.lock.RLock()
	user, ok := l.users[username]
	l.lock.RUnlock()
	if !ok {
		return nil, errors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}
	return l.issueTokens(user)
}

func (l *Local) Refresh(_ context.Context, refreshToken string) (*TokenSet, error) {
	claims, err := l.parse(refreshToken)
	if err != nil || claims.TokenUse != "refresh" {
		return nil, errors.ErrInvalidCredentials
	}

	l.lock.RLock()
	user, ok := l.users[claims.Subject]
	l.lock.RUnlock()
	if !ok {
		return nil, errors.ErrInvalidCredentials
	}
	return l.issueTokens(user)
}

// Logout is a no-op: locally issued tokens are stateless and expire on
// their own.
func (l *Local) Logout(_ context.Context, _ string) error {
	return nil
}

func (l *Local) UserInfo(_ context.Context, accessToken string) (*UserInfo, error) {
	claims, err := l.parse(accessToken)
	if err != nil || claims.TokenUse != "access" {
		return nil, errors.ErrUserInfoUnavailable
	}
	return &UserInfo{
		Subject:           claims.Subject,
		Email:             claims.Email,
		PreferredUsername: claims.PreferredUsername,
		Name:              claims.Name,
	}, nil
}

func (l *Local) Introspect(_ context.Context, token string) (*Introspection, error) {
	claims, err := l.parse(token)
	if err != nil {
		return &Introspection{Active: false}, nil
	}
	return &Introspection{
		Active:    true,
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (l *Local) ResetPassword(_ context.Context, username, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return pkgerrors.Wrap(err, "[Local.ResetPassword] hashing password")
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	user, ok := l.users[username]
	if !ok {
		return errors.ErrIdentityUserNotFound
	}
	user.PasswordHash = hash
	return nil
}

func (l *Local) CreateUser(_ context.Context, user NewUser) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return pkgerrors.Wrap(err, "[Local.CreateUser] hashing password")
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	if _, ok := l.users[user.Username]; ok {
		return errors.ErrUserAlreadyExists
	}
	l.users[user.Username] = &localUser{
		Username:     user.Username,
		Email:        user.Email,
		FullName:     user.FullName,
		PasswordHash: hash,
	}
	return nil
}

func (l *Local) issueTokens(user *localUser) (*TokenSet, error) {
	access, err := l.sign(user, "access", l.tokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := l.sign(user, "refresh", l.tokenTTL*refreshTokenMultiplier)
	if err != nil {
		return nil, err
	}
	return &TokenSet{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(l.tokenTTL.Seconds()),
	}, nil
}

func (l *Local) sign(user *localUser, use string, ttl time.Duration) (string, error) {
	now := l.nowTime()
	claims := localClaims{
		Email:             user.Email,
		Name:              user.FullName,
		PreferredUsername: user.Username,
		TokenUse:          use,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    l.issuer,
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.signingKey)
	if err != nil {
		return "", pkgerrors.Wrap(err, "[Local.sign] signing token")
	}
	return token, nil
}

func (l *Local) parse(tokenString string) (*localClaims, error) {
	var claims localClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, pkgerrors.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return l.signingKey, nil
	}, jwt.WithIssuer(l.issuer), jwt.WithTimeFunc(func() time.Time { return l.nowTime() }))
	if err != nil {
		return nil, err
	}
	return &claims, nil
}
