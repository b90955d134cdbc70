package fakeidpadapter

import (
	"context"
	"sync"

	"github.com/jmolinera/go-session-center/idp"
	"github.com/jmolinera/go-session-center/internal/errors"
)

var _ idp.Adapter = (*FakeAdapter)(nil)

type fakeUser struct {
	password string
	info     idp.UserInfo
}

// FakeAdapter is a scripted identity provider for tests. Logins issue
// predictable tokens of the form "access-<username>"/"refresh-<username>",
// and any operation whose name appears in FailOn fails.
type FakeAdapter struct {
	users        map[string]*fakeUser
	tokenToUser  map[string]string
	FailOn       map[string]bool
	LogoutCalls  int
	RefreshCalls int
	lock         sync.RWMutex
}

func NewFakeAdapter() *FakeAdapter {
	return &FakeAdapter{
		users:       make(map[string]*fakeUser),
		tokenToUser: make(map[string]string),
		FailOn:      make(map[string]bool),
	}
}

// AddUser seeds a principal with credentials and the user info returned for
// its tokens.
func (f *FakeAdapter) AddUser(username, password string, info idp.UserInfo) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.users[username] = &fakeUser{password: password, info: info}
}

func (f *FakeAdapter) Login(_ context.Context, username, password string) (*idp.TokenSet, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.FailOn["Login"] {
		return nil, errors.ErrInvalidCredentials
	}
	user, ok := f.users[username]
	if !ok || user.password != password {
		return nil, errors.ErrInvalidCredentials
	}
	return f.issueLocked(username), nil
}

func (f *FakeAdapter) Refresh(_ context.Context, refreshToken string) (*idp.TokenSet, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.RefreshCalls++
	if f.FailOn["Refresh"] {
		return nil, errors.ErrInvalidCredentials
	}
	username, ok := f.tokenToUser[refreshToken]
	if !ok {
		return nil, errors.ErrInvalidCredentials
	}
	return f.issueLocked(username), nil
}

func (f *FakeAdapter) Logout(_ context.Context, _ string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.LogoutCalls++
	if f.FailOn["Logout"] {
		return errors.ErrUpstreamUnavailable
	}
	return nil
}

func (f *FakeAdapter) UserInfo(_ context.Context, accessToken string) (*idp.UserInfo, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	if f.FailOn["UserInfo"] {
		return nil, errors.ErrUserInfoUnavailable
	}
	username, ok := f.tokenToUser[accessToken]
	if !ok {
		return nil, errors.ErrUserInfoUnavailable
	}
	info := f.users[username].info
	return &info, nil
}

func (f *FakeAdapter) Introspect(_ context.Context, token string) (*idp.Introspection, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	username, ok := f.tokenToUser[token]
	if !ok || f.FailOn["Introspect"] {
		return &idp.Introspection{Active: false}, nil
	}
	return &idp.Introspection{Active: true, Subject: f.users[username].info.Subject}, nil
}

func (f *FakeAdapter) ResetPassword(_ context.Context, username, newPassword string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.FailOn["ResetPassword"] {
		return errors.ErrUpstreamUnavailable
	}
	user, ok := f.users[username]
	if !ok {
		return errors.ErrIdentityUserNotFound
	}
	user.password = newPassword
	return nil
}

func (f *FakeAdapter) CreateUser(_ context.Context, user idp.NewUser) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.FailOn["CreateUser"] {
		return errors.ErrUpstreamUnavailable
	}
	if _, ok := f.users[user.Username]; ok {
		return errors.ErrUserAlreadyExists
	}
	f.users[user.Username] = &fakeUser{
		password: user.Password,
		info: idp.UserInfo{
			Subject:           user.Username,
			Email:             user.Email,
			PreferredUsername: user.Username,
			Name:              user.FullName,
		},
	}
	return nil
}

func (f *FakeAdapter) issueLocked(username string) *idp.TokenSet {
	access := "access-" + username
	refresh := "refresh-" + username
	f.tokenToUser[access] = username
	f.tokenToUser[refresh] = username
	return &idp.TokenSet{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}
}
