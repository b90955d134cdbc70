package fakeroleregistry

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jmolinera/go-session-center/internal/errors"
	"github.com/jmolinera/go-session-center/registry/roles"
)

var _ roles.Registry = (*FakeRoleRegistry)(nil)

// FakeRoleRegistry is an in-memory role registry for tests. Any operation
// whose name appears in FailOn returns ErrUpstreamUnavailable; role ids in
// FailScopes fail only the scope listing.
type FakeRoleRegistry struct {
	Roles      map[uuid.UUID]*roles.Role
	Scopes     map[uuid.UUID][]roles.Scope
	FailOn     map[string]bool
	FailScopes map[uuid.UUID]bool
	lock       sync.RWMutex
}

func NewFakeRoleRegistry() *FakeRoleRegistry {
	return &FakeRoleRegistry{
		Roles:      make(map[uuid.UUID]*roles.Role),
		Scopes:     make(map[uuid.UUID][]roles.Scope),
		FailOn:     make(map[string]bool),
		FailScopes: make(map[uuid.UUID]bool),
	}
}

func (r *FakeRoleRegistry) GetRole(_ context.Context, roleID uuid.UUID) (*roles.Role, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.FailOn["GetRole"] {
		return nil, errors.ErrUpstreamUnavailable
	}

	role, ok := r.Roles[roleID]
	if !ok {
		return nil, errors.ErrRoleNotFound
	}
	return role, nil
}

func (r *FakeRoleRegistry) ListActiveScopes(_ context.Context, roleID uuid.UUID) ([]roles.Scope, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.FailOn["ListActiveScopes"] || r.FailScopes[roleID] {
		return nil, errors.ErrUpstreamUnavailable
	}

	var active []roles.Scope
	for _, scope := range r.Scopes[roleID] {
		if scope.IsActive {
			active = append(active, scope)
		}
	}
	return active, nil
}
