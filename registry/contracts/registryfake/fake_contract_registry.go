package fakecontractregistry

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jmolinera/go-session-center/internal/errors"
	"github.com/jmolinera/go-session-center/registry/contracts"
)

var _ contracts.Registry = (*FakeContractRegistry)(nil)

// FakeContractRegistry is an in-memory contract registry for tests. Any
// operation whose name appears in FailOn returns ErrUpstreamUnavailable;
// contract ids in FailContracts fail individually.
type FakeContractRegistry struct {
	Memberships   map[uuid.UUID][]contracts.Membership
	Contracts     map[uuid.UUID]*contracts.Contract
	FailOn        map[string]bool
	FailContracts map[uuid.UUID]bool
	lock          sync.RWMutex
}

func NewFakeContractRegistry() *FakeContractRegistry {
	return &FakeContractRegistry{
		Memberships:   make(map[uuid.UUID][]contracts.Membership),
		Contracts:     make(map[uuid.UUID]*contracts.Contract),
		FailOn:        make(map[string]bool),
		FailContracts: make(map[uuid.UUID]bool),
	}
}

func (r *FakeContractRegistry) ListActiveMemberships(_ context.Context, partyID uuid.UUID) ([]contracts.Membership, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.FailOn["ListActiveMemberships"] {
		return nil, errors.ErrUpstreamUnavailable
	}

	var active []contracts.Membership
	for _, membership := range r.Memberships[partyID] {
		if membership.IsActive {
			active = append(active, membership)
		}
	}
	return active, nil
}

func (r *FakeContractRegistry) GetContract(_ context.Context, contractID uuid.UUID) (*contracts.Contract, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.FailOn["GetContract"] || r.FailContracts[contractID] {
		return nil, errors.ErrUpstreamUnavailable
	}

	contract, ok := r.Contracts[contractID]
	if !ok {
		return nil, errors.ErrContractNotFound
	}
	return contract, nil
}
