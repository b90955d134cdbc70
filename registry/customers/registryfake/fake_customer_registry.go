package fakecustomerregistry

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jmolinera/go-session-center/internal/errors"
	"github.com/jmolinera/go-session-center/registry/customers"
)

var _ customers.Registry = (*FakeCustomerRegistry)(nil)

// FakeCustomerRegistry is an in-memory customer registry for tests. Any
// operation whose name appears in FailOn returns ErrUpstreamUnavailable.
type FakeCustomerRegistry struct {
	Parties        map[uuid.UUID]*customers.Party
	NaturalPersons map[uuid.UUID]*customers.NaturalPerson
	LegalEntities  map[uuid.UUID]*customers.LegalEntity
	EmailContacts  map[uuid.UUID][]customers.EmailContact
	PhoneContacts  map[uuid.UUID][]customers.PhoneContact
	FailOn         map[string]bool
	lock           sync.RWMutex
}

func NewFakeCustomerRegistry() *FakeCustomerRegistry {
	return &FakeCustomerRegistry{
		Parties:        make(map[uuid.UUID]*customers.Party),
		NaturalPersons: make(map[uuid.UUID]*customers.NaturalPerson),
		LegalEntities:  make(map[uuid.UUID]*customers.LegalEntity),
		EmailContacts:  make(map[uuid.UUID][]customers.EmailContact),
		PhoneContacts:  make(map[uuid.UUID][]customers.PhoneContact),
		FailOn:         make(map[string]bool),
	}
}

func (r *FakeCustomerRegistry) failing(op string) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.FailOn[op]
}

func (r *FakeCustomerRegistry) GetParty(_ context.Context, partyID uuid.UUID) (*customers.Party, error) {
	if r.failing("GetParty") {
		return nil, errors.ErrUpstreamUnavailable
	}
	r.lock.RLock()
	defer r.lock.RUnlock()

	party, ok := r.Parties[partyID]
	if !ok {
		return nil, errors.ErrCustomerNotFound
	}
	return party, nil
}

func (r *FakeCustomerRegistry) GetNaturalPerson(_ context.Context, partyID uuid.UUID) (*customers.NaturalPerson, error) {
	if r.failing("GetNaturalPerson") {
		return nil, errors.ErrUpstreamUnavailable
	}
	r.lock.RLock()
	defer r.lock.RUnlock()

	person, ok := r.NaturalPersons[partyID]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return person, nil
}

func (r *FakeCustomerRegistry) GetLegalEntity(_ context.Context, partyID uuid.UUID) (*customers.LegalEntity, error) {
	if r.failing("GetLegalEntity") {
		return nil, errors.ErrUpstreamUnavailable
	}
	r.lock.RLock()
	defer r.lock.RUnlock()

	entity, ok := r.LegalEntities[partyID]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return entity, nil
}

func (r *FakeCustomerRegistry) ListEmailContacts(_ context.Context, partyID uuid.UUID) ([]customers.EmailContact, error) {
	if r.failing("ListEmailContacts") {
		return nil, errors.ErrUpstreamUnavailable
	}
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.EmailContacts[partyID], nil
}

func (r *FakeCustomerRegistry) ListPhoneContacts(_ context.Context, partyID uuid.UUID) ([]customers.PhoneContact, error) {
	if r.failing("ListPhoneContacts") {
		return nil, errors.ErrUpstreamUnavailable
	}
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.PhoneContacts[partyID], nil
}

func (r *FakeCustomerRegistry) FindEmailContacts(_ context.Context, email string) ([]customers.EmailContact, error) {
	if r.failing("FindEmailContacts") {
		return nil, errors.ErrUpstreamUnavailable
	}
	r.lock.RLock()
	defer r.lock.RUnlock()

	var matches []customers.EmailContact
	for _, contacts := range r.EmailContacts {
		for _, contact := range contacts {
			if contact.Email == email {
				matches = append(matches, contact)
			}
		}
	}
	return matches, nil
}

func (r *FakeCustomerRegistry) FindPartiesBySourceSystem(_ context.Context, sourceSystem string) ([]customers.Party, error) {
	if r.failing("FindPartiesBySourceSystem") {
		return nil, errors.ErrUpstreamUnavailable
	}
	r.lock.RLock()
	defer r.lock.RUnlock()

	var matches []customers.Party
	for _, party := range r.Parties {
		if party.SourceSystem == sourceSystem {
			matches = append(matches, *party)
		}
	}
	return matches, nil
}
