package fakeproductcatalog

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jmolinera/go-session-center/internal/errors"
	"github.com/jmolinera/go-session-center/registry/products"
)

var _ products.Registry = (*FakeProductCatalog)(nil)

// FakeProductCatalog is an in-memory product catalog for tests.
type FakeProductCatalog struct {
	Products map[uuid.UUID]*products.Product
	FailOn   map[string]bool
	lock     sync.RWMutex
}

func NewFakeProductCatalog() *FakeProductCatalog {
	return &FakeProductCatalog{
		Products: make(map[uuid.UUID]*products.Product),
		FailOn:   make(map[string]bool),
	}
}

func (r *FakeProductCatalog) GetProduct(_ context.Context, productID uuid.UUID) (*products.Product, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.FailOn["GetProduct"] {
		return nil, errors.ErrUpstreamUnavailable
	}

	product, ok := r.Products[productID]
	if !ok {
		return nil, errors.ErrProductNotFound
	}
	return product, nil
}
