package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Cache is the keyed session store the Manager runs against. Backends may be
// in-process or distributed; the Manager never assumes more than the contract
// below.
//
// Get returns (nil, nil) on a miss. Clear removes every entry in the
// namespace, across all parties.
type Cache interface {
	Get(ctx context.Context, key string) (*SessionContext, error)
	Put(ctx context.Context, key string, value *SessionContext, ttl time.Duration) error
	Evict(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Aggregator builds the session body for a party by fanning out to the
// downstream registries. Identifiers, timestamps and status are stamped by
// the Manager, not the aggregator.
type Aggregator interface {
	Aggregate(ctx context.Context, partyID uuid.UUID) (*SessionContext, error)
}
