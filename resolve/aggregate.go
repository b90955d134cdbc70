package resolve

import (
	"context"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/jmolinera/go-session-center/sessions"
)

var _ sessions.Aggregator = (*SessionAggregator)(nil)

// SessionAggregator runs the customer and contract resolvers concurrently
// and merges both results into one session body. Either branch failing fails
// the aggregation; a session missing customer info or contracts is never
// produced.
type SessionAggregator struct {
	customers *CustomerResolver
	contracts *ContractResolver
}

// NewSessionAggregator builds an aggregator over the two resolvers.
func NewSessionAggregator(customerResolver *CustomerResolver, contractResolver *ContractResolver) *SessionAggregator {
	return &SessionAggregator{customers: customerResolver, contracts: contractResolver}
}

// Aggregate builds the session body for partyID. Identifiers, timestamps and
// status are stamped by the caller.
func (a *SessionAggregator) Aggregate(ctx context.Context, partyID uuid.UUID) (*sessions.SessionContext, error) {
	var (
		customerInfo *sessions.CustomerInfo
		contractList []sessions.ContractInfo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, err := a.customers.Resolve(gctx, partyID)
		if err != nil {
			return err
		}
		customerInfo = info
		return nil
	})
	g.Go(func() error {
		list, err := a.contracts.Resolve(gctx, partyID)
		if err != nil {
			return err
		}
		contractList = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(err, "[SessionAggregator.Aggregate]")
	}

	return &sessions.SessionContext{
		PartyID:         partyID,
		CustomerInfo:    customerInfo,
		ActiveContracts: contractList,
	}, nil
}
