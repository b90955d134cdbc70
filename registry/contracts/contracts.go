// Package contracts defines the contract registry contract: the
// contract-party memberships linking a customer to its agreements, and the
// full contract records behind them.
package contracts

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Membership is one contract-party link: the party participates in the
// contract under the given role.
type Membership struct {
	MembershipID uuid.UUID `json:"membershipId"`
	ContractID   uuid.UUID `json:"contractId"`
	PartyID      uuid.UUID `json:"partyId"`
	RoleID       uuid.UUID `json:"roleId"`
	IsActive     bool      `json:"isActive"`
}

// Contract is the full contract record.
type Contract struct {
	ContractID     uuid.UUID  `json:"contractId"`
	ContractNumber string     `json:"contractNumber,omitempty"`
	Status         string     `json:"status,omitempty"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	ProductID      *uuid.UUID `json:"productId,omitempty"`
}

// IsActive reports whether the contract record is in active status.
func (c *Contract) IsActive() bool {
	return c.Status == "ACTIVE"
}

// Registry is the fetch surface of the contract registry service.
type Registry interface {
	// ListActiveMemberships lists the party's active contract-party
	// memberships.
	ListActiveMemberships(ctx context.Context, partyID uuid.UUID) ([]Membership, error)
	// GetContract fetches the full contract record.
	GetContract(ctx context.Context, contractID uuid.UUID) (*Contract, error)
}
