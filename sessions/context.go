// Package sessions defines the session aggregate, the signed session-id
// codec, and the Manager that orchestrates cache-or-build decisions and
// authorization predicates over cached sessions.
package sessions

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusExpired     Status = "EXPIRED"
	StatusInvalidated Status = "INVALIDATED"
	StatusLocked      Status = "LOCKED"
)

// PartyKind distinguishes natural persons from legal entities.
type PartyKind string

const (
	PartyKindIndividual   PartyKind = "INDIVIDUAL"
	PartyKindOrganization PartyKind = "ORGANIZATION"
)

// SessionContext is the aggregate root: one customer's identity, contracts,
// roles and scopes, bounded in time. It is stored by value in the cache and
// callers always receive independent copies.
type SessionContext struct {
	SessionID       string          `json:"sessionId"`
	PartyID         uuid.UUID       `json:"partyId"`
	CustomerInfo    *CustomerInfo   `json:"customerInfo,omitempty"`
	ActiveContracts []ContractInfo  `json:"activeContracts"`
	CreatedAt       time.Time       `json:"createdAt"`
	LastAccessedAt  time.Time       `json:"lastAccessedAt"`
	ExpiresAt       time.Time       `json:"expiresAt"`
	IPAddress       string          `json:"ipAddress,omitempty"`
	UserAgent       string          `json:"userAgent,omitempty"`
	Status          Status          `json:"status"`
	Metadata        SessionMetadata `json:"metadata"`
}

// SessionMetadata captures provenance set once at creation.
type SessionMetadata struct {
	Channel           string `json:"channel,omitempty"`
	SourceApplication string `json:"sourceApplication,omitempty"`
	DeviceID          string `json:"deviceId,omitempty"`
}

// CustomerInfo is an immutable snapshot of the customer profile. It is
// re-fetched whole on every rebuild, never partially patched.
type CustomerInfo struct {
	PartyID           uuid.UUID `json:"partyId"`
	Kind              PartyKind `json:"kind"`
	TenantID          string    `json:"tenantId,omitempty"`
	FullName          string    `json:"fullName"`
	PreferredLanguage string    `json:"preferredLanguage,omitempty"`
	Email             *string   `json:"email,omitempty"`
	PhoneNumber       *string   `json:"phoneNumber,omitempty"`
	TaxIDNumber       string    `json:"taxIdNumber,omitempty"`
	IsActive          bool      `json:"isActive"`
}

// ContractInfo links the customer, via a role, to a product. A contract is
// either fully enriched or absent; no partially enriched contract is ever
// surfaced.
type ContractInfo struct {
	ContractID     uuid.UUID    `json:"contractId"`
	ContractNumber string       `json:"contractNumber,omitempty"`
	ContractStatus string       `json:"contractStatus,omitempty"`
	StartDate      *time.Time   `json:"startDate,omitempty"`
	EndDate        *time.Time   `json:"endDate,omitempty"`
	RoleInContract RoleInfo     `json:"roleInContract"`
	Product        *ProductInfo `json:"product,omitempty"`
	IsActive       bool         `json:"isActive"`
}

// RoleInfo is the capacity in which the customer participates in a contract.
// Scopes is empty only when the scope fetch degraded; otherwise it is
// populated in full.
type RoleInfo struct {
	RoleID      uuid.UUID       `json:"roleId"`
	RoleCode    string          `json:"roleCode,omitempty"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"isActive"`
	Scopes      []RoleScopeInfo `json:"scopes"`
}

// RoleScopeInfo is a fine-grained permission (action on a resource type)
// granted by a role. ActionType and ResourceType are open string sets.
type RoleScopeInfo struct {
	ScopeID      uuid.UUID `json:"scopeId"`
	RoleID       uuid.UUID `json:"roleId"`
	ScopeCode    string    `json:"scopeCode,omitempty"`
	ScopeName    string    `json:"scopeName,omitempty"`
	Description  string    `json:"description,omitempty"`
	ActionType   string    `json:"actionType"`
	ResourceType string    `json:"resourceType,omitempty"`
	IsActive     bool      `json:"isActive"`
}

// ProductInfo is a value object describing the product linked to a contract.
// A contract without a linked product carries a nil Product, not an empty
// struct.
type ProductInfo struct {
	ProductID   uuid.UUID  `json:"productId"`
	SubtypeID   *uuid.UUID `json:"subtypeId,omitempty"`
	Name        string     `json:"name,omitempty"`
	Code        string     `json:"code,omitempty"`
	Description string     `json:"description,omitempty"`
	Type        string     `json:"type,omitempty"`
	Status      string     `json:"status,omitempty"`
	LaunchDate  *time.Time `json:"launchDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}
