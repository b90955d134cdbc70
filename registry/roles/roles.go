// Package roles defines the role/permission registry contract: the roles a
// party can hold in a contract and the permission scopes each role grants.
package roles

import (
	"context"

	"github.com/google/uuid"
)

// Role is the capacity in which a party participates in a contract.
type Role struct {
	RoleID      uuid.UUID `json:"roleId"`
	RoleCode    string    `json:"roleCode,omitempty"`
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
}

// Scope is one permission (action on a resource type) granted by a role.
// ActionType and ResourceType are open string sets.
type Scope struct {
	ScopeID      uuid.UUID `json:"scopeId"`
	RoleID       uuid.UUID `json:"roleId"`
	ScopeCode    string    `json:"scopeCode,omitempty"`
	ScopeName    string    `json:"scopeName,omitempty"`
	Description  string    `json:"description,omitempty"`
	ActionType   string    `json:"actionType"`
	ResourceType string    `json:"resourceType,omitempty"`
	IsActive     bool      `json:"isActive"`
}

// Registry is the fetch surface of the role/permission registry service.
type Registry interface {
	// GetRole fetches the role record.
	GetRole(ctx context.Context, roleID uuid.UUID) (*Role, error)
	// ListActiveScopes lists the role's active permission scopes.
	ListActiveScopes(ctx context.Context, roleID uuid.UUID) ([]Scope, error)
}
