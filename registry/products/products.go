// Package products defines the product catalog contract.
package products

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Product is a catalog record describing a banking product.
type Product struct {
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

// Registry is the fetch surface of the product catalog service.
type Registry interface {
	// GetProduct fetches the catalog record for a product.
	GetProduct(ctx context.Context, productID uuid.UUID) (*Product, error)
}
