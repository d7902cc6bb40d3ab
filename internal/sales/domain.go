// Package sales implements the sale aggregate: a sale header owned by a
// customer plus an immutable set of product line items.
package sales

import (
	"time"

	"github.com/google/uuid"

	"github.com/balcao-app/balcao/internal/masterdata/customers"
	"github.com/balcao-app/balcao/internal/masterdata/products"
)

// Sale is the aggregate root. Reads embed the owning customer and each line
// item's product.
type Sale struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	CustomerID   uuid.UUID           `json:"customerId"`
	SaleDate     time.Time           `json:"saleDate"`
	Customer     *customers.Customer `json:"customer,omitempty"`
	SaleProducts []SaleProduct       `json:"saleProducts"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	DeletedAt    *time.Time          `json:"deletedAt"`
}

// SaleProduct is one sold unit of a product. Line items are created together
// with their sale and never mutated afterwards.
type SaleProduct struct {
	ID        uuid.UUID         `json:"id"`
	SaleID    uuid.UUID         `json:"saleId"`
	ProductID uuid.UUID         `json:"productId"`
	Quantity  int               `json:"quantity"`
	Product   *products.Product `json:"product,omitempty"`
	Sale      *Sale             `json:"sale,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	DeletedAt *time.Time        `json:"deletedAt"`
}
