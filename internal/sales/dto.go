package sales

import (
	"time"

	"github.com/google/uuid"
)

type CreateSaleRequest struct {
	Name         string                     `json:"name" validate:"required,max=200"`
	Description  string                     `json:"description" validate:"required"`
	CustomerID   uuid.UUID                  `json:"customerId" validate:"required"`
	SaleDate     time.Time                  `json:"saleDate" validate:"required"`
	SaleProducts []CreateSaleProductRequest `json:"saleProducts" validate:"dive"`
}

type CreateSaleProductRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// UpdateSaleRequest only carries the mutable header fields; line items have
// no update path.
type UpdateSaleRequest struct {
	CustomerID uuid.UUID `json:"customerId" validate:"required"`
	SaleDate   time.Time `json:"saleDate" validate:"required"`
}
