// Package purchases implements the purchase aggregate: a purchase made from
// a supplier covering sold units. Each sale line item can be covered by at
// most one non-deleted purchase.
package purchases

import (
	"time"

	"github.com/google/uuid"

	"github.com/balcao-app/balcao/internal/masterdata/suppliers"
	"github.com/balcao-app/balcao/internal/sales"
)

// Purchase is the aggregate root. Reads embed the supplier and every line
// item's sale product chain.
type Purchase struct {
	ID                   uuid.UUID             `json:"id"`
	Name                 string                `json:"name"`
	Description          string                `json:"description"`
	SupplierID           uuid.UUID             `json:"supplierId"`
	Supplier             *suppliers.Supplier   `json:"supplier,omitempty"`
	PurchaseSaleProducts []PurchaseSaleProduct `json:"PurchaseSaleProducts"`
	CreatedAt            time.Time             `json:"createdAt"`
	UpdatedAt            time.Time             `json:"updatedAt"`
	DeletedAt            *time.Time            `json:"deletedAt"`
}

// PurchaseSaleProduct links a purchase to exactly one sale line item.
type PurchaseSaleProduct struct {
	ID            uuid.UUID          `json:"id"`
	PurchaseID    uuid.UUID          `json:"purchaseId"`
	SaleProductID uuid.UUID          `json:"saleProductId"`
	SaleProduct   *sales.SaleProduct `json:"saleProduct,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	DeletedAt     *time.Time         `json:"deletedAt"`
}

// TakenSaleProduct identifies a sale line item already covered by a
// non-deleted purchase, with enough context for the conflict message.
type TakenSaleProduct struct {
	SaleProductID uuid.UUID
	ProductName   string
	SaleID        uuid.UUID
}
