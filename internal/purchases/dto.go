package purchases

import "github.com/google/uuid"

type CreatePurchaseRequest struct {
	Name                 string                             `json:"name" validate:"required,max=200"`
	Description          string                             `json:"description" validate:"required"`
	SupplierID           uuid.UUID                          `json:"supplierId" validate:"required"`
	PurchaseSaleProducts []CreatePurchaseSaleProductRequest `json:"PurchaseSaleProducts" validate:"dive"`
}

type CreatePurchaseSaleProductRequest struct {
	SaleProductID uuid.UUID `json:"saleProductId" validate:"required"`
}
