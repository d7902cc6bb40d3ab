package suppliers

type CreateSupplierRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,max=50"`
	Cnpj    string `json:"cnpj" validate:"required,max=20"`
	Address string `json:"address" validate:"required,max=300"`
}

type UpdateSupplierRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Cnpj    *string `json:"cnpj,omitempty" validate:"omitempty,max=20"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=300"`
}
