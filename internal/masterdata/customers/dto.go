package customers

type CreateCustomerRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	CpfOrCnpj string `json:"cpfOrCnpj" validate:"required,max=20"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,max=50"`
}

type UpdateCustomerRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=200"`
	CpfOrCnpj *string `json:"cpfOrCnpj,omitempty" validate:"omitempty,max=20"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
}
