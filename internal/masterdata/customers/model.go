package customers

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a buyer identified by a national tax id. The tax id
// and email are unique among non-deleted customers.
type Customer struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	CpfOrCnpj string     `json:"cpfOrCnpj"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt"`
}
