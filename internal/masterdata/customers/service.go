package customers

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/balcao-app/balcao/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Search(ctx context.Context, query string) ([]Customer, error) {
	return s.repo.Search(ctx, query)
}

// Create inserts a customer after checking that neither the tax id nor the
// email is already taken by a non-deleted customer. The checks run in
// sequence; the tax id conflict wins when both fields collide.
func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	taken, err := s.repo.ExistsByCpfOrCnpj(ctx, req.CpfOrCnpj)
	if err != nil {
		return nil, fmt.Errorf("check customer cpf/cnpj: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: already have one customer with this cpf/cnpj", httpx.ErrDuplicate)
	}

	taken, err = s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check customer email: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: already have one customer with this email", httpx.ErrDuplicate)
	}

	customer := Customer{
		ID:        uuid.New(),
		Name:      req.Name,
		CpfOrCnpj: req.CpfOrCnpj,
		Email:     req.Email,
		Phone:     req.Phone,
	}

	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return &created, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*Customer, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.CpfOrCnpj != nil {
		updates["cpf_or_cnpj"] = *req.CpfOrCnpj
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update customer: %w", err)
		}
	}
	return s.repo.Get(ctx, id)
}

// Delete marks the customer deleted and returns its last visible state.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Customer, error) {
	customer, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: customer not found", httpx.ErrNotFound)
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete customer: %w", err)
	}
	return customer, nil
}
