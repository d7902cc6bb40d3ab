package suppliers

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

func (s *Service) List(ctx context.Context) ([]Supplier, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Search(ctx context.Context, query string) ([]Supplier, error) {
	return s.repo.Search(ctx, query)
}

func (s *Service) Create(ctx context.Context, req CreateSupplierRequest) (*Supplier, error) {
	supplier := Supplier{
		ID:      uuid.New(),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Cnpj:    req.Cnpj,
		Address: req.Address,
	}

	created, err := s.repo.Create(ctx, supplier)
	if err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return &created, nil
}

// Update applies a partial field replacement. There is no existence check
// first: updating an unknown id is a store-level no-op.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*Supplier, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Cnpj != nil {
		updates["cnpj"] = *req.Cnpj
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update supplier: %w", err)
		}
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Supplier, error) {
	supplier, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: supplier not found", httpx.ErrNotFound)
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete supplier: %w", err)
	}
	return supplier, nil
}
