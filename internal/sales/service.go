package sales

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

func (s *Service) List(ctx context.Context) ([]Sale, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Search(ctx context.Context, query string) ([]Sale, error) {
	return s.repo.Search(ctx, query)
}

// Create inserts the sale and its line items atomically and returns the
// nested representation. Product ids are not checked here; a dangling
// reference surfaces as a foreign key violation from the store.
func (s *Service) Create(ctx context.Context, req CreateSaleRequest) (*Sale, error) {
	sale := Sale{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CustomerID:  req.CustomerID,
		SaleDate:    req.SaleDate,
	}
	items := make([]SaleProduct, 0, len(req.SaleProducts))
	for _, line := range req.SaleProducts {
		items = append(items, SaleProduct{
			ID:        uuid.New(),
			SaleID:    sale.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	if err := s.repo.Create(ctx, sale, items); err != nil {
		return nil, fmt.Errorf("create sale: %w", err)
	}
	return s.repo.Get(ctx, sale.ID)
}

// Update changes only the customer and sale date. The existence check does
// not filter soft-deleted rows, so a deleted sale can still be updated.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateSaleRequest) (*Sale, error) {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check sale: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: sale not found", httpx.ErrNotFound)
	}
	if err := s.repo.Update(ctx, id, req.CustomerID, req.SaleDate); err != nil {
		return nil, fmt.Errorf("update sale: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Delete soft-deletes the sale and returns the nested representation of the
// now-deleted record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Sale, error) {
	sale, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: sale not found", httpx.ErrNotFound)
	}
	deletedAt, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete sale: %w", err)
	}
	sale.DeletedAt = &deletedAt
	return sale, nil
}
