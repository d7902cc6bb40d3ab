package purchases

import (
	"context"
	"errors"
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

func (s *Service) List(ctx context.Context) ([]Purchase, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Purchase, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Search(ctx context.Context, query string) ([]Purchase, error) {
	return s.repo.Search(ctx, query)
}

// Create purchases the named sale line items from a supplier. A sale line
// item may belong to at most one non-deleted purchase: any requested item
// already claimed rejects the whole request with a conflict naming the
// first offender. The pre-check is advisory; the partial unique index on
// active line items decides races between concurrent creates.
func (s *Service) Create(ctx context.Context, req CreatePurchaseRequest) (*Purchase, error) {
	ids := make([]uuid.UUID, 0, len(req.PurchaseSaleProducts))
	for _, line := range req.PurchaseSaleProducts {
		ids = append(ids, line.SaleProductID)
	}

	taken, err := s.repo.FindTaken(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("check purchased sale products: %w", err)
	}
	if len(taken) > 0 {
		first := taken[0]
		return nil, fmt.Errorf("%w: the %s from sale %s has already been purchased",
			httpx.ErrDuplicate, first.ProductName, first.SaleID)
	}

	purchase := Purchase{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		SupplierID:  req.SupplierID,
	}
	items := make([]PurchaseSaleProduct, 0, len(req.PurchaseSaleProducts))
	for _, line := range req.PurchaseSaleProducts {
		items = append(items, PurchaseSaleProduct{
			ID:            uuid.New(),
			PurchaseID:    purchase.ID,
			SaleProductID: line.SaleProductID,
		})
	}

	if err := s.repo.Create(ctx, purchase, items); err != nil {
		if errors.Is(err, ErrSaleProductTaken) {
			return nil, fmt.Errorf("%w: %v", httpx.ErrDuplicate, err)
		}
		return nil, fmt.Errorf("create purchase: %w", err)
	}
	return s.repo.Get(ctx, purchase.ID)
}

// Delete soft-deletes the purchase, freeing its sale line items, and
// returns the nested representation of the now-deleted record. Purchases
// have no update operation.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Purchase, error) {
	purchase, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	if purchase == nil {
		return nil, fmt.Errorf("%w: purchase not found", httpx.ErrNotFound)
	}
	deletedAt, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete purchase: %w", err)
	}
	purchase.DeletedAt = &deletedAt
	return purchase, nil
}
