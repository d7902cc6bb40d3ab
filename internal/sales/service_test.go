package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balcao-app/balcao/internal/masterdata/customers"
	"github.com/balcao-app/balcao/internal/masterdata/products"
	"github.com/balcao-app/balcao/internal/platform/httpx"
)

type mockRepository struct {
	sales     map[uuid.UUID]*Sale
	items     map[uuid.UUID][]SaleProduct
	customers map[uuid.UUID]customers.Customer
	products  map[uuid.UUID]products.Product

	createError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		sales:     make(map[uuid.UUID]*Sale),
		items:     make(map[uuid.UUID][]SaleProduct),
		customers: make(map[uuid.UUID]customers.Customer),
		products:  make(map[uuid.UUID]products.Product),
	}
}

func (m *mockRepository) addCustomer(name string) uuid.UUID {
	id := uuid.New()
	m.customers[id] = customers.Customer{ID: id, Name: name}
	return id
}

func (m *mockRepository) addProduct(name string) uuid.UUID {
	id := uuid.New()
	m.products[id] = products.Product{ID: id, Name: name}
	return id
}

func (m *mockRepository) hydrate(s Sale) Sale {
	if c, ok := m.customers[s.CustomerID]; ok {
		customer := c
		s.Customer = &customer
	}
	s.SaleProducts = []SaleProduct{}
	for _, item := range m.items[s.ID] {
		if p, ok := m.products[item.ProductID]; ok {
			product := p
			item.Product = &product
		}
		s.SaleProducts = append(s.SaleProducts, item)
	}
	return s
}

func (m *mockRepository) List(ctx context.Context) ([]Sale, error) {
	var result []Sale
	for _, s := range m.sales {
		if s.DeletedAt != nil {
			continue
		}
		result = append(result, m.hydrate(*s))
	}
	return result, nil
}

func (m *mockRepository) Get(ctx context.Context, id uuid.UUID) (*Sale, error) {
	s, ok := m.sales[id]
	if !ok || s.DeletedAt != nil {
		return nil, nil
	}
	hydrated := m.hydrate(*s)
	return &hydrated, nil
}

func (m *mockRepository) Search(ctx context.Context, query string) ([]Sale, error) {
	return m.List(ctx)
}

func (m *mockRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.sales[id]
	return ok, nil
}

func (m *mockRepository) Create(ctx context.Context, sale Sale, items []SaleProduct) error {
	if m.createError != nil {
		return m.createError
	}
	now := time.Now()
	sale.CreatedAt = now
	sale.UpdatedAt = now
	m.sales[sale.ID] = &sale
	m.items[sale.ID] = items
	return nil
}

func (m *mockRepository) Update(ctx context.Context, id uuid.UUID, customerID uuid.UUID, saleDate time.Time) error {
	s, ok := m.sales[id]
	if !ok {
		return nil
	}
	s.CustomerID = customerID
	s.SaleDate = saleDate
	s.UpdatedAt = time.Now()
	return nil
}

func (m *mockRepository) SoftDelete(ctx context.Context, id uuid.UUID) (time.Time, error) {
	s, ok := m.sales[id]
	if !ok {
		return time.Time{}, nil
	}
	now := time.Now()
	s.DeletedAt = &now
	return now, nil
}

func TestCreateSaleRoundTrip(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	customerID := repo.addCustomer("Ellie Williams")
	productID := repo.addProduct("Headset Kraken V2")

	sale, err := svc.Create(context.Background(), CreateSaleRequest{
		Name:        "October sale",
		Description: "first sale",
		CustomerID:  customerID,
		SaleDate:    time.Date(2023, 10, 29, 12, 0, 0, 0, time.UTC),
		SaleProducts: []CreateSaleProductRequest{
			{ProductID: productID, Quantity: 3},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, sale)

	require.Len(t, sale.SaleProducts, 1)
	assert.Equal(t, 3, sale.SaleProducts[0].Quantity)
	require.NotNil(t, sale.SaleProducts[0].Product)
	assert.Equal(t, productID, sale.SaleProducts[0].Product.ID)
	require.NotNil(t, sale.Customer)
	assert.Equal(t, "Ellie Williams", sale.Customer.Name)

	fetched, err := svc.Get(context.Background(), sale.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	require.Len(t, fetched.SaleProducts, 1)
	assert.Equal(t, 3, fetched.SaleProducts[0].Quantity)
}

func TestCreateSaleRepositoryError(t *testing.T) {
	repo := newMockRepository()
	repo.createError = errors.New("boom")
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateSaleRequest{
		Name:        "broken",
		Description: "x",
		CustomerID:  uuid.New(),
		SaleDate:    time.Now(),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, httpx.ErrNotFound)
}

func TestUpdateSaleNotFound(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), uuid.New(), UpdateSaleRequest{
		CustomerID: uuid.New(),
		SaleDate:   time.Now(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

// The existence check before update ignores the soft-delete flag, so a
// deleted sale can still be updated.
func TestUpdateSoftDeletedSaleSucceeds(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	customerID := repo.addCustomer("Joel Miller")
	sale, err := svc.Create(context.Background(), CreateSaleRequest{
		Name:        "to delete",
		Description: "x",
		CustomerID:  customerID,
		SaleDate:    time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), sale.ID)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), sale.ID, UpdateSaleRequest{
		CustomerID: customerID,
		SaleDate:   time.Now(),
	})
	require.NoError(t, err)
}

func TestDeleteSale(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	customerID := repo.addCustomer("Tess")
	sale, err := svc.Create(context.Background(), CreateSaleRequest{
		Name:        "short lived",
		Description: "x",
		CustomerID:  customerID,
		SaleDate:    time.Now(),
	})
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), sale.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = svc.Delete(context.Background(), sale.ID)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}
