package customers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balcao-app/balcao/internal/platform/httpx"
)

type mockRepository struct {
	customers map[uuid.UUID]*Customer
}

func newMockRepository() *mockRepository {
	return &mockRepository{customers: make(map[uuid.UUID]*Customer)}
}

func (m *mockRepository) List(ctx context.Context) ([]Customer, error) {
	var result []Customer
	for _, c := range m.customers {
		if c.DeletedAt != nil {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockRepository) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	c, ok := m.customers[id]
	if !ok || c.DeletedAt != nil {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (m *mockRepository) Search(ctx context.Context, query string) ([]Customer, error) {
	var result []Customer
	for _, c := range m.customers {
		if c.DeletedAt != nil {
			continue
		}
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(query)) {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockRepository) ExistsByCpfOrCnpj(ctx context.Context, cpfOrCnpj string) (bool, error) {
	for _, c := range m.customers {
		if c.DeletedAt == nil && c.CpfOrCnpj == cpfOrCnpj {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, c := range m.customers {
		if c.DeletedAt == nil && c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) Create(ctx context.Context, customer Customer) (Customer, error) {
	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	m.customers[customer.ID] = &customer
	return customer, nil
}

func (m *mockRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	c, ok := m.customers[id]
	if !ok {
		return nil
	}
	if v, ok := updates["name"].(string); ok {
		c.Name = v
	}
	if v, ok := updates["cpf_or_cnpj"].(string); ok {
		c.CpfOrCnpj = v
	}
	if v, ok := updates["email"].(string); ok {
		c.Email = v
	}
	if v, ok := updates["phone"].(string); ok {
		c.Phone = v
	}
	c.UpdatedAt = time.Now()
	return nil
}

func (m *mockRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if c, ok := m.customers[id]; ok {
		now := time.Now()
		c.DeletedAt = &now
	}
	return nil
}

func validRequest() CreateCustomerRequest {
	return CreateCustomerRequest{
		Name:      "Ellie Williams",
		CpfOrCnpj: "391.945.720-03",
		Email:     "ellie.williams@example.com",
		Phone:     "(84) 9 9110-6666",
	}
}

func TestCreateCustomer(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	customer, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "Ellie Williams", customer.Name)
	assert.NotEqual(t, uuid.Nil, customer.ID)
}

func TestCreateCustomerDuplicateCpfOrCnpj(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Email = "other@example.com"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrDuplicate)
	assert.Contains(t, err.Error(), "cpf/cnpj")
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.CpfOrCnpj = "274.813.590-10"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrDuplicate)
	assert.Contains(t, err.Error(), "email")
}

// The tax id check runs before the email check, so when both collide the
// conflict names the tax id.
func TestCreateCustomerBothDuplicateReportsCpfOrCnpj(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrDuplicate)
	assert.Contains(t, err.Error(), "cpf/cnpj")
}

// Identity fields of a soft-deleted customer are free for reuse.
func TestCreateCustomerReusesDeletedIdentity(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	first, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), first.ID)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
}

func TestDeleteCustomerHidesFromReads(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	customer, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), customer.ID)
	require.NoError(t, err)

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)

	fetched, err := svc.Get(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched)

	found, err := svc.Search(context.Background(), "Ellie")
	require.NoError(t, err)
	assert.Empty(t, found)
}

// An empty query degenerates to a match-all filter over non-deleted rows.
func TestSearchCustomersEmptyQuery(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	second := validRequest()
	second.Name = "Joel Miller"
	second.CpfOrCnpj = "274.813.590-10"
	second.Email = "joel.miller@example.com"
	_, err = svc.Create(context.Background(), second)
	require.NoError(t, err)

	found, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestUpdateCustomerPartial(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	customer, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	newPhone := "(84) 9 8000-0000"
	updated, err := svc.Update(context.Background(), customer.ID, UpdateCustomerRequest{Phone: &newPhone})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, newPhone, updated.Phone)
	assert.Equal(t, customer.Name, updated.Name)
}
