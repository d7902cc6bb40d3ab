package products

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	products map[uuid.UUID]*Product
}

func newMockRepository() *mockRepository {
	return &mockRepository{products: make(map[uuid.UUID]*Product)}
}

func (m *mockRepository) List(ctx context.Context) ([]Product, error) {
	var result []Product
	for _, p := range m.products {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockRepository) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (m *mockRepository) Search(ctx context.Context, query string) ([]Product, error) {
	var result []Product
	for _, p := range m.products {
		if p.DeletedAt != nil {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockRepository) Create(ctx context.Context, product Product) (Product, error) {
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	m.products[product.ID] = &product
	return product, nil
}

func (m *mockRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	p, ok := m.products[id]
	if !ok {
		return nil
	}
	if v, ok := updates["name"].(string); ok {
		p.Name = v
	}
	if v, ok := updates["description"].(string); ok {
		p.Description = v
	}
	if v, ok := updates["price"].(float64); ok {
		p.Price = v
	}
	if v, ok := updates["brand"].(string); ok {
		p.Brand = v
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.products, id)
	return nil
}

func newTestRouter(repo Repository) chi.Router {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	handler := NewHandler(logger, NewService(repo))
	r := chi.NewRouter()
	r.Route("/product", handler.MountRoutes)
	return r
}

func TestListProductsEmpty(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/product", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCreateProduct(t *testing.T) {
	router := newTestRouter(newMockRepository())

	body := `{"name":"Headset Kraken V2","description":"7.1 surround headset","price":899.9,"brand":"Razer"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/product", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var created Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Headset Kraken V2", created.Name)
	assert.Equal(t, 899.9, created.Price)
	assert.Nil(t, created.DeletedAt)
}

func TestCreateProductValidation(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/product", strings.NewReader(`{"price":-1}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.EqualValues(t, http.StatusBadRequest, problem["status"])
}

func TestCreateProductMalformedBody(t *testing.T) {
	router := newTestRouter(newMockRepository())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/product", strings.NewReader(`{not json`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// An id that exists in no row still answers 200 with a null body, only a
// malformed id is rejected.
func TestShowProduct(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/product/"+uuid.NewString(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/product/not-a-uuid", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProduct(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo)

	svc := NewService(repo)
	created, err := svc.Create(context.Background(), CreateProductRequest{
		Name:        "Mouse Viper",
		Description: "Wireless mouse",
		Price:       349.0,
		Brand:       "Razer",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/product/"+created.ID.String(), strings.NewReader(`{"price":299.0}`)))

	require.Equal(t, http.StatusOK, rec.Code)

	var updated Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 299.0, updated.Price)
	assert.Equal(t, "Mouse Viper", updated.Name)
}

func TestDeleteProduct(t *testing.T) {
	repo := newMockRepository()
	router := newTestRouter(repo)

	svc := NewService(repo)
	created, err := svc.Create(context.Background(), CreateProductRequest{
		Name:        "Keyboard Huntsman",
		Description: "Optical keyboard",
		Price:       1099.0,
		Brand:       "Razer",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/product/"+created.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var removed Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &removed))
	assert.Equal(t, created.ID, removed.ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/product/"+created.ID.String(), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
