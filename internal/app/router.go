package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/balcao-app/balcao/internal/masterdata/customers"
	"github.com/balcao-app/balcao/internal/masterdata/products"
	"github.com/balcao-app/balcao/internal/masterdata/suppliers"
	"github.com/balcao-app/balcao/internal/purchases"
	"github.com/balcao-app/balcao/internal/sales"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	ProductHandler  *products.Handler
	CustomerHandler *customers.Handler
	SupplierHandler *suppliers.Handler
	SaleHandler     *sales.Handler
	PurchaseHandler *purchases.Handler
}

// NewRouter constructs the chi.Router with one resource group per entity
// under /api/v1.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/product", params.ProductHandler.MountRoutes)
		r.Route("/customer", params.CustomerHandler.MountRoutes)
		r.Route("/supplier", params.SupplierHandler.MountRoutes)
		r.Route("/sale", params.SaleHandler.MountRoutes)
		r.Route("/purchase", params.PurchaseHandler.MountRoutes)
	})

	return r
}
