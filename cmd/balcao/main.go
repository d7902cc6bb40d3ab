package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/balcao-app/balcao/internal/app"
	"github.com/balcao-app/balcao/internal/masterdata/customers"
	"github.com/balcao-app/balcao/internal/masterdata/products"
	"github.com/balcao-app/balcao/internal/masterdata/suppliers"
	"github.com/balcao-app/balcao/internal/platform/db"
	"github.com/balcao-app/balcao/internal/purchases"
	"github.com/balcao-app/balcao/internal/sales"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, db.Options{
		MaxConns:        cfg.PGMaxConns,
		MaxConnLifetime: cfg.PGMaxConnLifetime,
	})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	productHandler := products.NewHandler(logger, products.NewService(products.NewRepository(pool)))
	customerHandler := customers.NewHandler(logger, customers.NewService(customers.NewRepository(pool)))
	supplierHandler := suppliers.NewHandler(logger, suppliers.NewService(suppliers.NewRepository(pool)))
	saleHandler := sales.NewHandler(logger, sales.NewService(sales.NewRepository(pool)))
	purchaseHandler := purchases.NewHandler(logger, purchases.NewService(purchases.NewRepository(pool)))

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		ProductHandler:  productHandler,
		CustomerHandler: customerHandler,
		SupplierHandler: supplierHandler,
		SaleHandler:     saleHandler,
		PurchaseHandler: purchaseHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
