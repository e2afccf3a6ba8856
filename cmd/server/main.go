// Package main is the entry point for the billfold API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"billfold/internal/domain/catalogs/customer"
	"billfold/internal/domain/catalogs/product"
	"billfold/internal/domain/catalogs/supplier"
	"billfold/internal/domain/documents/invoice"
	"billfold/internal/domain/documents/purchase"
	"billfold/internal/domain/inventory"
	"billfold/internal/domain/payments"
	"billfold/internal/domain/returns"
	v1 "billfold/internal/infrastructure/http/v1"
	"billfold/internal/infrastructure/storage/postgres"
	"billfold/internal/infrastructure/storage/postgres/catalog_repo"
	"billfold/internal/infrastructure/storage/postgres/document_repo"
	"billfold/internal/infrastructure/storage/postgres/payment_repo"
	"billfold/internal/infrastructure/storage/postgres/return_repo"
	"billfold/pkg/logger"
	"billfold/pkg/numerator"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting billfold server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	invoiceRepo := document_repo.NewInvoiceRepo(txManager)
	purchaseRepo := document_repo.NewPurchaseRepo(txManager)
	paymentRepo := payment_repo.NewPaymentRepo(txManager)
	documentStore := payment_repo.NewDocumentStore(txManager)
	returnRepo := return_repo.NewReturnRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)
	customerRepo := catalog_repo.NewCustomerRepo(txManager)
	supplierRepo := catalog_repo.NewSupplierRepo(txManager)

	// --- Audit trail ---
	auditTrail, err := postgres.NewAuditTrail(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit trail", "error", err)
	}

	// --- Services ---
	numeratorService := numerator.New(querierSource{txManager})
	inventoryService := inventory.NewService(productRepo)
	ledger := payments.NewService(paymentRepo, documentStore, txManager, auditTrail)
	supplierService := supplier.NewService(supplierRepo)

	invoiceService := invoice.NewService(invoiceRepo, inventoryService, ledger, numeratorService, txManager, auditTrail)
	purchaseService := purchase.NewService(purchaseRepo, inventoryService, ledger, numeratorService, supplierService, txManager, auditTrail)
	returnService := returns.NewService(returnRepo, invoiceRepo, inventoryService, txManager, auditTrail)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:      pool.Unwrap(),
		Logger:    log,
		Invoices:  invoiceService,
		Purchases: purchaseService,
		Ledger:    ledger,
		Returns:   returnService,
		Products:  product.NewService(productRepo),
		Customers: customer.NewService(customerRepo),
		Suppliers: supplierService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// querierSource adapts the transaction manager to the number allocator, so
// allocation runs on the open transaction when one is carried in the context.
type querierSource struct {
	txManager *postgres.TxManager
}

func (s querierSource) Querier(ctx context.Context) numerator.Querier {
	return s.txManager.GetQuerier(ctx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
