// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"billfold/internal/domain/catalogs/customer"
	"billfold/internal/domain/catalogs/product"
	"billfold/internal/domain/catalogs/supplier"
	"billfold/internal/domain/documents/invoice"
	"billfold/internal/domain/documents/purchase"
	"billfold/internal/domain/payments"
	"billfold/internal/domain/returns"
	"billfold/internal/infrastructure/http/v1/handlers"
	"billfold/internal/infrastructure/http/v1/middleware"
	"billfold/pkg/logger"
)

// RouterConfig holds everything the router needs wired in.
type RouterConfig struct {
	Pool   *pgxpool.Pool
	Logger *logger.Logger

	Invoices  *invoice.Service
	Purchases *purchase.Service
	Ledger    *payments.Service
	Returns   *returns.Service
	Products  *product.Service
	Customers *customer.Service
	Suppliers *supplier.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	base := handlers.NewBaseHandler()
	invoiceHandler := handlers.NewInvoiceHandler(base, cfg.Invoices, cfg.Ledger, cfg.Returns)
	purchaseHandler := handlers.NewPurchaseHandler(base, cfg.Purchases, cfg.Ledger)
	productHandler := handlers.NewProductHandler(base, cfg.Products)
	customerHandler := handlers.NewCustomerHandler(base, cfg.Customers)
	supplierHandler := handlers.NewSupplierHandler(base, cfg.Suppliers)

	api := router.Group("/api/v1")
	{
		invoices := api.Group("/invoices")
		{
			invoices.POST("", invoiceHandler.Create)
			invoices.GET("", invoiceHandler.List)
			invoices.GET("/:id", invoiceHandler.Get)
			invoices.DELETE("/:id", invoiceHandler.Delete)
			invoices.POST("/:id/payments", invoiceHandler.RecordPayment)
			invoices.GET("/:id/payments", invoiceHandler.PaymentHistory)
			invoices.POST("/:id/cancel", invoiceHandler.Cancel)
			invoices.POST("/:id/returns", invoiceHandler.ProcessReturn)
			invoices.GET("/:id/returns", invoiceHandler.ListReturns)
		}

		purchases := api.Group("/purchases")
		{
			purchases.POST("", purchaseHandler.Create)
			purchases.GET("", purchaseHandler.List)
			purchases.GET("/:id", purchaseHandler.Get)
			purchases.DELETE("/:id", purchaseHandler.Delete)
			purchases.POST("/:id/payments", purchaseHandler.RecordPayment)
			purchases.GET("/:id/payments", purchaseHandler.PaymentHistory)
			purchases.POST("/:id/cancel", purchaseHandler.Cancel)
		}

		products := api.Group("/products")
		{
			products.POST("", productHandler.Create)
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
		}

		customers := api.Group("/customers")
		{
			customers.POST("", customerHandler.Create)
			customers.GET("", customerHandler.List)
			customers.GET("/:id", customerHandler.Get)
		}

		suppliers := api.Group("/suppliers")
		{
			suppliers.POST("", supplierHandler.Create)
			suppliers.GET("", supplierHandler.List)
			suppliers.GET("/:id", supplierHandler.Get)
		}
	}

	return router
}
