package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billfold/internal/domain/catalogs/customer"
	"billfold/internal/domain/catalogs/product"
	"billfold/internal/domain/catalogs/supplier"
	"billfold/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return &ProductHandler{BaseHandler: base, service: service}
}

// Create handles POST /products.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromProduct(p))
}

// Get handles GET /products/:id.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromProduct(p))
}

// List handles GET /products.
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(result, dto.FromProducts(result.Items)))
}

// CustomerHandler handles HTTP requests for customers.
type CustomerHandler struct {
	*BaseHandler
	service *customer.Service
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(base *BaseHandler, service *customer.Service) *CustomerHandler {
	return &CustomerHandler{BaseHandler: base, service: service}
}

// Create handles POST /customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cust := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), cust); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromCustomer(cust))
}

// Get handles GET /customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	customerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	cust, err := h.service.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromCustomer(cust))
}

// List handles GET /customers.
func (h *CustomerHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(result, dto.FromCustomers(result.Items)))
}

// SupplierHandler handles HTTP requests for suppliers.
type SupplierHandler struct {
	*BaseHandler
	service *supplier.Service
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(base *BaseHandler, service *supplier.Service) *SupplierHandler {
	return &SupplierHandler{BaseHandler: base, service: service}
}

// Create handles POST /suppliers.
func (h *SupplierHandler) Create(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sup := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), sup); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromSupplier(sup))
}

// Get handles GET /suppliers/:id.
func (h *SupplierHandler) Get(c *gin.Context) {
	supplierID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	sup, err := h.service.GetByID(c.Request.Context(), supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSupplier(sup))
}

// List handles GET /suppliers.
func (h *SupplierHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(result, dto.FromSuppliers(result.Items)))
}
