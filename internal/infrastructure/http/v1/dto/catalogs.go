package dto

import (
	"time"

	"billfold/internal/core/types"
	"billfold/internal/domain/catalogs/customer"
	"billfold/internal/domain/catalogs/product"
	"billfold/internal/domain/catalogs/supplier"
)

// --- Product ---

// CreateProductRequest represents a request to create a product.
type CreateProductRequest struct {
	SKU           string `json:"sku" binding:"required"`
	Name          string `json:"name" binding:"required"`
	UnitPrice     int64  `json:"unitPrice" binding:"gte=0"`
	StockQuantity int64  `json:"stockQuantity,omitempty"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateProductRequest) ToEntity() *product.Product {
	p := product.New(r.SKU, r.Name, types.MinorUnits(r.UnitPrice))
	p.StockQuantity = r.StockQuantity
	return p
}

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID            string    `json:"id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	UnitPrice     int64     `json:"unitPrice"`
	StockQuantity int64     `json:"stockQuantity"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FromProduct creates a response from a domain entity.
func FromProduct(p *product.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID.String(),
		SKU:           p.SKU,
		Name:          p.Name,
		UnitPrice:     int64(p.UnitPrice),
		StockQuantity: p.StockQuantity,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// FromProducts maps a slice of products to responses.
func FromProducts(items []*product.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, FromProduct(p))
	}
	return out
}

// --- Customer ---

// CreateCustomerRequest represents a request to create a customer.
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email,omitempty" binding:"omitempty,email"`
	Phone string `json:"phone,omitempty"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateCustomerRequest) ToEntity() *customer.Customer {
	c := customer.New(r.Name)
	c.Email = r.Email
	c.Phone = r.Phone
	return c
}

// CustomerResponse represents a customer in API responses.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromCustomer creates a response from a domain entity.
func FromCustomer(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

// FromCustomers maps a slice of customers to responses.
func FromCustomers(items []*customer.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(items))
	for _, c := range items {
		out = append(out, FromCustomer(c))
	}
	return out
}

// --- Supplier ---

// CreateSupplierRequest represents a request to create a supplier.
type CreateSupplierRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email,omitempty" binding:"omitempty,email"`
	Phone            string `json:"phone,omitempty"`
	PaymentTermsDays int    `json:"paymentTermsDays,omitempty" binding:"omitempty,gte=0"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateSupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.New(r.Name, r.PaymentTermsDays)
	s.Email = r.Email
	s.Phone = r.Phone
	return s
}

// SupplierResponse represents a supplier in API responses.
type SupplierResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	PaymentTermsDays int       `json:"paymentTermsDays"`
	CreatedAt        time.Time `json:"createdAt"`
}

// FromSupplier creates a response from a domain entity.
func FromSupplier(s *supplier.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:               s.ID.String(),
		Name:             s.Name,
		Email:            s.Email,
		Phone:            s.Phone,
		PaymentTermsDays: s.PaymentTermsDays,
		CreatedAt:        s.CreatedAt,
	}
}

// FromSuppliers maps a slice of suppliers to responses.
func FromSuppliers(items []*supplier.Supplier) []SupplierResponse {
	out := make([]SupplierResponse, 0, len(items))
	for _, s := range items {
		out = append(out, FromSupplier(s))
	}
	return out
}
