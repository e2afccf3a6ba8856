// Package product provides the product catalog entry.
// The core engine touches products only through stock_quantity, which is
// mutated exclusively by the inventory adjuster.
package product

import (
	"context"

	"billfold/internal/core/apperror"
	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/core/types"
	"billfold/internal/domain"
)

// Product is a sellable/purchasable catalog item.
type Product struct {
	entity.BaseEntity

	SKU  string `db:"sku" json:"sku"`
	Name string `db:"name" json:"name"`

	UnitPrice types.MinorUnits `db:"unit_price" json:"unitPrice"`

	// StockQuantity is a running count of units on hand. Mutated only via
	// relative deltas (inventory adjuster); may go negative on oversell.
	StockQuantity int64 `db:"stock_quantity" json:"stockQuantity"`

	Active bool `db:"active" json:"active"`
}

// New creates a product with generated ID.
func New(sku, name string, unitPrice types.MinorUnits) *Product {
	return &Product{
		BaseEntity: entity.NewBaseEntity(),
		SKU:        sku,
		Name:       name,
		UnitPrice:  unitPrice,
		Active:     true,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if p.SKU == "" {
		return apperror.NewValidation("sku is required").WithDetail("field", "sku")
	}
	if p.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if p.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price must not be negative").WithDetail("field", "unitPrice")
	}
	return nil
}

// Repository defines storage operations for products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	GetBySKU(ctx context.Context, sku string) (*Product, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error)
}

// Service provides catalog operations for products.
type Service struct {
	repo Repository
}

// NewService creates a product service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Product], error) {
	return s.repo.List(ctx, filter)
}
