// Package customer provides the customer catalog entry.
package customer

import (
	"context"

	"billfold/internal/core/apperror"
	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/domain"
)

// Customer is a party invoices are issued to.
type Customer struct {
	entity.BaseEntity

	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email,omitempty"`
	Phone string `db:"phone" json:"phone,omitempty"`
}

// New creates a customer with generated ID.
func New(name string) *Customer {
	return &Customer{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
	}
}

// Validate implements entity.Validatable.
func (c *Customer) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}

// Repository defines storage operations for customers.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, customerID id.ID) (*Customer, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Customer], error)
}

// Service provides catalog operations for customers.
type Service struct {
	repo Repository
}

// NewService creates a customer service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, c *Customer) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) GetByID(ctx context.Context, customerID id.ID) (*Customer, error) {
	return s.repo.GetByID(ctx, customerID)
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Customer], error) {
	return s.repo.List(ctx, filter)
}
