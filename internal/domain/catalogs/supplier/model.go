// Package supplier provides the supplier catalog entry.
package supplier

import (
	"context"

	"billfold/internal/core/apperror"
	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/domain"
)

// Supplier is a party purchases are recorded against.
type Supplier struct {
	entity.BaseEntity

	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email,omitempty"`
	Phone string `db:"phone" json:"phone,omitempty"`

	// PaymentTermsDays defaults a purchase's due date to
	// purchase date + terms when the caller does not supply one.
	PaymentTermsDays int `db:"payment_terms_days" json:"paymentTermsDays"`
}

// New creates a supplier with generated ID.
func New(name string, paymentTermsDays int) *Supplier {
	return &Supplier{
		BaseEntity:       entity.NewBaseEntity(),
		Name:             name,
		PaymentTermsDays: paymentTermsDays,
	}
}

// Validate implements entity.Validatable.
func (s *Supplier) Validate(ctx context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if s.PaymentTermsDays < 0 {
		return apperror.NewValidation("payment terms must not be negative").
			WithDetail("field", "paymentTermsDays")
	}
	return nil
}

// Repository defines storage operations for suppliers.
type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Supplier], error)
}

// Service provides catalog operations for suppliers.
type Service struct {
	repo Repository
}

// NewService creates a supplier service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Create(ctx, sup)
}

func (s *Service) GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	return s.repo.GetByID(ctx, supplierID)
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Supplier], error) {
	return s.repo.List(ctx, filter)
}

// PaymentTermsDaysFor returns the supplier's default payment terms.
// Used by the purchase engine to default due dates.
func (s *Service) PaymentTermsDaysFor(ctx context.Context, supplierID id.ID) (int, error) {
	sup, err := s.repo.GetByID(ctx, supplierID)
	if err != nil {
		return 0, err
	}
	return sup.PaymentTermsDays, nil
}
