package invoice

import (
	"context"
	"time"

	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/domain"
)

// Repository defines storage operations for invoices.
type Repository interface {
	Create(ctx context.Context, doc *Invoice) error
	GetByID(ctx context.Context, docID id.ID) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)

	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// DeleteLines and DeleteHeader hard-delete. Documents are removed only as
	// a whole, by the reversal path.
	DeleteLines(ctx context.Context, docID id.ID) error
	DeleteHeader(ctx context.Context, docID id.ID) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error)
}

// ListFilter for filtering invoices.
type ListFilter struct {
	domain.ListFilter

	CustomerID    *id.ID
	PaymentStatus *entity.PaymentStatus
	DateFrom      *time.Time
	DateTo        *time.Time
}
