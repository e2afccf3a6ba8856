package purchase

import (
	"context"
	"time"

	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/domain"
)

// ListFilter narrows purchase listings.
type ListFilter struct {
	domain.ListFilter

	SupplierID    *id.ID
	PaymentStatus *entity.PaymentStatus
	DateFrom      *time.Time
	DateTo        *time.Time
}

// Repository persists purchase documents and their lines.
type Repository interface {
	Create(ctx context.Context, doc *Purchase) error
	GetByID(ctx context.Context, docID id.ID) (*Purchase, error)
	GetByNumber(ctx context.Context, number string) (*Purchase, error)
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error
	DeleteLines(ctx context.Context, docID id.ID) error
	DeleteHeader(ctx context.Context, docID id.ID) error
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Purchase], error)
}
