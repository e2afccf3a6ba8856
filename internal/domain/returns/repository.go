package returns

import (
	"context"

	"billfold/internal/core/id"
)

// Repository persists sales returns.
type Repository interface {
	Create(ctx context.Context, r *SalesReturn) error
	SaveLines(ctx context.Context, returnID id.ID, lines []Line) error
	GetByID(ctx context.Context, returnID id.ID) (*SalesReturn, error)
	GetLines(ctx context.Context, returnID id.ID) ([]Line, error)
	ListByInvoice(ctx context.Context, invoiceID id.ID) ([]SalesReturn, error)
	// SumReturnedByLine returns the total quantity already returned per
	// invoice line for the given invoice.
	SumReturnedByLine(ctx context.Context, invoiceID id.ID) (map[id.ID]int64, error)
}
