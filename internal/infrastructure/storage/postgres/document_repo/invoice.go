package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"billfold/internal/core/id"
	"billfold/internal/domain"
	"billfold/internal/domain/documents/invoice"
	"billfold/internal/infrastructure/storage/postgres"
)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct {
	*BaseDocumentRepo[*invoice.Invoice]
	lines *LineStore[invoice.Line]
}

var _ invoice.Repository = (*InvoiceRepo)(nil)

// NewInvoiceRepo creates the postgres invoice repository.
func NewInvoiceRepo(txManager *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"doc_invoices",
			postgres.ExtractDBColumns[invoice.Invoice](),
			func() *invoice.Invoice { return &invoice.Invoice{} },
		),
		lines: NewLineStore[invoice.Line](txManager, "doc_invoice_lines", "invoice_id"),
	}
}

func (r *InvoiceRepo) GetLines(ctx context.Context, docID id.ID) ([]invoice.Line, error) {
	return r.lines.GetLines(ctx, docID)
}

func (r *InvoiceRepo) SaveLines(ctx context.Context, docID id.ID, lines []invoice.Line) error {
	return r.lines.SaveLines(ctx, docID, lines)
}

func (r *InvoiceRepo) DeleteLines(ctx context.Context, docID id.ID) error {
	return r.lines.DeleteLines(ctx, docID)
}

// List retrieves invoices with filtering and pagination.
func (r *InvoiceRepo) List(ctx context.Context, filter invoice.ListFilter) (domain.ListResult[*invoice.Invoice], error) {
	result := domain.ListResult[*invoice.Invoice]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.PaymentStatus != nil {
		q = q.Where(squirrel.Eq{"payment_status": *filter.PaymentStatus})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
	}

	err := r.countAndSelect(ctx, q, filter.OrderBy, filter.Limit, filter.Offset, &result.TotalCount, &result.Items)
	if err != nil {
		return domain.ListResult[*invoice.Invoice]{}, err
	}

	return result, nil
}
