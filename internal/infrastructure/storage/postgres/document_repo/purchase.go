package document_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"billfold/internal/core/id"
	"billfold/internal/domain"
	"billfold/internal/domain/documents/purchase"
	"billfold/internal/infrastructure/storage/postgres"
)

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	*BaseDocumentRepo[*purchase.Purchase]
	lines *LineStore[purchase.Line]
}

var _ purchase.Repository = (*PurchaseRepo)(nil)

// NewPurchaseRepo creates the postgres purchase repository.
func NewPurchaseRepo(txManager *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			"doc_purchases",
			postgres.ExtractDBColumns[purchase.Purchase](),
			func() *purchase.Purchase { return &purchase.Purchase{} },
		),
		lines: NewLineStore[purchase.Line](txManager, "doc_purchase_lines", "purchase_id"),
	}
}

func (r *PurchaseRepo) GetLines(ctx context.Context, docID id.ID) ([]purchase.Line, error) {
	return r.lines.GetLines(ctx, docID)
}

func (r *PurchaseRepo) SaveLines(ctx context.Context, docID id.ID, lines []purchase.Line) error {
	return r.lines.SaveLines(ctx, docID, lines)
}

func (r *PurchaseRepo) DeleteLines(ctx context.Context, docID id.ID) error {
	return r.lines.DeleteLines(ctx, docID)
}

// List retrieves purchases with filtering and pagination.
func (r *PurchaseRepo) List(ctx context.Context, filter purchase.ListFilter) (domain.ListResult[*purchase.Purchase], error) {
	result := domain.ListResult[*purchase.Purchase]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
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
		return domain.ListResult[*purchase.Purchase]{}, err
	}

	return result, nil
}
