package payment_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"billfold/internal/core/apperror"
	"billfold/internal/core/entity"
	"billfold/internal/domain/payments"
	"billfold/internal/infrastructure/storage/postgres"
)

// DocumentStore implements payments.DocumentStore. The document kind tag
// selects the underlying header table.
type DocumentStore struct {
	txManager *postgres.TxManager
}

var _ payments.DocumentStore = (*DocumentStore)(nil)

// NewDocumentStore creates the ledger's document store.
func NewDocumentStore(txManager *postgres.TxManager) *DocumentStore {
	return &DocumentStore{txManager: txManager}
}

func tableFor(kind entity.DocumentKind) (string, error) {
	switch kind {
	case entity.DocumentKindInvoice:
		return "doc_invoices", nil
	case entity.DocumentKindPurchase:
		return "doc_purchases", nil
	default:
		return "", apperror.NewValidation("unknown document kind").WithDetail("kind", string(kind))
	}
}

func (s *DocumentStore) get(ctx context.Context, ref payments.DocumentRef, forUpdate bool) (payments.DocumentSummary, error) {
	var summary payments.DocumentSummary

	table, err := tableFor(ref.Kind)
	if err != nil {
		return summary, err
	}

	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("id", "number", "total_amount", "payment_status").
		From(table).
		Where(squirrel.Eq{"id": ref.ID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return summary, fmt.Errorf("build query: %w", err)
	}

	querier := s.txManager.GetQuerier(ctx)
	row := querier.QueryRow(ctx, sql, args...)
	err = row.Scan(&summary.ID, &summary.Number, &summary.TotalAmount, &summary.PaymentStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return summary, apperror.NewNotFound(table, ref.ID.String())
		}
		return summary, fmt.Errorf("get document: %w", err)
	}

	return summary, nil
}

// Get reads the document summary without locking.
func (s *DocumentStore) Get(ctx context.Context, ref payments.DocumentRef) (payments.DocumentSummary, error) {
	return s.get(ctx, ref, false)
}

// GetForUpdate reads the document summary with a row lock.
func (s *DocumentStore) GetForUpdate(ctx context.Context, ref payments.DocumentRef) (payments.DocumentSummary, error) {
	return s.get(ctx, ref, true)
}

// SetPaymentStatus updates the document's derived status field.
func (s *DocumentStore) SetPaymentStatus(ctx context.Context, ref payments.DocumentRef, status entity.PaymentStatus) error {
	table, err := tableFor(ref.Kind)
	if err != nil {
		return err
	}

	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Update(table).
		Set("payment_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ref.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, table)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(table, ref.ID.String())
	}

	return nil
}
