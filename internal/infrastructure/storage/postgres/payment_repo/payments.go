// Package payment_repo provides the PostgreSQL payment ledger storage and the
// ledger's view of the document tables.
package payment_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"billfold/internal/core/types"
	"billfold/internal/domain/payments"
	"billfold/internal/infrastructure/storage/postgres"
)

var paymentCols = postgres.ExtractDBColumns[payments.Payment]()

// PaymentRepo implements payments.Repository over the shared payments table.
type PaymentRepo struct {
	txManager *postgres.TxManager
}

var _ payments.Repository = (*PaymentRepo)(nil)

// NewPaymentRepo creates the postgres payment repository.
func NewPaymentRepo(txManager *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{txManager: txManager}
}

func (r *PaymentRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *PaymentRepo) byRef(ref payments.DocumentRef) squirrel.Eq {
	return squirrel.Eq{
		"document_kind": ref.Kind,
		"document_id":   ref.ID,
	}
}

// Insert appends one payment to the ledger.
func (r *PaymentRepo) Insert(ctx context.Context, p *payments.Payment) error {
	data := postgres.StructToMap(p)

	q := r.builder().
		Insert("payments").
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, "payments")
	}

	return nil
}

// SumByDocument returns the total amount paid against a document.
func (r *PaymentRepo) SumByDocument(ctx context.Context, ref payments.DocumentRef) (types.MinorUnits, error) {
	q := r.builder().
		Select("COALESCE(SUM(amount), 0)").
		From("payments").
		Where(r.byRef(ref))

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sum: %w", err)
	}

	var total int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum payments: %w", err)
	}

	return types.MinorUnits(total), nil
}

// ListByDocument returns all payments against a document in recording order.
func (r *PaymentRepo) ListByDocument(ctx context.Context, ref payments.DocumentRef) ([]payments.Payment, error) {
	q := r.builder().
		Select(paymentCols...).
		From("payments").
		Where(r.byRef(ref)).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var items []payments.Payment
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	return items, nil
}

// DeleteByDocument removes all payments for a document.
func (r *PaymentRepo) DeleteByDocument(ctx context.Context, ref payments.DocumentRef) error {
	q := r.builder().
		Delete("payments").
		Where(r.byRef(ref))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, "payments")
	}

	return nil
}
