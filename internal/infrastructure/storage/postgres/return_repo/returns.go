// Package return_repo provides PostgreSQL storage for sales returns.
package return_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"billfold/internal/core/apperror"
	"billfold/internal/core/id"
	"billfold/internal/domain/returns"
	"billfold/internal/infrastructure/storage/postgres"
)

var (
	returnCols = postgres.ExtractDBColumns[returns.SalesReturn]()
	lineCols   = postgres.ExtractDBColumns[returns.Line]()
)

// ReturnRepo implements returns.Repository.
type ReturnRepo struct {
	txManager *postgres.TxManager
}

var _ returns.Repository = (*ReturnRepo)(nil)

// NewReturnRepo creates the postgres sales return repository.
func NewReturnRepo(txManager *postgres.TxManager) *ReturnRepo {
	return &ReturnRepo{txManager: txManager}
}

func (r *ReturnRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a return header.
func (r *ReturnRepo) Create(ctx context.Context, ret *returns.SalesReturn) error {
	data := postgres.StructToMap(ret)

	q := r.builder().
		Insert("sales_returns").
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, "sales_returns")
	}

	return nil
}

// SaveLines inserts all lines for a return in one statement.
func (r *ReturnRepo) SaveLines(ctx context.Context, returnID id.ID, lines []returns.Line) error {
	if len(lines) == 0 {
		return nil
	}

	q := r.builder().
		Insert("sales_return_lines").
		Columns(lineCols...)

	for i := range lines {
		data := postgres.StructToMap(&lines[i])
		row := make([]any, 0, len(lineCols))
		for _, col := range lineCols {
			row = append(row, data[col])
		}
		q = q.Values(row...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, "sales_return_lines")
	}

	return nil
}

// GetByID retrieves a return header.
func (r *ReturnRepo) GetByID(ctx context.Context, returnID id.ID) (*returns.SalesReturn, error) {
	q := r.builder().
		Select(returnCols...).
		From("sales_returns").
		Where(squirrel.Eq{"id": returnID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ret returns.SalesReturn
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &ret, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sales_returns", returnID.String())
		}
		return nil, fmt.Errorf("get return: %w", err)
	}

	return &ret, nil
}

// GetLines retrieves all lines of a return.
func (r *ReturnRepo) GetLines(ctx context.Context, returnID id.ID) ([]returns.Line, error) {
	q := r.builder().
		Select(lineCols...).
		From("sales_return_lines").
		Where(squirrel.Eq{"return_id": returnID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []returns.Line
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select return lines: %w", err)
	}

	return lines, nil
}

// ListByInvoice retrieves all returns recorded against an invoice.
func (r *ReturnRepo) ListByInvoice(ctx context.Context, invoiceID id.ID) ([]returns.SalesReturn, error) {
	q := r.builder().
		Select(returnCols...).
		From("sales_returns").
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []returns.SalesReturn
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}

	return items, nil
}

// SumReturnedByLine aggregates already-returned quantities per invoice line.
func (r *ReturnRepo) SumReturnedByLine(ctx context.Context, invoiceID id.ID) (map[id.ID]int64, error) {
	q := r.builder().
		Select("l.invoice_line_id", "SUM(l.quantity)").
		From("sales_return_lines l").
		Join("sales_returns r ON r.id = l.return_id").
		Where(squirrel.Eq{"r.invoice_id": invoiceID}).
		GroupBy("l.invoice_line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.txManager.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("sum returned: %w", err)
	}
	defer rows.Close()

	sums := make(map[id.ID]int64)
	for rows.Next() {
		var lineID id.ID
		var qty int64
		if err := rows.Scan(&lineID, &qty); err != nil {
			return nil, fmt.Errorf("scan returned sum: %w", err)
		}
		sums[lineID] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate returned sums: %w", err)
	}

	return sums, nil
}
