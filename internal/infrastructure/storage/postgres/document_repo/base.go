// Package document_repo provides PostgreSQL implementations for document
// repositories. The TxManager is injected at construction; queries run on the
// transaction carried in the context when one is open.
package document_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"billfold/internal/core/apperror"
	"billfold/internal/core/id"
	"billfold/internal/infrastructure/storage/postgres"
)

// BaseDocumentRepo provides common header operations for document entities.
// Embed this in specific document repositories.
type BaseDocumentRepo[T any] struct {
	txManager  *postgres.TxManager
	tableName  string
	selectCols []string
	newFn      func() T
}

// NewBaseDocumentRepo creates a new base document repository.
func NewBaseDocumentRepo[T any](
	txManager *postgres.TxManager,
	tableName string,
	selectCols []string,
	newFn func() T,
) *BaseDocumentRepo[T] {
	return &BaseDocumentRepo[T]{
		txManager:  txManager,
		tableName:  tableName,
		selectCols: selectCols,
		newFn:      newFn,
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseDocumentRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseDocumentRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Create inserts a new document header using its "db" tags.
func (r *BaseDocumentRepo[T]) Create(ctx context.Context, entity T) error {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return fmt.Errorf("no db tags found in entity")
	}

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.Builder().
		Insert(r.tableName).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, r.tableName)
	}

	return nil
}

// baseSelect creates a SELECT builder.
func (r *BaseDocumentRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// GetByID retrieves a document header by ID.
func (r *BaseDocumentRepo[T]) GetByID(ctx context.Context, entityID id.ID) (T, error) {
	entity := r.newFn()

	q := r.baseSelect().
		Where(squirrel.Eq{"id": entityID})

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.tableName, entityID.String())
		}
		return entity, fmt.Errorf("get by id: %w", err)
	}

	return entity, nil
}

// GetByNumber retrieves a document header by its business number.
func (r *BaseDocumentRepo[T]) GetByNumber(ctx context.Context, number string) (T, error) {
	entity := r.newFn()

	q := r.baseSelect().
		Where(squirrel.Eq{"number": number})

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.tableName, number)
		}
		return entity, fmt.Errorf("get by number: %w", err)
	}

	return entity, nil
}

// DeleteHeader hard-deletes a document header.
func (r *BaseDocumentRepo[T]) DeleteHeader(ctx context.Context, entityID id.ID) error {
	q := r.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"id": entityID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.TranslateError(err, r.tableName)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, entityID.String())
	}

	return nil
}

// parseOrderBy validates an order clause against known columns.
func (r *BaseDocumentRepo[T]) parseOrderBy(orderBy string) (string, error) {
	if orderBy == "" {
		return "date DESC, number DESC", nil
	}

	// "-col" means descending, like "-created_at".
	clause := strings.TrimSpace(orderBy)
	desc := strings.HasPrefix(clause, "-")
	clause = strings.TrimPrefix(clause, "-")

	parts := strings.Fields(clause)
	if len(parts) > 2 {
		return "", apperror.NewValidation("invalid order by clause").WithDetail("field", "order_by")
	}

	col := parts[0]
	valid := false
	for _, c := range r.selectCols {
		if c == col {
			valid = true
			break
		}
	}
	if !valid {
		return "", apperror.NewValidation(fmt.Sprintf("unknown order column: %s", col)).WithDetail("field", "order_by")
	}

	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	if len(parts) == 2 {
		switch strings.ToUpper(parts[1]) {
		case "ASC", "DESC":
			dir = strings.ToUpper(parts[1])
		default:
			return "", apperror.NewValidation("invalid order direction").WithDetail("field", "order_by")
		}
	}

	return col + " " + dir, nil
}

// countAndSelect runs the count query and the paged select for a prepared
// filter query, scanning rows into dest.
func (r *BaseDocumentRepo[T]) countAndSelect(
	ctx context.Context,
	q squirrel.SelectBuilder,
	orderBy string,
	limit, offset int,
	total *int64,
	dest any,
) error {
	countQ := r.Builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(total); err != nil {
		return fmt.Errorf("count: %w", err)
	}

	order, err := r.parseOrderBy(orderBy)
	if err != nil {
		return err
	}
	q = q.OrderBy(order)

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, dest, sql, args...); err != nil {
		return fmt.Errorf("list: %w", err)
	}

	return nil
}
