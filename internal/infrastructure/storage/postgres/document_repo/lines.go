package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"billfold/internal/core/id"
	"billfold/internal/infrastructure/storage/postgres"
)

// LineStore persists document line items for one line table. The parent
// document's id is stored in fkColumn; the line structs themselves carry only
// line-level columns.
type LineStore[L any] struct {
	txManager *postgres.TxManager
	tableName string
	fkColumn  string
	lineCols  []string
}

// NewLineStore creates a line store for a document line table.
func NewLineStore[L any](txManager *postgres.TxManager, tableName, fkColumn string) *LineStore[L] {
	return &LineStore[L]{
		txManager: txManager,
		tableName: tableName,
		fkColumn:  fkColumn,
		lineCols:  postgres.ExtractDBColumns[L](),
	}
}

func (s *LineStore[L]) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// SaveLines inserts all lines for a document in one statement.
func (s *LineStore[L]) SaveLines(ctx context.Context, docID id.ID, lines []L) error {
	if len(lines) == 0 {
		return nil
	}

	cols := append([]string{s.fkColumn}, s.lineCols...)
	q := s.builder().
		Insert(s.tableName).
		Columns(cols...)

	for i := range lines {
		data := postgres.StructToMap(&lines[i])
		row := make([]any, 0, len(cols))
		row = append(row, docID)
		for _, col := range s.lineCols {
			row = append(row, data[col])
		}
		q = q.Values(row...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, s.tableName)
	}

	return nil
}

// GetLines retrieves all lines of a document ordered by line number.
func (s *LineStore[L]) GetLines(ctx context.Context, docID id.ID) ([]L, error) {
	q := s.builder().
		Select(s.lineCols...).
		From(s.tableName).
		Where(squirrel.Eq{s.fkColumn: docID}).
		OrderBy("line_no ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select lines: %w", err)
	}

	var lines []L
	if err := pgxscan.Select(ctx, s.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select lines: %w", err)
	}

	return lines, nil
}

// DeleteLines removes all lines of a document.
func (s *LineStore[L]) DeleteLines(ctx context.Context, docID id.ID) error {
	q := s.builder().
		Delete(s.tableName).
		Where(squirrel.Eq{s.fkColumn: docID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}

	if _, err := s.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.TranslateError(err, s.tableName)
	}

	return nil
}
