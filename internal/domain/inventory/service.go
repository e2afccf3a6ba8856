// Package inventory provides the stock quantity adjuster.
//
// Stock is mutated only through relative deltas applied at the store
// (stock = stock + delta), never by read-modify-write in application code,
// so concurrent adjustments to the same product cannot lose updates.
package inventory

import (
	"context"

	"billfold/internal/core/id"
	"billfold/pkg/logger"
)

// Repository applies a signed stock delta and reports the resulting quantity.
type Repository interface {
	// AdjustStock atomically increments the product's stock_quantity by delta
	// (delta may be negative). Runs on the transaction in ctx when present.
	AdjustStock(ctx context.Context, productID id.ID, delta int64) (newQuantity int64, err error)
}

// Service applies stock deltas as part of larger document transactions.
// Never invoked standalone by the core engine.
type Service struct {
	repo Repository
}

// NewService creates an inventory service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Adjust applies a signed delta to the product's stock quantity.
// No floor at zero: a negative result signals an oversell, which is logged as
// a warning rather than failing the enclosing transaction. The policy lives
// here, not in the data layer.
func (s *Service) Adjust(ctx context.Context, productID id.ID, delta int64) error {
	newQty, err := s.repo.AdjustStock(ctx, productID, delta)
	if err != nil {
		return err
	}

	if newQty < 0 {
		logger.Warn(ctx, "stock went negative (oversell)",
			"product_id", productID,
			"delta", delta,
			"stock_quantity", newQty,
		)
	}

	return nil
}
