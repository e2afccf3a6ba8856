package purchase

import (
	"context"
	"fmt"

	"billfold/internal/core/id"
	"billfold/internal/core/tx"
	"billfold/internal/domain"
	"billfold/internal/domain/audit"
	"billfold/internal/domain/inventory"
	"billfold/internal/domain/payments"
	"billfold/pkg/logger"
	"billfold/pkg/numerator"
)

// SupplierTerms resolves a supplier's payment terms in days.
type SupplierTerms interface {
	PaymentTermsDaysFor(ctx context.Context, supplierID id.ID) (int, error)
}

// Service provides business operations for purchase documents.
type Service struct {
	repo      Repository
	inventory *inventory.Service
	ledger    *payments.Service
	numerator *numerator.Service
	terms     SupplierTerms
	txManager tx.Manager
	trail     audit.Trail // optional
}

// NewService creates a purchase service.
func NewService(
	repo Repository,
	inv *inventory.Service,
	ledger *payments.Service,
	num *numerator.Service,
	terms SupplierTerms,
	txManager tx.Manager,
	trail audit.Trail,
) *Service {
	return &Service{
		repo:      repo,
		inventory: inv,
		ledger:    ledger,
		numerator: num,
		terms:     terms,
		txManager: txManager,
		trail:     trail,
	}
}

// Create creates a purchase document: number, header, lines and stock
// increase per line, all in one transaction. A due date left empty is
// defaulted from the supplier's payment terms.
func (s *Service) Create(ctx context.Context, doc *Purchase) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	doc.RecalculateTotals()

	if doc.DueDate == nil {
		days, err := s.terms.PaymentTermsDaysFor(ctx, doc.SupplierID)
		if err != nil {
			return fmt.Errorf("resolve payment terms: %w", err)
		}
		due := doc.Date.AddDate(0, 0, days)
		doc.DueDate = &due
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if doc.Number == "" {
			number, err := s.numerator.Next(ctx, NumberKind, doc.Date)
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}
			doc.Number = number
		}

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		// Purchase document: stock increases per line.
		for _, line := range doc.Lines {
			if err := s.inventory.Adjust(ctx, line.ProductID, +line.Quantity); err != nil {
				return fmt.Errorf("adjust stock: %w", err)
			}
		}

		if doc.PaidOnCreation {
			receipt, err := s.ledger.Record(ctx, payments.RecordRequest{
				Ref:    Ref(doc.ID),
				Amount: doc.TotalAmount,
				Method: doc.PaymentMethod,
			})
			if err != nil {
				return fmt.Errorf("record initial payment: %w", err)
			}
			doc.PaymentStatus = receipt.NewStatus
		}

		if s.trail != nil {
			err := s.trail.Record(ctx, audit.Entry{
				EntityType: "purchase",
				EntityID:   doc.ID,
				Action:     audit.ActionCreate,
				Changes: map[string]any{
					"number":       doc.Number,
					"supplier_id":  doc.SupplierID,
					"total_amount": int64(doc.TotalAmount),
					"lines":        len(doc.Lines),
				},
			})
			if err != nil {
				return fmt.Errorf("audit create: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase created", "id", doc.ID, "number", doc.Number, "total", int64(doc.TotalAmount))
	return nil
}

// GetByID retrieves a purchase with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Purchase, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Delete removes a purchase as a whole: stock decreases per line (inverse of
// the receipt), then payments, lines and header.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetByID(ctx, docID)
		if err != nil {
			return err
		}

		lines, err := s.repo.GetLines(ctx, docID)
		if err != nil {
			return fmt.Errorf("get lines: %w", err)
		}

		for _, line := range lines {
			if err := s.inventory.Adjust(ctx, line.ProductID, -line.Quantity); err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
		}

		if err := s.ledger.RemoveForDocument(ctx, Ref(docID)); err != nil {
			return fmt.Errorf("delete payments: %w", err)
		}
		if err := s.repo.DeleteLines(ctx, docID); err != nil {
			return fmt.Errorf("delete lines: %w", err)
		}
		if err := s.repo.DeleteHeader(ctx, docID); err != nil {
			return fmt.Errorf("delete header: %w", err)
		}

		if s.trail != nil {
			err := s.trail.Record(ctx, audit.Entry{
				EntityType: "purchase",
				EntityID:   docID,
				Action:     audit.ActionDelete,
				Changes: map[string]any{
					"number": doc.Number,
					"lines":  len(lines),
				},
			})
			if err != nil {
				return fmt.Errorf("audit delete: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase deleted", "id", docID)
	return nil
}

// List retrieves purchases with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Purchase], error) {
	return s.repo.List(ctx, filter)
}
