package invoice

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

// Service provides business operations for sales invoices.
type Service struct {
	repo      Repository
	inventory *inventory.Service
	ledger    *payments.Service
	numerator *numerator.Service
	txManager tx.Manager
	trail     audit.Trail // optional
}

// NewService creates an invoice service.
func NewService(
	repo Repository,
	inv *inventory.Service,
	ledger *payments.Service,
	num *numerator.Service,
	txManager tx.Manager,
	trail audit.Trail,
) *Service {
	return &Service{
		repo:      repo,
		inventory: inv,
		ledger:    ledger,
		numerator: num,
		txManager: txManager,
		trail:     trail,
	}
}

// Create creates a sales invoice: number, header, lines, stock decrease per
// line and, when declared paid at creation, one payment for the full total.
// All writes land in one transaction; any failure rolls everything back, so a
// partial document can never exist.
func (s *Service) Create(ctx context.Context, doc *Invoice) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	doc.RecalculateTotals()

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

		// Sales document: stock decreases per line.
		for _, line := range doc.Lines {
			if err := s.inventory.Adjust(ctx, line.ProductID, -line.Quantity); err != nil {
				return fmt.Errorf("adjust stock: %w", err)
			}
		}

		if doc.PaidOnCreation {
			// The payment is timestamped now, not with the document's
			// business date.
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
				EntityType: "invoice",
				EntityID:   doc.ID,
				Action:     audit.ActionCreate,
				Changes: map[string]any{
					"number":       doc.Number,
					"customer_id":  doc.CustomerID,
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

	logger.Info(ctx, "invoice created", "id", doc.ID, "number", doc.Number, "total", int64(doc.TotalAmount))
	return nil
}

// GetByID retrieves an invoice with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
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

// Delete removes an invoice as a whole: inverse stock deltas per line, then
// payments, lines and header. Fails fast when the invoice does not exist; any
// step failure rolls back the whole deletion, so stock is never partially
// restored.
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

		// Inverse of the sales decrease: put the units back.
		for _, line := range lines {
			if err := s.inventory.Adjust(ctx, line.ProductID, +line.Quantity); err != nil {
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
				EntityType: "invoice",
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

	logger.Info(ctx, "invoice deleted", "id", docID)
	return nil
}

// List retrieves invoices with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.List(ctx, filter)
}
