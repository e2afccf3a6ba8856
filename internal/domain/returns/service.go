package returns

import (
	"context"
	"fmt"
	"time"

	"billfold/internal/core/apperror"
	"billfold/internal/core/id"
	"billfold/internal/core/tx"
	"billfold/internal/core/types"
	"billfold/internal/domain/audit"
	"billfold/internal/domain/documents/invoice"
	"billfold/internal/domain/inventory"
	"billfold/pkg/logger"
)

// InvoiceSource exposes the slice of the invoice store the return engine
// needs. Satisfied by invoice.Repository.
type InvoiceSource interface {
	GetByID(ctx context.Context, docID id.ID) (*invoice.Invoice, error)
	GetLines(ctx context.Context, docID id.ID) ([]invoice.Line, error)
}

// ProcessRequest describes one return against an invoice.
type ProcessRequest struct {
	InvoiceID id.ID
	Items     []Item
	Reason    string
	Date      time.Time
}

// Service processes sales returns.
type Service struct {
	repo      Repository
	invoices  InvoiceSource
	inventory *inventory.Service
	txManager tx.Manager
	trail     audit.Trail // optional
}

// NewService creates a returns service.
func NewService(
	repo Repository,
	invoices InvoiceSource,
	inv *inventory.Service,
	txManager tx.Manager,
	trail audit.Trail,
) *Service {
	return &Service{
		repo:      repo,
		invoices:  invoices,
		inventory: inv,
		txManager: txManager,
		trail:     trail,
	}
}

// Process records a sales return. Each returned quantity is validated against
// the original line quantity minus what was already returned for that line;
// the first violation rejects the whole return. On success the header and
// lines are inserted and stock is restored per returned unit, all in one
// transaction. The original invoice is never touched.
func (s *Service) Process(ctx context.Context, req ProcessRequest) (*SalesReturn, error) {
	if id.IsNil(req.InvoiceID) {
		return nil, apperror.NewValidation("invoice id is required").WithDetail("field", "invoice_id")
	}
	if len(req.Items) == 0 {
		return nil, apperror.NewValidation("return must have at least one item").WithDetail("field", "items")
	}
	for _, item := range req.Items {
		if id.IsNil(item.InvoiceLineID) {
			return nil, apperror.NewValidation("invoice line id is required").WithDetail("field", "items")
		}
		if item.Quantity <= 0 {
			return nil, apperror.NewValidation("return quantity must be positive").WithDetail("field", "items")
		}
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	ret := &SalesReturn{
		ID:        id.New(),
		InvoiceID: req.InvoiceID,
		Date:      req.Date,
		Reason:    req.Reason,
		CreatedAt: time.Now(),
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.invoices.GetByID(ctx, req.InvoiceID); err != nil {
			return err
		}

		lines, err := s.invoices.GetLines(ctx, req.InvoiceID)
		if err != nil {
			return fmt.Errorf("get invoice lines: %w", err)
		}
		byID := make(map[id.ID]*invoice.Line, len(lines))
		for i := range lines {
			byID[lines[i].LineID] = &lines[i]
		}

		returned, err := s.repo.SumReturnedByLine(ctx, req.InvoiceID)
		if err != nil {
			return fmt.Errorf("sum returned quantities: %w", err)
		}

		for _, item := range req.Items {
			orig, ok := byID[item.InvoiceLineID]
			if !ok {
				return apperror.NewValidation("invoice line does not belong to this invoice").
					WithDetail("invoiceLineId", item.InvoiceLineID)
			}
			returnable := orig.Quantity - returned[item.InvoiceLineID]
			if item.Quantity > returnable {
				return apperror.NewReturnExceedsSold(item.InvoiceLineID.String(), item.Quantity, returnable)
			}
			// Count this item against the line so a repeated line in the
			// same request cannot exceed the bound piecewise.
			returned[item.InvoiceLineID] += item.Quantity

			amount := orig.UnitPrice * types.MinorUnits(item.Quantity)
			ret.Lines = append(ret.Lines, Line{
				LineID:        id.New(),
				ReturnID:      ret.ID,
				InvoiceLineID: item.InvoiceLineID,
				ProductID:     orig.ProductID,
				Quantity:      item.Quantity,
				UnitPrice:     orig.UnitPrice,
				Amount:        amount,
			})
			ret.TotalAmount += amount
		}

		if err := s.repo.Create(ctx, ret); err != nil {
			return fmt.Errorf("create return: %w", err)
		}
		if err := s.repo.SaveLines(ctx, ret.ID, ret.Lines); err != nil {
			return fmt.Errorf("save return lines: %w", err)
		}

		// Returned units go back on the shelf.
		for _, line := range ret.Lines {
			if err := s.inventory.Adjust(ctx, line.ProductID, +line.Quantity); err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
		}

		if s.trail != nil {
			err := s.trail.Record(ctx, audit.Entry{
				EntityType: "sales_return",
				EntityID:   ret.ID,
				Action:     audit.ActionReturn,
				Changes: map[string]any{
					"invoice_id":   ret.InvoiceID,
					"total_amount": int64(ret.TotalAmount),
					"lines":        len(ret.Lines),
				},
			})
			if err != nil {
				return fmt.Errorf("audit return: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sales return processed",
		"id", ret.ID, "invoice_id", ret.InvoiceID, "total", int64(ret.TotalAmount))
	return ret, nil
}

// GetByID retrieves a return with lines.
func (s *Service) GetByID(ctx context.Context, returnID id.ID) (*SalesReturn, error) {
	ret, err := s.repo.GetByID(ctx, returnID)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.GetLines(ctx, returnID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	ret.Lines = lines
	return ret, nil
}

// ListByInvoice retrieves all returns recorded against an invoice.
func (s *Service) ListByInvoice(ctx context.Context, invoiceID id.ID) ([]SalesReturn, error) {
	return s.repo.ListByInvoice(ctx, invoiceID)
}
