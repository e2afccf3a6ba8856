package payments

import (
	"context"
	"fmt"
	"time"

	"billfold/internal/core/apperror"
	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/core/tx"
	"billfold/internal/core/types"
	"billfold/internal/domain/audit"
	"billfold/pkg/logger"
)

// Service is the payment ledger.
type Service struct {
	repo      Repository
	docs      DocumentStore
	txManager tx.Manager
	trail     audit.Trail // optional
}

// NewService creates a payment ledger service.
func NewService(repo Repository, docs DocumentStore, txManager tx.Manager, trail audit.Trail) *Service {
	return &Service{
		repo:      repo,
		docs:      docs,
		txManager: txManager,
		trail:     trail,
	}
}

// RecordRequest describes a payment to record.
type RecordRequest struct {
	Ref    DocumentRef
	Amount types.MinorUnits
	Method string
	// Date defaults to now when zero.
	Date time.Time
}

// Receipt is the outcome of recording a payment.
type Receipt struct {
	Payment          *Payment             `json:"payment"`
	NewStatus        entity.PaymentStatus `json:"newStatus"`
	TotalPaid        types.MinorUnits     `json:"totalPaid"`
	RemainingBalance types.MinorUnits     `json:"remainingBalance"`
}

// Record inserts a payment and recomputes the document's payment status.
//
// The whole read-validate-write sequence runs in one transaction with the
// document row locked, so two concurrent payments against the same document
// serialize instead of both reading the same paid total (lost update).
// Rejections: non-positive amount, unknown document, cancelled document, and
// any amount exceeding the remaining balance (hard business invariant).
func (s *Service) Record(ctx context.Context, req RecordRequest) (*Receipt, error) {
	if err := req.Ref.Validate(); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.NewValidation("payment amount must be positive").
			WithDetail("amount", int64(req.Amount))
	}

	var receipt *Receipt
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.docs.GetForUpdate(ctx, req.Ref)
		if err != nil {
			return err
		}

		if doc.PaymentStatus == entity.PaymentStatusCancelled {
			return apperror.NewBusinessRule(apperror.CodeDocumentCancelled,
				"cannot record payment against a cancelled document").
				WithDetail("document_id", doc.ID.String())
		}

		paidSoFar, err := s.repo.SumByDocument(ctx, req.Ref)
		if err != nil {
			return fmt.Errorf("sum payments: %w", err)
		}

		remaining := doc.TotalAmount - paidSoFar
		if req.Amount > remaining {
			return apperror.NewPaymentExceedsBalance(int64(req.Amount), int64(remaining))
		}

		date := req.Date
		if date.IsZero() {
			date = time.Now().UTC()
		}

		payment := &Payment{
			ID:           id.New(),
			DocumentKind: req.Ref.Kind,
			DocumentID:   req.Ref.ID,
			Amount:       req.Amount,
			Method:       req.Method,
			Date:         date,
			CreatedAt:    time.Now().UTC(),
		}
		if err := s.repo.Insert(ctx, payment); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		totalPaid := paidSoFar + req.Amount
		newStatus := DeriveStatus(totalPaid, doc.TotalAmount, doc.PaymentStatus)
		if newStatus != doc.PaymentStatus {
			if err := s.docs.SetPaymentStatus(ctx, req.Ref, newStatus); err != nil {
				return fmt.Errorf("update payment status: %w", err)
			}
		}

		if s.trail != nil {
			err := s.trail.Record(ctx, audit.Entry{
				EntityType: string(req.Ref.Kind),
				EntityID:   req.Ref.ID,
				Action:     audit.ActionPayment,
				Changes: map[string]any{
					"payment_id": payment.ID,
					"amount":     int64(req.Amount),
					"method":     req.Method,
					"new_status": string(newStatus),
				},
			})
			if err != nil {
				return fmt.Errorf("audit payment: %w", err)
			}
		}

		receipt = &Receipt{
			Payment:          payment,
			NewStatus:        newStatus,
			TotalPaid:        totalPaid,
			RemainingBalance: doc.TotalAmount - totalPaid,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "payment recorded",
		"document_kind", string(req.Ref.Kind),
		"document_id", req.Ref.ID,
		"amount", int64(req.Amount),
		"status", string(receipt.NewStatus),
	)
	return receipt, nil
}

// History is the full payment picture for one document.
type History struct {
	Payments         []Payment            `json:"payments"`
	TotalPaid        types.MinorUnits     `json:"totalPaid"`
	RemainingBalance types.MinorUnits     `json:"remainingBalance"`
	PaymentStatus    entity.PaymentStatus `json:"paymentStatus"`
}

// GetHistory returns payments, paid total, remaining balance and status for a
// document. Pure read, no side effects.
func (s *Service) GetHistory(ctx context.Context, ref DocumentRef) (*History, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}

	doc, err := s.docs.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.ListByDocument(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	var totalPaid types.MinorUnits
	for _, p := range list {
		totalPaid += p.Amount
	}

	return &History{
		Payments:         list,
		TotalPaid:        totalPaid,
		RemainingBalance: doc.TotalAmount - totalPaid,
		PaymentStatus:    doc.PaymentStatus,
	}, nil
}

// Cancel marks a document's payment status as Cancelled. This is the only way
// into the terminal status; derivation never produces it.
func (s *Service) Cancel(ctx context.Context, ref DocumentRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.docs.GetForUpdate(ctx, ref)
		if err != nil {
			return err
		}
		if doc.PaymentStatus == entity.PaymentStatusCancelled {
			return nil // already terminal
		}
		if err := s.docs.SetPaymentStatus(ctx, ref, entity.PaymentStatusCancelled); err != nil {
			return fmt.Errorf("update payment status: %w", err)
		}
		if s.trail != nil {
			err := s.trail.Record(ctx, audit.Entry{
				EntityType: string(ref.Kind),
				EntityID:   ref.ID,
				Action:     audit.ActionCancel,
				Changes:    map[string]any{"previous_status": string(doc.PaymentStatus)},
			})
			if err != nil {
				return fmt.Errorf("audit cancel: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "document cancelled", "document_kind", string(ref.Kind), "document_id", ref.ID)
	return nil
}

// RemoveForDocument deletes all payments referencing a document. Called only
// as part of whole-document deletion; payments are otherwise append-only.
func (s *Service) RemoveForDocument(ctx context.Context, ref DocumentRef) error {
	return s.repo.DeleteByDocument(ctx, ref)
}
