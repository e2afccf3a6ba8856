package dto

import (
	"time"

	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/core/types"
	"billfold/internal/domain/payments"
)

// --- Request DTOs ---

// RecordPaymentRequest represents a request to record a payment against a
// document.
type RecordPaymentRequest struct {
	Amount int64     `json:"amount" binding:"required,gt=0"`
	Method string    `json:"method" binding:"required"`
	Date   time.Time `json:"date,omitempty"`
}

// ToRecordRequest builds the ledger request for a document reference.
func (r *RecordPaymentRequest) ToRecordRequest(kind entity.DocumentKind, docID id.ID) payments.RecordRequest {
	return payments.RecordRequest{
		Ref:    payments.DocumentRef{Kind: kind, ID: docID},
		Amount: types.MinorUnits(r.Amount),
		Method: r.Method,
		Date:   r.Date,
	}
}

// --- Response DTOs ---

// PaymentResponse represents a single ledger entry.
type PaymentResponse struct {
	ID           string    `json:"id"`
	DocumentKind string    `json:"documentKind"`
	DocumentID   string    `json:"documentId"`
	Amount       int64     `json:"amount"`
	Method       string    `json:"method"`
	Date         time.Time `json:"date"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromPayment creates a response from a ledger entry.
func FromPayment(p *payments.Payment) PaymentResponse {
	return PaymentResponse{
		ID:           p.ID.String(),
		DocumentKind: string(p.DocumentKind),
		DocumentID:   p.DocumentID.String(),
		Amount:       int64(p.Amount),
		Method:       p.Method,
		Date:         p.Date,
		CreatedAt:    p.CreatedAt,
	}
}

// ReceiptResponse is returned after recording a payment.
type ReceiptResponse struct {
	Payment          PaymentResponse      `json:"payment"`
	NewStatus        entity.PaymentStatus `json:"newStatus"`
	TotalPaid        int64                `json:"totalPaid"`
	RemainingBalance int64                `json:"remainingBalance"`
}

// FromReceipt creates a response from a ledger receipt.
func FromReceipt(r *payments.Receipt) ReceiptResponse {
	return ReceiptResponse{
		Payment:          FromPayment(r.Payment),
		NewStatus:        r.NewStatus,
		TotalPaid:        int64(r.TotalPaid),
		RemainingBalance: int64(r.RemainingBalance),
	}
}

// PaymentHistoryResponse is the full payment picture for one document.
type PaymentHistoryResponse struct {
	Payments         []PaymentResponse    `json:"payments"`
	TotalPaid        int64                `json:"totalPaid"`
	RemainingBalance int64                `json:"remainingBalance"`
	PaymentStatus    entity.PaymentStatus `json:"paymentStatus"`
}

// FromHistory creates a response from a ledger history.
func FromHistory(h *payments.History) PaymentHistoryResponse {
	resp := PaymentHistoryResponse{
		Payments:         make([]PaymentResponse, 0, len(h.Payments)),
		TotalPaid:        int64(h.TotalPaid),
		RemainingBalance: int64(h.RemainingBalance),
		PaymentStatus:    h.PaymentStatus,
	}
	for i := range h.Payments {
		resp.Payments = append(resp.Payments, FromPayment(&h.Payments[i]))
	}
	return resp
}
