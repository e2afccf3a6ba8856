package entity

import (
	"context"
	"time"

	"billfold/internal/core/apperror"
)

// DocumentKind discriminates the two ledger document types. It tags payments
// (both kinds share one payments table) and scopes sequence counters.
type DocumentKind string

const (
	DocumentKindInvoice  DocumentKind = "invoice"
	DocumentKindPurchase DocumentKind = "purchase"
)

// Valid reports whether k is a known document kind.
func (k DocumentKind) Valid() bool {
	return k == DocumentKindInvoice || k == DocumentKindPurchase
}

// PaymentStatus classifies how much of a document's total has been paid.
// Pending, Partial and Paid are derived from the payment ledger; Cancelled is
// terminal and set only by an explicit status change, never derived.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPartial   PaymentStatus = "partial"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// IsTerminal reports whether the status can no longer change.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCancelled
}

// Document is the base type for business transactions (Invoice, Purchase).
type Document struct {
	BaseEntity

	// Number is the document number (auto-generated, unique within kind+day)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// DueDate is when payment is expected. Optional; purchases default it
	// from the supplier's payment terms.
	DueDate *time.Time `db:"due_date" json:"dueDate,omitempty"`

	// PaymentStatus is owned by the payment ledger after creation.
	PaymentStatus PaymentStatus `db:"payment_status" json:"paymentStatus"`

	// Notes is an optional user comment
	Notes string `db:"notes" json:"notes,omitempty"`
}

// NewDocument creates a new Document with generated ID and Pending status.
func NewDocument() Document {
	return Document{
		BaseEntity:    NewBaseEntity(),
		Date:          time.Now().UTC(),
		PaymentStatus: PaymentStatusPending,
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}
	return nil
}
