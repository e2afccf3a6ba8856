// Package payments provides the payment ledger: append-only payment records
// against documents and the single derivation of payment status.
package payments

import (
	"context"
	"time"

	"billfold/internal/core/apperror"
	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/core/types"
)

// DocumentRef identifies a payment target: a document kind tag plus the
// document's identifier. Both kinds share one payments table; the tag is the
// discriminator.
type DocumentRef struct {
	Kind entity.DocumentKind `json:"kind"`
	ID   id.ID               `json:"id"`
}

// Validate checks the reference is well-formed.
func (r DocumentRef) Validate() error {
	if !r.Kind.Valid() {
		return apperror.NewValidation("unknown document kind").WithDetail("kind", string(r.Kind))
	}
	if id.IsNil(r.ID) {
		return apperror.NewValidation("document id is required").WithDetail("field", "documentId")
	}
	return nil
}

// Payment is one ledger entry. Append-only: never updated, deleted only as
// part of whole-document deletion.
type Payment struct {
	ID           id.ID               `db:"id" json:"id"`
	DocumentKind entity.DocumentKind `db:"document_kind" json:"documentKind"`
	DocumentID   id.ID               `db:"document_id" json:"documentId"`
	Amount       types.MinorUnits    `db:"amount" json:"amount"`
	Method       string              `db:"method" json:"method"`
	Date         time.Time           `db:"date" json:"date"`
	CreatedAt    time.Time           `db:"created_at" json:"createdAt"`
}

// DocumentSummary is the slice of a document the ledger needs.
type DocumentSummary struct {
	ID            id.ID
	Number        string
	TotalAmount   types.MinorUnits
	PaymentStatus entity.PaymentStatus
}

// Repository defines storage operations for payments.
type Repository interface {
	Insert(ctx context.Context, p *Payment) error
	SumByDocument(ctx context.Context, ref DocumentRef) (types.MinorUnits, error)
	ListByDocument(ctx context.Context, ref DocumentRef) ([]Payment, error)
	// DeleteByDocument removes all payments for a document. Called only from
	// whole-document deletion.
	DeleteByDocument(ctx context.Context, ref DocumentRef) error
}

// DocumentStore is the ledger's view of the document tables.
type DocumentStore interface {
	// Get reads the document summary without locking.
	Get(ctx context.Context, ref DocumentRef) (DocumentSummary, error)

	// GetForUpdate reads the document summary with a row lock, serializing
	// concurrent payment recordings against the same document.
	GetForUpdate(ctx context.Context, ref DocumentRef) (DocumentSummary, error)

	// SetPaymentStatus updates the document's derived status field.
	SetPaymentStatus(ctx context.Context, ref DocumentRef, status entity.PaymentStatus) error
}
