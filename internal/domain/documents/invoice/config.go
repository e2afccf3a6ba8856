package invoice

import (
	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/domain/payments"
	"billfold/pkg/numerator"
)

const (
	// NumberKind selects the "INV" prefix for invoice numbers.
	NumberKind = numerator.KindInvoice
)

// Ref builds the payment ledger reference for an invoice.
func Ref(docID id.ID) payments.DocumentRef {
	return payments.DocumentRef{Kind: entity.DocumentKindInvoice, ID: docID}
}
