package purchase

import (
	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/domain/payments"
	"billfold/pkg/numerator"
)

const (
	// NumberKind selects the "PUR" prefix for purchase numbers.
	NumberKind = numerator.KindPurchase
)

// Ref builds the payment ledger reference for a purchase.
func Ref(docID id.ID) payments.DocumentRef {
	return payments.DocumentRef{Kind: entity.DocumentKindPurchase, ID: docID}
}
