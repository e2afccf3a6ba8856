package payments

import (
	"billfold/internal/core/entity"
	"billfold/internal/core/types"
)

// DeriveStatus is the one derivation of payment status from paid vs. total.
// Every path that classifies a document (recording a payment, paid-on-creation
// documents, history reads) goes through this function; computing the status
// anywhere else invites drift between writers and readers.
//
// Cancelled is terminal: it is never derived and never left by derivation.
func DeriveStatus(totalPaid, totalAmount types.MinorUnits, current entity.PaymentStatus) entity.PaymentStatus {
	if current == entity.PaymentStatusCancelled {
		return current
	}

	switch {
	case totalAmount > 0 && totalPaid >= totalAmount:
		return entity.PaymentStatusPaid
	case totalPaid > 0:
		return entity.PaymentStatusPartial
	default:
		return entity.PaymentStatusPending
	}
}
