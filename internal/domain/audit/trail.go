// Package audit defines the append-only audit trail contract.
// Every ledger mutation (document creation, deletion, payment, cancellation,
// return) appends an entry. The trail records history; it is never replayed.
package audit

import (
	"context"

	"billfold/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate  Action = "create"
	ActionDelete  Action = "delete"
	ActionPayment Action = "payment"
	ActionCancel  Action = "cancel"
	ActionReturn  Action = "return"
)

// Entry is a single audit record.
type Entry struct {
	EntityType string
	EntityID   id.ID
	Action     Action
	// Changes is any JSON-serializable payload describing the mutation.
	Changes any
}

// Trail records audit entries. Implementations insert on the transaction in
// ctx when present, so the entry commits or rolls back with the operation.
type Trail interface {
	Record(ctx context.Context, entry Entry) error
}
