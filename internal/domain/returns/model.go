// Package returns implements sales returns: after-the-fact reversal of sold
// units against an invoice, bounded by what was sold and not yet returned.
package returns

import (
	"time"

	"billfold/internal/core/id"
	"billfold/internal/core/types"
)

// SalesReturn is a return document referencing an invoice. It never mutates
// the referenced invoice.
type SalesReturn struct {
	ID          id.ID            `db:"id" json:"id"`
	InvoiceID   id.ID            `db:"invoice_id" json:"invoiceId"`
	Date        time.Time        `db:"date" json:"date"`
	Reason      string           `db:"reason" json:"reason"`
	TotalAmount types.MinorUnits `db:"total_amount" json:"totalAmount"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`

	Lines []Line `db:"-" json:"lines"`
}

// Line is one returned position, priced at the original invoice line's unit
// price.
type Line struct {
	LineID        id.ID            `db:"line_id" json:"lineId"`
	ReturnID      id.ID            `db:"return_id" json:"returnId"`
	InvoiceLineID id.ID            `db:"invoice_line_id" json:"invoiceLineId"`
	ProductID     id.ID            `db:"product_id" json:"productId"`
	Quantity      int64            `db:"quantity" json:"quantity"`
	UnitPrice     types.MinorUnits `db:"unit_price" json:"unitPrice"`
	Amount        types.MinorUnits `db:"amount" json:"amount"`
}

// Item is one requested return position.
type Item struct {
	InvoiceLineID id.ID `json:"invoiceLineId"`
	Quantity      int64 `json:"quantity"`
}
