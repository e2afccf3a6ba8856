// Package invoice provides the sales invoice document.
// Creating an invoice decreases stock; deleting it restores stock and removes
// its payments. Returns are handled separately and never mutate the invoice.
package invoice

import (
	"context"

	"github.com/shopspring/decimal"

	"billfold/internal/core/apperror"
	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/core/types"
)

// Invoice represents a sales invoice document.
type Invoice struct {
	entity.Document

	// Customer reference
	CustomerID id.ID `db:"customer_id" json:"customerId"`

	// Totals (calculated from lines)
	Subtotal     types.MinorUnits `db:"subtotal" json:"subtotal"`
	TaxAmount    types.MinorUnits `db:"tax_amount" json:"taxAmount"`
	ShippingCost types.MinorUnits `db:"shipping_cost" json:"shippingCost"`
	TotalAmount  types.MinorUnits `db:"total_amount" json:"totalAmount"`

	// PaymentMethod used when the invoice is declared paid at creation.
	PaymentMethod string `db:"payment_method" json:"paymentMethod,omitempty"`

	// PaidOnCreation declares the invoice fully paid at creation time; one
	// payment row for the full total is posted inside the same transaction.
	PaidOnCreation bool `db:"-" json:"paidOnCreation,omitempty"`

	// Table part: invoiced goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents a line item in the invoice. Immutable once created.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID            `db:"product_id" json:"productId"`
	Quantity  int64            `db:"quantity" json:"quantity"`
	UnitPrice types.MinorUnits `db:"unit_price" json:"unitPrice"`
	TaxRate   decimal.Decimal  `db:"tax_rate" json:"taxRate"`
	TaxAmount types.MinorUnits `db:"tax_amount" json:"taxAmount"`
	// TotalPrice is the line amount including tax.
	TotalPrice types.MinorUnits `db:"total_price" json:"totalPrice"`
}

// NetAmount is the line amount before tax.
func (l Line) NetAmount() types.MinorUnits {
	return types.MinorUnits(l.Quantity) * l.UnitPrice
}

// New creates a new invoice document.
func New(customerID id.ID) *Invoice {
	return &Invoice{
		Document:   entity.NewDocument(),
		CustomerID: customerID,
		Lines:      make([]Line, 0),
	}
}

// AddLine adds a line to the invoice and recalculates totals.
func (inv *Invoice) AddLine(productID id.ID, quantity int64, unitPrice types.MinorUnits, taxRate decimal.Decimal) {
	net := types.MinorUnits(quantity) * unitPrice
	tax := net.ApplyRate(taxRate)

	line := Line{
		LineID:     id.New(),
		LineNo:     len(inv.Lines) + 1,
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TaxRate:    taxRate,
		TaxAmount:  tax,
		TotalPrice: net + tax,
	}

	inv.Lines = append(inv.Lines, line)
	inv.RecalculateTotals()
}

// RecalculateTotals recomputes subtotal, tax and total from lines.
func (inv *Invoice) RecalculateTotals() {
	inv.Subtotal = 0
	inv.TaxAmount = 0

	for _, line := range inv.Lines {
		inv.Subtotal += line.NetAmount()
		inv.TaxAmount += line.TaxAmount
	}

	inv.TotalAmount = inv.Subtotal + inv.TaxAmount + inv.ShippingCost
}

// Validate implements entity.Validatable. Runs before the transaction opens,
// so requests doomed to fail never touch the store.
func (inv *Invoice) Validate(ctx context.Context) error {
	if err := inv.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(inv.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}

	if inv.ShippingCost.IsNegative() {
		return apperror.NewValidation("shipping cost must not be negative").
			WithDetail("field", "shippingCost")
	}

	if len(inv.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range inv.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price must not be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.TaxRate.IsNegative() {
			return apperror.NewValidation("tax rate must not be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	if inv.PaidOnCreation && inv.PaymentMethod == "" {
		return apperror.NewValidation("payment method is required for paid invoices").
			WithDetail("field", "paymentMethod")
	}

	return nil
}
