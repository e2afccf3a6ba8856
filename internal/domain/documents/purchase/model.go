package purchase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"billfold/internal/core/apperror"
	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/core/types"
)

// Purchase is a supplier purchase document. Its lines increase stock.
type Purchase struct {
	entity.Document

	SupplierID   id.ID            `json:"supplier_id" db:"supplier_id"`
	Subtotal     types.MinorUnits `json:"subtotal" db:"subtotal"`
	TaxAmount    types.MinorUnits `json:"tax_amount" db:"tax_amount"`
	ShippingCost types.MinorUnits `json:"shipping_cost" db:"shipping_cost"`
	TotalAmount  types.MinorUnits `json:"total_amount" db:"total_amount"`

	// PaymentMethod used when the purchase is declared paid at creation.
	PaymentMethod string `db:"payment_method" json:"paymentMethod,omitempty"`

	// PaidOnCreation declares the purchase fully paid at creation time; one
	// ledger payment for the full total is recorded alongside the document.
	PaidOnCreation bool `db:"-" json:"paidOnCreation,omitempty"`

	Lines []Line `json:"lines" db:"-"`
}

// Line is one purchased product position.
type Line struct {
	LineID     id.ID            `json:"line_id" db:"line_id"`
	LineNo     int              `json:"line_no" db:"line_no"`
	ProductID  id.ID            `json:"product_id" db:"product_id"`
	Quantity   int64            `json:"quantity" db:"quantity"`
	UnitCost   types.MinorUnits `json:"unit_cost" db:"unit_cost"`
	TaxRate    decimal.Decimal  `json:"tax_rate" db:"tax_rate"`
	TaxAmount  types.MinorUnits `json:"tax_amount" db:"tax_amount"`
	TotalPrice types.MinorUnits `json:"total_price" db:"total_price"`
}

// NetAmount returns quantity times unit cost before tax.
func (l *Line) NetAmount() types.MinorUnits {
	return types.MinorUnits(l.Quantity) * l.UnitCost
}

// NewPurchase creates a purchase document with defaults applied.
func NewPurchase(supplierID id.ID) *Purchase {
	return &Purchase{
		Document:   entity.NewDocument(),
		SupplierID: supplierID,
	}
}

// AddLine appends a line with the next line number.
func (p *Purchase) AddLine(productID id.ID, quantity int64, unitCost types.MinorUnits, taxRate decimal.Decimal) {
	p.Lines = append(p.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(p.Lines) + 1,
		ProductID: productID,
		Quantity:  quantity,
		UnitCost:  unitCost,
		TaxRate:   taxRate,
	})
}

// RecalculateTotals computes line taxes and totals, then the header sums.
func (p *Purchase) RecalculateTotals() {
	p.Subtotal = 0
	p.TaxAmount = 0
	for i := range p.Lines {
		line := &p.Lines[i]
		net := line.NetAmount()
		line.TaxAmount = net.ApplyRate(line.TaxRate)
		line.TotalPrice = net + line.TaxAmount

		p.Subtotal += net
		p.TaxAmount += line.TaxAmount
	}
	p.TotalAmount = p.Subtotal + p.TaxAmount + p.ShippingCost
}

// Validate checks the document before it is persisted.
func (p *Purchase) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(p.SupplierID) {
		return apperror.NewValidation("supplier is required").WithDetail("field", "supplier_id")
	}
	if len(p.Lines) == 0 {
		return apperror.NewValidation("purchase must have at least one line").WithDetail("field", "lines")
	}
	for i := range p.Lines {
		line := &p.Lines[i]
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation(fmt.Sprintf("line %d: product is required", line.LineNo)).WithDetail("field", "lines")
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation(fmt.Sprintf("line %d: quantity must be positive", line.LineNo)).WithDetail("field", "lines")
		}
		if line.UnitCost < 0 {
			return apperror.NewValidation(fmt.Sprintf("line %d: unit cost must not be negative", line.LineNo)).WithDetail("field", "lines")
		}
		if line.TaxRate.IsNegative() {
			return apperror.NewValidation(fmt.Sprintf("line %d: tax rate must not be negative", line.LineNo)).WithDetail("field", "lines")
		}
	}
	if p.PaidOnCreation && p.PaymentMethod == "" {
		return apperror.NewValidation("payment method is required for paid purchases").
			WithDetail("field", "paymentMethod")
	}
	return nil
}
