package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/core/types"
	"billfold/internal/domain/documents/purchase"
)

// --- Request DTOs ---

// CreatePurchaseRequest represents a request to create a purchase document.
type CreatePurchaseRequest struct {
	Date       time.Time             `json:"date,omitempty"`
	DueDate    *time.Time            `json:"dueDate,omitempty"`
	SupplierID string                `json:"supplierId" binding:"required"`
	Shipping   int64                 `json:"shippingCost,omitempty" binding:"omitempty,gte=0"`
	Notes      string                `json:"notes,omitempty"`

	PaidOnCreation bool   `json:"paidOnCreation,omitempty"`
	PaymentMethod  string `json:"paymentMethod,omitempty"`

	Lines []PurchaseLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// PurchaseLineRequest represents a line in a create request.
type PurchaseLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
	UnitCost  int64  `json:"unitCost" binding:"required,gte=0"`
	TaxRate   string `json:"taxRate,omitempty"`
}

// ToEntity converts the request to a domain entity.
func (r *CreatePurchaseRequest) ToEntity() *purchase.Purchase {
	supplierID, _ := id.Parse(r.SupplierID)

	doc := purchase.NewPurchase(supplierID)
	if !r.Date.IsZero() {
		doc.Date = r.Date
	}
	doc.DueDate = r.DueDate
	doc.ShippingCost = types.MinorUnits(r.Shipping)
	doc.Notes = r.Notes
	doc.PaidOnCreation = r.PaidOnCreation
	doc.PaymentMethod = r.PaymentMethod

	for _, line := range r.Lines {
		productID, _ := id.Parse(line.ProductID)
		taxRate, err := decimal.NewFromString(line.TaxRate)
		if line.TaxRate == "" || err != nil {
			taxRate = decimal.Zero
		}
		doc.AddLine(productID, line.Quantity, types.MinorUnits(line.UnitCost), taxRate)
	}

	return doc
}

// ListPurchasesRequest contains purchase list query parameters.
type ListPurchasesRequest struct {
	ListRequest
	SupplierID    string `form:"supplierId"`
	PaymentStatus string `form:"paymentStatus"`
	DateFrom      string `form:"dateFrom"`
	DateTo        string `form:"dateTo"`
}

// ToFilter converts the request into a purchase list filter.
func (r *ListPurchasesRequest) ToFilter() purchase.ListFilter {
	f := purchase.ListFilter{ListFilter: r.ListRequest.ToFilter()}

	if r.SupplierID != "" {
		if supplierID, err := id.Parse(r.SupplierID); err == nil {
			f.SupplierID = &supplierID
		}
	}
	if r.PaymentStatus != "" {
		status := entity.PaymentStatus(r.PaymentStatus)
		f.PaymentStatus = &status
	}
	if t, err := time.Parse("2006-01-02", r.DateFrom); err == nil {
		f.DateFrom = &t
	}
	if t, err := time.Parse("2006-01-02", r.DateTo); err == nil {
		f.DateTo = &t
	}

	return f
}

// --- Response DTOs ---

// PurchaseResponse represents a purchase in API responses.
type PurchaseResponse struct {
	ID            string                 `json:"id"`
	Number        string                 `json:"number"`
	Date          time.Time              `json:"date"`
	DueDate       *time.Time             `json:"dueDate,omitempty"`
	SupplierID    string                 `json:"supplierId"`
	Subtotal      int64                  `json:"subtotal"`
	TaxAmount     int64                  `json:"taxAmount"`
	ShippingCost  int64                  `json:"shippingCost"`
	TotalAmount   int64                  `json:"totalAmount"`
	PaymentStatus entity.PaymentStatus   `json:"paymentStatus"`
	PaymentMethod string                 `json:"paymentMethod,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	Lines         []PurchaseLineResponse `json:"lines,omitempty"`
}

// PurchaseLineResponse represents a purchase line in API responses.
type PurchaseLineResponse struct {
	LineID     string `json:"lineId"`
	LineNo     int    `json:"lineNo"`
	ProductID  string `json:"productId"`
	Quantity   int64  `json:"quantity"`
	UnitCost   int64  `json:"unitCost"`
	TaxRate    string `json:"taxRate"`
	TaxAmount  int64  `json:"taxAmount"`
	TotalPrice int64  `json:"totalPrice"`
}

// FromPurchase creates a response from a domain entity.
func FromPurchase(doc *purchase.Purchase) PurchaseResponse {
	resp := PurchaseResponse{
		ID:            doc.ID.String(),
		Number:        doc.Number,
		Date:          doc.Date,
		DueDate:       doc.DueDate,
		SupplierID:    doc.SupplierID.String(),
		Subtotal:      int64(doc.Subtotal),
		TaxAmount:     int64(doc.TaxAmount),
		ShippingCost:  int64(doc.ShippingCost),
		TotalAmount:   int64(doc.TotalAmount),
		PaymentStatus: doc.PaymentStatus,
		PaymentMethod: doc.PaymentMethod,
		Notes:         doc.Notes,
		CreatedAt:     doc.CreatedAt,
	}
	for _, line := range doc.Lines {
		resp.Lines = append(resp.Lines, PurchaseLineResponse{
			LineID:     line.LineID.String(),
			LineNo:     line.LineNo,
			ProductID:  line.ProductID.String(),
			Quantity:   line.Quantity,
			UnitCost:   int64(line.UnitCost),
			TaxRate:    line.TaxRate.String(),
			TaxAmount:  int64(line.TaxAmount),
			TotalPrice: int64(line.TotalPrice),
		})
	}
	return resp
}

// FromPurchases maps a slice of purchases to responses.
func FromPurchases(docs []*purchase.Purchase) []PurchaseResponse {
	out := make([]PurchaseResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, FromPurchase(doc))
	}
	return out
}
