package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"billfold/internal/core/entity"
	"billfold/internal/core/id"
	"billfold/internal/core/types"
	"billfold/internal/domain/documents/invoice"
)

// --- Request DTOs ---

// CreateInvoiceRequest represents a request to create a sales invoice.
type CreateInvoiceRequest struct {
	Date           time.Time            `json:"date,omitempty"`
	DueDate        *time.Time           `json:"dueDate,omitempty"`
	CustomerID     string               `json:"customerId" binding:"required"`
	ShippingCost   int64                `json:"shippingCost,omitempty" binding:"omitempty,gte=0"`
	Notes          string               `json:"notes,omitempty"`
	PaidOnCreation bool                 `json:"paidOnCreation,omitempty"`
	PaymentMethod  string               `json:"paymentMethod,omitempty"`
	Lines          []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// InvoiceLineRequest represents a line in a create request.
type InvoiceLineRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
	UnitPrice int64  `json:"unitPrice" binding:"required,gte=0"`
	TaxRate   string `json:"taxRate,omitempty"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateInvoiceRequest) ToEntity() *invoice.Invoice {
	customerID, _ := id.Parse(r.CustomerID)

	doc := invoice.New(customerID)
	if !r.Date.IsZero() {
		doc.Date = r.Date
	}
	doc.DueDate = r.DueDate
	doc.ShippingCost = types.MinorUnits(r.ShippingCost)
	doc.Notes = r.Notes
	doc.PaidOnCreation = r.PaidOnCreation
	doc.PaymentMethod = r.PaymentMethod

	for _, line := range r.Lines {
		productID, _ := id.Parse(line.ProductID)
		taxRate, err := decimal.NewFromString(line.TaxRate)
		if line.TaxRate == "" || err != nil {
			taxRate = decimal.Zero
		}
		doc.AddLine(productID, line.Quantity, types.MinorUnits(line.UnitPrice), taxRate)
	}

	return doc
}

// ListInvoicesRequest contains invoice list query parameters.
type ListInvoicesRequest struct {
	ListRequest
	CustomerID    string `form:"customerId"`
	PaymentStatus string `form:"paymentStatus"`
	DateFrom      string `form:"dateFrom" time_format:"2006-01-02"`
	DateTo        string `form:"dateTo" time_format:"2006-01-02"`
}

// ToFilter converts the request into an invoice list filter.
func (r *ListInvoicesRequest) ToFilter() invoice.ListFilter {
	f := invoice.ListFilter{ListFilter: r.ListRequest.ToFilter()}

	if r.CustomerID != "" {
		if customerID, err := id.Parse(r.CustomerID); err == nil {
			f.CustomerID = &customerID
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

// InvoiceResponse represents an invoice in API responses.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	Number        string                `json:"number"`
	Date          time.Time             `json:"date"`
	DueDate       *time.Time            `json:"dueDate,omitempty"`
	CustomerID    string                `json:"customerId"`
	Subtotal      int64                 `json:"subtotal"`
	TaxAmount     int64                 `json:"taxAmount"`
	ShippingCost  int64                 `json:"shippingCost"`
	TotalAmount   int64                 `json:"totalAmount"`
	PaymentStatus entity.PaymentStatus  `json:"paymentStatus"`
	PaymentMethod string                `json:"paymentMethod,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	Lines         []InvoiceLineResponse `json:"lines,omitempty"`
}

// InvoiceLineResponse represents an invoice line in API responses.
type InvoiceLineResponse struct {
	LineID     string `json:"lineId"`
	LineNo     int    `json:"lineNo"`
	ProductID  string `json:"productId"`
	Quantity   int64  `json:"quantity"`
	UnitPrice  int64  `json:"unitPrice"`
	TaxRate    string `json:"taxRate"`
	TaxAmount  int64  `json:"taxAmount"`
	TotalPrice int64  `json:"totalPrice"`
}

// FromInvoice creates a response from a domain entity.
func FromInvoice(doc *invoice.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            doc.ID.String(),
		Number:        doc.Number,
		Date:          doc.Date,
		DueDate:       doc.DueDate,
		CustomerID:    doc.CustomerID.String(),
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
		resp.Lines = append(resp.Lines, InvoiceLineResponse{
			LineID:     line.LineID.String(),
			LineNo:     line.LineNo,
			ProductID:  line.ProductID.String(),
			Quantity:   line.Quantity,
			UnitPrice:  int64(line.UnitPrice),
			TaxRate:    line.TaxRate.String(),
			TaxAmount:  int64(line.TaxAmount),
			TotalPrice: int64(line.TotalPrice),
		})
	}
	return resp
}

// FromInvoices maps a slice of invoices to responses.
func FromInvoices(docs []*invoice.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, FromInvoice(doc))
	}
	return out
}
