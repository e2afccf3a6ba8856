package dto

import (
	"time"

	"billfold/internal/core/apperror"
	"billfold/internal/core/id"
	"billfold/internal/domain/returns"
)

// --- Request DTOs ---

// ProcessReturnRequest represents a request to return sold goods.
type ProcessReturnRequest struct {
	Items  []ReturnItemRequest `json:"items" binding:"required,min=1,dive"`
	Reason string              `json:"reason,omitempty"`
	Date   time.Time           `json:"date,omitempty"`
}

// ReturnItemRequest is one returned position.
type ReturnItemRequest struct {
	InvoiceLineID string `json:"invoiceLineId" binding:"required"`
	Quantity      int64  `json:"quantity" binding:"required,gt=0"`
}

// ToProcessRequest builds the domain request for an invoice. A malformed
// line id is rejected here, naming the offending value.
func (r *ProcessReturnRequest) ToProcessRequest(invoiceID id.ID) (returns.ProcessRequest, error) {
	req := returns.ProcessRequest{
		InvoiceID: invoiceID,
		Reason:    r.Reason,
		Date:      r.Date,
	}
	for _, item := range r.Items {
		lineID, err := id.Parse(item.InvoiceLineID)
		if err != nil {
			return returns.ProcessRequest{}, apperror.NewValidation("invalid invoice line id").
				WithDetail("invoiceLineId", item.InvoiceLineID)
		}
		req.Items = append(req.Items, returns.Item{
			InvoiceLineID: lineID,
			Quantity:      item.Quantity,
		})
	}
	return req, nil
}

// --- Response DTOs ---

// ReturnResponse represents a sales return in API responses.
type ReturnResponse struct {
	ID          string               `json:"id"`
	InvoiceID   string               `json:"invoiceId"`
	Date        time.Time            `json:"date"`
	Reason      string               `json:"reason,omitempty"`
	TotalAmount int64                `json:"totalAmount"`
	CreatedAt   time.Time            `json:"createdAt"`
	Lines       []ReturnLineResponse `json:"lines,omitempty"`
}

// ReturnLineResponse represents one returned position.
type ReturnLineResponse struct {
	LineID        string `json:"lineId"`
	InvoiceLineID string `json:"invoiceLineId"`
	ProductID     string `json:"productId"`
	Quantity      int64  `json:"quantity"`
	UnitPrice     int64  `json:"unitPrice"`
	Amount        int64  `json:"amount"`
}

// FromReturn creates a response from a domain entity.
func FromReturn(ret *returns.SalesReturn) ReturnResponse {
	resp := ReturnResponse{
		ID:          ret.ID.String(),
		InvoiceID:   ret.InvoiceID.String(),
		Date:        ret.Date,
		Reason:      ret.Reason,
		TotalAmount: int64(ret.TotalAmount),
		CreatedAt:   ret.CreatedAt,
	}
	for _, line := range ret.Lines {
		resp.Lines = append(resp.Lines, ReturnLineResponse{
			LineID:        line.LineID.String(),
			InvoiceLineID: line.InvoiceLineID.String(),
			ProductID:     line.ProductID.String(),
			Quantity:      line.Quantity,
			UnitPrice:     int64(line.UnitPrice),
			Amount:        int64(line.Amount),
		})
	}
	return resp
}

// FromReturns maps a slice of returns to responses.
func FromReturns(rets []returns.SalesReturn) []ReturnResponse {
	out := make([]ReturnResponse, 0, len(rets))
	for i := range rets {
		out = append(out, FromReturn(&rets[i]))
	}
	return out
}
