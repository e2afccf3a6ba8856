package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billfold/internal/core/entity"
	"billfold/internal/domain/documents/invoice"
	"billfold/internal/domain/payments"
	"billfold/internal/domain/returns"
	"billfold/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler handles HTTP requests for sales invoices.
type InvoiceHandler struct {
	*BaseHandler
	service *invoice.Service
	ledger  *payments.Service
	returns *returns.Service
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service, ledger *payments.Service, ret *returns.Service) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: base,
		service:     service,
		ledger:      ledger,
		returns:     ret,
	}
}

// Create handles POST /invoices.
func (h *InvoiceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity()
	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromInvoice(doc))
}

// Get handles GET /invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(doc))
}

// List handles GET /invoices.
func (h *InvoiceHandler) List(c *gin.Context) {
	var req dto.ListInvoicesRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(result, dto.FromInvoices(result.Items)))
}

// Delete handles DELETE /invoices/:id.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// RecordPayment handles POST /invoices/:id/payments.
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	receipt, err := h.ledger.Record(c.Request.Context(), req.ToRecordRequest(entity.DocumentKindInvoice, docID))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromReceipt(receipt))
}

// PaymentHistory handles GET /invoices/:id/payments.
func (h *InvoiceHandler) PaymentHistory(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	history, err := h.ledger.GetHistory(c.Request.Context(), invoice.Ref(docID))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromHistory(history))
}

// Cancel handles POST /invoices/:id/cancel.
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.ledger.Cancel(c.Request.Context(), invoice.Ref(docID)); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// ProcessReturn handles POST /invoices/:id/returns.
func (h *InvoiceHandler) ProcessReturn(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ProcessReturnRequest
	if !h.BindJSON(c, &req) {
		return
	}

	procReq, err := req.ToProcessRequest(docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	ret, err := h.returns.Process(c.Request.Context(), procReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromReturn(ret))
}

// ListReturns handles GET /invoices/:id/returns.
func (h *InvoiceHandler) ListReturns(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	rets, err := h.returns.ListByInvoice(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromReturns(rets))
}
