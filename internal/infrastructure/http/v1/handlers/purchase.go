package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billfold/internal/core/entity"
	"billfold/internal/domain/documents/purchase"
	"billfold/internal/domain/payments"
	"billfold/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler handles HTTP requests for purchase documents.
type PurchaseHandler struct {
	*BaseHandler
	service *purchase.Service
	ledger  *payments.Service
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(base *BaseHandler, service *purchase.Service, ledger *payments.Service) *PurchaseHandler {
	return &PurchaseHandler{
		BaseHandler: base,
		service:     service,
		ledger:      ledger,
	}
}

// Create handles POST /purchases.
func (h *PurchaseHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := req.ToEntity()
	if err := h.service.Create(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromPurchase(doc))
}

// Get handles GET /purchases/:id.
func (h *PurchaseHandler) Get(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPurchase(doc))
}

// List handles GET /purchases.
func (h *PurchaseHandler) List(c *gin.Context) {
	var req dto.ListPurchasesRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(result, dto.FromPurchases(result.Items)))
}

// Delete handles DELETE /purchases/:id.
func (h *PurchaseHandler) Delete(c *gin.Context) {
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

// RecordPayment handles POST /purchases/:id/payments.
func (h *PurchaseHandler) RecordPayment(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	receipt, err := h.ledger.Record(c.Request.Context(), req.ToRecordRequest(entity.DocumentKindPurchase, docID))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromReceipt(receipt))
}

// PaymentHistory handles GET /purchases/:id/payments.
func (h *PurchaseHandler) PaymentHistory(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	history, err := h.ledger.GetHistory(c.Request.Context(), purchase.Ref(docID))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromHistory(history))
}

// Cancel handles POST /purchases/:id/cancel.
func (h *PurchaseHandler) Cancel(c *gin.Context) {
	docID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.ledger.Cancel(c.Request.Context(), purchase.Ref(docID)); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
