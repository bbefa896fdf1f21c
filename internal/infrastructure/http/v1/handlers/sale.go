package handlers

import (
	"github.com/gin-gonic/gin"

	"tillpoint/internal/core/apperror"
	"tillpoint/internal/core/id"
	"tillpoint/internal/core/types"
	"tillpoint/internal/domain/sale"
	"tillpoint/internal/domain/settlement"
	"tillpoint/internal/infrastructure/http/v1/dto"
)

// SaleHandler serves sale creation, reads and both settlement entry points.
type SaleHandler struct {
	BaseHandler
	sales      *sale.Service
	settlement *settlement.Service
}

// NewSaleHandler creates a sale handler.
func NewSaleHandler(sales *sale.Service, settlementSvc *settlement.Service) *SaleHandler {
	return &SaleHandler{sales: sales, settlement: settlementSvc}
}

// Create handles POST /sales.
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lines := make([]sale.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := id.Parse(item.ProductID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid product id").WithDetail("productId", item.ProductID))
			return
		}
		lines = append(lines, sale.CartLine{ProductID: productID, Quantity: item.Quantity})
	}

	created, err := h.sales.Create(c.Request.Context(), sale.CreateInput{
		CashierID:    h.CashierID(c),
		CustomerName: req.CustomerName,
		Lines:        lines,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, created)
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
	saleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	found, err := h.sales.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, found)
}

// PayCash handles POST /sales/:id/pay/cash.
func (h *SaleHandler) PayCash(c *gin.Context) {
	saleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.PayCashRequest
	if !h.BindJSON(c, &req) {
		return
	}

	paid, err := types.ParseAmount(req.PaidAmount)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid paid amount").WithDetail("error", err.Error()))
		return
	}

	result, err := h.settlement.PayCash(c.Request.Context(), saleID, h.CashierID(c), paid)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// CreateProxyPayment handles POST /sales/:id/pay/proxy.
func (h *SaleHandler) CreateProxyPayment(c *gin.Context) {
	saleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.settlement.InitiateGateway(c.Request.Context(), saleID, h.CashierID(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}
