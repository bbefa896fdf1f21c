package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"tillpoint/internal/domain/catalog"
	"tillpoint/internal/domain/inventory"
)

// CatalogHandler serves product views and the stock movement ledger.
type CatalogHandler struct {
	BaseHandler
	catalog   *catalog.Service
	inventory *inventory.Service
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(catalogSvc *catalog.Service, inventorySvc *inventory.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalogSvc, inventory: inventorySvc}
}

// List handles GET /products.
func (h *CatalogHandler) List(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, products)
}

// Get handles GET /products/:id.
func (h *CatalogHandler) Get(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, product)
}

// Movements handles GET /products/:id/movements.
func (h *CatalogHandler) Movements(c *gin.Context) {
	productID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	movements, err := h.inventory.MovementHistory(c.Request.Context(), productID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, movements)
}
