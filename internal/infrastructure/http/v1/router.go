// Package v1 wires the HTTP surface of the settlement engine.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tillpoint/internal/domain/catalog"
	"tillpoint/internal/domain/inventory"
	"tillpoint/internal/domain/sale"
	"tillpoint/internal/domain/settlement"
	"tillpoint/internal/infrastructure/http/v1/handlers"
	"tillpoint/internal/infrastructure/http/v1/middleware"
	"tillpoint/pkg/logger"
)

// RouterConfig carries the dependencies of the HTTP surface.
type RouterConfig struct {
	Logger         *logger.Logger
	TokenValidator middleware.TokenValidator
	Sales          *sale.Service
	Settlement     *settlement.Service
	Catalog        *catalog.Service
	Inventory      *inventory.Service
	DB             handlers.Pinger
	Development    bool
}

// NewRouter builds the gin engine with all routes and middleware.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.Trace(),
		middleware.Logger(cfg.Logger),
		middleware.Recovery(),
		middleware.ErrorHandler(),
	)

	healthHandler := handlers.NewHealthHandler(cfg.DB)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	saleHandler := handlers.NewSaleHandler(cfg.Sales, cfg.Settlement)
	catalogHandler := handlers.NewCatalogHandler(cfg.Catalog, cfg.Inventory)
	webhookHandler := handlers.NewWebhookHandler(cfg.Settlement)

	api := router.Group("/api/v1")

	// The gateway authenticates via notification signature, not a session.
	api.POST("/webhooks/payment", webhookHandler.Handle)

	authed := api.Group("")
	authed.Use(middleware.Auth(cfg.TokenValidator))
	{
		authed.POST("/sales", saleHandler.Create)
		authed.GET("/sales/:id", saleHandler.Get)
		authed.POST("/sales/:id/pay/cash", saleHandler.PayCash)
		authed.POST("/sales/:id/pay/proxy", saleHandler.CreateProxyPayment)

		authed.GET("/products", catalogHandler.List)
		authed.GET("/products/:id", catalogHandler.Get)
		authed.GET("/products/:id/movements", catalogHandler.Movements)
	}

	return router
}
