// Package main is the entry point for the tillpoint API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tillpoint/internal/auth"
	"tillpoint/internal/config"
	"tillpoint/internal/domain/catalog"
	"tillpoint/internal/domain/inventory"
	"tillpoint/internal/domain/sale"
	"tillpoint/internal/domain/settlement"
	"tillpoint/internal/gateway"
	"tillpoint/internal/infrastructure/cache"
	v1 "tillpoint/internal/infrastructure/http/v1"
	"tillpoint/internal/infrastructure/storage/postgres"
	"tillpoint/internal/infrastructure/storage/postgres/repo"
	"tillpoint/pkg/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting tillpoint server")

	// --- Storage ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	catalogRepo := repo.NewCatalogRepo(txManager)
	inventoryRepo := repo.NewInventoryRepo(txManager)
	saleRepo := repo.NewSaleRepo(txManager)
	paymentRepo := repo.NewPaymentRepo(txManager)

	// --- Catalog cache ---
	var productCache catalog.ProductCache
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisProductCache(cfg.RedisAddr, "", 0)
		if err := redisCache.Ping(ctx); err != nil {
			log.Fatalw("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		}
		defer redisCache.Close()
		productCache = redisCache
		log.Infow("using redis product cache", "addr", cfg.RedisAddr)
	} else {
		productCache = cache.NewMemoryProductCache()
		log.Info("using in-memory product cache")
	}

	// --- Domain services ---
	catalogService := catalog.NewService(catalogRepo, productCache, cfg.CacheTTL)
	inventoryService := inventory.NewService(inventoryRepo)
	saleService := sale.NewService(saleRepo, catalogRepo, txManager)

	gatewayClient := gateway.NewHTTPClient(gateway.Config{
		BaseURL:   cfg.GatewayBaseURL,
		ServerKey: cfg.GatewayServerKey,
		Timeout:   cfg.GatewayTimeout,
	})
	defer gatewayClient.Close()

	settlementService := settlement.NewService(
		saleRepo,
		paymentRepo,
		catalogRepo,
		inventoryService,
		gatewayClient,
		txManager,
		cfg.GatewayServerKey,
		catalogService,
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:         log,
		TokenValidator: auth.NewJWTValidator(cfg.JWTSecret),
		Sales:          saleService,
		Settlement:     settlementService,
		Catalog:        catalogService,
		Inventory:      inventoryService,
		DB:             pool,
		Development:    cfg.IsDevelopment(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("forced shutdown", "error", err)
	}
	log.Info("server stopped")
}
