package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	integrationapp "github.com/storefront/backend/internal/application/integration"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/integration"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/ecommerce"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	paymentinfra "github.com/storefront/backend/internal/infrastructure/payment"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Storefront Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Carts live in Redis; fall back to process memory when Redis is not
	// configured, for local development only.
	var cartRepo trade.CartRepository
	redisCartStore, err := cache.NewRedisCartStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, using in-memory cart store", zap.Error(err))
		cartRepo = cache.NewInMemoryCartStore()
	} else {
		cartRepo = redisCartStore
		log.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr()))
	}

	// Payment gateways
	pagarme, err := paymentinfra.NewPagarmeAdapter(&paymentinfra.PagarmeConfig{
		APIKey:     cfg.Payment.Pagarme.APIKey,
		APIBaseURL: cfg.Payment.Pagarme.APIBaseURL,
	})
	if err != nil {
		log.Fatal("Failed to configure Pagarme gateway", zap.Error(err))
	}
	stripe, err := paymentinfra.NewStripeAdapter(&paymentinfra.StripeConfig{
		APIKey:     cfg.Payment.Stripe.APIKey,
		APIBaseURL: cfg.Payment.Stripe.APIBaseURL,
	})
	if err != nil {
		log.Fatal("Failed to configure Stripe gateway", zap.Error(err))
	}
	gateways := payment.NewRegistry(map[payment.Method]payment.Gateway{
		payment.MethodCreditCard: pagarme,
		payment.MethodBoleto:     pagarme,
		payment.MethodStripe:     stripe,
	})

	// Marketplace connectors
	connectors, err := buildConnectors(cfg)
	if err != nil {
		log.Fatal("Failed to configure marketplace connectors", zap.Error(err))
	}

	// Event bus wiring: paid orders deduct stock, cancellations restore
	// it, and every event lands in the audit log
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(catalogapp.NewStockHandler(productRepo, log))
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	// Application services
	productService := catalogapp.NewProductService(productRepo)
	cartService := tradeapp.NewCartService(cartRepo, productRepo)
	orderService := tradeapp.NewOrderService(cartRepo, orderRepo, gateways, log)
	orderService.SetEventPublisher(eventBus)
	orderService.SetGatewayTimeout(cfg.Payment.GatewayTimeout)
	syncService := integrationapp.NewSyncService(productRepo, connectors, log)
	syncService.SetWorkers(cfg.Sync.Workers)
	syncService.SetPublishTimeout(cfg.Sync.PublishTimeout)

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
	}))

	// Liveness probe outside the versioned API, checking the database
	engine.GET("/health", healthHandler(db))

	// Routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuth(jwtService))
	r.RegisterOpen(handler.NewSystemHandler())
	r.Register(handler.NewProductHandler(productService)).
		Register(handler.NewCartHandler(cartService)).
		Register(handler.NewOrderHandler(orderService)).
		Register(handler.NewSyncHandler(syncService))
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Event bus shutdown incomplete", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness and database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}

// buildConnectors wires every configured marketplace connector.
// Connectors without credentials are skipped rather than failing
// startup; sync requests naming them report unsupported_marketplace.
func buildConnectors(cfg *config.Config) (*integration.Registry, error) {
	var connectors []integration.Connector

	if cfg.Marketplaces.MercadoLivre.AccessToken != "" {
		ml, err := ecommerce.NewMercadoLivreAdapter(&ecommerce.MercadoLivreConfig{
			AccessToken: cfg.Marketplaces.MercadoLivre.AccessToken,
			SellerID:    cfg.Marketplaces.MercadoLivre.SellerID,
			APIBaseURL:  cfg.Marketplaces.MercadoLivre.APIBaseURL,
		})
		if err != nil {
			return nil, err
		}
		connectors = append(connectors, ml)
	}
	if cfg.Marketplaces.Amazon.AccessToken != "" {
		amazon, err := ecommerce.NewAmazonAdapter(&ecommerce.AmazonConfig{
			AccessToken: cfg.Marketplaces.Amazon.AccessToken,
			SellerID:    cfg.Marketplaces.Amazon.SellerID,
			APIBaseURL:  cfg.Marketplaces.Amazon.APIBaseURL,
		})
		if err != nil {
			return nil, err
		}
		connectors = append(connectors, amazon)
	}
	if cfg.Marketplaces.Shopee.AccessToken != "" {
		shopee, err := ecommerce.NewShopeeAdapter(&ecommerce.ShopeeConfig{
			PartnerID:   cfg.Marketplaces.Shopee.PartnerID,
			PartnerKey:  cfg.Marketplaces.Shopee.PartnerKey,
			ShopID:      cfg.Marketplaces.Shopee.ShopID,
			AccessToken: cfg.Marketplaces.Shopee.AccessToken,
			APIBaseURL:  cfg.Marketplaces.Shopee.APIBaseURL,
		})
		if err != nil {
			return nil, err
		}
		connectors = append(connectors, shopee)
	}
	if cfg.Marketplaces.Magalu.AccessToken != "" {
		magalu, err := ecommerce.NewMagaluAdapter(&ecommerce.MagaluConfig{
			AccessToken: cfg.Marketplaces.Magalu.AccessToken,
			APIBaseURL:  cfg.Marketplaces.Magalu.APIBaseURL,
		})
		if err != nil {
			return nil, err
		}
		connectors = append(connectors, magalu)
	}

	return integration.NewRegistry(connectors...), nil
}
