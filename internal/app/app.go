package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/dont21900-lgtm/editing-store/internal/assets"
	assetsmem "github.com/dont21900-lgtm/editing-store/internal/assets/memory"
	assetss3 "github.com/dont21900-lgtm/editing-store/internal/assets/s3"
	"github.com/dont21900-lgtm/editing-store/internal/assistant"
	"github.com/dont21900-lgtm/editing-store/internal/auth"
	cartredis "github.com/dont21900-lgtm/editing-store/internal/cart/repository/redis"
	cartservice "github.com/dont21900-lgtm/editing-store/internal/cart/service"
	catalogpg "github.com/dont21900-lgtm/editing-store/internal/catalog/repository/postgres"
	catalogservice "github.com/dont21900-lgtm/editing-store/internal/catalog/service"
	mockgateway "github.com/dont21900-lgtm/editing-store/internal/checkout/gateway/mock"
	checkoutpg "github.com/dont21900-lgtm/editing-store/internal/checkout/repository/postgres"
	checkoutservice "github.com/dont21900-lgtm/editing-store/internal/checkout/service"
	"github.com/dont21900-lgtm/editing-store/internal/config"
	"github.com/dont21900-lgtm/editing-store/internal/event"
	handler "github.com/dont21900-lgtm/editing-store/internal/handler/http"
	orderpg "github.com/dont21900-lgtm/editing-store/internal/order/repository/postgres"
	orderservice "github.com/dont21900-lgtm/editing-store/internal/order/service"
	"github.com/dont21900-lgtm/editing-store/migrations"
	"github.com/dont21900-lgtm/editing-store/pkg/database"
	"github.com/dont21900-lgtm/editing-store/pkg/health"
	"github.com/dont21900-lgtm/editing-store/pkg/httpclient"
	pkgkafka "github.com/dont21900-lgtm/editing-store/pkg/kafka"
	"github.com/dont21900-lgtm/editing-store/pkg/tracing"
)

// App wires together all dependencies and runs the storefront server.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server

	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Tracing.
	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "editing-store",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.TracingEndpoint,
		SampleRate:     cfg.TracingSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// PostgreSQL.
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPass
	pgCfg.DBName = cfg.PostgresDB
	pgCfg.SSLMode = cfg.PostgresSSL

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	// Redis.
	redisCfg := database.DefaultRedisConfig()
	redisCfg.Host = cfg.RedisHost
	redisCfg.Port = cfg.RedisPort
	redisCfg.Password = cfg.RedisPass
	redisCfg.DB = cfg.RedisDB

	rdb, err := database.NewRedisClient(ctx, redisCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", redisCfg.Addr()),
		slog.Int("db", redisCfg.DB),
	)

	// Kafka producer.
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	eventProducer := event.NewProducer(producer)

	// Asset storage. Falls back to in-memory storage when no bucket is
	// configured so local development works without object storage.
	var storage assets.Storage
	if cfg.S3Bucket != "" {
		storage, err = assetss3.New(ctx, assetss3.Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Key:      cfg.S3Key,
			Secret:   cfg.S3Secret,
			Endpoint: cfg.S3Endpoint,
			BaseURL:  cfg.S3BaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("init asset storage: %w", err)
		}
	} else {
		logger.Warn("no asset bucket configured, using in-memory asset storage")
		storage = assetsmem.New()
	}

	// Catalog.
	productRepo := catalogpg.NewProductRepository(pool)
	catalogSvc := catalogservice.NewCatalogService(productRepo, logger)
	composer := catalogservice.NewComposer(productRepo, storage, eventProducer, logger)

	// Cart.
	cartRepo := cartredis.NewCartRepository(rdb, cfg.CartLifetime())
	cartSvc := cartservice.NewCartService(cartRepo, catalogSvc, eventProducer, logger)

	// Orders and checkout.
	orderRepo := orderpg.NewOrderRepository(pool)
	orderSvc := orderservice.NewOrderService(orderRepo)
	journalRepo := checkoutpg.NewJournalRepository(pool)
	checkoutSvc := checkoutservice.NewCheckoutService(
		cartSvc, orderRepo, journalRepo, mockgateway.NewGateway(), eventProducer, logger,
	)

	// Admin session gate.
	creds := auth.NewStaticCredentialStore(cfg.AdminEmail, cfg.AdminPasswordHash)
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry())
	faceFactor := auth.NewFaceMatchFactor(auth.NewRedisDescriptorStore(rdb))
	gate := auth.NewGate(creds, tokens, faceFactor, logger)

	// AI assistant behind a circuit breaker.
	assistantCfg := assistant.DefaultConfig()
	assistantCfg.APIKey = cfg.AssistantAPIKey
	if cfg.AssistantModel != "" {
		assistantCfg.Model = cfg.AssistantModel
	}
	if cfg.AssistantBaseURL != "" {
		assistantCfg.BaseURL = cfg.AssistantBaseURL
	}
	assistantClient := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("assistant"),
		logger,
	)
	assistantSvc := assistant.NewService(assistantClient, assistantCfg, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", producer.Ping)

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		Catalog:    handler.NewCatalogHandler(catalogSvc, logger),
		Cart:       handler.NewCartHandler(cartSvc, checkoutSvc, logger),
		Checkout:   handler.NewCheckoutHandler(checkoutSvc, logger),
		Order:      handler.NewOrderHandler(orderSvc, logger),
		Auth:       handler.NewAuthHandler(gate, logger),
		Assistant:  handler.NewAssistantHandler(assistantSvc, logger),
		Admin:      handler.NewAdminHandler(composer, checkoutSvc, logger),
		AdminGuard: handler.AdminRequired(gate),

		Health: healthHandler,
		Logger: logger,

		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		rdb:             rdb,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
