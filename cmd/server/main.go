package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/dealerdesk/dealerdesk/internal/adapter/http"
	"github.com/dealerdesk/dealerdesk/internal/adapter/http/handler"
	"github.com/dealerdesk/dealerdesk/internal/adapter/http/middleware"
	postgresRepo "github.com/dealerdesk/dealerdesk/internal/adapter/repository/postgres"
	redisRepo "github.com/dealerdesk/dealerdesk/internal/adapter/repository/redis"
	"github.com/dealerdesk/dealerdesk/internal/domain"
	"github.com/dealerdesk/dealerdesk/internal/gateway/gstprovider"
	"github.com/dealerdesk/dealerdesk/internal/infrastructure/auth"
	"github.com/dealerdesk/dealerdesk/internal/infrastructure/config"
	"github.com/dealerdesk/dealerdesk/internal/infrastructure/logger"
	"github.com/dealerdesk/dealerdesk/internal/infrastructure/metrics"
	"github.com/dealerdesk/dealerdesk/internal/infrastructure/postgres"
	"github.com/dealerdesk/dealerdesk/internal/infrastructure/redis"
	"github.com/dealerdesk/dealerdesk/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	log.Logger = appLogger

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		URL:            cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	retrier := postgresRepo.NewRetrier(appLogger)
	invoiceRepo := postgresRepo.NewInvoiceRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	sessionRepo := postgresRepo.NewSessionRepository(pool)
	pointRepo := postgresRepo.NewPointRepository(pool, retrier, appMetrics)
	userRepo := postgresRepo.NewUserRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool, appMetrics)
	idGen := postgresRepo.NewULIDGenerator()

	cache := redisRepo.NewCache(redisClient)
	callLog := redisRepo.NewCallLog(redisClient)

	// External GSTIN provider. Left unconfigured, lookups answer 503.
	provider := gstprovider.NewClient(gstprovider.Config{
		BaseURL: cfg.GSTProviderBaseURL,
		APIKey:  cfg.GSTProviderAPIKey,
		Timeout: cfg.GSTProviderTimeout,
	}, appLogger)

	// Initialize use cases
	invoiceUC := usecase.NewInvoiceUseCase(txManager, invoiceRepo, ledgerRepo, idGen, cfg.SellerStateCode)
	ledgerUC := usecase.NewLedgerUseCase(
		ledgerRepo,
		invoiceRepo,
		domain.NewAgingSchedule(cfg.ReceivableAgingDays),
		domain.NewAgingSchedule(cfg.PayableAgingDays),
		cfg.OverdueCutoffDays,
	)
	sessionUC := usecase.NewSessionUseCase(sessionRepo, pointRepo, idGen, cfg.MaxPointAccuracyM)
	userUC := usecase.NewUserUseCase(userRepo, idGen, cfg.AllowedEmailDomains)
	gstinUC := usecase.NewGSTINUseCase(provider, callLog, auditRepo, cache, idGen, usecase.GSTINVerifierConfig{
		RateLimit:  cfg.LookupRateLimit,
		RateWindow: cfg.LookupRateWindow,
		CacheTTL:   cfg.GSTLookupCacheTTL,
	}, appLogger)
	retentionUC := usecase.NewRetentionUseCase(sessionRepo, pointRepo, usecase.RetentionConfig{
		Window:     cfg.RetentionWindow,
		Stride:     cfg.ThinningStride,
		BatchSize:  cfg.CleanupBatchSize,
		SessionCap: cfg.CleanupSessionCap,
	}, appLogger)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		GSTINHandler:   handler.NewGSTINHandler(gstinUC, appMetrics),
		InvoiceHandler: handler.NewInvoiceHandler(invoiceUC, appMetrics),
		LedgerHandler:  handler.NewLedgerHandler(ledgerUC),
		SessionHandler: handler.NewSessionHandler(sessionUC),
		AdminHandler:   handler.NewAdminHandler(userUC, retentionUC, appMetrics),
		HealthHandler:  handler.NewHealthHandler(pool, redisClient),

		JWTManager:        jwtManager,
		LoggingMiddleware: middleware.NewLoggingMiddleware(appLogger),
		MetricsMiddleware: middleware.NewMetricsMiddleware(appMetrics),
		RateLimiter:       middleware.NewRateLimiter(cfg.HTTPRateLimit, cfg.HTTPRateBurst),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
