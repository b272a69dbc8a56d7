package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/amqp"
	"github.com/dafibh/fortuna/budget-backend/internal/config"
	"github.com/dafibh/fortuna/budget-backend/internal/handler"
	"github.com/dafibh/fortuna/budget-backend/internal/middleware"
	"github.com/dafibh/fortuna/budget-backend/internal/repository/postgres"
	"github.com/dafibh/fortuna/budget-backend/internal/repository/storage"
	"github.com/dafibh/fortuna/budget-backend/internal/service"
	"github.com/dafibh/fortuna/budget-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// @title Budget API
// @version 1.0
// @description Personal budgeting with billing periods anchored on a configurable month start day.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Schema first, then the pool
	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()
	log.Info().Msg("Connected to database")

	// Initialize repositories
	settingsRepo := postgres.NewSettingsRepository(pool, cfg.DefaultMonthStartDay)
	expenseRepo := postgres.NewExpenseRepository(pool)
	consumptionRepo := postgres.NewConsumptionRepository(pool)
	projectionRepo := postgres.NewProjectionRepository(pool)
	snapshotRepo := postgres.NewSnapshotRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	// Initialize services
	aggregator := service.NewAggregationService(expenseRepo, consumptionRepo)
	materializer := service.NewMaterializeService(projectionRepo)
	recomputeService := service.NewRecomputeService(settingsRepo, aggregator, materializer, cfg.DefaultMonthStartDay, log.Logger)
	if cfg.RecomputeStrict {
		recomputeService.SetPeriodLocker(postgres.NewPeriodLocker(pool))
	}
	settingsService := service.NewSettingsService(settingsRepo, recomputeService)
	expenseService := service.NewExpenseService(expenseRepo, aggregator, recomputeService)
	consumptionService := service.NewConsumptionService(consumptionRepo, expenseRepo, recomputeService)
	dashboardService := service.NewDashboardService(projectionRepo, aggregator, recomputeService)
	snapshotService := service.NewSnapshotService(snapshotRepo, consumptionRepo, aggregator, recomputeService)

	authService, err := service.NewAuthService(userRepo, cfg.SessionSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth service")
	}

	// Real-time fan-out: websocket clients, plus the broker when configured
	hub := websocket.NewHub()
	publishers := websocket.MultiPublisher{hub}
	if cfg.AMQP.Enabled() {
		brokerPublisher, err := amqp.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.RoutingKey, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to AMQP broker")
		}
		defer brokerPublisher.Close()
		publishers = append(publishers, brokerPublisher)
		log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("AMQP publishing enabled")
	}
	recomputeService.SetEventPublisher(publishers)
	settingsService.SetEventPublisher(publishers)
	expenseService.SetEventPublisher(publishers)
	consumptionService.SetEventPublisher(publishers)
	snapshotService.SetEventPublisher(publishers)

	// Snapshot report archive (optional)
	if cfg.S3.Enabled() {
		reportStore, err := storage.NewS3ReportStore(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize report store")
		}
		snapshotService.SetReportStore(reportStore)
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Snapshot archiving enabled")
	}

	// Keeps the current period materialized across rollovers
	periodWorker := service.NewPeriodWorker(recomputeService, log.Logger, service.DefaultPeriodWorkerConfig())

	loginLimiter := middleware.NewRateLimiterWithConfig(cfg.LoginRateLimit, middleware.DefaultBurstSize)
	defer loginLimiter.Stop()

	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.IsProduction())
	settingsHandler := handler.NewSettingsHandler(settingsService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	consumptionHandler := handler.NewConsumptionHandler(consumptionService)
	periodHandler := handler.NewPeriodHandler(recomputeService, dashboardService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	snapshotHandler := handler.NewSnapshotHandler(snapshotService)
	wsHandler := handler.NewWebSocketHandler(hub, authService, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	e.Use(zerologMiddleware())
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		if err := pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	handler.RegisterRoutes(e, authMiddleware, loginLimiter, authHandler, settingsHandler, expenseHandler,
		consumptionHandler, periodHandler, dashboardHandler, snapshotHandler, wsHandler)

	periodWorker.Start(ctx)
	defer periodWorker.Stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
