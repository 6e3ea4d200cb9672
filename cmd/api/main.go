package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/spenny/spenny-backend/internal/config"
	"github.com/spenny/spenny-backend/internal/handler"
	"github.com/spenny/spenny-backend/internal/llm"
	"github.com/spenny/spenny-backend/internal/middleware"
	"github.com/spenny/spenny-backend/internal/repository/postgres"
	"github.com/spenny/spenny-backend/internal/service"
	"github.com/spenny/spenny-backend/internal/telegram"
	"github.com/spenny/spenny-backend/internal/websocket"
)

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

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	spendingRepo := postgres.NewSpendingRepository(pool)
	earningRepo := postgres.NewEarningRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	earningsCategoryRepo := postgres.NewEarningsCategoryRepository(pool)
	currencyRepo := postgres.NewCurrencyRepository(pool)

	// Telegram delivery
	sender, err := telegram.NewBotSender(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Telegram bot")
	}

	// LLM oracle. An empty API key disables the AI-backed endpoints.
	oracle := llm.NewClient(llm.Config{
		APIKey:       cfg.OpenAI.APIKey,
		BaseURL:      cfg.OpenAI.BaseURL,
		ExtractModel: cfg.OpenAI.ExtractModel,
		AnalyzeModel: cfg.OpenAI.AnalyzeModel,
	})
	if !oracle.Enabled() {
		log.Warn().Msg("OPENAI_API_KEY not set; AI endpoints are disabled")
	}

	// Live event hub for Mini App sessions
	hub := websocket.NewHub()

	// Initialize services
	userService := service.NewUserService(userRepo, currencyRepo)
	spendingService := service.NewSpendingService(spendingRepo, categoryRepo, currencyRepo,
		service.NewUndefinedCategoryMatcher(categoryRepo), hub)
	earningService := service.NewEarningService(earningRepo, earningsCategoryRepo, currencyRepo,
		service.NewUndefinedEarningsCategoryMatcher(earningsCategoryRepo), hub)
	statsService := service.NewStatsService(spendingRepo, earningRepo, categoryRepo)
	analysisService := service.NewAnalysisService(userRepo, currencyRepo, oracle, sender)

	// Rate limiter for the shortcut log endpoint
	logLimiter := middleware.NewRateLimiter()
	defer logLimiter.Stop()

	// Initialize handlers
	handlers := handler.Handlers{
		Webhook:   handler.NewWebhookHandler(userService, spendingService, earningService, sender),
		Log:       handler.NewLogHandler(userService, spendingService, oracle),
		Analyze:   handler.NewAnalyzeHandler(analysisService, oracle),
		Spending:  handler.NewSpendingHandler(spendingService),
		Earning:   handler.NewEarningHandler(earningService),
		Reference: handler.NewReferenceHandler(categoryRepo, earningsCategoryRepo, currencyRepo),
		Profile:   handler.NewProfileHandler(userService),
		Stats:     handler.NewStatsHandler(statsService),
		WebSocket: handler.NewWebSocketHandler(hub, cfg.TelegramBotToken, userService, cfg.CORSOrigins),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Telegram-Init-Data"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	auth := middleware.InitDataAuth(cfg.TelegramBotToken, userService)
	handler.RegisterRoutes(e, handlers, auth, logLimiter)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
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
