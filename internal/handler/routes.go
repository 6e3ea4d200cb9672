package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/spenny/spenny-backend/internal/middleware"
)

// Handlers bundles everything RegisterRoutes needs
type Handlers struct {
	Webhook   *WebhookHandler
	Log       *LogHandler
	Analyze   *AnalyzeHandler
	Spending  *SpendingHandler
	Earning   *EarningHandler
	Reference *ReferenceHandler
	Profile   *ProfileHandler
	Stats     *StatsHandler
	WebSocket *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, h Handlers, auth echo.MiddlewareFunc, logLimiter *middleware.RateLimiter) {
	// Telegram webhook (authenticated by the secret path, not initData)
	e.GET("/webhook", h.Webhook.Health)
	e.POST("/webhook", h.Webhook.HandleUpdate)

	// iOS Shortcut log endpoint, keyed and rate limited by the user ID in the
	// path. GET carries the message in the query string.
	e.GET("/log/:id", h.Log.HandleLog, middleware.RateLimit(logLimiter, middleware.PathUserKey))
	e.POST("/log/:id", h.Log.HandleLog, middleware.RateLimit(logLimiter, middleware.PathUserKey))

	// Live event stream (initData travels as a query parameter)
	e.GET("/ws", h.WebSocket.HandleWS)

	// Mini App API (protected by initData auth)
	api := e.Group("/api/v1")
	api.Use(auth)

	api.GET("/me", h.Profile.Me)
	api.PUT("/me", h.Profile.UpdateSettings)

	api.POST("/spendings", h.Spending.Create)
	api.GET("/spendings", h.Spending.List)
	api.GET("/spendings/:id", h.Spending.Get)
	api.PUT("/spendings/:id", h.Spending.Update)
	api.PATCH("/spendings/:id/category", h.Spending.UpdateCategory)
	api.DELETE("/spendings/:id", h.Spending.Delete)

	api.POST("/earnings", h.Earning.Create)
	api.GET("/earnings", h.Earning.List)
	api.GET("/earnings/:id", h.Earning.Get)
	api.PUT("/earnings/:id", h.Earning.Update)
	api.PATCH("/earnings/:id/category", h.Earning.UpdateCategory)
	api.DELETE("/earnings/:id", h.Earning.Delete)

	api.GET("/categories", h.Reference.ListCategories)
	api.GET("/earnings-categories", h.Reference.ListEarningsCategories)
	api.GET("/currencies", h.Reference.ListCurrencies)

	api.GET("/stats", h.Stats.Summary)

	api.POST("/analyze", h.Analyze.Analyze)
}
