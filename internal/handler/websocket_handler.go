package handler

import (
	"net/http"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/spenny/spenny-backend/internal/service"
	"github.com/spenny/spenny-backend/internal/telegram"
	"github.com/spenny/spenny-backend/internal/websocket"
)

// WebSocketHandler upgrades Mini App sessions to the live event stream
type WebSocketHandler struct {
	hub            *websocket.Hub
	botToken       string
	users          *service.UserService
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, botToken string, users *service.UserService, allowedOrigins []string) *WebSocketHandler {
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		botToken:       botToken,
		users:          users,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Allow requests with no Origin header (e.g., non-browser clients)
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at GET /ws. Browsers cannot
// set headers on WebSocket handshakes, so initData travels as a query
// parameter instead.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	raw := c.QueryParam("initData")
	if raw == "" {
		log.Debug().Msg("WebSocket connection rejected: missing initData")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing initData")
	}

	webUser, err := telegram.ValidateInitData(raw, h.botToken, time.Now())
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket connection rejected: invalid initData")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid initData")
	}

	user, err := h.users.GetOrCreateFromTelegram(c.Request().Context(), service.TelegramProfile{
		TelegramID:   webUser.ID,
		Username:     webUser.Username,
		FirstName:    webUser.FirstName,
		LastName:     webUser.LastName,
		LanguageCode: webUser.LanguageCode,
		PhotoURL:     webUser.PhotoURL,
	})
	if err != nil {
		log.Error().Err(err).Int64("telegram_id", webUser.ID).Msg("WebSocket user resolution failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, user.ID, h.hub)
	h.hub.Register(client)

	log.Info().
		Str("user_id", user.ID.String()).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}
