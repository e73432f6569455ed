package handler

import (
	"ai-flashcard-be/internal/pkg/logger"
	"ai-flashcard-be/internal/pkg/serverutils"
	internalWS "ai-flashcard-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ProgressHandler upgrades authenticated clients to the progress socket.
type ProgressHandler struct {
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewProgressHandler(hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *ProgressHandler {
	return &ProgressHandler{hub: hub, jwtSecret: jwtSecret, logger: log}
}

func (h *ProgressHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/progress", h.ServeWs)
}

// ServeWs takes the token from the "token" query parameter (browsers cannot
// set headers on websocket requests) or from the Authorization header.
func (h *ProgressHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		tokenStr = serverutils.BearerToken(c.Get("Authorization"))
	}

	userID, err := serverutils.ParseUserID(h.jwtSecret, tokenStr)
	if err != nil {
		h.logger.Warn("ProgressHandler", "Rejected websocket handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, err.Error()))
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.serve(conn, userID)
	})(c)
}

func (h *ProgressHandler) serve(conn *websocket.Conn, userID uuid.UUID) {
	h.logger.Info("ProgressHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID.String()})
	internalWS.ServeWs(h.hub, conn, userID)
	h.logger.Info("ProgressHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID.String()})
}
