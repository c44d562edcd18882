package handler

import (
	"time"

	"notescraft-be/internal/pkg/logger"
	"notescraft-be/internal/pkg/serverutils"
	"notescraft-be/internal/store"
	internalWS "notescraft-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// WorkspaceHandler upgrades authenticated requests to the editing socket.
type WorkspaceHandler struct {
	hub          *internalWS.Hub
	docStore     store.DocumentStore
	logger       logger.ILogger
	saveDebounce time.Duration
}

func NewWorkspaceHandler(hub *internalWS.Hub, docStore store.DocumentStore, log logger.ILogger, saveDebounce time.Duration) *WorkspaceHandler {
	return &WorkspaceHandler{
		hub:          hub,
		docStore:     docStore,
		logger:       log,
		saveDebounce: saveDebounce,
	}
}

func (h *WorkspaceHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}

// ServeWs authenticates the handshake and hands the connection to the
// websocket client loop.
func (h *WorkspaceHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on a websocket handshake, so the token
	// usually arrives as a query parameter.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return serverutils.JwtSecret(), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("WorkspaceHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user_id in token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			internalWS.ServeWs(h.hub, conn, userID, internalWS.Deps{
				Store:        h.docStore,
				Log:          h.logger,
				SaveDebounce: h.saveDebounce,
			})
		})(c)
	}

	return fiber.ErrUpgradeRequired
}
