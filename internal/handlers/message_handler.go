package handlers

import (
	"context"
	"errors"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
	"github.com/Josef-Holecek/krouzky-hb-main/internal/services"
	chatws "github.com/Josef-Holecek/krouzky-hb-main/internal/websocket"
	"github.com/Josef-Holecek/krouzky-hb-main/pkg/utils"
)

type messageApplicationService interface {
	SendMessage(ctx context.Context, sender *models.User, input services.SendMessageInput) (*models.Message, error)
	ListMessages(ctx context.Context, viewerID string) ([]models.Message, error)
	ListConversations(ctx context.Context, viewerID string) ([]models.Conversation, error)
	MarkConversationRead(ctx context.Context, viewerID, counterpartID string) error
	UnreadCount(ctx context.Context, viewerID string) (int, error)
}

type MessageHandler struct {
	service   messageApplicationService
	hub       *chatws.Hub
	jwtSecret string
}

func NewMessageHandler(service messageApplicationService, hub *chatws.Hub, jwtSecret string) *MessageHandler {
	return &MessageHandler{
		service:   service,
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

type sendMessageRequest struct {
	ToUserID    string `json:"to_user_id" validate:"required"`
	ToUserName  string `json:"to_user_name"`
	TrainerID   string `json:"trainer_id"`
	TrainerName string `json:"trainer_name"`
	Subject     string `json:"subject"`
	Body        string `json:"message" validate:"required"`
	TempID      string `json:"temp_id"`
}

// ListMessages returns the viewer's flat log; clients derive conversations
// from it and must not assume any server-side ordering beyond timestamps.
func (h *MessageHandler) ListMessages(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	messages, err := h.service.ListMessages(c.Context(), actor.ID)
	if err != nil {
		return mapServiceError(c, err, "Failed to fetch messages")
	}
	return c.JSON(fiber.Map{"messages": messages})
}

func (h *MessageHandler) ListConversations(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	conversations, err := h.service.ListConversations(c.Context(), actor.ID)
	if err != nil {
		return mapServiceError(c, err, "Failed to fetch conversations")
	}
	return c.JSON(fiber.Map{"conversations": conversations})
}

func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	count, err := h.service.UnreadCount(c.Context(), actor.ID)
	if err != nil {
		return mapServiceError(c, err, "Failed to fetch unread count")
	}
	return c.JSON(fiber.Map{"unread_count": count})
}

func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed: " + err.Error()})
	}

	message, err := h.service.SendMessage(c.Context(), actor, services.SendMessageInput{
		ToUserID:    req.ToUserID,
		ToUserName:  req.ToUserName,
		TrainerID:   req.TrainerID,
		TrainerName: req.TrainerName,
		Subject:     req.Subject,
		Body:        req.Body,
	})
	if err != nil {
		return mapServiceError(c, err, "Failed to send message")
	}

	h.hub.BroadcastMessage(message, req.TempID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": message})
}

// MarkConversationRead applies the thread-open effect against the
// counterpart in the path.
func (h *MessageHandler) MarkConversationRead(c *fiber.Ctx) error {
	actor, err := actorFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := h.service.MarkConversationRead(c.Context(), actor.ID, c.Params("userId")); err != nil {
		return mapServiceError(c, err, "Failed to mark conversation as read")
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *MessageHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := h.parseWSClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("email", claims.Email)
	c.Locals("name", claims.Name)
	return c.Next()
}

func (h *MessageHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)
	email, _ := conn.Locals("email").(string)
	name, _ := conn.Locals("name").(string)
	client := chatws.NewClient(h.hub, conn, models.User{ID: userID, Email: email, Name: name})

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump(h.service)
}

func (h *MessageHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return utils.ValidateToken(tokenString, h.jwtSecret)
}
