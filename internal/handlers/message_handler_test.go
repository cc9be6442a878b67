package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
	"github.com/Josef-Holecek/krouzky-hb-main/internal/services"
	chatws "github.com/Josef-Holecek/krouzky-hb-main/internal/websocket"
)

type stubMessageService struct {
	sendResult          *models.Message
	sendErr             error
	messagesResult      []models.Message
	conversationsResult []models.Conversation
	unreadResult        int
	markErr             error

	lastSender       *models.User
	lastInput        services.SendMessageInput
	lastViewerID     string
	lastCounterpart  string
	markReadRequests int
}

func (s *stubMessageService) SendMessage(_ context.Context, sender *models.User, input services.SendMessageInput) (*models.Message, error) {
	s.lastSender = sender
	s.lastInput = input
	return s.sendResult, s.sendErr
}

func (s *stubMessageService) ListMessages(_ context.Context, viewerID string) ([]models.Message, error) {
	s.lastViewerID = viewerID
	return s.messagesResult, nil
}

func (s *stubMessageService) ListConversations(_ context.Context, viewerID string) ([]models.Conversation, error) {
	s.lastViewerID = viewerID
	return s.conversationsResult, nil
}

func (s *stubMessageService) MarkConversationRead(_ context.Context, viewerID, counterpartID string) error {
	s.markReadRequests++
	s.lastViewerID = viewerID
	s.lastCounterpart = counterpartID
	return s.markErr
}

func (s *stubMessageService) UnreadCount(_ context.Context, viewerID string) (int, error) {
	s.lastViewerID = viewerID
	return s.unreadResult, nil
}

func newMessageTestApp(service *stubMessageService, actor fiber.Handler) (*fiber.App, *MessageHandler) {
	handler := NewMessageHandler(service, chatws.NewHub(), "secret")

	app := fiber.New()
	group := app.Group("/api/v1")
	if actor != nil {
		group.Use(actor)
	}
	group.Get("/messages", handler.ListMessages)
	group.Get("/conversations", handler.ListConversations)
	group.Get("/messages/unread-count", handler.UnreadCount)
	group.Post("/messages", handler.SendMessage)
	group.Post("/conversations/:userId/read", handler.MarkConversationRead)
	return app, handler
}

func TestListConversationsReturnsDerivedSummaries(t *testing.T) {
	service := &stubMessageService{
		conversationsResult: []models.Conversation{
			{
				UserID:          "u2",
				UserName:        "Petr",
				UnreadCount:     2,
				LastMessageTime: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
			},
		},
	}
	app, _ := newMessageTestApp(service, authAs("u1", "jana@example.com", "Jana"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/conversations", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.lastViewerID != "u1" {
		t.Fatalf("expected viewer u1, got %q", service.lastViewerID)
	}

	var body struct {
		Conversations []models.Conversation `json:"conversations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(body.Conversations) != 1 || body.Conversations[0].UnreadCount != 2 {
		t.Fatalf("unexpected response: %+v", body.Conversations)
	}
}

func TestListMessagesRequiresAuth(t *testing.T) {
	app, _ := newMessageTestApp(&stubMessageService{}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/messages", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestUnreadCountReturnsTotal(t *testing.T) {
	service := &stubMessageService{unreadResult: 5}
	app, _ := newMessageTestApp(service, authAs("u1", "jana@example.com", "Jana"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/messages/unread-count", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		UnreadCount int `json:"unread_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.UnreadCount != 5 {
		t.Fatalf("expected 5 unread, got %d", body.UnreadCount)
	}
}

func TestSendMessagePersistsAndReturnsCreated(t *testing.T) {
	service := &stubMessageService{
		sendResult: &models.Message{
			ID:         "m1",
			FromUserID: "u1",
			ToUserID:   "u2",
			Body:       "Dobrý den",
			Status:     models.MessageSent,
		},
	}
	app, _ := newMessageTestApp(service, authAs("u1", "jana@example.com", "Jana"))

	payload := `{"to_user_id":"u2","to_user_name":"Petr","trainer_id":"t1","subject":"Dotaz","message":"Dobrý den","temp_id":"temp-abc"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if service.lastSender == nil || service.lastSender.ID != "u1" {
		t.Fatalf("expected sender from token, got %+v", service.lastSender)
	}
	if service.lastInput.ToUserID != "u2" || service.lastInput.TrainerID != "t1" {
		t.Fatalf("unexpected input: %+v", service.lastInput)
	}

	var body struct {
		Message models.Message `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Message.ID != "m1" || body.Message.Status != models.MessageSent {
		t.Fatalf("unexpected message: %+v", body.Message)
	}
}

func TestSendMessageMissingRecipientFailsValidation(t *testing.T) {
	service := &stubMessageService{}
	app, _ := newMessageTestApp(service, authAs("u1", "jana@example.com", "Jana"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"message":"Dobrý den"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if service.lastSender != nil {
		t.Fatal("expected validation to fail before the service is called")
	}
}

func TestSendMessageInvalidInputMapsTo400(t *testing.T) {
	service := &stubMessageService{sendErr: services.ErrInvalidInput}
	app, _ := newMessageTestApp(service, authAs("u1", "jana@example.com", "Jana"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/messages", strings.NewReader(`{"to_user_id":"u2","message":"   "}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestMarkConversationReadForwardsCounterpart(t *testing.T) {
	service := &stubMessageService{}
	app, _ := newMessageTestApp(service, authAs("u1", "jana@example.com", "Jana"))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/conversations/u2/read", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if service.markReadRequests != 1 || service.lastViewerID != "u1" || service.lastCounterpart != "u2" {
		t.Fatalf("unexpected call: requests=%d viewer=%q counterpart=%q",
			service.markReadRequests, service.lastViewerID, service.lastCounterpart)
	}
}
