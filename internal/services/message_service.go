package services

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/chat"
	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
	"github.com/Josef-Holecek/krouzky-hb-main/internal/repository"
)

type messageStore interface {
	Create(ctx context.Context, message *models.Message) error
	ListForUser(ctx context.Context, userID string) ([]models.Message, error)
}

type MessageService struct {
	db          *pgxpool.Pool
	messageRepo messageStore
	now         func() time.Time
}

type SendMessageInput struct {
	ToUserID    string
	ToUserName  string
	TrainerID   string
	TrainerName string
	Subject     string
	Body        string
}

func NewMessageService(db *pgxpool.Pool, messageRepo messageStore) *MessageService {
	return &MessageService{
		db:          db,
		messageRepo: messageRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SendMessage persists one message with status "sent". The body must be
// non-empty after trimming; validation failures never reach the store.
// Timestamps are this process's wall clock, which is also the ordering key
// readers sort by.
func (s *MessageService) SendMessage(ctx context.Context, sender *models.User, input SendMessageInput) (*models.Message, error) {
	if sender == nil || sender.ID == "" {
		return nil, ErrForbidden
	}
	if input.ToUserID == "" || input.ToUserID == sender.ID {
		return nil, ErrInvalidInput
	}

	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, ErrInvalidInput
	}

	now := s.now()
	message := &models.Message{
		FromUserID:   sender.ID,
		FromUserName: sender.Name,
		ToUserID:     input.ToUserID,
		ToUserName:   input.ToUserName,
		TrainerID:    input.TrainerID,
		TrainerName:  input.TrainerName,
		Subject:      input.Subject,
		Body:         body,
		Read:         false,
		Status:       models.MessageSent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// ListMessages returns the viewer's flat log, both sent and received.
func (s *MessageService) ListMessages(ctx context.Context, viewerID string) ([]models.Message, error) {
	if viewerID == "" {
		return nil, ErrForbidden
	}
	return s.messageRepo.ListForUser(ctx, viewerID)
}

// ListConversations recomputes the per-counterpart summaries from the flat
// log on every call; nothing derived is ever stored.
func (s *MessageService) ListConversations(ctx context.Context, viewerID string) ([]models.Conversation, error) {
	messages, err := s.ListMessages(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return chat.DeriveConversations(messages, viewerID), nil
}

func (s *MessageService) UnreadCount(ctx context.Context, viewerID string) (int, error) {
	messages, err := s.ListMessages(ctx, viewerID)
	if err != nil {
		return 0, err
	}
	return chat.UnreadCount(messages, viewerID), nil
}

// MarkConversationRead runs both sides of the thread-open effect in one
// transaction: incoming unread messages from the counterpart become read,
// and the viewer's own still-"sent" messages to the counterpart advance to
// delivered.
func (s *MessageService) MarkConversationRead(ctx context.Context, viewerID, counterpartID string) error {
	if viewerID == "" {
		return ErrForbidden
	}
	if counterpartID == "" {
		return ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txMessageRepo := repository.NewMessageRepository(tx)
	now := s.now()

	if err := txMessageRepo.MarkIncomingRead(ctx, viewerID, counterpartID, now); err != nil {
		return err
	}
	if err := txMessageRepo.MarkOutgoingDelivered(ctx, viewerID, counterpartID, now); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
