package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/lucsky/cuid"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
)

var (
	ErrEmptyMessage     = errors.New("message body is empty")
	ErrNotAuthenticated = errors.New("must be signed in to send messages")
)

// Sender persists a message remotely and returns the stored copy. It is the
// only I/O the session performs.
type Sender func(ctx context.Context, message models.Message) (*models.Message, error)

// ThreadContext is the conversation-seeding context captured from the
// message that started a thread.
type ThreadContext struct {
	TrainerID   string
	TrainerName string
	Subject     string
}

// Session models one user's compose state for a thread: the draft input and
// the optimistic outbox of messages whose remote write has not settled yet.
// An optimistic entry carries a transient temp- id and status "sending"; it
// is dropped once the store confirms the write (the live log supplies the
// persisted row), and left at "sending" if the write fails. There is no
// automatic retry.
type Session struct {
	mu         sync.Mutex
	viewerID   string
	viewerName string
	draft      string
	pending    []models.Message
	send       Sender
	now        func() time.Time
}

func NewSession(viewerID, viewerName string, send Sender) *Session {
	return &Session{
		viewerID:   viewerID,
		viewerName: viewerName,
		send:       send,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Session) SetDraft(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = text
}

func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Pending returns a copy of the optimistic outbox.
func (s *Session) Pending() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := make([]models.Message, len(s.pending))
	copy(pending, s.pending)
	return pending
}

// Overlay appends the outbox entries to a materialized copy of the log, so
// a rendered thread shows in-flight sends after the persisted messages.
func (s *Session) Overlay(log []models.Message) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := make([]models.Message, 0, len(log)+len(s.pending))
	merged = append(merged, log...)
	merged = append(merged, s.pending...)
	return merged
}

// Send validates the draft, appends an optimistic entry, clears the draft
// and issues the remote write with status "sent". On success the optimistic
// entry is removed; on failure it stays at "sending" and the draft is
// restored so the user can retry manually.
func (s *Session) Send(ctx context.Context, toUserID, toUserName string, thread ThreadContext) (*models.Message, error) {
	if s.viewerID == "" {
		return nil, ErrNotAuthenticated
	}

	s.mu.Lock()
	body := strings.TrimSpace(s.draft)
	if body == "" {
		s.mu.Unlock()
		return nil, ErrEmptyMessage
	}

	now := s.now()
	optimistic := models.Message{
		ID:           "temp-" + cuid.New(),
		FromUserID:   s.viewerID,
		FromUserName: s.viewerName,
		ToUserID:     toUserID,
		ToUserName:   toUserName,
		TrainerID:    thread.TrainerID,
		TrainerName:  thread.TrainerName,
		Subject:      thread.Subject,
		Body:         body,
		Read:         false,
		Status:       models.MessageSending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.pending = append(s.pending, optimistic)
	draft := s.draft
	s.draft = ""
	s.mu.Unlock()

	outgoing := optimistic
	outgoing.ID = ""
	outgoing.Status = models.MessageSent

	stored, err := s.send(ctx, outgoing)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// The optimistic entry keeps status "sending" as the visible
		// failure artifact.
		s.draft = draft
		return nil, err
	}

	for i := range s.pending {
		if s.pending[i].ID == optimistic.ID {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	return stored, nil
}
