package models

import "time"

type MessageStatus string

const (
	MessageSending   MessageStatus = "sending"
	MessageSent      MessageStatus = "sent"
	MessageDelivered MessageStatus = "delivered"
	MessageRead      MessageStatus = "read"
)

// Message is one entry in the flat per-user message log. Body and
// participants are immutable after send; only Read, Status and UpdatedAt
// advance, and Status never regresses.
type Message struct {
	ID           string        `json:"id"`
	FromUserID   string        `json:"from_user_id"`
	FromUserName string        `json:"from_user_name"`
	ToUserID     string        `json:"to_user_id"`
	ToUserName   string        `json:"to_user_name"`
	TrainerID    string        `json:"trainer_id"`
	TrainerName  string        `json:"trainer_name"`
	Subject      string        `json:"subject"`
	Body         string        `json:"message"`
	Read         bool          `json:"read"`
	Status       MessageStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Conversation is derived from the log relative to a viewing user; it is
// never persisted.
type Conversation struct {
	UserID          string    `json:"user_id"`
	UserName        string    `json:"user_name"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int       `json:"unread_count"`
	Messages        []Message `json:"messages"`
}
