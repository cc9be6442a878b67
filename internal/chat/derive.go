// Package chat holds the conversation model: a pure reducer that groups the
// flat message log into per-counterpart conversations, and the optimistic
// outbox a composing client keeps while a send is in flight. Both are
// independent of the store and the transport.
package chat

import (
	"sort"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
)

// DeriveConversations groups a flat message log into per-counterpart
// conversations for the given viewer. It is a pure function: the same log
// and viewer always produce the same summaries, regardless of the order the
// log was delivered in.
//
// The last message of a conversation is the one with the latest CreatedAt,
// found by linear scan; the log is not assumed to be ordered. The unread
// count covers only messages the viewer received that are still unread.
func DeriveConversations(messages []models.Message, viewerID string) []models.Conversation {
	if viewerID == "" {
		return []models.Conversation{}
	}

	index := make(map[string]int)
	conversations := make([]models.Conversation, 0)

	for _, message := range messages {
		isReceived := message.ToUserID == viewerID
		otherUserID := message.ToUserID
		otherUserName := message.ToUserName
		if isReceived {
			otherUserID = message.FromUserID
			otherUserName = message.FromUserName
		}

		i, ok := index[otherUserID]
		if !ok {
			i = len(conversations)
			index[otherUserID] = i
			conversations = append(conversations, models.Conversation{
				UserID:          otherUserID,
				UserName:        otherUserName,
				LastMessage:     message.Body,
				LastMessageTime: message.CreatedAt,
				Messages:        make([]models.Message, 0, 1),
			})
		}

		conversation := &conversations[i]
		conversation.Messages = append(conversation.Messages, message)

		if message.CreatedAt.After(conversation.LastMessageTime) {
			conversation.LastMessage = message.Body
			conversation.LastMessageTime = message.CreatedAt
		}

		if isReceived && !message.Read {
			conversation.UnreadCount++
		}
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastMessageTime.After(conversations[j].LastMessageTime)
	})

	return conversations
}

// UnreadCount is the total number of unread messages addressed to the
// viewer across all conversations.
func UnreadCount(messages []models.Message, viewerID string) int {
	if viewerID == "" {
		return 0
	}
	count := 0
	for _, message := range messages {
		if message.ToUserID == viewerID && !message.Read {
			count++
		}
	}
	return count
}
