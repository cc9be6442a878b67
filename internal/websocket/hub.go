package chatws

import (
	"context"
	"encoding/json"
	"log"

	websocket "github.com/gofiber/contrib/websocket"

	"github.com/Josef-Holecek/krouzky-hb-main/internal/models"
	"github.com/Josef-Holecek/krouzky-hb-main/internal/services"
)

// Hub fans persisted messages out to the connected sessions of both
// participants. It is the live subscription over the message log: clients
// re-derive their conversation view from whatever it delivers.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Frame
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	user models.User
	send chan []byte
}

type sender interface {
	SendMessage(ctx context.Context, sender *models.User, input services.SendMessageInput) (*models.Message, error)
}

// Frame is the wire shape in both directions. TempID is the sending
// client's transient optimistic id, echoed back so the client can resolve
// its outbox entry.
type Frame struct {
	Type    string          `json:"type"`
	TempID  string          `json:"temp_id,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message *models.Message `json:"message,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Frame, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, user models.User) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		user: user,
		send: make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.user.ID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.user.ID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.user.ID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.user.ID)
			}
		case frame := <-h.broadcast:
			h.deliver(frame)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastMessage pushes a persisted message to the live feeds of both
// participants. Callers outside the read pump (the HTTP send path) use this
// too.
func (h *Hub) BroadcastMessage(message *models.Message, tempID string) {
	h.broadcast <- &Frame{
		Type:    "message",
		TempID:  tempID,
		Message: message,
	}
}

func (h *Hub) deliver(frame *Frame) {
	if frame.Message == nil {
		return
	}

	encoded, err := json.Marshal(frame)
	if err != nil {
		log.Printf("chat hub encode frame: %v", err)
		return
	}

	h.sendToUser(frame.Message.FromUserID, encoded)
	if frame.Message.ToUserID != frame.Message.FromUserID {
		h.sendToUser(frame.Message.ToUserID, encoded)
	}
}

func (h *Hub) sendToUser(userID string, payload []byte) {
	set, ok := h.clients[userID]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

func (c *Client) ReadPump(service sender) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type        string `json:"type"`
			TempID      string `json:"temp_id"`
			ToUserID    string `json:"to_user_id"`
			ToUserName  string `json:"to_user_name"`
			TrainerID   string `json:"trainer_id"`
			TrainerName string `json:"trainer_name"`
			Subject     string `json:"subject"`
			Body        string `json:"message"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil {
			c.writeError("invalid message payload", "")
			continue
		}
		if incoming.Type != "message" {
			c.writeError("unsupported message type", incoming.TempID)
			continue
		}

		message, err := service.SendMessage(context.Background(), &c.user, services.SendMessageInput{
			ToUserID:    incoming.ToUserID,
			ToUserName:  incoming.ToUserName,
			TrainerID:   incoming.TrainerID,
			TrainerName: incoming.TrainerName,
			Subject:     incoming.Subject,
			Body:        incoming.Body,
		})
		if err != nil {
			// The client's optimistic entry stays at "sending"; no retry
			// is attempted here.
			c.writeError("failed to send message", incoming.TempID)
			continue
		}

		c.hub.BroadcastMessage(message, incoming.TempID)
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func (c *Client) writeError(message, tempID string) {
	payload, err := json.Marshal(Frame{
		Type:   "error",
		TempID: tempID,
		Error:  message,
	})
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
		c.hub.Unregister(c)
	}
}
