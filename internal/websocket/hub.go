package syncws

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/saeid-a/FitSyncBack/internal/models"
	"github.com/saeid-a/FitSyncBack/internal/services"
)

const writeTimeout = 5 * time.Second

// Hub routes change events to the live connections of their target user.
// Each user may hold several connections (multiple tabs or devices); an event
// is fanned out to all of them and only to them. A target with no live
// connections drops the event: no queueing, no retry.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	events     chan *models.ChangeEvent
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

// trySend queues a payload without blocking. sent is false when the buffer
// is full or the connection was already dropped; open distinguishes the two.
func (c *Client) trySend(payload []byte) (sent, open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, false
	}
	select {
	case c.send <- payload:
		return true, true
	default:
		return false, true
	}
}

// closeSend closes the send channel exactly once. Only the hub's Run
// goroutine calls it, but the mutex keeps trySend from racing the close.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

type sender interface {
	SendMessage(
		ctx context.Context,
		senderID string,
		role string,
		recipientID string,
		content string,
	) (*services.ChatDelivery, error)
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan *models.ChangeEvent, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

// Run owns the connection registry. Registration, deregistration and
// delivery all pass through here, so a disconnect during delivery can never
// race the lookup.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				client.closeSend()
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case event := <-h.events:
			h.deliver(event)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Deliver queues an event for the target user's connections. It returns
// before the event is written; delivery is best-effort and the caller's edit
// has already committed.
func (h *Hub) Deliver(event *models.ChangeEvent) {
	h.events <- event
}

func (h *Hub) deliver(event *models.ChangeEvent) {
	set, ok := h.clients[event.TargetUserID]
	if !ok || len(set) == 0 {
		log.Printf("sync hub: dropping %s event, no live connections for %s", event.Kind, event.TargetUserID)
		return
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		log.Printf("sync hub: encode %s event: %v", event.Kind, err)
		return
	}

	for client := range set {
		if sent, _ := client.trySend(payload); !sent {
			// Slow consumer: drop the connection rather than stall the rest.
			delete(set, client)
			client.closeSend()
		}
	}
	if len(set) == 0 {
		delete(h.clients, event.TargetUserID)
	}
}

// ReadPump consumes frames from one connection until it closes. Incoming
// chat messages are persisted through the chat service and then routed to
// the recipient only; the sender's identity comes from the authenticated
// connection, never from the frame.
func (c *Client) ReadPump(service sender, role string) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming models.MessageFrame
		if err := json.Unmarshal(payload, &incoming); err != nil {
			if !writeError(c, "invalid message payload") {
				return
			}
			continue
		}
		if incoming.Type != models.FrameTypeMessage {
			if !writeError(c, "unsupported message type") {
				return
			}
			continue
		}
		recipientID := strings.TrimSpace(incoming.Recipient)
		if recipientID == "" {
			if !writeError(c, "missing recipient") {
				return
			}
			continue
		}

		delivery, err := service.SendMessage(
			context.Background(),
			c.userID,
			role,
			recipientID,
			incoming.Content,
		)
		if err != nil {
			if !writeError(c, "failed to send message") {
				return
			}
			continue
		}

		c.hub.Deliver(&models.ChangeEvent{
			Kind:         models.EventMessage,
			TargetUserID: delivery.RecipientID,
			Payload: models.MessageFrame{
				Type:      models.FrameTypeMessage,
				UserID:    delivery.Message.SenderID,
				Recipient: delivery.RecipientID,
				Content:   delivery.Message.Content,
			},
		})
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

// writeError pushes an error frame to one connection. It returns false when
// the connection is gone or too slow to keep: the read pump must stop
// servicing it.
func writeError(client *Client, message string) bool {
	payload, err := json.Marshal(models.MessageFrame{
		Type:    models.FrameTypeError,
		Content: message,
	})
	if err != nil {
		return true
	}
	sent, open := client.trySend(payload)
	if sent {
		return true
	}
	if open {
		client.hub.Unregister(client)
	}
	return false
}
