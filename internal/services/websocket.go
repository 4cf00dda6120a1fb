package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Client represents a WebSocket client subscribed to one chat room
type Client struct {
	UserID     uint
	ChatRoomID uint
	Conn       *websocket.Conn
	Send       chan []byte
	Hub        *Hub
}

type roomMessage struct {
	chatRoomID uint
	data       []byte
}

// Hub maintains the set of active clients and pushes chat messages to the
// clients watching each room
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan roomMessage
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan roomMessage),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("User %d connected to chat %d", client.UserID, client.ChatRoomID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("User %d disconnected from chat %d", client.UserID, client.ChatRoomID)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				if client.ChatRoomID != message.chatRoomID {
					continue
				}
				select {
				case client.Send <- message.data:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastToRoom sends a message to every client watching a chat room
func (h *Hub) BroadcastToRoom(chatRoomID uint, message []byte) {
	h.broadcast <- roomMessage{chatRoomID: chatRoomID, data: message}
}

// ConnectedClients returns the number of connected clients
func (h *Hub) ConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// WebSocketMessage is the envelope pushed to clients
type WebSocketMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// SendChatEvent pushes a new chat message to the room's connected clients
func (h *Hub) SendChatEvent(event ChatEvent) {
	message := WebSocketMessage{
		Type: "chat_message",
		Data: event,
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling chat event: %v", err)
		return
	}

	h.BroadcastToRoom(event.ChatRoomID, data)
}

// RunChatRelay consumes the Redis chat channel and feeds the hub, so pushes
// reach clients connected to any instance. Blocks until ctx is done.
func RunChatRelay(ctx context.Context, hub *Hub) {
	pubsub := SubscribeChatMessages(ctx)
	if pubsub == nil {
		return
	}
	defer pubsub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				return
			}
			var event ChatEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("Error unmarshaling chat event: %v", err)
				continue
			}
			hub.SendChatEvent(event)
		}
	}
}

// HandleWebSocket upgrades the connection and registers the client
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID, chatRoomID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		UserID:     userID,
		ChatRoomID: chatRoomID,
		Conn:       conn,
		Send:       make(chan []byte, 256),
		Hub:        hub,
	}

	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so close frames are noticed; messages are
// sent over the HTTP endpoint, not the socket
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
