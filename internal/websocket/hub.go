package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rzzdr/basel-capital-engine/pkg/models"
	"github.com/rzzdr/basel-capital-engine/pkg/utils/logger"
)

// Hub streams completed calculation and stress results to websocket
// clients. Clients subscribe to portfolio IDs; a subscription to "*"
// receives everything.
type Hub struct {
	clients       map[*Client]bool
	register      chan *Client
	unregister    chan *Client
	broadcast     chan []byte
	subscriptions map[string]map[*Client]bool // portfolio ID -> clients
	log           *logger.Logger
	mu            sync.RWMutex
}

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	hub           *Hub
	conn          *websocket.Conn
	send          chan []byte
	id            string
	subscriptions map[string]bool
	mu            sync.RWMutex
}

// Message is the wire envelope sent to clients.
type Message struct {
	Type        string      `json:"type"`
	PortfolioID string      `json:"portfolio_id,omitempty"`
	Data        interface{} `json:"data,omitempty"`
	Error       string      `json:"error,omitempty"`
	ID          string      `json:"id,omitempty"`
}

// SubscriptionMessage is the client request envelope.
type SubscriptionMessage struct {
	Type       string   `json:"type"`
	Portfolios []string `json:"portfolios"`
	ID         string   `json:"id,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// NewHub creates a results hub.
func NewHub() *Hub {
	return &Hub{
		clients:       make(map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broadcast:     make(chan []byte, 256),
		subscriptions: make(map[string]map[*Client]bool),
		log:           logger.GetLogger("websocket.hub"),
	}
}

// Run owns the client set until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	h.log.Info("starting results hub")

	for {
		select {
		case <-ctx.Done():
			h.log.Info("results hub shutting down")
			return

		case client := <-h.register:
			h.clients[client] = true
			h.log.Infof("client %s registered", client.id)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.removeClientSubscriptions(client)
				h.log.Infof("client %s unregistered", client.id)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// HandleWebSocket upgrades the connection and attaches the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorf("websocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:           h,
		conn:          conn,
		send:          make(chan []byte, 256),
		id:            fmt.Sprintf("client_%d", time.Now().UnixNano()),
		subscriptions: make(map[string]bool),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastCapital pushes a calculation result to subscribers of its
// portfolio.
func (h *Hub) BroadcastCapital(results *models.CapitalResults) {
	h.sendToSubscribers(results.PortfolioID, Message{
		Type:        "capital_results",
		PortfolioID: results.PortfolioID,
		Data:        results,
	})
}

// BroadcastStress pushes a stress run to subscribers of its portfolio.
func (h *Hub) BroadcastStress(results *models.StressResults) {
	h.sendToSubscribers(results.PortfolioID, Message{
		Type:        "stress_results",
		PortfolioID: results.PortfolioID,
		Data:        results,
	})
}

func (h *Hub) sendToSubscribers(portfolioID string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Errorf("failed to marshal results message: %v", err)
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0)
	for client := range h.subscriptions[portfolioID] {
		targets = append(targets, client)
	}
	for client := range h.subscriptions["*"] {
		if !client.subscriptions[portfolioID] {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, messageData, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Errorf("websocket error: %v", err)
			}
			break
		}
		c.handleMessage(messageData)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte("\n"))
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(messageData []byte) {
	var msg SubscriptionMessage
	if err := json.Unmarshal(messageData, &msg); err != nil {
		c.sendError("invalid message format")
		return
	}

	switch msg.Type {
	case "subscribe":
		c.handleSubscription(msg)
	case "unsubscribe":
		c.handleUnsubscription(msg)
	case "ping":
		c.sendMessage(Message{Type: "pong", ID: msg.ID})
	default:
		c.sendError("unknown message type")
	}
}

func (c *Client) handleSubscription(msg SubscriptionMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, portfolioID := range msg.Portfolios {
		c.subscriptions[portfolioID] = true

		c.hub.mu.Lock()
		if c.hub.subscriptions[portfolioID] == nil {
			c.hub.subscriptions[portfolioID] = make(map[*Client]bool)
		}
		c.hub.subscriptions[portfolioID][c] = true
		c.hub.mu.Unlock()
	}

	c.sendMessage(Message{
		Type: "subscription_confirmed",
		Data: map[string]interface{}{"portfolios": msg.Portfolios},
		ID:   msg.ID,
	})
}

func (c *Client) handleUnsubscription(msg SubscriptionMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, portfolioID := range msg.Portfolios {
		delete(c.subscriptions, portfolioID)

		c.hub.mu.Lock()
		if clients, exists := c.hub.subscriptions[portfolioID]; exists {
			delete(clients, c)
			if len(clients) == 0 {
				delete(c.hub.subscriptions, portfolioID)
			}
		}
		c.hub.mu.Unlock()
	}

	c.sendMessage(Message{
		Type: "unsubscription_confirmed",
		Data: map[string]interface{}{"portfolios": msg.Portfolios},
		ID:   msg.ID,
	})
}

func (c *Client) sendMessage(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.log.Errorf("failed to marshal message: %v", err)
		return
	}

	select {
	case c.send <- data:
	default:
		close(c.send)
		delete(c.hub.clients, c)
	}
}

func (c *Client) sendError(errorMsg string) {
	c.sendMessage(Message{Type: "error", Error: errorMsg})
}

func (h *Hub) removeClientSubscriptions(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.mu.RLock()
	for portfolioID := range client.subscriptions {
		if clients, exists := h.subscriptions[portfolioID]; exists {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.subscriptions, portfolioID)
			}
		}
	}
	client.mu.RUnlock()
}
