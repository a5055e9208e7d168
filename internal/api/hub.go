package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"gourmet/internal/models"
	"gourmet/internal/session"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// OrderEvent is pushed to websocket subscribers
type OrderEvent struct {
	Type       string             `json:"type"`
	Order      *session.OrderView `json:"order"`
	FromStatus models.OrderStatus `json:"fromStatus,omitempty"`
}

// OrderHub fans order events out to the websocket clients of each session
type OrderHub struct {
	mu      sync.Mutex
	clients map[string]map[*wsClient]struct{}
	closed  bool
	logger  *zap.SugaredLogger
}

type wsClient struct {
	hub       *OrderHub
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
	once      sync.Once
}

// NewOrderHub creates an empty hub
func NewOrderHub(logger *zap.SugaredLogger) *OrderHub {
	return &OrderHub{
		clients: make(map[string]map[*wsClient]struct{}),
		logger:  logger,
	}
}

// Serve upgrades the request and registers the connection for sessionID.
// A non-nil snapshot is sent first.
func (h *OrderHub) Serve(w http.ResponseWriter, r *http.Request, sessionID string, snapshot *session.OrderView) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &wsClient{
		hub:       h,
		sessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, 16),
	}
	if snapshot != nil {
		if msg, err := json.Marshal(OrderEvent{Type: "snapshot", Order: snapshot}); err == nil {
			client.send <- msg
		}
	}
	if !h.register(client) {
		client.shutdown()
		conn.Close()
		return nil
	}

	go client.writePump()
	go client.readPump()
	return nil
}

// Subscribers returns the number of open connections for sessionID
func (h *OrderHub) Subscribers(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[sessionID])
}

// OrderCreated pushes the new order to the session's subscribers
func (h *OrderHub) OrderCreated(sessionID string, o models.Order) {
	h.broadcast(sessionID, OrderEvent{Type: "order_created", Order: session.NewOrderView(o)})
}

// OrderStatusChanged pushes the advanced order to the session's subscribers
func (h *OrderHub) OrderStatusChanged(sessionID string, o models.Order, from models.OrderStatus) {
	h.broadcast(sessionID, OrderEvent{Type: "order_status_changed", Order: session.NewOrderView(o), FromStatus: from})
}

// Close disconnects every client
func (h *OrderHub) Close() {
	h.mu.Lock()
	h.closed = true
	all := h.clients
	h.clients = make(map[string]map[*wsClient]struct{})
	h.mu.Unlock()

	for _, set := range all {
		for c := range set {
			c.shutdown()
		}
	}
}

func (h *OrderHub) register(c *wsClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	set, ok := h.clients[c.sessionID]
	if !ok {
		set = make(map[*wsClient]struct{})
		h.clients[c.sessionID] = set
	}
	set[c] = struct{}{}
	return true
}

func (h *OrderHub) unregister(c *wsClient) {
	h.mu.Lock()
	if set, ok := h.clients[c.sessionID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.sessionID)
		}
	}
	h.mu.Unlock()
	c.shutdown()
}

func (h *OrderHub) broadcast(sessionID string, event OrderEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.logger.Errorw("Failed to encode order event", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[sessionID] {
		select {
		case c.send <- msg:
		default:
			// Slow consumer; the client reconnects and gets a fresh snapshot.
			h.logger.Warnw("Dropping slow websocket client", "session_id", sessionID)
			delete(h.clients[sessionID], c)
			c.shutdown()
		}
	}
}

func (c *wsClient) shutdown() {
	c.once.Do(func() { close(c.send) })
}

// readPump only services control frames; clients never send data
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debugw("WebSocket error", "session_id", c.sessionID, "error", err)
			}
			return
		}
	}
}

func (c *wsClient) writePump() {
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
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
