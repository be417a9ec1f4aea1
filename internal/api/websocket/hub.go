package websocket

import (
	"encoding/json"
	"sync"

	"github.com/KevinKickass/StormBridge/internal/metrics"
	"github.com/KevinKickass/StormBridge/internal/streaming"
	"go.uber.org/zap"
)

// Hub maintains active WebSocket clients and broadcasts messages
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Inbound messages to broadcast
	broadcast chan Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	done     chan struct{}
	stopOnce sync.Once

	mu      sync.RWMutex
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewHub creates a new Hub instance
func NewHub(logger *zap.Logger, m *metrics.Metrics) *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		logger:     logger,
		metrics:    m,
	}
}

// Run starts the hub's main event loop and returns after Stop.
func (h *Hub) Run() {
	h.logger.Info("WebSocket Hub started")
	for {
		select {
		case <-h.done:
			h.closeAll()
			h.logger.Info("WebSocket Hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.setGauge(count)
			h.logger.Info("WebSocket client registered",
				zap.String("remote_addr", client.remoteAddr()),
				zap.Int("total_clients", count))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("WebSocket client unregistered",
					zap.String("remote_addr", client.remoteAddr()),
					zap.Int("total_clients", len(h.clients)))
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.setGauge(count)

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				h.logger.Error("Failed to marshal broadcast message",
					zap.Error(err))
				continue
			}

			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					// Client send channel full - unregister slow/dead client
					close(client.send)
					delete(h.clients, client)
					h.logger.Warn("Client send buffer full, unregistering",
						zap.String("remote_addr", client.remoteAddr()))
				}
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.setGauge(count)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.setGauge(0)
}

func (h *Hub) setGauge(count int) {
	if h.metrics != nil {
		h.metrics.StreamClients.WithLabelValues("websocket").Set(float64(count))
	}
}

// Stop ends Run and closes every client.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Broadcast sends a message to all connected clients
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("Hub broadcast channel full, message dropped",
			zap.String("message_type", string(msg.Type)))
	}
}

// Forward broadcasts every frame until the channel is closed.
func (h *Hub) Forward(frames <-chan *streaming.Frame) {
	for frame := range frames {
		h.Broadcast(NewChannelFrameMessage(frame))
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
