package sse

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event types pushed to dashboards
const (
	EventStockUpdate    = "stock_update"
	EventLowStockDigest = "low_stock_digest"
	EventManagerNote    = "manager_note"
)

// Event represents a Server-Sent Event
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client represents a connected SSE client
type Client struct {
	ID     string
	UserID string
	Events chan Event
}

// Hub manages all SSE client connections
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

// NewHub creates a new SSE Hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger.Named("sse"),
	}
}

// Register adds a new client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.logger.Debug("client registered",
		zap.String("client_id", client.ID),
		zap.String("user_id", client.UserID),
		zap.Int("total", len(h.clients)),
	)
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		h.logger.Debug("client unregistered", zap.String("client_id", clientID), zap.Int("total", len(h.clients)))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends an event to all connected clients
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Events <- event:
		default:
			h.logger.Warn("client buffer full, skipping event", zap.String("client_id", client.ID), zap.String("event", event.EventType))
		}
	}
}

// SendToUser delivers an event to every connection of one user.
func (h *Hub) SendToUser(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if client.UserID != userID {
			continue
		}
		select {
		case client.Events <- event:
		default:
			h.logger.Warn("client buffer full, skipping user event", zap.String("client_id", client.ID), zap.String("event", event.EventType))
		}
	}
}

// PublishStockUpdate announces a committed stock change.
func (h *Hub) PublishStockUpdate(materialID string, newStock int, status string) {
	h.Broadcast(newEvent(EventStockUpdate, map[string]interface{}{
		"materialId": materialID,
		"newStock":   newStock,
		"status":     status,
	}))
}

// PublishLowStockDigest announces how many materials are at or below minimum.
func (h *Hub) PublishLowStockDigest(count int) {
	h.Broadcast(newEvent(EventLowStockDigest, map[string]interface{}{"count": count}))
}

// PublishManagerNote notifies the recipient of a new note.
func (h *Hub) PublishManagerNote(targetUserID, noteID string) {
	h.SendToUser(targetUserID, newEvent(EventManagerNote, map[string]interface{}{"id": noteID}))
}

func newEvent(eventType string, payload map[string]interface{}) Event {
	data, _ := json.Marshal(payload)
	return Event{EventType: eventType, Data: string(data)}
}
