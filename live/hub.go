// Package live pushes record changes to connected dashboards over websockets.
package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/amorty/cafe-admin/models"
	"github.com/amorty/cafe-admin/utils"
	"github.com/gorilla/websocket"
)

const (
	EventRecordCreate = "record_create"
	EventRecordUpdate = "record_update"
	EventRecordDelete = "record_delete"
	EventStatsUpdate  = "stats_update"

	writeWait = 5 * time.Second
)

// EventFor maps a change-log action to the event name clients receive.
func EventFor(action string) string {
	switch action {
	case models.ActionInsert:
		return EventRecordCreate
	case models.ActionDelete:
		return EventRecordDelete
	}
	return EventRecordUpdate
}

type Message struct {
	Event string      `json:"event"`
	Kind  string      `json:"kind,omitempty"`
	Key   string      `json:"key,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// Client is who sits behind a connection.
type Client struct {
	Actor models.Actor
}

// Hub tracks open connections. Writes to one connection are serialized by
// the hub lock.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]Client)}
}

func (h *Hub) Register(conn *websocket.Conn, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = client
	utils.InfoLogger.Printf("Live client connected: role=%s subject=%s", client.Actor.Role, client.Actor.Subject)
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends msg to every client.
func (h *Hub) Broadcast(msg Message) int {
	return h.BroadcastTo(msg, nil)
}

// BroadcastTo sends msg to the clients accepted by filter, or to all of them
// when filter is nil. It returns how many clients got the message. Clients
// whose write fails are dropped.
func (h *Hub) BroadcastTo(msg Message, filter func(Client) bool) int {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling message: %v", err)
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for conn, client := range h.clients {
		if filter != nil && !filter(client) {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending to %s client: %v", client.Actor.Role, err)
			delete(h.clients, conn)
			conn.Close()
			continue
		}
		sent++
	}
	return sent
}

// CloseAll disconnects every client.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}
