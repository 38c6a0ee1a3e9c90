// Package ws pushes order events to connected POS screens, replacing
// client-side polling.
package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Event is one message on the live feed.
type Event struct {
	Type string `json:"type"` // order_created | order_updated | status_changed
	Data any    `json:"data"`
}

// Hub fans events out to every connected client.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]chan []byte)}
}

// Broadcast queues an event for every connected client. Slow clients drop
// messages instead of blocking the caller.
func (h *Hub) Broadcast(eventType string, data any) {
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		log.Printf("[WS] Failed to encode event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		select {
		case ch <- payload:
		default:
			log.Printf("[WS] Dropping event for slow client %s", conn.RemoteAddr())
		}
	}
}

// Handler returns the websocket handler for the live order feed.
func (h *Hub) Handler() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		ch := make(chan []byte, 32)

		h.mu.Lock()
		h.clients[conn] = ch
		h.mu.Unlock()

		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
		}()

		done := make(chan struct{})

		// reader: we only care about disconnects
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case payload := <-ch:
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}
}
