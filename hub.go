package main

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// progressPayload is broadcast to subscribed clients while a solve runs.
type progressPayload struct {
	Level     int    `json:"level"`
	Direction string `json:"direction"`
	Nodes     int64  `json:"nodes"`
	OpenPeak  int    `json:"open_peak"`
	UpdatedAt int64  `json:"updated_at_ms"`
}

// resultPayload is broadcast when a solve finishes.
type resultPayload struct {
	Level    int        `json:"level"`
	Outcome  string     `json:"outcome"`
	Stats    SolveStats `json:"stats"`
}

// ProgressHub fans solve progress out to websocket clients. Slow clients drop
// events rather than blocking the solver.
type ProgressHub struct {
	mu        sync.Mutex
	clients   map[*ProgressClient]struct{}
	broadcast chan wsMessage
}

type ProgressClient struct {
	hub  *ProgressHub
	send chan []byte
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		clients:   make(map[*ProgressClient]struct{}),
		broadcast: make(chan wsMessage, 64),
	}
}

func (h *ProgressHub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(msg)
			}
			h.mu.Unlock()
		}
	}
}

func (h *ProgressHub) PublishProgress(payload progressPayload) {
	h.publish(wsMessage{Type: "progress", Payload: mustMarshal(payload)})
}

func (h *ProgressHub) PublishResult(payload resultPayload) {
	h.publish(wsMessage{Type: "result", Payload: mustMarshal(payload)})
}

func (h *ProgressHub) publish(msg wsMessage) {
	select {
	case h.broadcast <- msg:
	default:
	}
}

func (h *ProgressHub) Register(c *ProgressClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *ProgressHub) Unregister(c *ProgressClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *ProgressHub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *ProgressClient) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

const wsIdlePingInterval = 30 * time.Second

// writeWSWithHeartbeat drains the send channel into the connection, emitting
// a ping whenever the connection has been idle for a full interval.
func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
