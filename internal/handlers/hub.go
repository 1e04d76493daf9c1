// internal/handlers/hub.go
package handlers

import (
	"sync"

	"github.com/jason-s-yu/liarsdeck/internal/game"
	log "github.com/sirupsen/logrus"
)

const outBufferSize = 64

// Client is the outbound half of one websocket connection.
type Client struct {
	OutChan chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func newClient(buffer int) *Client {
	return &Client{
		OutChan: make(chan []byte, buffer),
		done:    make(chan struct{}),
	}
}

// Write queues data for the write pump without blocking. It reports false when
// the message was dropped because the client is closed or its buffer is full.
func (c *Client) Write(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.OutChan <- data:
		return true
	default:
		log.Warn("client outbound buffer full, dropping message")
		return false
	}
}

// Send encodes and queues a game event.
func (c *Client) Send(ev game.GameEvent) bool {
	return c.Write(game.EncodeEvent(ev))
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Hub maps bound player ids to their live connection.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Register binds playerID to c, replacing any previous connection.
func (h *Hub) Register(playerID string, c *Client) {
	h.mu.Lock()
	h.clients[playerID] = c
	h.mu.Unlock()
}

// Unregister removes playerID only if it is still bound to c.
func (h *Hub) Unregister(playerID string, c *Client) {
	h.mu.Lock()
	if cur, ok := h.clients[playerID]; ok && cur == c {
		delete(h.clients, playerID)
	}
	h.mu.Unlock()
}

// Send is the rooms' SendFn. It never blocks; unknown players are ignored.
func (h *Hub) Send(playerID string, ev game.GameEvent) {
	h.mu.RLock()
	c := h.clients[playerID]
	h.mu.RUnlock()
	if c == nil {
		return
	}
	c.Send(ev)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
