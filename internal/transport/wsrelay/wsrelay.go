// Package wsrelay adapts event.Sink to a websocket connection, for
// clients that want a persistent duplex channel instead of one-way SSE
// (SPEC_FULL.md §11 lists this as an alternate transport over the same
// event envelope).
package wsrelay

import (
	"log"
	"sync"

	"github.com/aitoearn/mobile-agent-go/internal/event"
	"github.com/gorilla/websocket"
)

// Conn streams events over a single websocket connection. Writes are
// serialized with a mutex since gorilla/websocket connections are not
// safe for concurrent writers, even though this package's own caller is
// single-goroutine per session.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

// New wraps an already-upgraded websocket connection.
func New(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// Send writes one event as a JSON text frame. Returns false once the
// connection has failed, so the caller knows to stop producing.
func (c *Conn) Send(e event.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.WriteJSON(e); err != nil {
		log.Printf("[wsrelay] write error (client disconnected?): %v", err)
		return false
	}
	return true
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}

var _ event.Sink = (*Conn)(nil)
