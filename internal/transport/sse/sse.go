// Package sse adapts event.Sink to Server-Sent Events, ported from
// internal/web's sseWriter: same header set, same disconnect-via-context
// detection, same flush-per-event behavior.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/aitoearn/mobile-agent-go/internal/event"
)

// Writer streams events to an HTTP client as text/event-stream.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
	ctx     context.Context
}

// New prepares SSE response headers and returns a Writer, or nil if the
// underlying ResponseWriter doesn't support flushing.
func New(w http.ResponseWriter, r *http.Request) *Writer {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return nil
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	return &Writer{w: w, flusher: flusher, ctx: r.Context()}
}

// Send writes one event as an SSE frame. Returns false if the client has
// disconnected or the write failed, signaling the caller to stop.
func (s *Writer) Send(e event.Event) bool {
	select {
	case <-s.ctx.Done():
		return false
	default:
	}
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("[sse] marshal error: %v", err)
		return false
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", e.Kind, data); err != nil {
		log.Printf("[sse] write error (client disconnected?): %v", err)
		return false
	}
	s.flusher.Flush()
	return true
}

var _ event.Sink = (*Writer)(nil)
