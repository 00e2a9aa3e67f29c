package mobileweb

import "github.com/aitoearn/mobile-agent-go/internal/event"

// chanSink fans one session's events into a buffered channel an HTTP
// handler can range over, letting the Agent Loop goroutine and the SSE
// writer run independently instead of the loop blocking on a slow client.
type chanSink struct {
	ch     chan event.Event
	closed chan struct{}
}

func newChanSink() *chanSink {
	return &chanSink{ch: make(chan event.Event, 64), closed: make(chan struct{})}
}

// Send enqueues e, dropping it instead of blocking forever if nobody is
// draining the channel and the buffer is full — matching Sink.Send's
// "never block indefinitely" contract.
func (s *chanSink) Send(e event.Event) bool {
	select {
	case <-s.closed:
		return false
	default:
	}
	select {
	case s.ch <- e:
		return true
	default:
		return false
	}
}

// close signals no further events will be sent, ending any reader's range
// over the channel; safe to call once the producing Loop.Run has returned.
func (s *chanSink) close() {
	close(s.ch)
}

var _ event.Sink = (*chanSink)(nil)
