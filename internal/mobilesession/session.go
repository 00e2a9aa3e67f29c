// Package mobilesession owns the per-task state a running agent loop
// needs: its id, cancellation, action history, and event sink. Adapted
// from internal/session's Store/Session pair, trimmed to single-task
// lifetime ownership — no TTL registry, no multi-turn chat history —
// since a mobile agent session lives exactly as long as the task it is
// running (SPEC_FULL.md §6, DESIGN.md's dropped-TTL-registry entry).
package mobilesession

import (
	"context"
	"sync"
	"time"

	"github.com/aitoearn/mobile-agent-go/internal/event"
	"github.com/aitoearn/mobile-agent-go/internal/history"
	"github.com/aitoearn/mobile-agent-go/internal/protocol"
)

// Status is the closed set of terminal/non-terminal states a Session can
// be in.
type Status string

const (
	StatusRunning   Status = "running"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
	StatusError     Status = "error"
	StatusTimeout   Status = "timeout"
)

// Session is the single-goroutine-owned state for one running task. Only
// Cancel, Cancelled, and StatusNow are safe to call from another goroutine (e.g. an
// HTTP handler servicing a cancel request); everything else is owned by
// the agent loop goroutine and must not be touched concurrently.
type Session struct {
	ID        string
	Task      string
	DeviceID  string
	Protocol  protocol.Name
	Adapter   protocol.Adapter
	History   *history.Store
	Sink      event.Sink
	StartedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	status Status
	err    error
}

// New builds a Session bound to a parent context, pre-resolving its
// protocol adapter and history store with the default loop detector.
func New(parent context.Context, id, task, deviceID string, proto protocol.Name, maxHistory int, sink event.Sink) *Session {
	return NewWithDetector(parent, id, task, deviceID, proto, maxHistory, nil, sink)
}

// NewWithDetector is New with an explicit loop detector, letting a caller
// wire AgentConfig's loop-detector tunables in instead of the defaults.
// A nil detector falls back to history.NewLoopDetector's defaults.
func NewWithDetector(parent context.Context, id, task, deviceID string, proto protocol.Name, maxHistory int, detector *history.LoopDetector, sink event.Sink) *Session {
	ctx, cancel := context.WithCancel(parent)
	return &Session{
		ID:        id,
		Task:      task,
		DeviceID:  deviceID,
		Protocol:  proto,
		Adapter:   protocol.New(proto),
		History:   history.NewStoreWithDetector(maxHistory, detector),
		Sink:      sink,
		StartedAt: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
		status:    StatusRunning,
	}
}

// Context returns the cancellation context the agent loop should check at
// every suspension point.
func (s *Session) Context() context.Context { return s.ctx }

// Cancel requests cooperative termination. Safe to call from any
// goroutine, any number of times.
func (s *Session) Cancel() {
	s.cancel()
}

// Cancelled reports whether cancellation has been requested, without
// blocking — the agent loop polls this at each suspension point rather
// than select{}-ing on ctx.Done() mid-device-call.
func (s *Session) Cancelled() bool {
	select {
	case <-s.ctx.Done():
		return true
	default:
		return false
	}
}

// Finish records the terminal status once the loop exits. Called exactly
// once by the owning goroutine.
func (s *Session) Finish(status Status, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.err = err
}

// StatusNow returns the current (possibly non-terminal) status. Safe for
// concurrent callers.
func (s *Session) StatusNow() (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.err
}

// Emit sends an event through the session's sink if one is attached,
// stamping SessionID and Timestamp so callers never have to repeat them.
func (s *Session) Emit(e event.Event) bool {
	if s.Sink == nil {
		return true
	}
	e.SessionID = s.ID
	e.Timestamp = time.Now()
	return s.Sink.Send(e)
}
