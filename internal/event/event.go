// Package event defines the streaming event envelope emitted once per
// meaningful transition of a running task, and the Sink contract
// concrete transports (SSE, websocket) implement. Event shapes are
// grounded on internal/web/sse.go's sseThoughtEvent/ssePlanEvent/
// sseDoneEvent, generalized from the chat assistant's event set to the
// mobile agent's plan/thinking/action/step/warning/error/done/cancelled
// vocabulary (SPEC_FULL.md §7).
package event

import "time"

// Kind is the closed set of event types a session can emit. Per-session
// ordering is the only invariant a Sink must uphold; Kind values carry no
// ordering information of their own.
type Kind string

const (
	KindPlan      Kind = "plan"
	KindThinking  Kind = "thinking"
	KindAction    Kind = "action"
	KindStep      Kind = "step"
	KindWarning   Kind = "warning"
	KindError     Kind = "error"
	KindDone      Kind = "done"
	KindCancelled Kind = "cancelled"
)

// Event is one envelope pushed to a session's Sink.
type Event struct {
	Kind      Kind      `json:"kind"`
	SessionID string    `json:"session_id"`
	Step      int       `json:"step,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	Plan        []string `json:"plan,omitempty"`        // KindPlan
	Thinking    string   `json:"thinking,omitempty"`     // KindThinking
	ActionDesc  string   `json:"action,omitempty"`       // KindAction
	Observation string   `json:"observation,omitempty"`  // KindStep
	Success     bool     `json:"success,omitempty"`      // KindStep
	Finished    bool     `json:"finished,omitempty"`     // KindStep
	Message     string   `json:"message,omitempty"`      // KindStep
	Screenshot  string   `json:"screenshot,omitempty"`   // KindStep, base64 JPEG
	Warning     string   `json:"warning,omitempty"`      // KindWarning
	Err         string   `json:"error,omitempty"`        // KindError
	Solution    string   `json:"solution,omitempty"`     // KindDone
	Stats       *Stats   `json:"stats,omitempty"`        // KindDone
	Reason      string   `json:"reason,omitempty"`       // KindCancelled
}

// Stats summarizes one finished run, mirroring agentStats in sse.go.
type Stats struct {
	Steps     int   `json:"steps"`
	ElapsedMs int64 `json:"elapsed_ms"`
}

// Sink receives events for one session, in emission order. Send returns
// false once the receiving side has gone away (client disconnected,
// websocket closed) so the caller can stop producing — it must never
// block indefinitely on a stalled consumer.
type Sink interface {
	Send(e Event) bool
}
