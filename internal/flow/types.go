// Package flow is a small generic graph engine for wiring multi-step
// logic together: nodes run a Prep -> Exec -> Post lifecycle and route to
// a successor by the Action they return. Adapted from internal/core
// (pocket-omega's orchestrator primitive) and scoped down to back the
// agent loop's one-shot Planner sub-step (SPEC_FULL.md §12.3) — the
// multi-turn chat orchestration it originally served is out of scope
// here.
package flow

// Action represents the result of a node execution that determines flow control.
type Action string

// Common actions used throughout the graph.
const (
	ActionContinue Action = "continue"
	ActionEnd      Action = "end"
	ActionSuccess  Action = "success"
	ActionFailure  Action = "failure"
	ActionDefault  Action = "default"
)
