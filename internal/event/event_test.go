package event

import (
	"encoding/json"
	"testing"
)

// memorySink is a minimal in-memory Sink used by this file's tests.
type memorySink struct {
	events []Event
	closed bool
}

func (m *memorySink) Send(e Event) bool {
	if m.closed {
		return false
	}
	m.events = append(m.events, e)
	return true
}

func TestEventMarshalsKind(t *testing.T) {
	e := Event{Kind: KindAction, SessionID: "s1", Step: 3, ActionDesc: "click(500,800)"}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var round map[string]any
	if err := json.Unmarshal(data, &round); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if round["kind"] != "action" {
		t.Fatalf("expected kind=action, got %v", round["kind"])
	}
}

func TestMemorySinkStopsAfterClose(t *testing.T) {
	s := &memorySink{}
	if !s.Send(Event{Kind: KindStep}) {
		t.Fatal("expected first send to succeed")
	}
	s.closed = true
	if s.Send(Event{Kind: KindDone}) {
		t.Fatal("expected send after close to report false")
	}
	if len(s.events) != 1 {
		t.Fatalf("expected exactly 1 recorded event, got %d", len(s.events))
	}
}
