package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aitoearn/mobile-agent-go/internal/action"
)

// JSON recognizes a single JSON object with an "action" field, e.g.
// {"action": "click", "params": {"x": 1, "y": 2}}.
type JSON struct{}

type jsonPayload struct {
	Action     string         `json:"action"`
	Params     map[string]any `json:"params"`
	Reasoning  string         `json:"reasoning"`
	Thought    string         `json:"thought"`
	Confidence *float64       `json:"confidence"`
}

func (JSON) CanParse(raw string) bool {
	var p jsonPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &p); err != nil {
		return false
	}
	return p.Action != ""
}

func (JSON) Parse(raw string) (action.Action, error) {
	var p jsonPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &p); err != nil {
		return action.Action{}, fmt.Errorf("json parser: %w", err)
	}
	if p.Action == "" {
		return action.Action{}, fmt.Errorf("json parser: missing action field")
	}
	kind, ok := normalizeKind(p.Action)
	if !ok {
		return action.Action{}, fmt.Errorf("json parser: unrecognized action kind %q", p.Action)
	}

	reasoning := p.Reasoning
	if reasoning == "" {
		reasoning = p.Thought
	}
	confidence := 1.0
	if p.Confidence != nil {
		confidence = *p.Confidence
	}

	return action.Action{
		Kind:       kind,
		Params:     p.Params,
		Reasoning:  reasoning,
		Confidence: confidence,
	}, nil
}
