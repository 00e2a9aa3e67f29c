package parser

import (
	"fmt"
	"regexp"

	"github.com/aitoearn/mobile-agent-go/internal/action"
)

var bareCoordPair = regexp.MustCompile(`(\d+)\D+(\d+)`)

// CoordFallback is the last-resort sub-parser: when a model drops every
// other convention but still emits two bare numbers, treat them as a tap
// target rather than failing the step outright. It never claims text that
// a more specific sub-parser would also recognize.
type CoordFallback struct{}

func (CoordFallback) CanParse(raw string) bool {
	if (Structured{}).CanParse(raw) || (XML{}).CanParse(raw) || (JSON{}).CanParse(raw) || (Natural{}).CanParse(raw) {
		return false
	}
	return bareCoordPair.MatchString(raw)
}

func (CoordFallback) Parse(raw string) (action.Action, error) {
	m := bareCoordPair.FindStringSubmatch(raw)
	if m == nil {
		return action.Action{}, fmt.Errorf("coord fallback: no coordinate pair found")
	}
	x, xok := coerceValue(m[1]).(int)
	y, yok := coerceValue(m[2]).(int)
	if !xok || !yok {
		return action.Action{}, fmt.Errorf("coord fallback: captured values were not integers")
	}
	return action.Action{
		Kind:       action.Click,
		Params:     map[string]any{"x": x, "y": y},
		Reasoning:  "coordinate fallback: " + raw,
		Confidence: 0.3,
	}, nil
}
