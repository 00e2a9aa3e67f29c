// Package parser turns raw model text output into an action.Action. Models
// emit actions in several shapes depending on protocol and how faithfully
// they follow the system prompt; the composite parser tries each known
// shape in a fixed order and fails closed rather than guessing.
package parser

import (
	"fmt"

	"github.com/aitoearn/mobile-agent-go/internal/action"
)

// SubParser recognizes and parses one textual action format.
type SubParser interface {
	// CanParse reports whether raw looks like this sub-parser's format.
	CanParse(raw string) bool
	// Parse converts raw into an Action. Only called after CanParse
	// returns true; still returns an error if parsing then fails (e.g. an
	// unrecognized action kind inside an otherwise well-formed payload).
	Parse(raw string) (action.Action, error)
}

// Composite tries each sub-parser in order, then falls back to extracting
// an <answer>...</answer> block or a fenced code block and retrying the
// same chain against its contents, matching the original's
// CompositeActionParser recovery strategy.
//
// Order: structured call syntax, XML, JSON, natural language, then the
// coordinate fallback — the structured-call grammar is tried first because
// it is a strict-enough pattern that trying JSON or XML first would let
// stray substrings misfire inside it.
type Composite struct {
	subParsers []SubParser
}

// NewComposite builds the standard parser chain.
func NewComposite() *Composite {
	return &Composite{
		subParsers: []SubParser{
			Structured{},
			XML{},
			JSON{},
			Natural{},
			CoordFallback{},
		},
	}
}

// Parse runs the full composite strategy described on Composite.
func (c *Composite) Parse(raw string) (action.Action, error) {
	if a, err := c.tryAll(raw); err == nil {
		return a, nil
	}

	if content, ok := extractAnswerBlock(raw); ok {
		if a, err := c.tryAll(content); err == nil {
			return a, nil
		}
	}

	if content, ok := extractCodeBlock(raw); ok {
		if a, err := c.tryAll(content); err == nil {
			return a, nil
		}
	}

	return action.Action{}, fmt.Errorf("parser: no sub-parser could recognize the output")
}

func (c *Composite) tryAll(raw string) (action.Action, error) {
	var lastErr error
	for _, p := range c.subParsers {
		if !p.CanParse(raw) {
			continue
		}
		a, err := p.Parse(raw)
		if err == nil {
			return a, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("parser: no sub-parser recognized the input")
	}
	return action.Action{}, lastErr
}
