package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aitoearn/mobile-agent-go/internal/action"
)

var (
	xmlActionPattern = regexp.MustCompile(`(?is)<action\s+type="(\w+)"[^>]*>(.*?)</action>`)
	xmlParamPattern  = regexp.MustCompile(`<(\w+)>([^<]*)</\w+>`)
)

// XML recognizes <action type="click"><x>1</x><y>2</y></action>-shaped text.
type XML struct{}

func (XML) CanParse(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "<action") && strings.Contains(lower, "</action>")
}

func (XML) Parse(raw string) (action.Action, error) {
	m := xmlActionPattern.FindStringSubmatch(raw)
	if m == nil {
		return action.Action{}, fmt.Errorf("xml parser: no <action> element found")
	}
	kindStr, content := m[1], m[2]

	kind, ok := normalizeKind(kindStr)
	if !ok {
		return action.Action{}, fmt.Errorf("xml parser: unrecognized action kind %q", kindStr)
	}

	params := make(map[string]any)
	for _, pm := range xmlParamPattern.FindAllStringSubmatch(content, -1) {
		params[pm[1]] = coerceValue(pm[2])
	}

	reasoning := raw
	if len(reasoning) > 100 {
		reasoning = reasoning[:100] + "..."
	}

	return action.Action{Kind: kind, Params: params, Reasoning: "parsed from xml: " + reasoning}, nil
}
