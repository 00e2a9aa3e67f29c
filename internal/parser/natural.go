package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aitoearn/mobile-agent-go/internal/action"
)

type naturalRule struct {
	pattern *regexp.Regexp
	kind    action.Kind
	params  []string
}

// naturalRules mirrors TextActionParser.PATTERNS: loose English phrasing a
// model might fall back to when it ignores the requested output format.
var naturalRules = []naturalRule{
	{regexp.MustCompile(`(?i)(?:click|tap)\s+(?:at\s+)?[(\[]?(\d+)[,\s]+(\d+)[)\]]?`), action.Click, []string{"x", "y"}},
	{regexp.MustCompile(`(?i)long\s+(?:click|press)\s+(?:at\s+)?[(\[]?(\d+)[,\s]+(\d+)[)\]]?`), action.LongClick, []string{"x", "y"}},
	{regexp.MustCompile(`(?i)swipe\s+(?:from\s+)?[(\[]?(\d+)[,\s]+(\d+)[)\]]?\s+(?:to\s+)?[(\[]?(\d+)[,\s]+(\d+)[)\]]?`), action.Swipe, []string{"x1", "y1", "x2", "y2"}},
	{regexp.MustCompile(`(?i)(?:type|input|enter)\s*['"]?([^'"\n]+)['"]?`), action.Type, []string{"text"}},
	{regexp.MustCompile(`(?i)(?:go\s+)?back|return`), action.Back, nil},
	{regexp.MustCompile(`(?i)(?:go\s+)?home|main\s+screen`), action.Home, nil},
	{regexp.MustCompile(`(?i)(?:wait|sleep|pause)\s+(\d+)\s*(?:ms|milliseconds?)?`), action.Wait, []string{"duration"}},
	{regexp.MustCompile(`(?i)(?:task\s+)?(?:complete|finished|done)`), action.Finish, nil},
}

// Natural recognizes loose English action phrasing as a last resort before
// the coordinate fallback. It defers to the other sub-parsers: CanParse
// returns false whenever any of them would also claim the input, so a
// structured/XML/JSON payload is never misread as prose.
type Natural struct{}

func (Natural) CanParse(raw string) bool {
	if (Structured{}).CanParse(raw) || (XML{}).CanParse(raw) || (JSON{}).CanParse(raw) {
		return false
	}
	for _, r := range naturalRules {
		if r.pattern.MatchString(raw) {
			return true
		}
	}
	return false
}

func (Natural) Parse(raw string) (action.Action, error) {
	for _, r := range naturalRules {
		m := r.pattern.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		params := make(map[string]any, len(r.params))
		for i, name := range r.params {
			params[name] = coerceValue(m[i+1])
		}
		return action.Action{Kind: r.kind, Params: params, Reasoning: strings.TrimSpace(raw)}, nil
	}
	return action.Action{}, fmt.Errorf("natural parser: no phrase pattern matched")
}
