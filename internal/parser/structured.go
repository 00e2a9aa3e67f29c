package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aitoearn/mobile-agent-go/internal/action"
)

var (
	chinesePunctuation = regexp.MustCompile(`[，。！？、；：“”‘’（）【】]`)
	whitespaceRun      = regexp.MustCompile(`\s+`)
	callPattern        = regexp.MustCompile(`\b\w+\([^)]*\)`)
	callCapture        = regexp.MustCompile(`(\w+)\(([^)]*)\)`)
	arrayParam         = regexp.MustCompile(`(\w+)=\[([^\]]*)\]`)
	kvParam            = regexp.MustCompile(`(\w+)=(?:"([^"]*)"|([^,\s]*))`)
	bareArray          = regexp.MustCompile(`\[([^\]]*)\]`)
	bareQuoted         = regexp.MustCompile(`"([^"]*)"`)
)

// Structured recognizes the call-style grammar some protocols emit, e.g.
// Tap(x=500, y=800), Launch("京东"), or do(action="click", x=1, y=2).
type Structured struct{}

func cleanCallText(s string) string {
	s = chinesePunctuation.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func (Structured) CanParse(raw string) bool {
	return callPattern.MatchString(cleanCallText(strings.TrimSpace(raw)))
}

func (Structured) Parse(raw string) (action.Action, error) {
	cleaned := cleanCallText(strings.TrimSpace(raw))

	m := callCapture.FindStringSubmatch(cleaned)
	if m == nil {
		return action.Action{}, fmt.Errorf("structured parser: no call expression found")
	}
	wrapper, paramsStr := m[1], m[2]

	params := make(map[string]any)
	remaining := paramsStr

	if paramsStr != "" {
		for _, am := range arrayParam.FindAllStringSubmatch(paramsStr, -1) {
			params[am[1]] = splitArrayElements(am[2])
		}
		remaining = arrayParam.ReplaceAllString(paramsStr, "")

		for _, pm := range kvParam.FindAllStringSubmatch(remaining, -1) {
			key := pm[1]
			value := pm[2]
			if value == "" {
				value = pm[3]
			}
			params[key] = coerceValue(value)
		}

		if len(params) == 0 && strings.TrimSpace(paramsStr) != "" {
			if am := bareArray.FindStringSubmatch(paramsStr); am != nil {
				params[defaultParamName(wrapper)] = splitArrayElements(am[1])
			} else if qm := bareQuoted.FindStringSubmatch(paramsStr); qm != nil {
				params[defaultParamName(wrapper)] = qm[1]
			}
		}
	}

	kindStr := wrapper
	if strings.EqualFold(wrapper, "do") {
		if v, ok := params["action"]; ok {
			if s, ok := v.(string); ok {
				kindStr = s
				delete(params, "action")
			}
		}
	}

	kind, ok := normalizeKind(kindStr)
	if !ok {
		return action.Action{}, fmt.Errorf("structured parser: unrecognized action kind %q", kindStr)
	}
	elementToXY(kind, params)

	reasoning := raw
	if len(reasoning) > 100 {
		reasoning = reasoning[:100] + "..."
	}

	return action.Action{Kind: kind, Params: params, Reasoning: "parsed from structured call: " + reasoning}, nil
}

// elementToXY maps the autoglm grammar's element=[x,y] param onto the
// closed action vocabulary's {x,y} params, for any kind whose schema
// expects both — do(action="Tap", element=[500,500]) otherwise leaves
// "element" as a two-item list nothing downstream reads (P1, E2, E3).
func elementToXY(kind action.Kind, params map[string]any) {
	raw, ok := params["element"]
	if !ok {
		return
	}
	arr, ok := raw.([]any)
	if !ok || len(arr) < 2 {
		return
	}
	def, ok := action.Lookup(kind)
	if !ok {
		return
	}
	hasX, hasY := false, false
	for _, p := range def.Params {
		switch p.Name {
		case "x":
			hasX = true
		case "y":
			hasY = true
		}
	}
	if !hasX || !hasY {
		return
	}
	params["x"] = arr[0]
	params["y"] = arr[1]
	delete(params, "element")
}

func splitArrayElements(content string) []any {
	parts := strings.Split(content, ",")
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		out = append(out, coerceValue(strings.TrimSpace(p)))
	}
	return out
}
