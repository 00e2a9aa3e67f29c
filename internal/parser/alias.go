package parser

import (
	"strings"

	"github.com/aitoearn/mobile-agent-go/internal/action"
)

// aliases maps loose model vocabulary onto the closed action kinds. Unlike
// the Python original, a string that matches neither a direct kind name nor
// an entry here is NOT defaulted to click — normalizeKind reports failure
// and the caller must treat the whole parse as unsuccessful (REDESIGNED:
// a silent wrong-action default is worse than a visible parse failure).
var aliases = map[string]action.Kind{
	"tap":        action.Click,
	"touch":      action.Click,
	"press":      action.Click,
	"long_press": action.LongClick,
	"long_tap":   action.LongClick,
	"input":      action.Type,
	"enter":      action.Type,
	"write":      action.Type,
	"return":     action.Back,
	"exit":       action.Back,
	"main":       action.Home,
	"desktop":    action.Home,
	"apps":       action.Recent,
	"tasks":      action.Recent,
	"sleep":      action.Wait,
	"pause":      action.Wait,
	"done":       action.Finish,
	"complete":   action.Finish,
	"success":    action.Finish,
	"error":      action.Fail,
	"failed":     action.Fail,
	"open_app":   action.LaunchApp,
	"start_app":  action.LaunchApp,
	"launch":     action.LaunchApp,
	"key":        action.PressKey,
	"capture":    action.Screenshot,
	"reflect":    action.Think,
	"reason":     action.Think,
}

// defaultParamNames gives the AutoGLM-style parser a parameter name to
// attach a bare positional value to, e.g. Launch("京东") -> {app: "京东"}.
var defaultParamNames = map[string]string{
	"launch":     "app",
	"launch_app": "app",
	"type":       "text",
	"tap":        "element",
	"click":      "element",
	"wait":       "duration",
	"finish":     "message",
}

// normalizeKind resolves raw model vocabulary to a known action.Kind. It
// reports ok=false instead of guessing when nothing matches.
func normalizeKind(raw string) (action.Kind, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if _, known := action.Lookup(action.Kind(s)); known {
		return action.Kind(s), true
	}
	if k, ok := aliases[s]; ok {
		return k, true
	}
	return "", false
}

func defaultParamName(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if name, ok := defaultParamNames[s]; ok {
		return name
	}
	return "value"
}
