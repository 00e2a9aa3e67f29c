package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aitoearn/mobile-agent-go/internal/action"
	"github.com/aitoearn/mobile-agent-go/internal/coord"
	"github.com/aitoearn/mobile-agent-go/internal/parser"
)

// Adapter is the closed set of protocol variants: Universal, AutoGLM, or
// Gelab. There is no registration hook for a fourth kind — adding a
// protocol means adding a case here, not implementing an interface
// somewhere else in the tree.
type Adapter interface {
	Name() Name
	Config() Config
	// AdaptCoordinates maps a normalized point in this protocol's own
	// coordinate space into device pixels.
	AdaptCoordinates(p coord.Point, screenW, screenH int) coord.Pixel
	// FormatAction renders an action in this protocol's wire format, for
	// inclusion in a prompt example or a replay log.
	FormatAction(a action.Action) string
	// ParseAction parses one raw model turn into an Action using this
	// protocol's native sub-parser (AutoGLM also accepts JSON); the full
	// cross-format composite lives in package parser.
	ParseAction(raw string) (action.Action, error)
	// AdaptSystemPrompt appends this protocol's action-format section to
	// a base system prompt.
	AdaptSystemPrompt(base string) string
	// ActionMarkers lists literals whose first appearance in streamed
	// text marks the thinking-to-action transition, used by the agent
	// loop's streaming splitter (see internal/agentloop/splitter.go).
	ActionMarkers() []string
}

// New returns the Adapter for name, defaulting to Universal for any name
// outside the closed set — matching AdapterFactory.get_adapter's fallback.
func New(name Name) Adapter {
	switch name {
	case AutoGLM:
		return autoglmAdapter{cfg: ConfigFor(AutoGLM)}
	case Gelab:
		return gelabAdapter{cfg: ConfigFor(Gelab)}
	default:
		return universalAdapter{cfg: ConfigFor(Universal)}
	}
}

// DetectAndNew combines Detect and New, the Go equivalent of
// AdapterFactory.detect_and_get_adapter.
func DetectAndNew(modelName string) Adapter {
	return New(Detect(modelName))
}

// ── Universal: JSON wire format ──

type universalAdapter struct{ cfg Config }

func (a universalAdapter) Name() Name     { return Universal }
func (a universalAdapter) Config() Config { return a.cfg }

func (a universalAdapter) AdaptCoordinates(p coord.Point, screenW, screenH int) coord.Pixel {
	return coord.ToPixel(p, a.cfg.CoordinateScale, screenW, screenH)
}

func (a universalAdapter) FormatAction(act action.Action) string {
	payload := map[string]any{"action": string(act.Kind), "params": act.Params}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(`{"action":%q,"params":{}}`, act.Kind)
	}
	return string(b)
}

func (a universalAdapter) ParseAction(raw string) (action.Action, error) {
	j := parser.JSON{}
	if !j.CanParse(raw) {
		return action.Action{}, fmt.Errorf("universal adapter: not a recognizable JSON action")
	}
	return j.Parse(raw)
}

func (a universalAdapter) AdaptSystemPrompt(base string) string {
	return base + "\n" + universalActionFormat
}

func (a universalAdapter) ActionMarkers() []string {
	return []string{`{"action"`}
}

const universalActionFormat = `Return the action as JSON:
{
  "action": "<action kind>",
  "params": { ... },
  "reasoning": "optional reasoning"
}

Supported kinds include: click {x, y}, long_click {x, y, duration}, swipe
{x1, y1, x2, y2, duration}, type {text}, back, home, recent, wait
{duration}, finish {status, message}.`

// ── AutoGLM: call-syntax wire format, 0-999 coordinates ──

type autoglmAdapter struct{ cfg Config }

func (a autoglmAdapter) Name() Name     { return AutoGLM }
func (a autoglmAdapter) Config() Config { return a.cfg }

func (a autoglmAdapter) AdaptCoordinates(p coord.Point, screenW, screenH int) coord.Pixel {
	return coord.ToPixel(p, a.cfg.CoordinateScale, screenW, screenH)
}

func (a autoglmAdapter) FormatAction(act action.Action) string {
	switch act.Kind {
	case action.Click:
		return fmt.Sprintf("click(x=%v, y=%v)", act.Params["x"], act.Params["y"])
	case action.LongClick:
		dur := act.Params["duration"]
		if dur == nil {
			dur = 1000
		}
		return fmt.Sprintf("long_click(x=%v, y=%v, duration=%v)", act.Params["x"], act.Params["y"], dur)
	case action.Swipe:
		return fmt.Sprintf("swipe(x1=%v, y1=%v, x2=%v, y2=%v)", act.Params["x1"], act.Params["y1"], act.Params["x2"], act.Params["y2"])
	case action.Type:
		return fmt.Sprintf("type(text=%q)", fmt.Sprint(act.Params["text"]))
	case action.Back:
		return "back()"
	case action.Home:
		return "home()"
	case action.Recent:
		return "recent()"
	case action.Wait:
		dur := act.Params["duration"]
		if dur == nil {
			dur = 1
		}
		return fmt.Sprintf("wait(duration=%v)", dur)
	case action.Finish:
		status := act.Params["status"]
		if status == nil {
			status = "success"
		}
		return fmt.Sprintf("finish(status=%v)", status)
	default:
		b, _ := json.Marshal(map[string]any{"action": string(act.Kind), "params": act.Params})
		return string(b)
	}
}

func (a autoglmAdapter) ParseAction(raw string) (action.Action, error) {
	s := parser.Structured{}
	trimmed := strings.TrimSpace(raw)
	if s.CanParse(trimmed) {
		if act, err := s.Parse(trimmed); err == nil {
			return act, nil
		}
	}
	j := parser.JSON{}
	if j.CanParse(trimmed) {
		return j.Parse(trimmed)
	}
	return action.Action{}, fmt.Errorf("autoglm adapter: not a recognizable call-syntax or JSON action")
}

func (a autoglmAdapter) AdaptSystemPrompt(base string) string {
	return base + "\n" + autoglmActionFormat
}

// ActionMarkers lists every "kind(" call prefix plus the do() wrapper's
// own marker, matching the original's do(action=...) unwrapping path.
func (a autoglmAdapter) ActionMarkers() []string {
	kinds := action.All()
	markers := make([]string, 0, len(kinds)+1)
	markers = append(markers, "do(action=")
	for _, k := range kinds {
		markers = append(markers, string(k)+"(")
	}
	return markers
}

const autoglmActionFormat = `Return the action using 0-999 coordinates in call syntax:
action_name(param1=value1, param2=value2)

Examples:
- click(x=500, y=500)
- long_click(x=500, y=500, duration=1000)
- swipe(x1=500, y1=800, x2=500, y2=200)
- type(text="hello")
- back()
- home()
- recent()
- wait(duration=1)
- finish(status=success)`

// ── Gelab: XML wire format, smaller screenshots ──

type gelabAdapter struct{ cfg Config }

func (a gelabAdapter) Name() Name     { return Gelab }
func (a gelabAdapter) Config() Config { return a.cfg }

func (a gelabAdapter) AdaptCoordinates(p coord.Point, screenW, screenH int) coord.Pixel {
	return coord.ToPixel(p, a.cfg.CoordinateScale, screenW, screenH)
}

func (a gelabAdapter) FormatAction(act action.Action) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<action type=%q>\n", act.Kind)
	for k, v := range act.Params {
		fmt.Fprintf(&b, "  <%s>%v</%s>\n", k, v, k)
	}
	b.WriteString("</action>")
	return b.String()
}

func (a gelabAdapter) ParseAction(raw string) (action.Action, error) {
	x := parser.XML{}
	if !x.CanParse(raw) {
		return action.Action{}, fmt.Errorf("gelab adapter: not a recognizable XML action")
	}
	return x.Parse(raw)
}

func (a gelabAdapter) AdaptSystemPrompt(base string) string {
	return base + "\n" + gelabActionFormat
}

func (a gelabAdapter) ActionMarkers() []string {
	return []string{"<action"}
}

const gelabActionFormat = `Return the action using 0-1000 coordinates as XML:
<action type="...">
  <param1>value1</param1>
</action>

Examples:
- <action type="click"><x>500</x><y>500</y></action>
- <action type="long_click"><x>500</x><y>500</y><duration>1000</duration></action>
- <action type="swipe"><x1>500</x1><y1>800</y1><x2>500</x2><y2>200</y2></action>
- <action type="type"><text>hello</text></action>
- <action type="back"></action>
- <action type="home"></action>
- <action type="finish"><status>success</status></action>`
