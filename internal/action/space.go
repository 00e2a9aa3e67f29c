// Package action defines the closed action vocabulary the agent can emit:
// the set of kinds, their parameter schemas, and validation against those
// schemas. Nothing here talks to a device or an LLM.
package action

import "fmt"

// Kind is one of the fixed action kinds the agent may emit. The set is
// closed: there is no mechanism to register a new kind at runtime.
type Kind string

const (
	Click       Kind = "click"
	LongClick   Kind = "long_click"
	DoubleClick Kind = "double_click"

	Swipe       Kind = "swipe"
	ScrollUp    Kind = "scroll_up"
	ScrollDown  Kind = "scroll_down"
	ScrollLeft  Kind = "scroll_left"
	ScrollRight Kind = "scroll_right"

	Type  Kind = "type"
	Clear Kind = "clear"

	Back   Kind = "back"
	Home   Kind = "home"
	Recent Kind = "recent"

	Wait Kind = "wait"

	Finish Kind = "finish"
	Fail   Kind = "fail"

	LaunchApp  Kind = "launch_app"
	PressKey   Kind = "press_key"
	Screenshot Kind = "screenshot"

	Think Kind = "think"
	Plan  Kind = "plan"
)

// ParamType is the scalar type a parameter's value must conform to.
type ParamType int

const (
	TypeInt ParamType = iota
	TypeString
	TypeFloat
	TypeStringList
)

// ParamSpec describes one parameter of an action definition: its name,
// type, whether it is required, its default when omitted, and (for
// numeric types) the inclusive bounds a value must fall within.
type ParamSpec struct {
	Name        string
	Type        ParamType
	Required    bool
	Default     any
	Description string
	Min, Max    float64 // zero value means "no bound" when MinSet/MaxSet is false
	MinSet      bool
	MaxSet      bool
}

// Definition is the schema for one action kind: its parameters and a
// couple of flags the executor and prompt builder consult.
type Definition struct {
	Kind                Kind
	Description         string
	Params              []ParamSpec
	ReturnsResult       bool // finish/fail/screenshot: produces a result payload, not a device effect
	RequiresScreenshot  bool // whether executing this kind should be followed by a fresh screenshot
}

// space is the fixed registry of every known action definition, built once
// at init and never mutated afterward — there is no RegisterCustom hook,
// unlike the Python original, because this vocabulary is closed by design.
var space = map[Kind]Definition{}

func init() {
	reg := func(d Definition) { space[d.Kind] = d }

	coordParams := func(extra ...ParamSpec) []ParamSpec {
		base := []ParamSpec{
			{Name: "x", Type: TypeInt, Required: true, Description: "X coordinate (0-1000)"},
			{Name: "y", Type: TypeInt, Required: true, Description: "Y coordinate (0-1000)"},
		}
		return append(base, extra...)
	}

	reg(Definition{Kind: Click, Description: "tap the screen at a point", Params: coordParams(), RequiresScreenshot: true})
	reg(Definition{
		Kind:        LongClick,
		Description: "long-press the screen at a point",
		Params: coordParams(ParamSpec{
			Name: "duration", Type: TypeInt, Required: false, Default: 1000,
			Description: "press duration in ms", Min: 100, Max: 5000, MinSet: true, MaxSet: true,
		}),
		RequiresScreenshot: true,
	})
	reg(Definition{Kind: DoubleClick, Description: "double-tap the screen at a point", Params: coordParams(), RequiresScreenshot: true})

	reg(Definition{
		Kind:        Swipe,
		Description: "swipe from one point to another",
		Params: []ParamSpec{
			{Name: "x1", Type: TypeInt, Required: true, Description: "start X (0-1000)"},
			{Name: "y1", Type: TypeInt, Required: true, Description: "start Y (0-1000)"},
			{Name: "x2", Type: TypeInt, Required: true, Description: "end X (0-1000)"},
			{Name: "y2", Type: TypeInt, Required: true, Description: "end Y (0-1000)"},
			{Name: "duration", Type: TypeInt, Required: false, Default: 300, Description: "swipe duration in ms", Min: 50, Max: 5000, MinSet: true, MaxSet: true},
		},
		RequiresScreenshot: true,
	})

	scrollParams := []ParamSpec{
		{Name: "distance", Type: TypeInt, Required: false, Default: 500, Description: "scroll distance", Min: 100, Max: 2000, MinSet: true, MaxSet: true},
	}
	reg(Definition{Kind: ScrollUp, Description: "scroll up", Params: scrollParams, RequiresScreenshot: true})
	reg(Definition{Kind: ScrollDown, Description: "scroll down", Params: scrollParams, RequiresScreenshot: true})
	reg(Definition{Kind: ScrollLeft, Description: "scroll left", Params: scrollParams, RequiresScreenshot: true})
	reg(Definition{Kind: ScrollRight, Description: "scroll right", Params: scrollParams, RequiresScreenshot: true})

	reg(Definition{
		Kind: Type, Description: "type text into the focused field",
		Params:             []ParamSpec{{Name: "text", Type: TypeString, Required: true, Description: "text to type"}},
		RequiresScreenshot: true,
	})
	reg(Definition{
		Kind: Clear, Description: "clear an input field",
		Params: []ParamSpec{
			{Name: "x", Type: TypeInt, Required: false, Description: "field X coordinate"},
			{Name: "y", Type: TypeInt, Required: false, Description: "field Y coordinate"},
		},
		RequiresScreenshot: true,
	})

	reg(Definition{Kind: Back, Description: "go back", RequiresScreenshot: true})
	reg(Definition{Kind: Home, Description: "go to the home screen", RequiresScreenshot: true})
	reg(Definition{Kind: Recent, Description: "show recent apps", RequiresScreenshot: true})

	reg(Definition{
		Kind: Wait, Description: "wait for a duration",
		Params: []ParamSpec{
			{Name: "duration", Type: TypeInt, Required: false, Default: 1, Description: "wait time in seconds", Min: 0, Max: 60, MinSet: true, MaxSet: true},
		},
	})

	reg(Definition{
		Kind: Finish, Description: "finish the task",
		Params: []ParamSpec{
			{Name: "status", Type: TypeString, Required: false, Default: "success", Description: "success/failed"},
			{Name: "message", Type: TypeString, Required: false, Default: "", Description: "result message"},
		},
		ReturnsResult: true,
	})
	reg(Definition{
		Kind: Fail, Description: "fail the task",
		Params:        []ParamSpec{{Name: "reason", Type: TypeString, Required: true, Description: "failure reason"}},
		ReturnsResult: true,
	})

	reg(Definition{
		Kind: LaunchApp, Description: "launch an application",
		Params: []ParamSpec{
			{Name: "app", Type: TypeString, Required: true, Description: "app name or package id"},
			{Name: "activity", Type: TypeString, Required: false, Default: "", Description: "activity to launch"},
		},
		RequiresScreenshot: true,
	})
	reg(Definition{
		Kind: PressKey, Description: "press a physical key",
		Params:             []ParamSpec{{Name: "keycode", Type: TypeInt, Required: true, Description: "key code"}},
		RequiresScreenshot: true,
	})
	reg(Definition{Kind: Screenshot, Description: "capture a screenshot", ReturnsResult: true})

	reg(Definition{
		Kind: Think, Description: "emit a reasoning step",
		Params: []ParamSpec{{Name: "thought", Type: TypeString, Required: true, Description: "the reasoning content"}},
	})
	reg(Definition{
		Kind: Plan, Description: "emit a task plan",
		Params: []ParamSpec{{Name: "steps", Type: TypeStringList, Required: true, Description: "ordered list of plan step descriptions"}},
	})
}

// Lookup returns the definition for kind and whether it is known.
func Lookup(k Kind) (Definition, bool) {
	d, ok := space[k]
	return d, ok
}

// All returns every registered kind, in a stable declaration order.
func All() []Kind {
	order := []Kind{
		Click, LongClick, DoubleClick,
		Swipe, ScrollUp, ScrollDown, ScrollLeft, ScrollRight,
		Type, Clear,
		Back, Home, Recent,
		Wait,
		Finish, Fail,
		LaunchApp, PressKey, Screenshot,
		Think, Plan,
	}
	return order
}

// Prompt renders the human-readable action list used in the system prompt,
// in the same "- kind(params): description" shape the original's
// get_action_prompt produces.
func Prompt() string {
	out := "Available actions:\n"
	for _, k := range All() {
		def := space[k]
		out += fmt.Sprintf("  - %s(%s): %s\n", k, paramSummary(def.Params), def.Description)
	}
	return out
}

func paramSummary(params []ParamSpec) string {
	s := ""
	for i, p := range params {
		if i > 0 {
			s += ", "
		}
		if p.Required {
			s += fmt.Sprintf("%s: %s", p.Name, typeName(p.Type))
		} else {
			s += fmt.Sprintf("%s?: %s = %v", p.Name, typeName(p.Type), p.Default)
		}
	}
	return s
}

func typeName(t ParamType) string {
	switch t {
	case TypeInt:
		return "int"
	case TypeString:
		return "str"
	case TypeFloat:
		return "float"
	case TypeStringList:
		return "list"
	default:
		return "any"
	}
}
