// Package executor dispatches a parsed action.Action to a device.Device,
// ported from mobile_agent.py's _execute_action: one case per action
// kind, a fixed settling delay after the kinds that change what's on
// screen, and a uniform error shape for anything that fails.
//
// wait's duration is interpreted in seconds, default 1, per §4.8 —
// coercing a string value (the autoglm grammar's duration="2 seconds")
// to its leading number rather than requiring a bare integer.
package executor

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aitoearn/mobile-agent-go/internal/action"
	"github.com/aitoearn/mobile-agent-go/internal/agentcore"
	"github.com/aitoearn/mobile-agent-go/internal/coord"
	"github.com/aitoearn/mobile-agent-go/internal/device"
	"github.com/aitoearn/mobile-agent-go/internal/protocol"
)

// Settling delays applied after an action changes what's on screen,
// ported verbatim from _execute_action's asyncio.sleep calls.
const (
	launchSettleDelay = 2 * time.Second
	tapSettleDelay    = 1 * time.Second
	typeSettleDelay   = 500 * time.Millisecond
)

// Result is the outcome of executing one action.
type Result struct {
	Success bool
	Message string
}

// Executor binds a device to a coordinate scale so tap/swipe/long-click
// targets can be mapped from the model's normalized space to pixels.
type Executor struct {
	Device  device.Device
	Adapter protocol.Adapter
}

// New builds an Executor for one device/adapter pair.
func New(d device.Device, adapter protocol.Adapter) *Executor {
	return &Executor{Device: d, Adapter: adapter}
}

// Execute dispatches act, blocking for its device effect plus any
// settling delay. ctx cancellation aborts mid-dispatch; a device error is
// reported in Result rather than returned, matching the original's
// try/except-wraps-everything shape — only ctx cancellation surfaces as a
// Go error, since that's a loop-level concern, not a per-step one.
func (e *Executor) Execute(ctx context.Context, act action.Action, screenW, screenH int) (Result, error) {
	switch act.Kind {
	case action.Click, action.LongClick, action.DoubleClick:
		return e.dispatchTap(ctx, act, screenW, screenH)
	case action.Swipe:
		return e.dispatchSwipe(ctx, act, screenW, screenH)
	case action.ScrollUp, action.ScrollDown, action.ScrollLeft, action.ScrollRight:
		return e.dispatchScroll(ctx, act, screenW, screenH)
	case action.Type:
		return e.dispatchType(ctx, act)
	case action.Clear:
		return e.dispatchClear(ctx, act, screenW, screenH)
	case action.Back:
		return wrap(e.Device.Back(ctx), "went back")
	case action.Home:
		return wrap(e.Device.Home(ctx), "returned home")
	case action.Recent:
		return wrap(e.Device.Recent(ctx), "opened recents")
	case action.Wait:
		return e.dispatchWait(ctx, act)
	case action.LaunchApp:
		return e.dispatchLaunch(ctx, act)
	case action.PressKey:
		return e.dispatchPressKey(ctx, act)
	case action.Screenshot:
		return e.dispatchScreenshot(ctx)
	case action.Finish:
		// Bookkeeping kind: the agent loop, not the device, handles
		// termination. Surface the model's own message rather than a
		// fixed acknowledgement string, so step/done events carry it.
		return Result{Success: true, Message: stringParam(act.Params, "message", "")}, nil
	case action.Fail:
		return Result{Success: false, Message: stringParam(act.Params, "reason", "")}, nil
	case action.Think, action.Plan:
		// Pure bookkeeping kinds: nothing to dispatch here.
		return Result{Success: true, Message: fmt.Sprintf("%s acknowledged", act.Kind)}, nil
	default:
		return Result{Success: false, Message: fmt.Sprintf("unknown action: %s", act.Kind)}, nil
	}
}

func wrap(err error, okMsg string) (Result, error) {
	if err != nil {
		return Result{Success: false, Message: err.Error()}, nil
	}
	return Result{Success: true, Message: okMsg}, nil
}

func intParam(params map[string]any, name string, def int) int {
	v, ok := params[name]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

func stringParam(params map[string]any, name, def string) string {
	if v, ok := params[name]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func (e *Executor) toPixel(x, y, screenW, screenH int) coord.Pixel {
	scale := protocol.DefaultConfigs[protocol.Universal].CoordinateScale
	if e.Adapter != nil {
		scale = e.Adapter.Config().CoordinateScale
	}
	return coord.ToPixel(coord.Point{X: x, Y: y}, scale, screenW, screenH)
}

func (e *Executor) dispatchTap(ctx context.Context, act action.Action, screenW, screenH int) (Result, error) {
	x := intParam(act.Params, "x", 0)
	y := intParam(act.Params, "y", 0)
	px := e.toPixel(x, y, screenW, screenH)

	var err error
	switch act.Kind {
	case action.LongClick:
		// A zero-distance swipe held for duration is a long press.
		durMs := intParam(act.Params, "duration", 1000)
		err = e.Device.Swipe(ctx, px.X, px.Y, px.X, px.Y, time.Duration(durMs)*time.Millisecond)
	case action.DoubleClick:
		if err = e.Device.Tap(ctx, px.X, px.Y); err == nil {
			err = e.Device.Tap(ctx, px.X, px.Y)
		}
	default:
		err = e.Device.Tap(ctx, px.X, px.Y)
	}
	if err != nil {
		return Result{Success: false, Message: err.Error()}, nil
	}
	if err := e.Device.Wait(ctx, tapSettleDelay); err != nil {
		return Result{Success: false, Message: err.Error()}, err
	}
	return Result{Success: true, Message: fmt.Sprintf("tapped at (%d, %d)", px.X, px.Y)}, nil
}

func (e *Executor) dispatchSwipe(ctx context.Context, act action.Action, screenW, screenH int) (Result, error) {
	p1 := e.toPixel(intParam(act.Params, "x1", 0), intParam(act.Params, "y1", 0), screenW, screenH)
	p2 := e.toPixel(intParam(act.Params, "x2", 0), intParam(act.Params, "y2", 0), screenW, screenH)
	durMs := intParam(act.Params, "duration", 300)

	if err := e.Device.Swipe(ctx, p1.X, p1.Y, p2.X, p2.Y, time.Duration(durMs)*time.Millisecond); err != nil {
		return Result{Success: false, Message: err.Error()}, nil
	}
	return Result{Success: true, Message: fmt.Sprintf("swiped (%d,%d)->(%d,%d)", p1.X, p1.Y, p2.X, p2.Y)}, nil
}

// dispatchScroll renders a cardinal scroll as a swipe across the middle
// of the screen, matching the original's direction-keyed dispatch in
// _execute_action (it calls device.swipe_up/down/left/right, which are
// themselves thin swipe wrappers).
func (e *Executor) dispatchScroll(ctx context.Context, act action.Action, screenW, screenH int) (Result, error) {
	distance := intParam(act.Params, "distance", 500)
	cx, cy := screenW/2, screenH/2

	var x1, y1, x2, y2 int
	switch act.Kind {
	case action.ScrollUp:
		x1, y1, x2, y2 = cx, cy+distance/2, cx, cy-distance/2
	case action.ScrollDown:
		x1, y1, x2, y2 = cx, cy-distance/2, cx, cy+distance/2
	case action.ScrollLeft:
		x1, y1, x2, y2 = cx+distance/2, cy, cx-distance/2, cy
	case action.ScrollRight:
		x1, y1, x2, y2 = cx-distance/2, cy, cx+distance/2, cy
	}
	if err := e.Device.Swipe(ctx, x1, y1, x2, y2, 300*time.Millisecond); err != nil {
		return Result{Success: false, Message: err.Error()}, nil
	}
	return Result{Success: true, Message: fmt.Sprintf("scrolled %s", act.Kind)}, nil
}

func (e *Executor) dispatchType(ctx context.Context, act action.Action) (Result, error) {
	text := stringParam(act.Params, "text", "")
	if err := e.Device.TypeText(ctx, text); err != nil {
		return Result{Success: false, Message: err.Error()}, nil
	}
	if err := e.Device.Wait(ctx, typeSettleDelay); err != nil {
		return Result{Success: false, Message: err.Error()}, err
	}
	return Result{Success: true, Message: fmt.Sprintf("typed: %s", text)}, nil
}

// dispatchClear taps the field (if coordinates were given) then sends a
// single delete key press. It does not select the field's text first, so
// only the character before the cursor is removed.
func (e *Executor) dispatchClear(ctx context.Context, act action.Action, screenW, screenH int) (Result, error) {
	if _, hasX := act.Params["x"]; hasX {
		px := e.toPixel(intParam(act.Params, "x", 0), intParam(act.Params, "y", 0), screenW, screenH)
		if err := e.Device.Tap(ctx, px.X, px.Y); err != nil {
			return Result{Success: false, Message: err.Error()}, nil
		}
	}
	if err := e.Device.PressKey(ctx, "delete"); err != nil {
		return Result{Success: false, Message: err.Error()}, nil
	}
	return Result{Success: true, Message: "cleared field"}, nil
}

var leadingNumber = regexp.MustCompile(`^-?\d+(\.\d+)?`)

// durationSeconds coerces a wait duration param to seconds: numeric
// values are used as-is, and a string is read for its leading number (so
// duration="2 seconds" still resolves), matching §4.8's "coerce strings
// to number, default 1" rule.
func durationSeconds(params map[string]any, name string, def float64) float64 {
	v, ok := params[name]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	case float32:
		return float64(n)
	case string:
		m := leadingNumber.FindString(strings.TrimSpace(n))
		if m == "" {
			return def
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}

func (e *Executor) dispatchWait(ctx context.Context, act action.Action) (Result, error) {
	secs := durationSeconds(act.Params, "duration", 1)
	if err := e.Device.Wait(ctx, time.Duration(secs*float64(time.Second))); err != nil {
		return Result{Success: false, Message: err.Error()}, nil
	}
	return Result{Success: true, Message: fmt.Sprintf("waited %gs", secs)}, nil
}

func (e *Executor) dispatchLaunch(ctx context.Context, act action.Action) (Result, error) {
	name := stringParam(act.Params, "app", "")
	pkg := agentcore.ResolvePackageName(name)
	if err := e.Device.LaunchApp(ctx, pkg); err != nil {
		return Result{Success: false, Message: err.Error()}, nil
	}
	if err := e.Device.Wait(ctx, launchSettleDelay); err != nil {
		return Result{Success: false, Message: err.Error()}, err
	}
	return Result{Success: true, Message: fmt.Sprintf("launched %s", pkg)}, nil
}

func (e *Executor) dispatchPressKey(ctx context.Context, act action.Action) (Result, error) {
	key := stringParam(act.Params, "keycode", "")
	if v, ok := act.Params["keycode"]; ok && key == "" {
		// keycode is declared an int in the action schema.
		key = fmt.Sprint(v)
	}
	if err := e.Device.PressKey(ctx, key); err != nil {
		return Result{Success: false, Message: err.Error()}, nil
	}
	return Result{Success: true, Message: fmt.Sprintf("pressed %s", key)}, nil
}

func (e *Executor) dispatchScreenshot(ctx context.Context) (Result, error) {
	_, err := e.Device.Screenshot(ctx)
	if err != nil {
		return Result{Success: false, Message: err.Error()}, nil
	}
	return Result{Success: true, Message: "screenshot captured"}, nil
}
