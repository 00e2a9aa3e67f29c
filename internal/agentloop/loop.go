// Package agentloop drives one session from task to terminal event:
// capture a screenshot, build a prompt, stream the model's reply through
// the thinking/action splitter, parse and dispatch the resulting action,
// and repeat until the action says finish/fail, the step budget runs out,
// or the session is cancelled. Ported from mobile_agent.py's MobileAgent
// .run/_execute_step, generalized to emit event.Event through a
// mobilesession.Session rather than yielding dict-shaped StepEvents
// (SPEC_FULL.md §9).
package agentloop

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aitoearn/mobile-agent-go/internal/action"
	"github.com/aitoearn/mobile-agent-go/internal/agentctx"
	"github.com/aitoearn/mobile-agent-go/internal/device"
	"github.com/aitoearn/mobile-agent-go/internal/event"
	"github.com/aitoearn/mobile-agent-go/internal/executor"
	"github.com/aitoearn/mobile-agent-go/internal/llmclient"
	"github.com/aitoearn/mobile-agent-go/internal/mobilesession"
	"github.com/aitoearn/mobile-agent-go/internal/parser"
)

// settleDelay is the fixed UI-settle sleep taken before every screenshot
// capture, ported from _execute_step's asyncio.sleep(0.5).
const settleDelay = 500 * time.Millisecond

// Config tunes the loop's termination and per-request limits. Zero
// values fall back to SPEC_FULL.md's documented defaults via maxSteps
// and requestTimeout.
type Config struct {
	MaxSteps       int           // default 20
	RequestTimeout time.Duration // per-LLM-call deadline, default 120s
	EnablePlanning bool          // emit one plan event before the first step
}

// DefaultConfig matches the spec's documented defaults.
func DefaultConfig() Config {
	return Config{MaxSteps: 20, RequestTimeout: 120 * time.Second}
}

// llmCaller is the subset of *llmclient.Client the loop depends on,
// narrowed to an interface so tests can drive the loop against a fake
// model without a network call.
type llmCaller interface {
	Call(ctx context.Context, msgs []agentctx.Message) (llmclient.Reply, error)
	CallStream(ctx context.Context, msgs []agentctx.Message, onChunk llmclient.StreamCallback) (llmclient.Reply, error)
}

// Loop ties every C6-C11 component together for one running session.
type Loop struct {
	Session  *mobilesession.Session
	Device   device.Device
	Builder  *agentctx.Builder
	Client   llmCaller
	Executor *executor.Executor
	Parser   *parser.Composite
	Config   Config
}

// New builds a Loop from its already-constructed collaborators. Parser
// defaults to the standard composite chain when nil.
func New(sess *mobilesession.Session, dev device.Device, builder *agentctx.Builder, client *llmclient.Client, exec *executor.Executor, cfg Config) *Loop {
	return &Loop{
		Session:  sess,
		Device:   dev,
		Builder:  builder,
		Client:   client,
		Executor: exec,
		Parser:   parser.NewComposite(),
		Config:   cfg,
	}
}

func (l *Loop) maxSteps() int {
	if l.Config.MaxSteps > 0 {
		return l.Config.MaxSteps
	}
	return 20
}

func (l *Loop) requestTimeout() time.Duration {
	if l.Config.RequestTimeout > 0 {
		return l.Config.RequestTimeout
	}
	return 120 * time.Second
}

// Run executes the bounded perception/decision/actuation loop until a
// terminal event is emitted. It blocks; callers typically invoke it from
// its own goroutine and drive the session's Sink concurrently.
func (l *Loop) Run(ctx context.Context) {
	sess := l.Session
	start := time.Now()

	if _, err := l.Device.Screenshot(ctx); err != nil {
		sess.Emit(event.Event{Kind: event.KindError, Err: fmt.Sprintf("initial screenshot failed: %v", err)})
		sess.Finish(mobilesession.StatusError, err)
		return
	}

	sess.History.Clear()

	if l.Config.EnablePlanning {
		steps, err := RunPlanner(ctx, l.Client, sess.Task)
		if err != nil {
			sess.Emit(event.Event{Kind: event.KindWarning, Warning: fmt.Sprintf("planning failed: %v", err)})
		} else if len(steps) > 0 {
			sess.Emit(event.Event{Kind: event.KindPlan, Plan: steps})
		}
	}

	stepNum := 0
	for stepNum < l.maxSteps() {
		if sess.Cancelled() {
			sess.Emit(event.Event{Kind: event.KindCancelled, Reason: "cancellation requested"})
			sess.Finish(mobilesession.StatusCancelled, nil)
			return
		}

		if res := sess.History.CheckLoop(); res.Detected {
			sess.Emit(event.Event{Kind: event.KindWarning, Warning: res.Description})
		}

		stepNum++
		outcome := l.executeStep(ctx, stepNum)

		if outcome.cancelled {
			sess.Emit(event.Event{Kind: event.KindCancelled, Reason: "cancellation requested"})
			sess.Finish(mobilesession.StatusCancelled, nil)
			return
		}

		if outcome.finished {
			status := mobilesession.StatusDone
			if !outcome.success {
				status = mobilesession.StatusError
			}
			sess.Finish(status, nil)
			sess.Emit(event.Event{
				Kind:     event.KindDone,
				Solution: outcome.message,
				Stats:    &event.Stats{Steps: stepNum, ElapsedMs: time.Since(start).Milliseconds()},
			})
			return
		}
	}

	sess.Finish(mobilesession.StatusError, nil)
	sess.Emit(event.Event{
		Kind:    event.KindDone,
		Message: "max steps reached",
		Stats:   &event.Stats{Steps: stepNum, ElapsedMs: time.Since(start).Milliseconds()},
	})
}

// stepOutcome reports how one step ended to the driving loop above.
type stepOutcome struct {
	finished  bool
	success   bool // only meaningful when finished: did the task conclude successfully
	cancelled bool
	message   string
}

// executeStep runs one full perception -> decision -> parsing -> actuation
// cycle, ported from _execute_step. Any error that is not a cancellation
// is folded into the returned outcome or an emitted event rather than a
// Go error — matching §7's error taxonomy, where only Fatal (handled in
// Run, before the loop starts) and Cancelled ever unwind the session.
func (l *Loop) executeStep(ctx context.Context, stepNum int) stepOutcome {
	sess := l.Session

	if err := l.Device.Wait(ctx, settleDelay); err != nil {
		return stepOutcome{cancelled: true}
	}

	screenshotPNG, err := l.Device.Screenshot(ctx)
	if err != nil {
		sess.Emit(event.Event{Kind: event.KindError, Step: stepNum, Err: fmt.Sprintf("screenshot failed: %v", err)})
		sess.Emit(event.Event{Kind: event.KindStep, Step: stepNum, Success: false, Finished: true, Message: "screenshot failed"})
		return stepOutcome{finished: true, success: false, message: "screenshot failed"}
	}

	quality := 90
	if sess.Adapter != nil {
		quality = sess.Adapter.Config().ImageQuality
	}
	screenshotB64, err := encodeJPEGBase64(screenshotPNG, quality)
	if err != nil {
		sess.Emit(event.Event{Kind: event.KindError, Step: stepNum, Err: fmt.Sprintf("screenshot encode failed: %v", err)})
		sess.Emit(event.Event{Kind: event.KindStep, Step: stepNum, Success: false, Finished: true, Message: "screenshot encode failed"})
		return stepOutcome{finished: true, success: false, message: "screenshot encode failed"}
	}

	currentApp, _ := l.Device.CurrentApp(ctx)
	screenSize, err := l.Device.ScreenSize(ctx)
	if err != nil && sess.Adapter != nil {
		img := sess.Adapter.Config().Image
		screenSize = device.Size{Width: img.Width, Height: img.Height}
	}

	observation := fmt.Sprintf(`{"current_app": %q}`, currentApp)
	messages := l.Builder.BuildMessages(sess.Task, screenshotB64, observation, sess.History.All())

	splitter := NewSplitter(sess.Adapter.ActionMarkers())
	stepCtx, cancel := context.WithTimeout(ctx, l.requestTimeout())
	defer cancel()

	_, err = l.Client.CallStream(stepCtx, messages, func(chunk string) {
		if thinking := splitter.Feed(chunk); thinking != "" {
			sess.Emit(event.Event{Kind: event.KindThinking, Step: stepNum, Thinking: thinking})
		}
	})
	if sess.Cancelled() {
		return stepOutcome{cancelled: true}
	}
	if err != nil {
		sess.Emit(event.Event{Kind: event.KindError, Step: stepNum, Err: fmt.Sprintf("model error: %v", err)})
		return stepOutcome{message: err.Error()}
	}

	trailing, candidate := splitter.Finalize()
	if trailing != "" {
		sess.Emit(event.Event{Kind: event.KindThinking, Step: stepNum, Thinking: trailing})
	}

	act, err := l.Parser.Parse(candidate)
	if err != nil {
		sess.Emit(event.Event{Kind: event.KindStep, Step: stepNum, Success: false, Finished: true, Message: "cannot parse action"})
		return stepOutcome{finished: true, success: false, message: "cannot parse action"}
	}

	if errs := action.Validate(act.Kind, act.Params); len(errs) > 0 {
		msg := strings.Join(errs, "; ")
		sess.History.Add(act, msg, "", map[string]any{"rejected": true})
		sess.Emit(event.Event{Kind: event.KindStep, Step: stepNum, ActionDesc: act.Describe(), Success: false, Finished: true, Message: msg})
		return stepOutcome{finished: true, success: false, message: msg}
	}

	sess.Emit(event.Event{Kind: event.KindAction, Step: stepNum, ActionDesc: act.Describe()})

	result, execErr := l.Executor.Execute(ctx, act, screenSize.Width, screenSize.Height)
	if execErr != nil {
		return stepOutcome{cancelled: true}
	}

	finished := act.Kind == action.Finish || act.Kind == action.Fail
	taskSuccess := finished && act.Kind == action.Finish
	sess.History.Add(act, result.Message, "", nil)

	postShot := screenshotB64
	if raw, err := l.Device.Screenshot(ctx); err == nil {
		if encoded, err := encodeJPEGBase64(raw, quality); err == nil {
			postShot = encoded
		}
	}

	sess.Emit(event.Event{
		Kind:        event.KindStep,
		Step:        stepNum,
		ActionDesc:  act.Describe(),
		Observation: result.Message,
		Success:     result.Success,
		Finished:    finished,
		Message:     result.Message,
		Screenshot:  postShot,
	})

	return stepOutcome{finished: finished, success: taskSuccess, message: result.Message}
}
