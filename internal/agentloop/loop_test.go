package agentloop

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/aitoearn/mobile-agent-go/internal/agentctx"
	"github.com/aitoearn/mobile-agent-go/internal/device"
	"github.com/aitoearn/mobile-agent-go/internal/event"
	"github.com/aitoearn/mobile-agent-go/internal/executor"
	"github.com/aitoearn/mobile-agent-go/internal/llmclient"
	"github.com/aitoearn/mobile-agent-go/internal/mobilesession"
	"github.com/aitoearn/mobile-agent-go/internal/protocol"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to build test PNG: %v", err)
	}
	return buf.Bytes()
}

type fakeLoopDevice struct {
	screenshot []byte
	taps       int
}

func (d *fakeLoopDevice) ScreenSize(ctx context.Context) (device.Size, error) {
	return device.Size{Width: 1080, Height: 1920}, nil
}
func (d *fakeLoopDevice) Screenshot(ctx context.Context) ([]byte, error) { return d.screenshot, nil }
func (d *fakeLoopDevice) Tap(ctx context.Context, x, y int) error        { d.taps++; return nil }
func (d *fakeLoopDevice) Swipe(ctx context.Context, x1, y1, x2, y2 int, dur time.Duration) error {
	return nil
}
func (d *fakeLoopDevice) TypeText(ctx context.Context, text string) error { return nil }
func (d *fakeLoopDevice) PressKey(ctx context.Context, key string) error  { return nil }
func (d *fakeLoopDevice) Back(ctx context.Context) error                 { return nil }
func (d *fakeLoopDevice) Home(ctx context.Context) error                 { return nil }
func (d *fakeLoopDevice) Recent(ctx context.Context) error               { return nil }
func (d *fakeLoopDevice) LaunchApp(ctx context.Context, pkg string) error { return nil }
func (d *fakeLoopDevice) CurrentApp(ctx context.Context) (string, error) { return "com.example", nil }
func (d *fakeLoopDevice) Wait(ctx context.Context, dur time.Duration) error { return nil }

var _ device.Device = (*fakeLoopDevice)(nil)

// fakeLLM answers with a single scripted reply every call, ignoring the
// messages sent in — enough to drive the loop's control flow without a
// network call.
type fakeLLM struct {
	replies []string
	calls   int
}

func (f *fakeLLM) Call(ctx context.Context, msgs []agentctx.Message) (llmclient.Reply, error) {
	return f.next(), nil
}

func (f *fakeLLM) CallStream(ctx context.Context, msgs []agentctx.Message, onChunk llmclient.StreamCallback) (llmclient.Reply, error) {
	r := f.next()
	if onChunk != nil {
		onChunk(r.Text)
	}
	return r, nil
}

func (f *fakeLLM) next() llmclient.Reply {
	idx := f.calls
	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}
	f.calls++
	return llmclient.Reply{Text: f.replies[idx]}
}

var _ llmCaller = (*fakeLLM)(nil)

func newTestLoop(t *testing.T, replies []string) (*Loop, *mobilesession.Session) {
	t.Helper()
	adapter := protocol.New(protocol.Universal)
	sink := &collectingSink{}
	sess := mobilesession.New(context.Background(), "sess-1", "open settings", "device-1", protocol.Universal, 50, sink)
	dev := &fakeLoopDevice{screenshot: tinyPNG(t)}
	builder := agentctx.New(agentctx.DefaultConfig(), adapter)
	llm := &fakeLLM{replies: replies}
	exec := executor.New(dev, adapter)
	loop := New(sess, dev, builder, &llmclient.Client{}, exec, Config{MaxSteps: 5, RequestTimeout: time.Second})
	loop.Client = llm // swap in the fake after construction, exercising the llmCaller seam
	return loop, sess
}

type collectingSink struct {
	events []event.Event
}

func (s *collectingSink) Send(e event.Event) bool {
	s.events = append(s.events, e)
	return true
}

func TestLoopFinishesOnFinishAction(t *testing.T) {
	loop, sess := newTestLoop(t, []string{`{"action":"finish","params":{"status":"success","message":"done"}}`})
	loop.Run(context.Background())

	status, _ := sess.StatusNow()
	if status != mobilesession.StatusDone {
		t.Fatalf("expected StatusDone, got %v", status)
	}

	sink := sess.Sink.(*collectingSink)
	var doneEvent *event.Event
	for i, e := range sink.events {
		if e.Kind == event.KindDone {
			doneEvent = &sink.events[i]
		}
	}
	if doneEvent == nil {
		t.Fatal("expected a done event")
	}
	if doneEvent.Solution != "done" {
		t.Fatalf("expected done event to carry the finish message, got %q", doneEvent.Solution)
	}
}

func TestLoopStopsAtStepCapWhenModelNeverFinishes(t *testing.T) {
	loop, sess := newTestLoop(t, []string{`{"action":"click","params":{"x":500,"y":500}}`})
	loop.Config.MaxSteps = 3
	loop.Run(context.Background())

	status, _ := sess.StatusNow()
	if status != mobilesession.StatusError {
		t.Fatalf("expected StatusError after step cap, got %v", status)
	}

	sink := sess.Sink.(*collectingSink)
	stepEvents := 0
	for _, e := range sink.events {
		if e.Kind == event.KindStep {
			stepEvents++
		}
	}
	if stepEvents != 3 {
		t.Fatalf("expected exactly 3 step events, got %d", stepEvents)
	}
}

func TestLoopHonorsCancellation(t *testing.T) {
	loop, sess := newTestLoop(t, []string{`{"action":"click","params":{"x":500,"y":500}}`})
	sess.Cancel()
	loop.Run(context.Background())

	status, _ := sess.StatusNow()
	if status != mobilesession.StatusCancelled {
		t.Fatalf("expected StatusCancelled, got %v", status)
	}
}

func TestLoopEmitsActionBeforeStepPerIteration(t *testing.T) {
	loop, sess := newTestLoop(t, []string{`{"action":"finish","params":{"status":"success"}}`})
	loop.Run(context.Background())

	sink := sess.Sink.(*collectingSink)
	var sawAction, sawStepAfterAction bool
	for _, e := range sink.events {
		if e.Kind == event.KindAction {
			sawAction = true
		}
		if e.Kind == event.KindStep && sawAction {
			sawStepAfterAction = true
		}
	}
	if !sawAction || !sawStepAfterAction {
		t.Fatal("expected action event to precede its step event, per I6")
	}
}
