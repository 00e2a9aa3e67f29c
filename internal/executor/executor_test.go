package executor

import (
	"context"
	"testing"
	"time"

	"github.com/aitoearn/mobile-agent-go/internal/action"
	"github.com/aitoearn/mobile-agent-go/internal/device"
	"github.com/aitoearn/mobile-agent-go/internal/protocol"
)

type fakeDevice struct {
	taps     [][2]int
	swipes   [][5]int
	texts    []string
	keys     []string
	launched []string
	waited   []time.Duration
}

func (f *fakeDevice) ScreenSize(ctx context.Context) (device.Size, error) {
	return device.Size{Width: 1080, Height: 1920}, nil
}
func (f *fakeDevice) Screenshot(ctx context.Context) ([]byte, error) { return []byte("png"), nil }
func (f *fakeDevice) Tap(ctx context.Context, x, y int) error {
	f.taps = append(f.taps, [2]int{x, y})
	return nil
}
func (f *fakeDevice) Swipe(ctx context.Context, x1, y1, x2, y2 int, d time.Duration) error {
	f.swipes = append(f.swipes, [5]int{x1, y1, x2, y2, int(d.Milliseconds())})
	return nil
}
func (f *fakeDevice) TypeText(ctx context.Context, text string) error {
	f.texts = append(f.texts, text)
	return nil
}
func (f *fakeDevice) PressKey(ctx context.Context, key string) error {
	f.keys = append(f.keys, key)
	return nil
}
func (f *fakeDevice) Back(ctx context.Context) error   { f.keys = append(f.keys, "back"); return nil }
func (f *fakeDevice) Home(ctx context.Context) error   { f.keys = append(f.keys, "home"); return nil }
func (f *fakeDevice) Recent(ctx context.Context) error { f.keys = append(f.keys, "recent"); return nil }
func (f *fakeDevice) LaunchApp(ctx context.Context, pkg string) error {
	f.launched = append(f.launched, pkg)
	return nil
}
func (f *fakeDevice) Wait(ctx context.Context, d time.Duration) error {
	f.waited = append(f.waited, d)
	return nil
}
func (f *fakeDevice) CurrentApp(ctx context.Context) (string, error) { return "com.example.app", nil }

var _ device.Device = (*fakeDevice)(nil)

func TestExecuteClickMapsCoordinates(t *testing.T) {
	dev := &fakeDevice{}
	ex := New(dev, protocol.New(protocol.Universal))
	res, err := ex.Execute(context.Background(), action.Action{Kind: action.Click, Params: map[string]any{"x": 500, "y": 500}}, 1080, 1920)
	if err != nil || !res.Success {
		t.Fatalf("expected success, got %+v err=%v", res, err)
	}
	if len(dev.taps) != 1 || dev.taps[0][0] != 540 || dev.taps[0][1] != 960 {
		t.Fatalf("expected midpoint tap in pixel space, got %+v", dev.taps)
	}
}

func TestExecuteLaunchResolvesPackageName(t *testing.T) {
	dev := &fakeDevice{}
	ex := New(dev, protocol.New(protocol.Universal))
	_, err := ex.Execute(context.Background(), action.Action{Kind: action.LaunchApp, Params: map[string]any{"app": "微信"}}, 1080, 1920)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dev.launched) != 1 || dev.launched[0] != "com.tencent.mm" {
		t.Fatalf("expected resolved package name, got %+v", dev.launched)
	}
}

func TestExecuteWaitConvertsSeconds(t *testing.T) {
	dev := &fakeDevice{}
	ex := New(dev, protocol.New(protocol.Universal))
	_, err := ex.Execute(context.Background(), action.Action{Kind: action.Wait, Params: map[string]any{"duration": 2}}, 1080, 1920)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dev.waited) != 1 || dev.waited[0] != 2*time.Second {
		t.Fatalf("expected 2s wait, got %+v", dev.waited)
	}
}

func TestExecuteWaitCoercesDurationString(t *testing.T) {
	dev := &fakeDevice{}
	ex := New(dev, protocol.New(protocol.Universal))
	_, err := ex.Execute(context.Background(), action.Action{Kind: action.Wait, Params: map[string]any{"duration": "2 seconds"}}, 1080, 1920)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dev.waited) != 1 || dev.waited[0] != 2*time.Second {
		t.Fatalf("expected 2s wait from coerced string, got %+v", dev.waited)
	}
}

func TestExecuteFinishSurfacesMessage(t *testing.T) {
	dev := &fakeDevice{}
	ex := New(dev, protocol.New(protocol.Universal))
	res, err := ex.Execute(context.Background(), action.Action{Kind: action.Finish, Params: map[string]any{"message": "done"}}, 1080, 1920)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success || res.Message != "done" {
		t.Fatalf("expected success with message %q, got %+v", "done", res)
	}
}

func TestExecuteFailSurfacesReason(t *testing.T) {
	dev := &fakeDevice{}
	ex := New(dev, protocol.New(protocol.Universal))
	res, err := ex.Execute(context.Background(), action.Action{Kind: action.Fail, Params: map[string]any{"reason": "button not found"}}, 1080, 1920)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success || res.Message != "button not found" {
		t.Fatalf("expected failure with reason %q, got %+v", "button not found", res)
	}
}

func TestExecuteUnknownKindReportsFailureNotError(t *testing.T) {
	dev := &fakeDevice{}
	ex := New(dev, protocol.New(protocol.Universal))
	res, err := ex.Execute(context.Background(), action.Action{Kind: action.Kind("bogus")}, 1080, 1920)
	if err != nil {
		t.Fatalf("expected no go error for unknown kind, got %v", err)
	}
	if res.Success {
		t.Fatal("expected Success=false for unknown kind")
	}
}

func TestExecuteBackAndHome(t *testing.T) {
	dev := &fakeDevice{}
	ex := New(dev, protocol.New(protocol.Universal))
	if _, err := ex.Execute(context.Background(), action.Action{Kind: action.Back}, 1080, 1920); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ex.Execute(context.Background(), action.Action{Kind: action.Home}, 1080, 1920); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dev.keys) != 2 || dev.keys[0] != "back" || dev.keys[1] != "home" {
		t.Fatalf("got %+v", dev.keys)
	}
}
