// Package adb implements device.Device by shelling out to the Android
// Debug Bridge, ported from drivers/android.py's AndroidDriver: each
// method maps to one `adb -s <id> shell ...` invocation, run under a
// per-command timeout with stdout and stderr captured.
package adb

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/aitoearn/mobile-agent-go/internal/device"
	"github.com/rs/zerolog"
)

const defaultCommandTimeout = 30 * time.Second

// keyMap translates named keys to Android keyevent codes, ported from
// AndroidDriver.press_key's key_map. Unrecognized keys are upper-cased and
// sent as-is (matching the original's fallback).
var keyMap = map[string]string{
	"home":        "KEYCODE_HOME",
	"back":        "KEYCODE_BACK",
	"enter":       "KEYCODE_ENTER",
	"delete":      "KEYCODE_DEL",
	"volume_up":   "KEYCODE_VOLUME_UP",
	"volume_down": "KEYCODE_VOLUME_DOWN",
	"power":       "KEYCODE_POWER",
}

// Driver shells out to adb for one specific device serial.
type Driver struct {
	DeviceID       string
	AdbPath        string // defaults to "adb" on PATH
	CommandTimeout time.Duration
	Logger         zerolog.Logger
}

// New builds a Driver for deviceID using the adb binary on PATH.
func New(deviceID string, logger zerolog.Logger) *Driver {
	return &Driver{
		DeviceID:       deviceID,
		AdbPath:        "adb",
		CommandTimeout: defaultCommandTimeout,
		Logger:         logger.With().Str("component", "adb").Str("device", deviceID).Logger(),
	}
}

func (d *Driver) adbPath() string {
	if d.AdbPath != "" {
		return d.AdbPath
	}
	return "adb"
}

func (d *Driver) timeout() time.Duration {
	if d.CommandTimeout > 0 {
		return d.CommandTimeout
	}
	return defaultCommandTimeout
}

// run executes `adb -s <id> <args...>` and returns trimmed stdout.
func (d *Driver) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout())
	defer cancel()

	full := append([]string{"-s", d.DeviceID}, args...)
	cmd := exec.CommandContext(ctx, d.adbPath(), full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	d.Logger.Debug().
		Strs("args", args).
		Dur("elapsed", time.Since(start)).
		Err(err).
		Msg("adb command")

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("adb command timed out after %v: %s", d.timeout(), strings.Join(args, " "))
	}
	if err != nil {
		return nil, fmt.Errorf("adb command failed: %s: %w", strings.TrimSpace(stderr.String()), err)
	}
	return stdout.Bytes(), nil
}

func (d *Driver) runText(ctx context.Context, args ...string) (string, error) {
	out, err := d.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ScreenSize parses `adb shell wm size`'s "Physical size: WxH" output.
func (d *Driver) ScreenSize(ctx context.Context) (device.Size, error) {
	out, err := d.runText(ctx, "shell", "wm", "size")
	if err != nil {
		return device.Size{}, err
	}
	return parseScreenSize(out)
}

func parseScreenSize(out string) (device.Size, error) {
	idx := strings.LastIndex(out, ":")
	if idx < 0 {
		return device.Size{}, fmt.Errorf("adb: unexpected wm size output %q", out)
	}
	dims := strings.TrimSpace(out[idx+1:])
	parts := strings.SplitN(dims, "x", 2)
	if len(parts) != 2 {
		return device.Size{}, fmt.Errorf("adb: unexpected wm size dims %q", dims)
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil {
		return device.Size{}, fmt.Errorf("adb: non-numeric wm size dims %q", dims)
	}
	return device.Size{Width: w, Height: h}, nil
}

// Screenshot runs `adb exec-out screencap -p`, returning raw PNG bytes.
func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	return d.run(ctx, "exec-out", "screencap", "-p")
}

func (d *Driver) Tap(ctx context.Context, x, y int) error {
	_, err := d.run(ctx, "shell", "input", "tap", strconv.Itoa(x), strconv.Itoa(y))
	return err
}

func (d *Driver) Swipe(ctx context.Context, x1, y1, x2, y2 int, duration time.Duration) error {
	ms := duration.Milliseconds()
	if ms <= 0 {
		ms = 300
	}
	_, err := d.run(ctx, "shell", "input", "swipe",
		strconv.Itoa(x1), strconv.Itoa(y1), strconv.Itoa(x2), strconv.Itoa(y2), strconv.FormatInt(ms, 10))
	return err
}

// TypeText injects literal text, substituting spaces with %s the way
// `adb shell input text` requires.
func (d *Driver) TypeText(ctx context.Context, text string) error {
	_, err := d.run(ctx, "shell", "input", "text", strings.ReplaceAll(text, " ", "%s"))
	return err
}

func (d *Driver) PressKey(ctx context.Context, key string) error {
	code, ok := keyMap[strings.ToLower(key)]
	if !ok {
		code = strings.ToUpper(key)
	}
	_, err := d.run(ctx, "shell", "input", "keyevent", code)
	return err
}

func (d *Driver) Back(ctx context.Context) error { return d.PressKey(ctx, "back") }
func (d *Driver) Home(ctx context.Context) error { return d.PressKey(ctx, "home") }

func (d *Driver) Recent(ctx context.Context) error {
	_, err := d.run(ctx, "shell", "input", "keyevent", "KEYCODE_APP_SWITCH")
	return err
}

// LaunchApp starts packageName's launcher activity via the monkey tool,
// matching AndroidDriver.launch_app.
func (d *Driver) LaunchApp(ctx context.Context, packageName string) error {
	_, err := d.run(ctx, "shell", "monkey", "-p", packageName, "-c", "android.intent.category.LAUNCHER", "1")
	return err
}

// CurrentApp greps `dumpsys window` for mCurrentFocus and extracts the
// activity name, ported from AndroidDriver.get_current_activity. Any
// failure is swallowed into an empty result, matching the original's
// bare except-pass.
func (d *Driver) CurrentApp(ctx context.Context) (string, error) {
	out, err := d.runText(ctx, "shell", "dumpsys", "window")
	if err != nil {
		return "", nil
	}
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "mCurrentFocus") {
			continue
		}
		if !strings.Contains(line, "Activity") {
			continue
		}
		after := strings.SplitN(line, "Activity", 2)[1]
		name := strings.SplitN(after, "{", 2)[0]
		return strings.TrimSpace(name), nil
	}
	return "", nil
}

func (d *Driver) Wait(ctx context.Context, dur time.Duration) error {
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ device.Device = (*Driver)(nil)
