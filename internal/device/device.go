// Package device declares the contract a concrete device backend (adb,
// an emulator bridge, a fake for tests) must satisfy so the executor
// never depends on how actions actually reach a phone.
package device

import (
	"context"
	"time"
)

// Size is a device's screen resolution in pixels.
type Size struct {
	Width, Height int
}

// Device is the closed set of primitive operations the step executor can
// issue. Every method blocks until the operation completes or ctx is
// cancelled — callers are responsible for applying the per-action
// settling delay (see internal/executor), Device itself never sleeps beyond
// what the underlying transport needs.
type Device interface {
	// ScreenSize returns the device's current resolution.
	ScreenSize(ctx context.Context) (Size, error)

	// Screenshot captures the current frame, PNG-encoded (adb screencap's
	// native format before the agent loop re-encodes it to JPEG for
	// the LLM — see internal/agentloop).
	Screenshot(ctx context.Context) ([]byte, error)

	// Tap performs a single tap at the given device-pixel coordinates.
	Tap(ctx context.Context, x, y int) error

	// Swipe drags from (x1,y1) to (x2,y2) over duration.
	Swipe(ctx context.Context, x1, y1, x2, y2 int, duration time.Duration) error

	// TypeText injects literal text via the input method.
	TypeText(ctx context.Context, text string) error

	// PressKey sends a named key event (home, back, enter, delete, ...).
	PressKey(ctx context.Context, key string) error

	// Back simulates the system back button.
	Back(ctx context.Context) error

	// Home returns to the home screen.
	Home(ctx context.Context) error

	// Recent opens the recent-apps switcher.
	Recent(ctx context.Context) error

	// LaunchApp starts an app by its package/bundle identifier.
	LaunchApp(ctx context.Context, packageName string) error

	// CurrentApp reports the foreground app/activity identifier, best
	// effort — an empty string is a valid "unknown" answer, not an error.
	CurrentApp(ctx context.Context) (string, error)

	// Wait blocks for d, honoring ctx cancellation.
	Wait(ctx context.Context, d time.Duration) error
}
