// Package coord converts between the normalized coordinate space the model
// reasons in (0-999 or 0-1000, depending on protocol) and actual device
// pixels. All conversions are pure and idempotent: the same inputs always
// produce the same output, and mapping a pixel coordinate's inverse back
// through the same scale recovers a value within one unit of the original
// when the screen dimension is at least the scale. On a narrower screen the
// drift can exceed one unit (scale 1000, width 720: 4 -> pixel 2 -> 2).
package coord

import "math"

// Scale is the normalized coordinate space a protocol adapter expects
// model output in: AutoGLM uses 0-999, Universal and Gelab use 0-1000.
type Scale int

// Point is a coordinate in normalized (model) space.
type Point struct {
	X, Y int
}

// Pixel is a coordinate in device pixel space.
type Pixel struct {
	X, Y int
}

// ToPixel maps a normalized point into device pixel space given the
// device's screen size, clamping the result to the screen bounds. It
// mirrors protocol_adapter.py's scale_coordinates: actual = floor(norm *
// dimension / scale), clamped to [0, dimension-1].
func ToPixel(p Point, scale Scale, screenW, screenH int) Pixel {
	return Pixel{
		X: clamp(scaleDim(p.X, int(scale), screenW), 0, screenW-1),
		Y: clamp(scaleDim(p.Y, int(scale), screenH), 0, screenH-1),
	}
}

// ToNormalized is the inverse mapping, used by tests and by adapters that
// need to report a device-space point back in the model's coordinate
// space (e.g. for logging). It is not expected to be exact for every
// value — the forward mapping is lossy by floor+clamp. When the screen
// dimension is at least the scale, composing the two mappings moves a point
// by at most one normalized unit; on a narrower screen it can move further.
func ToNormalized(px Pixel, scale Scale, screenW, screenH int) Point {
	return Point{
		X: clamp(scaleDim(px.X, screenW, int(scale)), 0, int(scale)),
		Y: clamp(scaleDim(px.Y, screenH, int(scale)), 0, int(scale)),
	}
}

func scaleDim(v, scale, dimension int) int {
	if scale == 0 {
		return 0
	}
	return int(math.Floor(float64(v) * float64(dimension) / float64(scale)))
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
