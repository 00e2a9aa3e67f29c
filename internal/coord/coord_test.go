package coord

import "testing"

func TestToPixelMidpoint(t *testing.T) {
	p := ToPixel(Point{X: 500, Y: 500}, 1000, 1080, 1920)
	if p.X != 540 {
		t.Errorf("X = %d, want 540", p.X)
	}
	if p.Y != 960 {
		t.Errorf("Y = %d, want 960", p.Y)
	}
}

func TestToPixelClampsUpperBound(t *testing.T) {
	p := ToPixel(Point{X: 1000, Y: 1000}, 1000, 1080, 1920)
	if p.X != 1079 || p.Y != 1919 {
		t.Errorf("got %+v, want clamped to screen-1", p)
	}
}

func TestToPixelClampsNegative(t *testing.T) {
	p := ToPixel(Point{X: -10, Y: -10}, 1000, 1080, 1920)
	if p.X != 0 || p.Y != 0 {
		t.Errorf("got %+v, want clamped to 0", p)
	}
}

func TestToPixelAutoglmScale(t *testing.T) {
	p := ToPixel(Point{X: 999, Y: 999}, 999, 1080, 1920)
	if p.X != 1079 || p.Y != 1919 {
		t.Errorf("got %+v, want near screen bounds", p)
	}
}

func TestRoundTripStaysClose(t *testing.T) {
	orig := Point{X: 250, Y: 750}
	px := ToPixel(orig, 1000, 1080, 1920)
	back := ToNormalized(px, 1000, 1080, 1920)
	if abs(back.X-orig.X) > 1 || abs(back.Y-orig.Y) > 1 {
		t.Errorf("round trip drifted: got %+v from %+v", back, orig)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
