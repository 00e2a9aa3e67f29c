package protocol

import (
	"testing"

	"github.com/aitoearn/mobile-agent-go/internal/action"
)

func TestDetect(t *testing.T) {
	cases := map[string]Name{
		"AutoGLM-9B":     AutoGLM,
		"glm-4.5v":       AutoGLM,
		"gelab-agent-v1": Gelab,
		"gpt-4o":         Universal,
	}
	for model, want := range cases {
		if got := Detect(model); got != want {
			t.Errorf("Detect(%q) = %v, want %v", model, got, want)
		}
	}
}

func TestDefaultConfigsMatchOriginal(t *testing.T) {
	u := ConfigFor(Universal)
	if u.CoordinateScale != 1000 || u.Image != (ImageSize{1080, 1920}) || u.ImageQuality != 90 {
		t.Errorf("universal config = %+v", u)
	}
	g := ConfigFor(AutoGLM)
	if g.CoordinateScale != 999 || g.ImageQuality != 85 {
		t.Errorf("autoglm config = %+v", g)
	}
	gl := ConfigFor(Gelab)
	if gl.CoordinateScale != 1000 || gl.Image != (ImageSize{720, 1280}) || gl.ImageQuality != 80 {
		t.Errorf("gelab config = %+v", gl)
	}
}

func TestUniversalRoundTrip(t *testing.T) {
	a := New(Universal)
	act := action.Action{Kind: action.Click, Params: map[string]any{"x": 500, "y": 800}}
	wire := a.FormatAction(act)
	parsed, err := a.ParseAction(wire)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Kind != action.Click {
		t.Fatalf("got %+v", parsed)
	}
}

func TestAutoGLMRoundTrip(t *testing.T) {
	a := New(AutoGLM)
	act := action.Action{Kind: action.Click, Params: map[string]any{"x": 500, "y": 800}}
	wire := a.FormatAction(act)
	if wire != "click(x=500, y=800)" {
		t.Fatalf("wire = %q", wire)
	}
	parsed, err := a.ParseAction(wire)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Kind != action.Click || parsed.Params["x"] != 500 {
		t.Fatalf("got %+v", parsed)
	}
}

func TestGelabRoundTrip(t *testing.T) {
	a := New(Gelab)
	act := action.Action{Kind: action.Click, Params: map[string]any{"x": 500, "y": 800}}
	wire := a.FormatAction(act)
	parsed, err := a.ParseAction(wire)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Kind != action.Click || parsed.Params["x"] != 500 {
		t.Fatalf("got %+v", parsed)
	}
}

func TestDetectAndNewDefaultsToUniversal(t *testing.T) {
	a := DetectAndNew("gpt-4o-mini")
	if a.Name() != Universal {
		t.Fatalf("got %v", a.Name())
	}
}

func TestActionMarkersAreNonEmptyAndDistinct(t *testing.T) {
	for _, name := range []Name{Universal, AutoGLM, Gelab} {
		markers := New(name).ActionMarkers()
		if len(markers) == 0 {
			t.Fatalf("%s: expected at least one action marker", name)
		}
		seen := map[string]bool{}
		for _, m := range markers {
			if m == "" || seen[m] {
				t.Fatalf("%s: expected non-empty, distinct markers, got %q twice or empty in %v", name, m, markers)
			}
			seen[m] = true
		}
	}
}

func TestAutoGLMMarkersIncludeEveryActionKind(t *testing.T) {
	markers := New(AutoGLM).ActionMarkers()
	found := map[string]bool{}
	for _, m := range markers {
		found[m] = true
	}
	if !found["click("] || !found["finish("] || !found["do(action="] {
		t.Fatalf("expected click(/finish(/do(action= among markers, got %v", markers)
	}
	for _, k := range action.All() {
		if !found[string(k)+"("] {
			t.Fatalf("expected %q among markers, got %v", string(k)+"(", markers)
		}
	}
}
