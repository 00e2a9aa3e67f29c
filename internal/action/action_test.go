package action

import "testing"

func TestValidateRequiredMissing(t *testing.T) {
	errs := Validate(Click, map[string]any{"x": 10})
	if len(errs) != 1 {
		t.Fatalf("expected 1 error for missing y, got %v", errs)
	}
}

func TestValidateUnknownParam(t *testing.T) {
	errs := Validate(Back, map[string]any{"x": 10})
	if len(errs) != 1 {
		t.Fatalf("expected 1 error for unknown param, got %v", errs)
	}
}

func TestValidateBounds(t *testing.T) {
	errs := Validate(LongClick, map[string]any{"x": 1, "y": 1, "duration": 50})
	if len(errs) != 1 {
		t.Fatalf("expected bounds error, got %v", errs)
	}
	errs = Validate(LongClick, map[string]any{"x": 1, "y": 1, "duration": 1500})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateUnknownKind(t *testing.T) {
	errs := Validate(Kind("teleport"), map[string]any{})
	if len(errs) != 1 {
		t.Fatalf("expected unknown-kind error, got %v", errs)
	}
}

func TestWithDefaults(t *testing.T) {
	params := WithDefaults(Wait, map[string]any{})
	if params["duration"] != 1 {
		t.Fatalf("expected default duration 1, got %v", params["duration"])
	}
}

func TestDescribe(t *testing.T) {
	a := Action{Kind: Click, Params: map[string]any{"x": 1, "y": 2}}
	got := a.Describe()
	want := "tap the screen at a point (x=1, y=2)"
	if got != want {
		t.Fatalf("Describe() = %q, want %q", got, want)
	}
}
