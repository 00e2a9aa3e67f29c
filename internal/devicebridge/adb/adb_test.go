package adb

import "testing"

func TestParseScreenSize(t *testing.T) {
	got, err := parseScreenSize("Physical size: 1080x2340")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Width != 1080 || got.Height != 2340 {
		t.Fatalf("got %+v", got)
	}
}

func TestParseScreenSizeOverride(t *testing.T) {
	got, err := parseScreenSize("Physical size: 1080x2340\nOverride size: 720x1560")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Width != 720 || got.Height != 1560 {
		t.Fatalf("expected override size to win, got %+v", got)
	}
}

func TestParseScreenSizeMalformed(t *testing.T) {
	if _, err := parseScreenSize("nonsense"); err == nil {
		t.Fatal("expected error for malformed output")
	}
}

func TestKeyMapMapsHomeKeycode(t *testing.T) {
	d := &Driver{}
	_ = d
	if keyMap["home"] != "KEYCODE_HOME" {
		t.Fatalf("expected home to map to KEYCODE_HOME, got %q", keyMap["home"])
	}
}
