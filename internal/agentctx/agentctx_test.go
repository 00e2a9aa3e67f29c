package agentctx

import (
	"testing"

	"github.com/aitoearn/mobile-agent-go/internal/action"
	"github.com/aitoearn/mobile-agent-go/internal/history"
	"github.com/aitoearn/mobile-agent-go/internal/protocol"
)

func TestSystemPromptIncludesActionSpaceAndAdapter(t *testing.T) {
	b := New(DefaultConfig(), protocol.New(protocol.Universal))
	p := b.SystemPrompt()
	if p == "" {
		t.Fatal("expected non-empty system prompt")
	}
}

func TestBuildMessagesImageBeforeText(t *testing.T) {
	b := New(DefaultConfig(), protocol.New(protocol.Universal))
	msgs := b.BuildMessages("tap the button", "ZmFrZQ==", "1080x1920", nil)

	last := msgs[len(msgs)-1]
	if len(last.Parts) < 2 {
		t.Fatalf("expected at least 2 parts, got %d", len(last.Parts))
	}
	if last.Parts[0].Kind != PartImage {
		t.Fatalf("expected image part first, got %v", last.Parts[0].Kind)
	}
	if last.Parts[1].Kind != PartText || last.Parts[1].Text != "tap the button" {
		t.Fatalf("expected task text second, got %+v", last.Parts[1])
	}
}

func TestBuildMessagesOmitsImageWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IncludeScreenshots = false
	b := New(cfg, protocol.New(protocol.Universal))
	msgs := b.BuildMessages("go home", "ZmFrZQ==", "", nil)

	last := msgs[len(msgs)-1]
	if last.HasImage() {
		t.Fatal("expected no image part when IncludeScreenshots is false")
	}
}

func TestScrubImagesKeepsOnlyLastScreenshot(t *testing.T) {
	msgs := []Message{
		Text("system", "sys"),
		{Role: "user", Parts: []ContentPart{{Kind: PartImage, ImageDataURL: "a"}, {Kind: PartText, Text: "first"}}},
		{Role: "user", Parts: []ContentPart{{Kind: PartImage, ImageDataURL: "b"}}},
	}
	scrubbed := ScrubImages(msgs)

	if scrubbed[1].HasImage() {
		t.Fatal("expected older screenshot to be stripped")
	}
	if scrubbed[1].Parts[0].Text != "first" {
		t.Fatalf("expected surviving text part preserved, got %+v", scrubbed[1].Parts)
	}
	if !scrubbed[2].HasImage() {
		t.Fatal("expected most recent screenshot to survive")
	}
}

func TestScrubImagesUsesPlaceholderWhenNoTextSurvives(t *testing.T) {
	msgs := []Message{
		{Role: "user", Parts: []ContentPart{{Kind: PartImage, ImageDataURL: "a"}}},
		{Role: "user", Parts: []ContentPart{{Kind: PartImage, ImageDataURL: "b"}}},
	}
	scrubbed := ScrubImages(msgs)
	if scrubbed[0].Parts[0].Text != noScreenshotPlaceholder {
		t.Fatalf("expected placeholder text, got %+v", scrubbed[0].Parts)
	}
}

func TestTrimWindowPinsSystemAndInitialTask(t *testing.T) {
	msgs := []Message{Text("system", "sys"), Text("user", "initial task")}
	for i := 0; i < 10; i++ {
		msgs = append(msgs, Text("assistant", "filler"))
	}
	out := TrimWindow(msgs, 3)

	if out[0].Role != "system" || out[0].JoinText() != "sys" {
		t.Fatalf("expected system message pinned first, got %+v", out[0])
	}
	if out[1].JoinText() != "initial task" {
		t.Fatalf("expected initial task pinned second, got %+v", out[1])
	}
	if len(out) != 4 {
		t.Fatalf("expected 2 pinned + 2 recent = 4 messages, got %d", len(out))
	}
}

func TestTrimWindowNoopWhenShort(t *testing.T) {
	msgs := []Message{Text("system", "sys"), Text("user", "hi")}
	out := TrimWindow(msgs, 10)
	if len(out) != 2 {
		t.Fatalf("expected no trimming, got %d messages", len(out))
	}
}

func TestBuildMessagesIncludesHistory(t *testing.T) {
	b := New(DefaultConfig(), protocol.New(protocol.Universal))
	hist := []history.Entry{
		{Step: 1, Action: action.Action{Kind: action.Click, Params: map[string]any{"x": 1, "y": 2}}, Observation: "tapped"},
	}
	msgs := b.BuildMessages("task", "", "", hist)
	if len(msgs) < 3 {
		t.Fatalf("expected system + history + current turn, got %d messages", len(msgs))
	}
}
