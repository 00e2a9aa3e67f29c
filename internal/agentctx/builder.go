package agentctx

import (
	"fmt"

	"github.com/aitoearn/mobile-agent-go/internal/action"
	"github.com/aitoearn/mobile-agent-go/internal/history"
	"github.com/aitoearn/mobile-agent-go/internal/protocol"
)

const defaultSystemPrompt = "You control an Android device through a fixed set of actions. " +
	"Observe the screenshot, think briefly, then emit exactly one action per turn."

// Config tunes how much history and which pieces of context a Builder
// includes, mirroring ContextConfig's knobs.
type Config struct {
	MaxHistoryEntries  int  // entries to render as history messages (ContextConfig.max_history_entries, default 10)
	MaxContextMessages int  // message-count ceiling applied by TrimWindow (0 disables trimming)
	IncludeScreenshots bool // false forces a text-only build, e.g. for a non-vision model
}

// DefaultConfig matches context_builder.py's ContextConfig defaults.
func DefaultConfig() Config {
	return Config{MaxHistoryEntries: 10, MaxContextMessages: 20, IncludeScreenshots: true}
}

// Builder assembles the message list sent to the LLM for one step.
type Builder struct {
	Config  Config
	Adapter protocol.Adapter
}

// New constructs a Builder bound to a protocol adapter (whose
// AdaptSystemPrompt contributes the wire-format instructions).
func New(cfg Config, adapter protocol.Adapter) *Builder {
	return &Builder{Config: cfg, Adapter: adapter}
}

// SystemPrompt renders the action-space listing plus the adapter's
// protocol-specific formatting instructions, matching build_system_prompt's
// template + ActionSpace.get_action_prompt() + adapt_system_prompt().
func (b *Builder) SystemPrompt() string {
	prompt := defaultSystemPrompt + "\n\n" + action.Prompt()
	if b.Adapter != nil {
		prompt = b.Adapter.AdaptSystemPrompt(prompt)
	}
	return prompt
}

// historyMessages renders the last n history entries as alternating
// assistant/user turns: the executed action as an assistant message, its
// observation as a user message — matching _build_history_messages.
func historyMessages(entries []history.Entry, n int) []Message {
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	out := make([]Message, 0, len(entries)*2)
	for _, e := range entries {
		out = append(out, Text("assistant", fmt.Sprintf("executed: %s", e.Describe())))
		if e.Observation != "" {
			out = append(out, Text("user", fmt.Sprintf("result: %s", e.Observation)))
		}
	}
	return out
}

// BuildMessages assembles the full message list for one LLM call: system
// prompt, recent history, then the current turn. The current turn's
// content-part order is image first, task text second, screen info third —
// matching _build_user_message exactly. Screenshot is expected as a
// base64-encoded JPEG payload (no data-URL prefix); empty string omits the
// image part entirely.
func (b *Builder) BuildMessages(task, screenshotBase64JPEG, screenInfo string, hist []history.Entry) []Message {
	msgs := []Message{Text("system", b.SystemPrompt())}
	msgs = append(msgs, historyMessages(hist, b.Config.MaxHistoryEntries)...)

	var parts []ContentPart
	if b.Config.IncludeScreenshots && screenshotBase64JPEG != "" {
		parts = append(parts, ContentPart{
			Kind:         PartImage,
			ImageDataURL: "data:image/jpeg;base64," + screenshotBase64JPEG,
		})
	}
	if task != "" {
		parts = append(parts, ContentPart{Kind: PartText, Text: task})
	}
	if screenInfo != "" {
		parts = append(parts, ContentPart{Kind: PartText, Text: "\n** Screen Info **\n\n" + screenInfo})
	}
	if len(parts) == 0 {
		parts = []ContentPart{{Kind: PartText, Text: ""}}
	}
	msgs = append(msgs, Message{Role: "user", Parts: parts})

	msgs = ScrubImages(msgs)
	return TrimWindow(msgs, b.Config.MaxContextMessages)
}
