// Package agentctx assembles the message list sent to the LLM each step:
// a system prompt describing the action space and wire protocol, the
// trimmed action/observation history, and the current screenshot plus task
// text. Grounded on context_builder.py's ContextBuilder and the
// _build_user_message/_get_limited_context/_remove_old_images_from_context
// helpers in mobile_agent.py.
package agentctx

// PartKind distinguishes the two content part shapes a multimodal chat
// message can carry.
type PartKind string

const (
	PartText  PartKind = "text"
	PartImage PartKind = "image"
)

// ContentPart is one piece of a (possibly multimodal) message body.
type ContentPart struct {
	Kind         PartKind
	Text         string
	ImageDataURL string // "data:image/jpeg;base64,...."
}

// Message is one chat turn. Multimodal messages carry more than one Part;
// text-only messages carry exactly one PartText part.
type Message struct {
	Role  string // "system", "user", "assistant"
	Parts []ContentPart
}

// Text builds a plain single-part text message.
func Text(role, text string) Message {
	return Message{Role: role, Parts: []ContentPart{{Kind: PartText, Text: text}}}
}

// HasImage reports whether any part of the message carries image data.
func (m Message) HasImage() bool {
	for _, p := range m.Parts {
		if p.Kind == PartImage {
			return true
		}
	}
	return false
}

// TextOnly returns a copy of m with every image part removed. If nothing
// but images remain, placeholder stands in for the stripped content —
// matching _remove_old_images_from_context's "[history screenshot removed]"
// fallback.
func (m Message) TextOnly(placeholder string) Message {
	out := Message{Role: m.Role}
	for _, p := range m.Parts {
		if p.Kind == PartText {
			out.Parts = append(out.Parts, p)
		}
	}
	if len(out.Parts) == 0 {
		out.Parts = []ContentPart{{Kind: PartText, Text: placeholder}}
	}
	return out
}

// JoinText concatenates every text part, for providers/tests that only
// care about the textual content.
func (m Message) JoinText() string {
	s := ""
	for _, p := range m.Parts {
		if p.Kind == PartText {
			if s != "" {
				s += "\n"
			}
			s += p.Text
		}
	}
	return s
}
