package agentctx

const noScreenshotPlaceholder = "[history screenshot removed]"

// ScrubImages strips every image part except the one carried by the last
// image-bearing message in msgs, matching
// mobile_agent.py's _remove_old_images_from_context: only the freshest
// screenshot stays multimodal, everything older degrades to text (or a
// placeholder when no text survives).
func ScrubImages(msgs []Message) []Message {
	lastImage := -1
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].HasImage() {
			lastImage = i
			break
		}
	}
	if lastImage == -1 {
		return msgs
	}

	out := make([]Message, len(msgs))
	for i, m := range msgs {
		if i == lastImage || !m.HasImage() {
			out[i] = m
			continue
		}
		out[i] = m.TextOnly(noScreenshotPlaceholder)
	}
	return out
}
