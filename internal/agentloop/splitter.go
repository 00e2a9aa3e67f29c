package agentloop

import "strings"

// splitterState is the explicit three-state automaton SPEC_FULL.md §9
// calls for: plain reading, holding back a byte run that might still
// grow into a marker, or committed to the action phase.
type splitterState int

const (
	stateReading splitterState = iota
	stateMaybeMarker
	stateInAction
)

// Splitter separates a model's streamed output into a thinking prefix and
// an action suffix by watching for the first appearance of any of a
// protocol's action markers (e.g. `do(action=`, `{"action`, `<action`).
// Text is flushed as "thinking" only once it can no longer be the start of
// a marker — so partial marker bytes are never misreported as thinking
// (invariant P2).
type Splitter struct {
	markers []string
	state   splitterState

	held      strings.Builder // bytes that might still extend into a marker
	rawAction strings.Builder // everything from the marker onward
	allText   strings.Builder // every byte ever fed, for the no-marker fallback
}

// NewSplitter builds a Splitter watching for any of markers.
func NewSplitter(markers []string) *Splitter {
	return &Splitter{markers: markers}
}

// Feed appends one streamed chunk and returns the thinking text, if any,
// that can now be safely emitted. Once the action phase has started,
// Feed always returns "" — the chunk is appended to RawAction instead.
func (s *Splitter) Feed(chunk string) string {
	s.allText.WriteString(chunk)

	if s.state == stateInAction {
		s.rawAction.WriteString(chunk)
		return ""
	}

	s.held.WriteString(chunk)
	full := s.held.String()

	if idx, marker := firstMarker(full, s.markers); idx >= 0 {
		thinking := full[:idx]
		s.rawAction.WriteString(full[idx:])
		s.state = stateInAction
		s.held.Reset()
		_ = marker
		return thinking
	}

	safe := longestSafePrefixLen(full, s.markers)
	if safe == len(full) {
		s.state = stateReading
	} else {
		s.state = stateMaybeMarker
	}
	if safe == 0 {
		return ""
	}
	thinking := full[:safe]
	s.held.Reset()
	s.held.WriteString(full[safe:])
	return thinking
}

// RawAction returns the bytes collected since the action marker matched.
func (s *Splitter) RawAction() string {
	return s.rawAction.String()
}

// MarkerFound reports whether any action marker has appeared yet.
func (s *Splitter) MarkerFound() bool {
	return s.state == stateInAction
}

// Finalize is called once the stream ends. If a marker was ever found,
// it returns the remaining held-back thinking text (there should be
// none, since InAction never holds bytes back) plus RawAction as the
// parse candidate. If no marker ever appeared, the entire stream becomes
// the parse candidate, per SPEC_FULL.md §9's no-marker fallback.
func (s *Splitter) Finalize() (trailingThinking, parseCandidate string) {
	if s.state == stateInAction {
		return s.held.String(), s.RawAction()
	}
	trailingThinking = s.held.String()
	return trailingThinking, s.allText.String()
}

// firstMarker returns the earliest index at which any marker occurs in
// text, and which marker matched there, or (-1, "") if none match.
func firstMarker(text string, markers []string) (int, string) {
	best, bestMarker := -1, ""
	for _, m := range markers {
		if m == "" {
			continue
		}
		if idx := strings.Index(text, m); idx >= 0 && (best == -1 || idx < best) {
			best, bestMarker = idx, m
		}
	}
	return best, bestMarker
}

// longestSafePrefixLen returns how many leading bytes of text can be
// flushed as thinking without risking that a later chunk turns the
// withheld suffix into a marker match — i.e. text's length minus the
// longest suffix of text that is a proper, non-empty prefix of some
// marker.
func longestSafePrefixLen(text string, markers []string) int {
	maxHold := 0
	for _, m := range markers {
		if m == "" {
			continue
		}
		limit := len(m) - 1
		if limit > len(text) {
			limit = len(text)
		}
		for k := limit; k > 0; k-- {
			if strings.HasSuffix(text, m[:k]) {
				if k > maxHold {
					maxHold = k
				}
				break
			}
		}
	}
	return len(text) - maxHold
}
