package history

import "fmt"

// LoopDetector looks for repetitive action patterns across a session using
// three independent rules, evaluated in order — first match wins. Defaults
// match the original HistoryManager's LoopDetector exactly: a 5-step
// sliding window, a uniqueness floor of 3 distinct fingerprints inside
// that window, and a per-action repetition ceiling of 2 (checked against
// 3x that ceiling, i.e. 6, matching max_repetitions * 3 in the original).
type LoopDetector struct {
	WindowSize          int
	SimilarityThreshold int
	MaxRepetitions      int

	fingerprints []string // ring buffer, capped at WindowSize*2, oldest evicted first
	actionCounts map[string]int
}

// NewLoopDetector constructs a detector with the spec's defaults.
func NewLoopDetector() *LoopDetector {
	return NewLoopDetectorWithConfig(5, 3, 2)
}

// NewLoopDetectorWithConfig constructs a detector with explicit tunables,
// for callers that source them from AgentConfig instead of the defaults.
func NewLoopDetectorWithConfig(windowSize, similarityThreshold, maxRepetitions int) *LoopDetector {
	return &LoopDetector{
		WindowSize:          windowSize,
		SimilarityThreshold: similarityThreshold,
		MaxRepetitions:      maxRepetitions,
		actionCounts:        make(map[string]int),
	}
}

// DetectionResult reports whether a loop was found and, if so, why.
type DetectionResult struct {
	Detected    bool
	Rule        string // "repeated_window", "identical_sequence", "single_action_overuse"
	Description string
}

// AddEntry records one executed action. Fingerprints are evicted FIFO once
// the ring buffer is full; actionCounts are never decremented on eviction
// — they are lifetime loop evidence, not a cache of the current window
// (see SPEC_FULL.md §13 for why this is the chosen reading of the
// original's ambiguous eviction behavior).
func (d *LoopDetector) AddEntry(e Entry) {
	limit := d.WindowSize * 2
	d.fingerprints = append(d.fingerprints, e.Fingerprint())
	if len(d.fingerprints) > limit {
		d.fingerprints = d.fingerprints[len(d.fingerprints)-limit:]
	}
	key := actionKey(e.Action)
	d.actionCounts[key]++
}

// DetectLoop runs all three rules against the current state.
func (d *LoopDetector) DetectLoop() DetectionResult {
	if len(d.fingerprints) < d.WindowSize {
		return DetectionResult{}
	}

	recent := d.fingerprints[len(d.fingerprints)-d.WindowSize:]
	uniqueCount := len(uniqueStrings(recent))
	if uniqueCount < d.SimilarityThreshold {
		return DetectionResult{
			Detected:    true,
			Rule:        "repeated_window",
			Description: fmt.Sprintf("repeated action pattern detected (%d repeats in the last %d steps)", d.WindowSize-uniqueCount, d.WindowSize),
		}
	}

	if len(d.fingerprints) >= d.WindowSize*2 {
		prevWindow := d.fingerprints[len(d.fingerprints)-d.WindowSize*2 : len(d.fingerprints)-d.WindowSize]
		currWindow := d.fingerprints[len(d.fingerprints)-d.WindowSize:]
		if sameSequence(prevWindow, currWindow) {
			return DetectionResult{
				Detected:    true,
				Rule:        "identical_sequence",
				Description: "detected an identical action sequence repeating",
			}
		}
	}

	for key, count := range d.actionCounts {
		if count > d.MaxRepetitions*3 {
			return DetectionResult{
				Detected:    true,
				Rule:        "single_action_overuse",
				Description: fmt.Sprintf("action %q executed %d times", key, count),
			}
		}
	}

	return DetectionResult{}
}

// Reset clears all detector state, used when a session restarts its loop
// evidence (e.g. after import).
func (d *LoopDetector) Reset() {
	d.fingerprints = nil
	d.actionCounts = make(map[string]int)
}

// Stats mirrors LoopDetector.get_stats.
func (d *LoopDetector) Stats() (totalActions, uniqueActions int, actionCounts map[string]int) {
	counts := make(map[string]int, len(d.actionCounts))
	for k, v := range d.actionCounts {
		counts[k] = v
	}
	return len(d.fingerprints), len(uniqueStrings(d.fingerprints)), counts
}

func uniqueStrings(s []string) map[string]struct{} {
	set := make(map[string]struct{}, len(s))
	for _, v := range s {
		set[v] = struct{}{}
	}
	return set
}

func sameSequence(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
