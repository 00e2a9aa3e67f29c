package history

import (
	"fmt"
	"strings"

	"github.com/aitoearn/mobile-agent-go/internal/action"
)

// Store is the ordered, bounded action log for one session, paired with a
// loop detector kept in sync on every append.
type Store struct {
	MaxHistory int
	entries    []Entry
	detector   *LoopDetector
	stepCount  int
}

// NewStore builds a Store with loop detection enabled and the given
// history cap (the original's default is 50).
func NewStore(maxHistory int) *Store {
	return NewStoreWithDetector(maxHistory, NewLoopDetector())
}

// NewStoreWithDetector is NewStore with an explicit, caller-tuned
// LoopDetector, so deployments can override the window/threshold/
// repetition tunables (exposed as AgentConfig fields) without touching
// the detector's internal defaults.
func NewStoreWithDetector(maxHistory int, detector *LoopDetector) *Store {
	if maxHistory <= 0 {
		maxHistory = 50
	}
	if detector == nil {
		detector = NewLoopDetector()
	}
	return &Store{MaxHistory: maxHistory, detector: detector}
}

// Add appends one executed action, evicting the oldest entry once
// MaxHistory is exceeded (FIFO, without touching the loop detector's
// lifetime counters — see LoopDetector.AddEntry).
func (s *Store) Add(a action.Action, observation string, screenshotPath string, metadata map[string]any) Entry {
	s.stepCount++
	e := Entry{
		Step:           s.stepCount,
		Action:         a,
		Observation:    observation,
		ScreenshotPath: screenshotPath,
		Metadata:       metadata,
	}
	s.entries = append(s.entries, e)
	if len(s.entries) > s.MaxHistory {
		s.entries = s.entries[1:]
	}
	s.detector.AddEntry(e)
	return e
}

// All returns a copy of every retained entry, oldest first.
func (s *Store) All() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Recent returns the last n entries (or fewer if the log is shorter).
func (s *Store) Recent(n int) []Entry {
	if n <= 0 || len(s.entries) == 0 {
		return nil
	}
	if n > len(s.entries) {
		n = len(s.entries)
	}
	return append([]Entry(nil), s.entries[len(s.entries)-n:]...)
}

// LastAction returns the most recently added action, if any.
func (s *Store) LastAction() (action.Action, bool) {
	if len(s.entries) == 0 {
		return action.Action{}, false
	}
	return s.entries[len(s.entries)-1].Action, true
}

// CheckLoop reports whether the session's action history looks like a loop.
func (s *Store) CheckLoop() DetectionResult {
	return s.detector.DetectLoop()
}

// Clear wipes the log and resets loop-detection state.
func (s *Store) Clear() {
	s.entries = nil
	s.stepCount = 0
	s.detector.Reset()
}

// Summary renders a human-readable recap of the last maxEntries entries,
// matching HistoryManager.get_summary's shape.
func (s *Store) Summary(maxEntries int) string {
	if len(s.entries) == 0 {
		return "no history"
	}
	recent := s.entries
	if maxEntries > 0 && len(recent) > maxEntries {
		recent = recent[len(recent)-maxEntries:]
	}
	var b strings.Builder
	b.WriteString("action history:\n")
	for _, e := range recent {
		fmt.Fprintf(&b, "  step %d: %s\n", e.Step, e.Describe())
		if e.Observation != "" {
			obs := e.Observation
			if len(obs) > 100 {
				obs = obs[:100] + "..."
			}
			fmt.Fprintf(&b, "    observation: %s\n", obs)
		}
	}
	if len(s.entries) > len(recent) {
		fmt.Fprintf(&b, "  ... %d more entries\n", len(s.entries)-len(recent))
	}
	return b.String()
}

// Stats mirrors HistoryManager.get_statistics: per-kind counts plus loop
// detector stats.
type Stats struct {
	TotalEntries  int
	CurrentStep   int
	ActionCounts  map[string]int
	LoopTotal     int
	LoopUnique    int
	LoopPerAction map[string]int
}

func (s *Store) Stats() Stats {
	counts := make(map[string]int)
	for _, e := range s.entries {
		counts[string(e.Action.Kind)]++
	}
	total, unique, perAction := s.detector.Stats()
	return Stats{
		TotalEntries:  len(s.entries),
		CurrentStep:   s.stepCount,
		ActionCounts:  counts,
		LoopTotal:     total,
		LoopUnique:    unique,
		LoopPerAction: perAction,
	}
}
