package history

import (
	"fmt"
	"time"

	"github.com/aitoearn/mobile-agent-go/internal/action"
	"gopkg.in/yaml.v3"
)

// Snapshot is a round-trippable dump of a Store's state, used for
// debugging and for replaying a session (SPEC_FULL.md §12.4).
type Snapshot struct {
	MaxHistory  int             `yaml:"max_history"`
	CurrentStep int             `yaml:"current_step"`
	Entries     []entrySnapshot `yaml:"entries"`
}

type entrySnapshot struct {
	Step           int            `yaml:"step"`
	Kind           string         `yaml:"action"`
	Params         map[string]any `yaml:"params"`
	Reasoning      string         `yaml:"reasoning,omitempty"`
	Confidence     float64        `yaml:"confidence"`
	Observation    string         `yaml:"observation,omitempty"`
	ScreenshotPath string         `yaml:"screenshot_path,omitempty"`
	Timestamp      time.Time      `yaml:"timestamp"`
}

// Export produces a Snapshot of the current state.
func (s *Store) Export() Snapshot {
	out := Snapshot{MaxHistory: s.MaxHistory, CurrentStep: s.stepCount}
	for _, e := range s.entries {
		out.Entries = append(out.Entries, entrySnapshot{
			Step:           e.Step,
			Kind:           string(e.Action.Kind),
			Params:         e.Action.Params,
			Reasoning:      e.Action.Reasoning,
			Confidence:     e.Action.Confidence,
			Observation:    e.Observation,
			ScreenshotPath: e.ScreenshotPath,
			Timestamp:      e.Timestamp,
		})
	}
	return out
}

// ExportYAML renders Export as YAML, for debugging dumps.
func (s *Store) ExportYAML() ([]byte, error) {
	return yaml.Marshal(s.Export())
}

// Import replaces the Store's state with snap, rebuilding the loop
// detector from scratch by replaying every entry — matching
// HistoryManager.import_from_dict's reset-then-replay strategy.
func (s *Store) Import(snap Snapshot) error {
	if snap.MaxHistory > 0 {
		s.MaxHistory = snap.MaxHistory
	}
	s.stepCount = snap.CurrentStep
	s.entries = make([]Entry, 0, len(snap.Entries))
	s.detector.Reset()

	for _, es := range snap.Entries {
		kind := action.Kind(es.Kind)
		if _, ok := action.Lookup(kind); !ok {
			return fmt.Errorf("history snapshot: unknown action kind %q at step %d", es.Kind, es.Step)
		}
		e := Entry{
			Step: es.Step,
			Action: action.Action{
				Kind: kind, Params: es.Params, Reasoning: es.Reasoning, Confidence: es.Confidence,
			},
			Observation:    es.Observation,
			ScreenshotPath: es.ScreenshotPath,
			Timestamp:      es.Timestamp,
		}
		s.entries = append(s.entries, e)
		s.detector.AddEntry(e)
	}
	return nil
}

// ImportYAML parses YAML produced by ExportYAML (or hand-written for
// tests/replays) and loads it via Import.
func (s *Store) ImportYAML(data []byte) error {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("history snapshot: %w", err)
	}
	return s.Import(snap)
}
