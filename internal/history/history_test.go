package history

import (
	"testing"

	"github.com/aitoearn/mobile-agent-go/internal/action"
)

func click(x, y int) action.Action {
	return action.Action{Kind: action.Click, Params: map[string]any{"x": x, "y": y}}
}

func TestStoreAddAndEvict(t *testing.T) {
	s := NewStore(2)
	s.Add(click(1, 1), "", "", nil)
	s.Add(click(2, 2), "", "", nil)
	s.Add(click(3, 3), "", "", nil)

	all := s.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 entries after eviction, got %d", len(all))
	}
	if all[0].Step != 2 {
		t.Fatalf("expected oldest entry evicted, got step %d first", all[0].Step)
	}
}

func TestLoopDetectorRepeatedWindow(t *testing.T) {
	d := NewLoopDetector()
	for i := 0; i < 5; i++ {
		d.AddEntry(Entry{Action: click(1, 1)})
	}
	r := d.DetectLoop()
	if !r.Detected || r.Rule != "repeated_window" {
		t.Fatalf("expected repeated_window detection, got %+v", r)
	}
}

func TestLoopDetectorNoFalsePositive(t *testing.T) {
	d := NewLoopDetector()
	pts := [][2]int{{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}}
	for _, p := range pts {
		d.AddEntry(Entry{Action: click(p[0], p[1])})
	}
	r := d.DetectLoop()
	if r.Detected {
		t.Fatalf("expected no loop for 5 distinct actions, got %+v", r)
	}
}

func TestLoopDetectorIdenticalSequence(t *testing.T) {
	d := NewLoopDetector()
	seq := [][2]int{{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}}
	for i := 0; i < 2; i++ {
		for _, p := range seq {
			d.AddEntry(Entry{Action: click(p[0], p[1])})
		}
	}
	r := d.DetectLoop()
	if !r.Detected {
		t.Fatalf("expected a loop detection on repeated identical sequence, got %+v", r)
	}
}

func TestLoopDetectorCountersSurviveEviction(t *testing.T) {
	d := NewLoopDetector()
	// WindowSize*2 = 10 capacity; push the same click 12 times so the ring
	// buffer evicts but the lifetime action count keeps accumulating.
	for i := 0; i < 12; i++ {
		d.AddEntry(Entry{Action: click(9, 9)})
	}
	total, _, counts := d.Stats()
	if total != 10 {
		t.Fatalf("expected ring buffer capped at 10, got %d", total)
	}
	key := actionKey(click(9, 9))
	if counts[key] != 12 {
		t.Fatalf("expected lifetime counter to keep accumulating past eviction, got %d", counts[key])
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s := NewStore(50)
	s.Add(click(1, 2), "obs1", "", nil)
	s.Add(action.Action{Kind: action.Back}, "obs2", "", nil)

	data, err := s.ExportYAML()
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	s2 := NewStore(50)
	if err := s2.ImportYAML(data); err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(s2.All()) != 2 {
		t.Fatalf("expected 2 entries after import, got %d", len(s2.All()))
	}
	if s2.All()[0].Action.Kind != action.Click {
		t.Fatalf("got %+v", s2.All()[0])
	}
}
