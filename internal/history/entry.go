// Package history tracks executed actions for one session: an ordered,
// bounded log plus a sliding-window detector for repetitive behavior.
package history

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/aitoearn/mobile-agent-go/internal/action"
)

// Entry records one executed action and what it observed.
type Entry struct {
	Step           int
	Action         action.Action
	Observation    string
	ScreenshotPath string
	Timestamp      time.Time
	Metadata       map[string]any
}

// Fingerprint derives a loop-detection key from the action's kind and
// params only — observation/timestamp/screenshot never affect it, matching
// HistoryEntry.get_fingerprint.
func (e Entry) Fingerprint() string {
	return fmt.Sprintf("%x", md5.Sum([]byte(canonicalActionJSON(e.Action))))[:16]
}

// canonicalActionJSON renders {kind, params} with sorted keys so the same
// logical action always fingerprints identically regardless of map
// iteration order.
func canonicalActionJSON(a action.Action) string {
	keys := make([]string, 0, len(a.Params))
	for k := range a.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ordered := make(map[string]any, len(a.Params)+1)
	ordered["type"] = string(a.Kind)
	params := make(map[string]any, len(keys))
	for _, k := range keys {
		params[k] = a.Params[k]
	}
	ordered["params"] = params
	b, _ := json.Marshal(ordered)
	return string(b)
}

// actionKey is the dedup key used by the max-repetitions rule: kind plus
// sorted-key param JSON, matching HistoryManager's "type:json(params)" key.
func actionKey(a action.Action) string {
	keys := make([]string, 0, len(a.Params))
	for k := range a.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	params := make(map[string]any, len(keys))
	for _, k := range keys {
		params[k] = a.Params[k]
	}
	b, _ := json.Marshal(params)
	return string(a.Kind) + ":" + string(b)
}

// Describe renders a one-line summary used by Summary/FormattedHistory.
func (e Entry) Describe() string {
	return e.Action.Describe()
}
