package config

import "testing"

func TestDefaultAgentConfigValidates(t *testing.T) {
	cfg := DefaultAgentConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestAgentConfigValidateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name string
		cfg  AgentConfig
	}{
		{"zero max steps", AgentConfig{MaxSteps: 0, MaxHistory: 1, LoopWindowSize: 1, SimilarityThreshold: 1, MaxRepetitions: 1}},
		{"zero max history", AgentConfig{MaxSteps: 1, MaxHistory: 0, LoopWindowSize: 1, SimilarityThreshold: 1, MaxRepetitions: 1}},
		{"threshold above window", AgentConfig{MaxSteps: 1, MaxHistory: 1, LoopWindowSize: 3, SimilarityThreshold: 4, MaxRepetitions: 1}},
		{"zero repetitions", AgentConfig{MaxSteps: 1, MaxHistory: 1, LoopWindowSize: 1, SimilarityThreshold: 1, MaxRepetitions: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestLoadAgentConfigFallsBackToDefaultsWithoutFileOrEnv(t *testing.T) {
	cfg, err := LoadAgentConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := DefaultAgentConfig()
	if *cfg != want {
		t.Fatalf("got %+v, want %+v", *cfg, want)
	}
}

func TestLoadAgentConfigHonorsEnvOverride(t *testing.T) {
	t.Setenv("MOBILEAGENT_MAX_STEPS", "7")
	cfg, err := LoadAgentConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxSteps != 7 {
		t.Fatalf("expected env override to win, got MaxSteps=%d", cfg.MaxSteps)
	}
}
