package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// AgentConfig holds every spec §6 tunable for the agent loop and its
// history/loop-detector collaborators. LLM connection settings stay in
// llmclient.Config (MOBILEAGENT_LLM_* vars) since that package already
// owns its own env-driven Config/Validate pair, matching the teacher's
// one-Config-per-package convention.
type AgentConfig struct {
	MaxSteps            int `mapstructure:"max_steps"`
	MaxContextMessages  int `mapstructure:"max_context_messages"`
	MaxHistory          int `mapstructure:"max_history"`
	LoopWindowSize      int `mapstructure:"loop_window_size"`
	SimilarityThreshold int `mapstructure:"similarity_threshold"`
	MaxRepetitions      int `mapstructure:"max_repetitions"`
}

// DefaultAgentConfig matches SPEC_FULL.md §6/§10.3's documented defaults.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		MaxSteps:            20,
		MaxContextMessages:  10,
		MaxHistory:          50,
		LoopWindowSize:      5,
		SimilarityThreshold: 3,
		MaxRepetitions:      2,
	}
}

// LoadAgentConfig layers defaults, an optional config file, and
// MOBILEAGENT_* environment variables, following cortex-coder-agent's
// pkg/config.Load shape: viper.New, SetDefault per field, AutomaticEnv
// with a prefix, optional file, Unmarshal, Validate.
func LoadAgentConfig(configPath string) (*AgentConfig, error) {
	v := viper.New()

	defaults := DefaultAgentConfig()
	v.SetDefault("max_steps", defaults.MaxSteps)
	v.SetDefault("max_context_messages", defaults.MaxContextMessages)
	v.SetDefault("max_history", defaults.MaxHistory)
	v.SetDefault("loop_window_size", defaults.LoopWindowSize)
	v.SetDefault("similarity_threshold", defaults.SimilarityThreshold)
	v.SetDefault("max_repetitions", defaults.MaxRepetitions)

	v.SetEnvPrefix("MOBILEAGENT")
	v.AutomaticEnv()
	for _, key := range []string{"max_steps", "max_context_messages", "max_history", "loop_window_size", "similarity_threshold", "max_repetitions"} {
		_ = v.BindEnv(key)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("mobileagent")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg AgentConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal agent config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects tunables that would make the loop or loop detector
// behave nonsensically, matching openai.Config.Validate's style of one
// fmt.Errorf per bad field.
func (c *AgentConfig) Validate() error {
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps)
	}
	if c.MaxHistory <= 0 {
		return fmt.Errorf("max_history must be positive, got %d", c.MaxHistory)
	}
	if c.LoopWindowSize <= 0 {
		return fmt.Errorf("loop_window_size must be positive, got %d", c.LoopWindowSize)
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > c.LoopWindowSize {
		return fmt.Errorf("similarity_threshold must be in (0, loop_window_size=%d], got %d", c.LoopWindowSize, c.SimilarityThreshold)
	}
	if c.MaxRepetitions <= 0 {
		return fmt.Errorf("max_repetitions must be positive, got %d", c.MaxRepetitions)
	}
	return nil
}
