package protocol

import "strings"

// Detect determines which protocol a model family speaks, from its name,
// mirroring LLMConfigManager.detect_protocol's first-match-wins substring
// scan. Unknown model names fall back to Universal, exactly like the
// original — "auto" protocol selection never fails closed.
func Detect(modelName string) Name {
	lower := strings.ToLower(modelName)
	for _, rule := range detectionRules {
		if strings.Contains(lower, rule.substr) {
			return rule.name
		}
	}
	return Universal
}

// ConfigFor returns the default Config for name, falling back to Universal
// for any name not in DefaultConfigs (matching get_protocol_config's
// fallback), including names outside the closed Name type that a config
// file or env var might still spell out.
func ConfigFor(name Name) Config {
	if cfg, ok := DefaultConfigs[name]; ok {
		return cfg
	}
	return DefaultConfigs[Universal]
}
