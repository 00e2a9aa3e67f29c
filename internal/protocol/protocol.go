// Package protocol adapts the agent loop to one of three model-family
// wire conventions: Universal (JSON), AutoGLM (call-syntax, 0-999 coords),
// and Gelab (XML, smaller screenshots). Each adapter owns its coordinate
// scale, image defaults, system-prompt action section, and action
// round-trip (format for the model, parse what it sends back).
package protocol

import "github.com/aitoearn/mobile-agent-go/internal/coord"

// Name identifies one of the three supported protocols.
type Name string

const (
	Universal Name = "universal"
	AutoGLM   Name = "autoglm"
	Gelab     Name = "gelab"
)

// ImageSize is the screenshot resolution a protocol's model expects.
type ImageSize struct {
	Width, Height int
}

// Config is the tunable surface of one protocol: coordinate scale and
// screenshot encoding defaults, matching LLMConfigManager.DEFAULT_PROTOCOL_CONFIGS.
type Config struct {
	Name             Name
	CoordinateScale  coord.Scale
	Image            ImageSize
	ImageQuality     int
	ImageFormat      string // "JPEG"
	ActionWireFormat string // "json", "call", or "xml" — informational, matches the adapter's own Format/Parse
}

// DefaultConfigs mirrors LLMConfigManager.DEFAULT_PROTOCOL_CONFIGS exactly.
var DefaultConfigs = map[Name]Config{
	Universal: {
		Name: Universal, CoordinateScale: 1000,
		Image: ImageSize{1080, 1920}, ImageQuality: 90, ImageFormat: "JPEG", ActionWireFormat: "json",
	},
	AutoGLM: {
		Name: AutoGLM, CoordinateScale: 999,
		Image: ImageSize{1080, 1920}, ImageQuality: 85, ImageFormat: "JPEG", ActionWireFormat: "call",
	},
	Gelab: {
		Name: Gelab, CoordinateScale: 1000,
		Image: ImageSize{720, 1280}, ImageQuality: 80, ImageFormat: "JPEG", ActionWireFormat: "xml",
	},
}

// detectionRules mirrors LLMConfigManager.PROTOCOL_DETECTION_RULES: the
// first substring match wins, checked in this fixed order.
var detectionRules = []struct {
	substr string
	name   Name
}{
	{"autoglm", AutoGLM},
	{"glm", AutoGLM},
	{"gelab", Gelab},
}
