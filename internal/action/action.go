package action

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// leadingNumber extracts a numeric prefix from a string parameter value,
// e.g. "2 seconds" -> "2", so a model that emits duration="2 seconds"
// still validates as a number instead of failing type-checking.
var leadingNumber = regexp.MustCompile(`^-?\d+(\.\d+)?`)

// Action is one concrete emitted action: a kind plus its parameter values,
// with the reasoning/confidence metadata the model attached to it.
type Action struct {
	Kind       Kind
	Params     map[string]any
	Reasoning  string
	Confidence float64
}

// Describe renders a one-line human-readable summary, matching the
// original's Action.get_description: "<description> (k=v, k=v)".
func (a Action) Describe() string {
	def, ok := Lookup(a.Kind)
	if !ok {
		return fmt.Sprintf("unknown action: %s", a.Kind)
	}
	keys := make([]string, 0, len(a.Params))
	for k := range a.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, a.Params[k]))
	}
	return fmt.Sprintf("%s (%s)", def.Description, strings.Join(parts, ", "))
}

// Validate checks params against the kind's definition: required params
// present, no unknown params, and every value within its type/bounds.
// It never panics — callers always get a (possibly empty) error list back.
func Validate(k Kind, params map[string]any) []string {
	def, ok := Lookup(k)
	if !ok {
		return []string{fmt.Sprintf("unknown action type: %s", k)}
	}

	known := make(map[string]ParamSpec, len(def.Params))
	for _, p := range def.Params {
		known[p.Name] = p
	}

	var errs []string
	for _, p := range def.Params {
		if p.Required {
			if _, present := params[p.Name]; !present {
				errs = append(errs, fmt.Sprintf("missing required parameter: %s", p.Name))
			}
		}
	}

	for name, value := range params {
		spec, isKnown := known[name]
		if !isKnown {
			errs = append(errs, fmt.Sprintf("unknown parameter: %s", name))
			continue
		}
		if err := validateValue(spec, value); err != "" {
			errs = append(errs, err)
		}
	}

	return errs
}

func validateValue(spec ParamSpec, value any) string {
	if value == nil {
		if spec.Required {
			return fmt.Sprintf("parameter '%s' is required", spec.Name)
		}
		return ""
	}

	switch spec.Type {
	case TypeInt, TypeFloat:
		n, ok := numericValue(value)
		if !ok {
			return fmt.Sprintf("parameter '%s' has the wrong type, expected a number", spec.Name)
		}
		if spec.MinSet && n < spec.Min {
			return fmt.Sprintf("parameter '%s' must not be less than %v", spec.Name, spec.Min)
		}
		if spec.MaxSet && n > spec.Max {
			return fmt.Sprintf("parameter '%s' must not be greater than %v", spec.Name, spec.Max)
		}
	case TypeString:
		if _, ok := value.(string); !ok {
			return fmt.Sprintf("parameter '%s' has the wrong type, expected a string", spec.Name)
		}
	case TypeStringList:
		switch value.(type) {
		case []string, []any:
		default:
			return fmt.Sprintf("parameter '%s' has the wrong type, expected a list", spec.Name)
		}
	}
	return ""
}

// numericValue extracts a float64 from any of the numeric types that can
// arrive from a JSON decode, a YAML decode, or a hand-built map[string]any,
// plus a string with a leading number (e.g. the autoglm grammar's
// duration="2 seconds") per the spec's "coerce strings to number" rule.
func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case string:
		m := leadingNumber.FindString(strings.TrimSpace(v))
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// WithDefaults returns a copy of params with every omitted, non-required
// parameter filled in from its definition's default.
func WithDefaults(k Kind, params map[string]any) map[string]any {
	def, ok := Lookup(k)
	if !ok {
		return params
	}
	out := make(map[string]any, len(params))
	for key, v := range params {
		out[key] = v
	}
	for _, p := range def.Params {
		if _, present := out[p.Name]; !present && !p.Required && p.Default != nil {
			out[p.Name] = p.Default
		}
	}
	return out
}
