package factory

import (
	"fmt"
	"maps"

	"github.com/getmockd/mockfactory/pkg/fault"
)

// Compose merges a definition's base attributes, the named traits in order,
// and overrides into one flat map. Later traits win over earlier ones and
// overrides always win. Generators are evaluated with seq; placeholders are
// left in place for association resolution. def is not modified.
func Compose(typeName string, def *Definition, traits []string, overrides map[string]any, seq int) (map[string]any, error) {
	if err := validateTraits(typeName, def, traits); err != nil {
		return nil, err
	}
	out, err := composeBase(typeName, def, seq)
	if err != nil {
		return nil, err
	}
	ext, err := composeExtensions(typeName, def, traits, overrides, seq)
	if err != nil {
		return nil, err
	}
	maps.Copy(out, ext)
	return out, nil
}

// validateTraits fails with a ConfigurationError on the first unknown trait.
func validateTraits(typeName string, def *Definition, traits []string) error {
	for _, name := range traits {
		if _, ok := def.Traits[name]; !ok {
			return &fault.ConfigurationError{Type: typeName, Trait: name}
		}
	}
	return nil
}

func composeBase(typeName string, def *Definition, seq int) (map[string]any, error) {
	out := make(map[string]any, len(def.Attrs))
	for k, v := range def.Attrs {
		val, err := evaluate(v, seq)
		if err != nil {
			return nil, generatorError(typeName, k, err)
		}
		out[k] = val
	}
	return out, nil
}

// composeExtensions merges trait attributes and overrides without the base.
// Traits must already be validated.
func composeExtensions(typeName string, def *Definition, traits []string, overrides map[string]any, seq int) (map[string]any, error) {
	out := make(map[string]any)
	for _, name := range traits {
		for k, v := range def.Traits[name].Attrs {
			val, err := evaluate(v, seq)
			if err != nil {
				return nil, generatorError(typeName, k, err)
			}
			out[k] = val
		}
	}
	for k, v := range overrides {
		val, err := evaluateOverride(v, seq)
		if err != nil {
			return nil, generatorError(typeName, k, err)
		}
		out[k] = val
	}
	return out, nil
}

func generatorError(typeName, attr string, err error) error {
	return &fault.ConfigurationError{
		Type:    typeName,
		Message: fmt.Sprintf("generating attribute %q", attr),
		Err:     err,
	}
}

// uniqueTraits drops repeated trait names, keeping first occurrences.
func uniqueTraits(traits []string) []string {
	seen := make(map[string]struct{}, len(traits))
	out := make([]string, 0, len(traits))
	for _, t := range traits {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
