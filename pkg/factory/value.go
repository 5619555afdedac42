package factory

import (
	"maps"
	"slices"
)

// Value is a factory attribute. It is one of Static, Generator,
// FallibleGenerator or *Association.
type Value interface {
	isValue()
}

// Attrs maps attribute names to values.
type Attrs map[string]Value

// Static is a fixed attribute value.
type Static struct {
	V any
}

func (Static) isValue() {}

// Val wraps v as a Static value.
func Val(v any) Static {
	return Static{V: v}
}

// Generator computes an attribute from the type's sequence number.
type Generator func(seq int) any

func (Generator) isValue() {}

// FallibleGenerator is a Generator that can fail. An error aborts the build.
type FallibleGenerator func(seq int) (any, error)

func (FallibleGenerator) isValue() {}

// Association is a placeholder for a belongs-to relationship. When a record
// is built, the placeholder is replaced by the foreign key of a freshly
// created related record.
type Association struct {
	// Type is the related type. Empty means the schema's target for the attribute.
	Type string
	// Traits are applied when the related record is created.
	Traits []string
	// Overrides are applied when the related record is created.
	Overrides map[string]any
}

func (*Association) isValue() {}

// Assoc returns a placeholder for a related record of typeName built with traits.
func Assoc(typeName string, traits ...string) *Association {
	return &Association{Type: typeName, Traits: traits}
}

// With returns a copy of a that also applies overrides to the related record.
func (a *Association) With(overrides map[string]any) *Association {
	c := a.clone()
	if c.Overrides == nil {
		c.Overrides = make(map[string]any, len(overrides))
	}
	maps.Copy(c.Overrides, overrides)
	return c
}

func (a *Association) clone() *Association {
	return &Association{
		Type:      a.Type,
		Traits:    append([]string(nil), a.Traits...),
		Overrides: maps.Clone(a.Overrides),
	}
}

// StaticAttrs wraps every value of m as Static.
func StaticAttrs(m map[string]any) Attrs {
	out := make(Attrs, len(m))
	for k, v := range m {
		out[k] = Val(v)
	}
	return out
}

// evaluate turns a value into its concrete form for one build. Placeholders
// and container statics are copied so a build never mutates the definition.
func evaluate(v Value, seq int) (any, error) {
	switch t := v.(type) {
	case Static:
		return deepCopy(t.V), nil
	case Generator:
		if t == nil {
			return nil, nil
		}
		return t(seq), nil
	case FallibleGenerator:
		if t == nil {
			return nil, nil
		}
		return t(seq)
	case *Association:
		if t == nil {
			return nil, nil
		}
		return t.clone(), nil
	default:
		return nil, nil
	}
}

// evaluateOverride accepts plain values as well as Values in override maps.
func evaluateOverride(v any, seq int) (any, error) {
	if val, ok := v.(Value); ok {
		return evaluate(val, seq)
	}
	return v, nil
}

// deepCopy copies the maps and slices that manifests and Go literals produce.
// Other values are returned as is.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopy(e)
		}
		return out
	case []string:
		return slices.Clone(t)
	case []int:
		return slices.Clone(t)
	case []int64:
		return slices.Clone(t)
	case []float64:
		return slices.Clone(t)
	case map[string]string:
		return maps.Clone(t)
	default:
		return v
	}
}
