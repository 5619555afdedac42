package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/google/uuid"

	"github.com/getmockd/mockfactory/pkg/db"
	"github.com/getmockd/mockfactory/pkg/factory"
	"github.com/getmockd/mockfactory/pkg/fault"
	"github.com/getmockd/mockfactory/pkg/orm"
)

// generatorEnv is the expression environment of attribute generators.
func generatorEnv(seq int) map[string]any {
	return map[string]any{
		"i":    seq,
		"uuid": uuid.NewString,
	}
}

// hookEnv is the expression environment of after-create "set" expressions.
func hookEnv(rec db.Record, index int) map[string]any {
	return map[string]any{
		"record": map[string]any(rec),
		"i":      index,
		"uuid":   uuid.NewString,
	}
}

// Compile turns a manifest into a validated schema and a factory registry.
func (m *Manifest) Compile() (*orm.Schema, *factory.Registry, error) {
	schema := orm.NewSchema()
	for _, name := range sortedKeys(m.Models) {
		if _, err := schema.Register(name, m.Models[name]); err != nil {
			return nil, nil, fmt.Errorf("model %q: %w", name, err)
		}
	}
	if err := schema.Validate(); err != nil {
		return nil, nil, err
	}

	defs := make(map[string]*factory.Definition, len(m.Factories))
	for _, name := range sortedKeys(m.Factories) {
		def, err := compileFactory(name, m.Factories[name])
		if err != nil {
			return nil, nil, err
		}
		defs[name] = def
	}

	reg := factory.NewRegistry()
	for _, name := range sortedKeys(m.Factories) {
		def, err := resolveExtends(name, m.Factories, defs, nil)
		if err != nil {
			return nil, nil, err
		}
		if err := reg.Define(name, def); err != nil {
			return nil, nil, err
		}
	}
	return schema, reg, nil
}

// resolveExtends layers a factory over the chain of factories it extends.
func resolveExtends(name string, cfgs map[string]*FactoryConfig, defs map[string]*factory.Definition, seen []string) (*factory.Definition, error) {
	for _, s := range seen {
		if s == name {
			return nil, &fault.ConfigurationError{
				Type:    name,
				Message: "factory extends cycle " + strings.Join(append(seen, name), " -> "),
			}
		}
	}
	cfg := cfgs[name]
	if cfg == nil || cfg.Extends == "" {
		return defs[name], nil
	}
	if _, ok := cfgs[cfg.Extends]; !ok {
		return nil, &fault.ConfigurationError{
			Type:    name,
			Message: fmt.Sprintf("extends unknown factory %q", cfg.Extends),
		}
	}
	parent, err := resolveExtends(cfg.Extends, cfgs, defs, append(seen, name))
	if err != nil {
		return nil, err
	}
	return parent.Extend(defs[name]), nil
}

func compileFactory(name string, cfg *FactoryConfig) (*factory.Definition, error) {
	def := &factory.Definition{Traits: make(map[string]*factory.Trait)}
	if cfg == nil {
		def.Attrs = factory.Attrs{}
		return def, nil
	}

	attrs, err := compileAttrs(name, cfg.Attrs)
	if err != nil {
		return nil, err
	}
	def.Attrs = attrs

	hooks, err := compileHooks(name, cfg.AfterCreate)
	if err != nil {
		return nil, err
	}
	def.AfterCreate = hooks

	for _, traitName := range sortedKeys(cfg.Traits) {
		tc := cfg.Traits[traitName]
		trait := &factory.Trait{Attrs: factory.Attrs{}}
		if tc != nil {
			if trait.Attrs, err = compileAttrs(name+"."+traitName, tc.Attrs); err != nil {
				return nil, err
			}
			if trait.AfterCreate, err = compileHooks(name+"."+traitName, tc.AfterCreate); err != nil {
				return nil, err
			}
		}
		def.Traits[traitName] = trait
	}
	return def, nil
}

func compileAttrs(owner string, raw map[string]any) (factory.Attrs, error) {
	out := make(factory.Attrs, len(raw))
	for _, key := range sortedKeys(raw) {
		v, err := compileValue(raw[key])
		if err != nil {
			return nil, &fault.ConfigurationError{
				Type:    owner,
				Message: fmt.Sprintf("attribute %q: %v", key, err),
			}
		}
		out[key] = v
	}
	return out, nil
}

// compileValue classifies a manifest attribute value.
func compileValue(raw any) (factory.Value, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return factory.Val(plain(raw)), nil
	}

	if src, ok := m["expr"].(string); ok && len(m) == 1 {
		program, err := expr.Compile(src, expr.Env(generatorEnv(0)))
		if err != nil {
			return nil, fmt.Errorf("compile %q: %w", src, err)
		}
		return factory.FallibleGenerator(func(seq int) (any, error) {
			out, err := expr.Run(program, generatorEnv(seq))
			if err != nil {
				return nil, fmt.Errorf("evaluate %q: %w", src, err)
			}
			return out, nil
		}), nil
	}

	if pattern, ok := m["sequence"].(string); ok && len(m) == 1 {
		if !strings.Contains(pattern, "%d") {
			pattern += "%d"
		}
		return factory.Generator(func(seq int) any {
			return fmt.Sprintf(pattern, seq)
		}), nil
	}

	if target, ok := m["association"].(string); ok {
		placeholder := factory.Assoc(target, toStrings(m["traits"])...)
		if rawOverrides, ok := m["overrides"].(map[string]any); ok {
			overrides := make(map[string]any, len(rawOverrides))
			for k, v := range rawOverrides {
				cv, err := compileValue(v)
				if err != nil {
					return nil, fmt.Errorf("override %q: %w", k, err)
				}
				overrides[k] = cv
			}
			placeholder = placeholder.With(overrides)
		}
		return placeholder, nil
	}

	return factory.Val(plain(raw)), nil
}

// plain converts decoder-specific values to ordinary Go values.
func plain(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = plain(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = plain(vv)
		}
		return out
	default:
		return v
	}
}

func toStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

type compiledSet struct {
	key     string
	program *vm.Program
}

func compileHooks(owner string, steps []HookStep) ([]factory.Hook, error) {
	hooks := make([]factory.Hook, 0, len(steps))
	for i, step := range steps {
		hook, err := compileHook(owner, step)
		if err != nil {
			return nil, fmt.Errorf("%s afterCreate step %d: %w", owner, i, err)
		}
		hooks = append(hooks, hook)
	}
	return hooks, nil
}

func compileHook(owner string, step HookStep) (factory.Hook, error) {
	amount := 1
	if step.Amount != nil {
		n, err := factory.ParseAmount(step.Amount)
		if err != nil {
			return nil, err
		}
		amount = n
	}

	sets := make([]compiledSet, 0, len(step.Set))
	for _, key := range sortedKeys(step.Set) {
		src := step.Set[key]
		program, err := expr.Compile(src, expr.Env(hookEnv(db.Record{}, 0)))
		if err != nil {
			return nil, &fault.ConfigurationError{
				Type:    owner,
				Message: fmt.Sprintf("set %q: compile %q: %v", key, src, err),
			}
		}
		sets = append(sets, compiledSet{key: key, program: program})
	}

	traits := append([]string(nil), step.Traits...)
	target := step.Create

	return func(rec db.Record, s *factory.Session) error {
		for i := 0; i < amount; i++ {
			overrides := make(map[string]any, len(sets))
			env := hookEnv(rec, i)
			for _, set := range sets {
				v, err := expr.Run(set.program, env)
				if err != nil {
					return fmt.Errorf("eval %s: %w", set.key, err)
				}
				overrides[set.key] = v
			}
			if _, err := s.Create(target, factory.Options{Traits: traits, Overrides: overrides}); err != nil {
				return err
			}
		}
		return nil
	}, nil
}
