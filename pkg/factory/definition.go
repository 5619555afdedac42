package factory

import (
	"maps"
	"sort"
	"sync"

	"github.com/getmockd/mockfactory/pkg/db"
	"github.com/getmockd/mockfactory/pkg/fault"
	"github.com/getmockd/mockfactory/pkg/inflect"
)

// Hook runs after a record has been inserted. It receives a copy of the
// stored record and the session, so it can create further records.
type Hook func(rec db.Record, s *Session) error

// Trait is a named attribute extension with its own hooks.
type Trait struct {
	Attrs       Attrs
	AfterCreate []Hook
}

// Definition is the template for one logical type.
type Definition struct {
	// Attrs are the base attributes.
	Attrs Attrs
	// Traits are named extensions selectable per call.
	Traits map[string]*Trait
	// AfterCreate hooks run for every created record, before trait hooks.
	AfterCreate []Hook
}

// Extend returns a new definition with ext layered over d. Attributes and
// traits of ext win on name collision; hooks of both run, d's first.
func (d *Definition) Extend(ext *Definition) *Definition {
	out := d.clone()
	if ext == nil {
		return out
	}
	maps.Copy(out.Attrs, ext.Attrs)
	for name, t := range ext.Traits {
		out.Traits[name] = t.clone()
	}
	out.AfterCreate = append(out.AfterCreate, ext.AfterCreate...)
	return out
}

// TraitNames returns the declared trait names in sorted order.
func (d *Definition) TraitNames() []string {
	names := make([]string, 0, len(d.Traits))
	for name := range d.Traits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *Definition) clone() *Definition {
	out := &Definition{
		Attrs:       make(Attrs, len(d.Attrs)),
		Traits:      make(map[string]*Trait, len(d.Traits)),
		AfterCreate: append([]Hook(nil), d.AfterCreate...),
	}
	maps.Copy(out.Attrs, d.Attrs)
	for name, t := range d.Traits {
		out.Traits[name] = t.clone()
	}
	return out
}

func (t *Trait) clone() *Trait {
	if t == nil {
		return &Trait{Attrs: Attrs{}}
	}
	return &Trait{
		Attrs:       maps.Clone(t.Attrs),
		AfterCreate: append([]Hook(nil), t.AfterCreate...),
	}
}

// Registry holds factory definitions keyed by camelized type name.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Define registers def for typeName. Each type may be defined once.
func (r *Registry) Define(typeName string, def *Definition) error {
	key := inflect.Camelize(typeName)
	if key == "" {
		return &fault.ConfigurationError{Message: "factory name cannot be empty"}
	}
	if def == nil {
		return &fault.ConfigurationError{Type: key, Message: "factory definition cannot be nil"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[key]; exists {
		return &fault.ConfigurationError{Type: key, Message: "factory already defined"}
	}
	r.defs[key] = def.clone()
	return nil
}

// Lookup returns the definition for typeName.
func (r *Registry) Lookup(typeName string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[inflect.Camelize(typeName)]
	return def, ok
}

// Types returns the defined type names in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// snapshot copies the registry so a session keeps the definitions it was
// configured with.
func (r *Registry) snapshot() map[string]*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]*Definition, len(r.defs))
	for k, d := range r.defs {
		out[k] = d.clone()
	}
	return out
}
