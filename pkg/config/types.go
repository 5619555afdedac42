package config

import (
	"fmt"
	"sort"

	"github.com/getmockd/mockfactory/pkg/orm"
)

// CurrentVersion is the manifest format version this package understands.
const CurrentVersion = "1"

// Manifest declares models and factories.
type Manifest struct {
	// Version is the manifest format version (default "1").
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	// Models maps logical type name to its schema declaration.
	Models map[string]orm.ModelSpec `json:"models,omitempty" yaml:"models,omitempty"`
	// Factories maps logical type name to its factory.
	Factories map[string]*FactoryConfig `json:"factories,omitempty" yaml:"factories,omitempty"`
}

// FactoryConfig declares one factory.
type FactoryConfig struct {
	// Extends names another factory of the manifest to start from.
	Extends string `json:"extends,omitempty" yaml:"extends,omitempty"`
	// Attrs are the base attributes.
	Attrs map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	// Traits are named attribute extensions.
	Traits map[string]*TraitConfig `json:"traits,omitempty" yaml:"traits,omitempty"`
	// AfterCreate steps run for every created record.
	AfterCreate []HookStep `json:"afterCreate,omitempty" yaml:"afterCreate,omitempty"`
}

// TraitConfig declares one trait.
type TraitConfig struct {
	Attrs       map[string]any `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	AfterCreate []HookStep     `json:"afterCreate,omitempty" yaml:"afterCreate,omitempty"`
}

// HookStep creates related records after a record is inserted.
type HookStep struct {
	// Create is the type to create.
	Create string `json:"create" yaml:"create"`
	// Amount is how many records to create (default 1).
	Amount any `json:"amount,omitempty" yaml:"amount,omitempty"`
	// Traits are applied to each created record.
	Traits []string `json:"traits,omitempty" yaml:"traits,omitempty"`
	// Set maps attribute name to an expression over "record" and "i".
	Set map[string]string `json:"set,omitempty" yaml:"set,omitempty"`
}

// Merge adds other's models and factories to m. A name declared in both is
// an error.
func (m *Manifest) Merge(other *Manifest) error {
	if other == nil {
		return nil
	}
	if m.Models == nil {
		m.Models = make(map[string]orm.ModelSpec)
	}
	if m.Factories == nil {
		m.Factories = make(map[string]*FactoryConfig)
	}
	for _, name := range sortedKeys(other.Models) {
		if _, dup := m.Models[name]; dup {
			return fmt.Errorf("model %q declared twice", name)
		}
		m.Models[name] = other.Models[name]
	}
	for _, name := range sortedKeys(other.Factories) {
		if _, dup := m.Factories[name]; dup {
			return fmt.Errorf("factory %q declared twice", name)
		}
		m.Factories[name] = other.Factories[name]
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
