// Package orm holds the logical schema: which record types exist, which
// collection each lives in, and how types relate to one another.
package orm

import (
	"fmt"
	"sort"
	"sync"

	"github.com/getmockd/mockfactory/pkg/fault"
	"github.com/getmockd/mockfactory/pkg/inflect"
)

// Kind is the relationship kind of an association.
type Kind string

const (
	// BelongsTo references a single related record through a foreign key.
	BelongsTo Kind = "belongsTo"
	// HasMany references a list of related records through an id list.
	HasMany Kind = "hasMany"
)

// Association describes one declared relationship of a model.
type Association struct {
	// Kind is belongsTo or hasMany.
	Kind Kind
	// Key is the logical attribute name ("author").
	Key string
	// Owner is the model declaring the association.
	Owner string
	// Target is the related model ("user").
	Target string
	// ForeignKey is the attribute storing the reference ("authorId" or "commentIds").
	ForeignKey string
}

// IsBelongsTo reports whether a is a belongs-to relationship.
func (a *Association) IsBelongsTo() bool {
	return a.Kind == BelongsTo
}

// IsReflexive reports whether a points back at its own model.
func (a *Association) IsReflexive() bool {
	return a.Owner == a.Target
}

// ModelSpec declares a model for Register.
type ModelSpec struct {
	// Collection overrides the inflected collection name.
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`
	// BelongsTo maps attribute name to target model.
	BelongsTo map[string]string `json:"belongsTo,omitempty" yaml:"belongsTo,omitempty"`
	// HasMany maps attribute name to target model.
	HasMany map[string]string `json:"hasMany,omitempty" yaml:"hasMany,omitempty"`
	// ForeignKeys overrides the conventional foreign-key attribute per association key.
	ForeignKeys map[string]string `json:"foreignKeys,omitempty" yaml:"foreignKeys,omitempty"`
}

// Model is a registered logical record type.
type Model struct {
	Name         string
	Collection   string
	Associations map[string]*Association
}

// AssociationFor returns the association declared on key.
func (m *Model) AssociationFor(key string) (*Association, bool) {
	a, ok := m.Associations[key]
	return a, ok
}

// BelongsToAssociations returns the model's belongs-to associations sorted by key.
func (m *Model) BelongsToAssociations() []*Association {
	out := make([]*Association, 0)
	for _, a := range m.Associations {
		if a.IsBelongsTo() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Schema maps logical type names to models.
type Schema struct {
	mu     sync.RWMutex
	models map[string]*Model
}

// NewSchema creates an empty Schema.
func NewSchema() *Schema {
	return &Schema{models: make(map[string]*Model)}
}

// Register declares a model. Type names are camelized, so "blog-post" and
// "blogPost" refer to the same model.
func (s *Schema) Register(name string, spec ModelSpec) (*Model, error) {
	key := inflect.Camelize(name)
	if key == "" {
		return nil, &fault.ConfigurationError{Message: "model name cannot be empty"}
	}

	collection := spec.Collection
	if collection == "" {
		collection = inflect.ToCollectionName(key)
	}

	m := &Model{
		Name:         key,
		Collection:   collection,
		Associations: make(map[string]*Association),
	}
	for attr, target := range spec.BelongsTo {
		m.Associations[attr] = &Association{
			Kind:       BelongsTo,
			Key:        attr,
			Owner:      key,
			Target:     inflect.Camelize(target),
			ForeignKey: foreignKey(spec, attr, inflect.ForeignKey),
		}
	}
	for attr, target := range spec.HasMany {
		if _, dup := m.Associations[attr]; dup {
			return nil, &fault.ConfigurationError{
				Type:    key,
				Message: fmt.Sprintf("association %q declared as both belongsTo and hasMany", attr),
			}
		}
		m.Associations[attr] = &Association{
			Kind:       HasMany,
			Key:        attr,
			Owner:      key,
			Target:     inflect.Camelize(target),
			ForeignKey: foreignKey(spec, attr, inflect.IDsKey),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.models[key]; exists {
		return nil, &fault.ConfigurationError{Type: key, Message: "model already registered"}
	}
	s.models[key] = m
	return m, nil
}

func foreignKey(spec ModelSpec, attr string, convention func(string) string) string {
	if fk, ok := spec.ForeignKeys[attr]; ok && fk != "" {
		return fk
	}
	return convention(attr)
}

// ModelFor returns the model for a logical type.
func (s *Schema) ModelFor(typeName string) (*Model, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.models[inflect.Camelize(typeName)]
	return m, ok
}

// HasModel reports whether typeName is registered.
func (s *Schema) HasModel(typeName string) bool {
	_, ok := s.ModelFor(typeName)
	return ok
}

// AssociationFor returns the association declared on (typeName, key).
func (s *Schema) AssociationFor(typeName, key string) (*Association, bool) {
	m, ok := s.ModelFor(typeName)
	if !ok {
		return nil, false
	}
	return m.AssociationFor(key)
}

// ToCollectionName returns the collection that stores typeName records.
// Unregistered types fall back to the inflected name.
func (s *Schema) ToCollectionName(typeName string) string {
	if m, ok := s.ModelFor(typeName); ok {
		return m.Collection
	}
	return inflect.ToCollectionName(typeName)
}

// ToInternalCollectionName returns the "_"-prefixed collection name.
func (s *Schema) ToInternalCollectionName(typeName string) string {
	return "_" + s.ToCollectionName(typeName)
}

// Models returns all registered model names in sorted order.
func (s *Schema) Models() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.models))
	for name := range s.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every association targets a registered model.
func (s *Schema) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.models))
	for name := range s.models {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := s.models[name]
		keys := make([]string, 0, len(m.Associations))
		for k := range m.Associations {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			a := m.Associations[k]
			if _, ok := s.models[a.Target]; !ok {
				return &fault.ConfigurationError{
					Type:       name,
					Message:    fmt.Sprintf("association %q references unknown model %q", k, a.Target),
					Suggestion: fmt.Sprintf("Register model %q or fix the target of %q.", a.Target, k),
				}
			}
		}
	}
	return nil
}
