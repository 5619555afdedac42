package factory

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/getmockd/mockfactory/pkg/fault"
	"github.com/getmockd/mockfactory/pkg/inflect"
)

// resolveAssociations replaces every *Association in attrs with the foreign
// key of a newly created related record. A key present in overrides
// suppresses creation: the placeholder is dropped and no foreign key is
// written. path lists the types whose creation led here.
func (s *Session) resolveAssociations(path []string, typeName string, attrs, overrides map[string]any) error {
	for _, key := range placeholderKeys(attrs) {
		placeholder := attrs[key].(*Association)

		assoc, ok := s.schema.AssociationFor(typeName, key)
		if !ok || !assoc.IsBelongsTo() {
			return &fault.AssociationError{
				Type:      typeName,
				Attribute: key,
				Message:   "the attribute is not a belongsTo relationship",
			}
		}
		if assoc.IsReflexive() {
			return &fault.AssociationError{
				Type:      typeName,
				Attribute: key,
				Message:   "self-referential belongsTo would recurse forever; move the association into a trait and apply it selectively",
				Path:      []string{typeName, typeName},
			}
		}
		if placeholder.Type != "" && inflect.Camelize(placeholder.Type) != assoc.Target {
			return &fault.AssociationError{
				Type:      typeName,
				Attribute: key,
				Message:   fmt.Sprintf("placeholder asks for %q but the relationship targets %q", placeholder.Type, assoc.Target),
			}
		}

		if _, overridden := overrides[key]; !overridden {
			chain := append(slices.Clone(path), typeName)
			if slices.Contains(chain, assoc.Target) {
				cycle := append(chain, assoc.Target)
				return &fault.AssociationError{
					Type:      typeName,
					Attribute: key,
					Message:   "association cycle " + strings.Join(cycle, " -> "),
					Path:      cycle,
				}
			}
			related, err := s.create(chain, assoc.Target, Options{
				Traits:    placeholder.Traits,
				Overrides: placeholder.Overrides,
			})
			if err != nil {
				return fmt.Errorf("creating %s for %s.%s: %w", assoc.Target, typeName, key, err)
			}
			attrs[assoc.ForeignKey] = related.ID()
		}
		delete(attrs, key)
	}
	return nil
}

// checkPlaceholderTraits walks the placeholders in attrs, and the placeholders
// of every record they would create, and fails on the first trait that the
// target factory does not declare. It creates nothing. Placeholders the
// resolver will reject are skipped so that it reports them instead.
func (s *Session) checkPlaceholderTraits(path []string, typeName string, attrs, overrides map[string]any) error {
	chain := append(slices.Clone(path), typeName)
	for _, key := range placeholderKeys(attrs) {
		if _, overridden := overrides[key]; overridden {
			continue
		}
		placeholder := attrs[key].(*Association)
		assoc, ok := s.schema.AssociationFor(typeName, key)
		if !ok || !assoc.IsBelongsTo() || slices.Contains(chain, assoc.Target) {
			continue
		}
		if placeholder.Type != "" && inflect.Camelize(placeholder.Type) != assoc.Target {
			continue
		}
		def, ok := s.factories[assoc.Target]
		if !ok {
			continue
		}
		traits := uniqueTraits(placeholder.Traits)
		if err := validateTraits(assoc.Target, def, traits); err != nil {
			return fmt.Errorf("creating %s for %s.%s: %w", assoc.Target, typeName, key, err)
		}

		base := placeholderAttrs(def.Attrs)
		ext := make(map[string]any)
		for _, name := range traits {
			maps.Copy(ext, placeholderAttrs(def.Traits[name].Attrs))
		}
		for k, v := range placeholder.Overrides {
			if a, ok := v.(*Association); ok {
				ext[k] = a
			}
		}
		if err := s.checkPlaceholderTraits(chain, assoc.Target, base, placeholder.Overrides); err != nil {
			return err
		}
		if err := s.checkPlaceholderTraits(chain, assoc.Target, ext, nil); err != nil {
			return err
		}
	}
	return nil
}

// placeholderKeys returns the keys of attrs holding placeholders, sorted.
func placeholderKeys(attrs map[string]any) []string {
	keys := make([]string, 0)
	for k, v := range attrs {
		if _, ok := v.(*Association); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func placeholderAttrs(attrs Attrs) map[string]any {
	out := make(map[string]any)
	for k, v := range attrs {
		if a, ok := v.(*Association); ok && a != nil {
			out[k] = a
		}
	}
	return out
}
