package testing

import (
	"maps"

	"github.com/getmockd/mockfactory/pkg/db"
	"github.com/getmockd/mockfactory/pkg/factory"
)

// Builder provides a fluent API for configuring what to build or create.
type Builder struct {
	f         *Fixtures
	typeName  string
	traits    []string
	overrides map[string]any
	times     int
}

// WithTrait applies traits in order.
func (b *Builder) WithTrait(names ...string) *Builder {
	b.traits = append(b.traits, names...)
	return b
}

// Set overrides one attribute.
func (b *Builder) Set(key string, value any) *Builder {
	if b.overrides == nil {
		b.overrides = make(map[string]any)
	}
	b.overrides[key] = value
	return b
}

// SetAll overrides several attributes.
func (b *Builder) SetAll(values map[string]any) *Builder {
	if b.overrides == nil {
		b.overrides = make(map[string]any, len(values))
	}
	maps.Copy(b.overrides, values)
	return b
}

// BelongsTo creates the related record for attr with typeName and traits.
func (b *Builder) BelongsTo(attr, typeName string, traits ...string) *Builder {
	return b.Set(attr, factory.Assoc(typeName, traits...))
}

// Times sets how many records CreateList and BuildList produce.
func (b *Builder) Times(n int) *Builder {
	b.times = n
	return b
}

// Once is Times(1).
func (b *Builder) Once() *Builder {
	return b.Times(1)
}

// Options returns the factory options collected so far.
func (b *Builder) Options() factory.Options {
	return factory.Options{
		Traits:    append([]string(nil), b.traits...),
		Overrides: maps.Clone(b.overrides),
	}
}

// Build builds one attribute map.
func (b *Builder) Build() map[string]any {
	b.f.t.Helper()
	attrs, err := b.f.session.Build(b.typeName, b.Options())
	if err != nil {
		b.f.t.Fatalf("building %s: %v", b.typeName, err)
	}
	return attrs
}

// BuildList builds Times() attribute maps.
func (b *Builder) BuildList() []map[string]any {
	b.f.t.Helper()
	list, err := b.f.session.BuildList(b.typeName, b.times, b.Options())
	if err != nil {
		b.f.t.Fatalf("building %d %s: %v", b.times, b.typeName, err)
	}
	return list
}

// Create creates one record.
func (b *Builder) Create() db.Record {
	b.f.t.Helper()
	rec, err := b.TryCreate()
	if err != nil {
		b.f.t.Fatalf("creating %s: %v", b.typeName, err)
	}
	return rec
}

// CreateList creates Times() records.
func (b *Builder) CreateList() []db.Record {
	b.f.t.Helper()
	list, err := b.TryCreateList()
	if err != nil {
		b.f.t.Fatalf("creating %d %s: %v", b.times, b.typeName, err)
	}
	return list
}

// TryCreate is Create returning the error instead of failing the test.
func (b *Builder) TryCreate() (db.Record, error) {
	return b.f.session.Create(b.typeName, b.Options())
}

// TryCreateList is CreateList returning the error instead of failing the test.
func (b *Builder) TryCreateList() ([]db.Record, error) {
	return b.f.session.CreateList(b.typeName, b.times, b.Options())
}
