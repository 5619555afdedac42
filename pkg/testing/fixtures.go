package testing

import (
	"strings"
	"testing"

	"github.com/getmockd/mockfactory/pkg/config"
	"github.com/getmockd/mockfactory/pkg/db"
	"github.com/getmockd/mockfactory/pkg/factory"
	"github.com/getmockd/mockfactory/pkg/logging"
	"github.com/getmockd/mockfactory/pkg/orm"
)

// Fixtures is a test helper binding a factory session to a test.
type Fixtures struct {
	t       testing.TB
	session *factory.Session
	metrics *factory.MetricsObserver
}

// Option configures New.
type Option func(*options)

type options struct {
	sources  []func() (*config.Manifest, error)
	schema   *orm.Schema
	registry *factory.Registry
	dbOpts   []db.Option
}

// WithManifest loads a manifest file or glob pattern.
func WithManifest(pattern string) Option {
	return func(o *options) {
		o.sources = append(o.sources, func() (*config.Manifest, error) {
			if strings.ContainsAny(pattern, "*?[") {
				return config.LoadGlob(pattern)
			}
			return config.LoadFromFile(pattern)
		})
	}
}

// WithManifestYAML parses an inline YAML manifest.
func WithManifestYAML(doc string) Option {
	return func(o *options) {
		o.sources = append(o.sources, func() (*config.Manifest, error) {
			return config.ParseYAML([]byte(doc))
		})
	}
}

// WithDefinitions uses an already built schema and registry instead of
// manifests.
func WithDefinitions(schema *orm.Schema, reg *factory.Registry) Option {
	return func(o *options) {
		o.schema = schema
		o.registry = reg
	}
}

// WithDBOptions configures the session's store.
func WithDBOptions(opts ...db.Option) Option {
	return func(o *options) {
		o.dbOpts = append(o.dbOpts, opts...)
	}
}

// New opens a fixture session for t. Loading or compilation errors fail the
// test immediately.
func New(t testing.TB, opts ...Option) *Fixtures {
	t.Helper()

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	schema, reg := o.schema, o.registry
	if len(o.sources) > 0 {
		merged := &config.Manifest{Version: config.CurrentVersion}
		for _, load := range o.sources {
			m, err := load()
			if err != nil {
				t.Fatalf("loading manifest: %v", err)
			}
			if err := merged.Merge(m); err != nil {
				t.Fatalf("merging manifest: %v", err)
			}
		}
		var err error
		if schema, reg, err = merged.Compile(); err != nil {
			t.Fatalf("compiling manifest: %v", err)
		}
	}

	metrics := factory.NewMetricsObserver()
	s, err := factory.NewSession(schema, reg,
		factory.WithDB(db.New(o.dbOpts...)),
		factory.WithLogger(logging.Nop()),
		factory.WithObserver(metrics),
	)
	if err != nil {
		t.Fatalf("opening session: %v", err)
	}

	return &Fixtures{t: t, session: s, metrics: metrics}
}

// Session returns the underlying factory session.
func (f *Fixtures) Session() *factory.Session {
	return f.session
}

// DB returns the session's store.
func (f *Fixtures) DB() *db.DB {
	return f.session.DB()
}

// Metrics returns build and create counters for this session.
func (f *Fixtures) Metrics() factory.MetricsSnapshot {
	return f.metrics.Snapshot()
}

// Make starts a builder for typeName.
func (f *Fixtures) Make(typeName string) *Builder {
	return &Builder{f: f, typeName: typeName, times: 1}
}

// Create creates one record of typeName with traits, failing the test on error.
func (f *Fixtures) Create(typeName string, traits ...string) db.Record {
	f.t.Helper()
	return f.Make(typeName).WithTrait(traits...).Create()
}

// Build builds one attribute map of typeName with traits, failing the test on error.
func (f *Fixtures) Build(typeName string, traits ...string) map[string]any {
	f.t.Helper()
	return f.Make(typeName).WithTrait(traits...).Build()
}

// Reset empties all collections and restarts sequences.
func (f *Fixtures) Reset() {
	f.session.Reset()
}
