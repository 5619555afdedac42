package factory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/getmockd/mockfactory/pkg/db"
	"github.com/getmockd/mockfactory/pkg/fault"
	"github.com/getmockd/mockfactory/pkg/inflect"
	"github.com/getmockd/mockfactory/pkg/logging"
	"github.com/getmockd/mockfactory/pkg/orm"
)

// Options selects traits and attribute overrides for one build.
type Options struct {
	// Traits are applied in order after the base attributes.
	Traits []string
	// Overrides win over every other attribute source.
	Overrides map[string]any
}

// Session owns the sequence counters and the store for one test. Build,
// Create and CreateList run synchronously; hooks and nested creations happen
// on the caller's goroutine.
type Session struct {
	schema     *orm.Schema
	factories  map[string]*Definition
	store      *db.DB
	seq        *Sequencer
	logger     *slog.Logger
	observer   Observer
	generation atomic.Int64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithDB uses store instead of a fresh db.DB.
func WithDB(store *db.DB) SessionOption {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets the logger for session events.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithObserver adds an observer notified of session events.
func WithObserver(o Observer) SessionOption {
	return func(s *Session) {
		if o != nil {
			s.observer = multiObserver{s.observer, o}
		}
	}
}

// NewSession validates schema and snapshots the registry. Later changes to
// reg are not seen by the session. A nil schema means no relationships; a
// nil registry means factory-less creation only.
func NewSession(schema *orm.Schema, reg *Registry, opts ...SessionOption) (*Session, error) {
	if schema == nil {
		schema = orm.NewSchema()
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = NewRegistry()
	}

	s := &Session{
		schema:    schema,
		factories: reg.snapshot(),
		store:     db.New(),
		seq:       NewSequencer(),
		logger:    logging.Nop(),
		observer:  NoopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.observer = multiObserver{NewLogObserver(s.logger), s.observer}
	return s, nil
}

// DB returns the session's store.
func (s *Session) DB() *db.DB {
	return s.store
}

// Schema returns the session's schema.
func (s *Session) Schema() *orm.Schema {
	return s.schema
}

// Generation returns how many times the session has been reset.
func (s *Session) Generation() int {
	return int(s.generation.Load())
}

// Sequence returns how many sequence values typeName has consumed.
func (s *Session) Sequence(typeName string) int {
	return s.seq.Current(inflect.Camelize(typeName))
}

// HasFactory reports whether a definition exists for typeName.
func (s *Session) HasFactory(typeName string) bool {
	_, ok := s.factories[inflect.Camelize(typeName)]
	return ok
}

// Build returns the attributes for one record of typeName without storing it.
// The sequence for typeName advances even when no factory is defined. With
// no factory, Build returns opts.Overrides itself.
func (s *Session) Build(typeName string, opts Options) (map[string]any, error) {
	attrs, err := s.build(nil, typeName, opts)
	if err != nil {
		s.observer.OnError(typeName, "build", err)
		return nil, err
	}
	return attrs, nil
}

// BuildList builds amount records of typeName.
func (s *Session) BuildList(typeName string, amount int, opts Options) ([]map[string]any, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, amount)
	for i := 0; i < amount; i++ {
		attrs, err := s.Build(typeName, opts)
		if err != nil {
			return out, fmt.Errorf("building %s %d of %d: %w", typeName, i+1, amount, err)
		}
		out = append(out, attrs)
	}
	return out, nil
}

func (s *Session) build(path []string, typeName string, opts Options) (map[string]any, error) {
	key := inflect.Camelize(typeName)
	seq := s.seq.Next(key)
	s.observer.OnBuild(key, seq)

	def, ok := s.factories[key]
	if !ok {
		if opts.Overrides == nil {
			return map[string]any{}, nil
		}
		return opts.Overrides, nil
	}

	traits := uniqueTraits(opts.Traits)
	if err := validateTraits(key, def, traits); err != nil {
		return nil, err
	}

	base, err := composeBase(key, def, seq)
	if err != nil {
		return nil, err
	}
	ext, err := composeExtensions(key, def, traits, opts.Overrides, seq)
	if err != nil {
		return nil, err
	}
	if len(path) == 0 {
		if err := s.checkPlaceholderTraits(path, key, base, opts.Overrides); err != nil {
			return nil, err
		}
		if err := s.checkPlaceholderTraits(path, key, ext, nil); err != nil {
			return nil, err
		}
	}

	// Placeholders may come from the base attributes or from traits and
	// overrides. Base placeholders yield to an override of the same key;
	// placeholders supplied by traits or overrides always resolve.
	if err := s.resolveAssociations(path, key, base, opts.Overrides); err != nil {
		return nil, err
	}
	if err := s.resolveAssociations(path, key, ext, nil); err != nil {
		return nil, err
	}

	maps.Copy(base, ext)
	return base, nil
}

// Create builds one record of typeName, stores it, and runs the after-create
// hooks of the factory and of every applied trait.
func (s *Session) Create(typeName string, opts Options) (db.Record, error) {
	rec, err := s.create(nil, typeName, opts)
	if err != nil {
		s.observer.OnError(typeName, "create", err)
		return nil, err
	}
	return rec, nil
}

// CreateList creates amount independent records of typeName in order.
func (s *Session) CreateList(typeName string, amount int, opts Options) ([]db.Record, error) {
	if err := validateAmount(amount); err != nil {
		s.observer.OnError(typeName, "createList", err)
		return nil, err
	}
	if err := s.checkCreatable(typeName); err != nil {
		s.observer.OnError(typeName, "createList", err)
		return nil, err
	}

	out := make([]db.Record, 0, amount)
	for i := 0; i < amount; i++ {
		rec, err := s.Create(typeName, opts)
		if err != nil {
			return out, fmt.Errorf("creating %s %d of %d: %w", typeName, i+1, amount, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Session) checkCreatable(typeName string) error {
	key := inflect.Camelize(typeName)
	if _, ok := s.factories[key]; ok {
		return nil
	}
	if s.schema.HasModel(key) || s.store.HasCollection(s.schema.ToCollectionName(key)) {
		return nil
	}
	return &fault.ConfigurationError{
		Type:       typeName,
		Message:    "no model or factory was found",
		Suggestion: fmt.Sprintf("Make sure you pass the singular form of the type name, e.g. %q.", inflect.Singularize(key)),
	}
}

func (s *Session) create(path []string, typeName string, opts Options) (db.Record, error) {
	start := time.Now()
	if err := s.checkCreatable(typeName); err != nil {
		return nil, err
	}

	key := inflect.Camelize(typeName)
	built, err := s.build(path, key, opts)
	if err != nil {
		return nil, err
	}

	// Factory-less builds hand back the caller's overrides; resolve any
	// placeholders on a copy so nothing transient reaches the store.
	attrs := maps.Clone(built)
	if err := s.resolveAssociations(path, key, attrs, nil); err != nil {
		return nil, err
	}

	collection := s.store.Collection(s.schema.ToCollectionName(key))
	rec, err := collection.Insert(attrs)
	if err != nil {
		return nil, fmt.Errorf("inserting %s: %w", key, err)
	}

	if def, ok := s.factories[key]; ok {
		if err := s.runHooks(key, def, uniqueTraits(opts.Traits), rec); err != nil {
			return nil, err
		}
		if fresh, ok := collection.Find(rec.ID()); ok {
			rec = fresh
		}
	}

	s.observer.OnCreate(key, collection.Name(), rec.ID(), time.Since(start))
	return rec, nil
}

func (s *Session) runHooks(typeName string, def *Definition, traits []string, rec db.Record) error {
	hooks := append([]Hook(nil), def.AfterCreate...)
	for _, name := range traits {
		hooks = append(hooks, def.Traits[name].AfterCreate...)
	}
	for i, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook(rec.Clone(), s); err != nil {
			return fmt.Errorf("after-create hook %d for %s %s: %w", i, typeName, rec.ID(), err)
		}
	}
	return nil
}

// Reset ends the current generation: sequence counters restart and every
// collection is emptied. Definitions and schema are kept.
func (s *Session) Reset() {
	start := time.Now()
	s.seq.Reset()
	s.store.EmptyData()
	gen := s.generation.Add(1)
	s.observer.OnReset(int(gen), time.Since(start))
}

func validateAmount(amount int) error {
	if amount < 0 {
		return &fault.ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("must be a non-negative integer, got %d", amount),
		}
	}
	return nil
}

// ParseAmount converts a loosely typed list size (from a CLI flag or a
// manifest) to an int. Fractional, negative and non-numeric values fail
// with a ValidationError.
func ParseAmount(v any) (int, error) {
	invalid := func() error {
		return &fault.ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("must be a non-negative integer, got %v (%T)", v, v),
		}
	}

	var n int64
	switch t := v.(type) {
	case int:
		n = int64(t)
	case int8:
		n = int64(t)
	case int16:
		n = int64(t)
	case int32:
		n = int64(t)
	case int64:
		n = t
	case uint:
		n = int64(t)
	case uint8:
		n = int64(t)
	case uint16:
		n = int64(t)
	case uint32:
		n = int64(t)
	case uint64:
		if t > math.MaxInt32 {
			return 0, invalid()
		}
		n = int64(t)
	case float32:
		return parseFloatAmount(float64(t), invalid)
	case float64:
		return parseFloatAmount(t, invalid)
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return 0, invalid()
		}
		n = i
	case string:
		i, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, invalid()
		}
		n = i
	default:
		return 0, invalid()
	}

	if n < 0 || n > math.MaxInt32 {
		return 0, invalid()
	}
	return int(n), nil
}

func parseFloatAmount(f float64, invalid func() error) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return 0, invalid()
	}
	return int(f), nil
}
