package db

import (
	"fmt"
	"sort"
	"sync"

	"github.com/getmockd/mockfactory/internal/id"
	"github.com/getmockd/mockfactory/pkg/fault"
)

// DB is the container managing all collections of a session.
type DB struct {
	mu          sync.RWMutex
	collections map[string]*Collection
	identity    id.Factory
	identities  map[string]id.Factory
	maxItems    int
}

// Option configures a DB.
type Option func(*DB)

// WithIdentity sets the identity manager used for every new collection.
func WithIdentity(f id.Factory) Option {
	return func(d *DB) {
		if f != nil {
			d.identity = f
		}
	}
}

// WithCollectionIdentity sets the identity manager for one collection.
func WithCollectionIdentity(collection string, f id.Factory) Option {
	return func(d *DB) {
		if f != nil {
			d.identities[collection] = f
		}
	}
}

// WithMaxItems caps the number of records per collection (0 = unlimited).
func WithMaxItems(n int) Option {
	return func(d *DB) {
		d.maxItems = n
	}
}

// New creates an empty DB.
func New(opts ...Option) *DB {
	d := &DB{
		collections: make(map[string]*Collection),
		identity:    id.CounterFactory,
		identities:  make(map[string]id.Factory),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Collection returns the named collection, creating it on first reference.
func (d *DB) Collection(name string) *Collection {
	d.mu.RLock()
	c, ok := d.collections[name]
	d.mu.RUnlock()
	if ok {
		return c
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.collections[name]; ok {
		return c
	}
	c = newCollection(name, d.identityFor(name)(), d.maxItems)
	d.collections[name] = c
	return c
}

func (d *DB) identityFor(name string) id.Factory {
	if f, ok := d.identities[name]; ok {
		return f
	}
	return d.identity
}

// CreateCollection makes sure the named collection exists and optionally
// seeds it with initial records.
func (d *DB) CreateCollection(name string, initial ...map[string]any) (*Collection, error) {
	c := d.Collection(name)
	if len(initial) > 0 {
		if _, err := c.InsertMany(initial); err != nil {
			return c, fmt.Errorf("seeding %q: %w", name, err)
		}
	}
	return c, nil
}

// HasCollection reports whether the named collection has been created.
func (d *DB) HasCollection(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.collections[name]
	return ok
}

// Lookup returns an existing collection without creating it.
func (d *DB) Lookup(name string) (*Collection, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	c, ok := d.collections[name]
	if !ok {
		return nil, &fault.NotFoundError{Collection: name}
	}
	return c, nil
}

// Collections returns all collection names in sorted order.
func (d *DB) Collections() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.collections))
	for name := range d.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadData inserts records into their collections. Collections are processed
// in sorted name order.
func (d *DB) LoadData(data map[string][]map[string]any) error {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := d.CreateCollection(name, data[name]...); err != nil {
			return err
		}
	}
	return nil
}

// Dump returns a copy of every collection's records.
func (d *DB) Dump() map[string][]Record {
	out := make(map[string][]Record)
	for _, name := range d.Collections() {
		out[name] = d.Collection(name).All()
	}
	return out
}

// EmptyData clears every collection. Collections stay registered so that
// later lookups still find them.
func (d *DB) EmptyData() {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.collections {
		c.Clear()
	}
}

// Drop removes all collections entirely.
func (d *DB) Drop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.collections = make(map[string]*Collection)
}

// Overview summarizes the contents of a DB.
type Overview struct {
	// Collections is the number of collections
	Collections int `json:"collections"`
	// TotalRecords is the number of records across all collections
	TotalRecords int `json:"totalRecords"`
	// Counts maps collection name to record count
	Counts map[string]int `json:"counts"`
}

// Overview returns record counts per collection.
func (d *DB) Overview() *Overview {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ov := &Overview{
		Collections: len(d.collections),
		Counts:      make(map[string]int, len(d.collections)),
	}
	for name, c := range d.collections {
		n := c.Len()
		ov.Counts[name] = n
		ov.TotalRecords += n
	}
	return ov
}
