package db

import (
	"sync"

	"github.com/getmockd/mockfactory/internal/id"
	"github.com/getmockd/mockfactory/pkg/fault"
)

// Collection is an insertion-ordered set of records for one collection name.
type Collection struct {
	mu       sync.RWMutex
	name     string
	ids      id.Manager
	order    []string
	records  map[string]Record
	maxItems int
}

func newCollection(name string, ids id.Manager, maxItems int) *Collection {
	return &Collection{
		name:     name,
		ids:      ids,
		records:  make(map[string]Record),
		maxItems: maxItems,
	}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Insert stores a copy of data, assigning an identity when data has none.
func (c *Collection) Insert(data map[string]any) (Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertLocked(data)
}

// InsertMany stores each entry in order and returns the stored records.
// Entries before a failing one stay inserted.
func (c *Collection) InsertMany(data []map[string]any) ([]Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Record, 0, len(data))
	for _, d := range data {
		rec, err := c.insertLocked(d)
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (c *Collection) insertLocked(data map[string]any) (Record, error) {
	if c.maxItems > 0 && len(c.order) >= c.maxItems {
		return nil, &fault.ValidationError{
			Field:   c.name,
			Message: "collection has reached its maximum capacity",
		}
	}

	rec := Record(data).Clone()
	if rec == nil {
		rec = Record{}
	}

	key := rec.ID()
	if key == "" {
		key = c.ids.Fetch()
		rec[IDField] = key
	} else {
		if _, exists := c.records[key]; exists {
			return nil, &fault.ConflictError{Collection: c.name, ID: key}
		}
		if err := c.ids.Set(key); err != nil {
			return nil, &fault.ConflictError{Collection: c.name, ID: key}
		}
	}

	c.records[key] = rec
	c.order = append(c.order, key)
	return rec.Clone(), nil
}

// Find returns the record with the given identity.
func (c *Collection) Find(recordID any) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.records[IDString(recordID)]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// FindMany returns the records for ids, skipping unknown ones.
func (c *Collection) FindMany(ids []any) []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Record, 0, len(ids))
	for _, v := range ids {
		if rec, ok := c.records[IDString(v)]; ok {
			out = append(out, rec.Clone())
		}
	}
	return out
}

// FindBy returns the first record, in insertion order, matching query.
func (c *Collection) FindBy(query map[string]any) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, key := range c.order {
		if rec := c.records[key]; rec.Matches(query) {
			return rec.Clone(), true
		}
	}
	return nil, false
}

// Where returns all records matching query in insertion order.
func (c *Collection) Where(query map[string]any) []Record {
	return c.Filter(func(r Record) bool { return r.Matches(query) })
}

// Filter returns all records for which keep returns true. keep receives a
// copy of each record.
func (c *Collection) Filter(keep func(Record) bool) []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Record, 0)
	for _, key := range c.order {
		rec := c.records[key].Clone()
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// All returns every record in insertion order.
func (c *Collection) All() []Record {
	return c.Filter(func(Record) bool { return true })
}

// Len returns the number of stored records.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Update merges attrs into the record with the given identity. The identity
// itself cannot be changed.
func (c *Collection) Update(recordID any, attrs map[string]any) (Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := IDString(recordID)
	rec, ok := c.records[key]
	if !ok {
		return nil, &fault.NotFoundError{Collection: c.name, ID: key}
	}
	for k, v := range attrs {
		if k == IDField {
			continue
		}
		rec[k] = v
	}
	return rec.Clone(), nil
}

// Remove deletes the record with the given identity.
func (c *Collection) Remove(recordID any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := IDString(recordID)
	if _, ok := c.records[key]; !ok {
		return &fault.NotFoundError{Collection: c.name, ID: key}
	}
	delete(c.records, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clear removes every record and restarts identity assignment. It returns
// the number of records removed.
func (c *Collection) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.order)
	c.records = make(map[string]Record)
	c.order = nil
	c.ids.Reset()
	return n
}
