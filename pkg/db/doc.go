// Package db provides the in-memory collection store that factories write into.
//
// A DB is a named set of untyped record collections. Collections are created
// lazily the first time they are referenced and assign an identity to every
// inserted record through an id.Manager.
//
// Core Types:
//
//   - DB: container for all collections of a session
//   - Collection: an insertion-ordered set of records with an id index
//   - Record: a single attribute map, always carrying an "id" once stored
//
// Thread Safety:
//
// Both DB and Collection guard their state with sync.RWMutex. Records handed
// out are copies; mutating them does not affect the store.
//
// Usage:
//
//	store := db.New()
//	rec, err := store.Collection("posts").Insert(map[string]any{"title": "hello"})
//	found, ok := store.Collection("posts").Find(rec.ID())
//	store.EmptyData()
package db
