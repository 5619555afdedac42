// Package id provides identity managers for in-memory record collections.
//
// Every collection owns one Manager. The manager hands out the next identity
// for records inserted without one, and is told about identities supplied by
// callers so that generated ids never collide with them.
//
//   - Counter: sequential string ids ("1", "2", ...), the default
//   - UUID: random UUID v4 strings
//
// Managers are not safe for concurrent use on their own; the owning
// collection serializes access.
package id
