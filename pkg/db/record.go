package db

import (
	"fmt"
	"maps"
)

// IDField is the attribute that holds a record's identity.
const IDField = "id"

// Record is a stored attribute map.
type Record map[string]any

// ID returns the record identity as a string, or "" if unset.
func (r Record) ID() string {
	return IDString(r[IDField])
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return maps.Clone(r)
}

// IDString normalizes an identity value to its string form.
func IDString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// Matches reports whether every query attribute equals the record's value.
// Values are compared by their printed form, so 1 and "1" are equal.
func (r Record) Matches(query map[string]any) bool {
	for field, want := range query {
		got, ok := r[field]
		if !ok {
			return false
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}
