package id

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Manager assigns identities to records in a single collection.
type Manager interface {
	// Fetch returns the next unused identity and reserves it.
	Fetch() string
	// Set records an identity chosen by the caller.
	Set(id string) error
	// Reset forgets every identity handed out so far.
	Reset()
}

// Factory constructs a fresh Manager for a newly created collection.
type Factory func() Manager

// Counter hands out sequential decimal ids starting at "1".
type Counter struct {
	next int64
	used map[string]struct{}
}

// NewCounter creates a Counter starting at 1.
func NewCounter() *Counter {
	return &Counter{next: 1, used: make(map[string]struct{})}
}

// Fetch returns the next free numeric id.
func (c *Counter) Fetch() string {
	for {
		candidate := strconv.FormatInt(c.next, 10)
		c.next++
		if _, taken := c.used[candidate]; !taken {
			c.used[candidate] = struct{}{}
			return candidate
		}
	}
}

// Set reserves id. Numeric ids move the counter past them so later Fetch
// calls keep increasing.
func (c *Counter) Set(id string) error {
	if id == "" {
		return fmt.Errorf("id: empty identity")
	}
	if _, taken := c.used[id]; taken {
		return fmt.Errorf("id: identity %q already used", id)
	}
	c.used[id] = struct{}{}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil && n >= c.next {
		c.next = n + 1
	}
	return nil
}

// Reset restarts the counter at 1.
func (c *Counter) Reset() {
	c.next = 1
	c.used = make(map[string]struct{})
}

// UUIDs hands out random UUID v4 strings.
type UUIDs struct {
	used map[string]struct{}
}

// NewUUIDs creates a UUID-based Manager.
func NewUUIDs() *UUIDs {
	return &UUIDs{used: make(map[string]struct{})}
}

// Fetch returns a new random UUID.
func (u *UUIDs) Fetch() string {
	for {
		candidate := uuid.NewString()
		if _, taken := u.used[candidate]; !taken {
			u.used[candidate] = struct{}{}
			return candidate
		}
	}
}

// Set reserves a caller-chosen id.
func (u *UUIDs) Set(id string) error {
	if id == "" {
		return fmt.Errorf("id: empty identity")
	}
	if _, taken := u.used[id]; taken {
		return fmt.Errorf("id: identity %q already used", id)
	}
	u.used[id] = struct{}{}
	return nil
}

// Reset forgets all reserved UUIDs.
func (u *UUIDs) Reset() {
	u.used = make(map[string]struct{})
}

// CounterFactory is the default Factory.
func CounterFactory() Manager { return NewCounter() }

// UUIDFactory builds UUID managers.
func UUIDFactory() Manager { return NewUUIDs() }
