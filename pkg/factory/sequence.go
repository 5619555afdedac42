package factory

import "sync"

// Sequencer manages one monotonically increasing counter per type.
type Sequencer struct {
	mu   sync.Mutex
	next map[string]int
}

// NewSequencer creates a Sequencer with no counters.
func NewSequencer() *Sequencer {
	return &Sequencer{next: make(map[string]int)}
}

// Next returns the counter for typeName and then increments it. The first
// call for a type returns 0.
func (s *Sequencer) Next(typeName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.next[typeName]
	s.next[typeName] = v + 1
	return v
}

// Current returns the number of values handed out for typeName.
func (s *Sequencer) Current(typeName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next[typeName]
}

// Reset drops every counter.
func (s *Sequencer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = make(map[string]int)
}
