package schedule

import (
	"sync"
	"time"

	"github.com/aretw0/framenotes/pkg/clock"
)

// Slot is a single-slot, time-limited holding area for the most recently
// removed item. Putting a new value discards the previous one.
type Slot[T any] struct {
	mu       sync.Mutex
	clock    clock.Clock
	ttl      time.Duration
	onExpire func(T)

	value T
	full  bool
	timer clock.Timer
	gen   uint64
}

// NewSlot creates a Slot whose values expire after ttl.
// onExpire, if not nil, is called with a value that expired unconsumed.
func NewSlot[T any](c clock.Clock, ttl time.Duration, onExpire func(T)) *Slot[T] {
	if c == nil {
		c = clock.Real()
	}
	return &Slot[T]{clock: c, ttl: ttl, onExpire: onExpire}
}

// Put stores v and arms its expiry.
func (s *Slot[T]) Put(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.value = v
	s.full = true
	s.timer = s.clock.AfterFunc(s.ttl, func() { s.expire(gen) })
}

// Take consumes the held value.
func (s *Slot[T]) Take() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if !s.full {
		return zero, false
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	v := s.value
	s.value = zero
	s.full = false
	s.gen++
	return v, true
}

// Peek returns the held value without consuming it.
func (s *Slot[T]) Peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.full
}

// Clear empties the slot without calling onExpire.
func (s *Slot[T]) Clear() {
	s.Take()
}

func (s *Slot[T]) expire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.full {
		s.mu.Unlock()
		return
	}
	var zero T
	v := s.value
	s.value = zero
	s.full = false
	s.timer = nil
	s.mu.Unlock()

	if s.onExpire != nil {
		s.onExpire(v)
	}
}
