// Package store provides an observable state container.
package store

import (
	"slices"
	"sync"
)

// A Store holds a value of T and notifies subscribers on every change.
//
// Subscribers run synchronously, in subscription order, on the goroutine
// that changed the state and after the new state is visible to Get.
// Subscribers must not call Set or Update.
type Store[T any] struct {
	mu     sync.RWMutex
	notify sync.Mutex
	state  T
	subs   []*subscriber[T]
}

type subscriber[T any] struct {
	fn func(T)
}

func New[T any](initial T) *Store[T] {
	return &Store[T]{state: initial}
}

func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Set replaces the state and notifies subscribers.
func (s *Store[T]) Set(v T) {
	s.Update(func(T) T { return v })
}

// Update replaces the state with fn(current) and notifies subscribers.
func (s *Store[T]) Update(fn func(T) T) {
	s.notify.Lock()
	defer s.notify.Unlock()

	s.mu.Lock()
	s.state = fn(s.state)
	v := s.state
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(v)
	}
}

// Subscribe registers fn and returns a function that unregisters it.
func (s *Store[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	sub := &subscriber[T]{fn: fn}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if i := slices.Index(s.subs, sub); i >= 0 {
				s.subs = slices.Delete(s.subs, i, i+1)
			}
		})
	}
}
