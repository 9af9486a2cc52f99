// Package kv provides a generic thread-safe key-value store with an
// optional size bound.
package kv

import "sync"

// Store is a thread-safe generic key-value store. A bounded store evicts
// its oldest entries first once it holds more than its limit.
type Store[K comparable, V any] struct {
	mu    sync.RWMutex
	data  map[K]V
	order []K // insertion order, only tracked when bounded
	limit int
}

// New creates a new unbounded key-value store.
func New[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{
		data: make(map[K]V),
	}
}

// NewBounded creates a store that holds at most limit entries.
// A limit below 1 means unbounded.
func NewBounded[K comparable, V any](limit int) *Store[K, V] {
	s := New[K, V]()
	if limit > 0 {
		s.limit = limit
	}
	return s
}

// Get retrieves a value by key.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok
}

// Set stores a value by key.
func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.data[key]
	s.data[key] = value
	if s.limit == 0 || exists {
		return
	}

	s.order = append(s.order, key)
	for len(s.data) > s.limit && len(s.order) > 0 {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.data, oldest)
	}
}

// GetOrSet returns the value for key, computing and storing it with fn
// when missing. fn runs without the lock held.
func (s *Store[K, V]) GetOrSet(key K, fn func() V) V {
	if v, ok := s.Get(key); ok {
		return v
	}
	v := fn()
	s.Set(key, v)
	return v
}

// Delete removes a key from the store.
func (s *Store[K, V]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	if s.limit > 0 {
		for i, k := range s.order {
			if k == key {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// Clear removes all entries from the store.
func (s *Store[K, V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[K]V)
	s.order = nil
}

// Len returns the number of items in the store.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
