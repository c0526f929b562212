// Package deterministicmap provides a map whose iteration order is canonical, so it can be ranged over in state
// machine code.
package deterministicmap

import (
	"cmp"
	"slices"
)

// Map keeps its keys sorted on every insertion. Iteration order is stable across executions.
type Map[K cmp.Ordered, V any] struct {
	data map[K]V
	keys []K
}

// New creates an empty Map. The zero value of Map is also safe to use.
func New[K cmp.Ordered, V any]() *Map[K, V] {
	return &Map[K, V]{
		data: make(map[K]V),
	}
}

// Set inserts or updates a key/value pair.
func (m *Map[K, V]) Set(key K, value V) {
	if m.data == nil {
		m.data = make(map[K]V)
	}
	if _, exists := m.data[key]; !exists {
		i, _ := slices.BinarySearch(m.keys, key)
		m.keys = slices.Insert(m.keys, i, key)
	}
	m.data[key] = value
}

// Update replaces the value of key with fn(current, found).
func (m *Map[K, V]) Update(key K, fn func(current V, found bool) V) {
	current, found := m.Get(key)
	m.Set(key, fn(current, found))
}

// Get retrieves a value by key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.data[key]
	return v, ok
}

// Delete removes a key/value pair. Deleting a missing key is a noop.
func (m *Map[K, V]) Delete(key K) {
	if _, exists := m.data[key]; !exists {
		return
	}
	delete(m.data, key)
	if i, found := slices.BinarySearch(m.keys, key); found {
		m.keys = slices.Delete(m.keys, i, i+1)
	}
}

// Len returns the number of entries in the map.
func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns all keys in sorted order.
func (m *Map[K, V]) Keys() []K {
	return slices.Clone(m.keys)
}

// Range iterates over the map in sorted key order. Returning false from fn stops iteration.
func (m *Map[K, V]) Range(fn func(key K, value V) bool) {
	for _, k := range m.keys {
		if !fn(k, m.data[k]) {
			return
		}
	}
}

// RangeErr iterates over the map in sorted key order and stops at the first error.
func (m *Map[K, V]) RangeErr(fn func(key K, value V) error) error {
	for _, k := range m.keys {
		if err := fn(k, m.data[k]); err != nil {
			return err
		}
	}
	return nil
}
