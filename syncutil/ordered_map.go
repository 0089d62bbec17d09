package syncutil

import (
	"iter"
	"sync"
)

// OrderedMap is a generic, thread-safe map that remembers insertion order.
// Slots are write-once: PutIfAbsent never replaces an existing value.
type OrderedMap[K comparable, V any] struct {
	mu    sync.RWMutex
	data  map[K]V
	order []K
}

// NewOrderedMap creates a new empty OrderedMap.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		data: make(map[K]V),
	}
}

// PutIfAbsent stores value under key and reports true, or reports false and
// leaves the map untouched if key is already present.
func (m *OrderedMap[K, V]) PutIfAbsent(key K, value V) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false
	}
	m.data[key] = value
	m.order = append(m.order, key)
	return true
}

// Get retrieves a value and whether it was found.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	return val, ok
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Keys returns a copy of all keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]K, len(m.order))
	copy(keys, m.order)
	return keys
}

// All returns a restartable sequence of key/value pairs in insertion order.
// The sequence iterates over a snapshot of the keys taken when iteration
// starts.
func (m *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, key := range m.Keys() {
			val, ok := m.Get(key)
			if !ok {
				continue
			}
			if !yield(key, val) {
				return
			}
		}
	}
}

// Values returns a restartable sequence of values in insertion order.
func (m *OrderedMap[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, val := range m.All() {
			if !yield(val) {
				return
			}
		}
	}
}
