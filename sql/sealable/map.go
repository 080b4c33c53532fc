// Package sealable provides a map that can be frozen against writes
// without losing read access.
package sealable

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/hashstructure"
)

// Map is a keyed container over a delegate map. When sealed, every
// mutating operation, including mutations through its views, returns
// ErrSealed and leaves the contents untouched. Reads are always allowed.
//
// Map is not safe for concurrent use. Sealing is expected to happen at a
// phase boundary with no writers in flight.
type Map[K comparable, V any] struct {
	delegate map[K]V
	sealed   bool
}

// New returns an unsealed Map backed by delegate. A nil delegate is
// replaced by an empty map. Changes made directly to the delegate are
// visible through the Map.
func New[K comparable, V any](delegate map[K]V) *Map[K, V] {
	if delegate == nil {
		delegate = make(map[K]V)
	}
	return &Map[K, V]{delegate: delegate}
}

// Seal makes the map read-only. It has no effect on a sealed map.
func (m *Map[K, V]) Seal() { m.sealed = true }

// Unseal makes the map writable again. It has no effect on an unsealed
// map.
func (m *Map[K, V]) Unseal() { m.sealed = false }

// IsSealed reports whether the map is sealed.
func (m *Map[K, V]) IsSealed() bool { return m.sealed }

func (m *Map[K, V]) checkWritable() error {
	if m.sealed {
		return ErrSealed.New()
	}
	return nil
}

// Get returns the value mapped to k and whether it was present.
func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.delegate[k]
	return v, ok
}

// GetOrDefault returns the value mapped to k, or def if there is none.
func (m *Map[K, V]) GetOrDefault(k K, def V) V {
	if v, ok := m.delegate[k]; ok {
		return v
	}
	return def
}

// ContainsKey reports whether k is mapped.
func (m *Map[K, V]) ContainsKey(k K) bool {
	_, ok := m.delegate[k]
	return ok
}

// ContainsValue reports whether some key is mapped to a value deeply
// equal to v.
func (m *Map[K, V]) ContainsValue(v V) bool {
	for _, x := range m.delegate {
		if valueEqual(x, v) {
			return true
		}
	}
	return false
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return len(m.delegate) }

// IsEmpty reports whether the map has no entries.
func (m *Map[K, V]) IsEmpty() bool { return len(m.delegate) == 0 }

// Range calls fn for every entry until fn returns false. The order is
// unspecified.
func (m *Map[K, V]) Range(fn func(K, V) bool) {
	for k, v := range m.delegate {
		if !fn(k, v) {
			return
		}
	}
}

// Put maps k to v and returns the previous value, if any.
func (m *Map[K, V]) Put(k K, v V) (V, bool, error) {
	if err := m.checkWritable(); err != nil {
		var zero V
		return zero, false, err
	}
	old, ok := m.delegate[k]
	m.delegate[k] = v
	return old, ok, nil
}

// Remove deletes k and returns the value it was mapped to, if any.
func (m *Map[K, V]) Remove(k K) (V, bool, error) {
	if err := m.checkWritable(); err != nil {
		var zero V
		return zero, false, err
	}
	old, ok := m.delegate[k]
	delete(m.delegate, k)
	return old, ok, nil
}

// PutAll copies every entry of other into the map.
func (m *Map[K, V]) PutAll(other map[K]V) error {
	if err := m.checkWritable(); err != nil {
		return err
	}
	for k, v := range other {
		m.delegate[k] = v
	}
	return nil
}

// Clear removes every entry.
func (m *Map[K, V]) Clear() error {
	if err := m.checkWritable(); err != nil {
		return err
	}
	for k := range m.delegate {
		delete(m.delegate, k)
	}
	return nil
}

// ReplaceAll replaces every value with the result of fn.
func (m *Map[K, V]) ReplaceAll(fn func(K, V) V) error {
	if err := m.checkWritable(); err != nil {
		return err
	}
	for k, v := range m.delegate {
		m.delegate[k] = fn(k, v)
	}
	return nil
}

// PutIfAbsent maps k to v unless k is already mapped. It returns the
// existing value and true if there was one.
func (m *Map[K, V]) PutIfAbsent(k K, v V) (V, bool, error) {
	if err := m.checkWritable(); err != nil {
		var zero V
		return zero, false, err
	}
	if old, ok := m.delegate[k]; ok {
		return old, true, nil
	}
	m.delegate[k] = v
	var zero V
	return zero, false, nil
}

// RemoveValue deletes k only if it is mapped to v.
func (m *Map[K, V]) RemoveValue(k K, v V) (bool, error) {
	if err := m.checkWritable(); err != nil {
		return false, err
	}
	if old, ok := m.delegate[k]; ok && valueEqual(old, v) {
		delete(m.delegate, k)
		return true, nil
	}
	return false, nil
}

// ReplaceValue maps k to newValue only if it is currently mapped to
// oldValue.
func (m *Map[K, V]) ReplaceValue(k K, oldValue, newValue V) (bool, error) {
	if err := m.checkWritable(); err != nil {
		return false, err
	}
	if old, ok := m.delegate[k]; ok && valueEqual(old, oldValue) {
		m.delegate[k] = newValue
		return true, nil
	}
	return false, nil
}

// Replace maps k to v only if k is already mapped, and returns the
// previous value.
func (m *Map[K, V]) Replace(k K, v V) (V, bool, error) {
	if err := m.checkWritable(); err != nil {
		var zero V
		return zero, false, err
	}
	old, ok := m.delegate[k]
	if ok {
		m.delegate[k] = v
	}
	return old, ok, nil
}

// ComputeIfAbsent maps k to the result of fn if k is not mapped and fn
// returns ok. It returns the value k is mapped to afterwards.
func (m *Map[K, V]) ComputeIfAbsent(k K, fn func(K) (V, bool)) (V, bool, error) {
	if err := m.checkWritable(); err != nil {
		var zero V
		return zero, false, err
	}
	if v, ok := m.delegate[k]; ok {
		return v, true, nil
	}
	v, ok := fn(k)
	if ok {
		m.delegate[k] = v
	}
	return v, ok, nil
}

// ComputeIfPresent remaps k with fn if it is mapped. When fn returns
// false the key is removed. It returns the value k is mapped to
// afterwards.
func (m *Map[K, V]) ComputeIfPresent(k K, fn func(K, V) (V, bool)) (V, bool, error) {
	var zero V
	if err := m.checkWritable(); err != nil {
		return zero, false, err
	}
	old, ok := m.delegate[k]
	if !ok {
		return zero, false, nil
	}
	v, ok := fn(k, old)
	if !ok {
		delete(m.delegate, k)
		return zero, false, nil
	}
	m.delegate[k] = v
	return v, true, nil
}

// Compute remaps k with fn, which receives the current value and whether
// k was mapped. When fn returns false the key is removed.
func (m *Map[K, V]) Compute(k K, fn func(K, V, bool) (V, bool)) (V, bool, error) {
	var zero V
	if err := m.checkWritable(); err != nil {
		return zero, false, err
	}
	old, present := m.delegate[k]
	v, ok := fn(k, old, present)
	if !ok {
		delete(m.delegate, k)
		return zero, false, nil
	}
	m.delegate[k] = v
	return v, true, nil
}

// Merge maps k to v if it is not mapped. Otherwise it remaps k to the
// result of fn over the current value and v, removing k when fn returns
// false.
func (m *Map[K, V]) Merge(k K, v V, fn func(old, v V) (V, bool)) (V, bool, error) {
	var zero V
	if err := m.checkWritable(); err != nil {
		return zero, false, err
	}
	old, ok := m.delegate[k]
	if !ok {
		m.delegate[k] = v
		return v, true, nil
	}
	merged, ok := fn(old, v)
	if !ok {
		delete(m.delegate, k)
		return zero, false, nil
	}
	m.delegate[k] = merged
	return merged, true, nil
}

// Equal reports whether both maps have the same sealed flag and deeply
// equal contents.
func (m *Map[K, V]) Equal(other *Map[K, V]) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.sealed != other.sealed || len(m.delegate) != len(other.delegate) {
		return false
	}
	for k, v := range m.delegate {
		ov, ok := other.delegate[k]
		if !ok || !valueEqual(v, ov) {
			return false
		}
	}
	return true
}

// Hasher is implemented by keys and values that compute their own hash.
// Equal values must have equal hashes. Other keys and values are hashed
// with hashstructure, which ignores unexported fields.
type Hasher interface {
	Hash() (uint64, error)
}

// Hash returns a hash of the sealed flag and the contents. Equal maps
// have equal hashes. The hash does not depend on iteration order.
func (m *Map[K, V]) Hash() (uint64, error) {
	if m == nil {
		return 0, nil
	}

	var entries uint64
	for k, v := range m.delegate {
		kh, err := hashOf(k)
		if err != nil {
			return 0, err
		}
		vh, err := hashOf(v)
		if err != nil {
			return 0, err
		}
		eh, err := hashstructure.Hash(struct{ Key, Value uint64 }{kh, vh}, nil)
		if err != nil {
			return 0, err
		}
		entries ^= eh
	}

	return hashstructure.Hash(struct {
		Entries uint64
		Len     int
		Sealed  bool
	}{entries, len(m.delegate), m.sealed}, nil)
}

func hashOf(v interface{}) (uint64, error) {
	if h, ok := v.(Hasher); ok {
		return h.Hash()
	}
	return hashstructure.Hash(v, nil)
}

func (m *Map[K, V]) String() string {
	return fmt.Sprint(m.delegate)
}

func valueEqual[V any](a, b V) bool {
	return reflect.DeepEqual(a, b)
}
