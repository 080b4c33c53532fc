package sealable

// KeySet is a live view of the keys of a Map. Mutations through it fail
// with ErrSealed while the map is sealed.
type KeySet[K comparable, V any] struct {
	m *Map[K, V]
}

// Keys returns a view of the keys of the map.
func (m *Map[K, V]) Keys() KeySet[K, V] { return KeySet[K, V]{m} }

// Len returns the number of keys.
func (s KeySet[K, V]) Len() int { return s.m.Len() }

// Contains reports whether k is a key of the map.
func (s KeySet[K, V]) Contains(k K) bool { return s.m.ContainsKey(k) }

// Range calls fn for every key until fn returns false.
func (s KeySet[K, V]) Range(fn func(K) bool) {
	s.m.Range(func(k K, _ V) bool { return fn(k) })
}

// Remove deletes k from the map.
func (s KeySet[K, V]) Remove(k K) (bool, error) {
	_, ok, err := s.m.Remove(k)
	return ok, err
}

// Clear removes every entry of the map.
func (s KeySet[K, V]) Clear() error { return s.m.Clear() }

// ValueCollection is a live view of the values of a Map. Mutations
// through it fail with ErrSealed while the map is sealed.
type ValueCollection[K comparable, V any] struct {
	m *Map[K, V]
}

// Values returns a view of the values of the map.
func (m *Map[K, V]) Values() ValueCollection[K, V] { return ValueCollection[K, V]{m} }

// Len returns the number of values, duplicates included.
func (c ValueCollection[K, V]) Len() int { return c.m.Len() }

// Contains reports whether some key is mapped to v.
func (c ValueCollection[K, V]) Contains(v V) bool { return c.m.ContainsValue(v) }

// Range calls fn for every value until fn returns false.
func (c ValueCollection[K, V]) Range(fn func(V) bool) {
	c.m.Range(func(_ K, v V) bool { return fn(v) })
}

// Remove deletes one entry whose value is v.
func (c ValueCollection[K, V]) Remove(v V) (bool, error) {
	if err := c.m.checkWritable(); err != nil {
		return false, err
	}
	for k, x := range c.m.delegate {
		if valueEqual(x, v) {
			delete(c.m.delegate, k)
			return true, nil
		}
	}
	return false, nil
}

// Clear removes every entry of the map.
func (c ValueCollection[K, V]) Clear() error { return c.m.Clear() }

// EntrySet is a live view of the entries of a Map. Mutations through it
// fail with ErrSealed while the map is sealed.
type EntrySet[K comparable, V any] struct {
	m *Map[K, V]
}

// Entries returns a view of the entries of the map.
func (m *Map[K, V]) Entries() EntrySet[K, V] { return EntrySet[K, V]{m} }

// Len returns the number of entries.
func (s EntrySet[K, V]) Len() int { return s.m.Len() }

// Contains reports whether k is mapped to v.
func (s EntrySet[K, V]) Contains(k K, v V) bool {
	x, ok := s.m.delegate[k]
	return ok && valueEqual(x, v)
}

// Range calls fn for every entry until fn returns false.
func (s EntrySet[K, V]) Range(fn func(K, V) bool) { s.m.Range(fn) }

// Remove deletes the entry k→v if it is present.
func (s EntrySet[K, V]) Remove(k K, v V) (bool, error) { return s.m.RemoveValue(k, v) }

// Clear removes every entry of the map.
func (s EntrySet[K, V]) Clear() error { return s.m.Clear() }
