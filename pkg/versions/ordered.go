package versions

import (
	"iter"
	"slices"
)

// Ordered is an immutable mapping whose iteration order is fixed by a key
// comparator, independent of the order entries were produced in.
type Ordered[K, V any] struct {
	keys   []K
	values []V
	cmp    func(a, b K) int
}

// NewOrdered builds an Ordered from parallel key and value slices. Keys that
// compare equal collapse to a single entry holding the last value given.
func NewOrdered[K, V any](keys []K, values []V, cmp func(a, b K) int) *Ordered[K, V] {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int { return cmp(keys[a], keys[b]) })

	o := &Ordered[K, V]{
		keys:   make([]K, 0, len(idx)),
		values: make([]V, 0, len(idx)),
		cmp:    cmp,
	}
	for _, i := range idx {
		if n := len(o.keys); n > 0 && cmp(o.keys[n-1], keys[i]) == 0 {
			o.values[n-1] = values[i]
			continue
		}
		o.keys = append(o.keys, keys[i])
		o.values = append(o.values, values[i])
	}
	return o
}

// Len returns the number of entries.
func (o *Ordered[K, V]) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in order.
func (o *Ordered[K, V]) Keys() []K {
	if o == nil {
		return nil
	}
	return slices.Clone(o.keys)
}

// Values returns the values in key order.
func (o *Ordered[K, V]) Values() []V {
	if o == nil {
		return nil
	}
	return slices.Clone(o.values)
}

// Get returns the value stored for key.
func (o *Ordered[K, V]) Get(key K) (V, bool) {
	var zero V
	if o == nil {
		return zero, false
	}
	i, found := slices.BinarySearchFunc(o.keys, key, o.cmp)
	if !found {
		return zero, false
	}
	return o.values[i], true
}

// All iterates over the entries in key order.
func (o *Ordered[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if o == nil {
			return
		}
		for i, k := range o.keys {
			if !yield(k, o.values[i]) {
				return
			}
		}
	}
}
