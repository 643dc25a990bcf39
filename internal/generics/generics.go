// Package generics implements generic data structure functions missing from the stdlib.
package generics

import (
	"iter"
	"maps"
	"slices"
)

// Pair defines a pair of 2 different arbitrary types.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Set implements a Set for the key type T.
type Set[T comparable] map[T]struct{}

// MakeSet returns an empty Set of the given type. Size is optional, and if given
// will reserve the expected size.
func MakeSet[T comparable](size ...int) Set[T] {
	if len(size) == 0 {
		return make(Set[T])
	}
	return make(Set[T], size[0])
}

// SetWith creates a Set[T] with the given elements inserted.
func SetWith[T comparable](elements ...T) Set[T] {
	s := MakeSet[T](len(elements))
	s.Insert(elements...)
	return s
}

// Has returns true if Set s has the given key.
func (s Set[T]) Has(key T) bool {
	_, found := s[key]
	return found
}

// Insert keys into set.
func (s Set[T]) Insert(keys ...T) {
	for _, key := range keys {
		s[key] = struct{}{}
	}
}

// Delete keys from the set. Keys not present are ignored.
func (s Set[T]) Delete(keys ...T) {
	for _, key := range keys {
		delete(s, key)
	}
}

// Len returns the number of elements in the set.
func (s Set[T]) Len() int {
	return len(s)
}

// Iter iterates over the elements of the set, in no particular order.
func (s Set[T]) Iter() iter.Seq[T] {
	return maps.Keys(s)
}

// Clone returns a shallow copy of the set.
func (s Set[T]) Clone() Set[T] {
	if s == nil {
		return MakeSet[T]()
	}
	return maps.Clone(s)
}

// Equal returns whether both sets hold the same elements. A nil set is equal to an empty one.
func (s Set[T]) Equal(s2 Set[T]) bool {
	if len(s) != len(s2) {
		return false
	}
	for k := range s {
		if !s2.Has(k) {
			return false
		}
	}
	return true
}

// Sub returns `s - s2`, that is, all elements in `s` that are not in `s2`.
func (s Set[T]) Sub(s2 Set[T]) Set[T] {
	sub := MakeSet[T]()
	for k := range s {
		if !s2.Has(k) {
			sub.Insert(k)
		}
	}
	return sub
}

// Intersect returns the elements present in both `s` and `s2`.
func (s Set[T]) Intersect(s2 Set[T]) Set[T] {
	if len(s2) < len(s) {
		s, s2 = s2, s
	}
	out := MakeSet[T]()
	for k := range s {
		if s2.Has(k) {
			out.Insert(k)
		}
	}
	return out
}

// Filter returns a new set with the elements for which keep returns true.
func (s Set[T]) Filter(keep func(T) bool) Set[T] {
	out := MakeSet[T]()
	for k := range s {
		if keep(k) {
			out.Insert(k)
		}
	}
	return out
}

// SortedFunc returns the elements of the set sorted with the given comparison function.
func (s Set[T]) SortedFunc(cmp func(a, b T) int) []T {
	out := slices.Collect(maps.Keys(s))
	slices.SortFunc(out, cmp)
	return out
}

// IterFilter returns an iterator that only yields the values for which filterFn returns true.
func IterFilter[V any](seq iter.Seq[V], filterFn func(v V) bool) iter.Seq[V] {
	return func(yield func(V) bool) {
		for v := range seq {
			if filterFn(v) {
				if !yield(v) {
					return
				}
			}
		}
	}
}
