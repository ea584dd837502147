// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package set provides a minimal generic set, used internally for
// fired-timer-id indexing. Adapted from the consensus
// package's utils/set, trimmed to the operations this module needs.
package set

import "golang.org/x/exp/maps"

// The minimum capacity of a set.
const minSetSize = 16

// Set is a set of elements.
type Set[T comparable] map[T]struct{}

// Of returns a Set initialized with elts.
func Of[T comparable](elts ...T) Set[T] {
	s := NewSet[T](len(elts))
	s.Add(elts...)
	return s
}

// NewSet returns a new set with initial capacity size.
func NewSet[T comparable](size int) Set[T] {
	if size < 0 {
		return Set[T]{}
	}
	return make(map[T]struct{}, size)
}

func (s *Set[T]) resize(size int) {
	if *s == nil {
		if minSetSize > size {
			size = minSetSize
		}
		*s = make(map[T]struct{}, size)
	}
}

// Add adds all the elements to this set.
func (s *Set[T]) Add(elts ...T) {
	s.resize(2 * len(elts))
	for _, elt := range elts {
		(*s)[elt] = struct{}{}
	}
}

// Contains reports whether the set contains elt.
func (s Set[T]) Contains(elt T) bool {
	_, ok := s[elt]
	return ok
}

// Len returns the number of elements in this set.
func (s Set[T]) Len() int {
	return len(s)
}

// List converts this set into a slice, in unspecified order.
func (s Set[T]) List() []T {
	return maps.Keys(s)
}

// Remove removes elts from the set.
func (s *Set[T]) Remove(elts ...T) {
	for _, elt := range elts {
		delete(*s, elt)
	}
}
