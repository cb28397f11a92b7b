package hla

import (
	"maps"
	"slices"
)

// HandleSet is an unordered set of handles of one category.
type HandleSet[H Handle] map[H]struct{}

// AttributeHandleSet is a set of attribute handles.
type AttributeHandleSet = HandleSet[AttributeHandle]

// FederateHandleSet is a set of federate handles.
type FederateHandleSet = HandleSet[FederateHandle]

// NewHandleSet returns a set holding the given handles.
func NewHandleSet[H Handle](handles ...H) HandleSet[H] {
	s := make(HandleSet[H], len(handles))
	for _, h := range handles {
		s[h] = struct{}{}
	}
	return s
}

// NewAttributeHandleSet returns a set holding the given attribute handles.
func NewAttributeHandleSet(handles ...AttributeHandle) AttributeHandleSet {
	return NewHandleSet(handles...)
}

// NewFederateHandleSet returns a set holding the given federate handles.
func NewFederateHandleSet(handles ...FederateHandle) FederateHandleSet {
	return NewHandleSet(handles...)
}

// Add inserts h.
func (s HandleSet[H]) Add(h H) {
	s[h] = struct{}{}
}

// Remove deletes h.
func (s HandleSet[H]) Remove(h H) {
	delete(s, h)
}

// Contains reports whether h is in the set.
func (s HandleSet[H]) Contains(h H) bool {
	_, ok := s[h]
	return ok
}

// Len returns the number of handles.
func (s HandleSet[H]) Len() int {
	return len(s)
}

// IsEmpty reports whether the set is empty. A nil set is empty.
func (s HandleSet[H]) IsEmpty() bool {
	return len(s) == 0
}

// Sorted returns the handles in ascending order.
func (s HandleSet[H]) Sorted() []H {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns an independent copy. Cloning a nil set yields an empty set.
func (s HandleSet[H]) Clone() HandleSet[H] {
	c := make(HandleSet[H], len(s))
	for h := range s {
		c[h] = struct{}{}
	}
	return c
}

// Intersect returns the handles present in both sets.
func (s HandleSet[H]) Intersect(o HandleSet[H]) HandleSet[H] {
	r := make(HandleSet[H])
	for h := range s {
		if o.Contains(h) {
			r[h] = struct{}{}
		}
	}
	return r
}

// Difference returns the handles of s that are not in o.
func (s HandleSet[H]) Difference(o HandleSet[H]) HandleSet[H] {
	r := make(HandleSet[H])
	for h := range s {
		if !o.Contains(h) {
			r[h] = struct{}{}
		}
	}
	return r
}

// Union returns the handles present in either set.
func (s HandleSet[H]) Union(o HandleSet[H]) HandleSet[H] {
	r := s.Clone()
	for h := range o {
		r[h] = struct{}{}
	}
	return r
}

// ContainsAll reports whether every handle of o is in s.
func (s HandleSet[H]) ContainsAll(o HandleSet[H]) bool {
	for h := range o {
		if !s.Contains(h) {
			return false
		}
	}
	return true
}

// Equal reports whether both sets hold the same handles.
func (s HandleSet[H]) Equal(o HandleSet[H]) bool {
	return len(s) == len(o) && s.ContainsAll(o)
}
