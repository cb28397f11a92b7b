package hla

import (
	"maps"
	"slices"
)

// HandleValueMap pairs handles with opaque values. A handle appears at most
// once: adding an existing handle replaces its value.
type HandleValueMap[H Handle] map[H][]byte

// AttributeHandleValueMap carries attribute values of one object instance.
type AttributeHandleValueMap = HandleValueMap[AttributeHandle]

// ParameterHandleValueMap carries parameter values of one interaction.
type ParameterHandleValueMap = HandleValueMap[ParameterHandle]

// Add sets the value of h, replacing any previous value.
func (m HandleValueMap[H]) Add(h H, value []byte) {
	m[h] = value
}

// Handles returns the handles in ascending order.
func (m HandleValueMap[H]) Handles() []H {
	return slices.Sorted(maps.Keys(m))
}

// HandleSet returns the handles as a set.
func (m HandleValueMap[H]) HandleSet() HandleSet[H] {
	s := make(HandleSet[H], len(m))
	for h := range m {
		s[h] = struct{}{}
	}
	return s
}

// Filter returns the entries whose handle is in keep.
func (m HandleValueMap[H]) Filter(keep HandleSet[H]) HandleValueMap[H] {
	r := make(HandleValueMap[H])
	for h, v := range m {
		if keep.Contains(h) {
			r[h] = v
		}
	}
	return r
}

// Clone returns a copy whose values do not alias m's.
func (m HandleValueMap[H]) Clone() HandleValueMap[H] {
	r := make(HandleValueMap[H], len(m))
	for h, v := range m {
		r[h] = slices.Clone(v)
	}
	return r
}
