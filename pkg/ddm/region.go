package ddm

import (
	"maps"
	"slices"
	"sync"

	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

// Axis bounds.
const (
	MinExtent uint64 = 0
	MaxExtent uint64 = 1<<32 - 1
)

// Range is the half-open interval [Lower, Upper).
type Range struct {
	Lower uint64 `json:"lower" cbor:"1,keyasint"`
	Upper uint64 `json:"upper" cbor:"2,keyasint"`
}

// FullRange spans a whole axis.
var FullRange = Range{Lower: MinExtent, Upper: MaxExtent}

// Overlaps reports whether r and o share at least one point.
func (r Range) Overlaps(o Range) bool {
	return r.Lower < o.Upper && o.Lower < r.Upper
}

// Valid reports whether the range is non-empty and within the axis.
func (r Range) Valid() bool {
	return r.Lower < r.Upper && r.Upper <= MaxExtent
}

// Extent bounds a subset of a space's dimensions.
type Extent map[hla.DimensionHandle]Range

// bound returns the range on dimension d, the full axis when unbounded.
func (e Extent) bound(d hla.DimensionHandle) Range {
	if r, ok := e[d]; ok {
		return r
	}
	return FullRange
}

// Overlaps reports whether e and o overlap on every dimension either bounds.
func (e Extent) Overlaps(o Extent) bool {
	for d := range e {
		if !e.bound(d).Overlaps(o.bound(d)) {
			return false
		}
	}
	for d := range o {
		if !e.bound(d).Overlaps(o.bound(d)) {
			return false
		}
	}
	return true
}

// Region is a set of extents in one routing space.
type Region struct {
	Handle  hla.RegionHandle
	Space   hla.SpaceHandle
	Owner   hla.FederateHandle
	Extents []Extent
}

// Overlaps reports whether the two regions share a point.
func (r *Region) Overlaps(o *Region) bool {
	if r == nil || o == nil || r.Space != o.Space {
		return false
	}
	for _, a := range r.Extents {
		for _, b := range o.Extents {
			if a.Overlaps(b) {
				return true
			}
		}
	}
	return false
}

// Dimensions validates extents against the dimensions of a space.
type Dimensions interface {
	HasDimension(hla.DimensionHandle) bool
}

func validateExtents(space Dimensions, extents []Extent) error {
	if len(extents) == 0 {
		return rtierr.New(rtierr.InvalidExtents, "a region needs at least one extent")
	}
	for i, e := range extents {
		for d, r := range e {
			if !space.HasDimension(d) {
				return rtierr.Errorf(rtierr.DimensionNotDefined, "extent %d: dimension %d is not in the region's space", i, d)
			}
			if !r.Valid() {
				return rtierr.Errorf(rtierr.InvalidExtents, "extent %d: range [%d,%d) on dimension %d", i, r.Lower, r.Upper, d)
			}
		}
	}
	return nil
}

func cloneExtents(extents []Extent) []Extent {
	out := make([]Extent, len(extents))
	for i, e := range extents {
		out[i] = maps.Clone(e)
		if out[i] == nil {
			out[i] = Extent{}
		}
	}
	return out
}

// Store holds the regions of one federation.
type Store struct {
	mu      sync.RWMutex
	regions map[hla.RegionHandle]*Region
	next    hla.RegionHandle
}

// NewStore creates an empty region store.
func NewStore() *Store {
	return &Store{regions: make(map[hla.RegionHandle]*Region)}
}

// Create adds a region owned by owner.
func (s *Store) Create(owner hla.FederateHandle, space hla.SpaceHandle, dims Dimensions, extents []Extent) (*Region, error) {
	if err := validateExtents(dims, extents); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	r := &Region{Handle: s.next, Space: space, Owner: owner, Extents: cloneExtents(extents)}
	s.regions[r.Handle] = r
	return r, nil
}

// Get returns the region with handle h.
func (s *Store) Get(h hla.RegionHandle) (*Region, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.regions[h]
	if !ok {
		return nil, rtierr.Errorf(rtierr.RegionNotKnown, "region %d", h)
	}
	return r, nil
}

// Owned returns the region with handle h if it was created by owner.
func (s *Store) Owned(owner hla.FederateHandle, h hla.RegionHandle) (*Region, error) {
	r, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	if r.Owner != owner {
		return nil, rtierr.Errorf(rtierr.RegionNotKnown, "region %d was not created by federate %d", h, owner)
	}
	return r, nil
}

// Modify replaces the extents of a region.
func (s *Store) Modify(owner hla.FederateHandle, h hla.RegionHandle, dims Dimensions, extents []Extent) error {
	if err := validateExtents(dims, extents); err != nil {
		return err
	}
	r, err := s.Owned(owner, h)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r.Extents = cloneExtents(extents)
	return nil
}

// Delete removes a region.
func (s *Store) Delete(owner hla.FederateHandle, h hla.RegionHandle) error {
	if _, err := s.Owned(owner, h); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.regions, h)
	return nil
}

// DeleteOwnedBy removes every region of a federate and returns their handles.
func (s *Store) DeleteOwnedBy(owner hla.FederateHandle) []hla.RegionHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []hla.RegionHandle
	for h, r := range s.regions {
		if r.Owner == owner {
			delete(s.regions, h)
			removed = append(removed, h)
		}
	}
	slices.Sort(removed)
	return removed
}

// Snapshot is the persisted form of a region.
type Snapshot struct {
	Handle  hla.RegionHandle   `json:"handle"`
	Space   hla.SpaceHandle    `json:"space"`
	Owner   hla.FederateHandle `json:"owner"`
	Extents []Extent           `json:"extents"`
}

// Snapshot returns every region ordered by handle.
func (s *Store) Snapshot() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Snapshot, 0, len(s.regions))
	for _, h := range slices.Sorted(maps.Keys(s.regions)) {
		r := s.regions[h]
		out = append(out, Snapshot{Handle: r.Handle, Space: r.Space, Owner: r.Owner, Extents: cloneExtents(r.Extents)})
	}
	return out
}

// Restore replaces the store content with a snapshot.
func (s *Store) Restore(snap []Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.regions = make(map[hla.RegionHandle]*Region, len(snap))
	s.next = 0
	for _, r := range snap {
		s.regions[r.Handle] = &Region{Handle: r.Handle, Space: r.Space, Owner: r.Owner, Extents: cloneExtents(r.Extents)}
		s.next = max(s.next, r.Handle)
	}
}
