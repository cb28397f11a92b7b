package ddm

import (
	"errors"
	"testing"

	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

type dims []hla.DimensionHandle

func (d dims) HasDimension(h hla.DimensionHandle) bool {
	for _, x := range d {
		if x == h {
			return true
		}
	}
	return false
}

func TestRangeOverlaps(t *testing.T) {
	tests := []struct {
		a, b Range
		want bool
	}{
		{Range{0, 10}, Range{5, 15}, true},
		{Range{0, 10}, Range{10, 20}, false},
		{Range{10, 20}, Range{0, 11}, true},
		{Range{0, 1}, Range{2, 3}, false},
	}
	for _, tt := range tests {
		if got := tt.a.Overlaps(tt.b); got != tt.want {
			t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRegionOverlap(t *testing.T) {
	s := NewStore()
	space := dims{1, 2}

	sub, err := s.Create(1, 1, space, []Extent{{1: {0, 100}, 2: {0, 100}}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	inside, _ := s.Create(2, 1, space, []Extent{{1: {50, 60}}})
	outside, _ := s.Create(2, 1, space, []Extent{{1: {50, 60}, 2: {200, 300}}})
	otherSpace, _ := s.Create(2, 2, space, []Extent{{1: {50, 60}}})
	multi, _ := s.Create(2, 1, space, []Extent{{1: {500, 600}}, {2: {10, 20}}})

	if !sub.Overlaps(inside) {
		t.Error("sub should overlap inside")
	}
	if sub.Overlaps(outside) {
		t.Error("sub should not overlap outside")
	}
	if sub.Overlaps(otherSpace) {
		t.Error("regions in different spaces never overlap")
	}
	if !sub.Overlaps(multi) {
		t.Error("one overlapping extent is enough")
	}
}

func TestStoreValidation(t *testing.T) {
	s := NewStore()
	space := dims{1}

	if _, err := s.Create(1, 1, space, nil); !errors.Is(err, rtierr.InvalidExtents) {
		t.Errorf("Create(no extents) error = %v", err)
	}
	if _, err := s.Create(1, 1, space, []Extent{{9: {0, 1}}}); !errors.Is(err, rtierr.DimensionNotDefined) {
		t.Errorf("Create(bad dimension) error = %v", err)
	}
	if _, err := s.Create(1, 1, space, []Extent{{1: {5, 5}}}); !errors.Is(err, rtierr.InvalidExtents) {
		t.Errorf("Create(empty range) error = %v", err)
	}

	r, _ := s.Create(1, 1, space, []Extent{{1: {0, 5}}})
	if err := s.Modify(2, r.Handle, space, []Extent{{1: {0, 9}}}); !errors.Is(err, rtierr.RegionNotKnown) {
		t.Errorf("Modify(other owner) error = %v", err)
	}
	if err := s.Delete(1, r.Handle); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if _, err := s.Get(r.Handle); !errors.Is(err, rtierr.RegionNotKnown) {
		t.Errorf("Get(deleted) error = %v", err)
	}
}

func TestStoreSnapshotRestore(t *testing.T) {
	s := NewStore()
	space := dims{1}
	s.Create(1, 1, space, []Extent{{1: {0, 5}}})
	s.Create(2, 1, space, []Extent{{1: {3, 9}}})

	snap := s.Snapshot()
	s2 := NewStore()
	s2.Restore(snap)

	r, err := s2.Get(2)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if r.Owner != 2 || r.Extents[0][1] != (Range{3, 9}) {
		t.Errorf("restored region = %+v", r)
	}
	next, _ := s2.Create(1, 1, space, []Extent{{1: {0, 1}}})
	if next.Handle != 3 {
		t.Errorf("next handle = %d, want 3", next.Handle)
	}
	if got := s2.DeleteOwnedBy(1); len(got) != 2 {
		t.Errorf("DeleteOwnedBy() = %v", got)
	}
}
