package object

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

func TestRegisterAssignsOwnership(t *testing.T) {
	r := NewRegistry()
	all := hla.NewAttributeHandleSet(1, 2, 3, 4)

	o, err := r.Register(10, "", 1, all, hla.NewAttributeHandleSet(1, 2))
	require.NoError(t, err)

	assert.Equal(t, "HLAobject_1", o.Name)
	for h, want := range map[hla.AttributeHandle]hla.FederateHandle{1: 1, 2: 1, 3: hla.Unowned, 4: hla.Unowned} {
		got, ok := o.Owner(h)
		assert.True(t, ok)
		assert.Equal(t, want, got, "owner of %d", h)
	}
	_, ok := o.Owner(99)
	assert.False(t, ok)

	class, ok := o.DiscoveredAs(1)
	assert.True(t, ok, "registrant knows its own object")
	assert.Equal(t, hla.ObjectClassHandle(10), class)
}

func TestRegisterDuplicateName(t *testing.T) {
	r := NewRegistry()

	_, err := r.Register(10, "tank", 1, nil, nil)
	require.NoError(t, err)
	_, err = r.Register(10, "tank", 2, nil, nil)
	assert.True(t, errors.Is(err, rtierr.ObjectAlreadyRegistered))

	o, err := r.ByName("tank")
	require.NoError(t, err)
	assert.Equal(t, hla.FederateHandle(1), o.Registrant)
}

func TestKnownRequiresDiscovery(t *testing.T) {
	r := NewRegistry()
	o, _ := r.Register(10, "", 1, hla.NewAttributeHandleSet(1), nil)

	_, err := r.Known(2, o.Handle)
	assert.True(t, errors.Is(err, rtierr.ObjectNotKnown))

	r.MarkDiscovered(o, 2, 9)
	_, err = r.Known(2, o.Handle)
	assert.NoError(t, err)
	assert.Equal(t, []hla.FederateHandle{1, 2}, o.Discoverers())

	r.Forget(o, 2)
	_, err = r.Known(2, o.Handle)
	assert.Error(t, err)
}

func TestDeleteFreesName(t *testing.T) {
	r := NewRegistry()
	o, _ := r.Register(10, "tank", 1, nil, nil)

	_, err := r.Delete(o.Handle)
	require.NoError(t, err)
	_, err = r.Get(o.Handle)
	assert.True(t, errors.Is(err, rtierr.ObjectNotKnown))
	_, err = r.Delete(o.Handle)
	assert.True(t, errors.Is(err, rtierr.ObjectNotKnown))

	_, err = r.Register(10, "tank", 2, nil, nil)
	assert.NoError(t, err)
}

func TestSnapshotRestore(t *testing.T) {
	r := NewRegistry()
	o, _ := r.Register(10, "a", 1, hla.NewAttributeHandleSet(1, 2), hla.NewAttributeHandleSet(1))
	r.SetOwner(o, 2, 3)
	r.SetRegion(o, 1, 5)
	r.MarkDiscovered(o, 3, 10)

	r2 := NewRegistry()
	r2.Restore(r.Snapshot())

	o2, err := r2.ByName("a")
	require.NoError(t, err)
	owner, _ := o2.Owner(2)
	assert.Equal(t, hla.FederateHandle(3), owner)
	assert.Equal(t, hla.RegionHandle(5), o2.Region(1))
	assert.True(t, r2.RegionInUse(5))
	_, ok := o2.DiscoveredAs(3)
	assert.True(t, ok)

	next, err := r2.Register(10, "", 1, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, hla.ObjectInstanceHandle(2), next.Handle)
}
