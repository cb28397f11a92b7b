package ownership

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlvc/portico-sub003/pkg/declaration"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/object"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

const (
	fedA hla.FederateHandle = 1
	fedB hla.FederateHandle = 2
	fedC hla.FederateHandle = 3

	class hla.ObjectClassHandle = 5

	ptd hla.AttributeHandle = 1
	aa  hla.AttributeHandle = 2
	ab  hla.AttributeHandle = 3
	ac  hla.AttributeHandle = 4
)

type fixture struct {
	objects *object.Registry
	decl    *declaration.Manager
	mgr     *Manager
	obj     *object.Instance
}

// newFixture registers an object owned by fedA (aa, ab, ac plus
// privilegeToDelete) that fedB and fedC have discovered.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{objects: object.NewRegistry(), decl: declaration.NewManager()}
	f.mgr = NewManager(f.objects, f.decl)

	all := hla.NewAttributeHandleSet(ptd, aa, ab, ac)
	for _, fed := range []hla.FederateHandle{fedA, fedB, fedC} {
		f.decl.PublishObjectClass(fed, class, hla.NewAttributeHandleSet(aa, ab, ac))
	}
	o, err := f.objects.Register(class, "", fedA, all, all)
	require.NoError(t, err)
	f.objects.MarkDiscovered(o, fedB, class)
	f.objects.MarkDiscovered(o, fedC, class)
	f.obj = o
	return f
}

func (f *fixture) owner(t *testing.T, attr hla.AttributeHandle) hla.FederateHandle {
	t.Helper()
	owner, ok := f.obj.Owner(attr)
	require.True(t, ok)
	return owner
}

func set(h ...hla.AttributeHandle) hla.AttributeHandleSet {
	return hla.NewAttributeHandleSet(h...)
}

func find(notices []Notice, kind NoticeKind, fed hla.FederateHandle) *Notice {
	for i := range notices {
		if notices[i].Kind == kind && notices[i].Federate == fed {
			return &notices[i]
		}
	}
	return nil
}

func TestUnconditionalDivest(t *testing.T) {
	f := newFixture(t)

	_, err := f.mgr.UnconditionalDivest(fedB, f.obj.Handle, set(aa))
	assert.True(t, errors.Is(err, rtierr.AttributeNotOwned), "got %v", err)

	notices, err := f.mgr.UnconditionalDivest(fedA, f.obj.Handle, set(aa, ab))
	require.NoError(t, err)
	assert.Empty(t, notices)
	assert.Equal(t, hla.Unowned, f.owner(t, aa))
	assert.Equal(t, hla.Unowned, f.owner(t, ab))
	assert.Equal(t, fedA, f.owner(t, ac))
}

func TestNegotiatedDivestThenAcquire(t *testing.T) {
	f := newFixture(t)

	notices, err := f.mgr.NegotiatedDivest(fedA, f.obj.Handle, set(aa, ab), []byte("tag"))
	require.NoError(t, err)

	for _, fed := range []hla.FederateHandle{fedB, fedC} {
		n := find(notices, NoticeAssumptionRequested, fed)
		require.NotNil(t, n, "federate %d should be asked to assume", fed)
		assert.True(t, n.Attributes.Equal(set(aa, ab)))
		assert.Equal(t, []byte("tag"), n.Tag)
	}
	assert.Nil(t, find(notices, NoticeAssumptionRequested, fedA))

	state, who, err := f.mgr.State(f.obj.Handle, aa)
	require.NoError(t, err)
	assert.Equal(t, StateDivestPending, state)
	assert.Equal(t, fedA, who)

	_, err = f.mgr.NegotiatedDivest(fedA, f.obj.Handle, set(aa), nil)
	assert.True(t, errors.Is(err, rtierr.AttributeAlreadyBeingDivested), "got %v", err)

	notices, err = f.mgr.Acquire(fedB, f.obj.Handle, set(aa, ab), []byte("mine"))
	require.NoError(t, err)

	div := find(notices, NoticeDivestiture, fedA)
	require.NotNil(t, div)
	assert.True(t, div.Attributes.Equal(set(aa, ab)))
	acq := find(notices, NoticeAcquisition, fedB)
	require.NotNil(t, acq)
	assert.True(t, acq.Attributes.Equal(set(aa, ab)))

	for _, a := range []hla.AttributeHandle{aa, ab} {
		assert.Equal(t, fedB, f.owner(t, a))
		state, _, _ := f.mgr.State(f.obj.Handle, a)
		assert.Equal(t, StateOwned, state)
	}
}

func TestAcquireOwnedAttributeRequestsRelease(t *testing.T) {
	f := newFixture(t)

	notices, err := f.mgr.Acquire(fedB, f.obj.Handle, set(aa), []byte("please"))
	require.NoError(t, err)
	rel := find(notices, NoticeReleaseRequested, fedA)
	require.NotNil(t, rel)
	assert.True(t, rel.Attributes.Equal(set(aa)))
	assert.Equal(t, fedA, f.owner(t, aa), "ownership must not move before the release")

	state, who, _ := f.mgr.State(f.obj.Handle, aa)
	assert.Equal(t, StateAcquirePending, state)
	assert.Equal(t, fedB, who)

	_, err = f.mgr.Acquire(fedC, f.obj.Handle, set(aa), nil)
	assert.True(t, errors.Is(err, rtierr.AttributeAlreadyBeingAcquired), "got %v", err)

	_, _, err = f.mgr.ReleaseResponse(fedA, f.obj.Handle, set(ab))
	assert.True(t, errors.Is(err, rtierr.FederateWasNotAskedToReleaseAttribute), "got %v", err)

	released, notices, err := f.mgr.ReleaseResponse(fedA, f.obj.Handle, set(aa))
	require.NoError(t, err)
	assert.True(t, released.Equal(set(aa)))
	require.NotNil(t, find(notices, NoticeAcquisition, fedB))
	assert.Equal(t, fedB, f.owner(t, aa))
}

func TestAcquireValidation(t *testing.T) {
	f := newFixture(t)
	outsider := hla.FederateHandle(9)
	f.objects.MarkDiscovered(f.obj, outsider, class)

	tests := []struct {
		name  string
		fed   hla.FederateHandle
		obj   hla.ObjectInstanceHandle
		attrs hla.AttributeHandleSet
		want  rtierr.Kind
	}{
		{"unknown object", fedB, 99, set(aa), rtierr.ObjectNotKnown},
		{"class not published", outsider, f.obj.Handle, set(aa), rtierr.ObjectClassNotPublished},
		{"undefined attribute", fedB, f.obj.Handle, set(77), rtierr.AttributeNotDefined},
		{"already owner", fedA, f.obj.Handle, set(aa), rtierr.FederateOwnsAttributes},
		{"attribute not published", fedB, f.obj.Handle, set(ptd), rtierr.AttributeNotPublished},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.mgr.Acquire(tt.fed, tt.obj, tt.attrs, nil)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestAcquireIfAvailable(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.UnconditionalDivest(fedA, f.obj.Handle, set(aa))
	require.NoError(t, err)

	notices, err := f.mgr.AcquireIfAvailable(fedB, f.obj.Handle, set(aa, ab))
	require.NoError(t, err)

	acq := find(notices, NoticeAcquisition, fedB)
	require.NotNil(t, acq)
	assert.True(t, acq.Attributes.Equal(set(aa)))
	un := find(notices, NoticeUnavailable, fedB)
	require.NotNil(t, un)
	assert.True(t, un.Attributes.Equal(set(ab)))
	assert.Nil(t, find(notices, NoticeReleaseRequested, fedA), "owner must not be asked")
	assert.Equal(t, fedA, f.owner(t, ab))

	_, err = f.mgr.Acquire(fedC, f.obj.Handle, set(ab), nil)
	require.NoError(t, err)
	_, err = f.mgr.AcquireIfAvailable(fedB, f.obj.Handle, set(ab))
	assert.True(t, errors.Is(err, rtierr.AttributeAlreadyBeingAcquired), "got %v", err)
}

func TestCancellations(t *testing.T) {
	f := newFixture(t)

	err := f.mgr.CancelNegotiatedDivest(fedA, f.obj.Handle, set(aa))
	assert.True(t, errors.Is(err, rtierr.AttributeDivestitureWasNotRequested), "got %v", err)

	_, err = f.mgr.NegotiatedDivest(fedA, f.obj.Handle, set(aa), nil)
	require.NoError(t, err)
	require.NoError(t, f.mgr.CancelNegotiatedDivest(fedA, f.obj.Handle, set(aa)))
	state, _, _ := f.mgr.State(f.obj.Handle, aa)
	assert.Equal(t, StateOwned, state)

	_, err = f.mgr.CancelAcquisition(fedB, f.obj.Handle, set(ab))
	assert.True(t, errors.Is(err, rtierr.AttributeAcquisitionWasNotRequested), "got %v", err)
	_, err = f.mgr.CancelAcquisition(fedA, f.obj.Handle, set(ab))
	assert.True(t, errors.Is(err, rtierr.AttributeAlreadyOwned), "got %v", err)

	_, err = f.mgr.Acquire(fedB, f.obj.Handle, set(ab), nil)
	require.NoError(t, err)
	notices, err := f.mgr.CancelAcquisition(fedB, f.obj.Handle, set(ab))
	require.NoError(t, err)
	require.NotNil(t, find(notices, NoticeCancellationConfirmed, fedB))
	state, _, _ = f.mgr.State(f.obj.Handle, ab)
	assert.Equal(t, StateOwned, state)
}

func TestExclusiveOwnership(t *testing.T) {
	f := newFixture(t)
	attrs := []hla.AttributeHandle{aa, ab, ac}

	check := func() {
		t.Helper()
		for _, a := range attrs {
			owner := f.owner(t, a)
			holders := 0
			for _, fed := range []hla.FederateHandle{fedA, fedB, fedC} {
				owned, err := f.mgr.IsOwnedBy(fed, f.obj.Handle, a)
				require.NoError(t, err)
				if owned {
					holders++
					assert.Equal(t, fed, owner)
				}
			}
			assert.LessOrEqual(t, holders, 1, "attribute %d has %d owners", a, holders)
		}
	}

	check()
	_, _ = f.mgr.NegotiatedDivest(fedA, f.obj.Handle, set(aa, ab), nil)
	check()
	_, _ = f.mgr.Acquire(fedC, f.obj.Handle, set(ac), nil)
	check()
	_, _ = f.mgr.Acquire(fedB, f.obj.Handle, set(aa), nil)
	check()
	_, _, _ = f.mgr.ReleaseResponse(fedA, f.obj.Handle, set(ac))
	check()
	_ = f.mgr.ReleaseAll(fedB)
	check()
	assert.Equal(t, hla.Unowned, f.owner(t, aa))
	assert.Equal(t, fedC, f.owner(t, ac))
}

func TestReleaseAllHandsOverPendingAcquisitions(t *testing.T) {
	f := newFixture(t)
	_, err := f.mgr.Acquire(fedB, f.obj.Handle, set(aa), nil)
	require.NoError(t, err)

	notices := f.mgr.ReleaseAll(fedA)
	require.NotNil(t, find(notices, NoticeAcquisition, fedB))
	assert.Equal(t, fedB, f.owner(t, aa))
	assert.Equal(t, hla.Unowned, f.owner(t, ab))
	assert.Equal(t, hla.Unowned, f.owner(t, ptd))
}

func TestSnapshotRestore(t *testing.T) {
	f := newFixture(t)
	_, _ = f.mgr.NegotiatedDivest(fedA, f.obj.Handle, set(aa), nil)
	_, _ = f.mgr.Acquire(fedB, f.obj.Handle, set(ab), []byte("x"))

	snap := f.mgr.Snapshot()
	m2 := NewManager(f.objects, f.decl)
	m2.Restore(snap)

	state, _, _ := m2.State(f.obj.Handle, aa)
	assert.Equal(t, StateDivestPending, state)
	state, who, _ := m2.State(f.obj.Handle, ab)
	assert.Equal(t, StateAcquirePending, state)
	assert.Equal(t, fedB, who)
}
