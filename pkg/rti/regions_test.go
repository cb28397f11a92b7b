package rti

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlvc/portico-sub003/pkg/ddm"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

func (h *harness) space() (hla.SpaceHandle, hla.DimensionHandle) {
	h.t.Helper()
	s, err := h.model.SpaceByName("TestSpace")
	require.NoError(h.t, err)
	d, ok := s.Dimension("TestDimension")
	require.True(h.t, ok)
	return s.Handle, d.Handle
}

func (h *harness) extents(lower, upper uint64) []ddm.Extent {
	_, d := h.space()
	return []ddm.Extent{{d: {Lower: lower, Upper: upper}}}
}

func (h *harness) region(fed hla.FederateHandle, lower, upper uint64) hla.RegionHandle {
	h.t.Helper()
	space, _ := h.space()
	r := h.ok(fed, wire.OpCreateRegion, wire.Args{Space: space, Extents: h.extents(lower, upper)})
	require.NotZero(h.t, r.Region)
	return r.Region
}

func TestRegionRouting(t *testing.T) {
	h := newHarness(t)
	owner := h.join("owner")
	sub := h.join("subscriber")
	bc := h.attrs("A.B", "bc")

	subRegion := h.region(sub, 0, 100)
	h.ok(sub, wire.OpSubscribeObjectClassAttributesWithRegion, wire.Args{
		ObjectClass: h.objectClass("A.B"),
		Region:      subRegion,
		Attributes:  bc,
		Active:      true,
	})

	updateRegion := h.region(owner, 50, 150)
	h.ok(owner, wire.OpPublishObjectClass, wire.Args{ObjectClass: h.objectClass("A.B"), Attributes: h.attrs("A.B", "ba", "bc")})
	obj := h.ok(owner, wire.OpRegisterObjectInstanceWithRegion, wire.Args{
		ObjectClass: h.objectClass("A.B"),
		Attributes:  bc,
		Regions:     []hla.RegionHandle{updateRegion},
	}).Object
	assert.NotNil(t, find(h.tick(sub), wire.CallbackDiscoverObjectInstance))

	update := func() []wire.Callback {
		h.ok(owner, wire.OpUpdateAttributeValues, wire.Args{Object: obj, Values: hla.AttributeHandleValueMap{bc[0]: []byte{1}}})
		return h.tick(sub)
	}
	assert.Equal(t, []wire.CallbackKind{wire.CallbackReflectAttributeValues}, kinds(update()))

	h.ok(owner, wire.OpNotifyAboutRegionModification, wire.Args{Region: updateRegion, Extents: h.extents(200, 300)})
	assert.Empty(t, update(), "regions no longer overlap")

	_, err := h.request(owner, wire.OpDeleteRegion, wire.Args{Region: updateRegion})
	assert.True(t, errors.Is(err, rtierr.RegionInUse))
	_, err = h.request(sub, wire.OpDeleteRegion, wire.Args{Region: subRegion})
	assert.True(t, errors.Is(err, rtierr.RegionInUse))

	h.ok(owner, wire.OpUnassociateRegionForUpdates, wire.Args{Region: updateRegion, Object: obj})
	h.ok(owner, wire.OpDeleteRegion, wire.Args{Region: updateRegion})
	assert.Len(t, update(), 1, "an attribute without a region reaches every region")

	other := h.region(owner, 90, 95)
	h.ok(owner, wire.OpAssociateRegionForUpdates, wire.Args{Region: other, Object: obj, Attributes: bc})
	assert.Len(t, update(), 1)
}

func TestRegionErrors(t *testing.T) {
	h := newHarness(t)
	owner := h.join("owner")
	other := h.join("other")
	space, _ := h.space()

	_, err := h.request(owner, wire.OpCreateRegion, wire.Args{Space: space})
	assert.True(t, errors.Is(err, rtierr.InvalidExtents))

	_, err = h.request(owner, wire.OpCreateRegion, wire.Args{Space: space, Extents: []ddm.Extent{{9999: {Lower: 0, Upper: 1}}}})
	assert.True(t, errors.Is(err, rtierr.DimensionNotDefined))

	_, err = h.request(owner, wire.OpCreateRegion, wire.Args{Space: space, Extents: h.extents(10, 10)})
	assert.True(t, errors.Is(err, rtierr.InvalidExtents))

	region := h.region(owner, 0, 10)

	_, err = h.request(other, wire.OpDeleteRegion, wire.Args{Region: region})
	assert.True(t, errors.Is(err, rtierr.RegionNotKnown), "regions belong to their creator")

	_, err = h.request(owner, wire.OpSubscribeObjectClassAttributesWithRegion, wire.Args{
		ObjectClass: h.objectClass("A"),
		Region:      region,
		Attributes:  h.attrs("A", "aa"),
	})
	assert.True(t, errors.Is(err, rtierr.InvalidRegionContext))

	h.ok(owner, wire.OpPublishObjectClass, wire.Args{ObjectClass: h.objectClass("A.B"), Attributes: h.attrs("A.B", "ba", "bc")})
	_, err = h.request(owner, wire.OpRegisterObjectInstanceWithRegion, wire.Args{
		ObjectClass: h.objectClass("A.B"),
		Attributes:  h.attrs("A.B", "ba", "bc"),
		Regions:     []hla.RegionHandle{region},
	})
	assert.True(t, errors.Is(err, rtierr.ArrayIndexOutOfBounds))

	_, err = h.request(owner, wire.OpRegisterObjectInstanceWithRegion, wire.Args{
		ObjectClass: h.objectClass("A.B"),
		Attributes:  h.attrs("A.B", "ba"),
		Regions:     []hla.RegionHandle{region},
	})
	assert.True(t, errors.Is(err, rtierr.InvalidRegionContext))

	_, err = h.request(owner, wire.OpSendInteractionWithRegion, wire.Args{InteractionClass: h.interaction("Z"), Region: region})
	assert.True(t, errors.Is(err, rtierr.InteractionClassNotPublished))
}

func TestInteractionRegions(t *testing.T) {
	h := newHarness(t)
	sender := h.join("sender")
	receiver := h.join("receiver")
	z := h.interaction("Z")

	h.ok(receiver, wire.OpSubscribeInteractionClassWithRegion, wire.Args{
		InteractionClass: z,
		Region:           h.region(receiver, 0, 100),
		Active:           true,
	})
	h.ok(sender, wire.OpPublishInteractionClass, wire.Args{InteractionClass: z})
	assert.NotNil(t, find(h.tick(sender), wire.CallbackTurnInteractionsOn))

	send := func(region hla.RegionHandle) []wire.Callback {
		h.ok(sender, wire.OpSendInteractionWithRegion, wire.Args{
			InteractionClass: z,
			Parameters:       hla.ParameterHandleValueMap{h.param("Z", "za"): []byte("z")},
			Region:           region,
		})
		return h.tick(receiver)
	}
	assert.Len(t, send(h.region(sender, 10, 20)), 1)
	assert.Empty(t, send(h.region(sender, 500, 600)))

	_, err := h.request(sender, wire.OpSendInteractionWithRegion, wire.Args{InteractionClass: h.interaction("X"), Region: h.region(sender, 0, 1)})
	assert.True(t, errors.Is(err, rtierr.InteractionClassNotPublished))
}
