package rti

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

func (h *harness) regulating(fed hla.FederateHandle, lookahead fedtime.Interval) {
	h.t.Helper()
	h.ok(fed, wire.OpEnableTimeRegulation, wire.Args{Lookahead: lookahead})
	enabled := find(h.tick(fed), wire.CallbackTimeRegulationEnabled)
	require.NotNil(h.t, enabled)
}

func (h *harness) constrained(fed hla.FederateHandle) {
	h.t.Helper()
	h.ok(fed, wire.OpEnableTimeConstrained, wire.Args{})
	enabled := find(h.tick(fed), wire.CallbackTimeConstrainedEnabled)
	require.NotNil(h.t, enabled)
}

func (h *harness) grant(fed hla.FederateHandle) *fedtime.Time {
	h.t.Helper()
	cb := find(h.tick(fed), wire.CallbackTimeAdvanceGrant)
	if cb == nil {
		return nil
	}
	return cb.Time
}

// timeFixture has reg regulating with lookahead 1 and publishing X, and con
// constrained and subscribed to X.
func timeFixture(t *testing.T) (h *harness, reg, con hla.FederateHandle) {
	h = newHarness(t)
	reg = h.join("regulator")
	con = h.join("constrained")

	h.ok(reg, wire.OpPublishInteractionClass, wire.Args{InteractionClass: h.interaction("X")})
	h.ok(con, wire.OpSubscribeInteractionClass, wire.Args{InteractionClass: h.interaction("X"), Active: true})
	h.regulating(reg, 1)
	h.constrained(con)
	return h, reg, con
}

func (h *harness) sendX(fed hla.FederateHandle, t *fedtime.Time) error {
	_, err := h.request(fed, wire.OpSendInteraction, wire.Args{
		InteractionClass: h.interaction("X"),
		Parameters:       hla.ParameterHandleValueMap{h.param("X", "xa"): []byte("payload")},
		Time:             t,
	})
	return err
}

func TestEnableRegulationReportsTime(t *testing.T) {
	h := newHarness(t)
	fed := h.join("a")

	_, err := h.request(fed, wire.OpEnableTimeRegulation, wire.Args{Lookahead: 0})
	assert.True(t, errors.Is(err, rtierr.InvalidLookahead))

	h.ok(fed, wire.OpEnableTimeRegulation, wire.Args{Lookahead: 2})
	_, err = h.request(fed, wire.OpEnableTimeRegulation, wire.Args{Lookahead: 2})
	assert.True(t, errors.Is(err, rtierr.EnableTimeRegulationPending))

	cbs := h.tick(fed)
	require.Len(t, cbs, 1)
	assert.Equal(t, wire.CallbackTimeRegulationEnabled, cbs[0].Kind)
	assert.Equal(t, at(0), cbs[0].Time)

	r := h.ok(fed, wire.OpQueryLookahead, wire.Args{})
	assert.Equal(t, fedtime.Interval(2), r.Lookahead)

	_, err = h.request(fed, wire.OpEnableTimeRegulation, wire.Args{Lookahead: 2})
	assert.True(t, errors.Is(err, rtierr.TimeRegulationAlreadyEnabled))
}

func TestAdvanceWaitsForRegulator(t *testing.T) {
	h, reg, con := timeFixture(t)

	h.ok(con, wire.OpTimeAdvanceRequest, wire.Args{Time: at(5)})
	assert.Nil(t, h.grant(con), "LBTS is 1 until the regulator moves")

	h.ok(reg, wire.OpTimeAdvanceRequest, wire.Args{Time: at(10)})
	assert.Equal(t, at(10), h.grant(reg), "an unconstrained federate is granted at once")

	assert.Equal(t, at(5), h.grant(con))

	r := h.ok(con, wire.OpQueryFederateTime, wire.Args{})
	assert.Equal(t, at(5), r.Time)
	r = h.ok(con, wire.OpQueryLBTS, wire.Args{})
	assert.Equal(t, at(11), r.Time)
}

func TestTimestampOrderDelivery(t *testing.T) {
	h, reg, con := timeFixture(t)
	h.tick(reg)

	require.NoError(t, h.sendX(reg, at(3)))
	assert.Empty(t, h.tick(con), "held until an advance covers it")

	h.ok(con, wire.OpTimeAdvanceRequest, wire.Args{Time: at(5)})
	assert.Empty(t, h.tick(con))

	r := h.ok(con, wire.OpQueryMinNextEventTime, wire.Args{})
	assert.Equal(t, at(1), r.Time)

	h.ok(reg, wire.OpTimeAdvanceRequest, wire.Args{Time: at(10)})
	h.tick(reg)

	cbs := h.tick(con)
	assert.Equal(t, []wire.CallbackKind{wire.CallbackReceiveInteraction, wire.CallbackTimeAdvanceGrant}, kinds(cbs))
	assert.Equal(t, hla.Timestamp, cbs[0].Order)
	assert.Equal(t, at(3), cbs[0].Time)
	assert.Equal(t, []byte("payload"), cbs[0].Parameters[h.param("X", "xa")])
	assert.Equal(t, at(5), cbs[1].Time)
}

func TestSendBeforeLookaheadFails(t *testing.T) {
	h, reg, _ := timeFixture(t)

	err := h.sendX(reg, at(0.5))
	assert.True(t, errors.Is(err, rtierr.InvalidFederationTime))
	assert.NoError(t, h.sendX(reg, at(1)))
}

func TestUnconstrainedReceiverGetsReceiveOrder(t *testing.T) {
	h, reg, _ := timeFixture(t)
	plain := h.join("plain")
	h.ok(plain, wire.OpSubscribeInteractionClass, wire.Args{InteractionClass: h.interaction("X"), Active: true})

	require.NoError(t, h.sendX(reg, at(4)))
	cbs := h.tick(plain)
	require.Len(t, cbs, 1)
	assert.Equal(t, hla.Receive, cbs[0].Order)
	assert.Equal(t, at(4), cbs[0].Time)
}

func TestFlushQueue(t *testing.T) {
	h, reg, con := timeFixture(t)

	require.NoError(t, h.sendX(reg, at(7)))
	require.NoError(t, h.sendX(reg, at(3)))

	h.ok(con, wire.OpFlushQueueRequest, wire.Args{Time: at(20)})
	cbs := h.tick(con)
	require.Len(t, cbs, 3)
	assert.Equal(t, at(3), cbs[0].Time)
	assert.Equal(t, at(7), cbs[1].Time)
	assert.Equal(t, wire.CallbackTimeAdvanceGrant, cbs[2].Kind)
	assert.Equal(t, at(7), cbs[2].Time)
}

func TestFlushQueueDropsMessagesBehindTheGrant(t *testing.T) {
	h, reg, con := timeFixture(t)

	h.ok(reg, wire.OpTimeAdvanceRequest, wire.Args{Time: at(5)})
	require.Equal(t, at(5), h.grant(reg))

	require.NoError(t, h.sendX(reg, at(100)))
	h.ok(con, wire.OpFlushQueueRequest, wire.Args{Time: at(200)})
	cbs := h.tick(con)
	assert.Equal(t, []wire.CallbackKind{wire.CallbackReceiveInteraction, wire.CallbackTimeAdvanceGrant}, kinds(cbs))
	assert.Equal(t, at(100), cbs[0].Time)
	assert.Equal(t, at(100), cbs[1].Time)

	require.NoError(t, h.sendX(reg, at(50)))
	assert.Empty(t, h.tick(con), "stamped before the flush grant")

	h.ok(con, wire.OpTimeAdvanceRequest, wire.Args{Time: at(150)})
	h.ok(reg, wire.OpTimeAdvanceRequest, wire.Args{Time: at(300)})
	h.tick(reg)
	assert.Equal(t, []wire.CallbackKind{wire.CallbackTimeAdvanceGrant}, kinds(h.tick(con)))
}

func TestAdvanceWhileEnablePending(t *testing.T) {
	ops := []wire.Op{
		wire.OpTimeAdvanceRequest, wire.OpTimeAdvanceRequestAvailable,
		wire.OpNextEventRequest, wire.OpNextEventRequestAvailable, wire.OpFlushQueueRequest,
	}
	for _, op := range ops {
		t.Run(op.String(), func(t *testing.T) {
			h := newHarness(t)
			reg := h.join("regulator")
			con := h.join("constrained")

			h.ok(reg, wire.OpEnableTimeRegulation, wire.Args{Lookahead: 1})
			_, err := h.request(reg, op, wire.Args{Time: at(10)})
			assert.True(t, errors.Is(err, rtierr.EnableTimeRegulationPending))

			h.ok(con, wire.OpEnableTimeConstrained, wire.Args{})
			_, err = h.request(con, op, wire.Args{Time: at(10)})
			assert.True(t, errors.Is(err, rtierr.EnableTimeConstrainedPending))
		})
	}
}

func TestNaNTimeRejected(t *testing.T) {
	h, reg, con := timeFixture(t)
	nan := fedtime.Time(math.NaN())

	_, err := h.request(con, wire.OpTimeAdvanceRequest, wire.Args{Time: &nan})
	assert.True(t, errors.Is(err, rtierr.InvalidFederationTime))
	r := h.ok(con, wire.OpQueryFederateTime, wire.Args{})
	assert.Equal(t, at(0), r.Time)

	err = h.sendX(reg, &nan)
	assert.True(t, errors.Is(err, rtierr.InvalidFederationTime))

	h.ok(reg, wire.OpTimeAdvanceRequest, wire.Args{Time: at(10)})
	h.tick(reg)
	h.ok(con, wire.OpTimeAdvanceRequest, wire.Args{Time: at(5)})
	assert.Equal(t, []wire.CallbackKind{wire.CallbackTimeAdvanceGrant}, kinds(h.tick(con)))
}

func TestNextEventRequest(t *testing.T) {
	h, reg, con := timeFixture(t)

	require.NoError(t, h.sendX(reg, at(4)))
	h.ok(con, wire.OpNextEventRequest, wire.Args{Time: at(10)})
	assert.Empty(t, h.tick(con))

	h.ok(reg, wire.OpTimeAdvanceRequest, wire.Args{Time: at(8)})
	h.tick(reg)

	cbs := h.tick(con)
	assert.Equal(t, []wire.CallbackKind{wire.CallbackReceiveInteraction, wire.CallbackTimeAdvanceGrant}, kinds(cbs))
	assert.Equal(t, at(4), cbs[1].Time)
}

func TestAdvanceErrors(t *testing.T) {
	h := newHarness(t)
	fed := h.join("a")

	_, err := h.request(fed, wire.OpTimeAdvanceRequest, wire.Args{})
	assert.True(t, errors.Is(err, rtierr.InvalidFederationTime))

	h.ok(fed, wire.OpTimeAdvanceRequest, wire.Args{Time: at(5)})
	_, err = h.request(fed, wire.OpTimeAdvanceRequest, wire.Args{Time: at(6)})
	assert.True(t, errors.Is(err, rtierr.TimeAdvanceAlreadyInProgress))
	assert.Equal(t, at(5), h.grant(fed))

	_, err = h.request(fed, wire.OpTimeAdvanceRequest, wire.Args{Time: at(5)})
	assert.True(t, errors.Is(err, rtierr.FederationTimeAlreadyPassed))

	_, err = h.request(fed, wire.OpModifyLookahead, wire.Args{Lookahead: 1})
	assert.True(t, errors.Is(err, rtierr.InvalidLookahead))

	_, err = h.request(fed, wire.OpDisableTimeConstrained, wire.Args{})
	assert.True(t, errors.Is(err, rtierr.TimeConstrainedWasNotEnabled))
}

func TestQueryLBTSWithoutRegulators(t *testing.T) {
	h := newHarness(t)
	fed := h.join("a")

	r := h.ok(fed, wire.OpQueryLBTS, wire.Args{})
	require.NotNil(t, r.Time)
	assert.True(t, r.Time.IsInfinite())

	r = h.ok(fed, wire.OpQueryFederateTime, wire.Args{})
	assert.Equal(t, at(0), r.Time)
}

func TestDisableConstrainedReleasesHeldMessages(t *testing.T) {
	h, reg, con := timeFixture(t)

	require.NoError(t, h.sendX(reg, at(3)))
	assert.Empty(t, h.tick(con))

	h.ok(con, wire.OpDisableTimeConstrained, wire.Args{})
	cbs := h.tick(con)
	require.Len(t, cbs, 1)
	assert.Equal(t, wire.CallbackReceiveInteraction, cbs[0].Kind)
}

func TestAsynchronousDelivery(t *testing.T) {
	h, _, con := timeFixture(t)
	owner := h.join("owner")

	h.subscribe(con, "A", "aa")
	obj := h.register(owner, "A", "aa")
	discovered := find(h.tick(con), wire.CallbackDiscoverObjectInstance)
	require.NotNil(t, discovered, "discovery is not held back")
	assert.Equal(t, obj, discovered.Object)

	h.ok(owner, wire.OpUpdateAttributeValues, wire.Args{
		Object: obj,
		Values: hla.AttributeHandleValueMap{h.attrs("A", "aa")[0]: []byte{1}},
	})
	assert.Empty(t, h.tick(con), "receive-order messages wait for an advance")

	h.ok(con, wire.OpEnableAsynchronousDelivery, wire.Args{})
	assert.Equal(t, []wire.CallbackKind{wire.CallbackReflectAttributeValues}, kinds(h.tick(con)))

	_, err := h.request(con, wire.OpEnableAsynchronousDelivery, wire.Args{})
	assert.True(t, errors.Is(err, rtierr.AsynchronousDeliveryAlreadyEnabled))
}
