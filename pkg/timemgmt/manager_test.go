package timemgmt

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

const (
	fedA hla.FederateHandle = 1
	fedB hla.FederateHandle = 2
)

var nan = fedtime.Time(math.NaN())

// msg is a queued test message; gated marks a receive-order update.
type msg struct {
	name  string
	gated bool
}

func isGated(m msg) bool { return m.gated }

func names(ms []msg) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.name)
	}
	return out
}

type fed struct {
	h hla.FederateHandle
	q *Queue[msg]
}

func (f *fed) deliver(m *Manager) Delivery[msg] {
	return Deliver(m, f.h, f.q, isGated)
}

func newFederate(m *Manager, h hla.FederateHandle) *fed {
	m.Add(h)
	return &fed{h: h, q: NewQueue[msg]()}
}

func regulating(t *testing.T, m *Manager, f *fed, lookahead fedtime.Interval) {
	t.Helper()
	require.NoError(t, m.EnableRegulation(f.h, 0, lookahead))
	d := f.deliver(m)
	require.True(t, d.RegulationEnabled)
}

func constrained(t *testing.T, m *Manager, f *fed) {
	t.Helper()
	require.NoError(t, m.EnableConstrained(f.h))
	d := f.deliver(m)
	require.True(t, d.ConstrainedEnabled)
}

func kindOf(err error) rtierr.Kind { return rtierr.KindOf(err) }

func TestEnableRegulationStateMachine(t *testing.T) {
	m := NewManager()
	a := newFederate(m, fedA)

	require.NoError(t, m.EnableRegulation(fedA, 0, 1))
	s, _ := m.Status(fedA)
	assert.Equal(t, Pending, s.Regulating)

	err := m.EnableRegulation(fedA, 0, 1)
	assert.Equal(t, rtierr.EnableTimeRegulationPending, kindOf(err))

	err = m.RequestAdvance(fedA, AdvanceTimeRequest, 10)
	assert.Equal(t, rtierr.EnableTimeRegulationPending, kindOf(err))

	d := a.deliver(m)
	assert.True(t, d.RegulationEnabled)
	assert.Equal(t, fedtime.Time(0), d.EnabledAt)

	err = m.EnableRegulation(fedA, 0, 1)
	assert.True(t, errors.Is(err, rtierr.TimeRegulationAlreadyEnabled))

	require.NoError(t, m.DisableRegulation(fedA))
	err = m.DisableRegulation(fedA)
	assert.Equal(t, rtierr.TimeRegulationWasNotEnabled, kindOf(err))
}

func TestEnableRegulationReportsCurrentTime(t *testing.T) {
	m := NewManager()
	a := newFederate(m, fedA)

	require.NoError(t, m.EnableRegulation(fedA, 7, 1))
	d := a.deliver(m)
	require.True(t, d.RegulationEnabled)
	assert.Equal(t, fedtime.Zero, d.EnabledAt)
	assert.Equal(t, fedtime.Time(1), m.LBTS(fedB))
}

func TestEnableRegulationRejectsBadArguments(t *testing.T) {
	m := NewManager()
	a := newFederate(m, fedA)

	assert.Equal(t, rtierr.InvalidLookahead, kindOf(m.EnableRegulation(fedA, 0, 0)))
	assert.Equal(t, rtierr.InvalidLookahead, kindOf(m.EnableRegulation(fedA, 0, -1)))

	require.NoError(t, m.RequestAdvance(fedA, AdvanceTimeRequest, 5))
	assert.Equal(t, rtierr.TimeAdvanceAlreadyInProgress, kindOf(m.EnableRegulation(fedA, 5, 1)))
	a.deliver(m)

	assert.Equal(t, rtierr.InvalidFederationTime, kindOf(m.EnableRegulation(fedA, 2, 1)))
	assert.Equal(t, rtierr.InvalidFederationTime, kindOf(m.EnableRegulation(fedA, nan, 1)))
	assert.Equal(t, rtierr.FederateNotExecutionMember, kindOf(m.EnableRegulation(fedB, 0, 1)))
}

func TestEnableConstrainedWaitsForLBTS(t *testing.T) {
	m := NewManager()
	a := newFederate(m, fedA)
	b := newFederate(m, fedB)

	// B moves to 10 before A regulates, then A regulates at 0 with
	// lookahead 1. B cannot become constrained until A reaches 9.
	require.NoError(t, m.RequestAdvance(fedB, AdvanceTimeRequest, 10))
	require.True(t, b.deliver(m).Granted)
	regulating(t, m, a, 1)

	require.NoError(t, m.EnableConstrained(fedB))
	assert.Equal(t, rtierr.EnableTimeConstrainedPending, kindOf(m.EnableConstrained(fedB)))
	assert.False(t, b.deliver(m).ConstrainedEnabled)

	require.NoError(t, m.RequestAdvance(fedA, AdvanceTimeRequest, 9))
	require.True(t, a.deliver(m).Granted)

	d := b.deliver(m)
	assert.True(t, d.ConstrainedEnabled)
	assert.Equal(t, fedtime.Time(10), d.EnabledAt)

	assert.Equal(t, rtierr.TimeConstrainedAlreadyEnabled, kindOf(m.EnableConstrained(fedB)))
	require.NoError(t, m.DisableConstrained(fedB))
	assert.Equal(t, rtierr.TimeConstrainedWasNotEnabled, kindOf(m.DisableConstrained(fedB)))
}

func TestRequestAdvanceErrors(t *testing.T) {
	m := NewManager()
	a := newFederate(m, fedA)

	require.NoError(t, m.RequestAdvance(fedA, AdvanceTimeRequest, 5))
	err := m.RequestAdvance(fedA, AdvanceNextEvent, 6)
	assert.Equal(t, rtierr.TimeAdvanceAlreadyInProgress, kindOf(err))
	a.deliver(m)

	tests := []struct {
		name string
		t    fedtime.Time
	}{
		{"equal", 5},
		{"earlier", 4},
		{"within epsilon", 5 + fedtime.Epsilon/2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.RequestAdvance(fedA, AdvanceTimeRequest, tt.t)
			if got := kindOf(err); got != rtierr.FederationTimeAlreadyPassed {
				t.Errorf("RequestAdvance(%v) = %v, want FederationTimeAlreadyPassed", tt.t, got)
			}
		})
	}
}

func TestRequestAdvanceRejectsNaN(t *testing.T) {
	kinds := []AdvanceKind{
		AdvanceTimeRequest, AdvanceTimeRequestAvailable,
		AdvanceNextEvent, AdvanceNextEventAvailable, AdvanceFlushQueue,
	}
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			m := NewManager()
			a := newFederate(m, fedA)

			assert.Equal(t, rtierr.InvalidFederationTime, kindOf(m.RequestAdvance(fedA, kind, nan)))
			s, _ := m.Status(fedA)
			assert.Equal(t, AdvanceNone, s.Advancing)
			assert.Equal(t, fedtime.Zero, s.Current)

			require.NoError(t, m.RequestAdvance(fedA, kind, 5))
			d := a.deliver(m)
			require.True(t, d.Granted)
			assert.Equal(t, fedtime.Time(5), d.GrantTime)
		})
	}
}

func TestAdvanceRejectedWhileEnablePending(t *testing.T) {
	kinds := []AdvanceKind{
		AdvanceTimeRequest, AdvanceTimeRequestAvailable,
		AdvanceNextEvent, AdvanceNextEventAvailable, AdvanceFlushQueue,
	}
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			m := NewManager()
			m.Add(fedA)
			m.Add(fedB)

			require.NoError(t, m.EnableRegulation(fedA, 0, 1))
			assert.Equal(t, rtierr.EnableTimeRegulationPending, kindOf(m.RequestAdvance(fedA, kind, 10)))

			require.NoError(t, m.EnableConstrained(fedB))
			assert.Equal(t, rtierr.EnableTimeConstrainedPending, kindOf(m.RequestAdvance(fedB, kind, 10)))
		})
	}
}

func TestOnlyOneAdvanceInFlight(t *testing.T) {
	kinds := []AdvanceKind{
		AdvanceTimeRequest, AdvanceTimeRequestAvailable,
		AdvanceNextEvent, AdvanceNextEventAvailable, AdvanceFlushQueue,
	}
	for _, first := range kinds {
		for _, second := range kinds {
			m := NewManager()
			m.Add(fedA)
			require.NoError(t, m.RequestAdvance(fedA, first, 10))
			err := m.RequestAdvance(fedA, second, 20)
			if got := kindOf(err); got != rtierr.TimeAdvanceAlreadyInProgress {
				t.Errorf("%s after %s = %v, want TimeAdvanceAlreadyInProgress", second, first, got)
			}
		}
	}
}

func TestTimeAdvanceRequestBlocksOnLBTS(t *testing.T) {
	m := NewManager()
	a := newFederate(m, fedA)
	b := newFederate(m, fedB)
	regulating(t, m, a, 5)
	constrained(t, m, b)

	// LBTS for B is 0+5.
	assert.Equal(t, fedtime.Time(5), m.LBTS(fedB))
	assert.True(t, m.LBTS(fedA).IsInfinite())

	require.NoError(t, m.RequestAdvance(fedB, AdvanceTimeRequest, 5))
	assert.False(t, b.deliver(m).Granted)

	// TARA may be granted at exactly LBTS.
	m2 := NewManager()
	a2 := newFederate(m2, fedA)
	b2 := newFederate(m2, fedB)
	regulating(t, m2, a2, 5)
	constrained(t, m2, b2)
	require.NoError(t, m2.RequestAdvance(fedB, AdvanceTimeRequestAvailable, 5))
	d := b2.deliver(m2)
	assert.True(t, d.Granted)
	assert.Equal(t, fedtime.Time(5), d.GrantTime)

	// A advancing to 10 raises B's LBTS to 15 and releases B's request.
	require.NoError(t, m.RequestAdvance(fedA, AdvanceTimeRequest, 10))
	assert.Equal(t, fedtime.Time(15), m.LBTS(fedB))
	d = b.deliver(m)
	assert.True(t, d.Granted)
	assert.Equal(t, fedtime.Time(5), d.GrantTime)

	s, _ := m.Status(fedB)
	assert.Equal(t, fedtime.Time(5), s.Current)
	assert.False(t, s.IsAdvancing())
}

func TestTimeAdvanceRequestDeliversTSOInOrder(t *testing.T) {
	m := NewManager()
	a := newFederate(m, fedA)
	b := newFederate(m, fedB)
	regulating(t, m, a, 1)
	constrained(t, m, b)
	require.NoError(t, m.RequestAdvance(fedA, AdvanceTimeRequest, 100))

	b.q.PushTSO(7, msg{name: "seven"})
	b.q.PushTSO(3, msg{name: "three"})
	b.q.PushTSO(3, msg{name: "three-again"})
	b.q.PushTSO(20, msg{name: "twenty"})

	require.NoError(t, m.RequestAdvance(fedB, AdvanceTimeRequest, 10))
	d := b.deliver(m)
	require.True(t, d.Granted)
	assert.Equal(t, []string{"three", "three-again", "seven"}, names(d.Items))
	assert.Equal(t, 1, b.q.LenTSO())
}

func TestUnconstrainedFederateGrantedImmediately(t *testing.T) {
	m := NewManager()
	a := newFederate(m, fedA)
	b := newFederate(m, fedB)
	regulating(t, m, a, 1)

	require.NoError(t, m.RequestAdvance(fedB, AdvanceTimeRequest, 1000))
	d := b.deliver(m)
	assert.True(t, d.Granted)
	assert.Equal(t, fedtime.Time(1000), d.GrantTime)
}

func TestNextEventRequest(t *testing.T) {
	m := NewManager()
	a := newFederate(m, fedA)
	b := newFederate(m, fedB)
	regulating(t, m, a, 1)
	constrained(t, m, b)

	b.q.PushTSO(4, msg{name: "four"})
	b.q.PushTSO(4, msg{name: "four-b"})
	b.q.PushTSO(6, msg{name: "six"})

	require.NoError(t, m.RequestAdvance(fedB, AdvanceNextEvent, 10))
	assert.False(t, b.deliver(m).Granted, "LBTS is 1")

	require.NoError(t, m.RequestAdvance(fedA, AdvanceTimeRequest, 20))
	d := b.deliver(m)
	require.True(t, d.Granted)
	assert.Equal(t, fedtime.Time(4), d.GrantTime)
	assert.Equal(t, []string{"four", "four-b"}, names(d.Items))

	s, _ := m.Status(fedB)
	assert.Equal(t, fedtime.Time(6), s.NextEvent)

	// Nothing queued before the request: granted at the request.
	require.NoError(t, m.RequestAdvance(fedB, AdvanceNextEvent, 5))
	d = b.deliver(m)
	require.True(t, d.Granted)
	assert.Equal(t, fedtime.Time(5), d.GrantTime)
	assert.Empty(t, d.Items)
}

func TestNextEventContributionUsesQueuedEvents(t *testing.T) {
	m := NewManager()
	a := newFederate(m, fedA)
	b := newFederate(m, fedB)
	regulating(t, m, a, 1)
	regulating(t, m, b, 1)
	constrained(t, m, a)
	constrained(t, m, b)

	// Both wait in NER to 100; each has one event queued.
	a.q.PushTSO(10, msg{name: "a10"})
	_, ok := m.Accepts(fedA, 10)
	require.True(t, ok)
	b.q.PushTSO(30, msg{name: "b30"})
	_, ok = m.Accepts(fedB, 30)
	require.True(t, ok)

	require.NoError(t, m.RequestAdvance(fedA, AdvanceNextEvent, 100))
	require.NoError(t, m.RequestAdvance(fedB, AdvanceNextEvent, 100))

	assert.Equal(t, fedtime.Time(31), m.LBTS(fedA))
	assert.Equal(t, fedtime.Time(11), m.LBTS(fedB))

	d := a.deliver(m)
	require.True(t, d.Granted)
	assert.Equal(t, fedtime.Time(10), d.GrantTime)
	assert.False(t, b.deliver(m).Granted)
}

func TestFlushQueueRequest(t *testing.T) {
	m := NewManager()
	a := newFederate(m, fedA)
	b := newFederate(m, fedB)
	regulating(t, m, a, 1)
	constrained(t, m, b)

	b.q.PushTSO(50, msg{name: "fifty"})
	b.q.PushTSO(75, msg{name: "seventy-five"})
	b.q.PushTSO(150, msg{name: "late"})

	// Flush ignores LBTS.
	require.NoError(t, m.RequestAdvance(fedB, AdvanceFlushQueue, 100))
	d := b.deliver(m)
	require.True(t, d.Granted)
	assert.Equal(t, fedtime.Time(75), d.GrantTime)
	assert.Equal(t, []string{"fifty", "seventy-five"}, names(d.Items))

	// Nothing at or below the request: granted at the request.
	require.NoError(t, m.RequestAdvance(fedB, AdvanceFlushQueue, 100))
	d = b.deliver(m)
	require.True(t, d.Granted)
	assert.Equal(t, fedtime.Time(100), d.GrantTime)
}

func TestReceiveOrderGating(t *testing.T) {
	m := NewManager()
	a := newFederate(m, fedA)
	b := newFederate(m, fedB)
	regulating(t, m, a, 1)
	constrained(t, m, b)

	b.q.PushRO(msg{name: "update", gated: true})
	b.q.PushRO(msg{name: "discover"})

	d := b.deliver(m)
	assert.Equal(t, []string{"discover"}, names(d.Items))

	require.NoError(t, m.EnableAsynchronousDelivery(fedB))
	assert.Equal(t, rtierr.AsynchronousDeliveryAlreadyEnabled, kindOf(m.EnableAsynchronousDelivery(fedB)))
	d = b.deliver(m)
	assert.Equal(t, []string{"update"}, names(d.Items))

	require.NoError(t, m.DisableAsynchronousDelivery(fedB))
	assert.Equal(t, rtierr.AsynchronousDeliveryAlreadyDisabled, kindOf(m.DisableAsynchronousDelivery(fedB)))

	b.q.PushRO(msg{name: "reflect", gated: true})
	assert.Empty(t, b.deliver(m).Items)
	require.NoError(t, m.RequestAdvance(fedB, AdvanceTimeRequest, 0.5))
	d = b.deliver(m)
	assert.Equal(t, []string{"reflect"}, names(d.Items))
	assert.True(t, d.Granted)
}

func TestValidateSend(t *testing.T) {
	m := NewManager()
	a := newFederate(m, fedA)
	m.Add(fedB)

	tso, err := m.ValidateSend(fedB, 0)
	require.NoError(t, err)
	assert.False(t, tso, "non-regulating sender sends receive order")

	regulating(t, m, a, 5)
	_, err = m.ValidateSend(fedA, 4)
	assert.Equal(t, rtierr.InvalidFederationTime, kindOf(err))

	tso, err = m.ValidateSend(fedA, 5)
	require.NoError(t, err)
	assert.True(t, tso)

	for _, h := range []hla.FederateHandle{fedA, fedB} {
		_, err = m.ValidateSend(h, nan)
		assert.Equal(t, rtierr.InvalidFederationTime, kindOf(err), "federate %d", h)
	}
}

func TestModifyLookahead(t *testing.T) {
	m := NewManager()
	a := newFederate(m, fedA)
	m.Add(fedB)

	assert.Equal(t, rtierr.InvalidLookahead, kindOf(m.ModifyLookahead(fedA, 2)))

	regulating(t, m, a, 10)
	assert.Equal(t, rtierr.InvalidLookahead, kindOf(m.ModifyLookahead(fedA, 0)))
	require.NoError(t, m.ModifyLookahead(fedA, 2))

	s, _ := m.Status(fedA)
	assert.Equal(t, fedtime.Interval(2), s.Lookahead)
	assert.Equal(t, fedtime.Time(10), m.LBTS(fedB), "contribution does not move backwards")

	require.NoError(t, m.RequestAdvance(fedA, AdvanceTimeRequest, 20))
	assert.Equal(t, fedtime.Time(22), m.LBTS(fedB))
}

func TestAcceptsDropsStaleMessages(t *testing.T) {
	m := NewManager()
	b := newFederate(m, fedB)
	require.NoError(t, m.EnableConstrained(fedB))
	b.deliver(m)
	require.NoError(t, m.RequestAdvance(fedB, AdvanceTimeRequest, 10))
	require.True(t, b.deliver(m).Granted)

	tso, ok := m.Accepts(fedB, 9)
	assert.True(t, tso)
	assert.False(t, ok)

	tso, ok = m.Accepts(fedB, 10)
	assert.True(t, tso)
	assert.True(t, ok)

	m.Add(fedA)
	tso, ok = m.Accepts(fedA, 1)
	assert.False(t, tso)
	assert.True(t, ok)
}

func TestSnapshotRestore(t *testing.T) {
	m := NewManager()
	a := newFederate(m, fedA)
	regulating(t, m, a, 3)
	require.NoError(t, m.RequestAdvance(fedA, AdvanceTimeRequest, 8))
	require.True(t, a.deliver(m).Granted)
	require.NoError(t, m.EnableConstrained(fedA))

	snap := m.Snapshot()
	m.Remove(fedA)
	_, ok := m.Status(fedA)
	require.False(t, ok)

	m.Restore(snap)
	s, ok := m.Status(fedA)
	require.True(t, ok)
	assert.Equal(t, fedtime.Time(8), s.Current)
	assert.True(t, s.IsRegulating())
	assert.Equal(t, Off, s.Constrained)
	assert.Equal(t, fedtime.Interval(3), s.Lookahead)
}
