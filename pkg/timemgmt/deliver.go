package timemgmt

import (
	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/hla"
)

// Delivery is what one federate may receive now, in order: the enable
// confirmations, then Items, then the grant.
type Delivery[T any] struct {
	RegulationEnabled  bool
	ConstrainedEnabled bool

	// EnabledAt is the federate time reported with an enable confirmation.
	EnabledAt fedtime.Time

	// Items holds receive-order messages followed by TSO messages in
	// timestamp order.
	Items []T

	Granted   bool
	GrantTime fedtime.Time
}

// Empty reports whether nothing is deliverable.
func (d *Delivery[T]) Empty() bool {
	return !d.RegulationEnabled && !d.ConstrainedEnabled && !d.Granted && len(d.Items) == 0
}

// Deliver takes from q what fed may receive now and completes any pending
// enable or advance that has become possible. gated marks receive-order
// messages that a constrained federate only gets while an advance is
// outstanding or asynchronous delivery is on; callbacks that are not
// messages are never gated.
func Deliver[T any](m *Manager, fed hla.FederateHandle, q *Queue[T], gated func(T) bool) Delivery[T] {
	m.mu.Lock()
	defer m.mu.Unlock()

	var d Delivery[T]
	s, ok := m.statuses[fed]
	if !ok {
		return d
	}
	lbts := m.lbts(fed)

	if s.Regulating == Pending {
		s.Regulating = On
		d.RegulationEnabled = true
		d.EnabledAt = s.Current
	}
	if s.Constrained == Pending && s.Current.LessOrEqual(lbts) {
		s.Constrained = On
		d.ConstrainedEnabled = true
		d.EnabledAt = s.Current
	}

	roOpen := !s.IsConstrained() || s.Asynchronous || s.IsAdvancing()
	d.Items = q.TakeRO(func(v T) bool { return roOpen || !gated(v) })

	if !s.IsAdvancing() {
		return d
	}

	var tso []Timed[T]
	constrained := s.IsConstrained()
	req := s.Requested

	switch s.Advancing {
	case AdvanceTimeRequest, AdvanceTimeRequestAvailable:
		available := s.Advancing == AdvanceTimeRequestAvailable
		before := func(t fedtime.Time) bool {
			if available {
				return t.LessOrEqual(lbts)
			}
			return t.Less(lbts)
		}
		if constrained {
			tso = q.PopTSOWhile(func(t fedtime.Time) bool { return t.LessOrEqual(req) && before(t) })
		}
		if !constrained || before(req) {
			d.Granted, d.GrantTime = true, req
		}

	case AdvanceNextEvent, AdvanceNextEventAvailable:
		available := s.Advancing == AdvanceNextEventAvailable
		if !constrained {
			d.Granted, d.GrantTime = true, req
			break
		}
		target := req
		if next, ok := q.Earliest(); ok {
			target = fedtime.Min(target, next)
		}
		if target.Less(lbts) || (available && target.LessOrEqual(lbts)) {
			tso = q.PopTSOWhile(func(t fedtime.Time) bool { return t.LessOrEqual(target) })
			d.Granted, d.GrantTime = true, target
		}

	case AdvanceFlushQueue:
		tso = q.PopTSOWhile(func(t fedtime.Time) bool { return t.LessOrEqual(req) })
		d.Granted, d.GrantTime = true, req
		if n := len(tso); n > 0 {
			d.GrantTime = fedtime.Min(req, tso[n-1].Time)
		}
	}

	for _, t := range tso {
		d.Items = append(d.Items, t.Value)
	}
	s.NextEvent, _ = q.Earliest()

	if d.Granted {
		s.Current = d.GrantTime
		s.Requested = d.GrantTime
		s.Advancing = AdvanceNone
	}
	return d
}
