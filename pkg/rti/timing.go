package rti

import (
	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/log"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
	"github.com/openlvc/portico-sub003/pkg/timemgmt"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

func (f *Federation) status(m *member) (timemgmt.Status, error) {
	s, ok := f.time.Status(m.handle)
	if !ok {
		return timemgmt.Status{}, rtierr.Errorf(rtierr.FederateNotExecutionMember, "federate %d has no time state", m.handle)
	}
	return s, nil
}

// enableRegulation asks for regulation at t, or at the federate's current
// time when t is nil.
func (f *Federation) enableRegulation(m *member, t *fedtime.Time, lookahead fedtime.Interval) error {
	s, err := f.status(m)
	if err != nil {
		return err
	}
	at := s.Current
	if t != nil {
		at = *t
	}
	if err := f.time.EnableRegulation(m.handle, at, lookahead); err != nil {
		return err
	}
	f.kernel.traceState(f.name, m.handle, log.StateEntityTime, "", "REGULATION_PENDING", lookahead.String())
	return nil
}

func (f *Federation) disableRegulation(m *member) error {
	if err := f.time.DisableRegulation(m.handle); err != nil {
		return err
	}
	f.reflectMOM(m)
	f.kernel.traceState(f.name, m.handle, log.StateEntityTime, "REGULATING", "NOT_REGULATING", "")
	return nil
}

// disableConstrained turns constraint off and releases the federate's held
// timestamp-order messages in receive order.
func (f *Federation) disableConstrained(m *member) error {
	if err := f.time.DisableConstrained(m.handle); err != nil {
		return err
	}
	m.queue.MoveTSOToRO()
	f.reflectMOM(m)
	f.kernel.traceState(f.name, m.handle, log.StateEntityTime, "CONSTRAINED", "NOT_CONSTRAINED", "")
	return nil
}

func (f *Federation) advance(m *member, kind timemgmt.AdvanceKind, t *fedtime.Time) error {
	if t == nil {
		return rtierr.Errorf(rtierr.InvalidFederationTime, "%s needs a time", kind)
	}
	if !t.IsValid() {
		return rtierr.Errorf(rtierr.InvalidFederationTime, "%s to %v is not a valid logical time", kind, *t)
	}
	if err := f.time.RequestAdvance(m.handle, kind, *t); err != nil {
		return err
	}
	f.logger.Debug("time advance requested", "federate", m.handle, "kind", kind.String(), "time", t.String())
	return nil
}

func (f *Federation) queryLBTS(m *member) wire.Result {
	lbts := f.time.LBTS(m.handle)
	return wire.Result{Time: &lbts}
}

func (f *Federation) queryFederateTime(m *member) (wire.Result, error) {
	s, err := f.status(m)
	if err != nil {
		return wire.Result{}, err
	}
	return wire.Result{Time: &s.Current}, nil
}

// queryMinNextEventTime is the smaller of the LBTS and the earliest
// timestamp-order message held for the federate.
func (f *Federation) queryMinNextEventTime(m *member) wire.Result {
	next := f.time.LBTS(m.handle)
	if earliest, ok := m.queue.Earliest(); ok {
		next = fedtime.Min(next, earliest)
	}
	return wire.Result{Time: &next}
}

func (f *Federation) queryLookahead(m *member) (wire.Result, error) {
	s, err := f.status(m)
	if err != nil {
		return wire.Result{}, err
	}
	return wire.Result{Lookahead: s.Lookahead}, nil
}

func (f *Federation) modifyLookahead(m *member, lookahead fedtime.Interval) error {
	if err := f.time.ModifyLookahead(m.handle, lookahead); err != nil {
		return err
	}
	f.reflectMOM(m)
	return nil
}
