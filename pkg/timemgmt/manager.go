package timemgmt

import (
	"sync"

	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

// Manager holds the time state of every federate in a federation.
type Manager struct {
	mu       sync.RWMutex
	statuses map[hla.FederateHandle]*Status
}

// NewManager creates an empty time manager.
func NewManager() *Manager {
	return &Manager{statuses: make(map[hla.FederateHandle]*Status)}
}

// Add starts tracking fed at time zero.
func (m *Manager) Add(fed hla.FederateHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[fed] = newStatus()
}

// Remove stops tracking fed.
func (m *Manager) Remove(fed hla.FederateHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.statuses, fed)
}

// Status returns a copy of fed's status.
func (m *Manager) Status(fed hla.FederateHandle) (Status, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.statuses[fed]
	if !ok {
		return Status{}, false
	}
	return *s, true
}

func invalidTime(t fedtime.Time) error {
	return rtierr.Errorf(rtierr.InvalidFederationTime, "%v is not a valid logical time", t)
}

func (m *Manager) status(fed hla.FederateHandle) (*Status, error) {
	s, ok := m.statuses[fed]
	if !ok {
		return nil, rtierr.Errorf(rtierr.FederateNotExecutionMember, "federate %d has no time state", fed)
	}
	return s, nil
}

// lbts computes the LBTS seen by fed. Caller holds m.mu.
func (m *Manager) lbts(fed hla.FederateHandle) fedtime.Time {
	lbts := fedtime.Infinity
	for h, s := range m.statuses {
		if h == fed || !s.IsRegulating() {
			continue
		}
		lbts = fedtime.Min(lbts, s.Contribution())
	}
	return lbts
}

// LBTS returns the smallest contribution of every regulating federate other
// than fed, or Infinity when there is none.
func (m *Manager) LBTS(fed hla.FederateHandle) fedtime.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lbts(fed)
}

// FederationLBTS returns the smallest contribution of every regulating
// federate.
func (m *Manager) FederationLBTS() fedtime.Time {
	return m.LBTS(0)
}

// EnableRegulation asks for fed to become regulating with the given
// lookahead. The request completes on the federate's next delivery. t is
// only checked against the federate's time; the confirmation reports the
// federate's current time.
func (m *Manager) EnableRegulation(fed hla.FederateHandle, t fedtime.Time, lookahead fedtime.Interval) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.status(fed)
	if err != nil {
		return err
	}
	switch {
	case s.Regulating == On:
		return rtierr.New(rtierr.TimeRegulationAlreadyEnabled, "time regulation is already enabled")
	case s.Regulating == Pending:
		return rtierr.New(rtierr.EnableTimeRegulationPending, "a request to enable time regulation is pending")
	case s.IsAdvancing():
		return rtierr.Errorf(rtierr.TimeAdvanceAlreadyInProgress, "%s to %v is in progress", s.Advancing, s.Requested)
	case !lookahead.IsPositive():
		return rtierr.Errorf(rtierr.InvalidLookahead, "lookahead %v must be greater than zero", lookahead)
	case !t.IsValid():
		return invalidTime(t)
	case t.Less(s.Current):
		return rtierr.Errorf(rtierr.InvalidFederationTime, "time %v is before current time %v", t, s.Current)
	}
	s.Regulating = Pending
	s.Lookahead = lookahead
	return nil
}

// DisableRegulation turns regulation off.
func (m *Manager) DisableRegulation(fed hla.FederateHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.status(fed)
	if err != nil {
		return err
	}
	if s.Regulating != On {
		return rtierr.New(rtierr.TimeRegulationWasNotEnabled, "time regulation is not enabled")
	}
	s.Regulating = Off
	s.floor = fedtime.Zero
	return nil
}

// EnableConstrained asks for fed to become constrained. The request
// completes on a delivery once the federate's time is not past its LBTS.
func (m *Manager) EnableConstrained(fed hla.FederateHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.status(fed)
	if err != nil {
		return err
	}
	switch {
	case s.Constrained == On:
		return rtierr.New(rtierr.TimeConstrainedAlreadyEnabled, "time constrained is already enabled")
	case s.Constrained == Pending:
		return rtierr.New(rtierr.EnableTimeConstrainedPending, "a request to enable time constrained is pending")
	case s.IsAdvancing():
		return rtierr.Errorf(rtierr.TimeAdvanceAlreadyInProgress, "%s to %v is in progress", s.Advancing, s.Requested)
	}
	s.Constrained = Pending
	return nil
}

// DisableConstrained turns constraint off. The caller must release the
// federate's queued TSO messages as receive order.
func (m *Manager) DisableConstrained(fed hla.FederateHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.status(fed)
	if err != nil {
		return err
	}
	if s.Constrained != On {
		return rtierr.New(rtierr.TimeConstrainedWasNotEnabled, "time constrained is not enabled")
	}
	s.Constrained = Off
	return nil
}

// RequestAdvance records an advance request of the given kind.
func (m *Manager) RequestAdvance(fed hla.FederateHandle, kind AdvanceKind, t fedtime.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.status(fed)
	if err != nil {
		return err
	}
	switch {
	case s.IsAdvancing():
		return rtierr.Errorf(rtierr.TimeAdvanceAlreadyInProgress, "%s to %v is in progress", s.Advancing, s.Requested)
	case s.Regulating == Pending:
		return rtierr.New(rtierr.EnableTimeRegulationPending, "a request to enable time regulation is pending")
	case s.Constrained == Pending:
		return rtierr.New(rtierr.EnableTimeConstrainedPending, "a request to enable time constrained is pending")
	case !t.IsValid():
		return invalidTime(t)
	case t.LessOrEqual(s.Current):
		return rtierr.Errorf(rtierr.FederationTimeAlreadyPassed, "requested %v but current time is %v", t, s.Current)
	}
	s.Advancing = kind
	s.Requested = t
	return nil
}

// ModifyLookahead changes the lookahead of a regulating federate. Shrinking
// the lookahead never lowers the contribution already promised.
func (m *Manager) ModifyLookahead(fed hla.FederateHandle, lookahead fedtime.Interval) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.status(fed)
	if err != nil {
		return err
	}
	if !s.IsRegulating() {
		return rtierr.New(rtierr.InvalidLookahead, "lookahead can only be modified while regulating")
	}
	if !lookahead.IsPositive() {
		return rtierr.Errorf(rtierr.InvalidLookahead, "lookahead %v must be greater than zero", lookahead)
	}
	s.floor = s.Contribution()
	s.Lookahead = lookahead
	return nil
}

// EnableAsynchronousDelivery lets receive-order messages reach a constrained
// federate while no advance is outstanding.
func (m *Manager) EnableAsynchronousDelivery(fed hla.FederateHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.status(fed)
	if err != nil {
		return err
	}
	if s.Asynchronous {
		return rtierr.New(rtierr.AsynchronousDeliveryAlreadyEnabled, "asynchronous delivery is already enabled")
	}
	s.Asynchronous = true
	return nil
}

// DisableAsynchronousDelivery reverts EnableAsynchronousDelivery.
func (m *Manager) DisableAsynchronousDelivery(fed hla.FederateHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.status(fed)
	if err != nil {
		return err
	}
	if !s.Asynchronous {
		return rtierr.New(rtierr.AsynchronousDeliveryAlreadyDisabled, "asynchronous delivery is already disabled")
	}
	s.Asynchronous = false
	return nil
}

// ValidateSend decides how a message stamped t sent by fed travels. It
// reports true for timestamp order, which requires fed to be regulating; a
// regulating federate may not send before its contribution.
func (m *Manager) ValidateSend(fed hla.FederateHandle, t fedtime.Time) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, err := m.status(fed)
	if err != nil {
		return false, err
	}
	if !t.IsValid() {
		return false, invalidTime(t)
	}
	if !s.IsRegulating() {
		return false, nil
	}
	if c := s.Contribution(); t.Less(c) {
		return false, rtierr.Errorf(rtierr.InvalidFederationTime, "timestamp %v is before %v (time plus lookahead)", t, c)
	}
	return true, nil
}

// Accepts reports whether fed takes a TSO message stamped t: a constrained
// federate drops messages older than its current time.
func (m *Manager) Accepts(fed hla.FederateHandle, t fedtime.Time) (tso, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, exists := m.statuses[fed]
	if !exists {
		return false, false
	}
	if !s.IsConstrained() {
		return false, true
	}
	if t.Less(s.Current) {
		return true, false
	}
	s.NextEvent = fedtime.Min(s.NextEvent, t)
	return true, true
}

// Snapshot returns the status of every federate.
func (m *Manager) Snapshot() map[hla.FederateHandle]Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[hla.FederateHandle]Status, len(m.statuses))
	for h, s := range m.statuses {
		c := *s
		c.floor = fedtime.Zero
		out[h] = c
	}
	return out
}

// Restore replaces every status. Outstanding advances and pending enables
// are not restored.
func (m *Manager) Restore(snap map[hla.FederateHandle]Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.statuses = make(map[hla.FederateHandle]*Status, len(snap))
	for h, s := range snap {
		s.Advancing = AdvanceNone
		s.Requested = s.Current
		s.NextEvent = fedtime.Infinity
		if s.Regulating == Pending {
			s.Regulating = Off
		}
		if s.Constrained == Pending {
			s.Constrained = Off
		}
		m.statuses[h] = &s
	}
}
