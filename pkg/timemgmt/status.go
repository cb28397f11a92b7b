package timemgmt

import "github.com/openlvc/portico-sub003/pkg/fedtime"

// TriState is the state of regulation or constraint.
type TriState uint8

const (
	// Off: not enabled.
	Off TriState = iota

	// Pending: enable requested, not yet confirmed to the federate.
	Pending

	// On: enabled.
	On
)

// String returns the state name.
func (s TriState) String() string {
	switch s {
	case Off:
		return "OFF"
	case Pending:
		return "PENDING"
	case On:
		return "ON"
	default:
		return "UNKNOWN"
	}
}

// AdvanceKind identifies the service that requested an advance.
type AdvanceKind uint8

const (
	AdvanceNone AdvanceKind = iota
	AdvanceTimeRequest
	AdvanceTimeRequestAvailable
	AdvanceNextEvent
	AdvanceNextEventAvailable
	AdvanceFlushQueue
)

// String returns the advance name.
func (k AdvanceKind) String() string {
	switch k {
	case AdvanceNone:
		return "NONE"
	case AdvanceTimeRequest:
		return "TAR"
	case AdvanceTimeRequestAvailable:
		return "TARA"
	case AdvanceNextEvent:
		return "NER"
	case AdvanceNextEventAvailable:
		return "NERA"
	case AdvanceFlushQueue:
		return "FQR"
	default:
		return "UNKNOWN"
	}
}

// Status is the time state of one federate.
type Status struct {
	Regulating   TriState         `json:"regulating"`
	Constrained  TriState         `json:"constrained"`
	Advancing    AdvanceKind      `json:"advancing"`
	Current      fedtime.Time     `json:"current"`
	Requested    fedtime.Time     `json:"requested"`
	Lookahead    fedtime.Interval `json:"lookahead"`
	Asynchronous bool             `json:"asynchronous,omitempty"`

	// NextEvent is the timestamp of the earliest queued TSO message, or
	// Infinity. It bounds the contribution of a federate in a next event
	// request.
	NextEvent fedtime.Time `json:"-"`

	// floor keeps the contribution from moving backwards when the lookahead
	// shrinks.
	floor fedtime.Time
}

// IsRegulating reports whether regulation is on.
func (s *Status) IsRegulating() bool { return s.Regulating == On }

// IsConstrained reports whether constraint is on.
func (s *Status) IsConstrained() bool { return s.Constrained == On }

// IsAdvancing reports whether an advance is outstanding.
func (s *Status) IsAdvancing() bool { return s.Advancing != AdvanceNone }

// Contribution is the earliest timestamp this federate may still send.
func (s *Status) Contribution() fedtime.Time {
	base := s.Current
	switch s.Advancing {
	case AdvanceTimeRequest, AdvanceTimeRequestAvailable:
		base = s.Requested
	case AdvanceNextEvent, AdvanceNextEventAvailable, AdvanceFlushQueue:
		base = fedtime.Min(s.Requested, fedtime.Max(s.Current, s.NextEvent))
	}
	return fedtime.Max(base.Add(s.Lookahead), s.floor)
}

func newStatus() *Status {
	return &Status{
		Regulating:  Off,
		Constrained: Off,
		Current:     fedtime.Zero,
		Requested:   fedtime.Zero,
		NextEvent:   fedtime.Infinity,
	}
}
