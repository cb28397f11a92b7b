package ownership

import "github.com/openlvc/portico-sub003/pkg/hla"

// State is the negotiation state of one (object, attribute) pair.
type State uint8

const (
	// StateUnowned: no federate owns the attribute.
	StateUnowned State = iota

	// StateOwned: one federate owns it and no negotiation is open.
	StateOwned

	// StateDivestPending: the owner offered it through negotiated divestiture.
	StateDivestPending

	// StateAcquirePending: another federate asked for it and the owner has
	// not answered.
	StateAcquirePending

	// StateRTIOwned: the RTI owns it.
	StateRTIOwned
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnowned:
		return "UNOWNED"
	case StateOwned:
		return "OWNED"
	case StateDivestPending:
		return "DIVEST_PENDING"
	case StateAcquirePending:
		return "ACQUIRE_PENDING"
	case StateRTIOwned:
		return "RTI_OWNED"
	default:
		return "UNKNOWN"
	}
}

// NoticeKind selects the callback a notice becomes.
type NoticeKind uint8

const (
	// NoticeAssumptionRequested becomes requestAttributeOwnershipAssumption.
	NoticeAssumptionRequested NoticeKind = iota + 1

	// NoticeDivestiture becomes attributeOwnershipDivestitureNotification.
	NoticeDivestiture

	// NoticeAcquisition becomes attributeOwnershipAcquisitionNotification.
	NoticeAcquisition

	// NoticeUnavailable becomes attributeOwnershipUnavailable.
	NoticeUnavailable

	// NoticeReleaseRequested becomes requestAttributeOwnershipRelease.
	NoticeReleaseRequested

	// NoticeCancellationConfirmed becomes
	// confirmAttributeOwnershipAcquisitionCancellation.
	NoticeCancellationConfirmed
)

// String returns the notice name.
func (k NoticeKind) String() string {
	switch k {
	case NoticeAssumptionRequested:
		return "ASSUMPTION_REQUESTED"
	case NoticeDivestiture:
		return "DIVESTITURE"
	case NoticeAcquisition:
		return "ACQUISITION"
	case NoticeUnavailable:
		return "UNAVAILABLE"
	case NoticeReleaseRequested:
		return "RELEASE_REQUESTED"
	case NoticeCancellationConfirmed:
		return "CANCELLATION_CONFIRMED"
	default:
		return "UNKNOWN"
	}
}

// Notice is a callback owed to one federate.
type Notice struct {
	Kind       NoticeKind
	Federate   hla.FederateHandle
	Object     hla.ObjectInstanceHandle
	Attributes hla.AttributeHandleSet
	Tag        []byte
}

// notices groups attributes per (kind, federate) so each federate receives
// one callback per kind and operation.
type notices struct {
	object hla.ObjectInstanceHandle
	order  []noticeKey
	sets   map[noticeKey]*Notice
}

type noticeKey struct {
	kind NoticeKind
	fed  hla.FederateHandle
}

func newNotices(object hla.ObjectInstanceHandle) *notices {
	return &notices{object: object, sets: make(map[noticeKey]*Notice)}
}

func (n *notices) add(kind NoticeKind, fed hla.FederateHandle, attr hla.AttributeHandle, tag []byte) {
	k := noticeKey{kind, fed}
	nt, ok := n.sets[k]
	if !ok {
		nt = &Notice{Kind: kind, Federate: fed, Object: n.object, Attributes: make(hla.AttributeHandleSet), Tag: tag}
		n.sets[k] = nt
		n.order = append(n.order, k)
	}
	nt.Attributes.Add(attr)
}

func (n *notices) list() []Notice {
	out := make([]Notice, 0, len(n.order))
	for _, k := range n.order {
		out = append(out, *n.sets[k])
	}
	return out
}
