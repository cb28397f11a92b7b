package hla

import "strconv"

// Handle is the constraint satisfied by every handle category.
type Handle interface {
	~uint32
}

// FederateHandle identifies a joined federate within one federation execution.
type FederateHandle uint32

// ObjectClassHandle identifies an object class of the FOM.
type ObjectClassHandle uint32

// AttributeHandle identifies an attribute of the FOM.
type AttributeHandle uint32

// InteractionClassHandle identifies an interaction class of the FOM.
type InteractionClassHandle uint32

// ParameterHandle identifies an interaction parameter of the FOM.
type ParameterHandle uint32

// ObjectInstanceHandle identifies a registered object instance.
type ObjectInstanceHandle uint32

// SpaceHandle identifies a routing space of the FOM.
type SpaceHandle uint32

// DimensionHandle identifies a dimension of a routing space.
type DimensionHandle uint32

// RegionHandle identifies a region created by a federate.
type RegionHandle uint32

// Reserved owner values. Ownership of an attribute is expressed as a
// FederateHandle; these two never identify a joined federate.
const (
	// Unowned marks an attribute that no federate owns.
	Unowned FederateHandle = 0

	// RTIOwned marks an attribute owned by the RTI itself (MOM attributes).
	RTIOwned FederateHandle = 0xFFFFFFFF
)

func (h FederateHandle) String() string {
	switch h {
	case Unowned:
		return "UNOWNED"
	case RTIOwned:
		return "RTI"
	}
	return strconv.FormatUint(uint64(h), 10)
}

// IsFederate reports whether h identifies a federate rather than a reserved
// owner value.
func (h FederateHandle) IsFederate() bool {
	return h != Unowned && h != RTIOwned
}

// ResignAction selects what happens to a federate's objects and attributes
// when it resigns.
type ResignAction uint8

const (
	// ReleaseAttributes divests every owned attribute unconditionally.
	ReleaseAttributes ResignAction = iota + 1

	// DeleteObjects deletes every object the federate may delete.
	DeleteObjects

	// DeleteObjectsAndReleaseAttributes deletes what it can and releases the rest.
	DeleteObjectsAndReleaseAttributes

	// NoAction requires the federate to own nothing.
	NoAction
)

// String returns the action name.
func (a ResignAction) String() string {
	switch a {
	case ReleaseAttributes:
		return "RELEASE_ATTRIBUTES"
	case DeleteObjects:
		return "DELETE_OBJECTS"
	case DeleteObjectsAndReleaseAttributes:
		return "DELETE_OBJECTS_AND_RELEASE_ATTRIBUTES"
	case NoAction:
		return "NO_ACTION"
	default:
		return "UNKNOWN"
	}
}

// IsValid reports whether a is a defined action.
func (a ResignAction) IsValid() bool {
	return a >= ReleaseAttributes && a <= NoAction
}

// OrderType is the delivery order of a message.
type OrderType uint8

const (
	// Receive order: delivered as it arrives.
	Receive OrderType = iota + 1

	// Timestamp order: delivered in logical time order under LBTS gating.
	Timestamp
)

// String returns the order name.
func (o OrderType) String() string {
	switch o {
	case Receive:
		return "RECEIVE"
	case Timestamp:
		return "TIMESTAMP"
	default:
		return "UNKNOWN"
	}
}
