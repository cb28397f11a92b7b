package wire

import (
	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/hla"
)

// CallbackKind identifies a federate ambassador callback.
type CallbackKind uint8

const (
	CallbackNone CallbackKind = iota

	// Federation management
	CallbackSynchronizationPointRegistrationSucceeded
	CallbackSynchronizationPointRegistrationFailed
	CallbackAnnounceSynchronizationPoint
	CallbackFederationSynchronized
	CallbackInitiateFederateSave
	CallbackFederationSaved
	CallbackFederationNotSaved
	CallbackRequestFederationRestoreSucceeded
	CallbackRequestFederationRestoreFailed
	CallbackFederationRestoreBegun
	CallbackInitiateFederateRestore
	CallbackFederationRestored
	CallbackFederationNotRestored

	// Declaration management
	CallbackStartRegistrationForObjectClass
	CallbackStopRegistrationForObjectClass
	CallbackTurnInteractionsOn
	CallbackTurnInteractionsOff

	// Object management
	CallbackDiscoverObjectInstance
	CallbackReflectAttributeValues
	CallbackReceiveInteraction
	CallbackRemoveObjectInstance
	CallbackProvideAttributeValueUpdate

	// Ownership management
	CallbackRequestAttributeOwnershipAssumption
	CallbackAttributeOwnershipDivestitureNotification
	CallbackAttributeOwnershipAcquisitionNotification
	CallbackAttributeOwnershipUnavailable
	CallbackRequestAttributeOwnershipRelease
	CallbackConfirmAttributeOwnershipAcquisitionCancellation
	CallbackInformAttributeOwnership
	CallbackAttributeIsNotOwned
	CallbackAttributeOwnedByRTI

	// Time management
	CallbackTimeRegulationEnabled
	CallbackTimeConstrainedEnabled
	CallbackTimeAdvanceGrant

)

var callbackNames = [...]string{
	CallbackNone:                                             "None",
	CallbackSynchronizationPointRegistrationSucceeded:        "synchronizationPointRegistrationSucceeded",
	CallbackSynchronizationPointRegistrationFailed:           "synchronizationPointRegistrationFailed",
	CallbackAnnounceSynchronizationPoint:                     "announceSynchronizationPoint",
	CallbackFederationSynchronized:                           "federationSynchronized",
	CallbackInitiateFederateSave:                             "initiateFederateSave",
	CallbackFederationSaved:                                  "federationSaved",
	CallbackFederationNotSaved:                               "federationNotSaved",
	CallbackRequestFederationRestoreSucceeded:                "requestFederationRestoreSucceeded",
	CallbackRequestFederationRestoreFailed:                   "requestFederationRestoreFailed",
	CallbackFederationRestoreBegun:                           "federationRestoreBegun",
	CallbackInitiateFederateRestore:                          "initiateFederateRestore",
	CallbackFederationRestored:                               "federationRestored",
	CallbackFederationNotRestored:                            "federationNotRestored",
	CallbackStartRegistrationForObjectClass:                  "startRegistrationForObjectClass",
	CallbackStopRegistrationForObjectClass:                   "stopRegistrationForObjectClass",
	CallbackTurnInteractionsOn:                               "turnInteractionsOn",
	CallbackTurnInteractionsOff:                              "turnInteractionsOff",
	CallbackDiscoverObjectInstance:                           "discoverObjectInstance",
	CallbackReflectAttributeValues:                           "reflectAttributeValues",
	CallbackReceiveInteraction:                               "receiveInteraction",
	CallbackRemoveObjectInstance:                             "removeObjectInstance",
	CallbackProvideAttributeValueUpdate:                      "provideAttributeValueUpdate",
	CallbackRequestAttributeOwnershipAssumption:              "requestAttributeOwnershipAssumption",
	CallbackAttributeOwnershipDivestitureNotification:        "attributeOwnershipDivestitureNotification",
	CallbackAttributeOwnershipAcquisitionNotification:        "attributeOwnershipAcquisitionNotification",
	CallbackAttributeOwnershipUnavailable:                    "attributeOwnershipUnavailable",
	CallbackRequestAttributeOwnershipRelease:                 "requestAttributeOwnershipRelease",
	CallbackConfirmAttributeOwnershipAcquisitionCancellation: "confirmAttributeOwnershipAcquisitionCancellation",
	CallbackInformAttributeOwnership:                         "informAttributeOwnership",
	CallbackAttributeIsNotOwned:                              "attributeIsNotOwned",
	CallbackAttributeOwnedByRTI:                              "attributeOwnedByRTI",
	CallbackTimeRegulationEnabled:                            "timeRegulationEnabled",
	CallbackTimeConstrainedEnabled:                           "timeConstrainedEnabled",
	CallbackTimeAdvanceGrant:                                 "timeAdvanceGrant",
}

// String returns the callback method name.
func (k CallbackKind) String() string {
	if int(k) < len(callbackNames) && callbackNames[k] != "" {
		return callbackNames[k]
	}
	return "unknown"
}

// IsMessage reports whether callbacks of this kind carry federate data
// (reflections, interactions and removals). Only those are subject to
// receive-order gating for constrained federates.
func (k CallbackKind) IsMessage() bool {
	switch k {
	case CallbackReflectAttributeValues, CallbackReceiveInteraction, CallbackRemoveObjectInstance:
		return true
	}
	return false
}

// Callback is one queued federate ambassador invocation. Each kind uses the
// fields its callback method takes.
type Callback struct {
	Kind             CallbackKind                `cbor:"1,keyasint"`
	Label            string                      `cbor:"2,keyasint,omitempty"`
	Tag              []byte                      `cbor:"3,keyasint,omitempty"`
	Federate         hla.FederateHandle          `cbor:"4,keyasint,omitempty"`
	ObjectClass      hla.ObjectClassHandle       `cbor:"5,keyasint,omitempty"`
	InteractionClass hla.InteractionClassHandle  `cbor:"6,keyasint,omitempty"`
	Object           hla.ObjectInstanceHandle    `cbor:"7,keyasint,omitempty"`
	Name             string                      `cbor:"8,keyasint,omitempty"`
	Attributes       []hla.AttributeHandle       `cbor:"9,keyasint,omitempty"`
	Values           hla.AttributeHandleValueMap `cbor:"10,keyasint,omitempty"`
	Parameters       hla.ParameterHandleValueMap `cbor:"11,keyasint,omitempty"`
	Time             *fedtime.Time               `cbor:"12,keyasint,omitempty"`
	Order            hla.OrderType               `cbor:"13,keyasint,omitempty"`
	Reason           string                      `cbor:"14,keyasint,omitempty"`
}

// AttributeSet returns Attributes as a set.
func (c *Callback) AttributeSet() hla.AttributeHandleSet {
	return hla.NewAttributeHandleSet(c.Attributes...)
}
