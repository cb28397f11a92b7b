package ambassador

import (
	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

// FederateAmbassador receives the callbacks of one federate. Callbacks only
// run inside Tick or TickFor, on the goroutine that called it.
type FederateAmbassador interface {
	// Federation management
	SynchronizationPointRegistrationSucceeded(label string)
	SynchronizationPointRegistrationFailed(label, reason string)
	AnnounceSynchronizationPoint(label string, tag []byte)
	FederationSynchronized(label string)
	InitiateFederateSave(label string)
	FederationSaved(label string)
	FederationNotSaved(label, reason string)
	RequestFederationRestoreSucceeded(label string)
	RequestFederationRestoreFailed(label, reason string)
	FederationRestoreBegun()
	InitiateFederateRestore(label string, federate hla.FederateHandle)
	FederationRestored(label string)
	FederationNotRestored(label, reason string)

	// Declaration management
	StartRegistrationForObjectClass(class hla.ObjectClassHandle)
	StopRegistrationForObjectClass(class hla.ObjectClassHandle)
	TurnInteractionsOn(class hla.InteractionClassHandle)
	TurnInteractionsOff(class hla.InteractionClassHandle)

	// Object management. The time of a message is nil when it was sent
	// without one.
	DiscoverObjectInstance(object hla.ObjectInstanceHandle, class hla.ObjectClassHandle, name string)
	ReflectAttributeValues(object hla.ObjectInstanceHandle, values hla.AttributeHandleValueMap, tag []byte, order hla.OrderType, t *fedtime.Time)
	ReceiveInteraction(class hla.InteractionClassHandle, params hla.ParameterHandleValueMap, tag []byte, order hla.OrderType, t *fedtime.Time)
	RemoveObjectInstance(object hla.ObjectInstanceHandle, tag []byte, order hla.OrderType, t *fedtime.Time)
	ProvideAttributeValueUpdate(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet)

	// Ownership management
	RequestAttributeOwnershipAssumption(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet, tag []byte)
	AttributeOwnershipDivestitureNotification(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet)
	AttributeOwnershipAcquisitionNotification(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet)
	AttributeOwnershipUnavailable(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet)
	RequestAttributeOwnershipRelease(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet, tag []byte)
	ConfirmAttributeOwnershipAcquisitionCancellation(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet)
	InformAttributeOwnership(object hla.ObjectInstanceHandle, attr hla.AttributeHandle, owner hla.FederateHandle)
	AttributeIsNotOwned(object hla.ObjectInstanceHandle, attr hla.AttributeHandle)
	AttributeOwnedByRTI(object hla.ObjectInstanceHandle, attr hla.AttributeHandle)

	// Time management
	TimeRegulationEnabled(t fedtime.Time)
	TimeConstrainedEnabled(t fedtime.Time)
	TimeAdvanceGrant(t fedtime.Time)
}

// NullFederateAmbassador ignores every callback. Embed it to implement only
// the callbacks a federate cares about.
type NullFederateAmbassador struct{}

func (NullFederateAmbassador) SynchronizationPointRegistrationSucceeded(string)            {}
func (NullFederateAmbassador) SynchronizationPointRegistrationFailed(string, string)       {}
func (NullFederateAmbassador) AnnounceSynchronizationPoint(string, []byte)                 {}
func (NullFederateAmbassador) FederationSynchronized(string)                               {}
func (NullFederateAmbassador) InitiateFederateSave(string)                                 {}
func (NullFederateAmbassador) FederationSaved(string)                                      {}
func (NullFederateAmbassador) FederationNotSaved(string, string)                           {}
func (NullFederateAmbassador) RequestFederationRestoreSucceeded(string)                    {}
func (NullFederateAmbassador) RequestFederationRestoreFailed(string, string)               {}
func (NullFederateAmbassador) FederationRestoreBegun()                                     {}
func (NullFederateAmbassador) InitiateFederateRestore(string, hla.FederateHandle)          {}
func (NullFederateAmbassador) FederationRestored(string)                                   {}
func (NullFederateAmbassador) FederationNotRestored(string, string)                        {}
func (NullFederateAmbassador) StartRegistrationForObjectClass(hla.ObjectClassHandle)       {}
func (NullFederateAmbassador) StopRegistrationForObjectClass(hla.ObjectClassHandle)        {}
func (NullFederateAmbassador) TurnInteractionsOn(hla.InteractionClassHandle)               {}
func (NullFederateAmbassador) TurnInteractionsOff(hla.InteractionClassHandle)              {}
func (NullFederateAmbassador) DiscoverObjectInstance(hla.ObjectInstanceHandle, hla.ObjectClassHandle, string) {
}
func (NullFederateAmbassador) ReflectAttributeValues(hla.ObjectInstanceHandle, hla.AttributeHandleValueMap, []byte, hla.OrderType, *fedtime.Time) {
}
func (NullFederateAmbassador) ReceiveInteraction(hla.InteractionClassHandle, hla.ParameterHandleValueMap, []byte, hla.OrderType, *fedtime.Time) {
}
func (NullFederateAmbassador) RemoveObjectInstance(hla.ObjectInstanceHandle, []byte, hla.OrderType, *fedtime.Time) {
}
func (NullFederateAmbassador) ProvideAttributeValueUpdate(hla.ObjectInstanceHandle, hla.AttributeHandleSet) {
}
func (NullFederateAmbassador) RequestAttributeOwnershipAssumption(hla.ObjectInstanceHandle, hla.AttributeHandleSet, []byte) {
}
func (NullFederateAmbassador) AttributeOwnershipDivestitureNotification(hla.ObjectInstanceHandle, hla.AttributeHandleSet) {
}
func (NullFederateAmbassador) AttributeOwnershipAcquisitionNotification(hla.ObjectInstanceHandle, hla.AttributeHandleSet) {
}
func (NullFederateAmbassador) AttributeOwnershipUnavailable(hla.ObjectInstanceHandle, hla.AttributeHandleSet) {
}
func (NullFederateAmbassador) RequestAttributeOwnershipRelease(hla.ObjectInstanceHandle, hla.AttributeHandleSet, []byte) {
}
func (NullFederateAmbassador) ConfirmAttributeOwnershipAcquisitionCancellation(hla.ObjectInstanceHandle, hla.AttributeHandleSet) {
}
func (NullFederateAmbassador) InformAttributeOwnership(hla.ObjectInstanceHandle, hla.AttributeHandle, hla.FederateHandle) {
}
func (NullFederateAmbassador) AttributeIsNotOwned(hla.ObjectInstanceHandle, hla.AttributeHandle)  {}
func (NullFederateAmbassador) AttributeOwnedByRTI(hla.ObjectInstanceHandle, hla.AttributeHandle)  {}
func (NullFederateAmbassador) TimeRegulationEnabled(fedtime.Time)                                 {}
func (NullFederateAmbassador) TimeConstrainedEnabled(fedtime.Time)                                {}
func (NullFederateAmbassador) TimeAdvanceGrant(fedtime.Time)                                      {}

var _ FederateAmbassador = NullFederateAmbassador{}

// Dispatch invokes the callback method cb stands for.
func Dispatch(fa FederateAmbassador, cb *wire.Callback) {
	switch cb.Kind {
	case wire.CallbackSynchronizationPointRegistrationSucceeded:
		fa.SynchronizationPointRegistrationSucceeded(cb.Label)
	case wire.CallbackSynchronizationPointRegistrationFailed:
		fa.SynchronizationPointRegistrationFailed(cb.Label, cb.Reason)
	case wire.CallbackAnnounceSynchronizationPoint:
		fa.AnnounceSynchronizationPoint(cb.Label, cb.Tag)
	case wire.CallbackFederationSynchronized:
		fa.FederationSynchronized(cb.Label)
	case wire.CallbackInitiateFederateSave:
		fa.InitiateFederateSave(cb.Label)
	case wire.CallbackFederationSaved:
		fa.FederationSaved(cb.Label)
	case wire.CallbackFederationNotSaved:
		fa.FederationNotSaved(cb.Label, cb.Reason)
	case wire.CallbackRequestFederationRestoreSucceeded:
		fa.RequestFederationRestoreSucceeded(cb.Label)
	case wire.CallbackRequestFederationRestoreFailed:
		fa.RequestFederationRestoreFailed(cb.Label, cb.Reason)
	case wire.CallbackFederationRestoreBegun:
		fa.FederationRestoreBegun()
	case wire.CallbackInitiateFederateRestore:
		fa.InitiateFederateRestore(cb.Label, cb.Federate)
	case wire.CallbackFederationRestored:
		fa.FederationRestored(cb.Label)
	case wire.CallbackFederationNotRestored:
		fa.FederationNotRestored(cb.Label, cb.Reason)

	case wire.CallbackStartRegistrationForObjectClass:
		fa.StartRegistrationForObjectClass(cb.ObjectClass)
	case wire.CallbackStopRegistrationForObjectClass:
		fa.StopRegistrationForObjectClass(cb.ObjectClass)
	case wire.CallbackTurnInteractionsOn:
		fa.TurnInteractionsOn(cb.InteractionClass)
	case wire.CallbackTurnInteractionsOff:
		fa.TurnInteractionsOff(cb.InteractionClass)

	case wire.CallbackDiscoverObjectInstance:
		fa.DiscoverObjectInstance(cb.Object, cb.ObjectClass, cb.Name)
	case wire.CallbackReflectAttributeValues:
		fa.ReflectAttributeValues(cb.Object, cb.Values, cb.Tag, orderOf(cb), cb.Time)
	case wire.CallbackReceiveInteraction:
		fa.ReceiveInteraction(cb.InteractionClass, cb.Parameters, cb.Tag, orderOf(cb), cb.Time)
	case wire.CallbackRemoveObjectInstance:
		fa.RemoveObjectInstance(cb.Object, cb.Tag, orderOf(cb), cb.Time)
	case wire.CallbackProvideAttributeValueUpdate:
		fa.ProvideAttributeValueUpdate(cb.Object, cb.AttributeSet())

	case wire.CallbackRequestAttributeOwnershipAssumption:
		fa.RequestAttributeOwnershipAssumption(cb.Object, cb.AttributeSet(), cb.Tag)
	case wire.CallbackAttributeOwnershipDivestitureNotification:
		fa.AttributeOwnershipDivestitureNotification(cb.Object, cb.AttributeSet())
	case wire.CallbackAttributeOwnershipAcquisitionNotification:
		fa.AttributeOwnershipAcquisitionNotification(cb.Object, cb.AttributeSet())
	case wire.CallbackAttributeOwnershipUnavailable:
		fa.AttributeOwnershipUnavailable(cb.Object, cb.AttributeSet())
	case wire.CallbackRequestAttributeOwnershipRelease:
		fa.RequestAttributeOwnershipRelease(cb.Object, cb.AttributeSet(), cb.Tag)
	case wire.CallbackConfirmAttributeOwnershipAcquisitionCancellation:
		fa.ConfirmAttributeOwnershipAcquisitionCancellation(cb.Object, cb.AttributeSet())
	case wire.CallbackInformAttributeOwnership:
		for _, a := range cb.Attributes {
			fa.InformAttributeOwnership(cb.Object, a, cb.Federate)
		}
	case wire.CallbackAttributeIsNotOwned:
		for _, a := range cb.Attributes {
			fa.AttributeIsNotOwned(cb.Object, a)
		}
	case wire.CallbackAttributeOwnedByRTI:
		for _, a := range cb.Attributes {
			fa.AttributeOwnedByRTI(cb.Object, a)
		}

	case wire.CallbackTimeRegulationEnabled:
		fa.TimeRegulationEnabled(timeOf(cb))
	case wire.CallbackTimeConstrainedEnabled:
		fa.TimeConstrainedEnabled(timeOf(cb))
	case wire.CallbackTimeAdvanceGrant:
		fa.TimeAdvanceGrant(timeOf(cb))
	}
}

func orderOf(cb *wire.Callback) hla.OrderType {
	if cb.Order == 0 {
		return hla.Receive
	}
	return cb.Order
}

func timeOf(cb *wire.Callback) fedtime.Time {
	if cb.Time == nil {
		return fedtime.Zero
	}
	return *cb.Time
}
