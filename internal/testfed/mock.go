package testfed

import (
	"github.com/stretchr/testify/mock"

	"github.com/openlvc/portico-sub003/pkg/ambassador"
	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/hla"
)

// MockFederateAmbassador is a testify mock of ambassador.FederateAmbassador.
type MockFederateAmbassador struct {
	mock.Mock
}

func (m *MockFederateAmbassador) SynchronizationPointRegistrationSucceeded(label string) {
	m.Called(label)
}

func (m *MockFederateAmbassador) SynchronizationPointRegistrationFailed(label, reason string) {
	m.Called(label, reason)
}

func (m *MockFederateAmbassador) AnnounceSynchronizationPoint(label string, tag []byte) {
	m.Called(label, tag)
}

func (m *MockFederateAmbassador) FederationSynchronized(label string) {
	m.Called(label)
}

func (m *MockFederateAmbassador) InitiateFederateSave(label string) {
	m.Called(label)
}

func (m *MockFederateAmbassador) FederationSaved(label string) {
	m.Called(label)
}

func (m *MockFederateAmbassador) FederationNotSaved(label, reason string) {
	m.Called(label, reason)
}

func (m *MockFederateAmbassador) RequestFederationRestoreSucceeded(label string) {
	m.Called(label)
}

func (m *MockFederateAmbassador) RequestFederationRestoreFailed(label, reason string) {
	m.Called(label, reason)
}

func (m *MockFederateAmbassador) FederationRestoreBegun() {
	m.Called()
}

func (m *MockFederateAmbassador) InitiateFederateRestore(label string, federate hla.FederateHandle) {
	m.Called(label, federate)
}

func (m *MockFederateAmbassador) FederationRestored(label string) {
	m.Called(label)
}

func (m *MockFederateAmbassador) FederationNotRestored(label, reason string) {
	m.Called(label, reason)
}

func (m *MockFederateAmbassador) StartRegistrationForObjectClass(class hla.ObjectClassHandle) {
	m.Called(class)
}

func (m *MockFederateAmbassador) StopRegistrationForObjectClass(class hla.ObjectClassHandle) {
	m.Called(class)
}

func (m *MockFederateAmbassador) TurnInteractionsOn(class hla.InteractionClassHandle) {
	m.Called(class)
}

func (m *MockFederateAmbassador) TurnInteractionsOff(class hla.InteractionClassHandle) {
	m.Called(class)
}

func (m *MockFederateAmbassador) DiscoverObjectInstance(object hla.ObjectInstanceHandle, class hla.ObjectClassHandle, name string) {
	m.Called(object, class, name)
}

func (m *MockFederateAmbassador) ReflectAttributeValues(object hla.ObjectInstanceHandle, values hla.AttributeHandleValueMap, tag []byte, order hla.OrderType, t *fedtime.Time) {
	m.Called(object, values, tag, order, t)
}

func (m *MockFederateAmbassador) ReceiveInteraction(class hla.InteractionClassHandle, params hla.ParameterHandleValueMap, tag []byte, order hla.OrderType, t *fedtime.Time) {
	m.Called(class, params, tag, order, t)
}

func (m *MockFederateAmbassador) RemoveObjectInstance(object hla.ObjectInstanceHandle, tag []byte, order hla.OrderType, t *fedtime.Time) {
	m.Called(object, tag, order, t)
}

func (m *MockFederateAmbassador) ProvideAttributeValueUpdate(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) {
	m.Called(object, attrs)
}

func (m *MockFederateAmbassador) RequestAttributeOwnershipAssumption(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet, tag []byte) {
	m.Called(object, attrs, tag)
}

func (m *MockFederateAmbassador) AttributeOwnershipDivestitureNotification(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) {
	m.Called(object, attrs)
}

func (m *MockFederateAmbassador) AttributeOwnershipAcquisitionNotification(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) {
	m.Called(object, attrs)
}

func (m *MockFederateAmbassador) AttributeOwnershipUnavailable(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) {
	m.Called(object, attrs)
}

func (m *MockFederateAmbassador) RequestAttributeOwnershipRelease(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet, tag []byte) {
	m.Called(object, attrs, tag)
}

func (m *MockFederateAmbassador) ConfirmAttributeOwnershipAcquisitionCancellation(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) {
	m.Called(object, attrs)
}

func (m *MockFederateAmbassador) InformAttributeOwnership(object hla.ObjectInstanceHandle, attr hla.AttributeHandle, owner hla.FederateHandle) {
	m.Called(object, attr, owner)
}

func (m *MockFederateAmbassador) AttributeIsNotOwned(object hla.ObjectInstanceHandle, attr hla.AttributeHandle) {
	m.Called(object, attr)
}

func (m *MockFederateAmbassador) AttributeOwnedByRTI(object hla.ObjectInstanceHandle, attr hla.AttributeHandle) {
	m.Called(object, attr)
}

func (m *MockFederateAmbassador) TimeRegulationEnabled(t fedtime.Time) {
	m.Called(t)
}

func (m *MockFederateAmbassador) TimeConstrainedEnabled(t fedtime.Time) {
	m.Called(t)
}

func (m *MockFederateAmbassador) TimeAdvanceGrant(t fedtime.Time) {
	m.Called(t)
}

var _ ambassador.FederateAmbassador = (*MockFederateAmbassador)(nil)
