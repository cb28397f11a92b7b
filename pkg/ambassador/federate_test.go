package ambassador_test

import (
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/openlvc/portico-sub003/internal/testfed"
	"github.com/openlvc/portico-sub003/pkg/ambassador"
	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

func TestDispatchFederationCallbacks(t *testing.T) {
	fa := new(testfed.MockFederateAmbassador)
	fa.On("AnnounceSynchronizationPoint", "ready", []byte("go")).Once()
	fa.On("SynchronizationPointRegistrationFailed", "ready", "label in use").Once()
	fa.On("InitiateFederateRestore", "s1", hla.FederateHandle(4)).Once()
	fa.On("FederationRestoreBegun").Once()

	ambassador.Dispatch(fa, &wire.Callback{Kind: wire.CallbackAnnounceSynchronizationPoint, Label: "ready", Tag: []byte("go")})
	ambassador.Dispatch(fa, &wire.Callback{Kind: wire.CallbackSynchronizationPointRegistrationFailed, Label: "ready", Reason: "label in use"})
	ambassador.Dispatch(fa, &wire.Callback{Kind: wire.CallbackInitiateFederateRestore, Label: "s1", Federate: 4})
	ambassador.Dispatch(fa, &wire.Callback{Kind: wire.CallbackFederationRestoreBegun})

	fa.AssertExpectations(t)
}

func TestDispatchDefaultsOrderAndTime(t *testing.T) {
	fa := new(testfed.MockFederateAmbassador)
	values := hla.AttributeHandleValueMap{3: []byte("x")}
	stamp := fedtime.Time(4.5)

	fa.On("ReflectAttributeValues", hla.ObjectInstanceHandle(7), values, []byte("t"), hla.Receive, (*fedtime.Time)(nil)).Once()
	fa.On("ReceiveInteraction", hla.InteractionClassHandle(2), mock.Anything, []byte(nil), hla.Timestamp, &stamp).Once()
	fa.On("TimeAdvanceGrant", fedtime.Zero).Once()

	ambassador.Dispatch(fa, &wire.Callback{Kind: wire.CallbackReflectAttributeValues, Object: 7, Values: values, Tag: []byte("t")})
	ambassador.Dispatch(fa, &wire.Callback{Kind: wire.CallbackReceiveInteraction, InteractionClass: 2, Order: hla.Timestamp, Time: &stamp})
	ambassador.Dispatch(fa, &wire.Callback{Kind: wire.CallbackTimeAdvanceGrant})

	fa.AssertExpectations(t)
}

func TestDispatchOwnershipReportsPerAttribute(t *testing.T) {
	fa := new(testfed.MockFederateAmbassador)
	fa.On("InformAttributeOwnership", hla.ObjectInstanceHandle(9), hla.AttributeHandle(1), hla.FederateHandle(2)).Once()
	fa.On("InformAttributeOwnership", hla.ObjectInstanceHandle(9), hla.AttributeHandle(5), hla.FederateHandle(2)).Once()
	fa.On("AttributeOwnedByRTI", hla.ObjectInstanceHandle(9), hla.AttributeHandle(6)).Once()
	fa.On("AttributeOwnershipAcquisitionNotification", hla.ObjectInstanceHandle(9), hla.NewAttributeHandleSet(1, 5)).Once()

	ambassador.Dispatch(fa, &wire.Callback{Kind: wire.CallbackInformAttributeOwnership, Object: 9, Federate: 2, Attributes: []hla.AttributeHandle{1, 5}})
	ambassador.Dispatch(fa, &wire.Callback{Kind: wire.CallbackAttributeOwnedByRTI, Object: 9, Attributes: []hla.AttributeHandle{6}})
	ambassador.Dispatch(fa, &wire.Callback{Kind: wire.CallbackAttributeOwnershipAcquisitionNotification, Object: 9, Attributes: []hla.AttributeHandle{5, 1}})

	fa.AssertExpectations(t)
}

func TestDispatchIgnoresUnknownKinds(t *testing.T) {
	fa := new(testfed.MockFederateAmbassador)
	ambassador.Dispatch(fa, &wire.Callback{Kind: wire.CallbackNone})
	fa.AssertNotCalled(t, "TimeAdvanceGrant", mock.Anything)
}
