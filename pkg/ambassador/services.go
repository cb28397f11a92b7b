package ambassador

import (
	"context"

	"github.com/openlvc/portico-sub003/pkg/ddm"
	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/fom"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

func (a *RTIAmbassador) do(ctx context.Context, op wire.Op, args wire.Args) error {
	_, err := a.call(ctx, op, args)
	return err
}

// --- Federation management ---

// CreateFederationExecution creates a federation execution from the FOM file
// at fomPath.
func (a *RTIAmbassador) CreateFederationExecution(ctx context.Context, name, fomPath string) error {
	model, err := fom.Load(fomPath)
	if err != nil {
		return err
	}
	return a.CreateFederationExecutionFromDocument(ctx, name, &model.Document)
}

// CreateFederationExecutionFromDocument creates a federation execution from
// an in-memory FOM.
func (a *RTIAmbassador) CreateFederationExecutionFromDocument(ctx context.Context, name string, doc *fom.Document) error {
	_, err := a.send(ctx, name, 0, wire.OpCreateFederationExecution, wire.Args{FOM: doc})
	return err
}

// DestroyFederationExecution destroys an empty federation execution.
func (a *RTIAmbassador) DestroyFederationExecution(ctx context.Context, name string) error {
	_, err := a.send(ctx, name, 0, wire.OpDestroyFederationExecution, wire.Args{})
	return err
}

// JoinFederationExecution joins federation as a federate of fedType. fa
// receives every callback delivered by Tick.
func (a *RTIAmbassador) JoinFederationExecution(ctx context.Context, fedType, federation string, fa FederateAmbassador) (hla.FederateHandle, error) {
	return a.JoinFederationExecutionNamed(ctx, "", fedType, federation, fa)
}

// JoinFederationExecutionNamed joins with a federate name, which appears in
// the management object model.
func (a *RTIAmbassador) JoinFederationExecutionNamed(ctx context.Context, name, fedType, federation string, fa FederateAmbassador) (hla.FederateHandle, error) {
	if fa == nil {
		fa = NullFederateAmbassador{}
	}
	a.mu.RLock()
	joined := a.federate
	a.mu.RUnlock()
	if joined != 0 {
		return 0, rtierr.Errorf(rtierr.FederateAlreadyExecutionMember, "already joined as %s", joined)
	}

	r, err := a.send(ctx, federation, 0, wire.OpJoinFederationExecution, wire.Args{FederateType: fedType, Name: name})
	if err != nil {
		return 0, err
	}
	if r.FOM == nil {
		return 0, rtierr.New(rtierr.RTIinternalError, "join reply carries no FOM")
	}
	model, err := fom.Build(*r.FOM)
	if err != nil {
		return 0, rtierr.Internal(err)
	}

	a.mu.Lock()
	a.federation = federation
	a.federate = r.Federate
	a.executionID = r.ExecutionID
	a.model = model
	a.fedAmb = fa
	a.mu.Unlock()

	a.logger.Info("joined federation", "federation", federation, "federate", r.Federate, "type", fedType)
	return r.Federate, nil
}

// ResignFederationExecution leaves the federation.
func (a *RTIAmbassador) ResignFederationExecution(ctx context.Context, action hla.ResignAction) error {
	if err := a.do(ctx, wire.OpResignFederationExecution, wire.Args{Action: action}); err != nil {
		return err
	}
	a.mu.Lock()
	a.logger.Info("resigned", "federation", a.federation, "federate", a.federate, "action", action.String())
	a.federation, a.federate, a.executionID = "", 0, ""
	a.model, a.fedAmb = nil, nil
	a.mu.Unlock()
	return nil
}

// RegisterFederationSynchronizationPoint registers label. With no federates
// every joined federate is a target.
func (a *RTIAmbassador) RegisterFederationSynchronizationPoint(ctx context.Context, label string, tag []byte, federates ...hla.FederateHandle) error {
	return a.do(ctx, wire.OpRegisterFederationSynchronizationPoint, wire.Args{Label: label, Tag: tag, Federates: federates})
}

// SynchronizationPointAchieved reports that this federate reached label.
func (a *RTIAmbassador) SynchronizationPointAchieved(ctx context.Context, label string) error {
	return a.do(ctx, wire.OpSynchronizationPointAchieved, wire.Args{Label: label})
}

// RequestFederationSave asks every federate to save under label.
func (a *RTIAmbassador) RequestFederationSave(ctx context.Context, label string) error {
	return a.do(ctx, wire.OpRequestFederationSave, wire.Args{Label: label})
}

// FederateSaveBegun reports that this federate started saving.
func (a *RTIAmbassador) FederateSaveBegun(ctx context.Context) error {
	return a.do(ctx, wire.OpFederateSaveBegun, wire.Args{})
}

// FederateSaveComplete reports a successful local save.
func (a *RTIAmbassador) FederateSaveComplete(ctx context.Context) error {
	return a.do(ctx, wire.OpFederateSaveComplete, wire.Args{})
}

// FederateSaveNotComplete reports a failed local save.
func (a *RTIAmbassador) FederateSaveNotComplete(ctx context.Context) error {
	return a.do(ctx, wire.OpFederateSaveNotComplete, wire.Args{})
}

// RequestFederationRestore asks the RTI to restore the save labelled label.
func (a *RTIAmbassador) RequestFederationRestore(ctx context.Context, label string) error {
	return a.do(ctx, wire.OpRequestFederationRestore, wire.Args{Label: label})
}

// FederateRestoreComplete reports a successful local restore.
func (a *RTIAmbassador) FederateRestoreComplete(ctx context.Context) error {
	return a.do(ctx, wire.OpFederateRestoreComplete, wire.Args{})
}

// FederateRestoreNotComplete reports a failed local restore.
func (a *RTIAmbassador) FederateRestoreNotComplete(ctx context.Context) error {
	return a.do(ctx, wire.OpFederateRestoreNotComplete, wire.Args{})
}

// --- Declaration management ---

// PublishObjectClass publishes exactly attrs of class. An empty set
// unpublishes the class.
func (a *RTIAmbassador) PublishObjectClass(ctx context.Context, class hla.ObjectClassHandle, attrs hla.AttributeHandleSet) error {
	return a.do(ctx, wire.OpPublishObjectClass, wire.Args{ObjectClass: class, Attributes: attrs.Sorted()})
}

// UnpublishObjectClass withdraws the publication of class.
func (a *RTIAmbassador) UnpublishObjectClass(ctx context.Context, class hla.ObjectClassHandle) error {
	return a.do(ctx, wire.OpUnpublishObjectClass, wire.Args{ObjectClass: class})
}

// PublishInteractionClass publishes class.
func (a *RTIAmbassador) PublishInteractionClass(ctx context.Context, class hla.InteractionClassHandle) error {
	return a.do(ctx, wire.OpPublishInteractionClass, wire.Args{InteractionClass: class})
}

// UnpublishInteractionClass withdraws the publication of class.
func (a *RTIAmbassador) UnpublishInteractionClass(ctx context.Context, class hla.InteractionClassHandle) error {
	return a.do(ctx, wire.OpUnpublishInteractionClass, wire.Args{InteractionClass: class})
}

// SubscribeObjectClassAttributes subscribes to exactly attrs of class. A
// passive subscription does not trigger registration advisories.
func (a *RTIAmbassador) SubscribeObjectClassAttributes(ctx context.Context, class hla.ObjectClassHandle, attrs hla.AttributeHandleSet, active bool) error {
	return a.do(ctx, wire.OpSubscribeObjectClassAttributes, wire.Args{ObjectClass: class, Attributes: attrs.Sorted(), Active: active})
}

// UnsubscribeObjectClass withdraws the subscription to class.
func (a *RTIAmbassador) UnsubscribeObjectClass(ctx context.Context, class hla.ObjectClassHandle) error {
	return a.do(ctx, wire.OpUnsubscribeObjectClass, wire.Args{ObjectClass: class})
}

// SubscribeInteractionClass subscribes to class.
func (a *RTIAmbassador) SubscribeInteractionClass(ctx context.Context, class hla.InteractionClassHandle, active bool) error {
	return a.do(ctx, wire.OpSubscribeInteractionClass, wire.Args{InteractionClass: class, Active: active})
}

// UnsubscribeInteractionClass withdraws the subscription to class.
func (a *RTIAmbassador) UnsubscribeInteractionClass(ctx context.Context, class hla.InteractionClassHandle) error {
	return a.do(ctx, wire.OpUnsubscribeInteractionClass, wire.Args{InteractionClass: class})
}

// SubscribeObjectClassAttributesWithRegion subscribes to attrs of class
// within region.
func (a *RTIAmbassador) SubscribeObjectClassAttributesWithRegion(ctx context.Context, class hla.ObjectClassHandle, region hla.RegionHandle, attrs hla.AttributeHandleSet, active bool) error {
	return a.do(ctx, wire.OpSubscribeObjectClassAttributesWithRegion, wire.Args{
		ObjectClass: class,
		Region:      region,
		Attributes:  attrs.Sorted(),
		Active:      active,
	})
}

// UnsubscribeObjectClassWithRegion removes region from the subscription to
// class.
func (a *RTIAmbassador) UnsubscribeObjectClassWithRegion(ctx context.Context, class hla.ObjectClassHandle, region hla.RegionHandle) error {
	return a.do(ctx, wire.OpUnsubscribeObjectClassWithRegion, wire.Args{ObjectClass: class, Region: region})
}

// SubscribeInteractionClassWithRegion subscribes to class within region.
func (a *RTIAmbassador) SubscribeInteractionClassWithRegion(ctx context.Context, class hla.InteractionClassHandle, region hla.RegionHandle, active bool) error {
	return a.do(ctx, wire.OpSubscribeInteractionClassWithRegion, wire.Args{InteractionClass: class, Region: region, Active: active})
}

// UnsubscribeInteractionClassWithRegion removes region from the
// subscription to class.
func (a *RTIAmbassador) UnsubscribeInteractionClassWithRegion(ctx context.Context, class hla.InteractionClassHandle, region hla.RegionHandle) error {
	return a.do(ctx, wire.OpUnsubscribeInteractionClassWithRegion, wire.Args{InteractionClass: class, Region: region})
}

// --- Object management ---

// RegisterObjectInstance registers an object of class. An empty name lets
// the RTI pick one.
func (a *RTIAmbassador) RegisterObjectInstance(ctx context.Context, class hla.ObjectClassHandle, name string) (hla.ObjectInstanceHandle, error) {
	r, err := a.call(ctx, wire.OpRegisterObjectInstance, wire.Args{ObjectClass: class, Name: name})
	return r.Object, err
}

// RegisterObjectInstanceWithRegion registers an object and associates
// attrs[i] with regions[i].
func (a *RTIAmbassador) RegisterObjectInstanceWithRegion(ctx context.Context, class hla.ObjectClassHandle, name string, attrs []hla.AttributeHandle, regions []hla.RegionHandle) (hla.ObjectInstanceHandle, error) {
	r, err := a.call(ctx, wire.OpRegisterObjectInstanceWithRegion, wire.Args{
		ObjectClass: class,
		Name:        name,
		Attributes:  attrs,
		Regions:     regions,
	})
	return r.Object, err
}

// UpdateAttributeValues sends new values in receive order.
func (a *RTIAmbassador) UpdateAttributeValues(ctx context.Context, object hla.ObjectInstanceHandle, values hla.AttributeHandleValueMap, tag []byte) error {
	return a.do(ctx, wire.OpUpdateAttributeValues, wire.Args{Object: object, Values: values, Tag: tag})
}

// UpdateAttributeValuesWithTime sends new values stamped with t.
func (a *RTIAmbassador) UpdateAttributeValuesWithTime(ctx context.Context, object hla.ObjectInstanceHandle, values hla.AttributeHandleValueMap, tag []byte, t fedtime.Time) error {
	return a.do(ctx, wire.OpUpdateAttributeValues, wire.Args{Object: object, Values: values, Tag: tag, Time: &t})
}

// SendInteraction sends an interaction in receive order.
func (a *RTIAmbassador) SendInteraction(ctx context.Context, class hla.InteractionClassHandle, params hla.ParameterHandleValueMap, tag []byte) error {
	return a.do(ctx, wire.OpSendInteraction, wire.Args{InteractionClass: class, Parameters: params, Tag: tag})
}

// SendInteractionWithTime sends an interaction stamped with t.
func (a *RTIAmbassador) SendInteractionWithTime(ctx context.Context, class hla.InteractionClassHandle, params hla.ParameterHandleValueMap, tag []byte, t fedtime.Time) error {
	return a.do(ctx, wire.OpSendInteraction, wire.Args{InteractionClass: class, Parameters: params, Tag: tag, Time: &t})
}

// SendInteractionWithRegion sends an interaction to subscribers whose
// regions overlap region.
func (a *RTIAmbassador) SendInteractionWithRegion(ctx context.Context, class hla.InteractionClassHandle, params hla.ParameterHandleValueMap, tag []byte, region hla.RegionHandle) error {
	return a.do(ctx, wire.OpSendInteractionWithRegion, wire.Args{InteractionClass: class, Parameters: params, Tag: tag, Region: region})
}

// DeleteObjectInstance deletes an object this federate may delete.
func (a *RTIAmbassador) DeleteObjectInstance(ctx context.Context, object hla.ObjectInstanceHandle, tag []byte) error {
	return a.do(ctx, wire.OpDeleteObjectInstance, wire.Args{Object: object, Tag: tag})
}

// DeleteObjectInstanceWithTime deletes an object at t.
func (a *RTIAmbassador) DeleteObjectInstanceWithTime(ctx context.Context, object hla.ObjectInstanceHandle, tag []byte, t fedtime.Time) error {
	return a.do(ctx, wire.OpDeleteObjectInstance, wire.Args{Object: object, Tag: tag, Time: &t})
}

// LocalDeleteObjectInstance forgets a discovered object.
func (a *RTIAmbassador) LocalDeleteObjectInstance(ctx context.Context, object hla.ObjectInstanceHandle) error {
	return a.do(ctx, wire.OpLocalDeleteObjectInstance, wire.Args{Object: object})
}

// RequestObjectAttributeValueUpdate asks the owners of attrs to provide
// their values.
func (a *RTIAmbassador) RequestObjectAttributeValueUpdate(ctx context.Context, object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) error {
	return a.do(ctx, wire.OpRequestObjectAttributeValueUpdate, wire.Args{Object: object, Attributes: attrs.Sorted()})
}

// RequestClassAttributeValueUpdate asks for attrs of every object of class.
func (a *RTIAmbassador) RequestClassAttributeValueUpdate(ctx context.Context, class hla.ObjectClassHandle, attrs hla.AttributeHandleSet) error {
	return a.do(ctx, wire.OpRequestClassAttributeValueUpdate, wire.Args{ObjectClass: class, Attributes: attrs.Sorted()})
}

// GetObjectInstanceName returns the name of object.
func (a *RTIAmbassador) GetObjectInstanceName(ctx context.Context, object hla.ObjectInstanceHandle) (string, error) {
	r, err := a.call(ctx, wire.OpGetObjectInstanceName, wire.Args{Object: object})
	return r.Name, err
}

// GetObjectInstanceHandle returns the object called name.
func (a *RTIAmbassador) GetObjectInstanceHandle(ctx context.Context, name string) (hla.ObjectInstanceHandle, error) {
	r, err := a.call(ctx, wire.OpGetObjectInstanceHandle, wire.Args{Name: name})
	return r.Object, err
}

// GetKnownObjectClass returns the class this federate knows object as.
func (a *RTIAmbassador) GetKnownObjectClass(ctx context.Context, object hla.ObjectInstanceHandle) (hla.ObjectClassHandle, error) {
	r, err := a.call(ctx, wire.OpGetKnownObjectClass, wire.Args{Object: object})
	return r.ObjectClass, err
}

// --- Ownership management ---

// UnconditionalAttributeOwnershipDivestiture gives up attrs at once.
func (a *RTIAmbassador) UnconditionalAttributeOwnershipDivestiture(ctx context.Context, object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) error {
	return a.do(ctx, wire.OpUnconditionalAttributeOwnershipDivestiture, wire.Args{Object: object, Attributes: attrs.Sorted()})
}

// NegotiatedAttributeOwnershipDivestiture offers attrs to other federates.
func (a *RTIAmbassador) NegotiatedAttributeOwnershipDivestiture(ctx context.Context, object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet, tag []byte) error {
	return a.do(ctx, wire.OpNegotiatedAttributeOwnershipDivestiture, wire.Args{Object: object, Attributes: attrs.Sorted(), Tag: tag})
}

// AttributeOwnershipAcquisition asks for attrs, requesting release from
// their owners if needed.
func (a *RTIAmbassador) AttributeOwnershipAcquisition(ctx context.Context, object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet, tag []byte) error {
	return a.do(ctx, wire.OpAttributeOwnershipAcquisition, wire.Args{Object: object, Attributes: attrs.Sorted(), Tag: tag})
}

// AttributeOwnershipAcquisitionIfAvailable takes attrs only if nobody owns
// them or their owner is divesting.
func (a *RTIAmbassador) AttributeOwnershipAcquisitionIfAvailable(ctx context.Context, object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) error {
	return a.do(ctx, wire.OpAttributeOwnershipAcquisitionIfAvailable, wire.Args{Object: object, Attributes: attrs.Sorted()})
}

// AttributeOwnershipReleaseResponse releases the requested attributes among
// attrs and returns the ones actually released.
func (a *RTIAmbassador) AttributeOwnershipReleaseResponse(ctx context.Context, object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) (hla.AttributeHandleSet, error) {
	r, err := a.call(ctx, wire.OpAttributeOwnershipReleaseResponse, wire.Args{Object: object, Attributes: attrs.Sorted()})
	if err != nil {
		return nil, err
	}
	return hla.NewAttributeHandleSet(r.Attributes...), nil
}

// CancelNegotiatedAttributeOwnershipDivestiture withdraws a divestiture offer.
func (a *RTIAmbassador) CancelNegotiatedAttributeOwnershipDivestiture(ctx context.Context, object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) error {
	return a.do(ctx, wire.OpCancelNegotiatedAttributeOwnershipDivestiture, wire.Args{Object: object, Attributes: attrs.Sorted()})
}

// CancelAttributeOwnershipAcquisition withdraws an acquisition request.
func (a *RTIAmbassador) CancelAttributeOwnershipAcquisition(ctx context.Context, object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) error {
	return a.do(ctx, wire.OpCancelAttributeOwnershipAcquisition, wire.Args{Object: object, Attributes: attrs.Sorted()})
}

// QueryAttributeOwnership asks who owns attr. The answer is a callback.
func (a *RTIAmbassador) QueryAttributeOwnership(ctx context.Context, object hla.ObjectInstanceHandle, attr hla.AttributeHandle) error {
	return a.do(ctx, wire.OpQueryAttributeOwnership, wire.Args{Object: object, Attributes: []hla.AttributeHandle{attr}})
}

// IsAttributeOwnedByFederate reports whether this federate owns attr.
func (a *RTIAmbassador) IsAttributeOwnedByFederate(ctx context.Context, object hla.ObjectInstanceHandle, attr hla.AttributeHandle) (bool, error) {
	r, err := a.call(ctx, wire.OpIsAttributeOwnedByFederate, wire.Args{Object: object, Attributes: []hla.AttributeHandle{attr}})
	return r.Owned, err
}

// --- Time management ---

// EnableTimeRegulation asks to become regulating with lookahead. The RTI
// confirms with timeRegulationEnabled.
func (a *RTIAmbassador) EnableTimeRegulation(ctx context.Context, lookahead fedtime.Interval) error {
	return a.do(ctx, wire.OpEnableTimeRegulation, wire.Args{Lookahead: lookahead})
}

// DisableTimeRegulation stops regulating.
func (a *RTIAmbassador) DisableTimeRegulation(ctx context.Context) error {
	return a.do(ctx, wire.OpDisableTimeRegulation, wire.Args{})
}

// EnableTimeConstrained asks to become constrained. The RTI confirms with
// timeConstrainedEnabled.
func (a *RTIAmbassador) EnableTimeConstrained(ctx context.Context) error {
	return a.do(ctx, wire.OpEnableTimeConstrained, wire.Args{})
}

// DisableTimeConstrained stops being constrained.
func (a *RTIAmbassador) DisableTimeConstrained(ctx context.Context) error {
	return a.do(ctx, wire.OpDisableTimeConstrained, wire.Args{})
}

// TimeAdvanceRequest asks to advance to t.
func (a *RTIAmbassador) TimeAdvanceRequest(ctx context.Context, t fedtime.Time) error {
	return a.do(ctx, wire.OpTimeAdvanceRequest, wire.Args{Time: &t})
}

// TimeAdvanceRequestAvailable asks to advance to t, receiving messages
// stamped at t as well.
func (a *RTIAmbassador) TimeAdvanceRequestAvailable(ctx context.Context, t fedtime.Time) error {
	return a.do(ctx, wire.OpTimeAdvanceRequestAvailable, wire.Args{Time: &t})
}

// NextEventRequest asks to advance to the next message, or t.
func (a *RTIAmbassador) NextEventRequest(ctx context.Context, t fedtime.Time) error {
	return a.do(ctx, wire.OpNextEventRequest, wire.Args{Time: &t})
}

// NextEventRequestAvailable is NextEventRequest allowing further messages at
// the granted time.
func (a *RTIAmbassador) NextEventRequestAvailable(ctx context.Context, t fedtime.Time) error {
	return a.do(ctx, wire.OpNextEventRequestAvailable, wire.Args{Time: &t})
}

// FlushQueueRequest delivers every queued message, then grants up to t.
func (a *RTIAmbassador) FlushQueueRequest(ctx context.Context, t fedtime.Time) error {
	return a.do(ctx, wire.OpFlushQueueRequest, wire.Args{Time: &t})
}

// EnableAsynchronousDelivery lets receive-order messages through while no
// advance is pending.
func (a *RTIAmbassador) EnableAsynchronousDelivery(ctx context.Context) error {
	return a.do(ctx, wire.OpEnableAsynchronousDelivery, wire.Args{})
}

// DisableAsynchronousDelivery reverts EnableAsynchronousDelivery.
func (a *RTIAmbassador) DisableAsynchronousDelivery(ctx context.Context) error {
	return a.do(ctx, wire.OpDisableAsynchronousDelivery, wire.Args{})
}

func (a *RTIAmbassador) queryTime(ctx context.Context, op wire.Op) (fedtime.Time, error) {
	r, err := a.call(ctx, op, wire.Args{})
	if err != nil {
		return 0, err
	}
	if r.Time == nil {
		return 0, rtierr.Errorf(rtierr.RTIinternalError, "%s reply carries no time", op)
	}
	return *r.Time, nil
}

// QueryLBTS returns the lower bound on the timestamps this federate may
// still receive.
func (a *RTIAmbassador) QueryLBTS(ctx context.Context) (fedtime.Time, error) {
	return a.queryTime(ctx, wire.OpQueryLBTS)
}

// QueryFederateTime returns the current logical time.
func (a *RTIAmbassador) QueryFederateTime(ctx context.Context) (fedtime.Time, error) {
	return a.queryTime(ctx, wire.OpQueryFederateTime)
}

// QueryMinNextEventTime returns the earlier of LBTS and the next queued
// message.
func (a *RTIAmbassador) QueryMinNextEventTime(ctx context.Context) (fedtime.Time, error) {
	return a.queryTime(ctx, wire.OpQueryMinNextEventTime)
}

// QueryLookahead returns the current lookahead.
func (a *RTIAmbassador) QueryLookahead(ctx context.Context) (fedtime.Interval, error) {
	r, err := a.call(ctx, wire.OpQueryLookahead, wire.Args{})
	return r.Lookahead, err
}

// ModifyLookahead changes the lookahead of a regulating federate.
func (a *RTIAmbassador) ModifyLookahead(ctx context.Context, lookahead fedtime.Interval) error {
	return a.do(ctx, wire.OpModifyLookahead, wire.Args{Lookahead: lookahead})
}

// --- Data distribution management ---

// CreateRegion creates a region of space.
func (a *RTIAmbassador) CreateRegion(ctx context.Context, space hla.SpaceHandle, extents []ddm.Extent) (hla.RegionHandle, error) {
	r, err := a.call(ctx, wire.OpCreateRegion, wire.Args{Space: space, Extents: extents})
	return r.Region, err
}

// NotifyAboutRegionModification replaces the extents of region.
func (a *RTIAmbassador) NotifyAboutRegionModification(ctx context.Context, region hla.RegionHandle, extents []ddm.Extent) error {
	return a.do(ctx, wire.OpNotifyAboutRegionModification, wire.Args{Region: region, Extents: extents})
}

// DeleteRegion deletes an unused region.
func (a *RTIAmbassador) DeleteRegion(ctx context.Context, region hla.RegionHandle) error {
	return a.do(ctx, wire.OpDeleteRegion, wire.Args{Region: region})
}

// AssociateRegionForUpdates scopes updates of attrs of object to region.
func (a *RTIAmbassador) AssociateRegionForUpdates(ctx context.Context, region hla.RegionHandle, object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) error {
	return a.do(ctx, wire.OpAssociateRegionForUpdates, wire.Args{Region: region, Object: object, Attributes: attrs.Sorted()})
}

// UnassociateRegionForUpdates removes region from every attribute of object.
func (a *RTIAmbassador) UnassociateRegionForUpdates(ctx context.Context, region hla.RegionHandle, object hla.ObjectInstanceHandle) error {
	return a.do(ctx, wire.OpUnassociateRegionForUpdates, wire.Args{Region: region, Object: object})
}
