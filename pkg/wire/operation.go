package wire

// Op identifies an RTI service.
type Op uint8

const (
	OpNone Op = iota

	// Federation management
	OpCreateFederationExecution
	OpDestroyFederationExecution
	OpJoinFederationExecution
	OpResignFederationExecution
	OpRegisterFederationSynchronizationPoint
	OpSynchronizationPointAchieved
	OpRequestFederationSave
	OpFederateSaveBegun
	OpFederateSaveComplete
	OpFederateSaveNotComplete
	OpRequestFederationRestore
	OpFederateRestoreComplete
	OpFederateRestoreNotComplete

	// Declaration management
	OpPublishObjectClass
	OpUnpublishObjectClass
	OpPublishInteractionClass
	OpUnpublishInteractionClass
	OpSubscribeObjectClassAttributes
	OpUnsubscribeObjectClass
	OpSubscribeInteractionClass
	OpUnsubscribeInteractionClass
	OpSubscribeObjectClassAttributesWithRegion
	OpUnsubscribeObjectClassWithRegion
	OpSubscribeInteractionClassWithRegion
	OpUnsubscribeInteractionClassWithRegion

	// Object management
	OpRegisterObjectInstance
	OpRegisterObjectInstanceWithRegion
	OpUpdateAttributeValues
	OpSendInteraction
	OpSendInteractionWithRegion
	OpDeleteObjectInstance
	OpLocalDeleteObjectInstance
	OpRequestObjectAttributeValueUpdate
	OpRequestClassAttributeValueUpdate
	OpGetObjectInstanceName
	OpGetObjectInstanceHandle
	OpGetKnownObjectClass

	// Ownership management
	OpUnconditionalAttributeOwnershipDivestiture
	OpNegotiatedAttributeOwnershipDivestiture
	OpAttributeOwnershipAcquisition
	OpAttributeOwnershipAcquisitionIfAvailable
	OpAttributeOwnershipReleaseResponse
	OpCancelNegotiatedAttributeOwnershipDivestiture
	OpCancelAttributeOwnershipAcquisition
	OpQueryAttributeOwnership
	OpIsAttributeOwnedByFederate

	// Time management
	OpEnableTimeRegulation
	OpDisableTimeRegulation
	OpEnableTimeConstrained
	OpDisableTimeConstrained
	OpTimeAdvanceRequest
	OpTimeAdvanceRequestAvailable
	OpNextEventRequest
	OpNextEventRequestAvailable
	OpFlushQueueRequest
	OpEnableAsynchronousDelivery
	OpDisableAsynchronousDelivery
	OpQueryLBTS
	OpQueryFederateTime
	OpQueryMinNextEventTime
	OpQueryLookahead
	OpModifyLookahead

	// Data distribution management
	OpCreateRegion
	OpNotifyAboutRegionModification
	OpDeleteRegion
	OpAssociateRegionForUpdates
	OpUnassociateRegionForUpdates

	// Callback delivery
	OpTick

	opCount
)

var opNames = [...]string{
	OpNone:                                          "None",
	OpCreateFederationExecution:                     "CreateFederationExecution",
	OpDestroyFederationExecution:                    "DestroyFederationExecution",
	OpJoinFederationExecution:                       "JoinFederationExecution",
	OpResignFederationExecution:                     "ResignFederationExecution",
	OpRegisterFederationSynchronizationPoint:        "RegisterFederationSynchronizationPoint",
	OpSynchronizationPointAchieved:                  "SynchronizationPointAchieved",
	OpRequestFederationSave:                         "RequestFederationSave",
	OpFederateSaveBegun:                             "FederateSaveBegun",
	OpFederateSaveComplete:                          "FederateSaveComplete",
	OpFederateSaveNotComplete:                       "FederateSaveNotComplete",
	OpRequestFederationRestore:                      "RequestFederationRestore",
	OpFederateRestoreComplete:                       "FederateRestoreComplete",
	OpFederateRestoreNotComplete:                    "FederateRestoreNotComplete",
	OpPublishObjectClass:                            "PublishObjectClass",
	OpUnpublishObjectClass:                          "UnpublishObjectClass",
	OpPublishInteractionClass:                       "PublishInteractionClass",
	OpUnpublishInteractionClass:                     "UnpublishInteractionClass",
	OpSubscribeObjectClassAttributes:                "SubscribeObjectClassAttributes",
	OpUnsubscribeObjectClass:                        "UnsubscribeObjectClass",
	OpSubscribeInteractionClass:                     "SubscribeInteractionClass",
	OpUnsubscribeInteractionClass:                   "UnsubscribeInteractionClass",
	OpSubscribeObjectClassAttributesWithRegion:      "SubscribeObjectClassAttributesWithRegion",
	OpUnsubscribeObjectClassWithRegion:              "UnsubscribeObjectClassWithRegion",
	OpSubscribeInteractionClassWithRegion:           "SubscribeInteractionClassWithRegion",
	OpUnsubscribeInteractionClassWithRegion:         "UnsubscribeInteractionClassWithRegion",
	OpRegisterObjectInstance:                        "RegisterObjectInstance",
	OpRegisterObjectInstanceWithRegion:              "RegisterObjectInstanceWithRegion",
	OpUpdateAttributeValues:                         "UpdateAttributeValues",
	OpSendInteraction:                               "SendInteraction",
	OpSendInteractionWithRegion:                     "SendInteractionWithRegion",
	OpDeleteObjectInstance:                          "DeleteObjectInstance",
	OpLocalDeleteObjectInstance:                     "LocalDeleteObjectInstance",
	OpRequestObjectAttributeValueUpdate:             "RequestObjectAttributeValueUpdate",
	OpRequestClassAttributeValueUpdate:              "RequestClassAttributeValueUpdate",
	OpGetObjectInstanceName:                         "GetObjectInstanceName",
	OpGetObjectInstanceHandle:                       "GetObjectInstanceHandle",
	OpGetKnownObjectClass:                           "GetKnownObjectClass",
	OpUnconditionalAttributeOwnershipDivestiture:    "UnconditionalAttributeOwnershipDivestiture",
	OpNegotiatedAttributeOwnershipDivestiture:       "NegotiatedAttributeOwnershipDivestiture",
	OpAttributeOwnershipAcquisition:                 "AttributeOwnershipAcquisition",
	OpAttributeOwnershipAcquisitionIfAvailable:      "AttributeOwnershipAcquisitionIfAvailable",
	OpAttributeOwnershipReleaseResponse:             "AttributeOwnershipReleaseResponse",
	OpCancelNegotiatedAttributeOwnershipDivestiture: "CancelNegotiatedAttributeOwnershipDivestiture",
	OpCancelAttributeOwnershipAcquisition:           "CancelAttributeOwnershipAcquisition",
	OpQueryAttributeOwnership:                       "QueryAttributeOwnership",
	OpIsAttributeOwnedByFederate:                    "IsAttributeOwnedByFederate",
	OpEnableTimeRegulation:                          "EnableTimeRegulation",
	OpDisableTimeRegulation:                         "DisableTimeRegulation",
	OpEnableTimeConstrained:                         "EnableTimeConstrained",
	OpDisableTimeConstrained:                        "DisableTimeConstrained",
	OpTimeAdvanceRequest:                            "TimeAdvanceRequest",
	OpTimeAdvanceRequestAvailable:                   "TimeAdvanceRequestAvailable",
	OpNextEventRequest:                              "NextEventRequest",
	OpNextEventRequestAvailable:                     "NextEventRequestAvailable",
	OpFlushQueueRequest:                             "FlushQueueRequest",
	OpEnableAsynchronousDelivery:                    "EnableAsynchronousDelivery",
	OpDisableAsynchronousDelivery:                   "DisableAsynchronousDelivery",
	OpQueryLBTS:                                     "QueryLBTS",
	OpQueryFederateTime:                             "QueryFederateTime",
	OpQueryMinNextEventTime:                         "QueryMinNextEventTime",
	OpQueryLookahead:                                "QueryLookahead",
	OpModifyLookahead:                               "ModifyLookahead",
	OpCreateRegion:                                  "CreateRegion",
	OpNotifyAboutRegionModification:                 "NotifyAboutRegionModification",
	OpDeleteRegion:                                  "DeleteRegion",
	OpAssociateRegionForUpdates:                     "AssociateRegionForUpdates",
	OpUnassociateRegionForUpdates:                   "UnassociateRegionForUpdates",
	OpTick:                                          "Tick",
}

// String returns the service name.
func (o Op) String() string {
	if int(o) < len(opNames) && opNames[o] != "" {
		return opNames[o]
	}
	return "Unknown"
}

// IsValid returns true if o names a service.
func (o Op) IsValid() bool {
	return o > OpNone && o < opCount
}

// ParseOp returns the Op with the given name.
func ParseOp(name string) (Op, bool) {
	for i, n := range opNames {
		if n == name && Op(i) != OpNone {
			return Op(i), true
		}
	}
	return OpNone, false
}

