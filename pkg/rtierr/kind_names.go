package rtierr

// Kind identifies one failure condition of the RTI vocabulary.
//
// The set is closed. Each kind carries its HLA 1.3 name, its IEEE 1516e name,
// or both when the two standards name the same condition differently.
type Kind uint16

// Failure kinds.
const (
	// KindNone is the zero value; it never describes a failure.
	KindNone Kind = iota
	ArrayIndexOutOfBounds
	AsynchronousDeliveryAlreadyDisabled
	AsynchronousDeliveryAlreadyEnabled
	AttributeAcquisitionWasNotRequested
	AttributeAcquisitionWasNotCanceled
	AttributeAlreadyBeingAcquired
	AttributeAlreadyBeingDivested
	AttributeAlreadyOwned
	AttributeDivestitureWasNotRequested
	AttributeNotDefined
	AttributeNotKnown
	AttributeNotOwned
	AttributeNotPublished
	ConcurrentAccessAttempted
	CouldNotDiscover
	CouldNotOpenFED
	CouldNotRestore
	DeletePrivilegeNotHeld
	DimensionNotDefined
	EnableTimeConstrainedPending
	EnableTimeConstrainedWasNotPending
	EnableTimeRegulationPending
	EnableTimeRegulationWasNotPending
	ErrorReadingFED
	EventNotKnown
	FederateAlreadyExecutionMember
	FederateInternalError
	FederateLoggingServiceCalls
	FederateNotExecutionMember
	FederateOwnsAttributes
	FederateWasNotAskedToReleaseAttribute
	FederatesCurrentlyJoined
	FederationExecutionAlreadyExists
	FederationExecutionDoesNotExist
	FederationTimeAlreadyPassed
	HandleValuePairMaximumExceeded
	InteractionClassNotDefined
	InteractionClassNotKnown
	InteractionClassNotPublished
	InteractionClassNotSubscribed
	InteractionParameterNotDefined
	InteractionParameterNotKnown
	InvalidExtents
	InvalidFederationTime
	InvalidHandleValuePairSetContext
	InvalidLookahead
	InvalidOrderingHandle
	InvalidRegionContext
	InvalidResignAction
	InvalidRetractionHandle
	InvalidTransportationHandle
	MemoryExhausted
	NameNotFound
	ObjectClassNotDefined
	ObjectClassNotKnown
	ObjectClassNotPublished
	ObjectClassNotSubscribed
	ObjectNotKnown
	ObjectAlreadyRegistered
	OwnershipAcquisitionPending
	RegionInUse
	RegionNotKnown
	RestoreInProgress
	RestoreNotRequested
	RTIinternalError
	SpaceNotDefined
	SaveInProgress
	SaveNotInitiated
	SpecifiedSaveLabelDoesNotExist
	SynchronizationPointLabelWasNotAnnounced
	TimeAdvanceAlreadyInProgress
	TimeAdvanceWasNotInProgress
	TimeConstrainedAlreadyEnabled
	TimeConstrainedWasNotEnabled
	TimeRegulationAlreadyEnabled
	TimeRegulationWasNotEnabled
	UnableToPerformSave
	ValueCountExceeded
	ValueLengthExceeded
	AlreadyConnected
	AttributeAlreadyBeingChanged
	AttributeNotSubscribed
	AttributeRelevanceAdvisorySwitchIsOff
	AttributeRelevanceAdvisorySwitchIsOn
	AttributeScopeAdvisorySwitchIsOff
	AttributeScopeAdvisorySwitchIsOn
	BadInitializationParameter
	CallNotAllowedFromWithinCallback
	ConnectionFailed
	CouldNotCreateLogicalTimeFactory
	CouldNotDecode
	CouldNotEncode
	CouldNotOpenMIM
	CouldNotInitiateRestore
	DesignatorIsHLAstandardMIM
	NoFederateWillingToAcquireAttribute
	ErrorReadingMIM
	FederateHandleNotKnown
	FederateHasNotBegunSave
	FederateIsExecutionMember
	FederateNameAlreadyInUse
	FederateUnableToUseTime
	IllegalName
	IllegalTimeArithmetic
	InconsistentFDD
	InteractionClassAlreadyBeingChanged
	InteractionRelevanceAdvisorySwitchIsOff
	InteractionRelevanceAdvisorySwitchIsOn
	InvalidAttributeHandle
	InvalidFederateHandle
	InvalidInteractionClassHandle
	InvalidLocalSettingsDesignator
	InvalidLogicalTimeInterval
	InvalidObjectClassHandle
	InvalidOrderName
	InvalidParameterHandle
	InvalidServiceGroup
	InvalidTransportationName
	InvalidUpdateRateDesignator
	MessageCanNoLongerBeRetracted
	NameSetWasEmpty
	NoAcquisitionPending
	NotConnected
	ObjectClassRelevanceAdvisorySwitchIsOff
	ObjectClassRelevanceAdvisorySwitchIsOn
	ObjectInstanceNameNotReserved
	RegionDoesNotContainSpecifiedDimension
	RegionNotCreatedByThisFederate
	RestoreNotInProgress
	SaveNotInProgress
	UnknownName
	UnsupportedCallbackModel
	InternalError
	EncoderException
)

type kindNames struct {
	hla13    string
	ieee1516 string
}

var names = map[Kind]kindNames{
	ArrayIndexOutOfBounds:                    {"ArrayIndexOutOfBounds", ""},
	AsynchronousDeliveryAlreadyDisabled:      {"AsynchronousDeliveryAlreadyDisabled", "AsynchronousDeliveryAlreadyDisabled"},
	AsynchronousDeliveryAlreadyEnabled:       {"AsynchronousDeliveryAlreadyEnabled", "AsynchronousDeliveryAlreadyEnabled"},
	AttributeAcquisitionWasNotRequested:      {"AttributeAcquisitionWasNotRequested", "AttributeAcquisitionWasNotRequested"},
	AttributeAcquisitionWasNotCanceled:       {"AttributeAcquisitionWasNotCanceled", "AttributeAcquisitionWasNotCanceled"},
	AttributeAlreadyBeingAcquired:            {"AttributeAlreadyBeingAcquired", "AttributeAlreadyBeingAcquired"},
	AttributeAlreadyBeingDivested:            {"AttributeAlreadyBeingDivested", "AttributeAlreadyBeingDivested"},
	AttributeAlreadyOwned:                    {"AttributeAlreadyOwned", "AttributeAlreadyOwned"},
	AttributeDivestitureWasNotRequested:      {"AttributeDivestitureWasNotRequested", "AttributeDivestitureWasNotRequested"},
	AttributeNotDefined:                      {"AttributeNotDefined", "AttributeNotDefined"},
	AttributeNotKnown:                        {"AttributeNotKnown", "AttributeNotRecognized"},
	AttributeNotOwned:                        {"AttributeNotOwned", "AttributeNotOwned"},
	AttributeNotPublished:                    {"AttributeNotPublished", "AttributeNotPublished"},
	ConcurrentAccessAttempted:                {"ConcurrentAccessAttempted", ""},
	CouldNotDiscover:                         {"CouldNotDiscover", "CouldNotDiscover"},
	CouldNotOpenFED:                          {"CouldNotOpenFED", "CouldNotOpenFDD"},
	CouldNotRestore:                          {"CouldNotRestore", ""},
	DeletePrivilegeNotHeld:                   {"DeletePrivilegeNotHeld", "DeletePrivilegeNotHeld"},
	DimensionNotDefined:                      {"DimensionNotDefined", "InvalidDimensionHandle"},
	EnableTimeConstrainedPending:             {"EnableTimeConstrainedPending", "RequestForTimeConstrainedPending"},
	EnableTimeConstrainedWasNotPending:       {"EnableTimeConstrainedWasNotPending", "NoRequestToEnableTimeConstrainedWasPending"},
	EnableTimeRegulationPending:              {"EnableTimeRegulationPending", "RequestForTimeRegulationPending"},
	EnableTimeRegulationWasNotPending:        {"EnableTimeRegulationWasNotPending", "NoRequestToEnableTimeRegulationWasPending"},
	ErrorReadingFED:                          {"ErrorReadingFED", "ErrorReadingFDD"},
	EventNotKnown:                            {"EventNotKnown", ""},
	FederateAlreadyExecutionMember:           {"FederateAlreadyExecutionMember", "FederateAlreadyExecutionMember"},
	FederateInternalError:                    {"FederateInternalError", "FederateInternalError"},
	FederateLoggingServiceCalls:              {"FederateLoggingServiceCalls", "FederateServiceInvocationsAreBeingReportedViaMOM"},
	FederateNotExecutionMember:               {"FederateNotExecutionMember", "FederateNotExecutionMember"},
	FederateOwnsAttributes:                   {"FederateOwnsAttributes", "FederateOwnsAttributes"},
	FederateWasNotAskedToReleaseAttribute:    {"FederateWasNotAskedToReleaseAttribute", ""},
	FederatesCurrentlyJoined:                 {"FederatesCurrentlyJoined", "FederatesCurrentlyJoined"},
	FederationExecutionAlreadyExists:         {"FederationExecutionAlreadyExists", "FederationExecutionAlreadyExists"},
	FederationExecutionDoesNotExist:          {"FederationExecutionDoesNotExist", "FederationExecutionDoesNotExist"},
	FederationTimeAlreadyPassed:              {"FederationTimeAlreadyPassed", "LogicalTimeAlreadyPassed"},
	HandleValuePairMaximumExceeded:           {"HandleValuePairMaximumExceeded", ""},
	InteractionClassNotDefined:               {"InteractionClassNotDefined", "InteractionClassNotDefined"},
	InteractionClassNotKnown:                 {"InteractionClassNotKnown", "InteractionClassNotRecognized"},
	InteractionClassNotPublished:             {"InteractionClassNotPublished", "InteractionClassNotPublished"},
	InteractionClassNotSubscribed:            {"InteractionClassNotSubscribed", "InteractionClassNotSubscribed"},
	InteractionParameterNotDefined:           {"InteractionParameterNotDefined", "InteractionParameterNotDefined"},
	InteractionParameterNotKnown:             {"InteractionParameterNotKnown", "InteractionParameterNotRecognized"},
	InvalidExtents:                           {"InvalidExtents", "InvalidRangeBound"},
	InvalidFederationTime:                    {"InvalidFederationTime", "InvalidLogicalTime"},
	InvalidHandleValuePairSetContext:         {"InvalidHandleValuePairSetContext", ""},
	InvalidLookahead:                         {"InvalidLookahead", "InvalidLookahead"},
	InvalidOrderingHandle:                    {"InvalidOrderingHandle", "InvalidOrderType"},
	InvalidRegionContext:                     {"InvalidRegionContext", "InvalidRegionContext"},
	InvalidResignAction:                      {"InvalidResignAction", "InvalidResignAction"},
	InvalidRetractionHandle:                  {"InvalidRetractionHandle", "InvalidMessageRetractionHandle"},
	InvalidTransportationHandle:              {"InvalidTransportationHandle", "InvalidTransportationType"},
	MemoryExhausted:                          {"MemoryExhausted", ""},
	NameNotFound:                             {"NameNotFound", "NameNotFound"},
	ObjectClassNotDefined:                    {"ObjectClassNotDefined", "ObjectClassNotDefined"},
	ObjectClassNotKnown:                      {"ObjectClassNotKnown", "ObjectClassNotKnown"},
	ObjectClassNotPublished:                  {"ObjectClassNotPublished", "ObjectClassNotPublished"},
	ObjectClassNotSubscribed:                 {"ObjectClassNotSubscribed", ""},
	ObjectNotKnown:                           {"ObjectNotKnown", "ObjectInstanceNotKnown"},
	ObjectAlreadyRegistered:                  {"ObjectAlreadyRegistered", "ObjectInstanceNameInUse"},
	OwnershipAcquisitionPending:              {"OwnershipAcquisitionPending", "OwnershipAcquisitionPending"},
	RegionInUse:                              {"RegionInUse", "RegionInUseForUpdateOrSubscription"},
	RegionNotKnown:                           {"RegionNotKnown", "InvalidRegion"},
	RestoreInProgress:                        {"RestoreInProgress", "RestoreInProgress"},
	RestoreNotRequested:                      {"RestoreNotRequested", "RestoreNotRequested"},
	RTIinternalError:                         {"RTIinternalError", "RTIinternalError"},
	SpaceNotDefined:                          {"SpaceNotDefined", ""},
	SaveInProgress:                           {"SaveInProgress", "SaveInProgress"},
	SaveNotInitiated:                         {"SaveNotInitiated", "SaveNotInitiated"},
	SpecifiedSaveLabelDoesNotExist:           {"SpecifiedSaveLabelDoesNotExist", "SpecifiedSaveLabelDoesNotExist"},
	SynchronizationPointLabelWasNotAnnounced: {"SynchronizationPointLabelWasNotAnnounced", "SynchronizationPointLabelNotAnnounced"},
	TimeAdvanceAlreadyInProgress:             {"TimeAdvanceAlreadyInProgress", "InTimeAdvancingState"},
	TimeAdvanceWasNotInProgress:              {"TimeAdvanceWasNotInProgress", "JoinedFederateIsNotInTimeAdvancingState"},
	TimeConstrainedAlreadyEnabled:            {"TimeConstrainedAlreadyEnabled", "TimeConstrainedAlreadyEnabled"},
	TimeConstrainedWasNotEnabled:             {"TimeConstrainedWasNotEnabled", "TimeConstrainedIsNotEnabled"},
	TimeRegulationAlreadyEnabled:             {"TimeRegulationAlreadyEnabled", "TimeRegulationAlreadyEnabled"},
	TimeRegulationWasNotEnabled:              {"TimeRegulationWasNotEnabled", "TimeRegulationIsNotEnabled"},
	UnableToPerformSave:                      {"UnableToPerformSave", "UnableToPerformSave"},
	ValueCountExceeded:                       {"ValueCountExceeded", ""},
	ValueLengthExceeded:                      {"ValueLengthExceeded", ""},
	AlreadyConnected:                         {"", "AlreadyConnected"},
	AttributeAlreadyBeingChanged:             {"", "AttributeAlreadyBeingChanged"},
	AttributeNotSubscribed:                   {"", "AttributeNotSubscribed"},
	AttributeRelevanceAdvisorySwitchIsOff:    {"", "AttributeRelevanceAdvisorySwitchIsOff"},
	AttributeRelevanceAdvisorySwitchIsOn:     {"", "AttributeRelevanceAdvisorySwitchIsOn"},
	AttributeScopeAdvisorySwitchIsOff:        {"", "AttributeScopeAdvisorySwitchIsOff"},
	AttributeScopeAdvisorySwitchIsOn:         {"", "AttributeScopeAdvisorySwitchIsOn"},
	BadInitializationParameter:               {"", "BadInitializationParameter"},
	CallNotAllowedFromWithinCallback:         {"", "CallNotAllowedFromWithinCallback"},
	ConnectionFailed:                         {"", "ConnectionFailed"},
	CouldNotCreateLogicalTimeFactory:         {"", "CouldNotCreateLogicalTimeFactory"},
	CouldNotDecode:                           {"", "CouldNotDecode"},
	CouldNotEncode:                           {"", "CouldNotEncode"},
	CouldNotOpenMIM:                          {"", "CouldNotOpenMIM"},
	CouldNotInitiateRestore:                  {"", "CouldNotInitiateRestore"},
	DesignatorIsHLAstandardMIM:               {"", "DesignatorIsHLAstandardMIM"},
	NoFederateWillingToAcquireAttribute:      {"", "NoFederateWillingToAcquireAttribute"},
	ErrorReadingMIM:                          {"", "ErrorReadingMIM"},
	FederateHandleNotKnown:                   {"", "FederateHandleNotKnown"},
	FederateHasNotBegunSave:                  {"", "FederateHasNotBegunSave"},
	FederateIsExecutionMember:                {"", "FederateIsExecutionMember"},
	FederateNameAlreadyInUse:                 {"", "FederateNameAlreadyInUse"},
	FederateUnableToUseTime:                  {"", "FederateUnableToUseTime"},
	IllegalName:                              {"", "IllegalName"},
	IllegalTimeArithmetic:                    {"", "IllegalTimeArithmetic"},
	InconsistentFDD:                          {"", "InconsistentFDD"},
	InteractionClassAlreadyBeingChanged:      {"", "InteractionClassAlreadyBeingChanged"},
	InteractionRelevanceAdvisorySwitchIsOff:  {"", "InteractionRelevanceAdvisorySwitchIsOff"},
	InteractionRelevanceAdvisorySwitchIsOn:   {"", "InteractionRelevanceAdvisorySwitchIsOn"},
	InvalidAttributeHandle:                   {"", "InvalidAttributeHandle"},
	InvalidFederateHandle:                    {"", "InvalidFederateHandle"},
	InvalidInteractionClassHandle:            {"", "InvalidInteractionClassHandle"},
	InvalidLocalSettingsDesignator:           {"", "InvalidLocalSettingsDesignator"},
	InvalidLogicalTimeInterval:               {"", "InvalidLogicalTimeInterval"},
	InvalidObjectClassHandle:                 {"", "InvalidObjectClassHandle"},
	InvalidOrderName:                         {"", "InvalidOrderName"},
	InvalidParameterHandle:                   {"", "InvalidParameterHandle"},
	InvalidServiceGroup:                      {"", "InvalidServiceGroup"},
	InvalidTransportationName:                {"", "InvalidTransportationName"},
	InvalidUpdateRateDesignator:              {"", "InvalidUpdateRateDesignator"},
	MessageCanNoLongerBeRetracted:            {"", "MessageCanNoLongerBeRetracted"},
	NameSetWasEmpty:                          {"", "NameSetWasEmpty"},
	NoAcquisitionPending:                     {"", "NoAcquisitionPending"},
	NotConnected:                             {"", "NotConnected"},
	ObjectClassRelevanceAdvisorySwitchIsOff:  {"", "ObjectClassRelevanceAdvisorySwitchIsOff"},
	ObjectClassRelevanceAdvisorySwitchIsOn:   {"", "ObjectClassRelevanceAdvisorySwitchIsOn"},
	ObjectInstanceNameNotReserved:            {"", "ObjectInstanceNameNotReserved"},
	RegionDoesNotContainSpecifiedDimension:   {"", "RegionDoesNotContainSpecifiedDimension"},
	RegionNotCreatedByThisFederate:           {"", "RegionNotCreatedByThisFederate"},
	RestoreNotInProgress:                     {"", "RestoreNotInProgress"},
	SaveNotInProgress:                        {"", "SaveNotInProgress"},
	UnknownName:                              {"", "UnknownName"},
	UnsupportedCallbackModel:                 {"", "UnsupportedCallbackModel"},
	InternalError:                            {"", "InternalError"},
	EncoderException:                         {"", "EncoderException"},
}
