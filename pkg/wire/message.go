package wire

import (
	"errors"
	"fmt"
	"time"

	"github.com/openlvc/portico-sub003/pkg/ddm"
	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/fom"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

// MessageType is stored under key 0 of every message.
type MessageType uint8

const (
	MessageTypeUnknown  MessageType = 0
	MessageTypeRequest  MessageType = 1
	MessageTypeResponse MessageType = 2
	MessageTypeControl  MessageType = 3
)

// String returns the message type name.
func (t MessageType) String() string {
	switch t {
	case MessageTypeRequest:
		return "REQUEST"
	case MessageTypeResponse:
		return "RESPONSE"
	case MessageTypeControl:
		return "CONTROL"
	default:
		return "UNKNOWN"
	}
}

// IsValid reports whether t is a known message type.
func (t MessageType) IsValid() bool {
	return t >= MessageTypeRequest && t <= MessageTypeControl
}

// Request is one RTI service invocation.
//
// CBOR encoding:
//
//	{
//	  0: 1,            // MessageTypeRequest
//	  1: messageId,    // uint32, echoed in the response
//	  2: operation,    // Op
//	  3: version,      // "major.minor" protocol version
//	  4: federation,   // federation execution name
//	  5: federate,     // handle of the calling federate (0 before join)
//	  6: args
//	}
type Request struct {
	Type       MessageType        `cbor:"0,keyasint"`
	MessageID  uint32             `cbor:"1,keyasint"`
	Operation  Op                 `cbor:"2,keyasint"`
	Version    string             `cbor:"3,keyasint,omitempty"`
	Federation string             `cbor:"4,keyasint,omitempty"`
	Federate   hla.FederateHandle `cbor:"5,keyasint,omitempty"`
	Args       Args               `cbor:"6,keyasint"`
}

// Validate checks if the request is valid.
func (r *Request) Validate() error {
	if r.MessageID == 0 {
		return errors.New("messageId 0 is reserved")
	}
	if !r.Operation.IsValid() {
		return fmt.Errorf("invalid operation: %d", r.Operation)
	}
	return nil
}

// Args carries the arguments of every operation. Each operation reads the
// fields it needs.
type Args struct {
	Name             string                      `cbor:"1,keyasint,omitempty"`
	FederateType     string                      `cbor:"2,keyasint,omitempty"`
	FOM              *fom.Document               `cbor:"3,keyasint,omitempty"`
	Action           hla.ResignAction            `cbor:"4,keyasint,omitempty"`
	Label            string                      `cbor:"5,keyasint,omitempty"`
	Tag              []byte                      `cbor:"6,keyasint,omitempty"`
	Federates        []hla.FederateHandle        `cbor:"7,keyasint,omitempty"`
	ObjectClass      hla.ObjectClassHandle       `cbor:"8,keyasint,omitempty"`
	InteractionClass hla.InteractionClassHandle  `cbor:"9,keyasint,omitempty"`
	Object           hla.ObjectInstanceHandle    `cbor:"10,keyasint,omitempty"`
	Attributes       []hla.AttributeHandle       `cbor:"11,keyasint,omitempty"`
	Values           hla.AttributeHandleValueMap `cbor:"12,keyasint,omitempty"`
	Parameters       hla.ParameterHandleValueMap `cbor:"13,keyasint,omitempty"`
	Time             *fedtime.Time               `cbor:"14,keyasint,omitempty"`
	Lookahead        fedtime.Interval            `cbor:"15,keyasint,omitempty"`
	Active           bool                        `cbor:"16,keyasint,omitempty"`
	Region           hla.RegionHandle            `cbor:"17,keyasint,omitempty"`
	Regions          []hla.RegionHandle          `cbor:"18,keyasint,omitempty"`
	Space            hla.SpaceHandle             `cbor:"19,keyasint,omitempty"`
	Extents          []ddm.Extent                `cbor:"20,keyasint,omitempty"`
	Wait             time.Duration               `cbor:"21,keyasint,omitempty"`
}

// AttributeSet returns Attributes as a set.
func (a *Args) AttributeSet() hla.AttributeHandleSet {
	return hla.NewAttributeHandleSet(a.Attributes...)
}

// FederateSet returns Federates as a set.
func (a *Args) FederateSet() hla.FederateHandleSet {
	return hla.NewFederateHandleSet(a.Federates...)
}

// Response answers one Request.
//
// CBOR encoding:
//
//	{
//	  0: 2,           // MessageTypeResponse
//	  1: messageId,   // matches the request
//	  2: error,       // absent on success
//	  3: result
//	}
type Response struct {
	Type      MessageType `cbor:"0,keyasint"`
	MessageID uint32      `cbor:"1,keyasint"`
	Error     *ErrorInfo  `cbor:"2,keyasint,omitempty"`
	Result    Result      `cbor:"3,keyasint"`
}

// IsSuccess returns true if the response carries no error.
func (r *Response) IsSuccess() bool {
	return r.Error == nil
}

// Err returns the typed error carried by the response, or nil.
func (r *Response) Err() error {
	if r.Error == nil {
		return nil
	}
	return r.Error.Err()
}

// Result carries the outcome of every operation.
type Result struct {
	Federate    hla.FederateHandle       `cbor:"1,keyasint,omitempty"`
	FOM         *fom.Document            `cbor:"2,keyasint,omitempty"`
	Object      hla.ObjectInstanceHandle `cbor:"3,keyasint,omitempty"`
	Name        string                   `cbor:"4,keyasint,omitempty"`
	ObjectClass hla.ObjectClassHandle    `cbor:"5,keyasint,omitempty"`
	Time        *fedtime.Time            `cbor:"6,keyasint,omitempty"`
	Lookahead   fedtime.Interval         `cbor:"7,keyasint,omitempty"`
	Owned       bool                     `cbor:"8,keyasint,omitempty"`
	Region      hla.RegionHandle         `cbor:"9,keyasint,omitempty"`
	Attributes  []hla.AttributeHandle    `cbor:"10,keyasint,omitempty"`
	Callbacks   []Callback               `cbor:"11,keyasint,omitempty"`

	// Pending is the number of callbacks still queued after a tick.
	Pending int `cbor:"12,keyasint,omitempty"`

	// ExecutionID identifies a federation execution across restarts of
	// the same name.
	ExecutionID string `cbor:"13,keyasint,omitempty"`
}

// ErrorInfo is an RTI failure on the wire.
type ErrorInfo struct {
	// Kind is the failure name in either HLA 1.3 or IEEE 1516e spelling.
	Kind   string `cbor:"1,keyasint"`
	Reason string `cbor:"2,keyasint,omitempty"`
}

// NewErrorInfo converts err to its wire form.
func NewErrorInfo(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	var re *rtierr.Error
	if errors.As(err, &re) {
		return &ErrorInfo{Kind: re.Kind.String(), Reason: re.Reason}
	}
	if k, ok := err.(rtierr.Kind); ok {
		return &ErrorInfo{Kind: k.String()}
	}
	return &ErrorInfo{Kind: rtierr.RTIinternalError.String(), Reason: err.Error()}
}

// Err rebuilds the typed error. Unknown names become RTIinternalError.
func (e *ErrorInfo) Err() error {
	kind, ok := rtierr.ParseKind(e.Kind)
	if !ok {
		return rtierr.Errorf(rtierr.RTIinternalError, "%s: %s", e.Kind, e.Reason)
	}
	return rtierr.New(kind, e.Reason)
}

// ControlMessage represents a transport-level control message.
// These are separate from the request/response model.
type ControlMessage struct {
	MsgType  MessageType        `cbor:"0,keyasint"`
	Type     ControlMessageType `cbor:"1,keyasint"`
	Sequence uint32             `cbor:"2,keyasint,omitempty"`
}

// ControlMessageType represents the type of control message.
type ControlMessageType uint8

const (
	// ControlPing is sent to check connection liveness.
	ControlPing ControlMessageType = 1

	// ControlPong is the response to a ping.
	ControlPong ControlMessageType = 2

	// ControlClose initiates graceful connection close.
	ControlClose ControlMessageType = 3
)

// String returns the control message type name.
func (t ControlMessageType) String() string {
	switch t {
	case ControlPing:
		return "ping"
	case ControlPong:
		return "pong"
	case ControlClose:
		return "close"
	default:
		return "unknown"
	}
}
