package log

import (
	"time"

	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

// Event is one trace record. Exactly one of the payload pointers is set.
// Integer CBOR keys keep trace files small; never renumber them.
type Event struct {
	Timestamp    time.Time `cbor:"1,keyasint"`
	ConnectionID string    `cbor:"2,keyasint"`
	Direction    Direction `cbor:"3,keyasint"`
	Layer        Layer     `cbor:"4,keyasint"`
	Category     Category  `cbor:"5,keyasint"`
	LocalRole    Role      `cbor:"6,keyasint,omitempty"`
	RemoteAddr   string    `cbor:"7,keyasint,omitempty"`

	// Federation and Federate are filled in once a join on the connection
	// has succeeded.
	Federation string             `cbor:"8,keyasint,omitempty"`
	Federate   hla.FederateHandle `cbor:"9,keyasint,omitempty"`

	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"`
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	ControlMsg  *ControlMsgEvent  `cbor:"13,keyasint,omitempty"`
	Error       *ErrorEvent       `cbor:"14,keyasint,omitempty"`
}

func enumName(names []string, i uint8) string {
	if int(i) < len(names) {
		return names[i]
	}
	return "UNKNOWN"
}

type Direction uint8

const (
	DirectionIn Direction = iota
	DirectionOut
)

func (d Direction) String() string { return enumName([]string{"IN", "OUT"}, uint8(d)) }

// Layer is where an event was captured: raw frames, decoded envelopes, or
// kernel state.
type Layer uint8

const (
	LayerTransport Layer = iota
	LayerWire
	LayerService
)

func (l Layer) String() string {
	return enumName([]string{"TRANSPORT", "WIRE", "SERVICE"}, uint8(l))
}

type Category uint8

const (
	CategoryMessage Category = iota
	CategoryControl
	CategoryState
	CategoryError
)

func (c Category) String() string {
	return enumName([]string{"MESSAGE", "CONTROL", "STATE", "ERROR"}, uint8(c))
}

// Role is the side of the connection that wrote the event.
type Role uint8

const (
	RoleRTI Role = iota
	RoleFederate
)

func (r Role) String() string { return enumName([]string{"RTI", "FEDERATE"}, uint8(r)) }

// FrameEvent is a transport frame. Data holds at most MaxLogFrameDataSize
// bytes of the payload; Size counts the whole frame with its length prefix.
type FrameEvent struct {
	Size      int    `cbor:"1,keyasint"`
	Data      []byte `cbor:"2,keyasint,omitempty"`
	Truncated bool   `cbor:"3,keyasint,omitempty"`
}

// MessageEvent is a decoded request, response or callback.
type MessageEvent struct {
	Type      MessageType `cbor:"1,keyasint"`
	MessageID uint32      `cbor:"2,keyasint"`

	// Operation is set on requests and responses.
	Operation *wire.Op `cbor:"3,keyasint,omitempty"`

	// ErrorKind names the exception of a failed response.
	ErrorKind string `cbor:"4,keyasint,omitempty"`

	// Callback is set on callback events.
	Callback *wire.CallbackKind `cbor:"5,keyasint,omitempty"`

	// Callbacks counts the callbacks a tick response carried.
	Callbacks int `cbor:"6,keyasint,omitempty"`

	Payload any `cbor:"8,keyasint,omitempty"`

	// ProcessingTime is request receipt to response send, on responses.
	ProcessingTime *time.Duration `cbor:"9,keyasint,omitempty"`
}

type MessageType uint8

const (
	MessageTypeRequest MessageType = iota
	MessageTypeResponse
	MessageTypeCallback
)

func (m MessageType) String() string {
	return enumName([]string{"REQUEST", "RESPONSE", "CALLBACK"}, uint8(m))
}

// StateChangeEvent records a lifecycle step of a connection, federation,
// federate, its time state, or a save/restore.
type StateChangeEvent struct {
	Entity   StateEntity `cbor:"1,keyasint"`
	OldState string      `cbor:"2,keyasint,omitempty"`
	NewState string      `cbor:"3,keyasint"`
	Reason   string      `cbor:"4,keyasint,omitempty"`
}

type StateEntity uint8

const (
	StateEntityConnection StateEntity = iota
	StateEntityFederation
	StateEntityFederate
	StateEntityTime
	StateEntitySave
)

func (s StateEntity) String() string {
	return enumName([]string{"CONNECTION", "FEDERATION", "FEDERATE", "TIME", "SAVE"}, uint8(s))
}

// ControlMsgEvent is a ping, pong or close frame.
type ControlMsgEvent struct {
	Type ControlMsgType `cbor:"1,keyasint"`
}

type ControlMsgType uint8

const (
	ControlMsgPing ControlMsgType = iota
	ControlMsgPong
	ControlMsgClose
)

func (c ControlMsgType) String() string {
	return enumName([]string{"PING", "PONG", "CLOSE"}, uint8(c))
}

// ErrorEvent is a failure that never reached the peer as a response, such
// as an undecodable request or a dropped connection.
type ErrorEvent struct {
	Layer   Layer  `cbor:"1,keyasint"`
	Message string `cbor:"2,keyasint"`

	// Kind is the RTI exception name when the failure has one.
	Kind string `cbor:"3,keyasint,omitempty"`

	// Context names the step that failed.
	Context string `cbor:"4,keyasint,omitempty"`
}
