package transport

import (
	"github.com/openlvc/portico-sub003/pkg/log"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

// EncodePing encodes a liveness probe.
func EncodePing(seq uint32) ([]byte, error) {
	return wire.EncodeControlMessage(&wire.ControlMessage{Type: wire.ControlPing, Sequence: seq})
}

// EncodePong encodes the answer to the ping with sequence seq.
func EncodePong(seq uint32) ([]byte, error) {
	return wire.EncodeControlMessage(&wire.ControlMessage{Type: wire.ControlPong, Sequence: seq})
}

// EncodeClose encodes an orderly goodbye.
func EncodeClose() ([]byte, error) {
	return wire.EncodeControlMessage(&wire.ControlMessage{Type: wire.ControlClose})
}

// asControl returns the control message carried by a frame, or nil when the
// frame is a request, a response or undecodable.
func asControl(data []byte) *wire.ControlMessage {
	typ, err := wire.PeekMessageType(data)
	if err != nil || typ != wire.MessageTypeControl {
		return nil
	}
	msg, err := wire.DecodeControlMessage(data)
	if err != nil {
		return nil
	}
	return msg
}

var controlTraceTypes = map[wire.ControlMessageType]log.ControlMsgType{
	wire.ControlPing:  log.ControlMsgPing,
	wire.ControlPong:  log.ControlMsgPong,
	wire.ControlClose: log.ControlMsgClose,
}
