package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Encoding is canonical so equal envelopes encode to equal bytes. Decoding
// tolerates duplicate keys and indefinite lengths from other encoders.
var (
	encMode = mustMode(cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeUnix,
	}.EncMode())

	decMode = mustMode(cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}.DecMode())
)

func mustMode[T any](mode T, err error) T {
	if err != nil {
		panic("wire: cbor mode: " + err.Error())
	}
	return mode
}

// Marshal encodes v in the wire encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes data in the wire encoding into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// EncodeRequest validates req and encodes it.
func EncodeRequest(req *Request) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	req.Type = MessageTypeRequest
	return Marshal(req)
}

// DecodeRequest decodes and validates a request envelope.
func DecodeRequest(data []byte) (*Request, error) {
	req, err := decode[Request](data, MessageTypeRequest, func(r *Request) MessageType { return r.Type })
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return req, nil
}

// EncodeResponse encodes a response envelope.
func EncodeResponse(resp *Response) ([]byte, error) {
	resp.Type = MessageTypeResponse
	return Marshal(resp)
}

// DecodeResponse decodes a response envelope.
func DecodeResponse(data []byte) (*Response, error) {
	return decode[Response](data, MessageTypeResponse, func(r *Response) MessageType { return r.Type })
}

// EncodeControlMessage encodes a ping, pong or close.
func EncodeControlMessage(msg *ControlMessage) ([]byte, error) {
	msg.MsgType = MessageTypeControl
	return Marshal(msg)
}

// DecodeControlMessage decodes a ping, pong or close.
func DecodeControlMessage(data []byte) (*ControlMessage, error) {
	return decode[ControlMessage](data, MessageTypeControl, func(m *ControlMessage) MessageType { return m.MsgType })
}

func decode[T any](data []byte, want MessageType, typeOf func(*T) MessageType) (*T, error) {
	var v T
	if err := Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", want, err)
	}
	if got := typeOf(&v); got != want {
		return nil, fmt.Errorf("expected %s message, got %s", want, got)
	}
	return &v, nil
}

// PeekMessageType reads key 0 of an envelope without decoding the rest.
func PeekMessageType(data []byte) (MessageType, error) {
	var peek struct {
		Type MessageType `cbor:"0,keyasint"`
	}
	if err := Unmarshal(data, &peek); err != nil {
		return MessageTypeUnknown, fmt.Errorf("peek message type: %w", err)
	}
	if !peek.Type.IsValid() {
		return MessageTypeUnknown, fmt.Errorf("unknown message type %d", peek.Type)
	}
	return peek.Type, nil
}
