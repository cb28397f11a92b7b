package wire

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/fom"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

func TestRequestEncoding(t *testing.T) {
	ts := fedtime.Time(12.5)
	req := &Request{
		MessageID:  7,
		Operation:  OpUpdateAttributeValues,
		Version:    "1.0",
		Federation: "fed",
		Federate:   3,
		Args: Args{
			Object: 42,
			Values: hla.AttributeHandleValueMap{1: []byte("a"), 2: []byte("bc")},
			Tag:    []byte("tag"),
			Time:   &ts,
			Wait:   250 * time.Millisecond,
		},
	}

	data, err := EncodeRequest(req)
	require.NoError(t, err)

	typ, err := PeekMessageType(data)
	require.NoError(t, err)
	assert.Equal(t, MessageTypeRequest, typ)

	got, err := DecodeRequest(data)
	require.NoError(t, err)
	assert.Equal(t, req.Operation, got.Operation)
	assert.Equal(t, hla.FederateHandle(3), got.Federate)
	assert.Equal(t, req.Args.Values, got.Args.Values)
	require.NotNil(t, got.Args.Time)
	assert.Equal(t, ts, *got.Args.Time)
	assert.Equal(t, 250*time.Millisecond, got.Args.Wait)
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"zero message id", Request{Operation: OpTick}},
		{"no operation", Request{MessageID: 1}},
		{"unknown operation", Request{MessageID: 1, Operation: Op(250)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EncodeRequest(&tt.req); err == nil {
				t.Error("EncodeRequest() error = nil, want error")
			}
		})
	}
}

func TestResponseCarriesCallbacks(t *testing.T) {
	grant := fedtime.Time(100)
	resp := &Response{
		MessageID: 9,
		Result: Result{
			Callbacks: []Callback{
				{Kind: CallbackAnnounceSynchronizationPoint, Label: "ready", Tag: []byte("x")},
				{Kind: CallbackTimeAdvanceGrant, Time: &grant},
			},
			Pending: 2,
		},
	}
	data, err := EncodeResponse(resp)
	require.NoError(t, err)

	typ, err := PeekMessageType(data)
	require.NoError(t, err)
	assert.Equal(t, MessageTypeResponse, typ)

	got, err := DecodeResponse(data)
	require.NoError(t, err)
	assert.True(t, got.IsSuccess())
	require.Len(t, got.Result.Callbacks, 2)
	assert.Equal(t, "ready", got.Result.Callbacks[0].Label)
	assert.Equal(t, grant, *got.Result.Callbacks[1].Time)
	assert.Equal(t, 2, got.Result.Pending)
}

func TestInfiniteTimeSurvivesEncoding(t *testing.T) {
	lbts := fedtime.Infinity
	data, err := EncodeResponse(&Response{MessageID: 1, Result: Result{Time: &lbts}})
	require.NoError(t, err)

	got, err := DecodeResponse(data)
	require.NoError(t, err)
	assert.True(t, got.Result.Time.IsInfinite())
}

func TestErrorInfoRoundTrip(t *testing.T) {
	err := rtierr.New(rtierr.AttributeNotOwned, "attribute 3 of object 9")
	resp := &Response{MessageID: 4, Error: NewErrorInfo(err)}

	data, encErr := EncodeResponse(resp)
	require.NoError(t, encErr)
	got, decErr := DecodeResponse(data)
	require.NoError(t, decErr)

	assert.False(t, got.IsSuccess())
	back := got.Err()
	assert.True(t, errors.Is(back, rtierr.AttributeNotOwned))
	assert.Contains(t, back.Error(), "attribute 3 of object 9")
}

func TestErrorInfoNames(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want rtierr.Kind
	}{
		{"typed", rtierr.New(rtierr.InvalidLookahead, ""), rtierr.InvalidLookahead},
		{"bare kind", rtierr.ObjectNotKnown, rtierr.ObjectNotKnown},
		{"foreign", errors.New("boom"), rtierr.RTIinternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rtierr.KindOf(NewErrorInfo(tt.in).Err())
			if got != tt.want {
				t.Errorf("round trip kind = %v, want %v", got, tt.want)
			}
		})
	}

	// Either spelling is accepted.
	e := &ErrorInfo{Kind: "InvalidLogicalTime"}
	assert.Equal(t, rtierr.InvalidFederationTime, rtierr.KindOf(e.Err()))

	e = &ErrorInfo{Kind: "NoSuchThing"}
	assert.Equal(t, rtierr.RTIinternalError, rtierr.KindOf(e.Err()))

	assert.Nil(t, NewErrorInfo(nil))
}

func TestJoinResultCarriesFOM(t *testing.T) {
	doc := &fom.Document{
		Name: "test",
		Objects: []fom.ObjectClassDoc{
			{Name: "A", Attributes: []fom.AttributeDoc{{Name: "aa"}, {Name: "ab", Order: "timestamp"}}},
		},
	}
	data, err := EncodeResponse(&Response{MessageID: 2, Result: Result{Federate: 1, FOM: doc}})
	require.NoError(t, err)

	got, err := DecodeResponse(data)
	require.NoError(t, err)
	require.NotNil(t, got.Result.FOM)
	assert.Equal(t, *doc, *got.Result.FOM)
}

func TestControlMessage(t *testing.T) {
	data, err := EncodeControlMessage(&ControlMessage{Type: ControlPing, Sequence: 5})
	require.NoError(t, err)

	typ, err := PeekMessageType(data)
	require.NoError(t, err)
	assert.Equal(t, MessageTypeControl, typ)

	msg, err := DecodeControlMessage(data)
	require.NoError(t, err)
	assert.Equal(t, ControlPing, msg.Type)
	assert.Equal(t, uint32(5), msg.Sequence)

	_, err = DecodeResponse(data)
	assert.Error(t, err)
}

func TestPeekRejectsUnknown(t *testing.T) {
	data, err := Marshal(map[int]int{0: 99})
	require.NoError(t, err)
	_, err = PeekMessageType(data)
	assert.Error(t, err)
}

func TestOpNames(t *testing.T) {
	for op := OpNone + 1; op < opCount; op++ {
		name := op.String()
		if name == "Unknown" {
			t.Errorf("Op(%d) has no name", op)
			continue
		}
		back, ok := ParseOp(name)
		if !ok || back != op {
			t.Errorf("ParseOp(%q) = %v, %v; want %v", name, back, ok, op)
		}
	}
	assert.False(t, OpNone.IsValid())
	assert.Equal(t, "Unknown", Op(250).String())
}

func TestCallbackKinds(t *testing.T) {
	assert.Equal(t, "timeAdvanceGrant", CallbackTimeAdvanceGrant.String())
	assert.Equal(t, "announceSynchronizationPoint", CallbackAnnounceSynchronizationPoint.String())
	assert.True(t, CallbackReflectAttributeValues.IsMessage())
	assert.True(t, CallbackRemoveObjectInstance.IsMessage())
	assert.False(t, CallbackDiscoverObjectInstance.IsMessage())
	assert.False(t, CallbackTimeAdvanceGrant.IsMessage())
}
