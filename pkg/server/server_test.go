package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlvc/portico-sub003/pkg/fom"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rti"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
	"github.com/openlvc/portico-sub003/pkg/transport"
	"github.com/openlvc/portico-sub003/pkg/version"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

const federation = "ServerTest"

func startServer(t *testing.T) *Server {
	t.Helper()
	k := rti.NewKernel()
	_, err := k.CreateFederation(federation, &fom.Document{
		Name: "ServerFOM",
		Objects: []fom.ObjectClassDoc{{
			Name:       "Vehicle",
			Attributes: []fom.AttributeDoc{{Name: "position"}},
		}},
	})
	require.NoError(t, err)

	srv, err := New(k, Config{Address: "127.0.0.1:0"})
	require.NoError(t, err)
	require.NoError(t, srv.Start(context.Background()))
	t.Cleanup(func() { srv.Stop() })
	return srv
}

type binding struct {
	t    *testing.T
	conn *transport.ClientConn
}

func dial(t *testing.T, srv *Server) *binding {
	t.Helper()
	conn, err := transport.NewClient(transport.ClientConfig{}).Connect(context.Background(), srv.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &binding{t: t, conn: conn}
}

func (b *binding) send(id uint32, fed hla.FederateHandle, op wire.Op, args wire.Args) {
	b.t.Helper()
	data, err := wire.EncodeRequest(&wire.Request{
		Type:       wire.MessageTypeRequest,
		MessageID:  id,
		Operation:  op,
		Version:    version.Current,
		Federation: federation,
		Federate:   fed,
		Args:       args,
	})
	require.NoError(b.t, err)
	require.NoError(b.t, b.conn.Send(data))
}

func (b *binding) receive() *wire.Response {
	b.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, err := b.conn.Receive(ctx)
	require.NoError(b.t, err)
	resp, err := wire.DecodeResponse(data)
	require.NoError(b.t, err)
	return resp
}

func (b *binding) call(id uint32, fed hla.FederateHandle, op wire.Op, args wire.Args) *wire.Response {
	b.t.Helper()
	b.send(id, fed, op, args)
	resp := b.receive()
	require.Equal(b.t, id, resp.MessageID)
	return resp
}

func (b *binding) join(id uint32, fedType string) hla.FederateHandle {
	b.t.Helper()
	resp := b.call(id, 0, wire.OpJoinFederationExecution, wire.Args{FederateType: fedType})
	require.NoError(b.t, resp.Err())
	require.NotZero(b.t, resp.Result.Federate)
	return resp.Result.Federate
}

func members(t *testing.T, srv *Server) int {
	f, ok := srv.Kernel().Federation(federation)
	require.True(t, ok)
	return f.MemberCount()
}

func TestJoinOverConnection(t *testing.T) {
	srv := startServer(t)
	b := dial(t, srv)

	fed := b.join(1, "remote")
	assert.Equal(t, 1, srv.SessionCount())
	assert.Equal(t, 1, members(t, srv))

	resp := b.call(2, fed, wire.OpQueryFederateTime, wire.Args{})
	require.NoError(t, resp.Err())
	require.NotNil(t, resp.Result.Time)
	assert.Equal(t, 0.0, resp.Result.Time.Float64())
}

func TestErrorsCrossTheWire(t *testing.T) {
	srv := startServer(t)
	b := dial(t, srv)

	resp := b.call(1, 42, wire.OpPublishObjectClass, wire.Args{})
	require.Error(t, resp.Err())
	assert.ErrorIs(t, resp.Err(), rtierr.FederateNotExecutionMember)

	data, err := wire.EncodeRequest(&wire.Request{
		Type:       wire.MessageTypeRequest,
		MessageID:  2,
		Operation:  wire.OpJoinFederationExecution,
		Version:    version.Current,
		Federation: "NoSuchFederation",
	})
	require.NoError(t, err)
	require.NoError(t, b.conn.Send(data))
	assert.ErrorIs(t, b.receive().Err(), rtierr.FederationExecutionDoesNotExist)
}

func TestDisconnectResignsFederates(t *testing.T) {
	srv := startServer(t)
	b := dial(t, srv)
	b.join(1, "first")
	b.join(2, "second")
	require.Equal(t, 2, members(t, srv))

	require.NoError(t, b.conn.Close())
	require.Eventually(t, func() bool {
		return members(t, srv) == 0 && srv.SessionCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestResignedFederateIsNotResignedTwice(t *testing.T) {
	srv := startServer(t)
	b := dial(t, srv)
	fed := b.join(1, "short")
	resp := b.call(2, fed, wire.OpResignFederationExecution, wire.Args{Action: hla.NoAction})
	require.NoError(t, resp.Err())

	other := dial(t, srv)
	other.join(1, "stays")

	require.NoError(t, b.conn.Close())
	require.Eventually(t, func() bool { return srv.SessionCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, members(t, srv))
}

func TestWaitingTickDoesNotBlockConnection(t *testing.T) {
	srv := startServer(t)
	b := dial(t, srv)
	fed := b.join(1, "ticker")

	b.send(2, fed, wire.OpTick, wire.Args{Wait: 5 * time.Second})
	resp := b.call(3, fed, wire.OpQueryLookahead, wire.Args{})
	assert.Equal(t, uint32(3), resp.MessageID)

	// The tick is still waiting; closing the connection cancels it.
	require.NoError(t, b.conn.Close())
	require.Eventually(t, func() bool { return members(t, srv) == 0 }, 2*time.Second, 10*time.Millisecond)
}
