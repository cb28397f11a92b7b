package ambassador_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlvc/portico-sub003/pkg/ambassador"
	"github.com/openlvc/portico-sub003/pkg/transport"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

// pipeLink is an in-memory transport.Link. The test plays the RTI by reading
// sent and writing inbox.
type pipeLink struct {
	sent   chan []byte
	inbox  chan []byte
	closed chan struct{}
	once   sync.Once
}

func newPipeLink() *pipeLink {
	return &pipeLink{sent: make(chan []byte, 4), inbox: make(chan []byte, 4), closed: make(chan struct{})}
}

func (p *pipeLink) ConnID() string        { return "pipe" }
func (p *pipeLink) RemoteAddr() net.Addr  { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: transport.DefaultPort} }
func (p *pipeLink) Done() <-chan struct{} { return p.closed }

func (p *pipeLink) Send(data []byte) error {
	select {
	case <-p.closed:
		return transport.ErrConnectionClosed
	case p.sent <- data:
		return nil
	}
}

func (p *pipeLink) Receive(ctx context.Context) ([]byte, error) {
	select {
	case data := <-p.inbox:
		return data, nil
	case <-p.closed:
		return nil, transport.ErrConnectionClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *pipeLink) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

func (p *pipeLink) reply(t *testing.T, resp *wire.Response) {
	t.Helper()
	data, err := wire.EncodeResponse(resp)
	require.NoError(t, err)
	p.inbox <- data
}

func TestRemoteConnectionMatchesResponsesById(t *testing.T) {
	link := newPipeLink()
	conn := ambassador.NewRemoteConnection(link, nil)
	defer conn.Close()

	type result struct {
		resp *wire.Response
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := conn.Call(context.Background(), &wire.Request{MessageID: 7, Operation: wire.OpQueryLBTS})
		done <- result{resp, err}
	}()

	var sent []byte
	select {
	case sent = <-link.sent:
	case <-time.After(time.Second):
		t.Fatal("request not sent")
	}
	req, err := wire.DecodeRequest(sent)
	require.NoError(t, err)
	assert.Equal(t, wire.OpQueryLBTS, req.Operation)

	link.reply(t, &wire.Response{MessageID: 99})
	link.reply(t, &wire.Response{MessageID: 7, Result: wire.Result{Federate: 3}})

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.EqualValues(t, 3, r.resp.Result.Federate)
	case <-time.After(time.Second):
		t.Fatal("call did not complete")
	}
}

func TestRemoteConnectionFailsPendingCallsWhenLinkDrops(t *testing.T) {
	link := newPipeLink()
	conn := ambassador.NewRemoteConnection(link, nil)

	errCh := make(chan error, 1)
	go func() {
		_, err := conn.Call(context.Background(), &wire.Request{MessageID: 1, Operation: wire.OpTick})
		errCh <- err
	}()
	<-link.sent
	require.NoError(t, link.Close())

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ambassador.ErrConnectionClosed)
	case <-time.After(time.Second):
		t.Fatal("pending call not failed")
	}
	<-conn.Done()

	_, err := conn.Call(context.Background(), &wire.Request{MessageID: 2, Operation: wire.OpTick})
	assert.ErrorIs(t, err, ambassador.ErrConnectionClosed)
}
