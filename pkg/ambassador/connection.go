package ambassador

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/openlvc/portico-sub003/pkg/rti"
	"github.com/openlvc/portico-sub003/pkg/transport"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

// Connection errors.
var (
	ErrConnectionClosed = errors.New("connection to the RTI is closed")
	ErrUnexpectedReply  = errors.New("unexpected reply")
)

// Connection carries requests to an RTI and returns its responses.
type Connection interface {
	// Call sends req and waits for the matching response.
	Call(ctx context.Context, req *wire.Request) (*wire.Response, error)

	// Close releases the connection.
	Close() error
}

// LocalConnection calls a kernel in the same process.
type LocalConnection struct {
	kernel *rti.Kernel
}

// NewLocalConnection returns a connection to kernel.
func NewLocalConnection(kernel *rti.Kernel) *LocalConnection {
	return &LocalConnection{kernel: kernel}
}

// Call processes req in the kernel.
func (c *LocalConnection) Call(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	return c.kernel.Process(ctx, req), nil
}

// Close does nothing; the kernel outlives its connections.
func (c *LocalConnection) Close() error { return nil }

// Kernel returns the kernel behind the connection.
func (c *LocalConnection) Kernel() *rti.Kernel { return c.kernel }

// RemoteConnection calls an RTI server over the transport. Responses are
// matched to requests by message id, so calls from several goroutines may be
// in flight at once.
type RemoteConnection struct {
	conn   transport.Link
	logger *slog.Logger

	mu      sync.Mutex
	pending map[uint32]chan *wire.Response
	closed  bool

	done chan struct{}
}

// NewRemoteConnection starts reading responses from conn.
func NewRemoteConnection(conn transport.Link, logger *slog.Logger) *RemoteConnection {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &RemoteConnection{
		conn:    conn,
		logger:  logger,
		pending: make(map[uint32]chan *wire.Response),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

// Call sends req and waits for the response with the same message id.
func (c *RemoteConnection) Call(ctx context.Context, req *wire.Request) (*wire.Response, error) {
	respCh := make(chan *wire.Response, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrConnectionClosed
	}
	if _, dup := c.pending[req.MessageID]; dup {
		c.mu.Unlock()
		return nil, fmt.Errorf("message id %d already in flight", req.MessageID)
	}
	c.pending[req.MessageID] = respCh
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, req.MessageID)
		c.mu.Unlock()
	}()

	data, err := wire.EncodeRequest(req)
	if err != nil {
		return nil, err
	}
	if err := c.conn.Send(data); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case resp, ok := <-respCh:
		if !ok {
			return nil, ErrConnectionClosed
		}
		return resp, nil
	}
}

// Done is closed once the connection is gone.
func (c *RemoteConnection) Done() <-chan struct{} {
	return c.done
}

// Close closes the transport connection and fails every pending call.
func (c *RemoteConnection) Close() error {
	err := c.conn.Close()
	<-c.done
	return err
}

func (c *RemoteConnection) readLoop() {
	defer c.shutdown()
	for {
		data, err := c.conn.Receive(context.Background())
		if err != nil {
			if !errors.Is(err, transport.ErrConnectionClosed) {
				c.logger.Warn("RTI connection lost", "error", err)
			}
			return
		}
		resp, err := wire.DecodeResponse(data)
		if err != nil {
			c.logger.Warn("undecodable response", "error", err)
			continue
		}
		if err := c.deliver(resp); err != nil {
			c.logger.Debug("dropping response", "id", resp.MessageID, "error", err)
		}
	}
}

func (c *RemoteConnection) deliver(resp *wire.Response) error {
	c.mu.Lock()
	ch, ok := c.pending[resp.MessageID]
	c.mu.Unlock()
	if !ok {
		return ErrUnexpectedReply
	}
	select {
	case ch <- resp:
	default:
	}
	return nil
}

func (c *RemoteConnection) shutdown() {
	c.mu.Lock()
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.mu.Unlock()
	close(c.done)
}

var (
	_ Connection = (*LocalConnection)(nil)
	_ Connection = (*RemoteConnection)(nil)
)
