package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openlvc/portico-sub003/pkg/log"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

// ErrConnectionClosed is returned when using a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

// ClientConfig configures an RTI client.
type ClientConfig struct {
	// TLSConfig enables TLS when set.
	TLSConfig *TLSConfig

	// MaxMessageSize is the maximum message size (default: 1 MiB).
	MaxMessageSize uint32

	// ConnectTimeout is the connection timeout (default: 10s).
	ConnectTimeout time.Duration

	// KeepAlive configures liveness pings. A zero PingInterval disables them.
	KeepAlive KeepAliveConfig

	// Logger for protocol tracing (optional).
	Logger log.Logger
}

// Client dials the RTI.
type Client struct {
	config  ClientConfig
	tlsConf *tls.Config
}

// NewClient creates a new client.
func NewClient(config ClientConfig) *Client {
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = 10 * time.Second
	}
	c := &Client{config: config}
	if config.TLSConfig != nil {
		c.tlsConf = NewClientTLSConfig(config.TLSConfig)
	}
	return c
}

// Connect establishes a connection to the specified address.
func (c *Client) Connect(ctx context.Context, address string) (*ClientConn, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.ConnectTimeout)
		defer cancel()
	}

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	if c.tlsConf != nil {
		tlsConn := tls.Client(conn, c.tlsConf)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("TLS handshake failed: %w", err)
		}
		if err := VerifyConnection(tlsConn.ConnectionState()); err != nil {
			tlsConn.Close()
			return nil, fmt.Errorf("connection verification failed: %w", err)
		}
		conn = tlsConn
	}

	connID := uuid.New().String()
	framer := NewFramerWithMaxSize(conn, c.config.MaxMessageSize)
	if c.config.Logger != nil {
		framer.SetLogger(c.config.Logger, connID)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	cc := &ClientConn{
		conn:    conn,
		framer:  framer,
		connID:  connID,
		frames:  make(chan []byte, 16),
		closeCh: make(chan struct{}),
		cancel:  cancel,
	}
	if c.config.KeepAlive.PingInterval > 0 {
		cc.keepAlive = NewKeepAlive(c.config.KeepAlive, cc.SendPing, func() {
			cc.fail(errors.New("keep-alive timeout"))
		})
		go cc.keepAlive.Run(runCtx)
	}
	go cc.readLoop()
	return cc, nil
}

// ClientConn is a connection from a federate binding to the RTI. Control
// frames are handled internally; everything else is returned by Receive.
type ClientConn struct {
	conn      net.Conn
	framer    *Framer
	connID    string
	keepAlive *KeepAlive
	frames    chan []byte
	cancel    context.CancelFunc

	closeCh   chan struct{}
	closeOnce sync.Once
	errMu     sync.Mutex
	err       error
}

// ConnID returns the connection identifier used in trace events.
func (c *ClientConn) ConnID() string {
	return c.connID
}

// LocalAddr returns the local network address.
func (c *ClientConn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// RemoteAddr returns the remote network address.
func (c *ClientConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// TLSState returns the TLS connection state, if the connection uses TLS.
func (c *ClientConn) TLSState() (tls.ConnectionState, bool) {
	if tc, ok := c.conn.(*tls.Conn); ok {
		return tc.ConnectionState(), true
	}
	return tls.ConnectionState{}, false
}

// Send sends a message to the server.
func (c *ClientConn) Send(data []byte) error {
	select {
	case <-c.closeCh:
		return ErrConnectionClosed
	default:
	}
	return c.framer.WriteFrame(data)
}

// Receive returns the next non-control frame from the server.
func (c *ClientConn) Receive(ctx context.Context) ([]byte, error) {
	select {
	case data, ok := <-c.frames:
		if !ok {
			return nil, c.Err()
		}
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Done is closed when the connection ends.
func (c *ClientConn) Done() <-chan struct{} {
	return c.closeCh
}

// Err returns the reason the connection ended.
func (c *ClientConn) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.err == nil {
		return ErrConnectionClosed
	}
	return c.err
}

// Close tells the server the connection is ending and closes it.
func (c *ClientConn) Close() error {
	_ = c.SendClose()
	return c.fail(ErrConnectionClosed)
}

// SendPing sends a ping control message.
func (c *ClientConn) SendPing(seq uint32) error {
	msg, err := EncodePing(seq)
	if err != nil {
		return err
	}
	return c.Send(msg)
}

// SendClose sends a close control message.
func (c *ClientConn) SendClose() error {
	msg, err := EncodeClose()
	if err != nil {
		return err
	}
	return c.Send(msg)
}

func (c *ClientConn) fail(err error) error {
	var cerr error
	c.closeOnce.Do(func() {
		c.errMu.Lock()
		c.err = err
		c.errMu.Unlock()
		c.cancel()
		close(c.closeCh)
		cerr = c.conn.Close()
	})
	return cerr
}

func (c *ClientConn) readLoop() {
	defer close(c.frames)
	for {
		data, err := c.framer.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				err = ErrConnectionClosed
			}
			c.fail(err)
			return
		}

		if msg := asControl(data); msg != nil {
			if c.handleControl(msg) {
				return
			}
			continue
		}

		select {
		case c.frames <- data:
		case <-c.closeCh:
			return
		}
	}
}

// handleControl reports whether the server asked to close.
func (c *ClientConn) handleControl(msg *wire.ControlMessage) bool {
	switch msg.Type {
	case wire.ControlPong:
		if c.keepAlive != nil {
			c.keepAlive.PongReceived(msg.Sequence)
		}
	case wire.ControlPing:
		if pong, err := EncodePong(msg.Sequence); err == nil {
			_ = c.Send(pong)
		}
	case wire.ControlClose:
		c.fail(ErrConnectionClosed)
		return true
	}
	return false
}
