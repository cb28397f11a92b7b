package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/openlvc/portico-sub003/pkg/log"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

// ErrServerRunning is returned by Start on a running server.
var ErrServerRunning = errors.New("server already running")

// ServerConfig configures the RTI listener.
type ServerConfig struct {
	// TLSConfig enables TLS when set.
	TLSConfig *TLSConfig

	// Address to listen on, ":8989" when empty.
	Address string

	// MaxMessageSize bounds one envelope (default 1 MiB).
	MaxMessageSize uint32

	// Logger receives frame, control and connection state events.
	Logger log.Logger

	OnConnect    func(conn *ServerConn)
	OnDisconnect func(conn *ServerConn)

	// OnMessage runs on the connection's read loop for every request frame.
	// Control frames never reach it.
	OnMessage func(conn *ServerConn, msg []byte)

	// OnError receives accept, handshake and read failures. conn is nil
	// before a connection is established.
	OnError func(conn *ServerConn, err error)
}

// Server accepts federate binding connections.
type Server struct {
	config   ServerConfig
	tlsConf  *tls.Config
	listener net.Listener

	mu    sync.RWMutex
	conns map[*ServerConn]struct{}

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer validates config and prepares a server; nothing listens until Start.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Address == "" {
		config.Address = fmt.Sprintf(":%d", DefaultPort)
	}
	if config.MaxMessageSize == 0 {
		config.MaxMessageSize = DefaultMaxMessageSize
	}

	s := &Server{config: config, conns: make(map[*ServerConn]struct{})}
	if config.TLSConfig != nil {
		tlsConf, err := NewServerTLSConfig(config.TLSConfig)
		if err != nil {
			return nil, fmt.Errorf("server TLS config: %w", err)
		}
		s.tlsConf = tlsConf
	}
	return s, nil
}

// Start listens and accepts connections until Stop or ctx ends.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return ErrServerRunning
	}
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Address, err)
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.listener = ln
	s.running.Store(true)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Stop closes the listener and every connection, then waits for their loops.
func (s *Server) Stop() error {
	if !s.running.Swap(false) {
		return nil
	}
	s.cancel()
	s.listener.Close()

	s.mu.Lock()
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ConnectionCount returns the number of open connections.
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for s.running.Load() {
		raw, err := s.listener.Accept()
		if err != nil {
			if s.running.Load() {
				s.reportError(nil, fmt.Errorf("accept: %w", err))
			}
			continue
		}
		s.wg.Add(1)
		go s.serve(raw)
	}
}

// secure runs the TLS handshake when TLS is configured.
func (s *Server) secure(raw net.Conn) (net.Conn, error) {
	if s.tlsConf == nil {
		return raw, nil
	}
	tc := tls.Server(raw, s.tlsConf)
	if err := tc.HandshakeContext(s.ctx); err != nil {
		raw.Close()
		return nil, fmt.Errorf("TLS handshake: %w", err)
	}
	if err := VerifyConnection(tc.ConnectionState()); err != nil {
		tc.Close()
		return nil, err
	}
	return tc, nil
}

func (s *Server) serve(raw net.Conn) {
	defer s.wg.Done()

	conn, err := s.secure(raw)
	if err != nil {
		s.reportError(nil, err)
		return
	}

	c := &ServerConn{
		conn:    conn,
		server:  s,
		connID:  uuid.New().String(),
		closeCh: make(chan struct{}),
	}
	c.framer = NewFramerWithMaxSize(conn, s.config.MaxMessageSize)
	if s.config.Logger != nil {
		c.framer.SetLogger(s.config.Logger, c.connID)
	}

	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
	c.traceState("", "CONNECTED")
	if s.config.OnConnect != nil {
		s.config.OnConnect(c)
	}

	c.readLoop()

	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	c.traceState("CONNECTED", "DISCONNECTED")
	if s.config.OnDisconnect != nil {
		s.config.OnDisconnect(c)
	}
}

func (s *Server) reportError(c *ServerConn, err error) {
	if s.config.OnError != nil {
		s.config.OnError(c, err)
	}
}

// ServerConn is one federate binding connection.
type ServerConn struct {
	conn   net.Conn
	framer *Framer
	server *Server
	connID string

	closeCh   chan struct{}
	closeOnce sync.Once
}

// RemoteAddr returns the binding's address.
func (c *ServerConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// ConnID identifies the connection in trace events and logs.
func (c *ServerConn) ConnID() string {
	return c.connID
}

// TLSState returns the negotiated TLS state when the connection uses TLS.
func (c *ServerConn) TLSState() (tls.ConnectionState, bool) {
	tc, ok := c.conn.(*tls.Conn)
	if !ok {
		return tls.ConnectionState{}, false
	}
	return tc.ConnectionState(), true
}

// Send writes one frame to the binding.
func (c *ServerConn) Send(data []byte) error {
	select {
	case <-c.closeCh:
		return ErrConnectionClosed
	default:
		return c.framer.WriteFrame(data)
	}
}

// Done is closed when the connection ends.
func (c *ServerConn) Done() <-chan struct{} {
	return c.closeCh
}

// Close ends the connection. It is safe to call more than once.
func (c *ServerConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		err = c.conn.Close()
	})
	return err
}

func (c *ServerConn) closed() bool {
	select {
	case <-c.closeCh:
		return true
	case <-c.server.ctx.Done():
		return true
	default:
		return false
	}
}

func (c *ServerConn) readLoop() {
	defer c.Close()
	for !c.closed() {
		data, err := c.framer.ReadFrame()
		if err != nil {
			if !c.closed() && c.server.running.Load() {
				c.server.reportError(c, err)
			}
			return
		}

		if msg := asControl(data); msg != nil {
			if c.handleControl(msg) {
				return
			}
			continue
		}
		if c.server.config.OnMessage != nil {
			c.server.config.OnMessage(c, data)
		}
	}
}

// handleControl answers pings. It reports whether the binding said goodbye.
func (c *ServerConn) handleControl(msg *wire.ControlMessage) bool {
	c.traceControl(msg.Type, log.DirectionIn)
	switch msg.Type {
	case wire.ControlPing:
		pong, err := EncodePong(msg.Sequence)
		if err == nil && c.Send(pong) == nil {
			c.traceControl(wire.ControlPong, log.DirectionOut)
		}
	case wire.ControlClose:
		return true
	}
	return false
}

func (c *ServerConn) event(layer log.Layer, category log.Category) log.Event {
	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Layer:        layer,
		Category:     category,
		LocalRole:    log.RoleRTI,
		RemoteAddr:   c.RemoteAddr().String(),
	}
}

func (c *ServerConn) traceState(from, to string) {
	logger := c.server.config.Logger
	if logger == nil {
		return
	}
	e := c.event(log.LayerTransport, log.CategoryState)
	e.StateChange = &log.StateChangeEvent{Entity: log.StateEntityConnection, OldState: from, NewState: to}
	logger.Log(e)
}

func (c *ServerConn) traceControl(typ wire.ControlMessageType, dir log.Direction) {
	logger := c.server.config.Logger
	traceType, ok := controlTraceTypes[typ]
	if logger == nil || !ok {
		return
	}
	e := c.event(log.LayerTransport, log.CategoryControl)
	e.Direction = dir
	e.ControlMsg = &log.ControlMsgEvent{Type: traceType}
	logger.Log(e)
}
