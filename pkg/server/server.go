package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/openlvc/portico-sub003/pkg/log"
	"github.com/openlvc/portico-sub003/pkg/rti"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
	"github.com/openlvc/portico-sub003/pkg/transport"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

// Config configures the RTI server.
type Config struct {
	// Address to listen on. Defaults to ":8989".
	Address string

	// TLSConfig enables TLS when set.
	TLSConfig *transport.TLSConfig

	// MaxMessageSize caps a single frame. Zero uses the transport default.
	MaxMessageSize uint32

	// Logger receives operational logs.
	Logger *slog.Logger

	// Trace receives transport frames and every request and response.
	Trace log.Logger
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{Address: fmt.Sprintf(":%d", transport.DefaultPort)}
}

// Server serves one kernel to remote bindings.
type Server struct {
	kernel *rti.Kernel
	config Config
	logger *slog.Logger
	trace  log.Logger

	transport *transport.Server

	mu       sync.Mutex
	sessions map[*transport.ServerConn]*session
}

// New creates a server for kernel.
func New(kernel *rti.Kernel, config Config) (*Server, error) {
	if kernel == nil {
		return nil, errors.New("server: nil kernel")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	trace := config.Trace
	if trace == nil {
		trace = log.NoopLogger{}
	}

	s := &Server{
		kernel:   kernel,
		config:   config,
		logger:   logger,
		trace:    trace,
		sessions: make(map[*transport.ServerConn]*session),
	}

	ts, err := transport.NewServer(transport.ServerConfig{
		TLSConfig:      config.TLSConfig,
		Address:        config.Address,
		MaxMessageSize: config.MaxMessageSize,
		Logger:         config.Trace,
		OnConnect:      s.onConnect,
		OnDisconnect:   s.onDisconnect,
		OnMessage:      s.onMessage,
		OnError:        s.onError,
	})
	if err != nil {
		return nil, err
	}
	s.transport = ts
	return s, nil
}

// Start begins accepting connections.
func (s *Server) Start(ctx context.Context) error {
	if err := s.transport.Start(ctx); err != nil {
		return err
	}
	s.logger.Info("RTI listening", "addr", s.transport.Addr().String(), "tls", s.config.TLSConfig != nil)
	return nil
}

// Stop closes every connection and waits for them to wind down. Federates
// joined through those connections are resigned.
func (s *Server) Stop() error {
	return s.transport.Stop()
}

// Addr returns the listen address once started.
func (s *Server) Addr() net.Addr {
	return s.transport.Addr()
}

// SessionCount returns the number of connected bindings.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Kernel returns the served kernel.
func (s *Server) Kernel() *rti.Kernel {
	return s.kernel
}

func (s *Server) onConnect(conn *transport.ServerConn) {
	sess := newSession(s, conn)
	s.mu.Lock()
	s.sessions[conn] = sess
	s.mu.Unlock()
	s.logger.Debug("binding connected", "conn", conn.ConnID(), "remote", conn.RemoteAddr().String())
}

func (s *Server) onDisconnect(conn *transport.ServerConn) {
	s.mu.Lock()
	sess, ok := s.sessions[conn]
	delete(s.sessions, conn)
	s.mu.Unlock()
	if !ok {
		return
	}
	sess.close()
	s.logger.Debug("binding disconnected", "conn", conn.ConnID())
}

func (s *Server) onMessage(conn *transport.ServerConn, data []byte) {
	s.mu.Lock()
	sess, ok := s.sessions[conn]
	s.mu.Unlock()
	if !ok {
		return
	}
	sess.handle(data)
}

func (s *Server) onError(conn *transport.ServerConn, err error) {
	attrs := []any{"error", err}
	if conn != nil {
		attrs = append(attrs, "conn", conn.ConnID())
	}
	s.logger.Warn("transport error", attrs...)
}

func (s *Server) traceMessage(conn *transport.ServerConn, dir log.Direction, req *wire.Request, msg *log.MessageEvent) {
	s.trace.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: conn.ConnID(),
		Direction:    dir,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		LocalRole:    log.RoleRTI,
		RemoteAddr:   conn.RemoteAddr().String(),
		Federation:   req.Federation,
		Federate:     req.Federate,
		Message:      msg,
	})
}

func (s *Server) traceError(conn *transport.ServerConn, err error) {
	s.trace.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: conn.ConnID(),
		Direction:    log.DirectionIn,
		Layer:        log.LayerWire,
		Category:     log.CategoryError,
		LocalRole:    log.RoleRTI,
		RemoteAddr:   conn.RemoteAddr().String(),
		Error:        &log.ErrorEvent{Layer: log.LayerWire, Message: err.Error(), Kind: rtierr.KindOf(err).String(), Context: "decode request"},
	})
}
