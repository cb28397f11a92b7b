package transport

import (
	"context"
	"net"
)

// Conn is the side of a connection a message handler sees.
type Conn interface {
	ConnID() string
	RemoteAddr() net.Addr
	Send(data []byte) error
	Done() <-chan struct{}
	Close() error
}

// Receiver returns inbound frames.
type Receiver interface {
	Receive(ctx context.Context) ([]byte, error)
}

// Link is a client connection: frames go out with Send and come back with
// Receive.
type Link interface {
	Conn
	Receiver
}

var (
	_ Conn = (*ServerConn)(nil)
	_ Link = (*ClientConn)(nil)
)
