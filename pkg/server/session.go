package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/log"
	"github.com/openlvc/portico-sub003/pkg/transport"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

// membership is one federate joined through a connection.
type membership struct {
	federation string
	federate   hla.FederateHandle
}

// session is the server side of one binding connection.
type session struct {
	server *Server
	conn   *transport.ServerConn

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	joined map[membership]struct{}
}

func newSession(s *Server, conn *transport.ServerConn) *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		server: s,
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
		joined: make(map[membership]struct{}),
	}
}

// handle decodes a frame and processes it in the background.
func (ss *session) handle(data []byte) {
	msgType, err := wire.PeekMessageType(data)
	if err != nil {
		ss.server.traceError(ss.conn, err)
		return
	}
	if msgType != wire.MessageTypeRequest {
		ss.server.traceError(ss.conn, fmt.Errorf("unexpected %s from binding", msgType))
		return
	}
	req, err := wire.DecodeRequest(data)
	if err != nil {
		ss.server.traceError(ss.conn, err)
		return
	}

	ss.wg.Add(1)
	go func() {
		defer ss.wg.Done()
		ss.process(req)
	}()
}

func (ss *session) process(req *wire.Request) {
	start := time.Now()
	op := req.Operation
	ss.server.traceMessage(ss.conn, log.DirectionIn, req, &log.MessageEvent{
		Type:      log.MessageTypeRequest,
		MessageID: req.MessageID,
		Operation: &op,
	})

	resp := ss.server.kernel.Process(ss.ctx, req)
	ss.track(req, resp)

	elapsed := time.Since(start)
	msg := &log.MessageEvent{
		Type:           log.MessageTypeResponse,
		MessageID:      resp.MessageID,
		Operation:      &op,
		Callbacks:      len(resp.Result.Callbacks),
		ProcessingTime: &elapsed,
	}
	if resp.Error != nil {
		msg.ErrorKind = resp.Error.Kind
	}
	ss.server.traceMessage(ss.conn, log.DirectionOut, req, msg)

	data, err := wire.EncodeResponse(resp)
	if err != nil {
		ss.server.logger.Error("encode response failed", "op", op.String(), "error", err)
		data, err = wire.EncodeResponse(&wire.Response{
			Type:      wire.MessageTypeResponse,
			MessageID: req.MessageID,
			Error:     wire.NewErrorInfo(err),
		})
		if err != nil {
			return
		}
	}
	if err := ss.conn.Send(data); err != nil {
		ss.server.logger.Debug("response not sent", "conn", ss.conn.ConnID(), "op", op.String(), "error", err)
	}
}

// track records joins and resigns made through this connection.
func (ss *session) track(req *wire.Request, resp *wire.Response) {
	if !resp.IsSuccess() {
		return
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	switch req.Operation {
	case wire.OpJoinFederationExecution:
		ss.joined[membership{req.Federation, resp.Result.Federate}] = struct{}{}
	case wire.OpResignFederationExecution:
		delete(ss.joined, membership{req.Federation, req.Federate})
	}
}

// members returns the federates currently joined through the session.
func (ss *session) members() []membership {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	out := make([]membership, 0, len(ss.joined))
	for m := range ss.joined {
		out = append(out, m)
	}
	return out
}

// close stops in-flight requests and resigns every federate the
// connection left joined.
func (ss *session) close() {
	ss.cancel()
	ss.wg.Wait()
	for _, m := range ss.members() {
		ss.server.kernel.Disconnect(m.federation, m.federate)
	}
}
