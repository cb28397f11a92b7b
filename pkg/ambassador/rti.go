package ambassador

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openlvc/portico-sub003/pkg/fom"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
	"github.com/openlvc/portico-sub003/pkg/version"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

// DefaultCallTimeout bounds one service call, on top of any tick wait.
const DefaultCallTimeout = 30 * time.Second

// Config configures an RTIAmbassador.
type Config struct {
	// Logger receives binding logs. Nil disables logging.
	Logger *slog.Logger

	// CallTimeout bounds each service call.
	CallTimeout time.Duration
}

// DefaultConfig returns the default ambassador configuration.
func DefaultConfig() Config {
	return Config{CallTimeout: DefaultCallTimeout}
}

// RTIAmbassador is the federate's handle on the RTI. One federate is one
// ambassador; the ambassador is meant to be driven from a single goroutine,
// and an overlapping call from another goroutine fails with
// ConcurrentAccessAttempted.
type RTIAmbassador struct {
	conn   Connection
	config Config
	logger *slog.Logger
	nextID atomic.Uint32
	busy   sync.Mutex
	inTick atomic.Bool

	mu          sync.RWMutex
	federation  string
	federate    hla.FederateHandle
	executionID string
	model       *fom.Model
	fedAmb      FederateAmbassador
}

// New creates an ambassador over conn with the default configuration.
func New(conn Connection) *RTIAmbassador {
	return NewWithConfig(conn, DefaultConfig())
}

// NewWithConfig creates an ambassador over conn.
func NewWithConfig(conn Connection, config Config) *RTIAmbassador {
	if config.CallTimeout <= 0 {
		config.CallTimeout = DefaultCallTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RTIAmbassador{conn: conn, config: config, logger: logger}
}

// Federate returns the handle this ambassador joined as, or zero.
func (a *RTIAmbassador) Federate() hla.FederateHandle {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.federate
}

// FederationName returns the joined federation execution, or "".
func (a *RTIAmbassador) FederationName() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.federation
}

// ExecutionID identifies the joined federation execution.
func (a *RTIAmbassador) ExecutionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.executionID
}

// Model returns the FOM of the joined federation, or nil.
func (a *RTIAmbassador) Model() *fom.Model {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.model
}

// Close closes the underlying connection. A remote RTI resigns any federate
// still joined through it.
func (a *RTIAmbassador) Close() error {
	return a.conn.Close()
}

// call runs one service on behalf of the joined federate.
func (a *RTIAmbassador) call(ctx context.Context, op wire.Op, args wire.Args) (wire.Result, error) {
	a.mu.RLock()
	federation, federate := a.federation, a.federate
	a.mu.RUnlock()
	if federate == 0 {
		return wire.Result{}, rtierr.Errorf(rtierr.FederateNotExecutionMember, "%s: not joined", op)
	}
	return a.send(ctx, federation, federate, op, args)
}

// send issues one request. Overlapping requests fail with
// ConcurrentAccessAttempted.
func (a *RTIAmbassador) send(ctx context.Context, federation string, federate hla.FederateHandle, op wire.Op, args wire.Args) (wire.Result, error) {
	if !a.busy.TryLock() {
		return wire.Result{}, rtierr.Errorf(rtierr.ConcurrentAccessAttempted, "%s overlaps another call", op)
	}
	defer a.busy.Unlock()

	ctx, cancel := context.WithTimeout(ctx, a.config.CallTimeout+args.Wait)
	defer cancel()

	req := &wire.Request{
		Type:       wire.MessageTypeRequest,
		MessageID:  a.nextID.Add(1),
		Operation:  op,
		Version:    version.Current,
		Federation: federation,
		Federate:   federate,
		Args:       args,
	}
	resp, err := a.conn.Call(ctx, req)
	if err != nil {
		a.logger.Debug("call failed", "op", op.String(), "error", err)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return wire.Result{}, rtierr.Errorf(rtierr.RTIinternalError, "%s: %v", op, err)
		}
		return wire.Result{}, rtierr.Internal(err)
	}
	if err := resp.Err(); err != nil {
		return wire.Result{}, err
	}
	return resp.Result, nil
}

// Tick delivers every callback available now. It reports whether more
// callbacks are waiting.
func (a *RTIAmbassador) Tick(ctx context.Context) (bool, error) {
	return a.TickFor(ctx, 0)
}

// TickFor waits up to wait for the first callback, then delivers every
// callback available. It reports whether more callbacks are waiting.
func (a *RTIAmbassador) TickFor(ctx context.Context, wait time.Duration) (bool, error) {
	if a.inTick.Load() {
		return false, rtierr.New(rtierr.ConcurrentAccessAttempted, "tick called from a callback")
	}
	r, err := a.call(ctx, wire.OpTick, wire.Args{Wait: wait})
	if err != nil {
		return false, err
	}

	a.mu.RLock()
	fa := a.fedAmb
	a.mu.RUnlock()

	a.inTick.Store(true)
	defer a.inTick.Store(false)
	for i := range r.Callbacks {
		Dispatch(fa, &r.Callbacks[i])
	}
	return r.Pending > 0, nil
}

// EvokeMultipleCallbacks ticks until no callbacks remain or maxWait elapses.
// The first tick waits up to minWait. It returns the number of ticks made.
func (a *RTIAmbassador) EvokeMultipleCallbacks(ctx context.Context, minWait, maxWait time.Duration) (int, error) {
	deadline := time.Now().Add(maxWait)
	rounds := 0
	wait := minWait
	for {
		more, err := a.TickFor(ctx, wait)
		if err != nil {
			return rounds, err
		}
		rounds++
		if !more || time.Now().After(deadline) {
			return rounds, nil
		}
		wait = 0
	}
}
