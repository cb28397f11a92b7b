package rti

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openlvc/portico-sub003/pkg/fom"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/log"
	"github.com/openlvc/portico-sub003/pkg/persistence"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
	"github.com/openlvc/portico-sub003/pkg/version"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

// DefaultMaxTickWait bounds how long a single tick may wait for callbacks.
const DefaultMaxTickWait = 30 * time.Second

// Config configures a Kernel.
type Config struct {
	// Logger receives operational logs. Nil disables logging.
	Logger *slog.Logger

	// Trace receives federation, federate, time and save state changes.
	// Nil disables tracing.
	Trace log.Logger

	// Store keeps federation saves. Without a store every save ends in
	// federationNotSaved and every restore request fails.
	Store *persistence.Store

	// MaxTickWait caps the wait a tick may ask for.
	MaxTickWait time.Duration
}

// DefaultConfig returns the default kernel configuration.
func DefaultConfig() Config {
	return Config{MaxTickWait: DefaultMaxTickWait}
}

// Kernel holds every federation execution of one RTI.
type Kernel struct {
	mu          sync.RWMutex
	config      Config
	logger      *slog.Logger
	trace       log.Logger
	federations map[string]*Federation
}

// NewKernel creates a kernel with the default configuration.
func NewKernel() *Kernel {
	return NewKernelWithConfig(DefaultConfig())
}

// NewKernelWithConfig creates a kernel with the given configuration.
func NewKernelWithConfig(config Config) *Kernel {
	if config.MaxTickWait <= 0 {
		config.MaxTickWait = DefaultMaxTickWait
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	trace := config.Trace
	if trace == nil {
		trace = log.NoopLogger{}
	}
	return &Kernel{
		config:      config,
		logger:      logger,
		trace:       trace,
		federations: make(map[string]*Federation),
	}
}

// Process executes one request and returns its response. It is safe for
// concurrent use; requests for one federation are serialized, except that a
// waiting tick does not hold up other requests.
func (k *Kernel) Process(ctx context.Context, req *wire.Request) *wire.Response {
	resp := &wire.Response{Type: wire.MessageTypeResponse, MessageID: req.MessageID}

	result, err := k.dispatch(ctx, req)
	if err != nil {
		resp.Error = wire.NewErrorInfo(err)
		k.logger.Debug("service failed",
			"op", req.Operation.String(),
			"federation", req.Federation,
			"federate", req.Federate,
			"error", err)
		return resp
	}
	resp.Result = result
	if req.Operation != wire.OpTick {
		k.logger.Debug("service completed",
			"op", req.Operation.String(),
			"federation", req.Federation,
			"federate", req.Federate)
	}
	return resp
}

func (k *Kernel) dispatch(ctx context.Context, req *wire.Request) (wire.Result, error) {
	if err := version.Check(req.Version); err != nil {
		return wire.Result{}, rtierr.New(rtierr.RTIinternalError, err.Error())
	}
	if !req.Operation.IsValid() {
		return wire.Result{}, rtierr.Errorf(rtierr.RTIinternalError, "unknown operation %d", req.Operation)
	}

	switch req.Operation {
	case wire.OpCreateFederationExecution:
		f, err := k.CreateFederation(req.Federation, req.Args.FOM)
		if err != nil {
			return wire.Result{}, err
		}
		return wire.Result{ExecutionID: f.ExecutionID()}, nil

	case wire.OpDestroyFederationExecution:
		return wire.Result{}, k.DestroyFederation(req.Federation)

	case wire.OpJoinFederationExecution:
		f, err := k.lookup(req.Federation, rtierr.FederationExecutionDoesNotExist)
		if err != nil {
			return wire.Result{}, err
		}
		if req.Federate != 0 && f.IsMember(req.Federate) {
			return wire.Result{}, rtierr.Errorf(rtierr.FederateAlreadyExecutionMember, "federate %d is already joined to %s", req.Federate, req.Federation)
		}
		h, err := f.Join(req.Args.FederateType, req.Args.Name)
		if err != nil {
			return wire.Result{}, err
		}
		doc := f.Model().Document
		return wire.Result{Federate: h, FOM: &doc, ExecutionID: f.ExecutionID()}, nil
	}

	f, err := k.lookup(req.Federation, rtierr.FederateNotExecutionMember)
	if err != nil {
		return wire.Result{}, err
	}
	if req.Operation == wire.OpTick {
		return f.Tick(ctx, req.Federate, min(req.Args.Wait, k.config.MaxTickWait))
	}
	return f.Handle(req.Federate, req.Operation, &req.Args)
}

func (k *Kernel) lookup(name string, missing rtierr.Kind) (*Federation, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	f, ok := k.federations[name]
	if !ok {
		return nil, rtierr.Errorf(missing, "federation execution %q does not exist", name)
	}
	return f, nil
}

// CreateFederation creates a federation execution from a FOM document.
func (k *Kernel) CreateFederation(name string, doc *fom.Document) (*Federation, error) {
	if name == "" {
		return nil, rtierr.New(rtierr.RTIinternalError, "federation execution name is empty")
	}
	if doc == nil {
		return nil, rtierr.New(rtierr.ErrorReadingFED, "no federation object model supplied")
	}
	model, err := fom.Build(*doc)
	if err != nil {
		return nil, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if _, exists := k.federations[name]; exists {
		return nil, rtierr.Errorf(rtierr.FederationExecutionAlreadyExists, "federation execution %q already exists", name)
	}
	f := newFederation(name, uuid.NewString(), model, k)
	k.federations[name] = f

	k.logger.Info("federation created", "federation", name, "execution", f.ExecutionID(), "fom", model.Name)
	k.traceState(name, 0, log.StateEntityFederation, "", "CREATED", model.Name)
	return f, nil
}

// DestroyFederation removes an empty federation execution.
func (k *Kernel) DestroyFederation(name string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	f, ok := k.federations[name]
	if !ok {
		return rtierr.Errorf(rtierr.FederationExecutionDoesNotExist, "federation execution %q does not exist", name)
	}
	if n := f.MemberCount(); n > 0 {
		return rtierr.Errorf(rtierr.FederatesCurrentlyJoined, "%d federates are still joined to %q", n, name)
	}
	delete(k.federations, name)

	k.logger.Info("federation destroyed", "federation", name)
	k.traceState(name, 0, log.StateEntityFederation, "CREATED", "DESTROYED", "")
	return nil
}

// Federation returns the federation execution with the given name.
func (k *Kernel) Federation(name string) (*Federation, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	f, ok := k.federations[name]
	return f, ok
}

// FederationNames returns the names of every federation execution, sorted.
func (k *Kernel) FederationNames() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return slices.Sorted(maps.Keys(k.federations))
}

// Disconnect resigns a federate whose connection went away, deleting the
// objects it may delete and releasing its other attributes.
func (k *Kernel) Disconnect(federation string, fed hla.FederateHandle) {
	f, ok := k.Federation(federation)
	if !ok {
		return
	}
	if err := f.resign(fed, hla.DeleteObjectsAndReleaseAttributes, true); err != nil {
		k.logger.Debug("resign on disconnect failed", "federation", federation, "federate", fed, "error", err)
		return
	}
	k.logger.Info("federate resigned on disconnect", "federation", federation, "federate", fed)
}

// Store returns the save store, or nil.
func (k *Kernel) Store() *persistence.Store {
	return k.config.Store
}

func (k *Kernel) traceState(federation string, fed hla.FederateHandle, entity log.StateEntity, from, to, reason string) {
	k.trace.Log(log.Event{
		Timestamp:  time.Now(),
		Layer:      log.LayerService,
		Category:   log.CategoryState,
		LocalRole:  log.RoleRTI,
		Federation: federation,
		Federate:   fed,
		StateChange: &log.StateChangeEvent{
			Entity:   entity,
			OldState: from,
			NewState: to,
			Reason:   reason,
		},
	})
}
