package rti

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/openlvc/portico-sub003/pkg/ddm"
	"github.com/openlvc/portico-sub003/pkg/declaration"
	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/fom"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/log"
	"github.com/openlvc/portico-sub003/pkg/object"
	"github.com/openlvc/portico-sub003/pkg/ownership"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
	"github.com/openlvc/portico-sub003/pkg/syncpoint"
	"github.com/openlvc/portico-sub003/pkg/timemgmt"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

type objectClassSet = hla.HandleSet[hla.ObjectClassHandle]
type interactionClassSet = hla.HandleSet[hla.InteractionClassHandle]

// member is one joined federate.
type member struct {
	handle   hla.FederateHandle
	name     string
	fedType  string
	joinedAt time.Time
	queue    *timemgmt.Queue[wire.Callback]

	// momObject is the Manager.Federate instance describing the federate.
	momObject hla.ObjectInstanceHandle

	// Classes for which the federate was last told to start registering or
	// to send interactions.
	registrationOn objectClassSet
	interactionsOn interactionClassSet
}

// Federation is one federation execution. Its unexported service methods
// expect f.mu to be held.
type Federation struct {
	mu sync.Mutex

	name        string
	executionID string
	created     time.Time
	model       *fom.Model
	kernel      *Kernel
	logger      *slog.Logger

	members      map[hla.FederateHandle]*member
	nextFederate hla.FederateHandle

	decl    *declaration.Manager
	objects *object.Registry
	owners  *ownership.Manager
	time    *timemgmt.Manager
	regions *ddm.Store
	syncs   *syncpoint.Manager

	save    *saveState
	restore *restoreState

	// changed is closed and replaced whenever the federation changes, waking
	// waiting ticks.
	changed chan struct{}
}

func newFederation(name, executionID string, model *fom.Model, k *Kernel) *Federation {
	decl := declaration.NewManager()
	objects := object.NewRegistry()
	return &Federation{
		name:        name,
		executionID: executionID,
		created:     time.Now(),
		model:       model,
		kernel:      k,
		logger:      k.logger.With("federation", name),
		members:     make(map[hla.FederateHandle]*member),
		decl:        decl,
		objects:     objects,
		owners:      ownership.NewManager(objects, decl),
		time:        timemgmt.NewManager(),
		regions:     ddm.NewStore(),
		syncs:       syncpoint.NewManager(),
		changed:     make(chan struct{}),
	}
}

// Name returns the federation execution name.
func (f *Federation) Name() string { return f.name }

// ExecutionID identifies this execution among executions of the same name.
func (f *Federation) ExecutionID() string { return f.executionID }

// Model returns the FOM of the federation.
func (f *Federation) Model() *fom.Model { return f.model }

// MemberCount returns the number of joined federates.
func (f *Federation) MemberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.members)
}

// IsMember reports whether fed is joined.
func (f *Federation) IsMember(fed hla.FederateHandle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.members[fed]
	return ok
}

func (f *Federation) notify() {
	close(f.changed)
	f.changed = make(chan struct{})
}

func (f *Federation) joined() hla.FederateHandleSet {
	s := make(hla.FederateHandleSet, len(f.members))
	for h := range f.members {
		s.Add(h)
	}
	return s
}

func (f *Federation) memberHandles() []hla.FederateHandle {
	return slices.Sorted(maps.Keys(f.members))
}

// post queues a receive-order callback for fed.
func (f *Federation) post(fed hla.FederateHandle, cb wire.Callback) {
	if m, ok := f.members[fed]; ok {
		m.queue.PushRO(cb)
	}
}

// postAll queues a receive-order callback for every member.
func (f *Federation) postAll(cb wire.Callback) {
	for _, h := range f.memberHandles() {
		f.post(h, cb)
	}
}

// sendOrder decides whether a message sent by fed with the optional
// timestamp t travels in timestamp order.
func (f *Federation) sendOrder(fed hla.FederateHandle, t *fedtime.Time) (bool, error) {
	if t == nil {
		return false, nil
	}
	return f.time.ValidateSend(fed, *t)
}

// route queues a message callback for fed. A timestamp-order message is held
// in the timestamp queue of a constrained receiver and dropped when it is
// older than the receiver's time; every other receiver gets it in receive
// order.
func (f *Federation) route(fed hla.FederateHandle, tso bool, cb wire.Callback) {
	m, ok := f.members[fed]
	if !ok {
		return
	}
	cb.Order = hla.Receive
	if tso && cb.Time != nil {
		constrained, accept := f.time.Accepts(fed, *cb.Time)
		if !accept {
			f.logger.Debug("dropping message older than federate time", "federate", fed, "callback", cb.Kind.String(), "time", *cb.Time)
			return
		}
		if constrained {
			cb.Order = hla.Timestamp
			m.queue.PushTSO(*cb.Time, cb)
			return
		}
	}
	m.queue.PushRO(cb)
}

func (f *Federation) member(fed hla.FederateHandle) (*member, error) {
	m, ok := f.members[fed]
	if !ok {
		return nil, rtierr.Errorf(rtierr.FederateNotExecutionMember, "federate %d is not joined to %s", fed, f.name)
	}
	return m, nil
}

// guard rejects services that may not run while a save or restore is in
// progress.
func (f *Federation) guard(op wire.Op) error {
	if f.save != nil {
		switch op {
		case wire.OpFederateSaveBegun, wire.OpFederateSaveComplete, wire.OpFederateSaveNotComplete:
			return nil
		}
		return rtierr.Errorf(rtierr.SaveInProgress, "save %q is in progress", f.save.label)
	}
	if f.restore != nil {
		switch op {
		case wire.OpFederateRestoreComplete, wire.OpFederateRestoreNotComplete:
			return nil
		}
		return rtierr.Errorf(rtierr.RestoreInProgress, "restore %q is in progress", f.restore.label)
	}
	return nil
}

// Join adds a federate of the given type. name is optional; when given it
// must be unique within the federation.
func (f *Federation) Join(fedType, name string) (hla.FederateHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.save != nil {
		return 0, rtierr.Errorf(rtierr.SaveInProgress, "save %q is in progress", f.save.label)
	}
	if f.restore != nil {
		return 0, rtierr.Errorf(rtierr.RestoreInProgress, "restore %q is in progress", f.restore.label)
	}
	if name != "" {
		for _, m := range f.members {
			if m.name == name {
				return 0, rtierr.Errorf(rtierr.FederateNameAlreadyInUse, "federate name %q is in use", name)
			}
		}
	}

	f.nextFederate++
	m := &member{
		handle:         f.nextFederate,
		name:           name,
		fedType:        fedType,
		joinedAt:       time.Now(),
		queue:          timemgmt.NewQueue[wire.Callback](),
		registrationOn: make(objectClassSet),
		interactionsOn: make(interactionClassSet),
	}
	if m.name == "" {
		m.name = fedType + "-" + m.handle.String()
	}
	f.members[m.handle] = m
	f.time.Add(m.handle)

	for _, p := range f.syncs.Join(m.handle) {
		f.post(m.handle, wire.Callback{Kind: wire.CallbackAnnounceSynchronizationPoint, Label: p.Label, Tag: p.Tag})
	}
	f.registerMOM(m)
	f.notify()

	f.logger.Info("federate joined", "federate", m.handle, "type", fedType, "name", m.name)
	f.kernel.traceState(f.name, m.handle, log.StateEntityFederate, "", "JOINED", fedType)
	return m.handle, nil
}

// resign removes fed from the federation. force skips the save and restore
// guard; it is used when the federate's connection is gone.
func (f *Federation) resign(fed hla.FederateHandle, action hla.ResignAction, force bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer f.notify()

	if !force {
		if err := f.guard(wire.OpResignFederationExecution); err != nil {
			return err
		}
	}
	return f.resignLocked(fed, action)
}

func (f *Federation) resignLocked(fed hla.FederateHandle, action hla.ResignAction) error {
	m, err := f.member(fed)
	if err != nil {
		return err
	}
	if !action.IsValid() {
		return rtierr.Errorf(rtierr.InvalidResignAction, "resign action %d", action)
	}

	deleting := action == hla.DeleteObjects || action == hla.DeleteObjectsAndReleaseAttributes
	releasing := action == hla.ReleaseAttributes || action == hla.DeleteObjectsAndReleaseAttributes

	var doomed []*object.Instance
	for _, o := range f.objects.Instances() {
		owned := o.OwnedBy(fed)
		if owned.IsEmpty() {
			continue
		}
		if deleting && f.holdsDeletePrivilege(fed, o) {
			doomed = append(doomed, o)
			continue
		}
		if !releasing {
			return rtierr.Errorf(rtierr.FederateOwnsAttributes, "federate %d still owns attributes of object %d", fed, o.Handle)
		}
	}

	for _, o := range doomed {
		f.removeObject(fed, o, nil, nil, false)
	}
	if releasing {
		f.deliverNotices(f.owners.ReleaseAll(fed))
	}

	for _, o := range f.objects.Instances() {
		if _, known := o.DiscoveredAs(fed); known {
			f.objects.Forget(o, fed)
		}
	}
	if o, err := f.objects.Get(m.momObject); err == nil {
		f.removeObject(hla.RTIOwned, o, nil, nil, false)
	}

	delete(f.members, fed)
	f.time.Remove(fed)
	f.decl.RemoveFederate(fed)
	f.regions.DeleteOwnedBy(fed)
	for _, p := range f.syncs.Remove(fed) {
		f.synchronized(p)
	}
	f.refreshAdvisories()
	f.resignedDuringSave(fed)
	f.resignedDuringRestore(fed)

	f.logger.Info("federate resigned", "federate", fed, "action", action.String())
	f.kernel.traceState(f.name, fed, log.StateEntityFederate, "JOINED", "RESIGNED", action.String())
	return nil
}

// Handle runs one federate service other than join and tick.
func (f *Federation) Handle(fed hla.FederateHandle, op wire.Op, args *wire.Args) (wire.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer f.notify()

	m, err := f.member(fed)
	if err != nil {
		return wire.Result{}, err
	}
	if err := f.guard(op); err != nil {
		return wire.Result{}, err
	}

	var result wire.Result
	switch op {
	// Federation management
	case wire.OpResignFederationExecution:
		err = f.resignLocked(fed, args.Action)
	case wire.OpRegisterFederationSynchronizationPoint:
		f.registerSyncPoint(m, args.Label, args.Tag, args.FederateSet())
	case wire.OpSynchronizationPointAchieved:
		err = f.achieveSyncPoint(m, args.Label)
	case wire.OpRequestFederationSave:
		err = f.requestSave(m, args.Label)
	case wire.OpFederateSaveBegun:
		err = f.saveBegun(m)
	case wire.OpFederateSaveComplete:
		err = f.saveReport(m, true)
	case wire.OpFederateSaveNotComplete:
		err = f.saveReport(m, false)
	case wire.OpRequestFederationRestore:
		f.requestRestore(m, args.Label)
	case wire.OpFederateRestoreComplete:
		err = f.restoreReport(m, true)
	case wire.OpFederateRestoreNotComplete:
		err = f.restoreReport(m, false)

	// Declaration management
	case wire.OpPublishObjectClass:
		err = f.publishObjectClass(m, args.ObjectClass, args.AttributeSet())
	case wire.OpUnpublishObjectClass:
		err = f.unpublishObjectClass(m, args.ObjectClass)
	case wire.OpPublishInteractionClass:
		err = f.publishInteractionClass(m, args.InteractionClass)
	case wire.OpUnpublishInteractionClass:
		err = f.unpublishInteractionClass(m, args.InteractionClass)
	case wire.OpSubscribeObjectClassAttributes:
		err = f.subscribeObjectClass(m, args.ObjectClass, args.AttributeSet(), args.Active)
	case wire.OpUnsubscribeObjectClass:
		err = f.unsubscribeObjectClass(m, args.ObjectClass)
	case wire.OpSubscribeInteractionClass:
		err = f.subscribeInteractionClass(m, args.InteractionClass, args.Active)
	case wire.OpUnsubscribeInteractionClass:
		err = f.unsubscribeInteractionClass(m, args.InteractionClass)
	case wire.OpSubscribeObjectClassAttributesWithRegion:
		err = f.subscribeObjectClassWithRegion(m, args.ObjectClass, args.Region, args.AttributeSet(), args.Active)
	case wire.OpUnsubscribeObjectClassWithRegion:
		err = f.unsubscribeObjectClassWithRegion(m, args.ObjectClass, args.Region)
	case wire.OpSubscribeInteractionClassWithRegion:
		err = f.subscribeInteractionClassWithRegion(m, args.InteractionClass, args.Region, args.Active)
	case wire.OpUnsubscribeInteractionClassWithRegion:
		err = f.unsubscribeInteractionClassWithRegion(m, args.InteractionClass, args.Region)

	// Object management
	case wire.OpRegisterObjectInstance:
		result, err = f.registerObject(m, args.ObjectClass, args.Name, nil, nil)
	case wire.OpRegisterObjectInstanceWithRegion:
		result, err = f.registerObject(m, args.ObjectClass, args.Name, args.Attributes, args.Regions)
	case wire.OpUpdateAttributeValues:
		err = f.updateAttributeValues(m, args.Object, args.Values, args.Tag, args.Time)
	case wire.OpSendInteraction:
		err = f.sendInteraction(m, args.InteractionClass, args.Parameters, args.Tag, 0, args.Time)
	case wire.OpSendInteractionWithRegion:
		err = f.sendInteraction(m, args.InteractionClass, args.Parameters, args.Tag, args.Region, args.Time)
	case wire.OpDeleteObjectInstance:
		err = f.deleteObject(m, args.Object, args.Tag, args.Time)
	case wire.OpLocalDeleteObjectInstance:
		err = f.localDeleteObject(m, args.Object)
	case wire.OpRequestObjectAttributeValueUpdate:
		err = f.requestObjectUpdate(m, args.Object, args.AttributeSet())
	case wire.OpRequestClassAttributeValueUpdate:
		err = f.requestClassUpdate(m, args.ObjectClass, args.AttributeSet())
	case wire.OpGetObjectInstanceName:
		result, err = f.objectName(m, args.Object)
	case wire.OpGetObjectInstanceHandle:
		result, err = f.objectHandle(m, args.Name)
	case wire.OpGetKnownObjectClass:
		result, err = f.knownObjectClass(m, args.Object)

	// Ownership management
	case wire.OpUnconditionalAttributeOwnershipDivestiture:
		err = f.unconditionalDivest(m, args.Object, args.AttributeSet())
	case wire.OpNegotiatedAttributeOwnershipDivestiture:
		err = f.negotiatedDivest(m, args.Object, args.AttributeSet(), args.Tag)
	case wire.OpAttributeOwnershipAcquisition:
		err = f.acquire(m, args.Object, args.AttributeSet(), args.Tag)
	case wire.OpAttributeOwnershipAcquisitionIfAvailable:
		err = f.acquireIfAvailable(m, args.Object, args.AttributeSet())
	case wire.OpAttributeOwnershipReleaseResponse:
		result, err = f.releaseResponse(m, args.Object, args.AttributeSet())
	case wire.OpCancelNegotiatedAttributeOwnershipDivestiture:
		err = f.cancelDivest(m, args.Object, args.AttributeSet())
	case wire.OpCancelAttributeOwnershipAcquisition:
		err = f.cancelAcquisition(m, args.Object, args.AttributeSet())
	case wire.OpQueryAttributeOwnership:
		err = f.queryOwnership(m, args.Object, args.Attributes)
	case wire.OpIsAttributeOwnedByFederate:
		result, err = f.isOwnedBy(m, args.Object, args.Attributes)

	// Time management
	case wire.OpEnableTimeRegulation:
		err = f.enableRegulation(m, args.Time, args.Lookahead)
	case wire.OpDisableTimeRegulation:
		err = f.disableRegulation(m)
	case wire.OpEnableTimeConstrained:
		err = f.time.EnableConstrained(fed)
	case wire.OpDisableTimeConstrained:
		err = f.disableConstrained(m)
	case wire.OpTimeAdvanceRequest:
		err = f.advance(m, timemgmt.AdvanceTimeRequest, args.Time)
	case wire.OpTimeAdvanceRequestAvailable:
		err = f.advance(m, timemgmt.AdvanceTimeRequestAvailable, args.Time)
	case wire.OpNextEventRequest:
		err = f.advance(m, timemgmt.AdvanceNextEvent, args.Time)
	case wire.OpNextEventRequestAvailable:
		err = f.advance(m, timemgmt.AdvanceNextEventAvailable, args.Time)
	case wire.OpFlushQueueRequest:
		err = f.advance(m, timemgmt.AdvanceFlushQueue, args.Time)
	case wire.OpEnableAsynchronousDelivery:
		err = f.time.EnableAsynchronousDelivery(fed)
	case wire.OpDisableAsynchronousDelivery:
		err = f.time.DisableAsynchronousDelivery(fed)
	case wire.OpQueryLBTS:
		result = f.queryLBTS(m)
	case wire.OpQueryFederateTime:
		result, err = f.queryFederateTime(m)
	case wire.OpQueryMinNextEventTime:
		result = f.queryMinNextEventTime(m)
	case wire.OpQueryLookahead:
		result, err = f.queryLookahead(m)
	case wire.OpModifyLookahead:
		err = f.modifyLookahead(m, args.Lookahead)

	// Data distribution management
	case wire.OpCreateRegion:
		result, err = f.createRegion(m, args.Space, args.Extents)
	case wire.OpNotifyAboutRegionModification:
		err = f.modifyRegion(m, args.Region, args.Extents)
	case wire.OpDeleteRegion:
		err = f.deleteRegion(m, args.Region)
	case wire.OpAssociateRegionForUpdates:
		err = f.associateRegion(m, args.Region, args.Object, args.AttributeSet())
	case wire.OpUnassociateRegionForUpdates:
		err = f.unassociateRegion(m, args.Region, args.Object)

	default:
		err = rtierr.Errorf(rtierr.RTIinternalError, "%s is not a federation service", op)
	}
	if err != nil {
		return wire.Result{}, err
	}
	return result, nil
}

// Tick hands fed the callbacks it may receive now. When none is ready it
// waits up to wait for the federation to change.
func (f *Federation) Tick(ctx context.Context, fed hla.FederateHandle, wait time.Duration) (wire.Result, error) {
	var deadline <-chan time.Time
	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		deadline = timer.C
	}

	f.mu.Lock()
	for {
		m, err := f.member(fed)
		if err != nil {
			f.mu.Unlock()
			return wire.Result{}, err
		}
		callbacks := f.collect(m)
		if len(callbacks) > 0 || wait <= 0 {
			pending := m.queue.LenRO() + m.queue.LenTSO()
			f.mu.Unlock()
			return wire.Result{Callbacks: callbacks, Pending: pending}, nil
		}

		changed := f.changed
		f.mu.Unlock()
		select {
		case <-changed:
		case <-deadline:
			return wire.Result{}, nil
		case <-ctx.Done():
			return wire.Result{}, nil
		}
		f.mu.Lock()
	}
}

// collect turns one delivery into callbacks: enable confirmations, then
// messages, then the grant.
func (f *Federation) collect(m *member) []wire.Callback {
	d := timemgmt.Deliver(f.time, m.handle, m.queue, func(cb wire.Callback) bool { return cb.Kind.IsMessage() })
	if d.Empty() {
		return nil
	}

	var out []wire.Callback
	if d.RegulationEnabled {
		at := d.EnabledAt
		out = append(out, wire.Callback{Kind: wire.CallbackTimeRegulationEnabled, Time: &at})
		f.kernel.traceState(f.name, m.handle, log.StateEntityTime, "REGULATION_PENDING", "REGULATING", at.String())
	}
	if d.ConstrainedEnabled {
		at := d.EnabledAt
		out = append(out, wire.Callback{Kind: wire.CallbackTimeConstrainedEnabled, Time: &at})
		f.kernel.traceState(f.name, m.handle, log.StateEntityTime, "CONSTRAINED_PENDING", "CONSTRAINED", at.String())
	}
	out = append(out, d.Items...)
	if d.Granted {
		at := d.GrantTime
		out = append(out, wire.Callback{Kind: wire.CallbackTimeAdvanceGrant, Time: &at})
	}
	if d.RegulationEnabled || d.ConstrainedEnabled || d.Granted {
		f.reflectMOM(m)
		f.notify()
	}
	return out
}
