// Package testfed provides federates for tests: a recording federate
// ambassador, quick service wrappers that fail the test on error, and
// helpers that tick until an expected callback shows up.
package testfed

import (
	"sync"

	"github.com/openlvc/portico-sub003/pkg/ambassador"
	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/hla"
)

// Instance is an object instance as a federate has seen it.
type Instance struct {
	Handle hla.ObjectInstanceHandle
	Class  hla.ObjectClassHandle
	Name   string

	// Values holds the latest reflected value per attribute.
	Values hla.AttributeHandleValueMap

	// Tag and Time are those of the latest reflection or removal.
	Tag  []byte
	Time *fedtime.Time

	Reflections int
	Removed     bool
}

// Interaction is one received interaction.
type Interaction struct {
	Class  hla.InteractionClassHandle
	Params hla.ParameterHandleValueMap
	Tag    []byte
	Order  hla.OrderType
	Time   *fedtime.Time
}

// Recorder is a FederateAmbassador that records every callback it gets.
type Recorder struct {
	ambassador.NullFederateAmbassador

	mu sync.RWMutex

	// Synchronization points
	registered map[string]string // label -> failure reason, "" on success
	announced  map[string][]byte
	synced     map[string]bool

	// Save and restore
	saveInitiated    string
	saved            map[string]bool
	notSaved         map[string]string
	restoreRequested map[string]string // label -> failure reason, "" on success
	restoreBegun     bool
	restoreInitiated string
	restoreHandle    hla.FederateHandle
	restored         map[string]bool
	notRestored      map[string]string

	// Declaration hints
	registrationOn map[hla.ObjectClassHandle]bool
	interactionsOn map[hla.InteractionClassHandle]bool

	// Objects
	instances    map[hla.ObjectInstanceHandle]*Instance
	interactions []Interaction
	provide      map[hla.ObjectInstanceHandle]hla.AttributeHandleSet

	// Ownership
	divested        map[hla.ObjectInstanceHandle]hla.AttributeHandleSet
	acquired        map[hla.ObjectInstanceHandle]hla.AttributeHandleSet
	unavailable     map[hla.ObjectInstanceHandle]hla.AttributeHandleSet
	releaseRequests map[hla.ObjectInstanceHandle]hla.AttributeHandleSet
	assumeRequests  map[hla.ObjectInstanceHandle]hla.AttributeHandleSet
	cancelled       map[hla.ObjectInstanceHandle]hla.AttributeHandleSet
	owners          map[ownerKey]hla.FederateHandle

	// Time
	regulating  bool
	constrained bool
	granted     bool
	logicalTime fedtime.Time
	grants      []fedtime.Time
}

type ownerKey struct {
	object hla.ObjectInstanceHandle
	attr   hla.AttributeHandle
}

// NoOwnerReport is returned by Owner before any ownership report arrived.
const NoOwnerReport hla.FederateHandle = 0xFFFFFFFE

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	r := &Recorder{}
	r.Reset()
	return r
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registered = make(map[string]string)
	r.announced = make(map[string][]byte)
	r.synced = make(map[string]bool)
	r.saveInitiated = ""
	r.saved = make(map[string]bool)
	r.notSaved = make(map[string]string)
	r.restoreRequested = make(map[string]string)
	r.restoreBegun = false
	r.restoreInitiated = ""
	r.restoreHandle = 0
	r.restored = make(map[string]bool)
	r.notRestored = make(map[string]string)
	r.registrationOn = make(map[hla.ObjectClassHandle]bool)
	r.interactionsOn = make(map[hla.InteractionClassHandle]bool)
	r.instances = make(map[hla.ObjectInstanceHandle]*Instance)
	r.interactions = nil
	r.provide = make(map[hla.ObjectInstanceHandle]hla.AttributeHandleSet)
	r.divested = make(map[hla.ObjectInstanceHandle]hla.AttributeHandleSet)
	r.acquired = make(map[hla.ObjectInstanceHandle]hla.AttributeHandleSet)
	r.unavailable = make(map[hla.ObjectInstanceHandle]hla.AttributeHandleSet)
	r.releaseRequests = make(map[hla.ObjectInstanceHandle]hla.AttributeHandleSet)
	r.assumeRequests = make(map[hla.ObjectInstanceHandle]hla.AttributeHandleSet)
	r.cancelled = make(map[hla.ObjectInstanceHandle]hla.AttributeHandleSet)
	r.owners = make(map[ownerKey]hla.FederateHandle)
	r.regulating = false
	r.constrained = false
	r.granted = false
	r.logicalTime = fedtime.Zero
	r.grants = nil
}

func addAll(m map[hla.ObjectInstanceHandle]hla.AttributeHandleSet, object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) {
	set, ok := m[object]
	if !ok {
		set = hla.NewAttributeHandleSet()
		m[object] = set
	}
	for a := range attrs {
		set.Add(a)
	}
}

// --- Federation management callbacks ---

func (r *Recorder) SynchronizationPointRegistrationSucceeded(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registered[label] = ""
}

func (r *Recorder) SynchronizationPointRegistrationFailed(label, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reason == "" {
		reason = "failed"
	}
	r.registered[label] = reason
}

func (r *Recorder) AnnounceSynchronizationPoint(label string, tag []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.announced[label] = tag
}

func (r *Recorder) FederationSynchronized(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.synced[label] = true
}

func (r *Recorder) InitiateFederateSave(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveInitiated = label
}

func (r *Recorder) FederationSaved(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved[label] = true
	r.saveInitiated = ""
}

func (r *Recorder) FederationNotSaved(label, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notSaved[label] = reason
	r.saveInitiated = ""
}

func (r *Recorder) RequestFederationRestoreSucceeded(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restoreRequested[label] = ""
}

func (r *Recorder) RequestFederationRestoreFailed(label, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reason == "" {
		reason = "failed"
	}
	r.restoreRequested[label] = reason
}

func (r *Recorder) FederationRestoreBegun() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restoreBegun = true
}

func (r *Recorder) InitiateFederateRestore(label string, federate hla.FederateHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restoreInitiated = label
	r.restoreHandle = federate
}

func (r *Recorder) FederationRestored(label string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restored[label] = true
	r.restoreBegun = false
	r.restoreInitiated = ""
}

func (r *Recorder) FederationNotRestored(label, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notRestored[label] = reason
	r.restoreBegun = false
	r.restoreInitiated = ""
}

// --- Declaration management callbacks ---

func (r *Recorder) StartRegistrationForObjectClass(class hla.ObjectClassHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registrationOn[class] = true
}

func (r *Recorder) StopRegistrationForObjectClass(class hla.ObjectClassHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registrationOn[class] = false
}

func (r *Recorder) TurnInteractionsOn(class hla.InteractionClassHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interactionsOn[class] = true
}

func (r *Recorder) TurnInteractionsOff(class hla.InteractionClassHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interactionsOn[class] = false
}

// --- Object management callbacks ---

func (r *Recorder) DiscoverObjectInstance(object hla.ObjectInstanceHandle, class hla.ObjectClassHandle, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[object] = &Instance{
		Handle: object,
		Class:  class,
		Name:   name,
		Values: make(hla.AttributeHandleValueMap),
	}
}

func (r *Recorder) ReflectAttributeValues(object hla.ObjectInstanceHandle, values hla.AttributeHandleValueMap, tag []byte, _ hla.OrderType, t *fedtime.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[object]
	if !ok {
		inst = &Instance{Handle: object, Values: make(hla.AttributeHandleValueMap)}
		r.instances[object] = inst
	}
	for h, v := range values {
		inst.Values[h] = v
	}
	inst.Tag = tag
	inst.Time = t
	inst.Reflections++
}

func (r *Recorder) ReceiveInteraction(class hla.InteractionClassHandle, params hla.ParameterHandleValueMap, tag []byte, order hla.OrderType, t *fedtime.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interactions = append(r.interactions, Interaction{Class: class, Params: params, Tag: tag, Order: order, Time: t})
}

func (r *Recorder) RemoveObjectInstance(object hla.ObjectInstanceHandle, tag []byte, _ hla.OrderType, t *fedtime.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst, ok := r.instances[object]
	if !ok {
		inst = &Instance{Handle: object, Values: make(hla.AttributeHandleValueMap)}
		r.instances[object] = inst
	}
	inst.Removed = true
	inst.Tag = tag
	inst.Time = t
}

func (r *Recorder) ProvideAttributeValueUpdate(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addAll(r.provide, object, attrs)
}

// --- Ownership management callbacks ---

func (r *Recorder) RequestAttributeOwnershipAssumption(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet, _ []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addAll(r.assumeRequests, object, attrs)
}

func (r *Recorder) AttributeOwnershipDivestitureNotification(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addAll(r.divested, object, attrs)
}

func (r *Recorder) AttributeOwnershipAcquisitionNotification(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addAll(r.acquired, object, attrs)
}

func (r *Recorder) AttributeOwnershipUnavailable(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addAll(r.unavailable, object, attrs)
}

func (r *Recorder) RequestAttributeOwnershipRelease(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet, _ []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addAll(r.releaseRequests, object, attrs)
}

func (r *Recorder) ConfirmAttributeOwnershipAcquisitionCancellation(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	addAll(r.cancelled, object, attrs)
}

func (r *Recorder) InformAttributeOwnership(object hla.ObjectInstanceHandle, attr hla.AttributeHandle, owner hla.FederateHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[ownerKey{object, attr}] = owner
}

func (r *Recorder) AttributeIsNotOwned(object hla.ObjectInstanceHandle, attr hla.AttributeHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[ownerKey{object, attr}] = hla.Unowned
}

func (r *Recorder) AttributeOwnedByRTI(object hla.ObjectInstanceHandle, attr hla.AttributeHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[ownerKey{object, attr}] = hla.RTIOwned
}

// --- Time management callbacks ---

func (r *Recorder) TimeRegulationEnabled(t fedtime.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regulating = true
	r.logicalTime = t
}

func (r *Recorder) TimeConstrainedEnabled(t fedtime.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constrained = true
	r.logicalTime = t
}

func (r *Recorder) TimeAdvanceGrant(t fedtime.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.granted = true
	r.logicalTime = t
	r.grants = append(r.grants, t)
}

// --- Queries ---

// RegistrationResult reports whether the registration of label was answered,
// and the failure reason if it failed.
func (r *Recorder) RegistrationResult(label string) (reason string, answered bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reason, answered = r.registered[label]
	return reason, answered
}

// Announced returns the tag label was announced with.
func (r *Recorder) Announced(label string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tag, ok := r.announced[label]
	return tag, ok
}

// Synchronized reports whether the federation synchronized on label.
func (r *Recorder) Synchronized(label string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.synced[label]
}

// SaveInitiated returns the label of the save this federate must perform.
func (r *Recorder) SaveInitiated() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saveInitiated
}

// Saved reports whether the save of label finished, and whether it succeeded.
func (r *Recorder) Saved(label string) (ok bool, finished bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.saved[label] {
		return true, true
	}
	_, failed := r.notSaved[label]
	return false, failed
}

// RestoreRequestResult reports whether the restore request for label was
// answered, and the failure reason if it failed.
func (r *Recorder) RestoreRequestResult(label string) (reason string, answered bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reason, answered = r.restoreRequested[label]
	return reason, answered
}

// RestoreBegun reports whether a restore is underway.
func (r *Recorder) RestoreBegun() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.restoreBegun
}

// RestoreInitiated returns the label and handle of the restore this
// federate must perform.
func (r *Recorder) RestoreInitiated() (string, hla.FederateHandle) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.restoreInitiated, r.restoreHandle
}

// Restored reports whether the restore of label finished, and whether it
// succeeded.
func (r *Recorder) Restored(label string) (ok bool, finished bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.restored[label] {
		return true, true
	}
	_, failed := r.notRestored[label]
	return false, failed
}

// RegistrationOn returns the latest registration hint for class.
func (r *Recorder) RegistrationOn(class hla.ObjectClassHandle) (on bool, hinted bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	on, hinted = r.registrationOn[class]
	return on, hinted
}

// InteractionsOn returns the latest interaction hint for class.
func (r *Recorder) InteractionsOn(class hla.InteractionClassHandle) (on bool, hinted bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	on, hinted = r.interactionsOn[class]
	return on, hinted
}

// Instance returns a copy of what the federate knows of object.
func (r *Recorder) Instance(object hla.ObjectInstanceHandle) (Instance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.instances[object]
	if !ok {
		return Instance{}, false
	}
	out := *inst
	out.Values = inst.Values.Clone()
	return out, true
}

// Interactions returns every interaction received so far.
func (r *Recorder) Interactions() []Interaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Interaction(nil), r.interactions...)
}

// ProvideRequests returns the attributes of object the RTI asked to refresh.
func (r *Recorder) ProvideRequests(object hla.ObjectInstanceHandle) hla.AttributeHandleSet {
	return r.set(r.provide, object)
}

// Divested returns the attributes of object this federate was relieved of.
func (r *Recorder) Divested(object hla.ObjectInstanceHandle) hla.AttributeHandleSet {
	return r.set(r.divested, object)
}

// Acquired returns the attributes of object this federate acquired.
func (r *Recorder) Acquired(object hla.ObjectInstanceHandle) hla.AttributeHandleSet {
	return r.set(r.acquired, object)
}

// Unavailable returns the attributes of object an acquisition could not get.
func (r *Recorder) Unavailable(object hla.ObjectInstanceHandle) hla.AttributeHandleSet {
	return r.set(r.unavailable, object)
}

// ReleaseRequests returns the attributes of object others want released.
func (r *Recorder) ReleaseRequests(object hla.ObjectInstanceHandle) hla.AttributeHandleSet {
	return r.set(r.releaseRequests, object)
}

// AssumptionRequests returns the attributes of object offered to this
// federate.
func (r *Recorder) AssumptionRequests(object hla.ObjectInstanceHandle) hla.AttributeHandleSet {
	return r.set(r.assumeRequests, object)
}

// CancelConfirmed returns the attributes of object whose acquisition was
// cancelled.
func (r *Recorder) CancelConfirmed(object hla.ObjectInstanceHandle) hla.AttributeHandleSet {
	return r.set(r.cancelled, object)
}

func (r *Recorder) set(m map[hla.ObjectInstanceHandle]hla.AttributeHandleSet, object hla.ObjectInstanceHandle) hla.AttributeHandleSet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := m[object]; ok {
		return s.Clone()
	}
	return hla.NewAttributeHandleSet()
}

// Owner returns the last reported owner of attr, hla.Unowned, hla.RTIOwned,
// or NoOwnerReport.
func (r *Recorder) Owner(object hla.ObjectInstanceHandle, attr hla.AttributeHandle) hla.FederateHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if owner, ok := r.owners[ownerKey{object, attr}]; ok {
		return owner
	}
	return NoOwnerReport
}

// ForgetOwner drops the ownership report for attr, so the next query can be
// awaited.
func (r *Recorder) ForgetOwner(object hla.ObjectInstanceHandle, attr hla.AttributeHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.owners, ownerKey{object, attr})
}

// Regulating reports whether time regulation was enabled.
func (r *Recorder) Regulating() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.regulating
}

// Constrained reports whether time constrained was enabled.
func (r *Recorder) Constrained() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.constrained
}

// LogicalTime returns the federate time the RTI last reported.
func (r *Recorder) LogicalTime() fedtime.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.logicalTime
}

// Grants returns every granted time in order.
func (r *Recorder) Grants() []fedtime.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]fedtime.Time(nil), r.grants...)
}

// TakeGrant reports whether a grant arrived since the last call.
func (r *Recorder) TakeGrant() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := r.granted
	r.granted = false
	return g
}

// ResetTimeFlags clears the regulating and constrained flags.
func (r *Recorder) ResetTimeFlags() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.regulating = false
	r.constrained = false
}

var _ ambassador.FederateAmbassador = (*Recorder)(nil)
