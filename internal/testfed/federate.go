package testfed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openlvc/portico-sub003/pkg/ambassador"
	"github.com/openlvc/portico-sub003/pkg/ddm"
	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/fom"
	"github.com/openlvc/portico-sub003/pkg/hla"
)

// Timeout bounds every WaitFor helper.
var Timeout = time.Second

// tickWait is how long one tick of a WaitFor loop blocks for callbacks.
const tickWait = 10 * time.Millisecond

// Document returns the FOM the federate tests run against. A has the
// subclass B; X has the subclass Y; Z and the attribute B.bc are bound to
// TestSpace.
func Document() *fom.Document {
	return &fom.Document{
		Name: "TestFOM",
		Spaces: []fom.SpaceDoc{
			{Name: "TestSpace", Dimensions: []string{"TestDimension", "OtherDimension"}},
		},
		Objects: []fom.ObjectClassDoc{{
			Name:       "A",
			Attributes: []fom.AttributeDoc{{Name: "aa"}, {Name: "ab"}, {Name: "ac"}},
			Classes: []fom.ObjectClassDoc{{
				Name: "B",
				Attributes: []fom.AttributeDoc{
					{Name: "ba"},
					{Name: "bb"},
					{Name: "bc", Order: "timestamp", Space: "TestSpace"},
				},
			}},
		}},
		Interactions: []fom.InteractionClassDoc{
			{
				Name:       "X",
				Order:      "timestamp",
				Parameters: []string{"xa", "xb", "xc"},
				Classes:    []fom.InteractionClassDoc{{Name: "Y", Parameters: []string{"ya"}}},
			},
			{Name: "Z", Space: "TestSpace", Parameters: []string{"za"}},
		},
	}
}

// Federate is one test federate: an ambassador plus a recorder. Every quick
// helper fails the test when the service fails.
type Federate struct {
	Name string
	RTI  *ambassador.RTIAmbassador
	Amb  *Recorder

	t          testing.TB
	federation string
}

// New creates a federate named name over conn. The connection is closed when
// the test ends.
func New(t testing.TB, name string, conn ambassador.Connection) *Federate {
	t.Helper()
	f := &Federate{
		Name: name,
		RTI:  ambassador.New(conn),
		Amb:  NewRecorder(),
		t:    t,
	}
	t.Cleanup(func() { _ = f.RTI.Close() })
	return f
}

func (f *Federate) ctx() context.Context {
	return context.Background()
}

// Handle returns the federate handle.
func (f *Federate) Handle() hla.FederateHandle {
	return f.RTI.Federate()
}

// --- Federation management ---

// QuickCreate creates federation from Document.
func (f *Federate) QuickCreate(federation string) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.CreateFederationExecutionFromDocument(f.ctx(), federation, Document()), "create %s", federation)
}

// QuickJoin joins federation with the federate name as its type.
func (f *Federate) QuickJoin(federation string) hla.FederateHandle {
	f.t.Helper()
	h, err := f.RTI.JoinFederationExecutionNamed(f.ctx(), f.Name, f.Name, federation, f.Amb)
	require.NoError(f.t, err, "%s: join %s", f.Name, federation)
	f.federation = federation
	return h
}

// QuickResign resigns deleting objects and releasing attributes.
func (f *Federate) QuickResign() {
	f.t.Helper()
	f.QuickResignWith(hla.DeleteObjectsAndReleaseAttributes)
}

// QuickResignWith resigns with action.
func (f *Federate) QuickResignWith(action hla.ResignAction) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.ResignFederationExecution(f.ctx(), action), "%s: resign", f.Name)
}

// QuickDestroy destroys federation.
func (f *Federate) QuickDestroy(federation string) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.DestroyFederationExecution(f.ctx(), federation), "destroy %s", federation)
}

// QuickAnnounce registers label for every federate and waits for its
// announcement here.
func (f *Federate) QuickAnnounce(label string, tag []byte, federates ...hla.FederateHandle) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.RegisterFederationSynchronizationPoint(f.ctx(), label, tag, federates...), "%s: register %s", f.Name, label)
	f.WaitForSyncRegistrationResult(label)
}

// QuickAchieved reports label achieved.
func (f *Federate) QuickAchieved(label string) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.SynchronizationPointAchieved(f.ctx(), label), "%s: achieve %s", f.Name, label)
}

// QuickSaveRequest asks for a federation save.
func (f *Federate) QuickSaveRequest(label string) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.RequestFederationSave(f.ctx(), label), "%s: save %s", f.Name, label)
}

// QuickSaveBegun reports the local save started.
func (f *Federate) QuickSaveBegun() {
	f.t.Helper()
	require.NoError(f.t, f.RTI.FederateSaveBegun(f.ctx()), "%s: save begun", f.Name)
}

// QuickSaveComplete reports the local save done.
func (f *Federate) QuickSaveComplete() {
	f.t.Helper()
	require.NoError(f.t, f.RTI.FederateSaveComplete(f.ctx()), "%s: save complete", f.Name)
}

// QuickRestoreRequest asks to restore label.
func (f *Federate) QuickRestoreRequest(label string) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.RequestFederationRestore(f.ctx(), label), "%s: restore %s", f.Name, label)
}

// QuickRestoreComplete reports the local restore done.
func (f *Federate) QuickRestoreComplete() {
	f.t.Helper()
	require.NoError(f.t, f.RTI.FederateRestoreComplete(f.ctx()), "%s: restore complete", f.Name)
}

// --- Handles ---

// OCHandle resolves an object class name.
func (f *Federate) OCHandle(name string) hla.ObjectClassHandle {
	f.t.Helper()
	h, err := f.RTI.GetObjectClassHandle(name)
	require.NoError(f.t, err, "object class %s", name)
	return h
}

// AHandles resolves attribute names of class.
func (f *Federate) AHandles(class string, names ...string) hla.AttributeHandleSet {
	f.t.Helper()
	c := f.OCHandle(class)
	set := hla.NewAttributeHandleSet()
	for _, n := range names {
		h, err := f.RTI.GetAttributeHandle(n, c)
		require.NoError(f.t, err, "attribute %s.%s", class, n)
		set.Add(h)
	}
	return set
}

// AHandle resolves one attribute name of class.
func (f *Federate) AHandle(class, name string) hla.AttributeHandle {
	f.t.Helper()
	h, err := f.RTI.GetAttributeHandle(name, f.OCHandle(class))
	require.NoError(f.t, err, "attribute %s.%s", class, name)
	return h
}

// ICHandle resolves an interaction class name.
func (f *Federate) ICHandle(name string) hla.InteractionClassHandle {
	f.t.Helper()
	h, err := f.RTI.GetInteractionClassHandle(name)
	require.NoError(f.t, err, "interaction class %s", name)
	return h
}

// PHandle resolves a parameter name of class.
func (f *Federate) PHandle(class, name string) hla.ParameterHandle {
	f.t.Helper()
	h, err := f.RTI.GetParameterHandle(name, f.ICHandle(class))
	require.NoError(f.t, err, "parameter %s.%s", class, name)
	return h
}

// Values builds an update for class from name/value pairs.
func (f *Federate) Values(class string, pairs ...string) hla.AttributeHandleValueMap {
	f.t.Helper()
	require.Zero(f.t, len(pairs)%2, "values need name/value pairs")
	m := make(hla.AttributeHandleValueMap)
	for i := 0; i < len(pairs); i += 2 {
		m.Add(f.AHandle(class, pairs[i]), []byte(pairs[i+1]))
	}
	return m
}

// Params builds interaction parameters for class from name/value pairs.
func (f *Federate) Params(class string, pairs ...string) hla.ParameterHandleValueMap {
	f.t.Helper()
	require.Zero(f.t, len(pairs)%2, "params need name/value pairs")
	m := make(hla.ParameterHandleValueMap)
	for i := 0; i < len(pairs); i += 2 {
		m.Add(f.PHandle(class, pairs[i]), []byte(pairs[i+1]))
	}
	return m
}

// --- Declaration management ---

// QuickPublish publishes attrs of class.
func (f *Federate) QuickPublish(class string, attrs ...string) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.PublishObjectClass(f.ctx(), f.OCHandle(class), f.AHandles(class, attrs...)), "%s: publish %s", f.Name, class)
}

// QuickSubscribe actively subscribes to attrs of class.
func (f *Federate) QuickSubscribe(class string, attrs ...string) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.SubscribeObjectClassAttributes(f.ctx(), f.OCHandle(class), f.AHandles(class, attrs...), true), "%s: subscribe %s", f.Name, class)
}

// QuickPublishInteraction publishes an interaction class.
func (f *Federate) QuickPublishInteraction(class string) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.PublishInteractionClass(f.ctx(), f.ICHandle(class)), "%s: publish %s", f.Name, class)
}

// QuickSubscribeInteraction actively subscribes to an interaction class.
func (f *Federate) QuickSubscribeInteraction(class string) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.SubscribeInteractionClass(f.ctx(), f.ICHandle(class), true), "%s: subscribe %s", f.Name, class)
}

// --- Object management ---

// QuickRegister registers an object of class; name may be empty.
func (f *Federate) QuickRegister(class, name string) hla.ObjectInstanceHandle {
	f.t.Helper()
	h, err := f.RTI.RegisterObjectInstance(f.ctx(), f.OCHandle(class), name)
	require.NoError(f.t, err, "%s: register %s", f.Name, class)
	return h
}

// QuickReflect updates object in receive order.
func (f *Federate) QuickReflect(object hla.ObjectInstanceHandle, values hla.AttributeHandleValueMap, tag string) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.UpdateAttributeValues(f.ctx(), object, values, []byte(tag)), "%s: update %d", f.Name, object)
}

// QuickReflectAt updates object with a timestamp.
func (f *Federate) QuickReflectAt(object hla.ObjectInstanceHandle, values hla.AttributeHandleValueMap, tag string, t float64) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.UpdateAttributeValuesWithTime(f.ctx(), object, values, []byte(tag), fedtime.Time(t)), "%s: update %d at %v", f.Name, object, t)
}

// QuickSend sends an interaction in receive order.
func (f *Federate) QuickSend(class hla.InteractionClassHandle, params hla.ParameterHandleValueMap, tag string) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.SendInteraction(f.ctx(), class, params, []byte(tag)), "%s: send %d", f.Name, class)
}

// QuickSendAt sends an interaction with a timestamp.
func (f *Federate) QuickSendAt(class hla.InteractionClassHandle, params hla.ParameterHandleValueMap, tag string, t float64) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.SendInteractionWithTime(f.ctx(), class, params, []byte(tag), fedtime.Time(t)), "%s: send %d at %v", f.Name, class, t)
}

// QuickDelete deletes object.
func (f *Federate) QuickDelete(object hla.ObjectInstanceHandle, tag string) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.DeleteObjectInstance(f.ctx(), object, []byte(tag)), "%s: delete %d", f.Name, object)
}

// --- Ownership management ---

// QuickUnconditionalRelease divests attrs of object.
func (f *Federate) QuickUnconditionalRelease(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.UnconditionalAttributeOwnershipDivestiture(f.ctx(), object, attrs), "%s: divest %d", f.Name, object)
}

// QuickAcquireRequest asks for attrs of object.
func (f *Federate) QuickAcquireRequest(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.AttributeOwnershipAcquisition(f.ctx(), object, attrs, nil), "%s: acquire %d", f.Name, object)
}

// QuickAcquireIfAvailable asks for attrs of object if they are unowned.
func (f *Federate) QuickAcquireIfAvailable(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.AttributeOwnershipAcquisitionIfAvailable(f.ctx(), object, attrs), "%s: acquire if available %d", f.Name, object)
}

// QuickReleaseResponse releases attrs of object after a release request.
func (f *Federate) QuickReleaseResponse(object hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) hla.AttributeHandleSet {
	f.t.Helper()
	released, err := f.RTI.AttributeOwnershipReleaseResponse(f.ctx(), object, attrs)
	require.NoError(f.t, err, "%s: release response %d", f.Name, object)
	return released
}

// QuickQueryOwnership asks who owns attr and waits for the answer.
func (f *Federate) QuickQueryOwnership(object hla.ObjectInstanceHandle, attr hla.AttributeHandle) hla.FederateHandle {
	f.t.Helper()
	f.Amb.ForgetOwner(object, attr)
	require.NoError(f.t, f.RTI.QueryAttributeOwnership(f.ctx(), object, attr), "%s: query ownership %d", f.Name, object)
	f.WaitFor("ownership report", func() bool { return f.Amb.Owner(object, attr) != NoOwnerReport })
	return f.Amb.Owner(object, attr)
}

// --- Time management ---

// QuickEnableRegulating enables regulation and waits for the confirmation.
func (f *Federate) QuickEnableRegulating(lookahead float64) {
	f.t.Helper()
	require.NoError(f.t, f.RTI.EnableTimeRegulation(f.ctx(), fedtime.Interval(lookahead)), "%s: enable regulating", f.Name)
	f.WaitFor("timeRegulationEnabled", f.Amb.Regulating)
}

// QuickEnableConstrained enables constrained and waits for the confirmation.
func (f *Federate) QuickEnableConstrained() {
	f.t.Helper()
	require.NoError(f.t, f.RTI.EnableTimeConstrained(f.ctx()), "%s: enable constrained", f.Name)
	f.WaitFor("timeConstrainedEnabled", f.Amb.Constrained)
}

// QuickAdvanceRequest requests an advance to t without waiting.
func (f *Federate) QuickAdvanceRequest(t float64) {
	f.t.Helper()
	f.Amb.TakeGrant()
	require.NoError(f.t, f.RTI.TimeAdvanceRequest(f.ctx(), fedtime.Time(t)), "%s: advance to %v", f.Name, t)
}

// QuickAdvanceAndWait advances to t and waits for the grant.
func (f *Federate) QuickAdvanceAndWait(t float64) {
	f.t.Helper()
	f.QuickAdvanceRequest(t)
	f.WaitForTimeAdvance(t)
}

// --- Data distribution management ---

// QuickCreateRegion creates a region of TestSpace spanning [lower, upper) on
// TestDimension.
func (f *Federate) QuickCreateRegion(lower, upper uint64) hla.RegionHandle {
	f.t.Helper()
	space, err := f.RTI.GetRoutingSpaceHandle("TestSpace")
	require.NoError(f.t, err)
	dim, err := f.RTI.GetDimensionHandle("TestDimension", space)
	require.NoError(f.t, err)
	region, err := f.RTI.CreateRegion(f.ctx(), space, []ddm.Extent{{dim: ddm.Range{Lower: lower, Upper: upper}}})
	require.NoError(f.t, err, "%s: create region", f.Name)
	return region
}

// --- Ticking ---

// QuickTick delivers every callback available now.
func (f *Federate) QuickTick() {
	f.t.Helper()
	_, err := f.RTI.Tick(f.ctx())
	require.NoError(f.t, err, "%s: tick", f.Name)
}

// WaitFor ticks until cond holds, failing the test after Timeout.
func (f *Federate) WaitFor(what string, cond func() bool) {
	f.t.Helper()
	deadline := time.Now().Add(Timeout)
	for !cond() {
		if time.Now().After(deadline) {
			f.t.Fatalf("%s: timeout waiting for %s", f.Name, what)
		}
		_, err := f.RTI.TickFor(f.ctx(), tickWait)
		require.NoError(f.t, err, "%s: tick", f.Name)
	}
}

// WaitForNot ticks for the whole Timeout and fails if cond ever holds.
func (f *Federate) WaitForNot(what string, cond func() bool) {
	f.t.Helper()
	deadline := time.Now().Add(Timeout / 2)
	for time.Now().Before(deadline) {
		_, err := f.RTI.TickFor(f.ctx(), tickWait)
		require.NoError(f.t, err, "%s: tick", f.Name)
		if cond() {
			f.t.Fatalf("%s: unexpected %s", f.Name, what)
		}
	}
}

// WaitForSyncRegistrationResult waits for the registration answer of label.
func (f *Federate) WaitForSyncRegistrationResult(label string) {
	f.t.Helper()
	f.WaitFor("registration result of "+label, func() bool {
		_, answered := f.Amb.RegistrationResult(label)
		return answered
	})
}

// WaitForSyncAnnounce waits for label to be announced.
func (f *Federate) WaitForSyncAnnounce(label string) []byte {
	f.t.Helper()
	f.WaitFor("announcement of "+label, func() bool {
		_, ok := f.Amb.Announced(label)
		return ok
	})
	tag, _ := f.Amb.Announced(label)
	return tag
}

// WaitForSynchronized waits for the federation to synchronize on label.
func (f *Federate) WaitForSynchronized(label string) {
	f.t.Helper()
	f.WaitFor("synchronization on "+label, func() bool { return f.Amb.Synchronized(label) })
}

// WaitForDiscovery waits for object to be discovered and returns it.
func (f *Federate) WaitForDiscovery(object hla.ObjectInstanceHandle) Instance {
	f.t.Helper()
	f.WaitFor("discovery", func() bool {
		_, ok := f.Amb.Instance(object)
		return ok
	})
	inst, _ := f.Amb.Instance(object)
	return inst
}

// WaitForReflection waits until object has been reflected more than seen
// times.
func (f *Federate) WaitForReflection(object hla.ObjectInstanceHandle, seen int) Instance {
	f.t.Helper()
	f.WaitFor("reflection", func() bool {
		inst, ok := f.Amb.Instance(object)
		return ok && inst.Reflections > seen
	})
	inst, _ := f.Amb.Instance(object)
	return inst
}

// WaitForRemoval waits for object to be removed.
func (f *Federate) WaitForRemoval(object hla.ObjectInstanceHandle) {
	f.t.Helper()
	f.WaitFor("removal", func() bool {
		inst, ok := f.Amb.Instance(object)
		return ok && inst.Removed
	})
}

// WaitForInteraction waits until more than seen interactions arrived and
// returns the latest one.
func (f *Federate) WaitForInteraction(seen int) Interaction {
	f.t.Helper()
	f.WaitFor("interaction", func() bool { return len(f.Amb.Interactions()) > seen })
	all := f.Amb.Interactions()
	return all[len(all)-1]
}

// WaitForTimeAdvance waits for a grant and checks it is to t.
func (f *Federate) WaitForTimeAdvance(t float64) {
	f.t.Helper()
	f.WaitFor("time advance grant", f.Amb.TakeGrant)
	require.Equal(f.t, fedtime.Time(t), f.Amb.LogicalTime(), "%s: granted time", f.Name)
}

// WaitForSaveInitiated waits for the RTI to ask for a save.
func (f *Federate) WaitForSaveInitiated(label string) {
	f.t.Helper()
	f.WaitFor("initiate save "+label, func() bool { return f.Amb.SaveInitiated() == label })
}

// WaitForFederationSaved waits for the save of label to finish and returns
// whether it succeeded.
func (f *Federate) WaitForFederationSaved(label string) bool {
	f.t.Helper()
	f.WaitFor("save result of "+label, func() bool {
		_, finished := f.Amb.Saved(label)
		return finished
	})
	ok, _ := f.Amb.Saved(label)
	return ok
}

// WaitForRestoreInitiated waits for the RTI to ask for a restore.
func (f *Federate) WaitForRestoreInitiated(label string) hla.FederateHandle {
	f.t.Helper()
	f.WaitFor("initiate restore "+label, func() bool {
		l, _ := f.Amb.RestoreInitiated()
		return l == label
	})
	_, h := f.Amb.RestoreInitiated()
	return h
}

// WaitForFederationRestored waits for the restore of label to finish and
// returns whether it succeeded.
func (f *Federate) WaitForFederationRestored(label string) bool {
	f.t.Helper()
	f.WaitFor("restore result of "+label, func() bool {
		_, finished := f.Amb.Restored(label)
		return finished
	})
	ok, _ := f.Amb.Restored(label)
	return ok
}
