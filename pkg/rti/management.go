package rti

import (
	"fmt"
	"slices"
	"time"

	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/log"
	"github.com/openlvc/portico-sub003/pkg/persistence"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
	"github.com/openlvc/portico-sub003/pkg/syncpoint"
	"github.com/openlvc/portico-sub003/pkg/timemgmt"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

// saveState tracks a federation save until every federate has reported.
type saveState struct {
	label   string
	begun   hla.FederateHandleSet
	results map[hla.FederateHandle]bool
}

// restoreState tracks a federation restore until every federate has
// reported.
type restoreState struct {
	label   string
	state   *persistence.FederationState
	results map[hla.FederateHandle]bool
}

func (f *Federation) registerSyncPoint(m *member, label string, tag []byte, targets hla.FederateHandleSet) {
	p, err := f.syncs.Register(m.handle, label, tag, targets, f.joined())
	if err != nil {
		f.post(m.handle, wire.Callback{Kind: wire.CallbackSynchronizationPointRegistrationFailed, Label: label, Reason: err.Error()})
		return
	}
	f.post(m.handle, wire.Callback{Kind: wire.CallbackSynchronizationPointRegistrationSucceeded, Label: label})
	for _, h := range p.Targets.Sorted() {
		f.post(h, wire.Callback{Kind: wire.CallbackAnnounceSynchronizationPoint, Label: label, Tag: p.Tag})
	}
}

func (f *Federation) achieveSyncPoint(m *member, label string) error {
	p, done, err := f.syncs.Achieve(m.handle, label)
	if err != nil {
		return err
	}
	if done {
		f.synchronized(p)
	}
	return nil
}

func (f *Federation) synchronized(p *syncpoint.Point) {
	for _, h := range p.Targets.Sorted() {
		f.post(h, wire.Callback{Kind: wire.CallbackFederationSynchronized, Label: p.Label})
	}
}

func (f *Federation) requestSave(m *member, label string) error {
	if label == "" {
		return rtierr.New(rtierr.UnableToPerformSave, "save label is empty")
	}
	f.save = &saveState{
		label:   label,
		begun:   make(hla.FederateHandleSet),
		results: make(map[hla.FederateHandle]bool),
	}
	f.postAll(wire.Callback{Kind: wire.CallbackInitiateFederateSave, Label: label})

	f.logger.Info("federation save requested", "federate", m.handle, "label", label)
	f.kernel.traceState(f.name, m.handle, log.StateEntitySave, "", "SAVE_INITIATED", label)
	return nil
}

func (f *Federation) saveBegun(m *member) error {
	if f.save == nil {
		return rtierr.New(rtierr.SaveNotInitiated, "no save is in progress")
	}
	f.save.begun.Add(m.handle)
	return nil
}

func (f *Federation) saveReport(m *member, complete bool) error {
	if f.save == nil {
		return rtierr.New(rtierr.SaveNotInitiated, "no save is in progress")
	}
	f.save.results[m.handle] = complete
	f.finishSave()
	return nil
}

// finishSave writes the snapshot once every member has reported.
func (f *Federation) finishSave() {
	s := f.save
	for h := range f.members {
		if _, ok := s.results[h]; !ok {
			return
		}
	}
	f.save = nil

	reason := ""
	for _, h := range f.memberHandles() {
		if !s.results[h] {
			reason = fmt.Sprintf("federate %d could not save", h)
			break
		}
	}
	if reason == "" {
		if err := f.writeSnapshot(s.label); err != nil {
			reason = err.Error()
		}
	}

	if reason != "" {
		f.postAll(wire.Callback{Kind: wire.CallbackFederationNotSaved, Label: s.label, Reason: reason})
		f.logger.Warn("federation not saved", "label", s.label, "reason", reason)
		f.kernel.traceState(f.name, 0, log.StateEntitySave, "SAVE_INITIATED", "NOT_SAVED", reason)
		return
	}
	f.postAll(wire.Callback{Kind: wire.CallbackFederationSaved, Label: s.label})
	f.logger.Info("federation saved", "label", s.label)
	f.kernel.traceState(f.name, 0, log.StateEntitySave, "SAVE_INITIATED", "SAVED", s.label)
}

func (f *Federation) resignedDuringSave(fed hla.FederateHandle) {
	if f.save == nil {
		return
	}
	delete(f.save.results, fed)
	if len(f.members) == 0 {
		f.save = nil
		return
	}
	f.finishSave()
}

func (f *Federation) snapshot(label string) *persistence.FederationState {
	times := f.time.Snapshot()
	state := &persistence.FederationState{
		Version:      persistence.StateVersion,
		SavedAt:      time.Now().UTC(),
		Label:        label,
		Federation:   f.name,
		FOMDigest:    f.model.Digest,
		Objects:      f.objects.Snapshot(),
		Declarations: f.decl.Snapshot(),
		Ownership:    f.owners.Snapshot(),
		Regions:      f.regions.Snapshot(),
	}
	for _, h := range f.memberHandles() {
		m := f.members[h]
		state.Federates = append(state.Federates, persistence.FederateState{
			Handle:    h,
			Name:      m.name,
			Type:      m.fedType,
			Time:      times[h],
			MOMObject: m.momObject,
		})
	}
	return state
}

func (f *Federation) writeSnapshot(label string) error {
	store := f.kernel.config.Store
	if store == nil {
		return fmt.Errorf("no save store is configured")
	}
	return store.Save(f.snapshot(label))
}

func (f *Federation) requestRestore(m *member, label string) {
	fail := func(reason string) {
		f.post(m.handle, wire.Callback{Kind: wire.CallbackRequestFederationRestoreFailed, Label: label, Reason: reason})
		f.logger.Info("federation restore refused", "label", label, "reason", reason)
	}

	store := f.kernel.config.Store
	if store == nil {
		fail("no save store is configured")
		return
	}
	state, err := store.Load(f.name, label)
	if err != nil {
		fail(err.Error())
		return
	}
	if state.FOMDigest != f.model.Digest {
		fail("save was taken with a different federation object model")
		return
	}
	if !slices.Equal(state.Roster(), f.memberHandles()) {
		fail(fmt.Sprintf("save roster %v does not match joined federates %v", state.Roster(), f.memberHandles()))
		return
	}

	f.restore = &restoreState{label: label, state: state, results: make(map[hla.FederateHandle]bool)}
	f.post(m.handle, wire.Callback{Kind: wire.CallbackRequestFederationRestoreSucceeded, Label: label})
	f.postAll(wire.Callback{Kind: wire.CallbackFederationRestoreBegun})
	for _, h := range f.memberHandles() {
		f.post(h, wire.Callback{Kind: wire.CallbackInitiateFederateRestore, Label: label, Federate: h})
	}

	f.logger.Info("federation restore begun", "federate", m.handle, "label", label)
	f.kernel.traceState(f.name, m.handle, log.StateEntitySave, "", "RESTORE_BEGUN", label)
}

func (f *Federation) restoreReport(m *member, complete bool) error {
	if f.restore == nil {
		return rtierr.New(rtierr.RestoreNotRequested, "no restore is in progress")
	}
	f.restore.results[m.handle] = complete
	f.finishRestore()
	return nil
}

func (f *Federation) finishRestore() {
	r := f.restore
	for h := range f.members {
		if _, ok := r.results[h]; !ok {
			return
		}
	}
	f.restore = nil

	for _, h := range f.memberHandles() {
		if !r.results[h] {
			reason := fmt.Sprintf("federate %d could not restore", h)
			f.postAll(wire.Callback{Kind: wire.CallbackFederationNotRestored, Label: r.label, Reason: reason})
			f.logger.Warn("federation not restored", "label", r.label, "reason", reason)
			f.kernel.traceState(f.name, 0, log.StateEntitySave, "RESTORE_BEGUN", "NOT_RESTORED", reason)
			return
		}
	}

	f.apply(r.state)
	f.postAll(wire.Callback{Kind: wire.CallbackFederationRestored, Label: r.label})
	f.logger.Info("federation restored", "label", r.label)
	f.kernel.traceState(f.name, 0, log.StateEntitySave, "RESTORE_BEGUN", "RESTORED", r.label)
}

func (f *Federation) resignedDuringRestore(fed hla.FederateHandle) {
	if f.restore == nil {
		return
	}
	delete(f.restore.results, fed)
	if len(f.members) == 0 {
		f.restore = nil
		return
	}
	f.finishRestore()
}

// apply replaces the federation state with a snapshot whose roster matches
// the joined federates. Queued callbacks belong to the abandoned timeline and
// are discarded.
func (f *Federation) apply(state *persistence.FederationState) {
	f.objects.Restore(state.Objects)
	f.decl.Restore(state.Declarations)
	f.owners.Restore(state.Ownership)
	f.regions.Restore(state.Regions)

	times := make(map[hla.FederateHandle]timemgmt.Status, len(state.Federates))
	for _, fs := range state.Federates {
		times[fs.Handle] = fs.Time
		if m, ok := f.members[fs.Handle]; ok {
			m.momObject = fs.MOMObject
			m.queue.Clear()
		}
	}
	f.time.Restore(times)

	for _, h := range f.memberHandles() {
		m := f.members[h]
		m.registrationOn, m.interactionsOn = f.advisories(h)
	}
}
