package ownership

import (
	"slices"
	"sync"

	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/object"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

// Publications answers publication questions; *declaration.Manager
// satisfies it.
type Publications interface {
	IsObjectClassPublished(fed hla.FederateHandle, class hla.ObjectClassHandle) bool
	IsAttributePublished(fed hla.FederateHandle, class hla.ObjectClassHandle, attr hla.AttributeHandle) bool
}

type key struct {
	object    hla.ObjectInstanceHandle
	attribute hla.AttributeHandle
}

type request struct {
	federate hla.FederateHandle
	tag      []byte
}

// Manager runs the ownership negotiations of one federation.
type Manager struct {
	mu sync.Mutex

	objects *object.Registry
	pubs    Publications

	divesting map[key]request
	acquiring map[key]request
}

// NewManager creates a manager over the given registry and declarations.
func NewManager(objects *object.Registry, pubs Publications) *Manager {
	return &Manager{
		objects:   objects,
		pubs:      pubs,
		divesting: make(map[key]request),
		acquiring: make(map[key]request),
	}
}

// State returns the negotiation state of attr and the federate it refers to:
// the owner for StateOwned and StateDivestPending, the requester for
// StateAcquirePending.
func (m *Manager) State(obj hla.ObjectInstanceHandle, attr hla.AttributeHandle) (State, hla.FederateHandle, error) {
	o, err := m.objects.Get(obj)
	if err != nil {
		return StateUnowned, 0, err
	}
	owner, ok := o.Owner(attr)
	if !ok {
		return StateUnowned, 0, rtierr.Errorf(rtierr.AttributeNotDefined, "attribute %d of object %d", attr, obj)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{obj, attr}
	switch {
	case owner == hla.Unowned:
		return StateUnowned, owner, nil
	case owner == hla.RTIOwned:
		return StateRTIOwned, owner, nil
	}
	if r, ok := m.acquiring[k]; ok {
		return StateAcquirePending, r.federate, nil
	}
	if _, ok := m.divesting[k]; ok {
		return StateDivestPending, owner, nil
	}
	return StateOwned, owner, nil
}

func defined(o *object.Instance, attrs hla.AttributeHandleSet) error {
	for _, a := range attrs.Sorted() {
		if !o.HasAttribute(a) {
			return rtierr.Errorf(rtierr.AttributeNotDefined, "attribute %d is not defined for object %d", a, o.Handle)
		}
	}
	return nil
}

func ownedBy(o *object.Instance, fed hla.FederateHandle, attrs hla.AttributeHandleSet) error {
	if err := defined(o, attrs); err != nil {
		return err
	}
	for _, a := range attrs.Sorted() {
		if owner, _ := o.Owner(a); owner != fed {
			return rtierr.Errorf(rtierr.AttributeNotOwned, "attribute %d of object %d is not owned by federate %d", a, o.Handle, fed)
		}
	}
	return nil
}

// transfer moves attr to a new owner and closes its negotiations. Caller
// holds m.mu.
func (m *Manager) transfer(o *object.Instance, attr hla.AttributeHandle, to hla.FederateHandle) {
	k := key{o.Handle, attr}
	delete(m.acquiring, k)
	delete(m.divesting, k)
	m.objects.SetOwner(o, attr, to)
}

// UnconditionalDivest gives up attrs at once. An attribute with a pending
// acquisition goes straight to the requester; the others become unowned.
func (m *Manager) UnconditionalDivest(fed hla.FederateHandle, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) ([]Notice, error) {
	o, err := m.objects.Known(fed, obj)
	if err != nil {
		return nil, err
	}
	if err := ownedBy(o, fed, attrs); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := newNotices(obj)
	for _, a := range attrs.Sorted() {
		if r, ok := m.acquiring[key{obj, a}]; ok {
			m.transfer(o, a, r.federate)
			n.add(NoticeAcquisition, r.federate, a, r.tag)
			continue
		}
		m.transfer(o, a, hla.Unowned)
	}
	return n.list(), nil
}

// NegotiatedDivest offers attrs to other federates. Attributes somebody is
// already trying to acquire transfer immediately; the rest stay owned by fed
// with a divestiture pending, and every other federate that knows the object
// and publishes some of them is asked to assume ownership.
func (m *Manager) NegotiatedDivest(fed hla.FederateHandle, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet, tag []byte) ([]Notice, error) {
	o, err := m.objects.Known(fed, obj)
	if err != nil {
		return nil, err
	}
	if err := ownedBy(o, fed, attrs); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range attrs.Sorted() {
		if _, ok := m.divesting[key{obj, a}]; ok {
			return nil, rtierr.Errorf(rtierr.AttributeAlreadyBeingDivested, "attribute %d of object %d", a, obj)
		}
	}

	n := newNotices(obj)
	offered := make(hla.AttributeHandleSet)
	for _, a := range attrs.Sorted() {
		k := key{obj, a}
		if r, ok := m.acquiring[k]; ok {
			m.transfer(o, a, r.federate)
			n.add(NoticeDivestiture, fed, a, nil)
			n.add(NoticeAcquisition, r.federate, a, r.tag)
			continue
		}
		m.divesting[k] = request{federate: fed, tag: tag}
		offered.Add(a)
	}

	for _, other := range o.Discoverers() {
		if other == fed || !m.pubs.IsObjectClassPublished(other, o.Class) {
			continue
		}
		for _, a := range offered.Sorted() {
			if m.pubs.IsAttributePublished(other, o.Class, a) {
				n.add(NoticeAssumptionRequested, other, a, tag)
			}
		}
	}
	return n.list(), nil
}

// validateAcquisition runs the checks shared by both acquisition flavours.
func (m *Manager) validateAcquisition(fed hla.FederateHandle, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) (*object.Instance, error) {
	o, err := m.objects.Known(fed, obj)
	if err != nil {
		return nil, err
	}
	if !m.pubs.IsObjectClassPublished(fed, o.Class) {
		return nil, rtierr.Errorf(rtierr.ObjectClassNotPublished, "object class %d is not published by federate %d", o.Class, fed)
	}
	if err := defined(o, attrs); err != nil {
		return nil, err
	}
	for _, a := range attrs.Sorted() {
		if owner, _ := o.Owner(a); owner == fed {
			return nil, rtierr.Errorf(rtierr.FederateOwnsAttributes, "federate %d already owns attribute %d of object %d", fed, a, obj)
		}
	}
	for _, a := range attrs.Sorted() {
		if !m.pubs.IsAttributePublished(fed, o.Class, a) {
			return nil, rtierr.Errorf(rtierr.AttributeNotPublished, "attribute %d is not published by federate %d", a, fed)
		}
	}
	return o, nil
}

// Acquire asks for attrs. Unowned attributes and attributes whose owner is
// divesting transfer at once; for the others the owner is asked to release.
func (m *Manager) Acquire(fed hla.FederateHandle, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet, tag []byte) ([]Notice, error) {
	o, err := m.validateAcquisition(fed, obj, attrs)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range attrs.Sorted() {
		if r, ok := m.acquiring[key{obj, a}]; ok && r.federate != fed {
			return nil, rtierr.Errorf(rtierr.AttributeAlreadyBeingAcquired, "attribute %d of object %d is being acquired by federate %d", a, obj, r.federate)
		}
	}

	n := newNotices(obj)
	for _, a := range attrs.Sorted() {
		k := key{obj, a}
		owner, _ := o.Owner(a)
		switch {
		case owner == hla.Unowned:
			m.transfer(o, a, fed)
			n.add(NoticeAcquisition, fed, a, tag)
		case owner == hla.RTIOwned:
			n.add(NoticeUnavailable, fed, a, nil)
		default:
			if _, ok := m.divesting[k]; ok {
				m.transfer(o, a, fed)
				n.add(NoticeDivestiture, owner, a, nil)
				n.add(NoticeAcquisition, fed, a, tag)
				continue
			}
			m.acquiring[k] = request{federate: fed, tag: tag}
			n.add(NoticeReleaseRequested, owner, a, tag)
		}
	}
	return n.list(), nil
}

// AcquireIfAvailable takes the attributes that are unowned or being divested
// and reports the rest as unavailable without asking their owners.
func (m *Manager) AcquireIfAvailable(fed hla.FederateHandle, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) ([]Notice, error) {
	o, err := m.validateAcquisition(fed, obj, attrs)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range attrs.Sorted() {
		if _, ok := m.acquiring[key{obj, a}]; ok {
			return nil, rtierr.Errorf(rtierr.AttributeAlreadyBeingAcquired, "attribute %d of object %d already has an acquisition pending", a, obj)
		}
	}

	n := newNotices(obj)
	for _, a := range attrs.Sorted() {
		owner, _ := o.Owner(a)
		_, divesting := m.divesting[key{obj, a}]
		switch {
		case owner == hla.Unowned:
			m.transfer(o, a, fed)
			n.add(NoticeAcquisition, fed, a, nil)
		case owner != hla.RTIOwned && divesting:
			m.transfer(o, a, fed)
			n.add(NoticeDivestiture, owner, a, nil)
			n.add(NoticeAcquisition, fed, a, nil)
		default:
			n.add(NoticeUnavailable, fed, a, nil)
		}
	}
	return n.list(), nil
}

// ReleaseResponse is the owner's answer to a release request. Every attribute
// in attrs moves to the federate that asked for it; the released set is
// returned.
func (m *Manager) ReleaseResponse(fed hla.FederateHandle, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) (hla.AttributeHandleSet, []Notice, error) {
	o, err := m.objects.Known(fed, obj)
	if err != nil {
		return nil, nil, err
	}
	if err := ownedBy(o, fed, attrs); err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range attrs.Sorted() {
		if _, ok := m.acquiring[key{obj, a}]; !ok {
			return nil, nil, rtierr.Errorf(rtierr.FederateWasNotAskedToReleaseAttribute, "attribute %d of object %d", a, obj)
		}
	}

	n := newNotices(obj)
	released := make(hla.AttributeHandleSet, len(attrs))
	for _, a := range attrs.Sorted() {
		k := key{obj, a}
		r := m.acquiring[k]
		if _, ok := m.divesting[k]; ok {
			n.add(NoticeDivestiture, fed, a, nil)
		}
		m.transfer(o, a, r.federate)
		n.add(NoticeAcquisition, r.federate, a, r.tag)
		released.Add(a)
	}
	return released, n.list(), nil
}

// CancelNegotiatedDivest withdraws a divestiture offer.
func (m *Manager) CancelNegotiatedDivest(fed hla.FederateHandle, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) error {
	o, err := m.objects.Known(fed, obj)
	if err != nil {
		return err
	}
	if err := ownedBy(o, fed, attrs); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range attrs.Sorted() {
		if r, ok := m.divesting[key{obj, a}]; !ok || r.federate != fed {
			return rtierr.Errorf(rtierr.AttributeDivestitureWasNotRequested, "attribute %d of object %d", a, obj)
		}
	}
	for a := range attrs {
		delete(m.divesting, key{obj, a})
	}
	return nil
}

// CancelAcquisition withdraws a pending acquisition.
func (m *Manager) CancelAcquisition(fed hla.FederateHandle, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) ([]Notice, error) {
	o, err := m.objects.Known(fed, obj)
	if err != nil {
		return nil, err
	}
	if err := defined(o, attrs); err != nil {
		return nil, err
	}
	for _, a := range attrs.Sorted() {
		if owner, _ := o.Owner(a); owner == fed {
			return nil, rtierr.Errorf(rtierr.AttributeAlreadyOwned, "attribute %d of object %d", a, obj)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range attrs.Sorted() {
		if r, ok := m.acquiring[key{obj, a}]; !ok || r.federate != fed {
			return nil, rtierr.Errorf(rtierr.AttributeAcquisitionWasNotRequested, "attribute %d of object %d", a, obj)
		}
	}
	n := newNotices(obj)
	for _, a := range attrs.Sorted() {
		delete(m.acquiring, key{obj, a})
		n.add(NoticeCancellationConfirmed, fed, a, nil)
	}
	return n.list(), nil
}

// Owner returns the owner of attr as seen by fed.
func (m *Manager) Owner(fed hla.FederateHandle, obj hla.ObjectInstanceHandle, attr hla.AttributeHandle) (hla.FederateHandle, error) {
	o, err := m.objects.Known(fed, obj)
	if err != nil {
		return 0, err
	}
	owner, ok := o.Owner(attr)
	if !ok {
		return 0, rtierr.Errorf(rtierr.AttributeNotDefined, "attribute %d of object %d", attr, obj)
	}
	return owner, nil
}

// IsOwnedBy reports whether fed owns attr.
func (m *Manager) IsOwnedBy(fed hla.FederateHandle, obj hla.ObjectInstanceHandle, attr hla.AttributeHandle) (bool, error) {
	owner, err := m.Owner(fed, obj, attr)
	if err != nil {
		return false, err
	}
	return owner == fed, nil
}

// ForgetObject drops the negotiations of a deleted object.
func (m *Manager) ForgetObject(obj hla.ObjectInstanceHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.divesting {
		if k.object == obj {
			delete(m.divesting, k)
		}
	}
	for k := range m.acquiring {
		if k.object == obj {
			delete(m.acquiring, k)
		}
	}
}

// ReleaseAll divests every attribute fed owns unconditionally and drops its
// pending acquisitions. It runs when fed resigns.
func (m *Manager) ReleaseAll(fed hla.FederateHandle) []Notice {
	m.mu.Lock()
	for k, r := range m.acquiring {
		if r.federate == fed {
			delete(m.acquiring, k)
		}
	}
	m.mu.Unlock()

	var out []Notice
	for _, o := range m.objects.Instances() {
		owned := o.OwnedBy(fed)
		if owned.IsEmpty() {
			continue
		}
		m.mu.Lock()
		n := newNotices(o.Handle)
		for _, a := range owned.Sorted() {
			if r, ok := m.acquiring[key{o.Handle, a}]; ok {
				m.transfer(o, a, r.federate)
				n.add(NoticeAcquisition, r.federate, a, r.tag)
				continue
			}
			m.transfer(o, a, hla.Unowned)
		}
		m.mu.Unlock()
		out = append(out, n.list()...)
	}
	return out
}

// Pending is a persisted negotiation.
type Pending struct {
	Object    hla.ObjectInstanceHandle `json:"object"`
	Attribute hla.AttributeHandle      `json:"attribute"`
	Federate  hla.FederateHandle       `json:"federate"`
	Tag       []byte                   `json:"tag,omitempty"`
}

// Snapshot is the persisted negotiation state.
type Snapshot struct {
	Divesting []Pending `json:"divesting,omitempty"`
	Acquiring []Pending `json:"acquiring,omitempty"`
}

func pendingList(m map[key]request) []Pending {
	out := make([]Pending, 0, len(m))
	for k, r := range m {
		out = append(out, Pending{Object: k.object, Attribute: k.attribute, Federate: r.federate, Tag: r.tag})
	}
	slices.SortFunc(out, func(a, b Pending) int {
		if a.Object != b.Object {
			return int(a.Object) - int(b.Object)
		}
		return int(a.Attribute) - int(b.Attribute)
	})
	return out
}

// Snapshot captures the open negotiations.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{Divesting: pendingList(m.divesting), Acquiring: pendingList(m.acquiring)}
}

// Restore replaces the open negotiations.
func (m *Manager) Restore(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.divesting = make(map[key]request, len(s.Divesting))
	m.acquiring = make(map[key]request, len(s.Acquiring))
	for _, p := range s.Divesting {
		m.divesting[key{p.Object, p.Attribute}] = request{federate: p.Federate, tag: p.Tag}
	}
	for _, p := range s.Acquiring {
		m.acquiring[key{p.Object, p.Attribute}] = request{federate: p.Federate, tag: p.Tag}
	}
}
