package declaration

import (
	"maps"
	"slices"

	"github.com/openlvc/portico-sub003/pkg/hla"
)

// ObjectDeclaration is the persisted form of one object class declaration.
type ObjectDeclaration struct {
	Federate   hla.FederateHandle                         `json:"federate"`
	Class      hla.ObjectClassHandle                      `json:"class"`
	Published  []hla.AttributeHandle                      `json:"published,omitempty"`
	Subscribed []hla.AttributeHandle                      `json:"subscribed,omitempty"`
	Regions    map[hla.RegionHandle][]hla.AttributeHandle `json:"regions,omitempty"`
	Active     bool                                       `json:"active,omitempty"`
}

// InteractionDeclaration is the persisted form of one interaction class
// declaration.
type InteractionDeclaration struct {
	Federate   hla.FederateHandle         `json:"federate"`
	Class      hla.InteractionClassHandle `json:"class"`
	Published  bool                       `json:"published,omitempty"`
	Subscribed bool                       `json:"subscribed,omitempty"`
	Regions    []hla.RegionHandle         `json:"regions,omitempty"`
	Active     bool                       `json:"active,omitempty"`
}

// Snapshot is the persisted declaration state of a federation.
type Snapshot struct {
	Objects      []ObjectDeclaration      `json:"objects,omitempty"`
	Interactions []InteractionDeclaration `json:"interactions,omitempty"`
}

type objKey struct {
	fed   hla.FederateHandle
	class hla.ObjectClassHandle
}

type intKey struct {
	fed   hla.FederateHandle
	class hla.InteractionClassHandle
}

// Snapshot captures every declaration.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	objs := make(map[objKey]*ObjectDeclaration)
	obj := func(k objKey) *ObjectDeclaration {
		d, ok := objs[k]
		if !ok {
			d = &ObjectDeclaration{Federate: k.fed, Class: k.class}
			objs[k] = d
		}
		return d
	}
	for fed, pubs := range m.objPubs {
		for class, attrs := range pubs {
			obj(objKey{fed, class}).Published = attrs.Sorted()
		}
	}
	for fed, subs := range m.objSubs {
		for class, s := range subs {
			d := obj(objKey{fed, class})
			d.Subscribed = s.Default.Sorted()
			d.Active = s.Active
			if len(s.Regions) > 0 {
				d.Regions = make(map[hla.RegionHandle][]hla.AttributeHandle, len(s.Regions))
				for r, attrs := range s.Regions {
					d.Regions[r] = attrs.Sorted()
				}
			}
		}
	}

	ints := make(map[intKey]*InteractionDeclaration)
	in := func(k intKey) *InteractionDeclaration {
		d, ok := ints[k]
		if !ok {
			d = &InteractionDeclaration{Federate: k.fed, Class: k.class}
			ints[k] = d
		}
		return d
	}
	for fed, pubs := range m.intPubs {
		for class := range pubs {
			in(intKey{fed, class}).Published = true
		}
	}
	for fed, subs := range m.intSubs {
		for class, s := range subs {
			d := in(intKey{fed, class})
			d.Subscribed = s.Default
			d.Regions = s.Regions.Sorted()
			d.Active = s.Active
		}
	}

	var snap Snapshot
	for _, k := range slices.SortedFunc(maps.Keys(objs), func(a, b objKey) int {
		if a.fed != b.fed {
			return int(a.fed) - int(b.fed)
		}
		return int(a.class) - int(b.class)
	}) {
		snap.Objects = append(snap.Objects, *objs[k])
	}
	for _, k := range slices.SortedFunc(maps.Keys(ints), func(a, b intKey) int {
		if a.fed != b.fed {
			return int(a.fed) - int(b.fed)
		}
		return int(a.class) - int(b.class)
	}) {
		snap.Interactions = append(snap.Interactions, *ints[k])
	}
	return snap
}

// Restore replaces every declaration with the snapshot content.
func (m *Manager) Restore(snap Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objPubs = make(map[hla.FederateHandle]map[hla.ObjectClassHandle]hla.AttributeHandleSet)
	m.objSubs = make(map[hla.FederateHandle]map[hla.ObjectClassHandle]*ObjectSubscription)
	m.intPubs = make(map[hla.FederateHandle]interactionSet)
	m.intSubs = make(map[hla.FederateHandle]map[hla.InteractionClassHandle]*InteractionSubscription)

	for _, d := range snap.Objects {
		if len(d.Published) > 0 {
			if m.objPubs[d.Federate] == nil {
				m.objPubs[d.Federate] = make(map[hla.ObjectClassHandle]hla.AttributeHandleSet)
			}
			m.objPubs[d.Federate][d.Class] = hla.NewAttributeHandleSet(d.Published...)
		}
		if len(d.Subscribed) > 0 || len(d.Regions) > 0 {
			s := m.objectSubscription(d.Federate, d.Class, true)
			if len(d.Subscribed) > 0 {
				s.Default = hla.NewAttributeHandleSet(d.Subscribed...)
			}
			for r, attrs := range d.Regions {
				s.Regions[r] = hla.NewAttributeHandleSet(attrs...)
			}
			s.Active = d.Active
		}
	}
	for _, d := range snap.Interactions {
		if d.Published {
			if m.intPubs[d.Federate] == nil {
				m.intPubs[d.Federate] = make(interactionSet)
			}
			m.intPubs[d.Federate].Add(d.Class)
		}
		if d.Subscribed || len(d.Regions) > 0 {
			s := m.interactionSubscription(d.Federate, d.Class, true)
			s.Default = d.Subscribed
			for _, r := range d.Regions {
				s.Regions.Add(r)
			}
			s.Active = d.Active
		}
	}
}
