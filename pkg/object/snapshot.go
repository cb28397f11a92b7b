package object

import (
	"maps"
	"slices"

	"github.com/openlvc/portico-sub003/pkg/hla"
)

// AttributeSnapshot is the persisted form of one attribute.
type AttributeSnapshot struct {
	Handle hla.AttributeHandle `json:"handle"`
	Owner  hla.FederateHandle  `json:"owner"`
	Region hla.RegionHandle    `json:"region,omitempty"`
}

// Snapshot is the persisted form of one instance.
type Snapshot struct {
	Handle     hla.ObjectInstanceHandle                     `json:"handle"`
	Name       string                                       `json:"name"`
	Class      hla.ObjectClassHandle                        `json:"class"`
	Registrant hla.FederateHandle                           `json:"registrant"`
	Attributes []AttributeSnapshot                          `json:"attributes"`
	Discovered map[hla.FederateHandle]hla.ObjectClassHandle `json:"discovered,omitempty"`
}

// Snapshot captures every instance.
func (r *Registry) Snapshot() []Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Snapshot, 0, len(r.instances))
	for _, o := range r.instancesSorted() {
		s := Snapshot{
			Handle:     o.Handle,
			Name:       o.Name,
			Class:      o.Class,
			Registrant: o.Registrant,
			Discovered: maps.Clone(o.discovered),
		}
		for _, h := range o.AttributeHandles().Sorted() {
			a := o.attributes[h]
			s.Attributes = append(s.Attributes, AttributeSnapshot{Handle: h, Owner: a.Owner, Region: a.Region})
		}
		out = append(out, s)
	}
	return out
}

func (r *Registry) instancesSorted() []*Instance {
	handles := slices.Sorted(maps.Keys(r.instances))
	out := make([]*Instance, len(handles))
	for i, h := range handles {
		out[i] = r.instances[h]
	}
	return out
}

// Restore replaces the registry content with a snapshot.
func (r *Registry) Restore(snap []Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.instances = make(map[hla.ObjectInstanceHandle]*Instance, len(snap))
	r.names = make(map[string]hla.ObjectInstanceHandle, len(snap))
	r.next = 0
	for _, s := range snap {
		o := &Instance{
			Handle:     s.Handle,
			Name:       s.Name,
			Class:      s.Class,
			Registrant: s.Registrant,
			attributes: make(map[hla.AttributeHandle]*Attribute, len(s.Attributes)),
			discovered: maps.Clone(s.Discovered),
		}
		if o.discovered == nil {
			o.discovered = make(map[hla.FederateHandle]hla.ObjectClassHandle)
		}
		for _, a := range s.Attributes {
			o.attributes[a.Handle] = &Attribute{Owner: a.Owner, Region: a.Region}
		}
		r.instances[o.Handle] = o
		r.names[o.Name] = o.Handle
		r.next = max(r.next, o.Handle)
	}
}
