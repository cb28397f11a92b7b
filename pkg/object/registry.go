package object

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

// NamePrefix prefixes the names the RTI generates for unnamed instances.
const NamePrefix = "HLAobject_"

// Attribute is the per-instance state of one attribute.
type Attribute struct {
	Owner  hla.FederateHandle
	Region hla.RegionHandle
}

// Instance is a registered object instance.
type Instance struct {
	Handle     hla.ObjectInstanceHandle
	Name       string
	Class      hla.ObjectClassHandle
	Registrant hla.FederateHandle

	attributes map[hla.AttributeHandle]*Attribute
	discovered map[hla.FederateHandle]hla.ObjectClassHandle
}

// Owner returns the owner of attr, and false when attr is not an attribute of
// the instance's class.
func (o *Instance) Owner(attr hla.AttributeHandle) (hla.FederateHandle, bool) {
	a, ok := o.attributes[attr]
	if !ok {
		return hla.Unowned, false
	}
	return a.Owner, true
}

// HasAttribute reports whether attr belongs to the instance's class.
func (o *Instance) HasAttribute(attr hla.AttributeHandle) bool {
	_, ok := o.attributes[attr]
	return ok
}

// Region returns the update region associated with attr, or zero.
func (o *Instance) Region(attr hla.AttributeHandle) hla.RegionHandle {
	if a, ok := o.attributes[attr]; ok {
		return a.Region
	}
	return 0
}

// AttributeHandles returns every attribute of the instance.
func (o *Instance) AttributeHandles() hla.AttributeHandleSet {
	s := make(hla.AttributeHandleSet, len(o.attributes))
	for h := range o.attributes {
		s.Add(h)
	}
	return s
}

// OwnedBy returns the attributes owned by fed.
func (o *Instance) OwnedBy(fed hla.FederateHandle) hla.AttributeHandleSet {
	s := make(hla.AttributeHandleSet)
	for h, a := range o.attributes {
		if a.Owner == fed {
			s.Add(h)
		}
	}
	return s
}

// DiscoveredAs returns the class fed discovered the instance as.
func (o *Instance) DiscoveredAs(fed hla.FederateHandle) (hla.ObjectClassHandle, bool) {
	c, ok := o.discovered[fed]
	return c, ok
}

// Discoverers returns the federates that know the instance, ordered by handle.
func (o *Instance) Discoverers() []hla.FederateHandle {
	return slices.Sorted(maps.Keys(o.discovered))
}

// Registry holds the object instances of one federation.
type Registry struct {
	mu        sync.RWMutex
	instances map[hla.ObjectInstanceHandle]*Instance
	names     map[string]hla.ObjectInstanceHandle
	next      hla.ObjectInstanceHandle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		instances: make(map[hla.ObjectInstanceHandle]*Instance),
		names:     make(map[string]hla.ObjectInstanceHandle),
	}
}

// Register creates an instance of class with the given attributes. owned
// receives the registrant as owner; the rest start unowned. An empty name is
// replaced by a generated one.
func (r *Registry) Register(class hla.ObjectClassHandle, name string, registrant hla.FederateHandle, all, owned hla.AttributeHandleSet) (*Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name != "" {
		if _, taken := r.names[name]; taken {
			return nil, rtierr.Errorf(rtierr.ObjectAlreadyRegistered, "object name %q is already in use", name)
		}
	}

	r.next++
	o := &Instance{
		Handle:     r.next,
		Name:       name,
		Class:      class,
		Registrant: registrant,
		attributes: make(map[hla.AttributeHandle]*Attribute, len(all)),
		discovered: make(map[hla.FederateHandle]hla.ObjectClassHandle),
	}
	if o.Name == "" {
		o.Name = fmt.Sprintf("%s%d", NamePrefix, o.Handle)
		if _, taken := r.names[o.Name]; taken {
			r.next--
			return nil, rtierr.Errorf(rtierr.ObjectAlreadyRegistered, "object name %q is already in use", o.Name)
		}
	}
	for h := range all {
		a := &Attribute{Owner: hla.Unowned}
		if owned.Contains(h) {
			a.Owner = registrant
		}
		o.attributes[h] = a
	}
	// The registrant knows its own object as the registered class.
	if registrant.IsFederate() {
		o.discovered[registrant] = class
	}

	r.instances[o.Handle] = o
	r.names[o.Name] = o.Handle
	return o, nil
}

// Get returns the instance with handle h.
func (r *Registry) Get(h hla.ObjectInstanceHandle) (*Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.instances[h]
	if !ok {
		return nil, rtierr.Errorf(rtierr.ObjectNotKnown, "object instance %d", h)
	}
	return o, nil
}

// ByName returns the instance with the given name.
func (r *Registry) ByName(name string) (*Instance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.names[name]
	if !ok {
		return nil, rtierr.Errorf(rtierr.ObjectNotKnown, "object instance %q", name)
	}
	return r.instances[h], nil
}

// Known returns the instance with handle h if fed has discovered it.
func (r *Registry) Known(fed hla.FederateHandle, h hla.ObjectInstanceHandle) (*Instance, error) {
	o, err := r.Get(h)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	_, ok := o.discovered[fed]
	r.mu.RUnlock()
	if !ok {
		return nil, rtierr.Errorf(rtierr.ObjectNotKnown, "object instance %d is not known to federate %d", h, fed)
	}
	return o, nil
}

// Delete removes the instance with handle h.
func (r *Registry) Delete(h hla.ObjectInstanceHandle) (*Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.instances[h]
	if !ok {
		return nil, rtierr.Errorf(rtierr.ObjectNotKnown, "object instance %d", h)
	}
	delete(r.instances, h)
	delete(r.names, o.Name)
	return o, nil
}

// SetOwner records the new owner of attr.
func (r *Registry) SetOwner(o *Instance, attr hla.AttributeHandle, owner hla.FederateHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := o.attributes[attr]; ok {
		a.Owner = owner
	}
}

// SetRegion associates attr with an update region; zero removes the
// association.
func (r *Registry) SetRegion(o *Instance, attr hla.AttributeHandle, region hla.RegionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := o.attributes[attr]; ok {
		a.Region = region
	}
}

// MarkDiscovered records that fed knows o as class.
func (r *Registry) MarkDiscovered(o *Instance, fed hla.FederateHandle, class hla.ObjectClassHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.discovered[fed] = class
}

// Forget records that fed no longer knows o.
func (r *Registry) Forget(o *Instance, fed hla.FederateHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(o.discovered, fed)
}

// Instances returns every instance ordered by handle.
func (r *Registry) Instances() []*Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Instance, 0, len(r.instances))
	for _, h := range slices.Sorted(maps.Keys(r.instances)) {
		out = append(out, r.instances[h])
	}
	return out
}

// RegionInUse reports whether any attribute is associated with region.
func (r *Registry) RegionInUse(region hla.RegionHandle) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.instances {
		for _, a := range o.attributes {
			if a.Region == region {
				return true
			}
		}
	}
	return false
}

// Len returns the number of registered instances.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances)
}
