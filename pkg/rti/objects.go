package rti

import (
	"github.com/openlvc/portico-sub003/pkg/fedtime"
	"github.com/openlvc/portico-sub003/pkg/fom"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/object"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

// overlaps tests an update region against a subscription region. A region
// that no longer exists overlaps nothing.
func (f *Federation) overlaps(update, sub hla.RegionHandle) bool {
	u, err := f.regions.Get(update)
	if err != nil {
		return false
	}
	s, err := f.regions.Get(sub)
	if err != nil {
		return false
	}
	return u.Overlaps(s)
}

// holdsDeletePrivilege reports whether fed owns privilegeToDelete of o.
func (f *Federation) holdsDeletePrivilege(fed hla.FederateHandle, o *object.Instance) bool {
	c, err := f.model.ObjectClass(o.Class)
	if err != nil {
		return false
	}
	p, ok := c.AttributeByName(fom.PrivilegeToDelete)
	if !ok {
		return o.Registrant == fed
	}
	owner, _ := o.Owner(p.Handle)
	return owner == fed
}

// distribute discovers o to every subscriber that finds it relevant for the
// first time and reflects values to the subscribers of those attributes.
// With nil values nothing is reflected and relevance is judged over every
// attribute of o.
func (f *Federation) distribute(o *object.Instance, sender hla.FederateHandle, values hla.AttributeHandleValueMap, tag []byte, t *fedtime.Time, tso bool) {
	c, err := f.model.ObjectClass(o.Class)
	if err != nil {
		return
	}
	candidates := o.AttributeHandles()
	if values != nil {
		candidates = values.HandleSet()
	}

	for _, s := range f.decl.ObjectSubscribers(objectChain(c)) {
		if s.Federate == sender {
			continue
		}
		if _, joined := f.members[s.Federate]; !joined {
			continue
		}
		relevant := make(hla.AttributeHandleSet)
		for a := range candidates {
			if s.Relevant(a, o.Region(a), f.overlaps) {
				relevant.Add(a)
			}
		}
		if relevant.IsEmpty() {
			continue
		}

		if _, known := o.DiscoveredAs(s.Federate); !known {
			f.objects.MarkDiscovered(o, s.Federate, s.Class)
			f.post(s.Federate, wire.Callback{
				Kind:        wire.CallbackDiscoverObjectInstance,
				Object:      o.Handle,
				ObjectClass: s.Class,
				Name:        o.Name,
			})
		}
		if values != nil {
			f.route(s.Federate, tso, wire.Callback{
				Kind:   wire.CallbackReflectAttributeValues,
				Object: o.Handle,
				Values: values.Filter(relevant),
				Tag:    tag,
				Time:   t,
			})
		}
	}
}

// removeObject deletes o and tells every other federate that knows it.
func (f *Federation) removeObject(sender hla.FederateHandle, o *object.Instance, tag []byte, t *fedtime.Time, tso bool) {
	for _, h := range o.Discoverers() {
		if h == sender {
			continue
		}
		f.route(h, tso, wire.Callback{
			Kind:   wire.CallbackRemoveObjectInstance,
			Object: o.Handle,
			Tag:    tag,
			Time:   t,
		})
	}
	f.objects.Delete(o.Handle)
	f.owners.ForgetObject(o.Handle)
}

func (f *Federation) registerObject(m *member, class hla.ObjectClassHandle, name string, attrs []hla.AttributeHandle, regions []hla.RegionHandle) (wire.Result, error) {
	c, err := f.model.ObjectClass(class)
	if err != nil {
		return wire.Result{}, err
	}
	if !f.decl.IsObjectClassPublished(m.handle, class) {
		return wire.Result{}, rtierr.Errorf(rtierr.ObjectClassNotPublished, "object class %s is not published", c.QualifiedName)
	}
	if len(attrs) != len(regions) {
		return wire.Result{}, rtierr.Errorf(rtierr.ArrayIndexOutOfBounds, "%d attributes but %d regions", len(attrs), len(regions))
	}
	for i, h := range attrs {
		a, ok := c.Attribute(h)
		if !ok {
			return wire.Result{}, rtierr.Errorf(rtierr.AttributeNotDefined, "attribute %d is not defined for %s", h, c.QualifiedName)
		}
		if !f.decl.IsAttributePublished(m.handle, class, h) {
			return wire.Result{}, rtierr.Errorf(rtierr.AttributeNotPublished, "attribute %s is not published", a.Name)
		}
		r, err := f.regions.Owned(m.handle, regions[i])
		if err != nil {
			return wire.Result{}, err
		}
		if a.Space == nil || a.Space.Handle != r.Space {
			return wire.Result{}, rtierr.Errorf(rtierr.InvalidRegionContext, "attribute %s is not in the routing space of region %d", a.Name, r.Handle)
		}
	}

	owned := f.decl.PublishedAttributes(m.handle, class)
	if p, ok := c.AttributeByName(fom.PrivilegeToDelete); ok {
		owned.Add(p.Handle)
	}
	o, err := f.objects.Register(class, name, m.handle, c.AttributeHandles(), owned)
	if err != nil {
		return wire.Result{}, err
	}
	for i, h := range attrs {
		f.objects.SetRegion(o, h, regions[i])
	}
	f.distribute(o, m.handle, nil, nil, nil, false)

	f.logger.Debug("object registered", "federate", m.handle, "object", o.Handle, "class", c.QualifiedName, "name", o.Name)
	return wire.Result{Object: o.Handle, Name: o.Name}, nil
}

func (f *Federation) updateAttributeValues(m *member, obj hla.ObjectInstanceHandle, values hla.AttributeHandleValueMap, tag []byte, t *fedtime.Time) error {
	o, err := f.objects.Known(m.handle, obj)
	if err != nil {
		return err
	}
	for _, h := range values.Handles() {
		owner, ok := o.Owner(h)
		if !ok {
			return rtierr.Errorf(rtierr.AttributeNotDefined, "attribute %d is not defined for object %d", h, obj)
		}
		if owner != m.handle {
			return rtierr.Errorf(rtierr.AttributeNotOwned, "attribute %d of object %d is owned by %s", h, obj, owner)
		}
	}
	tso, err := f.sendOrder(m.handle, t)
	if err != nil {
		return err
	}
	f.distribute(o, m.handle, values.Clone(), tag, t, tso)
	return nil
}

func (f *Federation) sendInteraction(m *member, class hla.InteractionClassHandle, params hla.ParameterHandleValueMap, tag []byte, region hla.RegionHandle, t *fedtime.Time) error {
	c, err := f.model.InteractionClass(class)
	if err != nil {
		return err
	}
	if !f.decl.IsInteractionClassPublished(m.handle, class) {
		return rtierr.Errorf(rtierr.InteractionClassNotPublished, "interaction class %s is not published", c.QualifiedName)
	}
	if _, err := f.model.ValidateParameters(class, params.Handles()); err != nil {
		return err
	}
	if region != 0 {
		r, err := f.regions.Owned(m.handle, region)
		if err != nil {
			return err
		}
		if c.Space == nil || c.Space.Handle != r.Space {
			return rtierr.Errorf(rtierr.InvalidRegionContext, "interaction class %s is not in the routing space of region %d", c.QualifiedName, region)
		}
	}
	tso, err := f.sendOrder(m.handle, t)
	if err != nil {
		return err
	}

	for _, s := range f.decl.InteractionSubscribers(interactionChain(c)) {
		if s.Federate == m.handle || !s.Relevant(region, f.overlaps) {
			continue
		}
		received, err := f.model.InteractionClass(s.Class)
		if err != nil {
			continue
		}
		// The receiver sees the interaction as the class it subscribed to.
		values := make(hla.ParameterHandleValueMap, len(params))
		for h, v := range params {
			if _, ok := received.Parameter(h); ok {
				values[h] = v
			}
		}
		f.route(s.Federate, tso, wire.Callback{
			Kind:             wire.CallbackReceiveInteraction,
			InteractionClass: s.Class,
			Parameters:       values.Clone(),
			Tag:              tag,
			Time:             t,
		})
	}
	return nil
}

func (f *Federation) deleteObject(m *member, obj hla.ObjectInstanceHandle, tag []byte, t *fedtime.Time) error {
	o, err := f.objects.Known(m.handle, obj)
	if err != nil {
		return err
	}
	if !f.holdsDeletePrivilege(m.handle, o) {
		return rtierr.Errorf(rtierr.DeletePrivilegeNotHeld, "federate %d may not delete object %d", m.handle, obj)
	}
	tso, err := f.sendOrder(m.handle, t)
	if err != nil {
		return err
	}
	f.removeObject(m.handle, o, tag, t, tso)

	f.logger.Debug("object deleted", "federate", m.handle, "object", obj)
	return nil
}

func (f *Federation) localDeleteObject(m *member, obj hla.ObjectInstanceHandle) error {
	o, err := f.objects.Known(m.handle, obj)
	if err != nil {
		return err
	}
	if !o.OwnedBy(m.handle).IsEmpty() {
		return rtierr.Errorf(rtierr.FederateOwnsAttributes, "federate %d owns attributes of object %d", m.handle, obj)
	}
	f.objects.Forget(o, m.handle)
	return nil
}

// solicit asks the owners of attrs of o to provide fresh values.
func (f *Federation) solicit(requester hla.FederateHandle, o *object.Instance, attrs hla.AttributeHandleSet) {
	byOwner := make(map[hla.FederateHandle]hla.AttributeHandleSet)
	for a := range attrs {
		owner, ok := o.Owner(a)
		if !ok || owner == requester || owner == hla.Unowned {
			continue
		}
		if byOwner[owner] == nil {
			byOwner[owner] = make(hla.AttributeHandleSet)
		}
		byOwner[owner].Add(a)
	}
	for owner, set := range byOwner {
		if owner == hla.RTIOwned {
			f.provideMOM(o, requester, set)
			continue
		}
		f.post(owner, wire.Callback{
			Kind:       wire.CallbackProvideAttributeValueUpdate,
			Object:     o.Handle,
			Attributes: set.Sorted(),
		})
	}
}

func (f *Federation) requestObjectUpdate(m *member, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) error {
	o, err := f.objects.Known(m.handle, obj)
	if err != nil {
		return err
	}
	for _, a := range attrs.Sorted() {
		if !o.HasAttribute(a) {
			return rtierr.Errorf(rtierr.AttributeNotDefined, "attribute %d is not defined for object %d", a, obj)
		}
	}
	f.solicit(m.handle, o, attrs)
	return nil
}

func (f *Federation) requestClassUpdate(m *member, class hla.ObjectClassHandle, attrs hla.AttributeHandleSet) error {
	c, err := f.model.ValidateAttributes(class, attrs)
	if err != nil {
		return err
	}
	for _, o := range f.objects.Instances() {
		oc, err := f.model.ObjectClass(o.Class)
		if err != nil || !oc.IsSubclassOf(c) {
			continue
		}
		f.solicit(m.handle, o, attrs)
	}
	return nil
}

func (f *Federation) objectName(m *member, obj hla.ObjectInstanceHandle) (wire.Result, error) {
	o, err := f.objects.Known(m.handle, obj)
	if err != nil {
		return wire.Result{}, err
	}
	return wire.Result{Object: o.Handle, Name: o.Name}, nil
}

func (f *Federation) objectHandle(m *member, name string) (wire.Result, error) {
	o, err := f.objects.ByName(name)
	if err != nil {
		return wire.Result{}, err
	}
	if _, err := f.objects.Known(m.handle, o.Handle); err != nil {
		return wire.Result{}, err
	}
	return wire.Result{Object: o.Handle, Name: o.Name}, nil
}

func (f *Federation) knownObjectClass(m *member, obj hla.ObjectInstanceHandle) (wire.Result, error) {
	o, err := f.objects.Known(m.handle, obj)
	if err != nil {
		return wire.Result{}, err
	}
	class, _ := o.DiscoveredAs(m.handle)
	return wire.Result{Object: o.Handle, ObjectClass: class}, nil
}
