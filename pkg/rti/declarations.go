package rti

import (
	"github.com/openlvc/portico-sub003/pkg/fom"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

// objectChain lists c followed by its ancestors up to ObjectRoot.
func objectChain(c *fom.ObjectClass) []hla.ObjectClassHandle {
	var out []hla.ObjectClassHandle
	for x := c; x != nil; x = x.Parent {
		out = append(out, x.Handle)
	}
	return out
}

// interactionChain lists c followed by its ancestors up to InteractionRoot.
func interactionChain(c *fom.InteractionClass) []hla.InteractionClassHandle {
	var out []hla.InteractionClassHandle
	for x := c; x != nil; x = x.Parent {
		out = append(out, x.Handle)
	}
	return out
}

func (f *Federation) publishObjectClass(m *member, class hla.ObjectClassHandle, attrs hla.AttributeHandleSet) error {
	if _, err := f.model.ValidateAttributes(class, attrs); err != nil {
		return err
	}
	f.decl.PublishObjectClass(m.handle, class, attrs)
	f.refreshAdvisories()
	return nil
}

func (f *Federation) unpublishObjectClass(m *member, class hla.ObjectClassHandle) error {
	if _, err := f.model.ObjectClass(class); err != nil {
		return err
	}
	if err := f.decl.UnpublishObjectClass(m.handle, class); err != nil {
		return err
	}
	f.refreshAdvisories()
	return nil
}

func (f *Federation) publishInteractionClass(m *member, class hla.InteractionClassHandle) error {
	if _, err := f.model.InteractionClass(class); err != nil {
		return err
	}
	f.decl.PublishInteractionClass(m.handle, class)
	f.refreshAdvisories()
	return nil
}

func (f *Federation) unpublishInteractionClass(m *member, class hla.InteractionClassHandle) error {
	if _, err := f.model.InteractionClass(class); err != nil {
		return err
	}
	if err := f.decl.UnpublishInteractionClass(m.handle, class); err != nil {
		return err
	}
	f.refreshAdvisories()
	return nil
}

func (f *Federation) subscribeObjectClass(m *member, class hla.ObjectClassHandle, attrs hla.AttributeHandleSet, active bool) error {
	if _, err := f.model.ValidateAttributes(class, attrs); err != nil {
		return err
	}
	f.decl.SubscribeObjectClassAttributes(m.handle, class, attrs, active)
	f.refreshAdvisories()
	return nil
}

func (f *Federation) unsubscribeObjectClass(m *member, class hla.ObjectClassHandle) error {
	if _, err := f.model.ObjectClass(class); err != nil {
		return err
	}
	if err := f.decl.UnsubscribeObjectClass(m.handle, class); err != nil {
		return err
	}
	f.refreshAdvisories()
	return nil
}

func (f *Federation) subscribeInteractionClass(m *member, class hla.InteractionClassHandle, active bool) error {
	if _, err := f.model.InteractionClass(class); err != nil {
		return err
	}
	f.decl.SubscribeInteractionClass(m.handle, class, active)
	f.refreshAdvisories()
	return nil
}

func (f *Federation) unsubscribeInteractionClass(m *member, class hla.InteractionClassHandle) error {
	if _, err := f.model.InteractionClass(class); err != nil {
		return err
	}
	if err := f.decl.UnsubscribeInteractionClass(m.handle, class); err != nil {
		return err
	}
	f.refreshAdvisories()
	return nil
}

func (f *Federation) subscribeObjectClassWithRegion(m *member, class hla.ObjectClassHandle, region hla.RegionHandle, attrs hla.AttributeHandleSet, active bool) error {
	c, err := f.model.ValidateAttributes(class, attrs)
	if err != nil {
		return err
	}
	r, err := f.regions.Owned(m.handle, region)
	if err != nil {
		return err
	}
	for _, h := range attrs.Sorted() {
		a, _ := c.Attribute(h)
		if a.Space == nil || a.Space.Handle != r.Space {
			return rtierr.Errorf(rtierr.InvalidRegionContext, "attribute %s is not in the routing space of region %d", a.Name, region)
		}
	}
	f.decl.SubscribeObjectClassAttributesWithRegion(m.handle, class, region, attrs, active)
	f.refreshAdvisories()
	return nil
}

func (f *Federation) unsubscribeObjectClassWithRegion(m *member, class hla.ObjectClassHandle, region hla.RegionHandle) error {
	if _, err := f.model.ObjectClass(class); err != nil {
		return err
	}
	if _, err := f.regions.Owned(m.handle, region); err != nil {
		return err
	}
	if err := f.decl.UnsubscribeObjectClassWithRegion(m.handle, class, region); err != nil {
		return err
	}
	f.refreshAdvisories()
	return nil
}

func (f *Federation) subscribeInteractionClassWithRegion(m *member, class hla.InteractionClassHandle, region hla.RegionHandle, active bool) error {
	c, err := f.model.InteractionClass(class)
	if err != nil {
		return err
	}
	r, err := f.regions.Owned(m.handle, region)
	if err != nil {
		return err
	}
	if c.Space == nil || c.Space.Handle != r.Space {
		return rtierr.Errorf(rtierr.InvalidRegionContext, "interaction class %s is not in the routing space of region %d", c.Name, region)
	}
	f.decl.SubscribeInteractionClassWithRegion(m.handle, class, region, active)
	f.refreshAdvisories()
	return nil
}

func (f *Federation) unsubscribeInteractionClassWithRegion(m *member, class hla.InteractionClassHandle, region hla.RegionHandle) error {
	if _, err := f.model.InteractionClass(class); err != nil {
		return err
	}
	if _, err := f.regions.Owned(m.handle, region); err != nil {
		return err
	}
	if err := f.decl.UnsubscribeInteractionClassWithRegion(m.handle, class, region); err != nil {
		return err
	}
	f.refreshAdvisories()
	return nil
}

// advisories computes, for fed, the published classes that some other
// federate actively subscribes to, directly or through a superclass.
func (f *Federation) advisories(fed hla.FederateHandle) (objectClassSet, interactionClassSet) {
	objects := make(objectClassSet)
	for _, c := range f.model.ObjectClasses() {
		if !f.decl.IsObjectClassPublished(fed, c.Handle) {
			continue
		}
		for _, s := range f.decl.ObjectSubscribers(objectChain(c)) {
			if s.Federate != fed && s.Active {
				objects.Add(c.Handle)
				break
			}
		}
	}

	interactions := make(interactionClassSet)
	for _, c := range f.model.InteractionClasses() {
		if !f.decl.IsInteractionClassPublished(fed, c.Handle) {
			continue
		}
		for _, s := range f.decl.InteractionSubscribers(interactionChain(c)) {
			if s.Federate != fed && s.Active {
				interactions.Add(c.Handle)
				break
			}
		}
	}
	return objects, interactions
}

// refreshAdvisories tells publishers when the first active subscriber of a
// class appears and when the last one goes away.
func (f *Federation) refreshAdvisories() {
	for _, h := range f.memberHandles() {
		m := f.members[h]
		objects, interactions := f.advisories(h)

		for _, c := range objects.Difference(m.registrationOn).Sorted() {
			f.post(h, wire.Callback{Kind: wire.CallbackStartRegistrationForObjectClass, ObjectClass: c})
		}
		for _, c := range m.registrationOn.Difference(objects).Sorted() {
			if f.decl.IsObjectClassPublished(h, c) {
				f.post(h, wire.Callback{Kind: wire.CallbackStopRegistrationForObjectClass, ObjectClass: c})
			}
		}
		for _, c := range interactions.Difference(m.interactionsOn).Sorted() {
			f.post(h, wire.Callback{Kind: wire.CallbackTurnInteractionsOn, InteractionClass: c})
		}
		for _, c := range m.interactionsOn.Difference(interactions).Sorted() {
			if f.decl.IsInteractionClassPublished(h, c) {
				f.post(h, wire.Callback{Kind: wire.CallbackTurnInteractionsOff, InteractionClass: c})
			}
		}
		m.registrationOn, m.interactionsOn = objects, interactions
	}
}
