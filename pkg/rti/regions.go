package rti

import (
	"github.com/openlvc/portico-sub003/pkg/ddm"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

func (f *Federation) createRegion(m *member, space hla.SpaceHandle, extents []ddm.Extent) (wire.Result, error) {
	s, err := f.model.Space(space)
	if err != nil {
		return wire.Result{}, err
	}
	r, err := f.regions.Create(m.handle, space, s, extents)
	if err != nil {
		return wire.Result{}, err
	}
	return wire.Result{Region: r.Handle}, nil
}

func (f *Federation) modifyRegion(m *member, region hla.RegionHandle, extents []ddm.Extent) error {
	r, err := f.regions.Owned(m.handle, region)
	if err != nil {
		return err
	}
	s, err := f.model.Space(r.Space)
	if err != nil {
		return err
	}
	return f.regions.Modify(m.handle, region, s, extents)
}

func (f *Federation) deleteRegion(m *member, region hla.RegionHandle) error {
	if _, err := f.regions.Owned(m.handle, region); err != nil {
		return err
	}
	if f.decl.RegionInUse(region) || f.objects.RegionInUse(region) {
		return rtierr.Errorf(rtierr.RegionInUse, "region %d is still used by a subscription or an object", region)
	}
	return f.regions.Delete(m.handle, region)
}

func (f *Federation) associateRegion(m *member, region hla.RegionHandle, obj hla.ObjectInstanceHandle, attrs hla.AttributeHandleSet) error {
	r, err := f.regions.Owned(m.handle, region)
	if err != nil {
		return err
	}
	o, err := f.objects.Known(m.handle, obj)
	if err != nil {
		return err
	}
	c, err := f.model.ObjectClass(o.Class)
	if err != nil {
		return err
	}
	for _, h := range attrs.Sorted() {
		a, ok := c.Attribute(h)
		if !ok {
			return rtierr.Errorf(rtierr.AttributeNotDefined, "attribute %d is not defined for object %d", h, obj)
		}
		if a.Space == nil || a.Space.Handle != r.Space {
			return rtierr.Errorf(rtierr.InvalidRegionContext, "attribute %s is not in the routing space of region %d", a.Name, region)
		}
	}
	for h := range attrs {
		f.objects.SetRegion(o, h, region)
	}
	return nil
}

func (f *Federation) unassociateRegion(m *member, region hla.RegionHandle, obj hla.ObjectInstanceHandle) error {
	if _, err := f.regions.Owned(m.handle, region); err != nil {
		return err
	}
	o, err := f.objects.Known(m.handle, obj)
	if err != nil {
		return err
	}
	for h := range o.AttributeHandles() {
		if o.Region(h) == region {
			f.objects.SetRegion(o, h, 0)
		}
	}
	return nil
}
