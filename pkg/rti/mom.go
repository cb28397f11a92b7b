package rti

import (
	"github.com/openlvc/portico-sub003/pkg/encoding"
	"github.com/openlvc/portico-sub003/pkg/fom"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/object"
	"github.com/openlvc/portico-sub003/pkg/wire"
)

func marshal(e encoding.DataElement) []byte {
	data, err := encoding.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

// registerMOM registers the Manager.Federate object describing m. The RTI
// owns every attribute of it.
func (f *Federation) registerMOM(m *member) {
	c, err := f.model.ObjectClassByName(fom.MOMFederateClass)
	if err != nil {
		f.logger.Debug("no management object model", "error", err)
		return
	}
	all := c.AttributeHandles()
	o, err := f.objects.Register(c.Handle, "", hla.RTIOwned, all, all)
	if err != nil {
		f.logger.Warn("could not register federate management object", "federate", m.handle, "error", err)
		return
	}
	m.momObject = o.Handle
	f.distribute(o, hla.RTIOwned, f.momValues(m, o), nil, nil, false)
}

// reflectMOM publishes the current state of m to subscribers of its
// management object.
func (f *Federation) reflectMOM(m *member) {
	o, err := f.objects.Get(m.momObject)
	if err != nil {
		return
	}
	f.distribute(o, hla.RTIOwned, f.momValues(m, o), nil, nil, false)
}

// provideMOM answers an update request for a management object by
// reflecting the requested attributes to the requester alone.
func (f *Federation) provideMOM(o *object.Instance, requester hla.FederateHandle, attrs hla.AttributeHandleSet) {
	if _, known := o.DiscoveredAs(requester); !known {
		return
	}
	for _, m := range f.members {
		if m.momObject != o.Handle {
			continue
		}
		f.post(requester, wire.Callback{
			Kind:   wire.CallbackReflectAttributeValues,
			Object: o.Handle,
			Values: f.momValues(m, o).Filter(attrs),
			Order:  hla.Receive,
		})
		return
	}
}

func (f *Federation) momValues(m *member, o *object.Instance) hla.AttributeHandleValueMap {
	c, err := f.model.ObjectClass(o.Class)
	if err != nil {
		return nil
	}
	s, _ := f.time.Status(m.handle)

	handle := encoding.UnicodeString(m.handle.String())
	fedType := encoding.UnicodeString(m.fedType)
	constrained := encoding.Boolean(s.IsConstrained())
	regulating := encoding.Boolean(s.IsRegulating())
	current := encoding.Float64BE(s.Current.Float64())
	lookahead := encoding.Float64BE(s.Lookahead)

	elements := map[string]encoding.DataElement{
		fom.MOMFederateHandle:  &handle,
		fom.MOMFederateType:    &fedType,
		fom.MOMTimeConstrained: &constrained,
		fom.MOMTimeRegulating:  &regulating,
		fom.MOMFederateTime:    &current,
		fom.MOMLookahead:       &lookahead,
	}
	values := make(hla.AttributeHandleValueMap, len(elements))
	for name, e := range elements {
		if a, ok := c.AttributeByName(name); ok {
			values.Add(a.Handle, marshal(e))
		}
	}
	return values
}
