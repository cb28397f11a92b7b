package fom

import (
	"maps"
	"slices"

	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

// ObjectClass returns the class with handle h.
func (m *Model) ObjectClass(h hla.ObjectClassHandle) (*ObjectClass, error) {
	c, ok := m.objectClasses[h]
	if !ok {
		return nil, rtierr.Errorf(rtierr.ObjectClassNotDefined, "object class handle %d", h)
	}
	return c, nil
}

// ObjectClassByName resolves a qualified class name, with or without the
// leading "ObjectRoot.".
func (m *Model) ObjectClassByName(name string) (*ObjectClass, error) {
	key := ObjectRootName
	if rest := trimRoot(name, ObjectRootName); rest != "" {
		key = ObjectRootName + "." + rest
	}
	c, ok := m.objectNames[key]
	if !ok {
		return nil, rtierr.Errorf(rtierr.NameNotFound, "object class %q", name)
	}
	return c, nil
}

// Attribute returns the attribute with handle h in any class.
func (m *Model) Attribute(h hla.AttributeHandle) (*Attribute, bool) {
	a, ok := m.attributes[h]
	return a, ok
}

// ObjectClasses returns every object class ordered by handle.
func (m *Model) ObjectClasses() []*ObjectClass {
	out := make([]*ObjectClass, 0, len(m.objectClasses))
	for _, h := range slices.Sorted(maps.Keys(m.objectClasses)) {
		out = append(out, m.objectClasses[h])
	}
	return out
}

// InteractionClass returns the interaction class with handle h.
func (m *Model) InteractionClass(h hla.InteractionClassHandle) (*InteractionClass, error) {
	c, ok := m.interactions[h]
	if !ok {
		return nil, rtierr.Errorf(rtierr.InteractionClassNotDefined, "interaction class handle %d", h)
	}
	return c, nil
}

// InteractionClassByName resolves a qualified interaction class name, with or
// without the leading "InteractionRoot.".
func (m *Model) InteractionClassByName(name string) (*InteractionClass, error) {
	key := InteractionRootName
	if rest := trimRoot(name, InteractionRootName); rest != "" {
		key = InteractionRootName + "." + rest
	}
	c, ok := m.interactionNames[key]
	if !ok {
		return nil, rtierr.Errorf(rtierr.NameNotFound, "interaction class %q", name)
	}
	return c, nil
}

// InteractionClasses returns every interaction class ordered by handle.
func (m *Model) InteractionClasses() []*InteractionClass {
	out := make([]*InteractionClass, 0, len(m.interactions))
	for _, h := range slices.Sorted(maps.Keys(m.interactions)) {
		out = append(out, m.interactions[h])
	}
	return out
}

// Parameter returns the parameter with handle h in any class.
func (m *Model) Parameter(h hla.ParameterHandle) (*Parameter, bool) {
	p, ok := m.parameters[h]
	return p, ok
}

// Space returns the routing space with handle h.
func (m *Model) Space(h hla.SpaceHandle) (*Space, error) {
	s, ok := m.spaces[h]
	if !ok {
		return nil, rtierr.Errorf(rtierr.SpaceNotDefined, "space handle %d", h)
	}
	return s, nil
}

// SpaceByName resolves a routing space name.
func (m *Model) SpaceByName(name string) (*Space, error) {
	s, ok := m.spaceNames[name]
	if !ok {
		return nil, rtierr.Errorf(rtierr.NameNotFound, "space %q", name)
	}
	return s, nil
}

// Dimension returns the dimension with handle h.
func (m *Model) Dimension(h hla.DimensionHandle) (*Dimension, error) {
	d, ok := m.dimensions[h]
	if !ok {
		return nil, rtierr.Errorf(rtierr.DimensionNotDefined, "dimension handle %d", h)
	}
	return d, nil
}

// AttributeHandle resolves an attribute name within a class.
func (m *Model) AttributeHandle(class hla.ObjectClassHandle, name string) (hla.AttributeHandle, error) {
	c, err := m.ObjectClass(class)
	if err != nil {
		return 0, err
	}
	a, ok := c.AttributeByName(name)
	if !ok {
		return 0, rtierr.Errorf(rtierr.NameNotFound, "attribute %q of %s", name, c.QualifiedName)
	}
	return a.Handle, nil
}

// ParameterHandle resolves a parameter name within an interaction class.
func (m *Model) ParameterHandle(class hla.InteractionClassHandle, name string) (hla.ParameterHandle, error) {
	c, err := m.InteractionClass(class)
	if err != nil {
		return 0, err
	}
	p, ok := c.ParameterByName(name)
	if !ok {
		return 0, rtierr.Errorf(rtierr.NameNotFound, "parameter %q of %s", name, c.QualifiedName)
	}
	return p.Handle, nil
}

// ValidateAttributes checks that every handle of attrs belongs to class.
func (m *Model) ValidateAttributes(class hla.ObjectClassHandle, attrs hla.AttributeHandleSet) (*ObjectClass, error) {
	c, err := m.ObjectClass(class)
	if err != nil {
		return nil, err
	}
	for _, h := range attrs.Sorted() {
		if !c.HasAttribute(h) {
			return nil, rtierr.Errorf(rtierr.AttributeNotDefined, "attribute %d is not an attribute of %s", h, c.QualifiedName)
		}
	}
	return c, nil
}

// ValidateParameters checks that every parameter belongs to class.
func (m *Model) ValidateParameters(class hla.InteractionClassHandle, params []hla.ParameterHandle) (*InteractionClass, error) {
	c, err := m.InteractionClass(class)
	if err != nil {
		return nil, err
	}
	for _, h := range params {
		if _, ok := c.Parameter(h); !ok {
			return nil, rtierr.Errorf(rtierr.InteractionParameterNotDefined, "parameter %d is not a parameter of %s", h, c.QualifiedName)
		}
	}
	return c, nil
}
