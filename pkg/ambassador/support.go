package ambassador

import (
	"github.com/openlvc/portico-sub003/pkg/fom"
	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

// Support services are answered from the FOM received at join time.

func (a *RTIAmbassador) joinedModel() (*fom.Model, error) {
	m := a.Model()
	if m == nil {
		return nil, rtierr.New(rtierr.FederateNotExecutionMember, "not joined")
	}
	return m, nil
}

// GetObjectClassHandle resolves a qualified object class name.
func (a *RTIAmbassador) GetObjectClassHandle(name string) (hla.ObjectClassHandle, error) {
	m, err := a.joinedModel()
	if err != nil {
		return 0, err
	}
	c, err := m.ObjectClassByName(name)
	if err != nil {
		return 0, err
	}
	return c.Handle, nil
}

// GetObjectClassName returns the qualified name of class.
func (a *RTIAmbassador) GetObjectClassName(class hla.ObjectClassHandle) (string, error) {
	m, err := a.joinedModel()
	if err != nil {
		return "", err
	}
	c, err := m.ObjectClass(class)
	if err != nil {
		return "", err
	}
	return c.QualifiedName, nil
}

// GetAttributeHandle resolves an attribute name of class.
func (a *RTIAmbassador) GetAttributeHandle(name string, class hla.ObjectClassHandle) (hla.AttributeHandle, error) {
	m, err := a.joinedModel()
	if err != nil {
		return 0, err
	}
	return m.AttributeHandle(class, name)
}

// GetAttributeName returns the name of attr in class.
func (a *RTIAmbassador) GetAttributeName(attr hla.AttributeHandle, class hla.ObjectClassHandle) (string, error) {
	m, err := a.joinedModel()
	if err != nil {
		return "", err
	}
	c, err := m.ObjectClass(class)
	if err != nil {
		return "", err
	}
	at, ok := c.Attribute(attr)
	if !ok {
		return "", rtierr.Errorf(rtierr.AttributeNotDefined, "attribute %d of %s", attr, c.QualifiedName)
	}
	return at.Name, nil
}

// GetInteractionClassHandle resolves a qualified interaction class name.
func (a *RTIAmbassador) GetInteractionClassHandle(name string) (hla.InteractionClassHandle, error) {
	m, err := a.joinedModel()
	if err != nil {
		return 0, err
	}
	c, err := m.InteractionClassByName(name)
	if err != nil {
		return 0, err
	}
	return c.Handle, nil
}

// GetInteractionClassName returns the qualified name of class.
func (a *RTIAmbassador) GetInteractionClassName(class hla.InteractionClassHandle) (string, error) {
	m, err := a.joinedModel()
	if err != nil {
		return "", err
	}
	c, err := m.InteractionClass(class)
	if err != nil {
		return "", err
	}
	return c.QualifiedName, nil
}

// GetParameterHandle resolves a parameter name of class.
func (a *RTIAmbassador) GetParameterHandle(name string, class hla.InteractionClassHandle) (hla.ParameterHandle, error) {
	m, err := a.joinedModel()
	if err != nil {
		return 0, err
	}
	return m.ParameterHandle(class, name)
}

// GetParameterName returns the name of param in class.
func (a *RTIAmbassador) GetParameterName(param hla.ParameterHandle, class hla.InteractionClassHandle) (string, error) {
	m, err := a.joinedModel()
	if err != nil {
		return "", err
	}
	c, err := m.InteractionClass(class)
	if err != nil {
		return "", err
	}
	p, ok := c.Parameter(param)
	if !ok {
		return "", rtierr.Errorf(rtierr.InteractionParameterNotDefined, "parameter %d of %s", param, c.QualifiedName)
	}
	return p.Name, nil
}

// GetRoutingSpaceHandle resolves a routing space name.
func (a *RTIAmbassador) GetRoutingSpaceHandle(name string) (hla.SpaceHandle, error) {
	m, err := a.joinedModel()
	if err != nil {
		return 0, err
	}
	s, err := m.SpaceByName(name)
	if err != nil {
		return 0, err
	}
	return s.Handle, nil
}

// GetRoutingSpaceName returns the name of space.
func (a *RTIAmbassador) GetRoutingSpaceName(space hla.SpaceHandle) (string, error) {
	m, err := a.joinedModel()
	if err != nil {
		return "", err
	}
	s, err := m.Space(space)
	if err != nil {
		return "", err
	}
	return s.Name, nil
}

// GetDimensionHandle resolves a dimension name of space.
func (a *RTIAmbassador) GetDimensionHandle(name string, space hla.SpaceHandle) (hla.DimensionHandle, error) {
	m, err := a.joinedModel()
	if err != nil {
		return 0, err
	}
	s, err := m.Space(space)
	if err != nil {
		return 0, err
	}
	d, ok := s.Dimension(name)
	if !ok {
		return 0, rtierr.Errorf(rtierr.NameNotFound, "dimension %q of %s", name, s.Name)
	}
	return d.Handle, nil
}

// GetAttributeRoutingSpaceHandle returns the routing space of attr, or zero
// when the attribute has none.
func (a *RTIAmbassador) GetAttributeRoutingSpaceHandle(attr hla.AttributeHandle, class hla.ObjectClassHandle) (hla.SpaceHandle, error) {
	m, err := a.joinedModel()
	if err != nil {
		return 0, err
	}
	c, err := m.ObjectClass(class)
	if err != nil {
		return 0, err
	}
	at, ok := c.Attribute(attr)
	if !ok {
		return 0, rtierr.Errorf(rtierr.AttributeNotDefined, "attribute %d of %s", attr, c.QualifiedName)
	}
	if at.Space == nil {
		return 0, nil
	}
	return at.Space.Handle, nil
}

// GetInteractionRoutingSpaceHandle returns the routing space of class, or
// zero.
func (a *RTIAmbassador) GetInteractionRoutingSpaceHandle(class hla.InteractionClassHandle) (hla.SpaceHandle, error) {
	m, err := a.joinedModel()
	if err != nil {
		return 0, err
	}
	c, err := m.InteractionClass(class)
	if err != nil {
		return 0, err
	}
	if c.Space == nil {
		return 0, nil
	}
	return c.Space.Handle, nil
}
