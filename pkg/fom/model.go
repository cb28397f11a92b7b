package fom

import (
	"strings"

	"github.com/openlvc/portico-sub003/pkg/hla"
)

// Root class names.
const (
	ObjectRootName      = "ObjectRoot"
	InteractionRootName = "InteractionRoot"

	// PrivilegeToDelete is declared by ObjectRoot; its owner may delete the object.
	PrivilegeToDelete = "privilegeToDelete"
)

// Transport names.
const (
	TransportReliable   = "reliable"
	TransportBestEffort = "best_effort"
)

// ObjectClass is a built object class.
type ObjectClass struct {
	Handle        hla.ObjectClassHandle
	Name          string
	QualifiedName string
	Parent        *ObjectClass
	Children      []*ObjectClass

	// Declared holds the attributes introduced by this class, in document order.
	Declared []*Attribute

	attributes map[hla.AttributeHandle]*Attribute
	byName     map[string]*Attribute
}

// Attribute is a built object class attribute.
type Attribute struct {
	Handle    hla.AttributeHandle
	Name      string
	Class     *ObjectClass
	Order     hla.OrderType
	Transport string
	Space     *Space
}

// Attribute returns the attribute with handle h, declared or inherited.
func (c *ObjectClass) Attribute(h hla.AttributeHandle) (*Attribute, bool) {
	a, ok := c.attributes[h]
	return a, ok
}

// AttributeByName returns the attribute with the given name, declared or
// inherited.
func (c *ObjectClass) AttributeByName(name string) (*Attribute, bool) {
	a, ok := c.byName[name]
	return a, ok
}

// HasAttribute reports whether h is an attribute of c.
func (c *ObjectClass) HasAttribute(h hla.AttributeHandle) bool {
	_, ok := c.attributes[h]
	return ok
}

// AttributeHandles returns every attribute handle of c, inherited ones included.
func (c *ObjectClass) AttributeHandles() hla.AttributeHandleSet {
	s := make(hla.AttributeHandleSet, len(c.attributes))
	for h := range c.attributes {
		s.Add(h)
	}
	return s
}

// IsSubclassOf reports whether c equals o or descends from it.
func (c *ObjectClass) IsSubclassOf(o *ObjectClass) bool {
	for x := c; x != nil; x = x.Parent {
		if x == o {
			return true
		}
	}
	return false
}

// InteractionClass is a built interaction class.
type InteractionClass struct {
	Handle        hla.InteractionClassHandle
	Name          string
	QualifiedName string
	Parent        *InteractionClass
	Children      []*InteractionClass
	Order         hla.OrderType
	Transport     string
	Space         *Space

	// Declared holds the parameters introduced by this class.
	Declared []*Parameter

	parameters map[hla.ParameterHandle]*Parameter
	byName     map[string]*Parameter
}

// Parameter is a built interaction parameter.
type Parameter struct {
	Handle hla.ParameterHandle
	Name   string
	Class  *InteractionClass
}

// Parameter returns the parameter with handle h, declared or inherited.
func (c *InteractionClass) Parameter(h hla.ParameterHandle) (*Parameter, bool) {
	p, ok := c.parameters[h]
	return p, ok
}

// ParameterByName returns the parameter with the given name.
func (c *InteractionClass) ParameterByName(name string) (*Parameter, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// IsSubclassOf reports whether c equals o or descends from it.
func (c *InteractionClass) IsSubclassOf(o *InteractionClass) bool {
	for x := c; x != nil; x = x.Parent {
		if x == o {
			return true
		}
	}
	return false
}

// Space is a routing space.
type Space struct {
	Handle     hla.SpaceHandle
	Name       string
	Dimensions []*Dimension
}

// Dimension returns the dimension with the given name.
func (s *Space) Dimension(name string) (*Dimension, bool) {
	for _, d := range s.Dimensions {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// HasDimension reports whether h is a dimension of s.
func (s *Space) HasDimension(h hla.DimensionHandle) bool {
	for _, d := range s.Dimensions {
		if d.Handle == h {
			return true
		}
	}
	return false
}

// Dimension is one axis of a routing space.
type Dimension struct {
	Handle hla.DimensionHandle
	Name   string
	Space  *Space
}

// trimRoot strips an optional leading root name so "ObjectRoot.A.B" and "A.B"
// resolve to the same class.
func trimRoot(name, root string) string {
	if name == root {
		return ""
	}
	return strings.TrimPrefix(name, root+".")
}
