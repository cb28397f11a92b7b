package fom

import (
	"encoding/hex"
	"fmt"
	"os"
	"slices"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/openlvc/portico-sub003/pkg/hla"
	"github.com/openlvc/portico-sub003/pkg/rtierr"
)

// Model is a built FOM with handles assigned.
type Model struct {
	Name string

	// Digest identifies the document content; saves record it so a restore can
	// refuse a snapshot taken under a different FOM.
	Digest string

	// Document is the source the model was built from.
	Document Document

	ObjectRoot      *ObjectClass
	InteractionRoot *InteractionClass

	objectClasses map[hla.ObjectClassHandle]*ObjectClass
	objectNames   map[string]*ObjectClass
	attributes    map[hla.AttributeHandle]*Attribute

	interactions     map[hla.InteractionClassHandle]*InteractionClass
	interactionNames map[string]*InteractionClass
	parameters       map[hla.ParameterHandle]*Parameter

	spaces     map[hla.SpaceHandle]*Space
	spaceNames map[string]*Space
	dimensions map[hla.DimensionHandle]*Dimension
}

// Load reads and builds the FOM at path. A file that cannot be read fails
// CouldNotOpenFED; a file that cannot be parsed or built fails ErrorReadingFED.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rtierr.Errorf(rtierr.CouldNotOpenFED, "%s: %v", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, rtierr.Errorf(rtierr.ErrorReadingFED, "%s: %v", path, err)
	}
	return m, nil
}

// Parse builds a model from YAML.
func Parse(data []byte) (*Model, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, rtierr.New(rtierr.ErrorReadingFED, err.Error())
	}
	return Build(doc)
}

type builder struct {
	m         *Model
	nextClass hla.ObjectClassHandle
	nextAttr  hla.AttributeHandle
	nextIC    hla.InteractionClassHandle
	nextParam hla.ParameterHandle
}

// Build assigns handles to doc. Failures are ErrorReadingFED.
func Build(doc Document) (*Model, error) {
	m := &Model{
		Name:             doc.Name,
		Document:         doc,
		objectClasses:    make(map[hla.ObjectClassHandle]*ObjectClass),
		objectNames:      make(map[string]*ObjectClass),
		attributes:       make(map[hla.AttributeHandle]*Attribute),
		interactions:     make(map[hla.InteractionClassHandle]*InteractionClass),
		interactionNames: make(map[string]*InteractionClass),
		parameters:       make(map[hla.ParameterHandle]*Parameter),
		spaces:           make(map[hla.SpaceHandle]*Space),
		spaceNames:       make(map[string]*Space),
		dimensions:       make(map[hla.DimensionHandle]*Dimension),
	}
	b := &builder{m: m}

	if err := b.buildSpaces(doc.Spaces); err != nil {
		return nil, err
	}

	root := b.newObjectClass(ObjectRootName, nil)
	if _, err := b.addAttribute(root, AttributeDoc{Name: PrivilegeToDelete}); err != nil {
		return nil, err
	}
	m.ObjectRoot = root

	objects := doc.Objects
	if !slices.ContainsFunc(objects, func(c ObjectClassDoc) bool { return c.Name == ManagerClassName }) {
		objects = append([]ObjectClassDoc{managerDocument()}, objects...)
	}
	for _, c := range objects {
		if err := b.buildObjectClass(c, root); err != nil {
			return nil, err
		}
	}

	iroot := b.newInteractionClass(InteractionRootName, nil)
	iroot.Order = hla.Receive
	iroot.Transport = TransportReliable
	m.InteractionRoot = iroot
	for _, c := range doc.Interactions {
		if err := b.buildInteractionClass(c, iroot); err != nil {
			return nil, err
		}
	}

	canonical, err := doc.Encode()
	if err != nil {
		return nil, rtierr.New(rtierr.ErrorReadingFED, err.Error())
	}
	sum := blake2b.Sum256(canonical)
	m.Digest = hex.EncodeToString(sum[:])

	return m, nil
}

func invalid(format string, args ...any) error {
	return rtierr.Errorf(rtierr.ErrorReadingFED, format, args...)
}

func (b *builder) buildSpaces(docs []SpaceDoc) error {
	var nextDim hla.DimensionHandle
	for i, sd := range docs {
		if sd.Name == "" {
			return invalid("space %d has no name", i)
		}
		if _, dup := b.m.spaceNames[sd.Name]; dup {
			return invalid("space %q declared twice", sd.Name)
		}
		s := &Space{Handle: hla.SpaceHandle(i + 1), Name: sd.Name}
		for _, dn := range sd.Dimensions {
			if _, dup := s.Dimension(dn); dup || dn == "" {
				return invalid("space %q: bad or duplicate dimension %q", sd.Name, dn)
			}
			nextDim++
			d := &Dimension{Handle: nextDim, Name: dn, Space: s}
			s.Dimensions = append(s.Dimensions, d)
			b.m.dimensions[d.Handle] = d
		}
		b.m.spaces[s.Handle] = s
		b.m.spaceNames[s.Name] = s
	}
	return nil
}

func (b *builder) space(name, owner string) (*Space, error) {
	if name == "" {
		return nil, nil
	}
	s, ok := b.m.spaceNames[name]
	if !ok {
		return nil, invalid("%s refers to unknown space %q", owner, name)
	}
	return s, nil
}

func parseOrder(s string, inherited hla.OrderType) (hla.OrderType, error) {
	switch strings.ToLower(s) {
	case "":
		return inherited, nil
	case "receive", "ro":
		return hla.Receive, nil
	case "timestamp", "tso":
		return hla.Timestamp, nil
	}
	return 0, invalid("unknown order %q", s)
}

func parseTransport(s, inherited string) (string, error) {
	switch strings.ToLower(s) {
	case "":
		return inherited, nil
	case TransportReliable, "hlareliable":
		return TransportReliable, nil
	case TransportBestEffort, "besteffort", "hlabesteffort":
		return TransportBestEffort, nil
	}
	return "", invalid("unknown transport %q", s)
}

func (b *builder) newObjectClass(name string, parent *ObjectClass) *ObjectClass {
	b.nextClass++
	c := &ObjectClass{
		Handle:     b.nextClass,
		Name:       name,
		Parent:     parent,
		attributes: make(map[hla.AttributeHandle]*Attribute),
		byName:     make(map[string]*Attribute),
	}
	if parent == nil {
		c.QualifiedName = name
	} else {
		c.QualifiedName = parent.QualifiedName + "." + name
		parent.Children = append(parent.Children, c)
		for h, a := range parent.attributes {
			c.attributes[h] = a
		}
		for n, a := range parent.byName {
			c.byName[n] = a
		}
	}
	b.m.objectClasses[c.Handle] = c
	b.m.objectNames[c.QualifiedName] = c
	return c
}

func (b *builder) addAttribute(c *ObjectClass, ad AttributeDoc) (*Attribute, error) {
	if ad.Name == "" {
		return nil, invalid("class %s has an attribute without a name", c.QualifiedName)
	}
	if _, dup := c.byName[ad.Name]; dup {
		return nil, invalid("class %s: attribute %q already declared", c.QualifiedName, ad.Name)
	}
	order, err := parseOrder(ad.Order, hla.Receive)
	if err != nil {
		return nil, err
	}
	transport, err := parseTransport(ad.Transport, TransportReliable)
	if err != nil {
		return nil, err
	}
	space, err := b.space(ad.Space, c.QualifiedName+"."+ad.Name)
	if err != nil {
		return nil, err
	}
	b.nextAttr++
	a := &Attribute{
		Handle:    b.nextAttr,
		Name:      ad.Name,
		Class:     c,
		Order:     order,
		Transport: transport,
		Space:     space,
	}
	c.Declared = append(c.Declared, a)
	c.attributes[a.Handle] = a
	c.byName[a.Name] = a
	b.m.attributes[a.Handle] = a
	return a, nil
}

func (b *builder) buildObjectClass(doc ObjectClassDoc, parent *ObjectClass) error {
	if doc.Name == "" || strings.Contains(doc.Name, ".") {
		return invalid("bad object class name %q under %s", doc.Name, parent.QualifiedName)
	}
	if _, dup := b.m.objectNames[parent.QualifiedName+"."+doc.Name]; dup {
		return invalid("object class %s.%s declared twice", parent.QualifiedName, doc.Name)
	}
	c := b.newObjectClass(doc.Name, parent)
	for _, ad := range doc.Attributes {
		if _, err := b.addAttribute(c, ad); err != nil {
			return err
		}
	}
	for _, child := range doc.Classes {
		if err := b.buildObjectClass(child, c); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) newInteractionClass(name string, parent *InteractionClass) *InteractionClass {
	b.nextIC++
	c := &InteractionClass{
		Handle:     b.nextIC,
		Name:       name,
		Parent:     parent,
		parameters: make(map[hla.ParameterHandle]*Parameter),
		byName:     make(map[string]*Parameter),
	}
	if parent == nil {
		c.QualifiedName = name
	} else {
		c.QualifiedName = parent.QualifiedName + "." + name
		parent.Children = append(parent.Children, c)
		for h, p := range parent.parameters {
			c.parameters[h] = p
		}
		for n, p := range parent.byName {
			c.byName[n] = p
		}
	}
	b.m.interactions[c.Handle] = c
	b.m.interactionNames[c.QualifiedName] = c
	return c
}

func (b *builder) buildInteractionClass(doc InteractionClassDoc, parent *InteractionClass) error {
	if doc.Name == "" || strings.Contains(doc.Name, ".") {
		return invalid("bad interaction class name %q under %s", doc.Name, parent.QualifiedName)
	}
	if _, dup := b.m.interactionNames[parent.QualifiedName+"."+doc.Name]; dup {
		return invalid("interaction class %s.%s declared twice", parent.QualifiedName, doc.Name)
	}
	order, err := parseOrder(doc.Order, parent.Order)
	if err != nil {
		return err
	}
	transport, err := parseTransport(doc.Transport, parent.Transport)
	if err != nil {
		return err
	}
	space := parent.Space
	if doc.Space != "" {
		if space, err = b.space(doc.Space, parent.QualifiedName+"."+doc.Name); err != nil {
			return err
		}
	}

	c := b.newInteractionClass(doc.Name, parent)
	c.Order = order
	c.Transport = transport
	c.Space = space
	for _, pn := range doc.Parameters {
		if pn == "" {
			return invalid("interaction %s has a parameter without a name", c.QualifiedName)
		}
		if _, dup := c.byName[pn]; dup {
			return invalid("interaction %s: parameter %q already declared", c.QualifiedName, pn)
		}
		b.nextParam++
		p := &Parameter{Handle: b.nextParam, Name: pn, Class: c}
		c.Declared = append(c.Declared, p)
		c.parameters[p.Handle] = p
		c.byName[pn] = p
		b.m.parameters[p.Handle] = p
	}
	for _, child := range doc.Classes {
		if err := b.buildInteractionClass(child, c); err != nil {
			return err
		}
	}
	return nil
}

// String summarises the model.
func (m *Model) String() string {
	return fmt.Sprintf("FOM %q (%d object classes, %d interaction classes, %d spaces)",
		m.Name, len(m.objectClasses), len(m.interactions), len(m.spaces))
}
