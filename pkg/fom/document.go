package fom

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the serialized form of a FOM.
type Document struct {
	Name         string                `yaml:"name" cbor:"1,keyasint,omitempty"`
	Spaces       []SpaceDoc            `yaml:"spaces,omitempty" cbor:"2,keyasint,omitempty"`
	Objects      []ObjectClassDoc      `yaml:"objects,omitempty" cbor:"3,keyasint,omitempty"`
	Interactions []InteractionClassDoc `yaml:"interactions,omitempty" cbor:"4,keyasint,omitempty"`
}

// SpaceDoc declares a routing space.
type SpaceDoc struct {
	Name       string   `yaml:"name" cbor:"1,keyasint"`
	Dimensions []string `yaml:"dimensions" cbor:"2,keyasint,omitempty"`
}

// ObjectClassDoc declares an object class and its subclasses.
type ObjectClassDoc struct {
	Name       string           `yaml:"name" cbor:"1,keyasint"`
	Attributes []AttributeDoc   `yaml:"attributes,omitempty" cbor:"2,keyasint,omitempty"`
	Classes    []ObjectClassDoc `yaml:"classes,omitempty" cbor:"3,keyasint,omitempty"`
}

// AttributeDoc declares an attribute. In YAML an attribute is either a bare
// name or a mapping with name, order, transport and space.
type AttributeDoc struct {
	Name      string `yaml:"name" cbor:"1,keyasint"`
	Order     string `yaml:"order,omitempty" cbor:"2,keyasint,omitempty"`
	Transport string `yaml:"transport,omitempty" cbor:"3,keyasint,omitempty"`
	Space     string `yaml:"space,omitempty" cbor:"4,keyasint,omitempty"`
}

// UnmarshalYAML accepts the scalar shorthand.
func (a *AttributeDoc) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		a.Name = value.Value
		return nil
	}
	type plain AttributeDoc
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*a = AttributeDoc(p)
	return nil
}

// MarshalYAML writes the scalar shorthand when only the name is set.
func (a AttributeDoc) MarshalYAML() (any, error) {
	if a.Order == "" && a.Transport == "" && a.Space == "" {
		return a.Name, nil
	}
	type plain AttributeDoc
	return plain(a), nil
}

// InteractionClassDoc declares an interaction class and its subclasses.
type InteractionClassDoc struct {
	Name       string                `yaml:"name" cbor:"1,keyasint"`
	Order      string                `yaml:"order,omitempty" cbor:"2,keyasint,omitempty"`
	Transport  string                `yaml:"transport,omitempty" cbor:"3,keyasint,omitempty"`
	Space      string                `yaml:"space,omitempty" cbor:"4,keyasint,omitempty"`
	Parameters []string              `yaml:"parameters,omitempty" cbor:"5,keyasint,omitempty"`
	Classes    []InteractionClassDoc `yaml:"classes,omitempty" cbor:"6,keyasint,omitempty"`
}

// ParseDocument decodes a YAML FOM document without building it.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("YAML parse error: %w", err)
	}
	return doc, nil
}

// Encode renders the document as YAML.
func (d Document) Encode() ([]byte, error) {
	return yaml.Marshal(d)
}
