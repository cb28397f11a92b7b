// Package fom loads Federation Object Models.
//
// A FOM is a YAML document declaring object classes with their attributes,
// interaction classes with their parameters, and routing spaces with their
// dimensions. Classes nest: a class inherits every attribute (or parameter) of
// its ancestors. Building a Model assigns handles deterministically in
// document order, so two processes building the same Document agree on every
// handle.
//
// Every model gets the implicit roots ObjectRoot (with the privilegeToDelete
// attribute) and InteractionRoot, plus the management object class
// ObjectRoot.Manager.Federate unless the document declares its own Manager.
//
// Example document:
//
//	name: TestFOM
//	spaces:
//	  - name: TestSpace
//	    dimensions: [TestDimension]
//	objects:
//	  - name: A
//	    attributes: [aa, ab, ac]
//	    classes:
//	      - name: B
//	        attributes: [ba, bb, bc]
//	interactions:
//	  - name: X
//	    order: timestamp
//	    parameters: [xa, xb, xc]
package fom
