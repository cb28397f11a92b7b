// Package object is the registry of object instances in a federation.
//
// An instance records its class, its registrant, the current owner of every
// attribute of its class, the region each attribute is associated with for
// updates, and which federates have discovered it (and as which class).
package object
