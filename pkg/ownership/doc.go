// Package ownership mediates attribute ownership transfer between federates.
//
// At rest every (object, attribute) pair is unowned, owned by exactly one
// federate, or owned by the RTI. Two transient negotiations may be attached
// to an owned pair: a negotiated divestiture by its owner, and one pending
// acquisition by another federate. Whenever both meet the attribute moves to
// the acquirer at once, so a pair is never owned by two federates.
//
// Operations return the notices the RTI must deliver to federates as
// callbacks; the manager itself delivers nothing.
package ownership
