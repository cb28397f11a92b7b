// Package persistence stores federation save snapshots.
//
// A federation save writes one JSON document per label holding the federate
// roster, the object registry, declarations, open ownership negotiations, time
// state and regions. A restore reads it back and checks that the roster and FOM
// digest still match before the kernel replaces its state.
package persistence
