// Package syncpoint tracks federation synchronization points.
//
// A point is registered with a label, a tag and a target set (empty meaning
// every joined federate). It is announced to each target; once every target
// has achieved it the federation is synchronized on the label and the label
// is retired, so it can be registered again.
package syncpoint
