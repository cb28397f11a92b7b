// Package declaration keeps the publication and subscription state of every
// federate in a federation.
//
// Publishing or subscribing replaces the previous attribute set of the class;
// it never merges. An empty attribute set is an implicit unpublish or
// unsubscribe. Region-qualified subscriptions are kept per region next to the
// default (region-less) subscription of the class.
//
// The manager does not validate handles against the FOM and does not know
// about region geometry; callers validate first and supply an overlap test
// when asking about relevance.
package declaration
