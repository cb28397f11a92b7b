// Package timemgmt implements HLA time management.
//
// Each federate has a Status: whether it is regulating and/or constrained
// (each Off, Pending or On), its current logical time, the advance it has
// requested, and its lookahead. A regulating federate promises not to send
// timestamped messages earlier than its LBTS contribution, which is its
// current (or requested) time plus lookahead. The LBTS seen by a federate is
// the smallest contribution of every other regulating federate.
//
// Messages for a federate wait in a Queue: a receive-order FIFO and a
// timestamp-order heap. Deliver decides, for one federate, which queued
// messages may be handed over now and whether a pending advance or enable
// completes.
package timemgmt
