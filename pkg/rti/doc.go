// Package rti implements the run-time infrastructure kernel.
//
// A Kernel holds every federation execution. Requests arrive as
// wire.Request values, whether from an in-process binding or from the TCP
// server, and are answered with wire.Response values. Each Federation
// serializes its services behind one mutex and combines the state managers
// of the other packages: declaration, object, ownership, timemgmt, syncpoint
// and ddm.
//
// Callbacks owed to a federate are queued per federate, receive order and
// timestamp order apart, and handed over only when the federate ticks. A
// tick delivers what timemgmt.Deliver allows and, when nothing is ready,
// waits up to the requested duration for the federation to change.
package rti
