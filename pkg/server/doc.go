// Package server exposes an rti.Kernel to remote federate bindings.
//
// Each inbound request frame is decoded and handed to the kernel on its own
// goroutine, so a tick that waits for callbacks does not hold up the other
// requests of the same connection. Responses carry the request's message id
// and may leave in a different order than the requests arrived.
//
// A connection remembers every federate that joined through it. When the
// connection ends, those federates are resigned with
// DELETE_OBJECTS_AND_RELEASE_ATTRIBUTES.
package server
