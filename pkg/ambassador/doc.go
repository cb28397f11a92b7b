// Package ambassador is the federate side of the RTI.
//
// An RTIAmbassador issues services to a kernel through a Connection: a
// LocalConnection for a kernel in the same process, or a RemoteConnection to
// an RTI server. Both carry the same requests, so a federate behaves the same
// either way.
//
// Callbacks are never pushed. They wait in the RTI until the federate calls
// Tick or TickFor, which invoke the FederateAmbassador given at join time on
// the calling goroutine:
//
//	rtiamb := ambassador.New(ambassador.NewLocalConnection(kernel))
//	fed, err := rtiamb.JoinFederationExecution(ctx, "tank", "Exercise", myFedAmb)
//	...
//	for running {
//		rtiamb.TimeAdvanceRequest(ctx, now+step)
//		for !granted {
//			rtiamb.TickFor(ctx, 100*time.Millisecond)
//		}
//	}
package ambassador
