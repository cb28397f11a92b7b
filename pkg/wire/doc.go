// Package wire defines the CBOR messages exchanged between a federate
// binding and the RTI.
//
// Messages use CBOR (RFC 8949) with integer keys. Key 0 of every message
// holds its MessageType so a reader can route a frame before decoding it.
//
// # Message Types
//
//   - Request: federate to RTI, one service invocation (Op plus Args)
//   - Response: RTI to federate, the Result or an ErrorInfo
//   - Control: ping, pong and close, in either direction
//
// Callbacks are not pushed. A federate fetches them with OpTick and they
// arrive in the Result of the tick response, so callbacks are only ever
// delivered while the federate has handed control to the RTI.
//
// A local connection hands the same Request and Response values to the
// kernel without encoding them.
package wire
