// Package transport carries RTI requests, responses and control messages
// between federate bindings and the RTI process.
//
// The transport layer handles:
//   - TCP connections, optionally wrapped in TLS 1.3
//   - Length-prefixed message framing
//   - Keep-alive ping/pong for connection liveness
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│      CBOR Messages             │
//	├────────────────────────────────┤
//	│   Length-Prefix Framing (4B)   │
//	├────────────────────────────────┤
//	│      TLS 1.3 (optional)        │
//	├────────────────────────────────┤
//	│           TCP                  │
//	└────────────────────────────────┘
//
// Every frame starts with a 4-byte big-endian payload length. Payloads are
// limited to DefaultMaxMessageSize unless configured otherwise.
//
// # Keep-Alive
//
// Clients monitor liveness with ping/pong control messages:
//   - Ping interval: 30 seconds
//   - Pong timeout: 5 seconds
//   - Max missed pongs: 3
//   - Maximum detection delay: 95 seconds
//
// The server answers pings and acknowledges close requests itself; only
// request frames reach the OnMessage callback.
package transport
