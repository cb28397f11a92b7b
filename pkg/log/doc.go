// Package log provides structured protocol tracing for the RTI and its
// federate bindings.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events at multiple layers (transport, wire, service).
// It is separate from operational logging (slog) - protocol capture provides
// a complete machine-readable event trace for debugging federations.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.Trace = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Trace, _ = log.NewFileLogger("/var/log/portico/rti.ptrace")
//
//	// Both: use MultiLogger
//	cfg.Trace = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: Raw frame bytes (FrameEvent)
//   - Wire: Decoded requests, responses and callbacks (MessageEvent)
//   - Service: Federation, federate and time state changes (StateChangeEvent)
//
// Control messages (ping/pong/close) and errors have dedicated event types.
//
// # File Format
//
// Trace files use CBOR encoding with the .ptrace extension. The portico-log
// CLI tool provides viewing, filtering, and export capabilities.
package log
