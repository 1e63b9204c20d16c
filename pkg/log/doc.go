// Package log provides structured protocol capture for the receiver driver.
//
// This package defines the Logger interface and Event types for recording
// driver activity at multiple layers (transport, protocol, driver). It is
// separate from operational logging (slog): protocol capture produces a
// complete machine-readable trace of the conversation with the receiver
// for debugging and analysis.
//
// # Basic Usage
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Capture = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Capture, _ = log.NewFileLogger("/var/log/ublox/rover.ubxlog")
//
//	// Both: use MultiLogger
//	cfg.Capture = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: raw byte chunks (FrameEvent)
//   - Protocol: framed UBX messages (MessageEvent)
//   - Driver: acknowledgment outcomes (AckEvent) and state changes
//
// Corrupt input and send failures surface as error events; they never
// interrupt the driver.
//
// # File Format
//
// Capture files use CBOR encoding with the .ubxlog extension. The
// ubxtool log subcommand provides viewing and summary statistics.
package log
