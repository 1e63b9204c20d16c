// Package transport provides asynchronous byte-stream workers for
// talking to a GNSS receiver.
//
// A Worker moves raw bytes in both directions: received bytes are
// pushed to a callback from a dedicated reader goroutine, and Send
// queues bytes for a writer goroutine without blocking the caller.
// Framing and message semantics live above this package.
//
// # Implementations
//
// Stream adapts any io.ReadWriteCloser. Constructors are provided for
// the transports receivers actually ship with:
//   - OpenSerial: local serial/USB ports (8N1)
//   - DialTCP: receivers exposed over a raw TCP socket
//   - DialWebSocket: receivers behind a websocket bridge
//
// # Capture
//
// Each worker carries a connection id and can emit transport-layer
// capture events (raw chunks, state changes, errors) to a log.Logger.
package transport
