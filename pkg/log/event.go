package log

import "time"

// Event represents a driver log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the transport connection (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates message flow relative to the host.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Port names the underlying device or address, e.g. /dev/ttyACM0
	// or tcp://10.1.2.3:5001.
	Port string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (exactly one is set).
	Frame   *FrameEvent       `cbor:"10,keyasint,omitempty"` // transport layer
	Message *MessageEvent     `cbor:"11,keyasint,omitempty"` // protocol layer (framed UBX)
	Ack     *AckEvent         `cbor:"12,keyasint,omitempty"` // acknowledgment outcomes
	State   *StateChangeEvent `cbor:"13,keyasint,omitempty"` // connection/driver state
	Error   *ErrorEventData   `cbor:"14,keyasint,omitempty"` // errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates data from the receiver to the host.
	DirectionIn Direction = 0
	// DirectionOut indicates data from the host to the receiver.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which driver layer captured the event.
type Layer uint8

const (
	// LayerTransport is the byte-stream layer (raw reads and writes).
	LayerTransport Layer = 0
	// LayerProtocol is the UBX framing layer (complete frames).
	LayerProtocol Layer = 1
	// LayerDriver is the command/subscription layer.
	LayerDriver Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerProtocol:
		return "PROTOCOL"
	case LayerDriver:
		return "DRIVER"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a UBX frame or decoded message.
	CategoryMessage Category = 0
	// CategoryAck indicates an acknowledgment outcome.
	CategoryAck Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryAck:
		return "ACK"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw bytes at the transport layer.
type FrameEvent struct {
	// Size is the original size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data holds the raw bytes (may be truncated for large chunks).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MessageEvent captures a framed UBX message at the protocol layer.
type MessageEvent struct {
	// Class is the UBX message class.
	Class uint8 `cbor:"1,keyasint"`

	// MsgID is the UBX message id within the class.
	MsgID uint8 `cbor:"2,keyasint"`

	// Name is the conventional message name (e.g. "NAV-PVT"), empty
	// for messages unknown to the codec.
	Name string `cbor:"3,keyasint,omitempty"`

	// Length is the payload length in bytes.
	Length int `cbor:"4,keyasint"`
}

// AckResult is the outcome carried by an acknowledgment event.
type AckResult uint8

const (
	// AckResultAck indicates the receiver accepted the message.
	AckResultAck AckResult = 0
	// AckResultNak indicates the receiver rejected the message.
	AckResultNak AckResult = 1
	// AckResultTimeout indicates no acknowledgment arrived in time.
	AckResultTimeout AckResult = 2
)

// String returns the result name.
func (r AckResult) String() string {
	switch r {
	case AckResultAck:
		return "ACK"
	case AckResultNak:
		return "NAK"
	case AckResultTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// AckEvent captures the outcome of a configuration command.
type AckEvent struct {
	// Class is the class of the acknowledged message.
	Class uint8 `cbor:"1,keyasint"`

	// MsgID is the id of the acknowledged message.
	MsgID uint8 `cbor:"2,keyasint"`

	// Result is the acknowledgment outcome.
	Result AckResult `cbor:"3,keyasint"`
}

// StateChangeEvent captures connection and driver lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityConnection indicates a transport connection change.
	StateEntityConnection StateEntity = 0
	// StateEntityDriver indicates a driver lifecycle change.
	StateEntityDriver StateEntity = 1
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	case StateEntityDriver:
		return "DRIVER"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
