package gps

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clearpathrobotics/ublox/pkg/log"
	"github.com/clearpathrobotics/ublox/pkg/transport"
	"github.com/clearpathrobotics/ublox/pkg/ubx"
)

// Driver constants.
const (
	// MaxSendSize is the largest frame, header and checksum included,
	// that the driver will hand to the transport.
	MaxSendSize = 1024

	// DefaultAckTimeout bounds the wait for an acknowledgment when
	// DriverConfig leaves it unset.
	DefaultAckTimeout = time.Second

	// SetBaudrateDelay is how long configuration waits after changing
	// the UART settings before resuming traffic. The acknowledgment
	// for a baud rate change is sent at the old rate and is normally
	// unreadable.
	SetBaudrateDelay = 500 * time.Millisecond
)

// Driver errors.
var (
	// ErrNotInitialized indicates the driver has no transport.
	ErrNotInitialized = errors.New("driver not initialized")

	// ErrAlreadyInitialized indicates Initialize was called on an
	// initialized driver.
	ErrAlreadyInitialized = errors.New("driver already initialized")

	// ErrTimeout indicates the receiver did not answer in time.
	ErrTimeout = errors.New("timed out waiting for receiver")

	// ErrRejected indicates the receiver answered with ACK-NAK.
	ErrRejected = errors.New("rejected by receiver")

	// ErrMessageTooLarge indicates a frame over MaxSendSize bytes.
	ErrMessageTooLarge = errors.New("message too large")
)

// DriverConfig configures a Driver.
type DriverConfig struct {
	// AckTimeout bounds the wait for an acknowledgment or reply when
	// the call does not set its own (default: DefaultAckTimeout).
	AckTimeout time.Duration

	// Capture receives protocol- and driver-layer events
	// (nil disables capture).
	Capture log.Logger

	// Logger receives debug logs (nil disables logging).
	Logger *slog.Logger
}

// Driver correlates commands, replies, and acknowledgments over a
// transport worker. See the package documentation for usage.
type Driver struct {
	config DriverConfig

	registry *registry
	acks     *ackTracker

	mu          sync.Mutex
	worker      transport.Worker
	initialized bool
	configured  bool
	connID      string
	port        string

	// rxBuf accumulates partial frames between transport callbacks.
	// Only the reader goroutine touches it.
	rxBuf []byte
}

// New returns a driver ready for Initialize.
func New(config DriverConfig) *Driver {
	if config.AckTimeout <= 0 {
		config.AckTimeout = DefaultAckTimeout
	}
	return &Driver{
		config:   config,
		registry: newRegistry(),
		acks:     newAckTracker(),
	}
}

// Initialize attaches the driver to its transport and starts
// dispatching received frames. The driver owns the worker from here
// on and closes it on Close.
func (d *Driver) Initialize(worker transport.Worker) error {
	if worker == nil {
		return fmt.Errorf("initialize: nil worker")
	}

	connID := uuid.NewString()
	port := ""
	if ident, ok := worker.(transport.Identifier); ok {
		connID = ident.ConnectionID()
		port = ident.PortName()
	}

	d.mu.Lock()
	if d.initialized {
		d.mu.Unlock()
		return ErrAlreadyInitialized
	}
	d.worker = worker
	d.initialized = true
	d.connID = connID
	d.port = port
	d.mu.Unlock()

	// The acknowledgment handlers are ordinary subscriptions: they
	// live for the driver's lifetime and feed the tracker.
	d.registry.insert(ubx.IDAckAck, d.handleAck)
	d.registry.insert(ubx.IDAckNak, d.handleNak)
	worker.SetCallback(d.handleBytes)

	d.logDriverState("", "INITIALIZED", "")
	d.debugLog("driver initialized", "port", port)
	return nil
}

// Close detaches and closes the transport and drops every
// subscription and pending waiter. It is safe to call multiple times.
func (d *Driver) Close() error {
	d.mu.Lock()
	worker := d.worker
	wasInitialized := d.initialized
	wasConfigured := d.configured
	d.worker = nil
	d.initialized = false
	d.configured = false
	d.mu.Unlock()

	if !wasInitialized {
		return nil
	}

	d.registry.clear()
	d.acks.clear()

	oldState := "INITIALIZED"
	if wasConfigured {
		oldState = "CONFIGURED"
	}
	d.logDriverState(oldState, "CLOSED", "")
	d.debugLog("driver closed")

	if err := worker.Close(); err != nil {
		return fmt.Errorf("close transport: %w", err)
	}
	return nil
}

// IsInitialized reports whether the driver has a transport.
func (d *Driver) IsInitialized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.initialized
}

// IsConfigured reports whether receiver configuration has completed.
func (d *Driver) IsConfigured() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.configured
}

// IsOpen reports whether the underlying transport is open.
func (d *Driver) IsOpen() bool {
	d.mu.Lock()
	worker := d.worker
	d.mu.Unlock()
	return worker != nil && worker.IsOpen()
}

// Port returns the transport's device or address name, when known.
func (d *Driver) Port() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.port
}

// markConfigured records that receiver configuration completed.
func (d *Driver) markConfigured() {
	d.mu.Lock()
	already := d.configured
	d.configured = true
	d.mu.Unlock()

	if !already {
		d.logDriverState("INITIALIZED", "CONFIGURED", "")
	}
}

// handleBytes is the transport receive callback. It accumulates raw
// bytes and dispatches every complete frame found.
func (d *Driver) handleBytes(data []byte) {
	d.rxBuf = append(d.rxBuf, data...)
	for len(d.rxBuf) > 0 {
		n, frame, err := ubx.Extract(d.rxBuf)
		if err != nil {
			d.logError(err, "extract")
		}
		if n == 0 {
			// Incomplete frame prefix, wait for more bytes.
			return
		}
		d.rxBuf = d.rxBuf[n:]
		if frame != nil {
			d.logMessage(log.DirectionIn, frame.ID, len(frame.Payload))
			d.registry.dispatch(frame)
		}
	}
	d.rxBuf = nil
}

// handleAck resolves waiters for the identity echoed by an ACK-ACK.
func (d *Driver) handleAck(frame *ubx.Frame) {
	var ack ubx.AckAck
	if err := ubx.DecodeInto(frame, &ack); err != nil {
		d.logError(err, "decode ack")
		return
	}
	d.logAck(ack.Acked(), log.AckResultAck)
	d.acks.resolve(ack.Acked(), ackAcknowledged)
}

// handleNak resolves waiters for the identity echoed by an ACK-NAK.
func (d *Driver) handleNak(frame *ubx.Frame) {
	var nak ubx.AckNak
	if err := ubx.DecodeInto(frame, &nak); err != nil {
		d.logError(err, "decode nak")
		return
	}
	d.logAck(nak.Nacked(), log.AckResultNak)
	d.acks.resolve(nak.Nacked(), ackRejected)
}

// send hands a complete frame to the transport.
func (d *Driver) send(id ubx.ID, frame []byte) error {
	d.mu.Lock()
	worker := d.worker
	d.mu.Unlock()

	if worker == nil {
		return ErrNotInitialized
	}
	if err := worker.Send(frame); err != nil {
		return fmt.Errorf("send %v: %w", id, err)
	}
	d.logMessage(log.DirectionOut, id, len(frame)-ubx.Overhead)
	return nil
}

// identity returns the capture identity of the current transport.
func (d *Driver) identity() (connID, port string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connID, d.port
}

// logMessage emits a protocol-layer event for a framed message.
func (d *Driver) logMessage(direction log.Direction, id ubx.ID, length int) {
	if d.config.Capture == nil {
		return
	}
	connID, port := d.identity()
	d.config.Capture.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    direction,
		Layer:        log.LayerProtocol,
		Category:     log.CategoryMessage,
		Port:         port,
		Message: &log.MessageEvent{
			Class:  id.Class,
			MsgID:  id.Msg,
			Name:   id.Name(),
			Length: length,
		},
	})
}

// logAck emits an acknowledgment outcome event.
func (d *Driver) logAck(id ubx.ID, result log.AckResult) {
	if d.config.Capture == nil {
		return
	}
	connID, port := d.identity()
	d.config.Capture.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    log.DirectionIn,
		Layer:        log.LayerDriver,
		Category:     log.CategoryAck,
		Port:         port,
		Ack: &log.AckEvent{
			Class:  id.Class,
			MsgID:  id.Msg,
			Result: result,
		},
	})
}

// logError emits a protocol-layer error event.
func (d *Driver) logError(err error, context string) {
	if d.config.Capture == nil {
		return
	}
	connID, port := d.identity()
	d.config.Capture.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    log.DirectionIn,
		Layer:        log.LayerProtocol,
		Category:     log.CategoryError,
		Port:         port,
		Error: &log.ErrorEventData{
			Layer:   log.LayerProtocol,
			Message: err.Error(),
			Context: context,
		},
	})
}

// logDriverState emits a driver lifecycle event.
func (d *Driver) logDriverState(oldState, newState, reason string) {
	if d.config.Capture == nil {
		return
	}
	connID, port := d.identity()
	d.config.Capture.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Layer:        log.LayerDriver,
		Category:     log.CategoryState,
		Port:         port,
		State: &log.StateChangeEvent{
			Entity:   log.StateEntityDriver,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}

// debugLog logs a debug message when a logger is configured.
func (d *Driver) debugLog(msg string, args ...any) {
	if d.config.Logger != nil {
		d.config.Logger.Debug(msg, args...)
	}
}
