package transport

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clearpathrobotics/ublox/pkg/log"
)

// Transport constants.
const (
	// DefaultSendQueueSize is the default capacity of the outbound queue.
	DefaultSendQueueSize = 16

	// DefaultReadBufferSize is the default read buffer size in bytes.
	DefaultReadBufferSize = 8192

	// MaxLogChunkSize is the maximum chunk size to include in capture
	// events (4 KB). Larger chunks are truncated in the event to avoid
	// excessive memory usage.
	MaxLogChunkSize = 4096
)

// Transport errors.
var (
	// ErrClosed indicates the worker has been closed.
	ErrClosed = errors.New("transport closed")

	// ErrSendOverflow indicates the outbound queue is full.
	ErrSendOverflow = errors.New("send queue full")
)

// Worker moves raw bytes between the driver and a receiver.
type Worker interface {
	// Send queues data for transmission. It never blocks: if the
	// outbound queue is full the data is dropped and ErrSendOverflow
	// is returned.
	Send(data []byte) error

	// SetCallback registers the function invoked for every chunk of
	// received bytes. The callback runs on the reader goroutine and
	// must not block. Pass nil to drop received bytes.
	SetCallback(cb func(data []byte))

	// IsOpen reports whether the worker is open.
	IsOpen() bool

	// Close shuts the worker down and closes the underlying stream.
	Close() error
}

// Identifier is implemented by workers that carry a capture identity.
type Identifier interface {
	// ConnectionID returns the UUID assigned to this connection.
	ConnectionID() string

	// PortName returns the device or address name.
	PortName() string
}

// Config configures a Stream worker.
type Config struct {
	// Port names the underlying device or address for capture events,
	// e.g. /dev/ttyACM0 or tcp://10.1.2.3:5001. Constructors fill it
	// in when empty.
	Port string

	// Capture receives transport-layer events (nil disables capture).
	Capture log.Logger

	// SendQueueSize is the outbound queue capacity
	// (default: DefaultSendQueueSize).
	SendQueueSize int

	// ReadBufferSize is the read buffer size in bytes
	// (default: DefaultReadBufferSize).
	ReadBufferSize int
}

// Stream is a Worker over any io.ReadWriteCloser.
type Stream struct {
	rwc    io.ReadWriteCloser
	config Config
	connID string

	cbMu sync.Mutex
	cb   func([]byte)

	out chan []byte

	closeCh   chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Compile-time interface checks.
var (
	_ Worker     = (*Stream)(nil)
	_ Identifier = (*Stream)(nil)
)

// NewStream wraps rwc in a worker and starts its reader and writer
// goroutines. The worker owns rwc and closes it on Close.
func NewStream(rwc io.ReadWriteCloser, config Config) *Stream {
	if config.SendQueueSize <= 0 {
		config.SendQueueSize = DefaultSendQueueSize
	}
	if config.ReadBufferSize <= 0 {
		config.ReadBufferSize = DefaultReadBufferSize
	}

	s := &Stream{
		rwc:     rwc,
		config:  config,
		connID:  uuid.NewString(),
		out:     make(chan []byte, config.SendQueueSize),
		closeCh: make(chan struct{}),
	}
	s.logState("", "OPEN", "")

	go s.readLoop()
	go s.writeLoop()

	return s
}

// ConnectionID returns the UUID assigned to this connection.
func (s *Stream) ConnectionID() string {
	return s.connID
}

// PortName returns the device or address name.
func (s *Stream) PortName() string {
	return s.config.Port
}

// SetCallback registers the receive callback.
// Pass nil to drop received bytes.
func (s *Stream) SetCallback(cb func(data []byte)) {
	s.cbMu.Lock()
	s.cb = cb
	s.cbMu.Unlock()
}

// IsOpen reports whether the stream is open.
func (s *Stream) IsOpen() bool {
	select {
	case <-s.closeCh:
		return false
	default:
		return true
	}
}

// Send queues data for transmission. It never blocks: if the outbound
// queue is full the data is dropped and ErrSendOverflow is returned.
// Thread-safe: can be called from multiple goroutines.
func (s *Stream) Send(data []byte) error {
	// Copy so the caller can reuse its buffer after Send returns.
	buf := make([]byte, len(data))
	copy(buf, data)

	select {
	case <-s.closeCh:
		return ErrClosed
	case s.out <- buf:
		return nil
	default:
		return ErrSendOverflow
	}
}

// Close shuts down the worker and closes the underlying stream.
// It is safe to call multiple times.
func (s *Stream) Close() error {
	return s.closeWithReason("")
}

// closeWithReason performs the close and records why in the capture.
func (s *Stream) closeWithReason(reason string) error {
	s.closeOnce.Do(func() {
		close(s.closeCh)
		s.closeErr = s.rwc.Close()
		s.logState("OPEN", "CLOSED", reason)
	})
	return s.closeErr
}

// readLoop pulls bytes from the stream until it fails or the worker
// is closed. A read error tears the whole worker down: a transport
// that cannot read cannot usefully write either.
func (s *Stream) readLoop() {
	buf := make([]byte, s.config.ReadBufferSize)
	for {
		n, err := s.rwc.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.logChunk(chunk, log.DirectionIn)

			s.cbMu.Lock()
			cb := s.cb
			s.cbMu.Unlock()
			if cb != nil {
				cb(chunk)
			}
		}
		if err != nil {
			if s.IsOpen() {
				s.logError(err, "read")
				s.closeWithReason(err.Error())
			}
			return
		}
	}
}

// writeLoop drains the outbound queue until the worker is closed.
// Write failures are captured and the data dropped; a dead stream
// also fails the read side, which tears the worker down.
func (s *Stream) writeLoop() {
	for {
		select {
		case <-s.closeCh:
			return
		case data := <-s.out:
			if _, err := s.rwc.Write(data); err != nil {
				s.logError(err, "write")
				continue
			}
			s.logChunk(data, log.DirectionOut)
		}
	}
}

// logChunk emits a capture event for a chunk of raw bytes.
func (s *Stream) logChunk(data []byte, direction log.Direction) {
	if s.config.Capture == nil {
		return
	}

	chunk := data
	truncated := false
	if len(data) > MaxLogChunkSize {
		chunk = data[:MaxLogChunkSize]
		truncated = true
	}

	s.config.Capture.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: s.connID,
		Direction:    direction,
		Layer:        log.LayerTransport,
		Category:     log.CategoryMessage,
		Port:         s.config.Port,
		Frame: &log.FrameEvent{
			Size:      len(data),
			Data:      chunk,
			Truncated: truncated,
		},
	})
}

// logState emits a connection state change event.
func (s *Stream) logState(oldState, newState, reason string) {
	if s.config.Capture == nil {
		return
	}

	s.config.Capture.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: s.connID,
		Layer:        log.LayerTransport,
		Category:     log.CategoryState,
		Port:         s.config.Port,
		State: &log.StateChangeEvent{
			Entity:   log.StateEntityConnection,
			OldState: oldState,
			NewState: newState,
			Reason:   reason,
		},
	})
}

// logError emits a transport error event.
func (s *Stream) logError(err error, context string) {
	if s.config.Capture == nil {
		return
	}

	s.config.Capture.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: s.connID,
		Layer:        log.LayerTransport,
		Category:     log.CategoryError,
		Port:         s.config.Port,
		Error: &log.ErrorEventData{
			Layer:   log.LayerTransport,
			Message: err.Error(),
			Context: context,
		},
	})
}
