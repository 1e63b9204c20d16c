package log

import (
	"sync"
	"testing"
	"time"
)

// capturingLogger collects events for assertions.
type capturingLogger struct {
	mu     sync.Mutex
	events []Event
}

func (l *capturingLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *capturingLogger) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

func TestNoopLoggerDiscards(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{Timestamp: time.Now(), ConnectionID: "conn-1"})
	// Nothing to assert beyond not panicking.
}

func TestMultiLoggerFansOut(t *testing.T) {
	first := &capturingLogger{}
	second := &capturingLogger{}
	multi := NewMultiLogger(first, second)

	event := Event{Timestamp: time.Now(), ConnectionID: "conn-1", Category: CategoryAck}
	multi.Log(event)

	for i, l := range []*capturingLogger{first, second} {
		events := l.Events()
		if len(events) != 1 {
			t.Fatalf("logger %d got %d events, want 1", i, len(events))
		}
		if events[0].ConnectionID != "conn-1" {
			t.Errorf("logger %d ConnectionID = %q", i, events[0].ConnectionID)
		}
	}
}

func TestMultiLoggerEmpty(t *testing.T) {
	multi := NewMultiLogger()
	multi.Log(Event{Timestamp: time.Now()})
}
