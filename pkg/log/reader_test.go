package log

import (
	"io"
	"path/filepath"
	"testing"
	"time"
)

func createTestCapture(t *testing.T, events []Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ubxlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create capture: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func readAll(t *testing.T, reader *Reader) []Event {
	t.Helper()
	var read []Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		read = append(read, event)
	}
	return read
}

func TestReaderIteratesInOrder(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), ConnectionID: "conn-1", Direction: DirectionOut, Layer: LayerProtocol, Category: CategoryMessage},
		{Timestamp: time.Now(), ConnectionID: "conn-2", Direction: DirectionIn, Layer: LayerProtocol, Category: CategoryMessage},
		{Timestamp: time.Now(), ConnectionID: "conn-3", Direction: DirectionIn, Layer: LayerDriver, Category: CategoryState},
	}
	path := createTestCapture(t, events)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	read := readAll(t, reader)
	if len(read) != 3 {
		t.Fatalf("got %d events, want 3", len(read))
	}
	for i, want := range []string{"conn-1", "conn-2", "conn-3"} {
		if read[i].ConnectionID != want {
			t.Errorf("event %d ConnectionID = %q, want %q", i, read[i].ConnectionID, want)
		}
	}
}

func TestReaderFilterByDirection(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), ConnectionID: "a", Direction: DirectionOut},
		{Timestamp: time.Now(), ConnectionID: "b", Direction: DirectionIn},
		{Timestamp: time.Now(), ConnectionID: "c", Direction: DirectionOut},
	}
	path := createTestCapture(t, events)

	out := DirectionOut
	reader, err := NewFilteredReader(path, Filter{Direction: &out})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	read := readAll(t, reader)
	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}
	if read[0].ConnectionID != "a" || read[1].ConnectionID != "c" {
		t.Errorf("wrong events matched: %q, %q", read[0].ConnectionID, read[1].ConnectionID)
	}
}

func TestReaderFilterByMessageIdentity(t *testing.T) {
	events := []Event{
		{Timestamp: time.Now(), Message: &MessageEvent{Class: 0x01, MsgID: 0x07, Name: "NAV-PVT"}},
		{Timestamp: time.Now(), Message: &MessageEvent{Class: 0x06, MsgID: 0x24, Name: "CFG-NAV5"}},
		{Timestamp: time.Now(), Ack: &AckEvent{Class: 0x06, MsgID: 0x24, Result: AckResultAck}},
		{Timestamp: time.Now(), State: &StateChangeEvent{Entity: StateEntityDriver, NewState: "closed"}},
	}
	path := createTestCapture(t, events)

	class := uint8(0x06)
	msg := uint8(0x24)
	reader, err := NewFilteredReader(path, Filter{Class: &class, Msg: &msg})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	read := readAll(t, reader)
	// Matches the CFG-NAV5 message and its ack; never the state event.
	if len(read) != 2 {
		t.Fatalf("got %d events, want 2", len(read))
	}
	if read[0].Message == nil || read[0].Message.Name != "CFG-NAV5" {
		t.Errorf("first match = %+v, want CFG-NAV5 message", read[0])
	}
	if read[1].Ack == nil {
		t.Errorf("second match = %+v, want ack", read[1])
	}
}

func TestReaderFilterByTime(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{Timestamp: base, ConnectionID: "early"},
		{Timestamp: base.Add(time.Minute), ConnectionID: "mid"},
		{Timestamp: base.Add(2 * time.Minute), ConnectionID: "late"},
	}
	path := createTestCapture(t, events)

	start := base.Add(30 * time.Second)
	end := base.Add(90 * time.Second)
	reader, err := NewFilteredReader(path, Filter{TimeStart: &start, TimeEnd: &end})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	read := readAll(t, reader)
	if len(read) != 1 || read[0].ConnectionID != "mid" {
		t.Fatalf("got %+v, want only the mid event", read)
	}
}

func TestReaderEmptyFile(t *testing.T) {
	path := createTestCapture(t, nil)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "absent.ubxlog")); err == nil {
		t.Error("expected error for missing file")
	}
}
