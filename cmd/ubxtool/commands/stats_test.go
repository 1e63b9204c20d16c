package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/clearpathrobotics/ublox/pkg/log"
	"github.com/clearpathrobotics/ublox/pkg/ubx"
)

func TestCollectCounts(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp:    ts,
			ConnectionID: "conn-1",
			Direction:    log.DirectionIn,
			Layer:        log.LayerProtocol,
			Category:     log.CategoryMessage,
			Message:      &log.MessageEvent{Class: 0x01, MsgID: 0x07, Name: "NAV-PVT", Length: 92},
		},
		{
			Timestamp:    ts.Add(time.Second),
			ConnectionID: "conn-1",
			Direction:    log.DirectionIn,
			Layer:        log.LayerProtocol,
			Category:     log.CategoryMessage,
			Message:      &log.MessageEvent{Class: 0x01, MsgID: 0x07, Name: "NAV-PVT", Length: 92},
		},
		{
			Timestamp:    ts.Add(2 * time.Second),
			ConnectionID: "conn-1",
			Direction:    log.DirectionOut,
			Layer:        log.LayerProtocol,
			Category:     log.CategoryMessage,
			Message:      &log.MessageEvent{Class: 0x06, MsgID: 0x08, Name: "CFG-RATE", Length: 6},
		},
		{
			Timestamp:    ts.Add(3 * time.Second),
			ConnectionID: "conn-1",
			Direction:    log.DirectionIn,
			Layer:        log.LayerDriver,
			Category:     log.CategoryAck,
			Ack:          &log.AckEvent{Class: 0x06, MsgID: 0x08, Result: log.AckResultAck},
		},
		{
			Timestamp:    ts.Add(4 * time.Second),
			ConnectionID: "conn-1",
			Direction:    log.DirectionIn,
			Layer:        log.LayerDriver,
			Category:     log.CategoryAck,
			Ack:          &log.AckEvent{Class: 0x06, MsgID: 0x24, Result: log.AckResultNak},
		},
		{
			Timestamp:    ts.Add(5 * time.Second),
			ConnectionID: "conn-1",
			Layer:        log.LayerTransport,
			Category:     log.CategoryError,
			Error:        &log.ErrorEventData{Layer: log.LayerTransport, Message: "short read"},
		},
	}

	path := createTestLogFile(t, events)

	stats, err := Collect(path)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if stats.TotalEvents != 6 {
		t.Errorf("TotalEvents = %d, want 6", stats.TotalEvents)
	}
	if stats.ByLayer[log.LayerProtocol] != 3 {
		t.Errorf("protocol events = %d, want 3", stats.ByLayer[log.LayerProtocol])
	}
	if stats.ByDirection[log.DirectionIn] != 5 {
		t.Errorf("inbound events = %d, want 5", stats.ByDirection[log.DirectionIn])
	}
	if stats.ByMessage[ubx.IDNavPvt] != 2 {
		t.Errorf("NAV-PVT count = %d, want 2", stats.ByMessage[ubx.IDNavPvt])
	}
	if stats.Acks != 1 || stats.Naks != 1 || stats.Timeouts != 0 {
		t.Errorf("ack counts = %d/%d/%d, want 1/1/0", stats.Acks, stats.Naks, stats.Timeouts)
	}
	if stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", stats.Errors)
	}
	if len(stats.Connections) != 1 {
		t.Errorf("Connections = %d, want 1", len(stats.Connections))
	}
}

func TestCollectTimeRange(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	events := []log.Event{
		{Timestamp: start, Category: log.CategoryMessage},
		{Timestamp: end, Category: log.CategoryMessage},
	}

	path := createTestLogFile(t, events)

	stats, err := Collect(path)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if !stats.TimeRange.Start.Equal(start) {
		t.Errorf("Start = %v, want %v", stats.TimeRange.Start, start)
	}
	if !stats.TimeRange.End.Equal(end) {
		t.Errorf("End = %v, want %v", stats.TimeRange.End, end)
	}
}

func TestCollectConnectionPorts(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, ConnectionID: "conn-1", Port: "/dev/ttyACM0", Category: log.CategoryMessage},
		{Timestamp: ts, ConnectionID: "conn-2", Port: "tcp://10.1.2.3:5001", Category: log.CategoryMessage},
		{Timestamp: ts.Add(time.Second), ConnectionID: "conn-1", Category: log.CategoryMessage},
	}

	path := createTestLogFile(t, events)

	stats, err := Collect(path)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if got := stats.Connections["conn-1"].Port; got != "/dev/ttyACM0" {
		t.Errorf("conn-1 port = %q, want /dev/ttyACM0", got)
	}
	if got := stats.Connections["conn-2"].Port; got != "tcp://10.1.2.3:5001" {
		t.Errorf("conn-2 port = %q, want tcp://10.1.2.3:5001", got)
	}
	if got := stats.Connections["conn-1"].Events; got != 2 {
		t.Errorf("conn-1 events = %d, want 2", got)
	}
}

func TestRunStatsOutput(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp:    ts,
			ConnectionID: "conn-aaaa-bbbb",
			Port:         "/dev/ttyACM0",
			Direction:    log.DirectionIn,
			Layer:        log.LayerProtocol,
			Category:     log.CategoryMessage,
			Message:      &log.MessageEvent{Class: 0x01, MsgID: 0x07, Name: "NAV-PVT", Length: 92},
		},
		{
			Timestamp:    ts.Add(time.Hour),
			ConnectionID: "conn-aaaa-bbbb",
			Direction:    log.DirectionIn,
			Layer:        log.LayerDriver,
			Category:     log.CategoryAck,
			Ack:          &log.AckEvent{Class: 0x06, MsgID: 0x08, Result: log.AckResultAck},
		},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "Total Events: 2") {
		t.Errorf("expected total in output, got:\n%s", output)
	}
	if !strings.Contains(output, "Duration:   1h0m0s") {
		t.Errorf("expected duration in output, got:\n%s", output)
	}
	if !strings.Contains(output, "PROTOCOL:") {
		t.Errorf("expected PROTOCOL layer in output, got:\n%s", output)
	}
	if !strings.Contains(output, "NAV-PVT:") {
		t.Errorf("expected NAV-PVT count in output, got:\n%s", output)
	}
	if !strings.Contains(output, "ACK:") {
		t.Errorf("expected ACK count in output, got:\n%s", output)
	}
	if !strings.Contains(output, "Connections: 1") {
		t.Errorf("expected connection count in output, got:\n%s", output)
	}
	if !strings.Contains(output, "[conn-aaa") {
		t.Errorf("expected connection details in output, got:\n%s", output)
	}
	if !strings.Contains(output, "Port: /dev/ttyACM0") {
		t.Errorf("expected port in output, got:\n%s", output)
	}
}

func TestRunStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("expected zero total, got:\n%s", buf.String())
	}
}
