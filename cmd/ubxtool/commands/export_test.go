package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/clearpathrobotics/ublox/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ubxlog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestExportToJSONL(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 15, 32, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp:    ts,
			ConnectionID: "abc12345",
			Direction:    log.DirectionOut,
			Layer:        log.LayerProtocol,
			Category:     log.CategoryMessage,
			Message:      &log.MessageEvent{Class: 0x06, MsgID: 0x08, Name: "CFG-RATE", Length: 6},
		},
		{
			Timestamp:    ts.Add(time.Second),
			ConnectionID: "abc12345",
			Direction:    log.DirectionIn,
			Layer:        log.LayerDriver,
			Category:     log.CategoryAck,
			Ack:          &log.AckEvent{Class: 0x06, MsgID: 0x08, Result: log.AckResultAck},
		},
	}

	path := createTestLogFile(t, events)

	outPath := filepath.Join(t.TempDir(), "out.jsonl")
	if err := RunExport(path, "jsonl", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first line is not valid JSON: %v", err)
	}
	if first["ConnectionID"] != "abc12345" {
		t.Errorf("ConnectionID = %v, want abc12345", first["ConnectionID"])
	}
	if first["Message"] == nil {
		t.Error("expected Message payload on first line")
	}
}

func TestExportToCSV(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 15, 32, 0, time.UTC)
	events := []log.Event{
		{
			Timestamp:    ts,
			ConnectionID: "abc12345",
			Port:         "/dev/ttyACM0",
			Direction:    log.DirectionIn,
			Layer:        log.LayerProtocol,
			Category:     log.CategoryMessage,
			Message:      &log.MessageEvent{Class: 0x01, MsgID: 0x07, Name: "NAV-PVT", Length: 92},
		},
	}

	path := createTestLogFile(t, events)

	outPath := filepath.Join(t.TempDir(), "out.csv")
	if err := RunExport(path, "csv", outPath); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	output := string(data)

	if !strings.Contains(output, "timestamp,connection_id,port,direction,layer,category,type,message") {
		t.Errorf("expected CSV header, got:\n%s", output)
	}
	if !strings.Contains(output, "2026-03-14T10:15:32.000000Z") {
		t.Errorf("expected timestamp row, got:\n%s", output)
	}
	if !strings.Contains(output, "NAV-PVT") {
		t.Errorf("expected message name, got:\n%s", output)
	}
	if !strings.Contains(output, "/dev/ttyACM0") {
		t.Errorf("expected port column, got:\n%s", output)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, []log.Event{{Timestamp: time.Now()}})

	err := RunExport(path, "xml", "")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("unexpected error: %v", err)
	}
}
