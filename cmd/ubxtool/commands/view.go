// Package commands implements the ubxtool log subcommands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/clearpathrobotics/ublox/pkg/log"
	"github.com/clearpathrobotics/ublox/pkg/ubx"
)

// RunView prints every capture event matching the filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("open capture file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	connID := shortenConnID(event.ConnectionID)

	fmt.Fprintf(w, "%s [conn:%s] %-3s %-9s %s\n", ts, connID, event.Direction, event.Layer, eventLabel(event))

	switch {
	case event.Frame != nil:
		formatChunk(w, event.Frame)
	case event.Message != nil:
		formatMessage(w, event.Message)
	case event.Ack != nil:
		formatAck(w, event.Ack)
	case event.State != nil:
		formatState(w, event.State)
	case event.Error != nil:
		formatError(w, event.Error)
	}

	fmt.Fprintln(w)
}

// eventLabel returns the header label for the event's payload.
func eventLabel(event log.Event) string {
	switch {
	case event.Frame != nil:
		return "Chunk"
	case event.Message != nil:
		return messageName(event.Message.Class, event.Message.MsgID, event.Message.Name)
	case event.Ack != nil:
		return event.Ack.Result.String()
	case event.State != nil:
		return "State"
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// messageName prefers the recorded name and falls back to hex class/id.
func messageName(class, msgID uint8, name string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("0x%02X 0x%02X", class, msgID)
}

// shortenConnID returns the first 8 characters of the connection ID.
func shortenConnID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatChunk(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
		if frame.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatMessage(w io.Writer, msg *log.MessageEvent) {
	fmt.Fprintf(w, "  Payload: %d bytes\n", msg.Length)
}

func formatAck(w io.Writer, ack *log.AckEvent) {
	fmt.Fprintf(w, "  Command: %v\n", ubx.ID{Class: ack.Class, Msg: ack.MsgID})
}

func formatState(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity)
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatError(w io.Writer, ee *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", ee.Message)
	if ee.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", ee.Context)
	}
}

// ParseLayerFlag parses a layer name from a command-line flag.
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "protocol":
		return log.LayerProtocol, nil
	case "driver":
		return log.LayerDriver, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport, protocol, or driver)", s)
	}
}

// ParseDirectionFlag parses a direction name from a command-line flag.
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category name from a command-line flag.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "ack":
		return log.CategoryAck, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message, ack, state, or error)", s)
	}
}
