package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/clearpathrobotics/ublox/pkg/log"
	"github.com/clearpathrobotics/ublox/pkg/ubx"
)

// Stats holds aggregate statistics about a capture file.
type Stats struct {
	TotalEvents int

	ByLayer     map[log.Layer]int
	ByCategory  map[log.Category]int
	ByDirection map[log.Direction]int
	ByMessage   map[ubx.ID]int

	Acks     int
	Naks     int
	Timeouts int
	Errors   int

	Connections map[string]*ConnectionStats

	TimeRange struct {
		Start time.Time
		End   time.Time
	}
}

// ConnectionStats holds statistics for a single connection.
type ConnectionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Port      string
	Events    int
}

// Collect reads a capture file and aggregates its statistics.
func Collect(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("open capture file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		ByLayer:     make(map[log.Layer]int),
		ByCategory:  make(map[log.Category]int),
		ByDirection: make(map[log.Direction]int),
		ByMessage:   make(map[ubx.ID]int),
		Connections: make(map[string]*ConnectionStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read event: %w", err)
		}
		stats.add(event)
	}

	return stats, nil
}

// add folds one event into the aggregate.
func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.ByLayer[event.Layer]++
	s.ByCategory[event.Category]++
	s.ByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	conn, ok := s.Connections[event.ConnectionID]
	if !ok {
		conn = &ConnectionStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
		}
		s.Connections[event.ConnectionID] = conn
	}
	conn.Events++
	if event.Timestamp.After(conn.LastSeen) {
		conn.LastSeen = event.Timestamp
	}
	if event.Port != "" && conn.Port == "" {
		conn.Port = event.Port
	}

	switch {
	case event.Message != nil:
		s.ByMessage[ubx.ID{Class: event.Message.Class, Msg: event.Message.MsgID}]++
	case event.Ack != nil:
		switch event.Ack.Result {
		case log.AckResultAck:
			s.Acks++
		case log.AckResultNak:
			s.Naks++
		case log.AckResultTimeout:
			s.Timeouts++
		}
	case event.Error != nil:
		s.Errors++
	}
}

// RunStats analyzes the capture file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := Collect(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Capture Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerProtocol, log.LayerDriver} {
		if count := stats.ByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.ByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.ByMessage) > 0 {
		fmt.Fprintln(w, "Messages:")
		ids := make([]ubx.ID, 0, len(stats.ByMessage))
		for id := range stats.ByMessage {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			if ids[i].Class != ids[j].Class {
				return ids[i].Class < ids[j].Class
			}
			return ids[i].Msg < ids[j].Msg
		})
		for _, id := range ids {
			name := id.Name()
			if name == "" {
				name = fmt.Sprintf("0x%02X 0x%02X", id.Class, id.Msg)
			}
			fmt.Fprintf(w, "  %-12s %d\n", name+":", stats.ByMessage[id])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "Acknowledgments:")
	fmt.Fprintf(w, "  %-10s %d\n", "ACK:", stats.Acks)
	if stats.Naks > 0 {
		fmt.Fprintf(w, "  %-10s %d\n", "NAK:", stats.Naks)
	}
	if stats.Timeouts > 0 {
		fmt.Fprintf(w, "  %-10s %d\n", "Timeout:", stats.Timeouts)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Connections: %d\n", len(stats.Connections))
	if len(stats.Connections) > 0 {
		type connInfo struct {
			id    string
			stats *ConnectionStats
		}
		conns := make([]connInfo, 0, len(stats.Connections))
		for id, cs := range stats.Connections {
			conns = append(conns, connInfo{id, cs})
		}
		sort.Slice(conns, func(i, j int) bool {
			return conns[i].stats.FirstSeen.Before(conns[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, c := range conns {
			duration := c.stats.LastSeen.Sub(c.stats.FirstSeen).Round(time.Millisecond)
			shortID := c.id
			if len(shortID) > 8 {
				shortID = shortID[:8]
			}
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortID, c.stats.Events, duration)
			if c.stats.Port != "" {
				fmt.Fprintf(w, "           Port: %s\n", c.stats.Port)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
