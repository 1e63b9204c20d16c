package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/clearpathrobotics/ublox/pkg/ubx"
)

func runMonitor(args []string) {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `ubxtool monitor - Stream navigation messages from a receiver

Usage:
  ubxtool monitor [flags]

Flags:
`)
		fs.PrintDefaults()
	}

	var conn connFlags
	conn.register(fs)
	messages := fs.String("messages", "nav-pvt", "Comma-separated message names to stream")
	rate := fs.Uint("rate", 1, "Emit each message every n solutions (0 leaves receiver rates untouched)")
	duration := fs.Duration("for", 0, "Stop after this long (0 runs until interrupted)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	var ids []ubx.ID
	for _, name := range strings.Split(*messages, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		id, ok := ubx.Lookup(name)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown message %q\n", name)
			os.Exit(1)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no messages to monitor")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	if err := monitorReceiver(ctx, &conn, ids, uint8(*rate)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func monitorReceiver(ctx context.Context, conn *connFlags, ids []ubx.ID, rate uint8) error {
	driver, cleanup, err := conn.open(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	// Sinks run on the transport reader goroutine; hand frames to the
	// printer through a buffered channel and drop when it falls behind.
	frames := make(chan *ubx.Frame, 64)
	for _, id := range ids {
		if rate > 0 {
			if err := driver.SetRate(ctx, id, rate); err != nil {
				return fmt.Errorf("rate for %v: %w", id, err)
			}
		}
		driver.Subscribe(id, func(frame *ubx.Frame) {
			select {
			case frames <- frame:
			default:
			}
		})
	}

	fmt.Println("Monitoring (interrupt to stop)")
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case frame := <-frames:
			printFrame(frame)
		}
	}
}

// printFrame prints one line per received frame.
func printFrame(frame *ubx.Frame) {
	ts := time.Now().Format("15:04:05.000")
	switch frame.ID {
	case ubx.IDNavPvt:
		var pvt ubx.NavPvt
		if err := ubx.DecodeInto(frame, &pvt); err == nil {
			fmt.Printf("[%s] NAV-PVT  %s  lat %.7f  lon %.7f  height %.1f m  fix %s  sv %d\n",
				ts, pvtTime(pvt), float64(pvt.Lat)/1e7, float64(pvt.Lon)/1e7,
				float64(pvt.HMSL)/1000, ubx.FixTypeName(pvt.FixType), pvt.NumSV)
			return
		}
	case ubx.IDNavStatus:
		var status ubx.NavStatus
		if err := ubx.DecodeInto(frame, &status); err == nil {
			fmt.Printf("[%s] NAV-STATUS  fix %s  ttff %.1f s  uptime %.0f s\n",
				ts, ubx.FixTypeName(status.GpsFix),
				float64(status.Ttff)/1000, float64(status.Msss)/1000)
			return
		}
	}
	fmt.Printf("[%s] %v  %d byte payload\n", ts, frame.ID, len(frame.Payload))
}

func pvtTime(pvt ubx.NavPvt) string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		pvt.Year, pvt.Month, pvt.Day, pvt.Hour, pvt.Min, pvt.Sec)
}
