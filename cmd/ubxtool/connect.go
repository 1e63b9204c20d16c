package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/clearpathrobotics/ublox/pkg/gps"
	"github.com/clearpathrobotics/ublox/pkg/log"
	"github.com/clearpathrobotics/ublox/pkg/transport"
)

// connFlags holds the receiver connection flags shared by every
// command that talks to a receiver.
type connFlags struct {
	device  string
	baud    int
	tcp     string
	ws      string
	capture string
	timeout time.Duration
	verbose bool
}

// register adds the connection flags to fs.
func (f *connFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.device, "device", "", "Serial device path (e.g. /dev/ttyACM0)")
	fs.IntVar(&f.baud, "baud", 9600, "Serial baud rate")
	fs.StringVar(&f.tcp, "tcp", "", "TCP address of a remote receiver (host:port)")
	fs.StringVar(&f.ws, "ws", "", "WebSocket URL of a remote receiver")
	fs.StringVar(&f.capture, "capture", "", "Write a protocol capture to this file")
	fs.DurationVar(&f.timeout, "timeout", 0, "Acknowledgment timeout (0 uses the driver default)")
	fs.BoolVar(&f.verbose, "verbose", false, "Enable debug logging to stderr")
}

// open connects to the receiver selected by the flags and initializes
// a driver over the connection. The returned cleanup closes the
// driver, the transport, and the capture file.
func (f *connFlags) open(ctx context.Context) (*gps.Driver, func(), error) {
	var capture log.Logger
	var captureFile *log.FileLogger
	if f.capture != "" {
		file, err := log.NewFileLogger(f.capture)
		if err != nil {
			return nil, nil, fmt.Errorf("open capture file: %w", err)
		}
		captureFile = file
		capture = file
	}
	closeCapture := func() {
		if captureFile != nil {
			captureFile.Close()
		}
	}

	config := transport.Config{Capture: capture}

	var (
		worker *transport.Stream
		err    error
	)
	switch {
	case f.device != "":
		worker, err = transport.OpenSerial(f.device, f.baud, config)
	case f.tcp != "":
		worker, err = transport.DialTCP(ctx, f.tcp, config)
	case f.ws != "":
		worker, err = transport.DialWebSocket(ctx, f.ws, config)
	default:
		err = errors.New("no receiver selected: use -device, -tcp, or -ws")
		if ports, listErr := transport.ListPorts(); listErr == nil && len(ports) > 0 {
			err = fmt.Errorf("no receiver selected: use -device, -tcp, or -ws (serial ports found: %s)",
				strings.Join(ports, ", "))
		}
	}
	if err != nil {
		closeCapture()
		return nil, nil, err
	}

	var logger *slog.Logger
	if f.verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	driver := gps.New(gps.DriverConfig{
		AckTimeout: f.timeout,
		Capture:    capture,
		Logger:     logger,
	})
	if err := driver.Initialize(worker); err != nil {
		worker.Close()
		closeCapture()
		return nil, nil, err
	}

	cleanup := func() {
		driver.Close()
		closeCapture()
	}
	return driver, cleanup, nil
}
