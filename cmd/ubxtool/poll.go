package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/clearpathrobotics/ublox/pkg/ubx"
)

func runPoll(args []string) {
	fs := flag.NewFlagSet("poll", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `ubxtool poll - Poll a single message and print the reply

Usage:
  ubxtool poll [flags] <message>

Message names are the conventional u-blox ones: mon-ver, cfg-prt,
cfg-rate, cfg-nav5, nav-pvt, nav-status, ...

Flags:
`)
		fs.PrintDefaults()
	}

	var conn connFlags
	conn.register(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: message name required")
		fs.Usage()
		os.Exit(1)
	}

	id, ok := ubx.Lookup(fs.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown message %q\n", fs.Arg(0))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := pollReceiver(ctx, &conn, id); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func pollReceiver(ctx context.Context, conn *connFlags, id ubx.ID) error {
	driver, cleanup, err := conn.open(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	// CFG-PRT polls take a port selector; default to UART1.
	var payload []byte
	if id == ubx.IDCfgPrt {
		payload = []byte{ubx.PortIDUart1}
	}

	frame, err := driver.PollFrame(ctx, id, payload, 0)
	if err != nil {
		return err
	}

	if frame.ID == ubx.IDMonVer {
		var ver ubx.MonVer
		if err := ubx.DecodeInto(frame, &ver); err != nil {
			return err
		}
		fmt.Printf("Software: %s\n", ver.Software())
		fmt.Printf("Hardware: %s\n", ver.Hardware())
		if pv, ok := ver.ProtocolVersion(); ok {
			fmt.Printf("Protocol: %s\n", pv)
		}
		for _, ext := range ver.ExtensionStrings() {
			fmt.Printf("  %s\n", ext)
		}
		return nil
	}

	msg, err := ubx.Decode(frame)
	if err != nil {
		fmt.Printf("%v  %d byte payload\n  % X\n", frame.ID, len(frame.Payload), frame.Payload)
		return nil
	}
	fmt.Printf("%v\n  %+v\n", frame.ID, msg)
	return nil
}
