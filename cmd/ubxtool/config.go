package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/clearpathrobotics/ublox/pkg/gps"
)

func runConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `ubxtool config - Apply a YAML configuration file to a receiver

Usage:
  ubxtool config [flags] <receiver.yaml>

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
		fmt.Fprintln(os.Stderr, "Error: configuration file required")
		fs.Usage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := applyConfig(ctx, &conn, fs.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func applyConfig(ctx context.Context, conn *connFlags, path string) error {
	cfg, err := gps.LoadConfig(path)
	if err != nil {
		return err
	}

	driver, cleanup, err := conn.open(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cfg.Apply(ctx, driver); err != nil {
		return err
	}

	fmt.Println("Configuration applied")
	if cfg.Baudrate > 0 && conn.device != "" && int(cfg.Baudrate) != conn.baud {
		fmt.Printf("Note: receiver UART1 now runs at %d baud; reconnect with -baud %d\n",
			cfg.Baudrate, cfg.Baudrate)
	}
	return nil
}
