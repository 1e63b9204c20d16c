package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/clearpathrobotics/ublox/cmd/ubxtool/interactive"
)

func runShell(args []string) {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `ubxtool shell - Interactive receiver console

Usage:
  ubxtool shell [flags]

Type "help" at the prompt for the console commands.

Flags:
`)
		fs.PrintDefaults()
	}

	var conn connFlags
	conn.register(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := runShellLoop(ctx, cancel, &conn); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runShellLoop(ctx context.Context, cancel context.CancelFunc, conn *connFlags) error {
	driver, cleanup, err := conn.open(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	shell, err := interactive.New(driver)
	if err != nil {
		return err
	}
	shell.Run(ctx, cancel)
	return nil
}
