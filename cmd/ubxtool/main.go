// Command ubxtool is a console for u-blox GNSS receivers.
//
// It talks to a receiver over a serial port, TCP socket, or WebSocket
// and can stream navigation output, apply configuration files, poll
// individual messages, and inspect protocol capture files.
//
// Usage:
//
//	ubxtool <command> [flags]
//
// Commands:
//
//	monitor  Stream navigation messages from a receiver
//	config   Apply a YAML configuration file to a receiver
//	poll     Poll a single message and print the reply
//	shell    Interactive receiver console
//	log      Inspect protocol capture files (view, export, filter, stats)
//
// Examples:
//
//	# Watch position solutions
//	ubxtool monitor -device /dev/ttyACM0 -messages nav-pvt
//
//	# Apply a base station configuration
//	ubxtool config -device /dev/ttyACM0 -baud 115200 base.yaml
//
//	# Print receiver versions over TCP
//	ubxtool poll -tcp 10.1.2.3:5001 mon-ver
//
//	# Record a capture and view it afterwards
//	ubxtool monitor -device /dev/ttyACM0 -capture session.ubxlog
//	ubxtool log view -layer driver session.ubxlog
package main

import (
	"fmt"
	"os"
)

const usage = `ubxtool - u-blox receiver console

Usage:
  ubxtool <command> [flags]

Commands:
  monitor  Stream navigation messages from a receiver
  config   Apply a YAML configuration file to a receiver
  poll     Poll a single message and print the reply
  shell    Interactive receiver console
  log      Inspect protocol capture files (view, export, filter, stats)

Use "ubxtool <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "monitor":
		runMonitor(args)
	case "config":
		runConfig(args)
	case "poll":
		runPoll(args)
	case "shell":
		runShell(args)
	case "log":
		runLog(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}
