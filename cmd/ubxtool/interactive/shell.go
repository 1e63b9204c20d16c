// Package interactive provides the ubxtool readline console.
package interactive

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/clearpathrobotics/ublox/pkg/gps"
	"github.com/clearpathrobotics/ublox/pkg/ubx"
)

// Shell is the interactive console over a connected receiver.
type Shell struct {
	driver *gps.Driver
	rl     *readline.Instance

	// lines carries async output from message sinks to the printer
	// goroutine so sinks never block on terminal IO.
	lines    chan string
	monitors map[string]gps.Subscription
}

// New creates a console for an initialized driver.
func New(driver *gps.Driver) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ubx> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline: %w", err)
	}

	return &Shell{
		driver:   driver,
		rl:       rl,
		lines:    make(chan string, 64),
		monitors: make(map[string]gps.Subscription),
	}, nil
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	done := make(chan struct{})
	defer close(done)
	go s.printLines(done)

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "poll", "p":
			s.cmdPoll(ctx, args)

		case "version", "ver":
			s.cmdVersion(ctx)

		case "monitor", "mon":
			s.cmdMonitor(args)

		case "rate":
			s.cmdRate(ctx, args)

		case "model":
			s.cmdModel(ctx, args)

		case "fix":
			s.cmdFix(ctx, args)

		case "reset":
			s.cmdReset(ctx, args)

		case "status":
			s.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(s.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

// printLines forwards async sink output to the terminal without
// clobbering the prompt.
func (s *Shell) printLines(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case line := <-s.lines:
			fmt.Fprint(s.rl.Stdout(), line)
			s.rl.Refresh()
		}
	}
}

// push hands a line to the printer goroutine. Sinks run on the
// transport reader goroutine, so never block here.
func (s *Shell) push(line string) {
	select {
	case s.lines <- line:
	default:
		// Drop when the console falls behind.
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
Receiver Commands:
  Queries:
    poll <message>        - Poll a message and print the reply
    version               - Show receiver software and hardware versions
    status                - Show connection status

  Streaming:
    monitor <message>     - Print a message each time it arrives
    monitor stop [name]   - Stop one monitor, or all of them
    rate <message> <n>    - Emit a message every n navigation solutions

  Configuration:
    model <name>          - Set the dynamic platform model
    fix <mode>            - Set the position fix mode (2d, 3d, auto)
    reset [hot|warm|cold] - Restart the receiver

  General:
    help                  - Show this help
    quit                  - Exit console

  Message names are the conventional u-blox ones, case insensitive:
    nav-pvt, nav-status, mon-ver, cfg-rate, cfg-prt, ...`)
}

// cmdPoll handles the poll command.
func (s *Shell) cmdPoll(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: poll <message>")
		fmt.Fprintln(s.rl.Stdout(), "  Example: poll nav-pvt")
		return
	}

	id, ok := ubx.Lookup(args[0])
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown message: %s\n", args[0])
		return
	}

	// CFG-PRT polls take a port selector; default to UART1.
	var payload []byte
	if id == ubx.IDCfgPrt {
		payload = []byte{ubx.PortIDUart1}
	}

	frame, err := s.driver.PollFrame(ctx, id, payload, 0)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}

	msg, err := ubx.Decode(frame)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "%v  %d byte payload\n  % X\n", frame.ID, len(frame.Payload), frame.Payload)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "%v\n  %+v\n", frame.ID, msg)
}

// cmdVersion polls MON-VER and prints the version strings.
func (s *Shell) cmdVersion(ctx context.Context) {
	var ver ubx.MonVer
	if err := s.driver.Poll(ctx, &ver, 0); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Software: %s\n", ver.Software())
	fmt.Fprintf(s.rl.Stdout(), "Hardware: %s\n", ver.Hardware())
	if pv, ok := ver.ProtocolVersion(); ok {
		fmt.Fprintf(s.rl.Stdout(), "Protocol: %s\n", pv)
	}
	for _, ext := range ver.ExtensionStrings() {
		fmt.Fprintf(s.rl.Stdout(), "  %s\n", ext)
	}
}

// cmdMonitor handles the monitor command.
func (s *Shell) cmdMonitor(args []string) {
	if len(args) == 0 {
		if len(s.monitors) == 0 {
			fmt.Fprintln(s.rl.Stdout(), "Usage: monitor <message>")
			fmt.Fprintln(s.rl.Stdout(), "       monitor stop [name]")
			return
		}
		fmt.Fprintf(s.rl.Stdout(), "Monitoring: %s\n", strings.Join(s.monitorNames(), ", "))
		return
	}

	if args[0] == "stop" {
		s.stopMonitors(args[1:])
		return
	}

	id, ok := ubx.Lookup(args[0])
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown message: %s\n", args[0])
		return
	}

	name := id.Name()
	if _, exists := s.monitors[name]; exists {
		fmt.Fprintf(s.rl.Stdout(), "Already monitoring %s\n", name)
		return
	}

	s.monitors[name] = s.driver.Subscribe(id, func(frame *ubx.Frame) {
		s.push(formatFrameLine(frame))
	})
	fmt.Fprintf(s.rl.Stdout(), "Monitoring %s ('monitor stop' to end)\n", name)
}

// stopMonitors removes the named monitors, or all of them.
func (s *Shell) stopMonitors(names []string) {
	if len(names) == 0 {
		for name, sub := range s.monitors {
			s.driver.Unsubscribe(sub)
			delete(s.monitors, name)
		}
		fmt.Fprintln(s.rl.Stdout(), "All monitors stopped")
		return
	}

	for _, arg := range names {
		id, ok := ubx.Lookup(arg)
		if !ok {
			fmt.Fprintf(s.rl.Stdout(), "Unknown message: %s\n", arg)
			continue
		}
		name := id.Name()
		sub, exists := s.monitors[name]
		if !exists {
			fmt.Fprintf(s.rl.Stdout(), "Not monitoring %s\n", name)
			continue
		}
		s.driver.Unsubscribe(sub)
		delete(s.monitors, name)
		fmt.Fprintf(s.rl.Stdout(), "Stopped %s\n", name)
	}
}

func (s *Shell) monitorNames() []string {
	names := make([]string, 0, len(s.monitors))
	for name := range s.monitors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// cmdRate sets the emission rate of a periodic message.
func (s *Shell) cmdRate(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: rate <message> <n>")
		fmt.Fprintln(s.rl.Stdout(), "  Emit the message every n navigation solutions (0 disables)")
		return
	}

	id, ok := ubx.Lookup(args[0])
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "Unknown message: %s\n", args[0])
		return
	}

	rate, err := strconv.ParseUint(args[1], 10, 8)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Invalid rate: %v\n", err)
		return
	}

	if err := s.driver.SetRate(ctx, id, uint8(rate)); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintln(s.rl.Stdout(), "OK")
}

// cmdModel sets the dynamic platform model.
func (s *Shell) cmdModel(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: model <name>")
		fmt.Fprintln(s.rl.Stdout(), "  Models: portable, stationary, pedestrian, automotive, sea,")
		fmt.Fprintln(s.rl.Stdout(), "          airborne1, airborne2, airborne4, wristwatch")
		return
	}

	model, err := ubx.DynModelFromString(args[0])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}

	if err := s.driver.SetDynamicModel(ctx, model); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Dynamic model set to %s\n", model)
}

// cmdFix sets the position fix mode.
func (s *Shell) cmdFix(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.rl.Stdout(), "Usage: fix <mode>")
		fmt.Fprintln(s.rl.Stdout(), "  Modes: 2d, 3d, auto")
		return
	}

	mode, err := ubx.FixModeFromString(args[0])
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}

	if err := s.driver.SetFixMode(ctx, mode); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "Fix mode set to %s\n", mode)
}

// cmdReset restarts the receiver.
func (s *Shell) cmdReset(ctx context.Context, args []string) {
	kind := "hot"
	if len(args) > 0 {
		kind = strings.ToLower(args[0])
	}

	var mask uint16
	switch kind {
	case "hot":
		mask = ubx.BbrHotStart
	case "warm":
		mask = ubx.BbrWarmStart
	case "cold":
		mask = ubx.BbrColdStart
	default:
		fmt.Fprintln(s.rl.Stdout(), "Usage: reset [hot|warm|cold]")
		return
	}

	if err := s.driver.Reset(ctx, mask, ubx.ResetModeSoftware); err != nil {
		fmt.Fprintf(s.rl.Stdout(), "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.rl.Stdout(), "%s restart requested\n", strings.ToUpper(kind[:1])+kind[1:])
}

// cmdStatus shows the connection status.
func (s *Shell) cmdStatus() {
	fmt.Fprintln(s.rl.Stdout(), "\nReceiver Status")
	fmt.Fprintln(s.rl.Stdout(), "-------------------------------------------")
	fmt.Fprintf(s.rl.Stdout(), "  Port:        %s\n", s.driver.Port())
	fmt.Fprintf(s.rl.Stdout(), "  Open:        %t\n", s.driver.IsOpen())
	fmt.Fprintf(s.rl.Stdout(), "  Configured:  %t\n", s.driver.IsConfigured())

	if len(s.monitors) > 0 {
		fmt.Fprintf(s.rl.Stdout(), "  Monitoring:  %s\n", strings.Join(s.monitorNames(), ", "))
	} else {
		fmt.Fprintf(s.rl.Stdout(), "  Monitoring:  none\n")
	}
	fmt.Fprintln(s.rl.Stdout())
}

// formatFrameLine renders one monitored frame for async display.
func formatFrameLine(frame *ubx.Frame) string {
	ts := time.Now().Format("15:04:05")

	msg, err := ubx.Decode(frame)
	if err != nil {
		return fmt.Sprintf("\n[%s] %v  %d byte payload\n", ts, frame.ID, len(frame.Payload))
	}

	switch m := msg.(type) {
	case *ubx.NavPvt:
		return fmt.Sprintf("\n[%s] NAV-PVT  lat %.7f  lon %.7f  height %.1f m  fix %s  sv %d\n",
			ts, float64(m.Lat)/1e7, float64(m.Lon)/1e7, float64(m.HMSL)/1000,
			ubx.FixTypeName(m.FixType), m.NumSV)
	case *ubx.NavStatus:
		return fmt.Sprintf("\n[%s] NAV-STATUS  fix %s  ttff %.1f s  uptime %.0f s\n",
			ts, ubx.FixTypeName(m.GpsFix), float64(m.Ttff)/1000, float64(m.Msss)/1000)
	default:
		return fmt.Sprintf("\n[%s] %v  %d byte payload\n", ts, frame.ID, len(frame.Payload))
	}
}
