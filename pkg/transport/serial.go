package transport

import (
	"fmt"

	"go.bug.st/serial"
)

// ListPorts returns the serial device paths present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}
	return ports, nil
}

// OpenSerial opens device at the given baud rate (8N1) and returns a
// running worker for it.
func OpenSerial(device string, baudRate int, config Config) (*Stream, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", device, err)
	}

	if config.Port == "" {
		config.Port = device
	}
	return NewStream(port, config), nil
}
