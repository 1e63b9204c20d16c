package transport

import (
	"context"
	"fmt"
	"net"
)

// DialTCP connects to a receiver exposed over a raw TCP socket (for
// example a serial-to-ethernet bridge) and returns a running worker
// for it.
func DialTCP(ctx context.Context, address string, config Config) (*Stream, error) {
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	if config.Port == "" {
		config.Port = "tcp://" + address
	}
	return NewStream(conn, config), nil
}
