// Package gps implements the command/response layer of a u-blox GNSS
// receiver driver.
//
// A Driver turns the asynchronous byte stream of a transport.Worker
// into a synchronous-feeling API: send a configuration message and
// wait for its acknowledgment, poll the receiver for a typed reply,
// or subscribe to every message of a given identity.
//
// # Correlation
//
// Inbound frames are routed by message identity (class, message id)
// to registered handlers. Acknowledgments are correlated per call: the
// ACK-ACK/ACK-NAK payload echoes the identity of the message being
// acknowledged, and each Configure call waits on exactly that identity.
// Overlapping commands for different messages therefore resolve
// independently; concurrent commands for the same identity all observe
// the same acknowledgment.
//
// # Usage
//
//	worker, err := transport.OpenSerial("/dev/ttyACM0", 9600, transport.Config{})
//	if err != nil {
//	    // ...
//	}
//
//	driver := gps.New(gps.DriverConfig{})
//	if err := driver.Initialize(worker); err != nil {
//	    // ...
//	}
//	defer driver.Close()
//
//	// Configure and wait for the acknowledgment.
//	err = driver.ConfigRate(ctx, 250, 1)
//
//	// Poll the current port settings.
//	var prt ubx.CfgPrt
//	err = driver.PollPayload(ctx, &prt, []byte{ubx.PortIDUart1}, 0)
//
//	// Subscribe to navigation solutions.
//	sub, err := gps.SubscribeAtRate(ctx, driver, 1, func(pvt *ubx.NavPvt) {
//	    // pvt is delivered for every NAV-PVT frame
//	})
//
// Handlers and sinks run on the transport reader goroutine: they must
// not block and must not call back into the driver.
//
// # Receiver configuration
//
// Config describes a full receiver setup (rates, dynamic model, SBAS,
// DGNSS, time mode, RTCM output) and is typically loaded from YAML.
// Config.Apply issues the corresponding commands in a fixed order and
// marks the driver configured on success.
package gps
