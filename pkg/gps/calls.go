package gps

import (
	"context"
	"fmt"
	"time"

	"github.com/clearpathrobotics/ublox/pkg/log"
	"github.com/clearpathrobotics/ublox/pkg/ubx"
)

// Configure sends a configuration message. With wait the call blocks
// until the receiver acknowledges the message, rejects it
// (ErrRejected), the acknowledgment timeout elapses (ErrTimeout), or
// ctx is cancelled. Without wait the frame is queued and the call
// returns immediately.
func (d *Driver) Configure(ctx context.Context, msg ubx.Message, wait bool) error {
	if !d.IsInitialized() {
		return ErrNotInitialized
	}

	id := msg.MessageID()
	frame, err := ubx.EncodeFrame(msg)
	if err != nil {
		return fmt.Errorf("configure %v: %w", id, err)
	}
	if len(frame) > MaxSendSize {
		return fmt.Errorf("%w: %v frame is %d bytes, limit %d",
			ErrMessageTooLarge, id, len(frame), MaxSendSize)
	}

	if !wait {
		return d.send(id, frame)
	}

	// The waiter must exist before the send so a fast acknowledgment
	// cannot slip past it.
	ch, token := d.acks.add(id)
	defer d.acks.remove(id, token)

	if err := d.send(id, frame); err != nil {
		return err
	}

	timer := time.NewTimer(d.config.AckTimeout)
	defer timer.Stop()

	select {
	case outcome := <-ch:
		if outcome == ackRejected {
			return fmt.Errorf("configure %v: %w", id, ErrRejected)
		}
		return nil
	case <-timer.C:
		d.logAck(id, log.AckResultTimeout)
		return fmt.Errorf("configure %v: %w", id, ErrTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Read blocks until the next message of msg's identity arrives and
// decodes it into msg. A timeout of zero or less uses the driver's
// acknowledgment timeout.
func (d *Driver) Read(ctx context.Context, msg ubx.Message, timeout time.Duration) error {
	if !d.IsInitialized() {
		return ErrNotInitialized
	}
	id := msg.MessageID()

	shot := newOneShot()
	sub := d.registry.insert(id, shot.deliver)
	defer d.registry.remove(sub)

	frame, err := shot.wait(ctx, d.timeoutOr(timeout))
	if err != nil {
		return fmt.Errorf("read %v: %w", id, err)
	}
	if err := ubx.DecodeInto(frame, msg); err != nil {
		return fmt.Errorf("read %v: %w", id, err)
	}
	return nil
}

// Poll requests msg's identity from the receiver and decodes the
// reply into msg. A timeout of zero or less uses the driver's
// acknowledgment timeout.
func (d *Driver) Poll(ctx context.Context, msg ubx.Message, timeout time.Duration) error {
	return d.PollPayload(ctx, msg, nil, timeout)
}

// PollPayload is Poll with a selector payload for polls that take one
// (CFG-PRT takes the port id).
func (d *Driver) PollPayload(ctx context.Context, msg ubx.Message, payload []byte, timeout time.Duration) error {
	id := msg.MessageID()
	frame, err := d.PollFrame(ctx, id, payload, timeout)
	if err != nil {
		return err
	}
	if err := ubx.DecodeInto(frame, msg); err != nil {
		return fmt.Errorf("poll %v: %w", id, err)
	}
	return nil
}

// PollFrame requests an identity from the receiver and returns the raw
// reply frame. Use Poll when a typed message for the identity exists.
func (d *Driver) PollFrame(ctx context.Context, id ubx.ID, payload []byte, timeout time.Duration) (*ubx.Frame, error) {
	if !d.IsInitialized() {
		return nil, ErrNotInitialized
	}

	// The handler must exist before the request goes out: the reply
	// can beat a registration made after the send.
	shot := newOneShot()
	sub := d.registry.insert(id, shot.deliver)
	defer d.registry.remove(sub)

	if err := d.SendPoll(id, payload); err != nil {
		return nil, err
	}

	frame, err := shot.wait(ctx, d.timeoutOr(timeout))
	if err != nil {
		return nil, fmt.Errorf("poll %v: %w", id, err)
	}
	return frame, nil
}

// SendPoll sends a poll request for the identity without waiting for
// the reply.
func (d *Driver) SendPoll(id ubx.ID, payload []byte) error {
	if !d.IsInitialized() {
		return ErrNotInitialized
	}
	frame := ubx.EncodeRaw(id, payload)
	if len(frame) > MaxSendSize {
		return fmt.Errorf("%w: %v frame is %d bytes, limit %d",
			ErrMessageTooLarge, id, len(frame), MaxSendSize)
	}
	return d.send(id, frame)
}

// Subscribe registers sink for every inbound frame of the identity.
// Sinks run on the transport reader goroutine: they must not block
// and must not call back into the driver. Subscribing before
// Initialize is allowed; frames only flow once the driver is
// initialized.
func (d *Driver) Subscribe(id ubx.ID, sink func(*ubx.Frame)) Subscription {
	return d.registry.insert(id, sink)
}

// Unsubscribe removes a subscription. Removing one twice is a no-op.
func (d *Driver) Unsubscribe(sub Subscription) {
	d.registry.remove(sub)
}

// Subscribe registers a typed sink for every inbound message of M's
// identity. Frames that fail to decode are dropped and surfaced as
// capture events. The sink runs on the transport reader goroutine and
// must not block or call back into the driver.
func Subscribe[M any, PM interface {
	*M
	ubx.Message
}](d *Driver, sink func(*M)) Subscription {
	id := PM(new(M)).MessageID()
	return d.registry.insert(id, func(frame *ubx.Frame) {
		msg := new(M)
		if err := ubx.DecodeInto(frame, PM(msg)); err != nil {
			d.logError(err, "decode "+id.Name())
			return
		}
		sink(msg)
	})
}

// SubscribeAtRate sets the output rate for M's identity and, once the
// receiver acknowledges it, registers a typed sink. If the rate
// command fails no handler is registered.
func SubscribeAtRate[M any, PM interface {
	*M
	ubx.Message
}](ctx context.Context, d *Driver, rate uint8, sink func(*M)) (Subscription, error) {
	id := PM(new(M)).MessageID()
	if err := d.SetRate(ctx, id, rate); err != nil {
		return Subscription{}, err
	}
	return Subscribe[M, PM](d, sink), nil
}

// timeoutOr substitutes the driver's acknowledgment timeout for
// unset call timeouts.
func (d *Driver) timeoutOr(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return d.config.AckTimeout
	}
	return timeout
}
