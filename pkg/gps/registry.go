package gps

import (
	"context"
	"sync"
	"time"

	"github.com/clearpathrobotics/ublox/pkg/ubx"
)

// Subscription identifies a registered handler so it can be removed
// later. The zero value is never issued and removes nothing.
type Subscription struct {
	id    ubx.ID
	token uint64
}

// ID returns the message identity the subscription delivers.
func (s Subscription) ID() ubx.ID {
	return s.id
}

// registry is the identity-keyed handler table. One mutex covers the
// whole table: there is a single inbound stream and subscribe traffic
// is rare, so contention is not a concern.
type registry struct {
	mu       sync.Mutex
	handlers map[ubx.ID]map[uint64]func(*ubx.Frame)
	next     uint64
}

func newRegistry() *registry {
	return &registry{handlers: make(map[ubx.ID]map[uint64]func(*ubx.Frame))}
}

// insert registers deliver for id and returns its removal token.
func (r *registry) insert(id ubx.ID, deliver func(*ubx.Frame)) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	set := r.handlers[id]
	if set == nil {
		set = make(map[uint64]func(*ubx.Frame))
		r.handlers[id] = set
	}
	set[r.next] = deliver
	return Subscription{id: id, token: r.next}
}

// remove drops a handler. An identity whose handler set empties is
// removed from the table, never left dangling.
func (r *registry) remove(sub Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.handlers[sub.id]
	if !ok {
		return
	}
	delete(set, sub.token)
	if len(set) == 0 {
		delete(r.handlers, sub.id)
	}
}

// dispatch delivers frame to every handler registered for its
// identity. Handlers run under the registry lock: they must not block
// and must not re-enter the registry.
func (r *registry) dispatch(frame *ubx.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, deliver := range r.handlers[frame.ID] {
		deliver(frame)
	}
}

// clear drops every handler.
func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = make(map[ubx.ID]map[uint64]func(*ubx.Frame))
}

// count reports the handlers registered for an identity.
func (r *registry) count(id ubx.ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers[id])
}

// oneShot buffers the first frame delivered to it and hands it to a
// single bounded wait.
type oneShot struct {
	ch chan *ubx.Frame
}

func newOneShot() *oneShot {
	return &oneShot{ch: make(chan *ubx.Frame, 1)}
}

// deliver buffers the first frame; later frames are dropped because
// the waiter only ever consumes one.
func (o *oneShot) deliver(frame *ubx.Frame) {
	select {
	case o.ch <- frame:
	default:
	}
}

// wait blocks until a frame is delivered, the timeout elapses, or ctx
// is cancelled.
func (o *oneShot) wait(ctx context.Context, timeout time.Duration) (*ubx.Frame, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case frame := <-o.ch:
		return frame, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
