package gps

import (
	"sync"

	"github.com/clearpathrobotics/ublox/pkg/ubx"
)

// ackOutcome is the receiver's verdict on a configuration message.
type ackOutcome int

const (
	ackAcknowledged ackOutcome = iota
	ackRejected
)

// ackTracker correlates ACK-ACK and ACK-NAK replies with the calls
// waiting for them. Both replies echo the class and id of the message
// they answer, so waiters are keyed by that identity. Several calls
// may configure the same identity concurrently; the receiver answers
// each send, but the replies are indistinguishable, so an outcome is
// broadcast to every waiter of that identity.
type ackTracker struct {
	mu      sync.Mutex
	waiters map[ubx.ID]map[uint64]chan ackOutcome
	next    uint64
}

func newAckTracker() *ackTracker {
	return &ackTracker{waiters: make(map[ubx.ID]map[uint64]chan ackOutcome)}
}

// add registers a waiter for the identity and returns its channel and
// removal token. The channel is buffered so resolve never blocks on a
// waiter that already gave up.
func (t *ackTracker) add(id ubx.ID) (chan ackOutcome, uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	set := t.waiters[id]
	if set == nil {
		set = make(map[uint64]chan ackOutcome)
		t.waiters[id] = set
	}
	ch := make(chan ackOutcome, 1)
	set[t.next] = ch
	return ch, t.next
}

// remove drops a waiter, pruning the identity's set once empty.
func (t *ackTracker) remove(id ubx.ID, token uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set, ok := t.waiters[id]
	if !ok {
		return
	}
	delete(set, token)
	if len(set) == 0 {
		delete(t.waiters, id)
	}
}

// resolve delivers an outcome to every waiter registered for the
// acknowledged identity and clears them.
func (t *ackTracker) resolve(id ubx.ID, outcome ackOutcome) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, ch := range t.waiters[id] {
		ch <- outcome
	}
	delete(t.waiters, id)
}

// clear drops every waiter without resolving it. Pending calls time
// out on their own.
func (t *ackTracker) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.waiters = make(map[ubx.ID]map[uint64]chan ackOutcome)
}

// pending reports the waiters registered for an identity.
func (t *ackTracker) pending(id ubx.ID) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.waiters[id])
}
