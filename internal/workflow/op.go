package workflow

import (
	"sync"

	"github.com/couchcryptid/climate-credit-score/internal/domain"
)

// OpState is the lifecycle of a long-running operation.
type OpState int

const (
	OpIdle OpState = iota
	OpInFlight
	OpSucceeded
	OpFailed
)

func (s OpState) String() string {
	switch s {
	case OpIdle:
		return "idle"
	case OpInFlight:
		return "in_flight"
	case OpSucceeded:
		return "succeeded"
	case OpFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Operation gates one kind of long-running request. At most one attempt is
// in flight; a new attempt may start once the previous one has settled.
// After Close every settlement is discarded.
type Operation struct {
	mu     sync.Mutex
	state  OpState
	gen    uint64
	err    error
	closed bool
}

// Ticket identifies one attempt started by Begin.
type Ticket struct {
	op  *Operation
	gen uint64
}

// Begin starts an attempt. It fails with domain.ErrBusy while another attempt
// is in flight and with domain.ErrVisitEnded after Close.
func (o *Operation) Begin() (Ticket, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return Ticket{}, domain.ErrVisitEnded
	}
	if o.state == OpInFlight {
		return Ticket{}, domain.ErrBusy
	}
	o.gen++
	o.state = OpInFlight
	o.err = nil
	return Ticket{op: o, gen: o.gen}, nil
}

// Succeed settles the attempt. commit, if non-nil, runs while the operation is
// locked so that it cannot interleave with Close; it must not call back into
// the operation. Succeed reports false, without running commit, when the
// attempt was discarded.
func (t Ticket) Succeed(commit func()) bool {
	o := t.op
	o.mu.Lock()
	defer o.mu.Unlock()

	if !t.liveLocked() {
		return false
	}
	if commit != nil {
		commit()
	}
	o.state = OpSucceeded
	return true
}

// Fail settles the attempt with err. It reports false when the attempt was discarded.
func (t Ticket) Fail(err error) bool {
	o := t.op
	o.mu.Lock()
	defer o.mu.Unlock()

	if !t.liveLocked() {
		return false
	}
	o.state = OpFailed
	o.err = err
	return true
}

func (t Ticket) liveLocked() bool {
	o := t.op
	return !o.closed && o.gen == t.gen && o.state == OpInFlight
}

func (o *Operation) State() OpState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Busy reports whether an attempt is in flight.
func (o *Operation) Busy() bool { return o.State() == OpInFlight }

// Err returns the error of the last failed attempt, if the last attempt failed.
func (o *Operation) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Close discards any in-flight attempt and refuses new ones.
func (o *Operation) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	if o.state == OpInFlight {
		o.state = OpIdle
	}
}
