package exec

import (
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// State describes the lifecycle of a tracked tool call.
//
// Transitions are monotone and terminal: a record moves from StateRunning to
// exactly one of StateCompleted, StateSignaled, or StateFailed, and never
// changes again.
type State int32

const (
	// StateRunning means the worker is executing and no outcome has been
	// decided yet.
	StateRunning State = iota
	// StateCompleted means the worker finished and its result was delivered.
	StateCompleted
	// StateSignaled means an operator signal resolved the call before the
	// worker finished; the worker keeps running in the background.
	StateSignaled
	// StateFailed means the worker returned an error.
	StateFailed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateSignaled:
		return "signaled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Record is the bookkeeping object for one tracked tool call.
//
// The state field is the arbiter of the worker-vs-signal race: whichever
// side wins the compare-and-swap from StateRunning owns the call's outcome,
// and the loser's contribution is discarded.
type Record struct {
	id        string
	toolName  string
	startTime time.Time
	state     atomic.Int32

	// signal is a one-shot mailbox. The transition CAS gates the send, so at
	// most one signal is ever written and the buffered send never blocks.
	signal chan Signal
}

func newRecord(toolName string) *Record {
	return &Record{
		id:        ulid.Make().String(),
		toolName:  toolName,
		startTime: time.Now(),
		signal:    make(chan Signal, 1),
	}
}

// ID returns the unique record identifier.
func (r *Record) ID() string {
	return r.id
}

// ToolName returns the name of the tool being executed.
func (r *Record) ToolName() string {
	return r.toolName
}

// StartTime returns when the call was accepted.
func (r *Record) StartTime() time.Time {
	return r.startTime
}

// State returns the current call state.
func (r *Record) State() State {
	return State(r.state.Load())
}

// Elapsed returns the time since the call was accepted.
func (r *Record) Elapsed() time.Duration {
	return time.Since(r.startTime)
}

// transition atomically moves the record from StateRunning to the given
// terminal state. It reports whether this caller won the transition; a
// false return means the call was already resolved by the other side of
// the race.
func (r *Record) transition(to State) bool {
	return r.state.CompareAndSwap(int32(StateRunning), int32(to))
}
