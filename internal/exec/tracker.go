package exec

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wagiedev/workspace-mcp-go/internal/errors"
)

// Tracker owns the single in-flight call slot.
//
// The slot is the one piece of exclusively arbitrated mutable state in the
// protocol core: at most one tool call runs per server instance, and a
// second tools/call is rejected immediately rather than queued.
type Tracker struct {
	log *slog.Logger

	mu     sync.Mutex
	active *Record
}

// Status is a read-only snapshot of the tracker, exposed to the host UI.
type Status struct {
	Running  bool
	ToolName string
	RecordID string
	Elapsed  time.Duration
}

// Outcome describes how one tracked call resolved.
type Outcome struct {
	State    State
	ToolName string
	Elapsed  time.Duration

	// Value holds the worker result when State is StateCompleted.
	Value any
	// Err holds the worker failure when State is StateFailed.
	Err error
	// Signal holds the operator signal when State is StateSignaled.
	Signal *Signal
}

// workerResult carries a worker's outcome across the race.
type workerResult struct {
	value any
	err   error
}

// NewTracker creates an execution tracker.
func NewTracker(log *slog.Logger) *Tracker {
	return &Tracker{
		log: log.With("component", "exec"),
	}
}

// begin opens the call slot. It fails fast with ErrCallInProgress when a
// call is already running; no record is created in that case.
func (t *Tracker) begin(toolName string) (*Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active != nil {
		return nil, errors.ErrCallInProgress
	}

	rec := newRecord(toolName)
	t.active = rec

	t.log.Debug("Call slot acquired", "record_id", rec.id, "tool", toolName)

	return rec, nil
}

// end releases the call slot. Release happens exactly once per acquisition
// and must happen-before the next begin, which the mutex guarantees.
func (t *Tracker) end(rec *Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == rec {
		t.active = nil
	}

	t.log.Debug("Call slot released",
		"record_id", rec.id,
		"tool", rec.toolName,
		"state", rec.State().String(),
	)
}

// Run executes fn as the tracked call for toolName and blocks until the
// worker finishes or an operator signal arrives, whichever happens first.
//
// The worker goroutine is never force-terminated: when a signal wins the
// race the worker keeps running and its eventual result is discarded. The
// result channel is buffered so that late delivery is a non-blocking no-op.
//
// Run returns ErrCallInProgress without starting a worker when the slot is
// occupied. On any other path the slot is released before Run returns.
func (t *Tracker) Run(
	ctx context.Context,
	toolName string,
	fn func(context.Context) (any, error),
) (Outcome, error) {
	rec, err := t.begin(toolName)
	if err != nil {
		return Outcome{}, err
	}

	defer t.end(rec)

	results := make(chan workerResult, 1)

	go func() {
		value, err := fn(ctx)
		results <- workerResult{value: value, err: err}
	}()

	select {
	case res := <-results:
		return t.resolveWorker(rec, res), nil

	case sig := <-rec.signal:
		t.log.Info("Call resolved by operator signal",
			"record_id", rec.id,
			"tool", rec.toolName,
			"signal", string(sig.Kind),
		)

		return Outcome{
			State:    StateSignaled,
			ToolName: rec.toolName,
			Elapsed:  rec.Elapsed(),
			Signal:   &sig,
		}, nil
	}
}

// resolveWorker settles the race on behalf of the worker. If the state
// transition fails, a signal won in the window between worker completion
// and settlement; the worker outcome is dropped and the signal is honored.
func (t *Tracker) resolveWorker(rec *Record, res workerResult) Outcome {
	target := StateCompleted
	if res.err != nil {
		target = StateFailed
	}

	if !rec.transition(target) {
		// First writer wins: the signal was attached first, so the worker
		// result is discarded. The delivering side has already performed
		// its one-shot send, or is about to.
		sig := <-rec.signal

		t.log.Debug("Worker result discarded after signal",
			"record_id", rec.id,
			"tool", rec.toolName,
		)

		return Outcome{
			State:    StateSignaled,
			ToolName: rec.toolName,
			Elapsed:  rec.Elapsed(),
			Signal:   &sig,
		}
	}

	if res.err != nil {
		t.log.Warn("Tool call failed",
			"record_id", rec.id,
			"tool", rec.toolName,
			"error", res.err,
		)

		return Outcome{
			State:    StateFailed,
			ToolName: rec.toolName,
			Elapsed:  rec.Elapsed(),
			Err:      res.err,
		}
	}

	t.log.Debug("Tool call completed",
		"record_id", rec.id,
		"tool", rec.toolName,
		"elapsed", rec.Elapsed(),
	)

	return Outcome{
		State:    StateCompleted,
		ToolName: rec.toolName,
		Elapsed:  rec.Elapsed(),
		Value:    res.value,
	}
}

// Deliver attaches an operator signal to the currently running call.
//
// Exactly one signal can resolve a call. Delivery fails with
// ErrNoActiveCall when no call is running and with ErrCallResolved when the
// call already reached a terminal state, including when a second signal is
// delivered to the same call.
func (t *Tracker) Deliver(sig Signal) error {
	t.mu.Lock()
	rec := t.active
	t.mu.Unlock()

	if rec == nil {
		return errors.ErrNoActiveCall
	}

	if !rec.transition(StateSignaled) {
		return errors.ErrCallResolved
	}

	// The CAS above is the only gate to this send, so the cap-1 buffer
	// guarantees it never blocks.
	rec.signal <- sig

	t.log.Info("Signal delivered",
		"record_id", rec.id,
		"tool", rec.toolName,
		"signal", string(sig.Kind),
	)

	return nil
}

// Snapshot returns the current tracker status for the observability surface.
func (t *Tracker) Snapshot() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == nil {
		return Status{}
	}

	return Status{
		Running:  true,
		ToolName: t.active.toolName,
		RecordID: t.active.id,
		Elapsed:  t.active.Elapsed(),
	}
}
