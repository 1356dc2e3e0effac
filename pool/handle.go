package pool

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/rppcore/rpp/pcv"
	"github.com/rppcore/rpp/rtime"
)

// TaskPanicError wraps a value recovered from a panicking task, along with
// a captured stack. Go collapses "exception, C string, or other" into a
// single panic value; this is that value, preserved rather than discarded.
type TaskPanicError struct {
	Value any
	Stack []byte
}

func (e *TaskPanicError) Error() string {
	return fmt.Sprintf("pool: task panicked: %v", e.Value)
}

// PoolTaskHandle is a value-type handle onto a refcounted completion state
// shared between a worker goroutine and any number of waiters, grounded on
// microbatch.JobResult[Job]'s done-channel/stored-err pattern, but built on
// pcv.Cond rather than a single channel close so the underlying state can
// also be probed non-blockingly and reused across a handle's lifetime
// without a separate "already closed" footgun.
type PoolTaskHandle struct {
	s *taskState
}

type taskState struct {
	mu       sync.Mutex
	cond     *pcv.Cond
	finished bool
	err      error
	trace    string
	submitAt rtime.TimePoint
	doneAt   rtime.TimePoint
}

func newTaskHandle(trace string) PoolTaskHandle {
	s := &taskState{submitAt: rtime.Now()}
	s.cond = pcv.NewCond(&s.mu)
	s.trace = trace
	return PoolTaskHandle{s: s}
}

// Trace returns the submission-site description captured at Submit time,
// or "" if no rtrace.Provider was configured on the pool.
func (h PoolTaskHandle) Trace() string { return h.s.trace }

// signalFinished is called exactly once, by the worker that ran the task.
func (h PoolTaskHandle) signalFinished(err error) {
	s := h.s
	s.mu.Lock()
	s.finished = true
	s.err = err
	s.doneAt = rtime.Now()
	s.cond.NotifyAll()
	s.mu.Unlock()
}

// Wait blocks until the task completes, then re-raises any captured error
// as a panic. Use WaitErr for a non-throwing variant.
func (h PoolTaskHandle) Wait() {
	if err := h.WaitErr(); err != nil {
		panic(err)
	}
}

// WaitErr blocks until the task completes and returns its captured error,
// if any, without panicking.
func (h PoolTaskHandle) WaitErr() error {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cond.WaitPredicate(func() bool { return s.finished })
	return s.err
}

// WaitTimeout blocks until the task completes or timeout elapses,
// reporting whether it finished in time. It never rethrows.
func (h PoolTaskHandle) WaitTimeout(timeout rtime.Duration) (finished bool, err error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()
	finished = s.cond.WaitForPredicate(timeout, func() bool { return s.finished })
	return finished, s.err
}

// Check is a non-blocking probe: it reports whether the task has finished
// and, if so, its captured error.
func (h PoolTaskHandle) Check() (finished bool, err error) {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished, s.err
}

// Duration returns the time from submission to completion once finished,
// or zero beforehand.
func (h PoolTaskHandle) Duration() rtime.Duration {
	s := h.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.finished {
		return 0
	}
	return s.doneAt.Sub(s.submitAt)
}

// recoverToError must be deferred directly (defer recoverToError(&err)),
// never wrapped in a closure: recover only has effect when called directly
// by the deferred function itself.
func recoverToError(errp *error) {
	if r := recover(); r != nil {
		*errp = &TaskPanicError{Value: r, Stack: debug.Stack()}
	}
}
