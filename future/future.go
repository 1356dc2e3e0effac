package future

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/rppcore/rpp/rlog"
)

// PanicError wraps a value recovered from a panicking task or continuation,
// along with a captured stack.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("future: panic: %v", e.Value) }

// abandonedLogger receives a diagnostic entry whenever a Future is garbage
// collected without ever having been observed (Get/Wait/Await/Done, or
// chained into another Future). Defaults to discarding; set via
// SetAbandonedLogger for process-wide diagnostics, since the finalizer
// that detects this has no other way to reach application code.
var abandonedLogger atomic.Pointer[rlog.Logger]

// SetAbandonedLogger installs the sink used to report abandoned futures —
// ones collected by the GC without ever being waited on, chained, or
// detached. After logging, the finalizer panics (unrecovered, since
// finalizers run on their own goroutine), terminating the process, the
// closest Go analogue to a C++ future destructor finding unclaimed state.
func SetAbandonedLogger(l rlog.Logger) {
	abandonedLogger.Store(&l)
}

func logAbandoned(trace string) {
	p := abandonedLogger.Load()
	var l rlog.Logger
	if p == nil {
		l = rlog.Noop()
	} else {
		l = *p
	}
	l.Log(rlog.Entry{
		Level:    rlog.LevelFatal,
		Category: "future",
		Message:  "future garbage-collected without being observed",
		Fields:   map[string]any{"trace": trace},
	})
}

type futureState[T any] struct {
	mu       sync.Mutex
	done     chan struct{}
	value    T
	err      error
	settled  bool
	observed atomic.Bool
	trace    string
}

func (s *futureState[T]) settle(value T, err error) {
	s.mu.Lock()
	if s.settled {
		s.mu.Unlock()
		return
	}
	s.value = value
	s.err = err
	s.settled = true
	close(s.done)
	s.mu.Unlock()
}

func finalizeFutureState[T any](s *futureState[T]) {
	if !s.observed.Load() {
		logAbandoned(s.trace)
		panic("future: abandoned future collected without being observed")
	}
}

// Promise is the write side of a single-assignment result.
type Promise[T any] struct {
	s *futureState[T]
}

// Future is the read side of a single-assignment result: a small value
// type, safe to copy, safe to read from any number of goroutines.
type Future[T any] struct {
	s *futureState[T]
}

// New returns a pending Promise and its paired Future. trace, if non-
// empty, is attached to abandoned-future diagnostics.
func New[T any](trace string) (Promise[T], Future[T]) {
	s := &futureState[T]{done: make(chan struct{}), trace: trace}
	runtime.SetFinalizer(s, finalizeFutureState[T])
	return Promise[T]{s: s}, Future[T]{s: s}
}

// SetValue fulfills the promise. Only the first call (of SetValue or
// SetError) has an effect.
func (p Promise[T]) SetValue(v T) { p.s.settle(v, nil) }

// SetError rejects the promise. Only the first call has an effect.
func (p Promise[T]) SetError(err error) {
	var zero T
	p.s.settle(zero, err)
}

// Future returns the Future paired with this Promise.
func (p Promise[T]) Future() Future[T] { return Future[T]{s: p.s} }

// Compose runs task, drops the reference to it, then sets the promise's
// value — in that order, so resources captured by task are eligible for
// release before any waiter on the future wakes. A panic inside task
// rejects the promise instead of propagating.
func (p Promise[T]) Compose(task func() T) {
	defer func() {
		if r := recover(); r != nil {
			p.SetError(&PanicError{Value: r, Stack: debug.Stack()})
		}
	}()
	v := task()
	task = nil
	p.SetValue(v)
}

// Get blocks until the future settles and returns its value and error.
func (f Future[T]) Get() (T, error) {
	f.s.observed.Store(true)
	<-f.s.done
	return f.s.value, f.s.err
}

// Wait blocks until the future settles, discarding the result.
func (f Future[T]) Wait() {
	f.s.observed.Store(true)
	<-f.s.done
}

// Check is a non-blocking probe.
func (f Future[T]) Check() (settled bool, value T, err error) {
	f.s.observed.Store(true)
	select {
	case <-f.s.done:
		return true, f.s.value, f.s.err
	default:
		return false, value, nil
	}
}

// Done returns a channel closed once the future settles, for direct
// select-based composition — the idiomatic analogue of an awaitable's
// await_ready/await_suspend pair.
func (f Future[T]) Done() <-chan struct{} {
	f.s.observed.Store(true)
	return f.s.done
}

// Await blocks until the future settles or ctx is cancelled, whichever
// comes first.
func (f Future[T]) Await(ctx context.Context) (T, error) {
	f.s.observed.Store(true)
	select {
	case <-f.s.done:
		return f.s.value, f.s.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Discard downcasts a Future[T] into a Future[struct{}]: a future that
// settles when f does, carrying f's error (if any) but not its value.
func (f Future[T]) Discard() Future[struct{}] {
	pr, fut := New[struct{}](f.s.trace)
	go func() {
		_, err := f.Get()
		if err != nil {
			pr.SetError(err)
		} else {
			pr.SetValue(struct{}{})
		}
	}()
	return fut
}
