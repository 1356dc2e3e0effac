package future

import (
	"runtime/debug"

	"github.com/rppcore/rpp/pool"
	"github.com/rppcore/rpp/rtime"
)

// ErrorHandler inspects an antecedent's error and either recovers (second
// return true, with a value for the child future) or declines (false),
// letting Then try the next handler or, failing all of them, propagate
// the error unchanged. Mirrors the up-to-four-typed-exception-handlers
// form of then(fn, handlerA, handlerB, ...), collapsed onto Go's single
// error type: callers distinguish cases with errors.As/errors.Is inside
// the handler itself.
type ErrorHandler[U any] func(err error) (U, bool)

// Then schedules onValue (or, on error, the first matching handler) on p
// once f settles, returning a Future[U] for the continuation's result.
// A panic inside onValue or a handler rejects the returned future instead
// of propagating to the worker.
func Then[T, U any](f Future[T], p *pool.ThreadPool, onValue func(T) (U, error), handlers ...ErrorHandler[U]) Future[U] {
	pr, fut := New[U](f.s.trace)
	p.Submit(func() {
		var v T
		// Drop onValue, handlers and v before settling pr, mirroring
		// Promise.Compose: whatever onValue's closure captured must be
		// eligible for release before the next stage wakes and runs, not
		// just before this goroutine happens to return.
		defer func() {
			if r := recover(); r != nil {
				onValue = nil
				handlers = nil
				var zero T
				v = zero
				pr.SetError(&PanicError{Value: r, Stack: debug.Stack()})
			}
		}()
		v, err := f.Get()
		if err != nil {
			onValue = nil
			for _, h := range handlers {
				if uv, ok := h(err); ok {
					handlers = nil
					pr.SetValue(uv)
					return
				}
			}
			handlers = nil
			pr.SetError(err)
			return
		}

		uv, uerr := onValue(v)
		onValue = nil
		handlers = nil
		var zero T
		v = zero
		if uerr != nil {
			pr.SetError(uerr)
			return
		}
		pr.SetValue(uv)
	})
	return fut
}

// ThenFuture waits for f, discards its value, then waits for next and
// adopts its result — "then(nextFuture)" in the typed-handler taxonomy.
func ThenFuture[T, U any](f Future[T], next Future[U]) Future[U] {
	pr, fut := New[U](next.s.trace)
	go func() {
		if _, err := f.Get(); err != nil {
			pr.SetError(err)
			return
		}
		v, err := next.Get()
		if err != nil {
			pr.SetError(err)
			return
		}
		pr.SetValue(v)
	}()
	return fut
}

// ContinueWith schedules fn on p once f settles and discards the result.
// Go has no move semantics, so f remains a usable value afterward, unlike
// a future whose contents are moved into the worker; using it again is
// simply pointless, not unsafe — a property the comment has to carry
// since the type system here cannot.
func ContinueWith[T any](f Future[T], p *pool.ThreadPool, fn func(T, error), handlers ...ErrorHandler[struct{}]) {
	p.Submit(func() {
		v, err := f.Get()
		if err != nil {
			for _, h := range handlers {
				if _, ok := h(err); ok {
					fn(v, nil)
					return
				}
			}
		}
		fn(v, err)
	})
}

// submitGuarded runs body on p, converting a panic into a call to
// onPanic instead of letting the pool's own task-level recovery swallow
// it — a plain p.Submit discards its PoolTaskHandle here, so without this
// a panicking continuation would leave its Promise pending forever.
func submitGuarded(p *pool.ThreadPool, body func(), onPanic func(error)) {
	p.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				onPanic(&PanicError{Value: r, Stack: debug.Stack()})
			}
		}()
		body()
	})
}

// Detach submits a background waiter that observes and swallows f's
// result, suppressing the abandoned-future diagnostic for futures whose
// outcome genuinely does not matter to the caller.
func Detach[T any](p *pool.ThreadPool, f Future[T]) {
	p.Submit(func() { f.Get() })
}

// MakeReadyFuture returns a Future already settled with value v.
func MakeReadyFuture[T any](v T) Future[T] {
	pr, fut := New[T]("")
	pr.SetValue(v)
	return fut
}

// MakeExceptionalFuture returns a Future already settled with err.
func MakeExceptionalFuture[T any](err error) Future[T] {
	pr, fut := New[T]("")
	pr.SetError(err)
	return fut
}

// WaitAll blocks until every future in fs has settled.
func WaitAll[T any](fs []Future[T]) {
	for _, f := range fs {
		f.Wait()
	}
}

// GetAll blocks until every future in fs has settled, returning their
// values and errors in the same order.
func GetAll[T any](fs []Future[T]) ([]T, []error) {
	values := make([]T, len(fs))
	errs := make([]error, len(fs))
	for i, f := range fs {
		values[i], errs[i] = f.Get()
	}
	return values, errs
}

// RunTasks submits launcher(item) to p for every item, fanning out
// len(items) independent tasks and returning one Future per item in
// input order.
func RunTasks[I, T any](p *pool.ThreadPool, items []I, launcher func(I) (T, error)) []Future[T] {
	out := make([]Future[T], len(items))
	for i, item := range items {
		item := item
		pr, fut := New[T]("")
		out[i] = fut
		submitGuarded(p, func() {
			v, err := launcher(item)
			if err != nil {
				pr.SetError(err)
				return
			}
			pr.SetValue(v)
		}, pr.SetError)
	}
	return out
}

// SubmitAwaiter submits fn to p and returns a Future that settles once it
// returns — the zero-argument-closure awaiter from the coroutine-interop
// contract, expressed without an actual coroutine.
func SubmitAwaiter(p *pool.ThreadPool, fn func()) Future[struct{}] {
	pr, fut := New[struct{}]("")
	p.Submit(func() {
		pr.Compose(func() struct{} {
			fn()
			return struct{}{}
		})
	})
	return fut
}

// SleepAwaiter submits a sleep of duration d to p and returns a Future
// that settles once the sleep completes — the duration awaiter from the
// coroutine-interop contract.
func SleepAwaiter(p *pool.ThreadPool, d rtime.Duration) Future[struct{}] {
	return SubmitAwaiter(p, func() { rtime.Sleep(d) })
}
