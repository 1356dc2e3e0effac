// Package future implements Future[T] / Promise[T]: a single-assignment
// result shared between a producer (usually a pool.ThreadPool task) and
// any number of consumers, plus Promise/A+-flavored chaining.
//
// The chaining machinery (handler storage, panic-to-rejection conversion,
// resolve/reject under a lock) is grounded on eventloop's ChainedPromise,
// adapted from single-event-loop-thread microtask scheduling to
// pool.ThreadPool task scheduling: a continuation runs as a pool task
// rather than a queued microtask, so it may run on any worker goroutine.
//
// Go cannot express "then(fn) returns Future[U] for any U" as a method on
// Future[T] — methods may not introduce new type parameters — so the
// type-changing operations (Then, ThenFuture, RunTasks) are free
// functions instead of methods.
package future
