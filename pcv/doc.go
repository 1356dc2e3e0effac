// Package pcv ("precision condition variable") provides a cancelable,
// timeout-capable condition variable and a goroutine-aware recursive
// mutex, for the sub-cases of waiting that sync.Cond cannot express:
// bounded waits, predicate polling, and re-entrant locking.
//
// Cond is built on a per-wait ticket channel rather than sync.Cond's
// broadcast-only semantics, so NotifyOne can target exactly one waiter.
// On linux, finite waits under ~2ms additionally arm a timerfd (grounded
// on the epoll/eventfd machinery in eventloop's poller_linux.go and
// wakeup_linux.go) instead of relying solely on the Go runtime's timer
// heap; every other platform uses the portable time.Timer path.
package pcv
