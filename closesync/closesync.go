package closesync

import (
	"sync"
	"sync/atomic"

	"github.com/rppcore/rpp/rlog"
)

// Guard is the result of TryReadonlyLock: a release-func handle. A Guard
// with Acquired() == false holds no lock and Release is a no-op, so
// callers can always defer g.Release() unconditionally right after the
// acquired check.
type Guard struct {
	release func()
}

// Acquired reports whether the guard actually holds the read lock.
func (g Guard) Acquired() bool { return g.release != nil }

// Release releases the read lock, if held. Safe to call on a zero Guard.
func (g Guard) Release() {
	if g.release != nil {
		g.release()
	}
}

// CloseSync guards destruction against in-flight async operations. The
// zero value is ready to use.
type CloseSync struct {
	mu       sync.RWMutex
	closing  atomic.Bool
	closed   atomic.Bool
	logger   rlog.Logger
}

// New returns a CloseSync that logs misuse (a double LockForClose call)
// through l. A nil or omitted logger falls back to rlog.Noop().
func New(l rlog.Logger) *CloseSync {
	if l == nil {
		l = rlog.Noop()
	}
	return &CloseSync{logger: l}
}

// IsAlive reports whether LockForClose has not yet fully completed.
func (c *CloseSync) IsAlive() bool { return !c.closed.Load() }

// IsClosing reports whether LockForClose has been called, whether or not
// it has finished waiting out in-flight guards.
func (c *CloseSync) IsClosing() bool { return c.closing.Load() }

// IsDeadOrClosing reports whether the object is either already gone or in
// the process of going — the check async code should use before doing
// any work that assumes the object stays alive.
func (c *CloseSync) IsDeadOrClosing() bool { return c.closing.Load() || c.closed.Load() }

// TryReadonlyLock attempts to acquire a read guard. It fails (returns a
// Guard with Acquired() == false) if the object is already closing or
// closed; callers must check Acquired before using the object.
func (c *CloseSync) TryReadonlyLock() Guard {
	if c.closing.Load() || c.closed.Load() {
		return Guard{}
	}
	// Must be a non-blocking try: sync.RWMutex gives a pending writer
	// priority over new readers, so a blocking RLock here could stall
	// forever behind a LockForClose that already won Lock and will never
	// Unlock (by design, it holds mu for the rest of the object's life).
	if !c.mu.TryRLock() {
		return Guard{}
	}
	// Re-check after acquiring: a LockForClose that started between the
	// Load above and TryRLock here will have lost the race for mu (it
	// only proceeds once every reader, including this one, lets go).
	if c.closing.Load() {
		c.mu.RUnlock()
		return Guard{}
	}
	return Guard{release: c.mu.RUnlock}
}

// LockForClose acquires the exclusive lock, blocking until every
// outstanding read guard releases, and marks the object closed. It is
// meant to run once, in the owning object's teardown path; calling it a
// second time logs an error and returns without blocking.
func (c *CloseSync) LockForClose() {
	if !c.closing.CompareAndSwap(false, true) {
		if c.logger != nil {
			c.logger.Log(rlog.Entry{
				Level:    rlog.LevelError,
				Category: "closesync",
				Message:  "LockForClose called twice",
			})
		}
		return
	}
	c.mu.Lock()
	c.closed.Store(true)
}
