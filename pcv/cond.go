package pcv

import (
	"sync"

	"github.com/rppcore/rpp/rtime"
)

// Cond is a condition variable paired with an external *sync.Mutex, in the
// spirit of sync.Cond, but backed by per-wait ticket channels so NotifyOne
// can wake exactly one waiter and every wait has a timeout/deadline form.
//
// The caller must hold L before calling any Wait* method; each method
// releases L for the duration of the wait and re-acquires it before
// returning, matching sync.Cond's contract.
type Cond struct {
	L *sync.Mutex

	mu      sync.Mutex
	waiters []chan struct{}
}

// NewCond returns a Cond guarded by l.
func NewCond(l *sync.Mutex) *Cond {
	return &Cond{L: l}
}

func (c *Cond) register() chan struct{} {
	ch := make(chan struct{})
	c.mu.Lock()
	c.waiters = append(c.waiters, ch)
	c.mu.Unlock()
	return ch
}

func (c *Cond) unregister(ch chan struct{}) {
	c.mu.Lock()
	for i, w := range c.waiters {
		if w == ch {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
}

// Wait releases L, blocks until a notification arrives, then re-acquires L.
func (c *Cond) Wait() {
	ch := c.register()
	c.L.Unlock()
	<-ch
	c.L.Lock()
}

// WaitFor releases L and blocks until notified or timeout elapses,
// reporting which occurred. L is re-acquired before returning either way.
func (c *Cond) WaitFor(timeout rtime.Duration) (woken bool) {
	ch := c.register()
	c.L.Unlock()
	defer c.L.Lock()

	if fastWaitTimeout(ch, timeout.Std()) {
		return true
	}
	c.unregister(ch)
	// A notification may have raced the unregister; a closed channel
	// still reads its zero value without blocking.
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

// WaitUntil releases L and blocks until notified or deadline passes.
func (c *Cond) WaitUntil(deadline rtime.TimePoint) (woken bool) {
	return c.WaitFor(deadline.Sub(rtime.Now()))
}

// WaitPredicate loops on Wait until pred returns true. L must be held
// while pred inspects shared state.
func (c *Cond) WaitPredicate(pred func() bool) {
	for !pred() {
		c.Wait()
	}
}

// WaitForPredicate loops on WaitFor, bounded by an overall deadline, until
// pred returns true or time runs out. Reports pred's final value.
func (c *Cond) WaitForPredicate(timeout rtime.Duration, pred func() bool) bool {
	deadline := rtime.Now().Add(timeout)
	for !pred() {
		remaining := deadline.Sub(rtime.Now())
		if remaining <= 0 {
			return pred()
		}
		if !c.WaitFor(remaining) {
			return pred()
		}
	}
	return true
}

// NotifyOne wakes at most one waiter, the one registered longest ago.
func (c *Cond) NotifyOne() {
	c.mu.Lock()
	if len(c.waiters) == 0 {
		c.mu.Unlock()
		return
	}
	ch := c.waiters[0]
	c.waiters = c.waiters[1:]
	c.mu.Unlock()
	close(ch)
}

// NotifyAll wakes every current waiter.
func (c *Cond) NotifyAll() {
	c.mu.Lock()
	ws := c.waiters
	c.waiters = nil
	c.mu.Unlock()
	for _, ch := range ws {
		close(ch)
	}
}
