package cqueue

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rppcore/rpp/pcv"
)

// ErrEmpty is returned by Pop when the queue has no items.
var ErrEmpty = errors.New("cqueue: queue is empty")

const maxGrowStep = 16 * 1024
const shrinkCapacityThreshold = 8192

// ConcurrentQueue is a thread-safe FIFO queue backed by a contiguous,
// growable slice. Zero value is ready to use.
type ConcurrentQueue[T any] struct {
	mu      sync.Mutex
	cond    *pcv.Cond
	buf     []T
	head    int
	tail    int
	cleared atomic.Bool

	initOnce sync.Once
}

func (q *ConcurrentQueue[T]) init() {
	q.initOnce.Do(func() {
		q.cond = pcv.NewCond(&q.mu)
	})
}

// New constructs an empty ConcurrentQueue[T].
func New[T any]() *ConcurrentQueue[T] {
	q := &ConcurrentQueue[T]{}
	q.init()
	return q
}

// Len returns the current number of queued items. Safe to call
// concurrently, but the value may be stale by the time it's read.
func (q *ConcurrentQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tail - q.head
}

// Cap returns the current backing capacity.
func (q *ConcurrentQueue[T]) Cap() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

// Empty reports whether the queue currently holds no items.
func (q *ConcurrentQueue[T]) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.head == q.tail
}

// Push appends item and wakes one waiter.
func (q *ConcurrentQueue[T]) Push(item T) {
	q.init()
	q.mu.Lock()
	q.pushLocked(item)
	q.mu.Unlock()
	q.cond.NotifyOne()
}

// PushNoNotify appends item without waking any waiter.
func (q *ConcurrentQueue[T]) PushNoNotify(item T) {
	q.init()
	q.mu.Lock()
	q.pushLocked(item)
	q.mu.Unlock()
}

func (q *ConcurrentQueue[T]) pushLocked(item T) {
	if q.tail == len(q.buf) {
		q.ensureCapacity()
	}
	q.buf[q.tail] = item
	q.tail++
	q.cleared.Store(false)
}

// Pop removes and returns the front item, or ErrEmpty if the queue has no
// items.
func (q *ConcurrentQueue[T]) Pop() (T, error) {
	q.init()
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == q.tail {
		var zero T
		return zero, ErrEmpty
	}
	return q.popLocked(), nil
}

// TryPop attempts to pop without waiting, reporting whether an item was
// available.
func (q *ConcurrentQueue[T]) TryPop() (T, bool) {
	q.init()
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == q.tail {
		var zero T
		return zero, false
	}
	return q.popLocked(), true
}

// TryPopAll atomically drains every queued item.
func (q *ConcurrentQueue[T]) TryPopAll() ([]T, bool) {
	q.init()
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == q.tail {
		return nil, false
	}
	out := make([]T, q.tail-q.head)
	copy(out, q.buf[q.head:q.tail])
	q.clearLocked()
	return out, true
}

// PopAtomicStart moves the front item out without removing it from the
// queue; pair with PopAtomicEnd once the item has been fully processed.
func (q *ConcurrentQueue[T]) PopAtomicStart() (T, bool) {
	q.init()
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == q.tail {
		var zero T
		return zero, false
	}
	return q.buf[q.head], true
}

// PopAtomicEnd removes the item previously returned by PopAtomicStart.
func (q *ConcurrentQueue[T]) PopAtomicEnd() {
	q.init()
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head != q.tail {
		q.popLocked()
	}
}

// PopAtomic passes the front item to fn and removes it from the queue only
// after fn returns normally; if fn panics, the item stays at the front for
// the next caller.
func (q *ConcurrentQueue[T]) PopAtomic(fn func(T)) bool {
	item, ok := q.PopAtomicStart()
	if !ok {
		return false
	}
	fn(item)
	q.PopAtomicEnd()
	return true
}

// Clear empties the queue, releases an oversized backing array, and wakes
// every waiter.
func (q *ConcurrentQueue[T]) Clear() {
	q.init()
	q.mu.Lock()
	q.clearLocked()
	q.cleared.Store(true)
	q.mu.Unlock()
	q.cond.NotifyAll()
}

// Notify atomically runs changeWaitFlags under the queue's lock, then
// wakes every waiter — the prescribed way to flip an external
// cancellation flag consulted by WaitPopInterval without racing its
// waiters.
func (q *ConcurrentQueue[T]) Notify(changeWaitFlags func()) {
	q.init()
	q.mu.Lock()
	changeWaitFlags()
	q.mu.Unlock()
	q.cond.NotifyAll()
}

// NotifyOne wakes a single waiter without touching queue state.
func (q *ConcurrentQueue[T]) NotifyOne() {
	q.init()
	q.cond.NotifyOne()
}

func (q *ConcurrentQueue[T]) popLocked() T {
	item := q.buf[q.head]
	var zero T
	q.buf[q.head] = zero // drop the reference so it can be GC'd
	q.head++
	if q.head == q.tail {
		q.clearLocked()
	}
	return item
}

func (q *ConcurrentQueue[T]) clearLocked() {
	for i := q.head; i < q.tail; i++ {
		var zero T
		q.buf[i] = zero
	}
	if len(q.buf) > shrinkCapacityThreshold {
		q.buf = nil
	}
	q.head, q.tail = 0, 0
}

func (q *ConcurrentQueue[T]) ensureCapacity() {
	oldCap := len(q.buf)
	if oldCap > 0 && q.head >= oldCap/2 {
		// enough room exists once the live range is shifted to the front
		n := copy(q.buf, q.buf[q.head:q.tail])
		for i := n; i < q.tail; i++ {
			var zero T
			q.buf[i] = zero
		}
		q.tail = n
		q.head = 0
	} else {
		growBy := oldCap
		if growBy == 0 {
			growBy = 32
		}
		if growBy > maxGrowStep {
			growBy = maxGrowStep
		}
		newBuf := make([]T, oldCap+growBy)
		n := copy(newBuf, q.buf[q.head:q.tail])
		q.buf = newBuf
		q.head = 0
		q.tail = n
	}
}
