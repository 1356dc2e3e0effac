package pool

import (
	"sync"
	"time"

	"github.com/rppcore/rpp/delegate"
	"github.com/rppcore/rpp/pcv"
	"github.com/rppcore/rpp/rtime"
)

// workerState is a PoolWorker's lifecycle state.
type workerState int32

const (
	workerIdle workerState = iota
	workerRunning
	workerReaped
	// workerZombie marks a worker whose run loop was signalled to stop but
	// did not exit within kill's timeout. Go has no thread-detach, so this
	// is the closest analogue: the pool stops tracking the worker as
	// joinable, while its goroutine (if it is ever unblocked) finishes on
	// its own and exits quietly.
	workerZombie
)

// poolWorker owns exactly one task slot: the thread pool decides which
// worker gets the next task, but once assigned, the worker runs it to
// completion with nothing else contending for its attention. There is
// deliberately no per-worker queue or work-stealing: the pool, not the
// worker, decides which worker gets the next task.
type poolWorker struct {
	pool *ThreadPool
	id   int

	mu      sync.Mutex
	cond    *pcv.Cond
	state   workerState
	task    delegate.Task
	handle  PoolTaskHandle
	hasTask bool
	killed  bool
	// exited is closed by run() immediately before it returns, letting
	// kill wait, with a timeout, for confirmation the goroutine is gone
	// rather than just for the killed flag to have been observed.
	exited chan struct{}
}

// alreadyExited is a pre-closed channel shared by every worker that has no
// live goroutine yet (fresh or already reaped), so kill can wait on
// w.exited uniformly without a nil check.
var alreadyExited = closedChan()

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func newPoolWorker(p *ThreadPool, id int) *poolWorker {
	w := &poolWorker{pool: p, id: id, state: workerReaped, exited: alreadyExited}
	w.cond = pcv.NewCond(&w.mu)
	return w
}

// assign hands the worker a task, respawning its goroutine if it had been
// reaped. Returns false if the worker already has a task in flight; the
// pool relies on this to skip busy workers.
func (w *poolWorker) assign(task delegate.Task, trace string) (PoolTaskHandle, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.hasTask {
		return PoolTaskHandle{}, false
	}
	h := newTaskHandle(trace)
	w.task = task
	w.handle = h
	w.hasTask = true
	reaped := w.state == workerReaped
	w.state = workerRunning
	if reaped {
		w.exited = make(chan struct{})
		w.killed = false
		go w.run()
	} else {
		w.cond.NotifyOne()
	}
	return h, true
}

// idle reports whether the worker currently holds no task (it may still be
// a live, parked goroutine waiting on its condition variable).
func (w *poolWorker) idle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.hasTask && w.state != workerReaped && w.state != workerZombie
}

func (w *poolWorker) reaped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == workerReaped
}

func (w *poolWorker) isZombie() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == workerZombie
}

// notRunning reports whether the worker currently has no task in flight —
// idle, reaped or zombie all qualify. This is the sweep predicate for
// ClearIdleTasks: every one of those states is safe to kill and drop, not
// just the idle-and-still-alive case.
func (w *poolWorker) notRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state != workerRunning
}

// kill requests the worker's run loop exit, waking it if it is parked
// idle, then waits up to timeout for the goroutine to actually finish its
// current task and return. On timeout it marks the worker Zombie instead
// of blocking further — the Go analogue of detaching the OS thread — and
// reports false; otherwise it reports true, meaning the worker has been
// joined and p.workers may safely forget about it.
func (w *poolWorker) kill(timeout rtime.Duration) (joined bool) {
	w.mu.Lock()
	if w.state == workerReaped || w.state == workerZombie {
		w.mu.Unlock()
		return true
	}
	w.killed = true
	exited := w.exited
	w.cond.NotifyAll()
	w.mu.Unlock()

	if waitChan(exited, timeout) {
		return true
	}

	w.mu.Lock()
	if w.state != workerReaped {
		w.state = workerZombie
	}
	w.mu.Unlock()
	return false
}

// waitChan blocks on ch for up to d, reporting whether ch fired before the
// deadline. d <= 0 is a non-blocking poll.
func waitChan(ch <-chan struct{}, d rtime.Duration) bool {
	if d <= 0 {
		select {
		case <-ch:
			return true
		default:
			return false
		}
	}
	t := time.NewTimer(d.Std())
	defer t.Stop()
	select {
	case <-ch:
		return true
	case <-t.C:
		return false
	}
}

// run is the worker's persistent goroutine body: wait for a
// task/kill/idle-timeout, run the task unlocked, clear the slot, signal
// completion, loop. The slot is cleared and the worker marked idle before
// signalling the handle, so a waiter unblocked by Wait always observes an
// idle, reusable worker rather than racing the worker's own bookkeeping.
func (w *poolWorker) run() {
	w.mu.Lock()
	exited := w.exited
	w.mu.Unlock()
	defer close(exited)

	for {
		w.mu.Lock()
		if !w.hasTask {
			w.cond.WaitForPredicate(w.pool.maxIdleTime, func() bool {
				return w.hasTask || w.killed
			})
			if !w.hasTask {
				// Either idle-timeout elapsed or kill arrived with no
				// task pending: reap either way.
				w.state = workerReaped
				w.mu.Unlock()
				return
			}
		}

		task := w.task
		handle := w.handle
		w.task = delegate.Task{}
		w.mu.Unlock()

		start := rtime.Now()
		var err error
		func() {
			defer recoverToError(&err)
			task.Run()
		}()
		w.pool.recordLatency(start.Elapsed().Seconds())

		w.mu.Lock()
		w.hasTask = false
		w.handle = PoolTaskHandle{}
		killedNow := w.killed
		if killedNow {
			w.state = workerReaped
		} else {
			w.state = workerIdle
		}
		w.mu.Unlock()

		handle.signalFinished(err)

		if killedNow {
			return
		}
	}
}
