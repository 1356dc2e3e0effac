// Package pool implements a thread pool of lazily-created, persistent
// worker goroutines: submit a zero-argument task or a range (parallel-for)
// task and get back a PoolTaskHandle to wait on. Each worker owns exactly
// one task slot; there is no per-worker queue or work-stealing, so the
// pool itself decides which worker runs the next task.
package pool

import (
	"runtime"
	"sync"

	"github.com/rppcore/rpp/delegate"
	"github.com/rppcore/rpp/rlog"
	"github.com/rppcore/rpp/rtime"
	"github.com/rppcore/rpp/rtrace"
)

// ThreadPool owns a set of workers and dispatches tasks to them, creating
// new workers lazily and reaping idle ones after a configurable timeout.
type ThreadPool struct {
	maxParallelism int
	maxIdleTime    rtime.Duration
	tracer         rtrace.Provider
	logger         rlog.Logger

	mu      sync.Mutex
	workers []*poolWorker
	nextID  int

	statsMu  sync.Mutex
	hist     *latencyHistogram
	tasksRun int64
}

// Option configures a ThreadPool at construction, grounded on
// eventloop.LoopOption's functional-option pattern.
type Option interface {
	apply(*poolOptions)
}

type poolOptions struct {
	maxParallelism int
	maxIdleTime    rtime.Duration
	tracer         rtrace.Provider
	logger         rlog.Logger
}

type optionFunc func(*poolOptions)

func (f optionFunc) apply(o *poolOptions) { f(o) }

// WithMaxParallelism caps the number of chunks ParallelFor splits a range
// into. It does not limit Submit, which creates a new worker whenever no
// existing one can take the task. n <= 0 is ignored (the runtime.NumCPU()
// default is kept).
func WithMaxParallelism(n int) Option {
	return optionFunc(func(o *poolOptions) {
		if n > 0 {
			o.maxParallelism = n
		}
	})
}

// WithMaxTaskIdleTime overrides how long a worker waits for its next task
// before reaping its own goroutine. Default 15s.
func WithMaxTaskIdleTime(d rtime.Duration) Option {
	return optionFunc(func(o *poolOptions) { o.maxIdleTime = d })
}

// WithTaskTracer sets a submission-trace provider, called once per
// submitted task (once per chunk for ParallelFor) and stamped onto the
// resulting handle.
func WithTaskTracer(p rtrace.Provider) Option {
	return optionFunc(func(o *poolOptions) { o.tracer = p })
}

// WithLogger sets the sink for internal diagnostics (assertion failures).
// Defaults to rlog.Noop().
func WithLogger(l rlog.Logger) Option {
	return optionFunc(func(o *poolOptions) { o.logger = l })
}

func resolveOptions(opts []Option) *poolOptions {
	cfg := &poolOptions{
		maxParallelism: runtime.NumCPU(),
		maxIdleTime:    15 * rtime.Second,
		logger:         rlog.Noop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(cfg)
	}
	return cfg
}

// New constructs a ThreadPool with no workers yet created.
func New(opts ...Option) *ThreadPool {
	cfg := resolveOptions(opts)
	return &ThreadPool{
		maxParallelism: cfg.maxParallelism,
		maxIdleTime:    cfg.maxIdleTime,
		tracer:         cfg.tracer,
		logger:         cfg.logger,
		hist:           newLatencyHistogram(),
	}
}

var (
	defaultOnce sync.Once
	defaultPool *ThreadPool
)

// Default returns the process-wide thread pool, lazily constructed on
// first access with runtime.NumCPU()-sized default parallelism.
func Default() *ThreadPool {
	defaultOnce.Do(func() { defaultPool = New() })
	return defaultPool
}

func (p *ThreadPool) trace() string {
	if p.tracer == nil {
		return ""
	}
	return p.tracer()
}

func (p *ThreadPool) recordLatency(seconds float64) {
	p.statsMu.Lock()
	p.hist.Update(seconds)
	p.tasksRun++
	p.statsMu.Unlock()
}

// Submit hands fn to an idle worker, creating one if none is idle, and
// returns a handle the caller can Wait on.
func (p *ThreadPool) Submit(fn func()) PoolTaskHandle {
	return p.submitTask(delegate.NewTask(fn))
}

func (p *ThreadPool) submitTask(task delegate.Task) PoolTaskHandle {
	trace := p.trace()
	p.mu.Lock()
	for _, w := range p.workers {
		// assign itself rejects a busy worker; trying every worker (idle
		// or reaped) rather than pre-filtering also resurrects a reaped
		// one without a separate code path.
		if h, ok := w.assign(task, trace); ok {
			p.mu.Unlock()
			return h
		}
	}
	w := p.spawnWorkerLocked()
	h, ok := w.assign(task, trace)
	p.mu.Unlock()
	if !ok {
		// Lost a race against a concurrent submitter for a brand-new
		// worker; this cannot happen since the worker was just created
		// under p.mu and nobody else has a reference to it yet.
		p.logger.Log(rlog.Entry{Level: rlog.LevelError, Category: "pool", Message: "assign raced on a fresh worker"})
		panic("pool: assign raced on a fresh worker")
	}
	return h
}

// spawnWorkerLocked appends a brand-new reaped-state worker to the pool's
// worker set. Caller must hold p.mu.
func (p *ThreadPool) spawnWorkerLocked() *poolWorker {
	w := newPoolWorker(p, p.nextID)
	p.nextID++
	p.workers = append(p.workers, w)
	return w
}

// sweepJoinTimeout bounds how long ClearIdleTasks and Close wait for each
// swept worker's goroutine to actually exit before giving up on it and
// marking it Zombie. A worker being swept has no task in flight, so this
// only needs to cover scheduler latency for the goroutine to wake up and
// observe killed, not any application work.
const sweepJoinTimeout = 1 * rtime.Second

// ClearIdleTasks sweeps the worker set, reaping every worker that is not
// currently running a task — idle, already self-reaped (idle-timeout
// fired), or zombie — and returns how many were removed.
func (p *ThreadPool) ClearIdleTasks() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	kept := p.workers[:0]
	for _, w := range p.workers {
		if w.notRunning() {
			w.kill(sweepJoinTimeout)
			n++
			continue
		}
		kept = append(kept, w)
	}
	p.workers = kept
	return n
}

// Close signals every worker to stop and waits up to timeout per worker
// for its current task to finish before giving up and marking it Zombie
// rather than blocking shutdown indefinitely on a stuck task. It returns
// the number of workers that could not be joined within timeout.
func (p *ThreadPool) Close(timeout rtime.Duration) int {
	p.mu.Lock()
	workers := p.workers
	p.workers = nil
	p.mu.Unlock()

	zombies := 0
	for _, w := range workers {
		if !w.kill(timeout) {
			zombies++
		}
	}
	return zombies
}

// Stats is a point-in-time snapshot of pool activity.
type Stats struct {
	Workers  int
	Idle     int
	Running  int
	Zombie   int
	TasksRun int64
	Latency  LatencySnapshot
}

// Stats returns a point-in-time snapshot of worker counts and task-latency
// percentiles.
func (p *ThreadPool) Stats() Stats {
	p.mu.Lock()
	s := Stats{Workers: len(p.workers)}
	for _, w := range p.workers {
		switch {
		case w.idle():
			s.Idle++
		case w.isZombie():
			s.Zombie++
		case !w.reaped():
			s.Running++
		}
	}
	p.mu.Unlock()

	p.statsMu.Lock()
	s.TasksRun = p.tasksRun
	s.Latency = p.hist.Snapshot()
	p.statsMu.Unlock()
	return s
}
