package pool

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rppcore/rpp/rtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadPool_SubmitRunsOnce(t *testing.T) {
	p := New(WithMaxTaskIdleTime(100 * rtime.Millisecond))
	var n atomic.Int32
	h := p.Submit(func() { n.Add(1) })
	h.Wait()
	assert.Equal(t, int32(1), n.Load())
}

func TestThreadPool_WaitErrPropagatesPanic(t *testing.T) {
	p := New()
	h := p.Submit(func() { panic("boom") })
	err := h.WaitErr()
	require.Error(t, err)
	var panicErr *TaskPanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "boom", panicErr.Value)
}

func TestThreadPool_WaitRethrowsPanic(t *testing.T) {
	p := New()
	h := p.Submit(func() { panic("boom") })
	assert.Panics(t, func() { h.Wait() })
}

func TestThreadPool_ReusesIdleWorker(t *testing.T) {
	p := New(WithMaxTaskIdleTime(time200ms))
	p.Submit(func() {}).Wait()
	p.Submit(func() {}).Wait()
	assert.Equal(t, 1, len(p.workers))
}

func TestThreadPool_ParallelForSumsRange(t *testing.T) {
	p := New()
	const n = 1000
	vals := make([]int, n)
	for i := range vals {
		vals[i] = 1
	}

	var total atomic.Int64
	p.ParallelFor(0, n, 0, func(start, end int) {
		sum := 0
		for i := start; i < end; i++ {
			sum += vals[i]
		}
		total.Add(int64(sum))
	})
	assert.EqualValues(t, n, total.Load())
}

func TestThreadPool_ParallelForRespectsMaxRangeSize(t *testing.T) {
	chunks := partition(0, 10, 3, 8)
	require.Len(t, chunks, 4)
	assert.Equal(t, chunk{0, 3}, chunks[0])
	assert.Equal(t, chunk{9, 10}, chunks[3])
}

func TestThreadPool_ParallelForInlineForSingleChunk(t *testing.T) {
	p := New(WithMaxParallelism(1))
	var calls int
	p.ParallelFor(0, 4, 0, func(start, end int) { calls++ })
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, len(p.workers), "inline execution must not spawn a worker")
}

func TestThreadPool_ClearIdleTasks(t *testing.T) {
	p := New()
	p.Submit(func() {}).Wait()
	require.Equal(t, 1, len(p.workers))
	n := p.ClearIdleTasks()
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, len(p.workers))
}

// TestThreadPool_ClearIdleTasksSweepsAlreadyReapedWorkers covers the case
// where a worker's own idle-timeout fires and reaps it before
// ClearIdleTasks ever runs: the sweep must still count and remove it, not
// just workers that are idle-and-still-alive.
func TestThreadPool_ClearIdleTasksSweepsAlreadyReapedWorkers(t *testing.T) {
	p := New(WithMaxTaskIdleTime(50 * rtime.Millisecond))
	p.Submit(func() {}).Wait()
	require.Equal(t, 1, len(p.workers))

	require.Eventually(t, func() bool {
		return p.workers[0].reaped()
	}, time.Second, 5*time.Millisecond, "worker never self-reaped after its idle timeout")

	n := p.ClearIdleTasks()
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, len(p.workers))

	p.Submit(func() {}).Wait()
	assert.Equal(t, 1, len(p.workers))
}

func TestThreadPool_CloseJoinsIdleWorkers(t *testing.T) {
	p := New()
	p.Submit(func() {}).Wait()
	require.Equal(t, 1, len(p.workers))

	zombies := p.Close(rtime.Second)
	assert.Equal(t, 0, zombies)
	assert.Equal(t, 0, len(p.workers))
}

func TestThreadPool_CloseMarksSlowTaskZombieOnTimeout(t *testing.T) {
	p := New()
	started := make(chan struct{})
	release := make(chan struct{})
	h := p.Submit(func() {
		close(started)
		<-release
	})
	<-started

	zombies := p.Close(10 * rtime.Millisecond)
	assert.Equal(t, 1, zombies)

	close(release)
	h.Wait()
}

func TestThreadPool_StatsTracksLatencyAndCount(t *testing.T) {
	p := New()
	for i := 0; i < 10; i++ {
		p.Submit(func() {}).Wait()
	}
	stats := p.Stats()
	assert.EqualValues(t, 10, stats.TasksRun)
	assert.Equal(t, 10, stats.Latency.Count)
}

const time200ms = 200 * rtime.Millisecond
