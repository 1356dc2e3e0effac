package pool

import (
	"github.com/rppcore/rpp/delegate"
)

// chunk is a half-open [start, end) sub-range assigned to one task.
type chunk struct {
	start, end int
}

// partition splits [rangeStart, rangeEnd) into at most maxParallelism
// contiguous chunks.
//
// If maxRangeSize > 0, the chunk count is ceil(range/maxRangeSize),
// clamped to maxParallelism. Otherwise the range is split into
// min(maxParallelism, range) chunks of length round(range/taskCount); the
// last chunk absorbs any remainder. In both cases, if the chunk length
// covers the range before the last slot, fewer chunks are produced.
func partition(rangeStart, rangeEnd, maxRangeSize, maxParallelism int) []chunk {
	total := rangeEnd - rangeStart
	if total <= 0 {
		return nil
	}

	var taskCount int
	if maxRangeSize > 0 {
		taskCount = (total + maxRangeSize - 1) / maxRangeSize
		if taskCount > maxParallelism {
			taskCount = maxParallelism
		}
	} else {
		taskCount = maxParallelism
		if taskCount > total {
			taskCount = total
		}
	}
	if taskCount < 1 {
		taskCount = 1
	}

	chunks := make([]chunk, 0, taskCount)
	chunkLen := (total + taskCount - 1) / taskCount
	if maxRangeSize <= 0 {
		chunkLen = (total + taskCount/2) / taskCount
	}
	start := rangeStart
	for i := 0; i < taskCount && start < rangeEnd; i++ {
		end := start + chunkLen
		if i == taskCount-1 || end > rangeEnd {
			end = rangeEnd
		}
		chunks = append(chunks, chunk{start: start, end: end})
		start = end
	}
	return chunks
}

// ParallelFor partitions [rangeStart, rangeEnd) into up to MaxParallelism
// contiguous chunks and runs fn(chunkStart, chunkEnd) for each, either
// inline (when the effective chunk count is <= 1) or by submitting each
// chunk to a worker and waiting for all of them. If maxRangeSize > 0 the
// chunk count is ceil(range/maxRangeSize), still capped at MaxParallelism,
// so chunks are longer than maxRangeSize when the cap applies; pass 0 to
// use the default even split.
//
// If any chunk's task panics, the first captured panic is re-raised once
// every chunk has finished running.
func (p *ThreadPool) ParallelFor(rangeStart, rangeEnd, maxRangeSize int, fn func(start, end int)) {
	chunks := partition(rangeStart, rangeEnd, maxRangeSize, p.maxParallelism)
	if len(chunks) <= 1 {
		for _, c := range chunks {
			fn(c.start, c.end)
		}
		return
	}

	task := delegate.NewClosureRangeTask(fn)
	handles := make([]PoolTaskHandle, len(chunks))
	for i, c := range chunks {
		c := c
		handles[i] = p.submitTask(delegate.NewClosureTask(func() { task.Run(c.start, c.end) }))
	}

	var firstErr error
	for _, h := range handles {
		if err := h.WaitErr(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		panic(firstErr)
	}
}
