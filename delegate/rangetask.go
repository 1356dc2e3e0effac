package delegate

// RangeTask is the [start, end) callable submitted to ParallelFor. Each
// pool chunk invokes it once with its assigned sub-range.
type RangeTask struct {
	fn func(start, end int)
	id ident
}

// NewRangeTask wraps a free function or top-level closure.
func NewRangeTask(fn func(start, end int)) RangeTask {
	return RangeTask{fn: fn, id: identForFunc(fn)}
}

// NewClosureRangeTask wraps an ad-hoc closure with heap-identity equality.
func NewClosureRangeTask(fn func(start, end int)) RangeTask {
	return RangeTask{fn: fn, id: identForClosure()}
}

// Valid reports whether the RangeTask wraps a callable.
func (r RangeTask) Valid() bool { return r.id.valid() }

// Run invokes the wrapped function over [start, end).
func (r RangeTask) Run(start, end int) { r.fn(start, end) }

// Equal reports whether r and o share the same underlying identity.
func (r RangeTask) Equal(o RangeTask) bool { return r.id.equal(o.id) }
