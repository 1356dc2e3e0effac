package delegate

// Task is the zero-argument callable the thread pool schedules. It is a
// small value type: copying a Task is cheap and preserves its identity for
// equality purposes.
type Task struct {
	fn func()
	id ident
}

// NewTask wraps a free function or top-level closure as a Task, identified
// by code pointer. Two NewTask calls over the same function value (e.g. a
// package-level func passed twice) compare equal.
func NewTask(fn func()) Task {
	return Task{fn: fn, id: identForFunc(fn)}
}

// NewBoundTask wraps a method value, identified by (receiver, method name)
// rather than code pointer — Go's runtime shares one code pointer across
// every bound value of a given method, so code-pointer identity alone
// cannot distinguish receivers.
func NewBoundTask(receiver any, method string, fn func()) Task {
	return Task{fn: fn, id: identForMethod(receiver, method)}
}

// NewClosureTask wraps an ad-hoc closure with heap-identity equality: the
// returned Task equals copies of itself, but not a second Task built from
// an equivalent closure literal.
func NewClosureTask(fn func()) Task {
	return Task{fn: fn, id: identForClosure()}
}

// Valid reports whether the Task wraps a callable. Invoking an invalid
// Task panics; callers that accept an empty Task must check Valid first.
func (t Task) Valid() bool { return t.id.valid() }

// Run invokes the wrapped function.
func (t Task) Run() { t.fn() }

// Equal reports whether t and o share the same underlying identity.
func (t Task) Equal(o Task) bool { return t.id.equal(o.id) }
