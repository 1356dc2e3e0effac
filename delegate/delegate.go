package delegate

// Delegate is a single-argument, type-erased, value-comparable callable,
// used for log handlers, abort callbacks and task tracers — anywhere a
// single subscriber needs to be stored, compared, and later removed by
// equality rather than by index.
type Delegate[T any] struct {
	fn func(T)
	id ident
}

// New wraps a free function or top-level closure, identified by code
// pointer.
func New[T any](fn func(T)) Delegate[T] {
	return Delegate[T]{fn: fn, id: identForFunc(fn)}
}

// NewBound wraps a method value, identified by (receiver, method name).
func NewBound[T any](receiver any, method string, fn func(T)) Delegate[T] {
	return Delegate[T]{fn: fn, id: identForMethod(receiver, method)}
}

// NewClosure wraps an ad-hoc closure with heap-identity equality.
func NewClosure[T any](fn func(T)) Delegate[T] {
	return Delegate[T]{fn: fn, id: identForClosure()}
}

// Valid reports whether the Delegate wraps a callable.
func (d Delegate[T]) Valid() bool { return d.id.valid() }

// Call invokes the wrapped function. Calling an invalid Delegate panics.
func (d Delegate[T]) Call(arg T) { d.fn(arg) }

// Equal reports whether d and o were constructed from the same identity:
// same code pointer for free functions, same (receiver, method) pair for
// bound methods, or the same construction-time token for closures.
func (d Delegate[T]) Equal(o Delegate[T]) bool { return d.id.equal(o.id) }
