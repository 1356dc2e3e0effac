// Package delegate provides type-erased, value-comparable callables: a
// zero-argument Task, a two-int RangeTask used by the pool's parallel-for
// partitioning, and a generic Delegate[T]/Multicast[T] pair for
// single-argument callbacks such as log handlers and task tracers.
//
// Go has first-class function values and closures, so none of this needs
// a tagged-union representation; what it cannot get for free is equality.
// A bare func value is only comparable to nil, so each constructor here
// additionally records an identity key, giving Delegate a three-way
// equality scheme: free functions compare by code pointer, bound methods
// by (receiver, method name), and closures by construction-time identity.
package delegate
