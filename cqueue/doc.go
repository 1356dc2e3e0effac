// Package cqueue provides ConcurrentQueue[T], a mutex-guarded queue backed
// by a single contiguous growable slice rather than a linked list or a
// channel, keeping a [Head,Tail) ⊆ [0,len(buf)) invariant: items are
// always contiguous in memory, and growth either shifts the
// live range to the front of the backing array or doubles it, whichever
// is cheaper.
//
// A Go channel would be the idiomatic first reach for a producer/consumer
// queue, but channels are fixed-capacity, have no peek/erase/atomic-pop
// API, and cannot be grown — none of which fit the operations this
// package exposes, so the growable-slice design is kept instead of
// reaching for chan T.
package cqueue
