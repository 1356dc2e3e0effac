// Package rtime provides the nanosecond-resolution time primitives shared
// by the rest of the concurrency core: a signed Duration, monotonic and
// wall-clock TimePoint values, a Timer, and a StopWatch.
//
// All arithmetic is performed on a single int64 nanosecond representation,
// matching the range and overflow behavior of time.Duration. Wall-clock
// formatting caches the local timezone offset the way a long-lived daemon
// would, rather than re-resolving it on every call.
package rtime
