// Package closesync provides CloseSync, a read/write lock aimed at one
// specific problem: an object running async operations on background
// goroutines while something else wants to tear it down.
//
// Each async operation acquires a read guard via TryReadonlyLock before
// touching the object; if the guard reports it did not acquire (the
// object is already closing or gone), the operation returns immediately
// instead of touching freed/zeroed state. The owner calls LockForClose
// once, blocking until every outstanding read guard releases, then
// proceeds with teardown knowing no goroutine still holds a reference
// into live state.
//
// Grounded on original_source/src/rpp/close_sync.h's close_sync: a
// std::shared_mutex plus a liveness token, adapted to sync.RWMutex plus
// an atomic closed flag (Go has no destructor to hook the token into).
package closesync
