package pcv

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// RecursiveMutex is a mutex a goroutine may re-lock while already holding
// it, tracked by goroutine id much as a reentrant mutex tracks a thread
// id. Go exposes no public goroutine-id API, so the id is recovered by
// parsing the "goroutine N [...]" header runtime.Stack prints — the
// standard no-dependency technique for this.
type RecursiveMutex struct {
	lock  sync.Mutex // the actual cross-goroutine exclusion primitive
	meta  sync.Mutex // guards owner/depth
	owner int64
	depth int
}

// Lock acquires the mutex. If the calling goroutine already holds it, the
// hold depth is incremented instead of blocking.
func (m *RecursiveMutex) Lock() {
	id := goroutineID()

	m.meta.Lock()
	if m.depth > 0 && m.owner == id {
		m.depth++
		m.meta.Unlock()
		return
	}
	m.meta.Unlock()

	m.lock.Lock()
	m.meta.Lock()
	m.owner = id
	m.depth = 1
	m.meta.Unlock()
}

// Unlock decrements the hold depth, releasing the mutex once it reaches
// zero. Unlock by a goroutine that does not hold the mutex is a
// programming error and panics.
func (m *RecursiveMutex) Unlock() {
	id := goroutineID()

	m.meta.Lock()
	if m.depth == 0 || m.owner != id {
		m.meta.Unlock()
		panic("pcv: Unlock of RecursiveMutex not held by calling goroutine")
	}
	m.depth--
	release := m.depth == 0
	m.meta.Unlock()

	if release {
		m.lock.Unlock()
	}
}

// goroutineID recovers the calling goroutine's runtime id by parsing the
// "goroutine N [running]:" header of a single-frame stack dump. It is
// intended for diagnostics and re-entrancy checks only, never for
// scheduling decisions.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseInt(string(b), 10, 64)
	return id
}

// SpinLock is a mutex tuned for very short critical sections: it busy-spins
// (yielding the processor) for a bounded number of attempts before falling
// back to a blocking lock.
type SpinLock struct {
	mu sync.Mutex
}

const spinAttempts = 10

// Lock acquires the lock, spinning briefly before blocking.
func (s *SpinLock) Lock() {
	for i := 0; i < spinAttempts; i++ {
		if s.mu.TryLock() {
			return
		}
		runtime.Gosched()
	}
	s.mu.Lock()
}

// Unlock releases the lock.
func (s *SpinLock) Unlock() { s.mu.Unlock() }

// TryLock attempts to acquire the lock without blocking.
func (s *SpinLock) TryLock() bool { return s.mu.TryLock() }
