package rtime

import "time"

// TimePoint is a Duration measured from an implementation-chosen epoch.
// Values produced by Now are monotonic; values produced by Local carry
// wall-clock semantics and format using the local timezone.
//
// TimePoint wraps a time.Time rather than re-deriving a raw nanosecond
// epoch, since time.Time already carries the runtime's monotonic reading
// alongside the wall-clock one — re-implementing that split would be a
// standard-library-only exercise with no third-party equivalent in the
// example corpus, so it is deliberately not duplicated here.
type TimePoint struct {
	t    time.Time
	wall bool
}

// IsZero reports whether this TimePoint is the zero value.
func (p TimePoint) IsZero() bool { return p.t.IsZero() }

// Sub returns the signed Duration elapsed from o to p (p - o).
func (p TimePoint) Sub(o TimePoint) Duration {
	return Duration(p.t.Sub(o.t))
}

// Add returns a new TimePoint offset by d.
func (p TimePoint) Add(d Duration) TimePoint {
	p.t = p.t.Add(d.Std())
	return p
}

// Before reports whether p occurs before o.
func (p TimePoint) Before(o TimePoint) bool { return p.t.Before(o.t) }

// After reports whether p occurs after o.
func (p TimePoint) After(o TimePoint) bool { return p.t.After(o.t) }

// Elapsed returns the Duration since p, as measured by Now.
func (p TimePoint) Elapsed() Duration {
	return Duration(nowMonotonic().Sub(p.t))
}

// Std exposes the underlying time.Time, for interop with stdlib/ecosystem
// APIs (context deadlines, zerolog timestamps, ...).
func (p TimePoint) Std() time.Time { return p.t }

// String formats a wall-clock TimePoint as RFC3339 with nanoseconds, or a
// monotonic TimePoint as its Duration since the Unix epoch.
func (p TimePoint) String() string {
	if p.wall {
		return p.t.Format("2006-01-02T15:04:05.000000000Z07:00")
	}
	return Duration(p.t.UnixNano()).String()
}

// Timer wraps a start TimePoint, exposing elapsed-time readers in several
// units plus a read-and-reset Next, matching a perf-logging "lap timer."
type Timer struct {
	start TimePoint
}

// NewTimer starts a Timer at the current monotonic time.
func NewTimer() Timer { return Timer{start: Now()} }

func (t Timer) Elapsed() Duration       { return t.start.Elapsed() }
func (t Timer) ElapsedSeconds() float64 { return t.start.Elapsed().Seconds() }
func (t Timer) ElapsedMS() int64        { return t.start.Elapsed().Millis() }
func (t Timer) ElapsedUS() int64        { return t.start.Elapsed().Micros() }

// Next returns the elapsed time since the last Next (or construction),
// then resets the internal start point — a single read-and-reset lap.
func (t *Timer) Next() Duration {
	now := Now()
	d := now.Sub(t.start)
	t.start = now
	return d
}

// StopWatch provides the usual start/stop/resume/reset two-timestamp
// semantics: Elapsed accumulates only the time spent in the "running"
// state, not time spent stopped.
type StopWatch struct {
	started TimePoint
	accrued Duration
	running bool
}

// NewStopWatch creates a StopWatch already running.
func NewStopWatch() *StopWatch {
	return &StopWatch{started: Now(), running: true}
}

// Start (re)starts the StopWatch from zero.
func (s *StopWatch) Start() {
	s.started = Now()
	s.accrued = 0
	s.running = true
}

// Stop pauses the StopWatch, accruing the time spent running so far.
func (s *StopWatch) Stop() {
	if s.running {
		s.accrued += Now().Sub(s.started)
		s.running = false
	}
}

// Resume continues a stopped StopWatch without resetting accrued time.
func (s *StopWatch) Resume() {
	if !s.running {
		s.started = Now()
		s.running = true
	}
}

// Reset clears accrued time; the running state is preserved.
func (s *StopWatch) Reset() {
	s.accrued = 0
	if s.running {
		s.started = Now()
	}
}

// Elapsed returns the total Duration accrued while running.
func (s *StopWatch) Elapsed() Duration {
	if s.running {
		return s.accrued + Now().Sub(s.started)
	}
	return s.accrued
}
