package rtime

import (
	"strconv"
	"strings"
	"time"
)

// Duration is a signed nanosecond count, matching time.Duration's range
// (roughly ±292 years). It exists as a distinct type, rather than a
// time.Duration alias, so its String/Format/ToStopwatchString methods can
// live next to the type they format without reopening the standard
// library's Duration.
type Duration int64

const (
	Nanosecond  Duration = 1
	Microsecond          = 1000 * Nanosecond
	Millisecond          = 1000 * Microsecond
	Second               = 1000 * Millisecond
	Minute               = 60 * Second
	Hour                 = 60 * Minute
	Day                  = 24 * Hour
	Year                 = 365 * Day
)

// FromSeconds builds a Duration from a fractional seconds value.
func FromSeconds(seconds float64) Duration {
	return Duration(seconds * float64(Second))
}

// FromMillis, FromMicros and FromNanos build a Duration from an integer
// count of the named unit.
func FromMillis(ms int64) Duration { return Duration(ms) * Millisecond }
func FromMicros(us int64) Duration { return Duration(us) * Microsecond }
func FromNanos(ns int64) Duration  { return Duration(ns) }

// Std converts to the standard library's time.Duration, for interop with
// APIs (time.Timer, context.WithTimeout, ...) that require it.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// FromStd converts a time.Duration into a Duration.
func FromStd(d time.Duration) Duration { return Duration(d) }

func (d Duration) Nanos() int64   { return int64(d) }
func (d Duration) Micros() int64  { return int64(d) / int64(Microsecond) }
func (d Duration) Millis() int64  { return int64(d) / int64(Millisecond) }
func (d Duration) Seconds() float64 {
	return float64(d) / float64(Second)
}

func (d Duration) Add(o Duration) Duration { return d + o }
func (d Duration) Sub(o Duration) Duration { return d - o }
func (d Duration) Neg() Duration           { return -d }
func (d Duration) Mul(n int64) Duration    { return d * Duration(n) }
func (d Duration) Div(n int64) Duration    { return d / Duration(n) }

func (d Duration) IsZero() bool     { return d == 0 }
func (d Duration) IsNegative() bool { return d < 0 }

// String formats the duration as Format(3) does: HH:MM:SS.mmm, preceded by
// "<years>Y-" when years are non-zero and "<days>D-" when days or years are
// non-zero, and a single leading '-' for negative durations.
func (d Duration) String() string {
	return d.Format(3)
}

// Format renders the duration with the given number of fractional-second
// digits (0-9). It never allocates more than one string; callers needing
// a fixed buffer should build on top of AppendFormat.
func (d Duration) Format(precision int) string {
	var b strings.Builder
	b.Grow(32)
	d.AppendFormat(&b, precision)
	return b.String()
}

// AppendFormat writes the HH:MM:SS[.frac] representation of d to b,
// avoiding the intermediate allocation String performs.
func (d Duration) AppendFormat(b *strings.Builder, precision int) {
	neg := d < 0
	n := int64(d)
	if neg {
		n = -n
		b.WriteByte('-')
	}

	years := n / int64(Year)
	n -= years * int64(Year)
	days := n / int64(Day)
	n -= days * int64(Day)
	hours := n / int64(Hour)
	n -= hours * int64(Hour)
	minutes := n / int64(Minute)
	n -= minutes * int64(Minute)
	seconds := n / int64(Second)
	n -= seconds * int64(Second)

	if years > 0 {
		writeInt(b, years)
		b.WriteString("Y-")
	}
	if days > 0 || years > 0 {
		writeInt(b, days)
		b.WriteString("D-")
	}
	writePadded(b, hours)
	b.WriteByte(':')
	writePadded(b, minutes)
	b.WriteByte(':')
	writePadded(b, seconds)

	if precision > 0 {
		if precision > 9 {
			precision = 9
		}
		frac := n
		for i := 9; i > precision; i-- {
			frac /= 10
		}
		b.WriteByte('.')
		digits := strconv.FormatInt(frac, 10)
		for i := len(digits); i < precision; i++ {
			b.WriteByte('0')
		}
		b.WriteString(digits)
	}
}

// ToStopwatchString renders a compact "[Nm Xs Yms Zus Qns]" form suitable
// for perf-log lines, omitting leading zero-valued units.
func (d Duration) ToStopwatchString(precision int) string {
	var b strings.Builder
	b.Grow(32)
	b.WriteByte('[')

	neg := d < 0
	n := int64(d)
	if neg {
		n = -n
		b.WriteByte('-')
	}

	minutes := n / int64(Minute)
	n -= minutes * int64(Minute)
	seconds := n / int64(Second)
	n -= seconds * int64(Second)
	millis := n / int64(Millisecond)
	n -= millis * int64(Millisecond)
	micros := n / int64(Microsecond)
	n -= micros * int64(Microsecond)
	nanos := n

	wrote := false
	if minutes > 0 {
		writeInt(&b, minutes)
		b.WriteString("m ")
		wrote = true
	}
	if seconds > 0 || wrote {
		writeInt(&b, seconds)
		b.WriteString("s ")
		wrote = true
	}
	if millis > 0 || wrote {
		writeInt(&b, millis)
		b.WriteString("ms ")
		wrote = true
	}
	if precision >= 2 && (micros > 0 || wrote) {
		writeInt(&b, micros)
		b.WriteString("us ")
		wrote = true
	}
	if precision >= 3 || !wrote {
		writeInt(&b, nanos)
		b.WriteString("ns ")
	}

	s := strings.TrimSuffix(b.String(), " ")
	return s + "]"
}

func writeInt(b *strings.Builder, v int64) {
	b.WriteString(strconv.FormatInt(v, 10))
}

func writePadded(b *strings.Builder, v int64) {
	if v < 10 {
		b.WriteByte('0')
	}
	writeInt(b, v)
}
