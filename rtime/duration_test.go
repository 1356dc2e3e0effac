package rtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuration_Format(t *testing.T) {
	cases := []struct {
		name string
		d    Duration
		prec int
		want string
	}{
		{"zero", 0, 0, "00:00:00"},
		{"seconds", 5 * Second, 0, "00:00:05"},
		{"with millis", 1500 * Millisecond, 3, "00:00:01.500"},
		{"hours minutes seconds", 1*Hour + 2*Minute + 3*Second, 0, "01:02:03"},
		{"negative", -5 * Second, 0, "-00:00:05"},
		{"days", 25 * Hour, 0, "1D-01:00:00"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.d.Format(c.prec))
		})
	}
}

func TestDuration_ArithmeticRoundTrip(t *testing.T) {
	// For any TimePoint a and non-negative Duration d, (a + d) - a == d.
	a := Now()
	d := Duration(12345678)
	assert.Equal(t, d, a.Add(d).Sub(a))
}

func TestDuration_ToStopwatchString(t *testing.T) {
	got := (2*Minute + 3*Second + 4*Millisecond).ToStopwatchString(1)
	assert.Equal(t, "[2m 3s 4ms]", got)

	got = Duration(500).ToStopwatchString(3)
	assert.Equal(t, "[500ns]", got)
}

func TestDuration_Negative(t *testing.T) {
	d := Duration(-1500000000)
	assert.True(t, d.IsNegative())
	assert.Equal(t, "-00:00:01.500", d.Format(3))
}
