//go:build linux

package pcv

import (
	"time"

	"golang.org/x/sys/unix"
)

// fastWaitThreshold is the boundary under which a timerfd is armed instead
// of a Go runtime timer, for tighter sub-millisecond wake latency.
const fastWaitThreshold = 2 * time.Millisecond

// fastWaitTimeout blocks on ch for up to d. Sub-threshold waits are backed
// by CLOCK_MONOTONIC timerfd, grounded on eventloop's epoll+eventfd poller
// (poller_linux.go, wakeup_linux.go), so wake latency isn't at the mercy
// of the Go scheduler's timer-bucket granularity.
func fastWaitTimeout(ch <-chan struct{}, d time.Duration) bool {
	if d <= 0 || d >= fastWaitThreshold {
		return genericWait(ch, d)
	}
	return timerfdWait(ch, d)
}

func timerfdWait(ch <-chan struct{}, d time.Duration) bool {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, 0)
	if err != nil {
		return genericWait(ch, d)
	}
	defer func() { _ = unix.Close(fd) }()

	spec := unix.ItimerSpec{Value: unix.NsecToTimespec(d.Nanoseconds())}
	if spec.Value.Sec == 0 && spec.Value.Nsec == 0 {
		spec.Value.Nsec = 1 // TimerfdSettime treats an all-zero value as "disarm"
	}
	if err := unix.TimerfdSettime(fd, 0, &spec, nil); err != nil {
		return genericWait(ch, d)
	}

	fired := make(chan struct{})
	go func() {
		var buf [8]byte
		_, _ = unix.Read(fd, buf[:])
		close(fired)
	}()

	select {
	case <-ch:
		return true
	case <-fired:
		return false
	}
}
