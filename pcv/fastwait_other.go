//go:build !linux

package pcv

import "time"

// fastWaitTimeout blocks on ch for up to d using the portable time.Timer
// path. darwin and windows have no direct Go equivalent of timerfd cheap
// enough to justify cgo/syscall here, matching eventloop's own
// poller_darwin.go/poller_windows.go documented fast/slow-path split.
func fastWaitTimeout(ch <-chan struct{}, d time.Duration) bool {
	return genericWait(ch, d)
}
