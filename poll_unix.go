//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

package sshbridge

import (
	"context"
	"time"

	"golang.org/x/sys/unix"
)

// FDWaiter waits for readiness of a transport socket by file descriptor
// using poll(2). It is the waiter of choice for transports whose socket is
// a plain kernel descriptor.
type FDWaiter struct {
	FD int
}

// pollSlice keeps the wait loop responsive to context cancellation without
// registering the fd with the runtime poller.
const pollSlice = 100 * time.Millisecond

// WaitReady implements ReadinessWaiter.
func (w *FDWaiter) WaitReady(ctx context.Context, dir Direction, deadline time.Time) error {
	var events int16
	switch dir {
	case DirRead:
		events = unix.POLLIN
	case DirWrite:
		events = unix.POLLOUT
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		remain := time.Until(deadline)
		if remain <= 0 {
			return ErrTimeout
		}
		if remain > pollSlice {
			remain = pollSlice
		}

		fds := []unix.PollFd{{Fd: int32(w.FD), Events: events}}

		n, err := unix.Poll(fds, int(remain.Milliseconds())+1)
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return err
		}
		if n > 0 {
			// POLLERR/POLLHUP also unblock the protocol call, which
			// will then report the definitive failure itself.
			return nil
		}
	}
}
