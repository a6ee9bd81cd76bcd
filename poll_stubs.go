//go:build !aix && !darwin && !dragonfly && !freebsd && !linux && !netbsd && !openbsd && !solaris
// +build !aix,!darwin,!dragonfly,!freebsd,!linux,!netbsd,!openbsd,!solaris

package sshbridge

import (
	"context"
	"time"
)

// FDWaiter is not supported on this platform; it degrades to the portable
// backoff waiter.
type FDWaiter struct {
	FD int

	fallback backoffWaiter
}

// WaitReady implements ReadinessWaiter.
func (w *FDWaiter) WaitReady(ctx context.Context, dir Direction, deadline time.Time) error {
	return w.fallback.WaitReady(ctx, dir, deadline)
}
