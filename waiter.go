package sshbridge

import (
	"context"
	"time"
)

// ReadinessWaiter blocks until the transport socket is ready in the given
// direction, the deadline passes, or ctx is done. Implementations must
// return ErrTimeout (possibly wrapped) once the deadline has elapsed.
//
// Waiting on the wrong direction stalls the retry loop indefinitely, so
// implementations must honor dir exactly.
type ReadinessWaiter interface {
	WaitReady(ctx context.Context, dir Direction, deadline time.Time) error
}

// backoffWaiter is the portable fallback used when the transport cannot
// expose a pollable descriptor. It sleeps with a doubling interval between
// retries, capped per attempt and bounded by the deadline.
type backoffWaiter struct {
	next time.Duration
}

const (
	backoffInitial = 5 * time.Millisecond
	backoffMax     = 250 * time.Millisecond
)

func (w *backoffWaiter) WaitReady(ctx context.Context, _ Direction, deadline time.Time) error {
	if w.next == 0 {
		w.next = backoffInitial
	}

	d := w.next
	if remain := time.Until(deadline); remain <= 0 {
		return ErrTimeout
	} else if d > remain {
		d = remain
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}

	if w.next < backoffMax {
		w.next *= 2
	}
	if !time.Now().Before(deadline) {
		return ErrTimeout
	}
	return nil
}
