package sshbridge

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// invoker runs a single blocking protocol call, converting the transient
// "would block" signal into a readiness wait followed by a retry. The
// retry count is unbounded; wall-clock time is bounded by the per-call
// deadline. Only definitive results propagate to the caller.
//
// An invoker is only ever used from inside the session executor's
// serialized context.
type invoker struct {
	waiter  ReadinessWaiter
	timeout time.Duration
}

// do runs attempt until it returns a definitive result. Each transient
// result suspends the calling task until the socket is ready in the
// direction the signal named.
func (iv *invoker) do(ctx context.Context, attempt func() error) error {
	deadline := time.Now().Add(iv.timeout)

	for {
		err := attempt()

		wb, ok := transient(err)
		if !ok {
			return err
		}

		if werr := iv.waiter.WaitReady(ctx, wb.Direction, deadline); werr != nil {
			if errors.Is(werr, ErrTimeout) {
				return errors.Wrapf(ErrTimeout, "waiting to %s", wb.Direction)
			}
			return werr
		}
	}
}

// invoke runs a blocking call that produces a value, with the same retry
// semantics as invoker.do.
func invoke[T any](ctx context.Context, iv *invoker, attempt func() (T, error)) (T, error) {
	var v T
	err := iv.do(ctx, func() error {
		var err error
		v, err = attempt()
		return err
	})
	return v, err
}
