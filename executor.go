package sshbridge

import (
	"context"
	"sync"
)

type jobResult struct {
	v   any
	err error
}

// job is one unit of work queued against the session handle tree. The
// result channel is buffered so the worker never blocks delivering to a
// caller that abandoned the wait.
type job struct {
	fn   func() (any, error)
	done chan jobResult
}

// executor serializes all operations against one session's handle tree
// onto a single worker goroutine. Callers submit closures and are
// suspended on a channel receive until their turn completes; no caller
// ever touches the handle tree directly.
//
// Submission order is the execution order. A failing job does not disturb
// the executor; submission after close fails with ErrClosed.
type executor struct {
	jobs chan *job
	quit chan struct{}
	done chan struct{}

	closeOnce sync.Once
}

func newExecutor() *executor {
	e := &executor{
		jobs: make(chan *job),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *executor) run() {
	defer close(e.done)

	for {
		select {
		case <-e.quit:
			e.drain()
			return
		case j := <-e.jobs:
			v, err := j.fn()
			j.done <- jobResult{v: v, err: err}
		}
	}
}

// drain fails every job that was queued but not yet started.
func (e *executor) drain() {
	for {
		select {
		case j := <-e.jobs:
			j.done <- jobResult{err: ErrClosed}
		default:
			return
		}
	}
}

func (e *executor) enqueue(ctx context.Context, fn func() (any, error)) (jobResult, error) {
	j := &job{fn: fn, done: make(chan jobResult, 1)}

	select {
	case e.jobs <- j:
	case <-e.quit:
		return jobResult{}, ErrClosed
	case <-ctx.Done():
		return jobResult{}, ctx.Err()
	}

	select {
	case res := <-j.done:
		return res, nil
	case <-ctx.Done():
		// The job may still run; its result is discarded. Context
		// cancellation abandons the wait, it does not interrupt a job
		// that already holds the handle tree.
		return jobResult{}, ctx.Err()
	}
}

// submit queues fn and suspends the caller until it has run.
func (e *executor) submit(ctx context.Context, fn func() error) error {
	res, err := e.enqueue(ctx, func() (any, error) { return nil, fn() })
	if err != nil {
		return err
	}
	return res.err
}

// submitValue queues a closure producing a value, preserving the same
// ordering and teardown semantics as submit.
func submitValue[T any](ctx context.Context, e *executor, fn func() (T, error)) (T, error) {
	var zero T

	res, err := e.enqueue(ctx, func() (any, error) { return fn() })
	if err != nil {
		return zero, err
	}
	if v, ok := res.v.(T); ok {
		// Transfers report the byte count achieved before a failure
		// alongside the error, so the value is returned either way.
		return v, res.err
	}
	return zero, res.err
}

// close stops the worker after the running job finishes and fails all
// queued jobs with ErrClosed. It is idempotent and waits for the worker
// to exit.
func (e *executor) close() {
	e.closeOnce.Do(func() { close(e.quit) })
	<-e.done
}
