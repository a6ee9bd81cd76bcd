package sshbridge

import (
	"context"
	"io"
	"sync/atomic"
	"time"
)

// reentrancyGuard asserts that no two calls against the same handle tree
// ever overlap. Enter fails the guard if another call is in flight.
type reentrancyGuard struct {
	busy     int32
	violated int32
	calls    int32
}

func (g *reentrancyGuard) enter() {
	if !atomic.CompareAndSwapInt32(&g.busy, 0, 1) {
		atomic.StoreInt32(&g.violated, 1)
	}
	atomic.AddInt32(&g.calls, 1)
}

func (g *reentrancyGuard) exit() {
	atomic.StoreInt32(&g.busy, 0)
}

func (g *reentrancyGuard) ok() bool {
	return atomic.LoadInt32(&g.violated) == 0
}

// recordingWaiter counts readiness waits and records the directions it
// was asked to wait on. It never actually sleeps.
type recordingWaiter struct {
	dirs []Direction

	// failAfter, when > 0, makes the waiter return ErrTimeout once that
	// many waits have happened.
	failAfter int
}

func (w *recordingWaiter) WaitReady(_ context.Context, dir Direction, _ time.Time) error {
	w.dirs = append(w.dirs, dir)
	if w.failAfter > 0 && len(w.dirs) >= w.failAfter {
		return ErrTimeout
	}
	return nil
}

// blockingThenReady returns an attempt that reports would-block in dir
// exactly k times before succeeding.
func blockingThenReady(k int, dir Direction, attempts *int) func() error {
	return func() error {
		*attempts++
		if *attempts <= k {
			return &WouldBlockError{Direction: dir}
		}
		return nil
	}
}

// sliceDir is a RawDir serving a fixed set of entries.
type sliceDir struct {
	entries []*DirEntry
	closed  bool
}

func (d *sliceDir) Next() (*DirEntry, error) {
	if len(d.entries) == 0 {
		return nil, io.EOF
	}
	ent := d.entries[0]
	d.entries = d.entries[1:]
	return ent, nil
}

func (d *sliceDir) Close() error {
	d.closed = true
	return nil
}

func namedEntry(name string) *DirEntry {
	return &DirEntry{Name: name, Longname: "---------- 1 0 0 0 " + name}
}
