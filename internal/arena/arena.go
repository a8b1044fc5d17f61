// Package arena tracks the lifetime of per-operation buffers. A Lease is
// acquired when a bake or search allocates its working storage and must be
// released exactly once after the result has been consumed.
package arena

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var ErrReleased = errors.New("lease already released")

// Tracker counts leases that have been acquired and not yet released.
type Tracker struct {
	live     atomic.Int64
	acquired atomic.Int64
}

// Default is used by packages that do not carry their own tracker.
var Default = new(Tracker)

// Lease guards one operation's buffers.
type Lease struct {
	owner    string
	released atomic.Bool
	tracker  *Tracker
	onFree   func()
}

// Acquire opens a lease. onFree, if set, runs once on release and should
// drop the references to the buffers.
func (t *Tracker) Acquire(owner string, onFree func()) *Lease {
	t.live.Add(1)
	t.acquired.Add(1)
	return &Lease{owner: owner, tracker: t, onFree: onFree}
}

// Live is the number of unreleased leases.
func (t *Tracker) Live() int64 { return t.live.Load() }

// Acquired is the total number of leases ever opened.
func (t *Tracker) Acquired() int64 { return t.acquired.Load() }

// Release frees the buffers. A second call returns ErrReleased.
func (l *Lease) Release() error {
	if !l.released.CompareAndSwap(false, true) {
		return fmt.Errorf("%s: %w", l.owner, ErrReleased)
	}
	l.tracker.live.Add(-1)
	if l.onFree != nil {
		l.onFree()
	}
	return nil
}

// Check fails once the lease has been released.
func (l *Lease) Check() error {
	if l.released.Load() {
		return fmt.Errorf("%s: use after release: %w", l.owner, ErrReleased)
	}
	return nil
}
