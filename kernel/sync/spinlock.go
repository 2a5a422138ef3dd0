// Package sync provides the single synchronization primitive the VM core
// needs: a non-reentrant spinlock. A real mutex would pull in the scheduler
// to park a blocked goroutine; this core runs below the scheduler, so it
// busy-waits instead, exactly like the kernel code it mirrors.
package sync

import "sync/atomic"

// Spinlock is held for the duration of every coremap scan and every
// pre-bootstrap RAM-steal, and is not safe to reacquire from the same
// holder: attempting to re-acquire a lock you already hold deadlocks, same
// as the reference kernel's spinlock.
type Spinlock struct {
	state uint32
}

// Acquire blocks until the lock is free and then takes it.
func (l *Spinlock) Acquire() {
	for !atomic.CompareAndSwapUint32(&l.state, 0, 1) {
		// busy-wait; there is no scheduler to yield to below the VM core
	}
}

// TryAcquire attempts to take the lock without blocking. It reports whether
// the lock was acquired.
func (l *Spinlock) TryAcquire() bool {
	return atomic.CompareAndSwapUint32(&l.state, 0, 1)
}

// Release frees the lock. Calling Release on an already-free lock is a no-op.
func (l *Spinlock) Release() {
	atomic.StoreUint32(&l.state, 0)
}
