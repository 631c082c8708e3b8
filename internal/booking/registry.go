package booking

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ShowLock guards the seat inventory of a single show.
type ShowLock struct {
	sem *semaphore.Weighted
}

func newShowLock() *ShowLock {
	return &ShowLock{sem: semaphore.NewWeighted(1)}
}

// Lock blocks until the lock is held or ctx is done. When an error is
// returned the caller does not hold the lock.
func (l *ShowLock) Lock(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

func (l *ShowLock) TryLock() bool {
	return l.sem.TryAcquire(1)
}

func (l *ShowLock) Unlock() {
	l.sem.Release(1)
}

// ShowLockRegistry hands out one ShowLock per show id, creating it on first
// use. Locks are never evicted.
type ShowLockRegistry struct {
	mu    sync.Mutex
	locks map[int]*ShowLock
}

func NewShowLockRegistry() *ShowLockRegistry {
	return &ShowLockRegistry{
		locks: make(map[int]*ShowLock),
	}
}

func (r *ShowLockRegistry) LockFor(showID int) *ShowLock {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[showID]
	if !ok {
		lock = newShowLock()
		r.locks[showID] = lock
	}

	return lock
}

func (r *ShowLockRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.locks)
}
