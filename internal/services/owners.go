package services

import (
	"sync"
	"time"
)

// DefaultIdleTTL is used when a service's IdleTTL is zero.
const DefaultIdleTTL = 30 * time.Minute

type ownerEntry[T any] struct {
	val      T
	refs     int
	lastSeen time.Time
}

// ownerTable holds one value per owner and drops values that have not been
// touched for ttl. An entry that is acquired and not yet released is never
// dropped, so a lock or a pending catalog request keeps its entry alive.
type ownerTable[T any] struct {
	mu        sync.Mutex
	entries   map[string]*ownerEntry[T]
	lastSweep time.Time
}

// acquire returns owner's value, creating it when absent, and pins it until
// release is called.
func (t *ownerTable[T]) acquire(owner string, clock func() time.Time, ttl time.Duration, create func() T) (T, func()) {
	now := clock()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sweepLocked(now, ttl)

	e, ok := t.entries[owner]
	if !ok {
		e = &ownerEntry[T]{val: create()}
		t.entries[owner] = e
	}
	e.refs++
	e.lastSeen = now

	return e.val, func() {
		at := clock()
		t.mu.Lock()
		e.refs--
		e.lastSeen = at
		t.mu.Unlock()
	}
}

// peek returns owner's value without creating one.
func (t *ownerTable[T]) peek(owner string, clock func() time.Time, ttl time.Duration) (T, bool) {
	now := clock()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.sweepLocked(now, ttl)

	e, ok := t.entries[owner]
	if !ok {
		var zero T
		return zero, false
	}
	e.lastSeen = now
	return e.val, true
}

func (t *ownerTable[T]) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// sweepLocked runs at most once per ttl.
func (t *ownerTable[T]) sweepLocked(now time.Time, ttl time.Duration) {
	if t.entries == nil {
		t.entries = make(map[string]*ownerEntry[T])
		t.lastSweep = now
		return
	}
	if now.Sub(t.lastSweep) < ttl {
		return
	}
	for k, e := range t.entries {
		if e.refs == 0 && now.Sub(e.lastSeen) >= ttl {
			delete(t.entries, k)
		}
	}
	t.lastSweep = now
}

func idleTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultIdleTTL
	}
	return d
}

func clockOrNow(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
