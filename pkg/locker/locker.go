package locker

import (
	"sort"
	"sync"
)

// KeyLocker serializes mutations per product. A lock is created the first
// time a key is referenced and kept for the lifetime of the registry; the
// product id space is bounded by the catalog, so entries are never evicted.
type KeyLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an empty lock registry
func New() *KeyLocker {
	return &KeyLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *KeyLocker) lockFor(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	return lock
}

// Acquire locks the deduplicated key set in ascending order and returns the
// held locks. Every caller locking overlapping sets through Acquire observes
// the same global order, which rules out lock-order deadlocks.
func (l *KeyLocker) Acquire(keys ...string) []*sync.Mutex {
	seen := make(map[string]struct{}, len(keys))
	unique := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}
	sort.Strings(unique)

	held := make([]*sync.Mutex, 0, len(unique))
	for _, key := range unique {
		lock := l.lockFor(key)
		lock.Lock()
		held = append(held, lock)
	}
	return held
}

// Release unlocks a held set in reverse acquisition order
func (l *KeyLocker) Release(held []*sync.Mutex) {
	for i := len(held) - 1; i >= 0; i-- {
		held[i].Unlock()
	}
}

// Size reports how many keys have ever been locked
func (l *KeyLocker) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
