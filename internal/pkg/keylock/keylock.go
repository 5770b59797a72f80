// Package keylock provides mutexes keyed by entity identity.
//
// Each key gets its own mutex; goroutines working on different keys never
// contend. Entries are reference counted and dropped when the last holder
// or waiter releases them, so the map only grows with in-flight keys.
package keylock

import (
	"sync"

	"github.com/google/uuid"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

type Locker struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

func New() *Locker {
	return &Locker{entries: make(map[uuid.UUID]*entry)}
}

// Lock blocks until the lock for key is held and returns its unlock func.
func (l *Locker) Lock(key uuid.UUID) func() {
	e := l.acquire(key)
	e.mu.Lock()
	return func() { l.release(key, e) }
}

// TryLock returns false without blocking if key is already locked.
func (l *Locker) TryLock(key uuid.UUID) (func(), bool) {
	e := l.acquire(key)
	if !e.mu.TryLock() {
		l.drop(key, e)
		return nil, false
	}
	return func() { l.release(key, e) }, true
}

func (l *Locker) acquire(key uuid.UUID) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *Locker) release(key uuid.UUID, e *entry) {
	e.mu.Unlock()
	l.drop(key, e)
}

func (l *Locker) drop(key uuid.UUID, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// Len reports the number of keys currently held or awaited.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
