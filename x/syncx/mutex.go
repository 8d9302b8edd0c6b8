// Package syncx provides a mutual-exclusion lock with bounded-wait
// acquisition. Control tasks use it to guard shared state regions: a task
// that cannot take the lock within its budget skips that cycle's update
// instead of blocking the control period.
package syncx

import (
	"sync"
	"time"
)

type Mutex struct {
	once sync.Once
	ch   chan struct{}
}

func (m *Mutex) init() {
	m.once.Do(func() {
		m.ch = make(chan struct{}, 1)
		m.ch <- struct{}{}
	})
}

// Lock acquires the mutex, waiting indefinitely.
func (m *Mutex) Lock() {
	m.init()
	<-m.ch
}

// Unlock releases the mutex. Unlocking an unlocked Mutex panics.
func (m *Mutex) Unlock() {
	m.init()
	select {
	case m.ch <- struct{}{}:
	default:
		panic("syncx: unlock of unlocked mutex")
	}
}

// TryLock acquires the mutex only if it is free right now.
func (m *Mutex) TryLock() bool {
	m.init()
	select {
	case <-m.ch:
		return true
	default:
		return false
	}
}

// TryLockFor acquires the mutex, giving up after d. Reports whether the
// lock was taken.
func (m *Mutex) TryLockFor(d time.Duration) bool {
	m.init()
	select {
	case <-m.ch:
		return true
	default:
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-m.ch:
		return true
	case <-t.C:
		return false
	}
}
