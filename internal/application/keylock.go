package application

import "sync"

// keyedMutex serializes transitions per project id. Operations on
// different projects proceed fully concurrently; two transitions for the
// same project never interleave their read-modify-write.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uint]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[uint]*keyedLock)}
}

func (k *keyedMutex) Lock(id uint) {
	k.mu.Lock()
	l, ok := k.locks[id]
	if !ok {
		l = &keyedLock{}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
}

func (k *keyedMutex) Unlock(id uint) {
	k.mu.Lock()
	l := k.locks[id]
	l.refs--
	if l.refs == 0 {
		delete(k.locks, id)
	}
	k.mu.Unlock()

	l.mu.Unlock()
}
