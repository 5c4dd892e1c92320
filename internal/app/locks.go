package app

import "sync"

// pathLocks serializes work per destination path. Two source files may
// resolve to the same destination; the duplicate and conflict checks only
// hold if one of them finishes before the other looks. Entries are
// reference-counted so the map does not grow with the run.
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	mu   sync.Mutex
	refs int
}

// acquire blocks until the lock for key is held and returns the release func.
func (p *pathLocks) acquire(key string) func() {
	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[string]*pathLock)
	}
	l := p.locks[key]
	if l == nil {
		l = &pathLock{}
		p.locks[key] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, key)
		}
		p.mu.Unlock()
	}
}
